package config

const (
	defaultDataDir = "~/.local/share/stride"
	defaultLogDir  = "~/.local/share/stride/logs"

	defaultHardwarePollMillis   = 1000
	defaultHardwareFailureLimit = 3
	defaultAccelSampleMillis    = 50
	defaultPeakLowerThreshold   = 1.15
	defaultPeakUpperThreshold   = 2.5
	defaultStepDebounceMillis   = 250
	defaultPersistBatchSteps    = 10
	defaultRolloverCheckSeconds = 60
	defaultDailyGoal            = 10000
	defaultSysfsDir             = "/sys/bus/iio/devices"

	defaultIdleThresholdMinutes = 45
	defaultCooldownMinutes      = 30
	defaultPollIntervalMinutes  = 5
	defaultMinActivitySteps     = 50

	defaultNotifyRequestTimeout = 10

	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Tracking: Tracking{
			Autostart:            true,
			HardwarePollMillis:   defaultHardwarePollMillis,
			HardwareFailureLimit: defaultHardwareFailureLimit,
			AccelSampleMillis:    defaultAccelSampleMillis,
			PeakLowerThreshold:   defaultPeakLowerThreshold,
			PeakUpperThreshold:   defaultPeakUpperThreshold,
			StepDebounceMillis:   defaultStepDebounceMillis,
			PersistBatchSteps:    defaultPersistBatchSteps,
			RolloverCheckSeconds: defaultRolloverCheckSeconds,
			DailyGoal:            defaultDailyGoal,
			SysfsDir:             defaultSysfsDir,
		},
		Sedentary: Sedentary{
			Enabled:              true,
			IdleThresholdMinutes: defaultIdleThresholdMinutes,
			CooldownMinutes:      defaultCooldownMinutes,
			PollIntervalMinutes:  defaultPollIntervalMinutes,
			MinActivitySteps:     defaultMinActivitySteps,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Sedentary:      true,
			DailyGoal:      true,
			Errors:         true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
