package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Tracking contains signal-source and step-ledger tuning.
type Tracking struct {
	Autostart            bool    `toml:"autostart"`
	HardwarePollMillis   int     `toml:"hardware_poll_ms"`
	HardwareFailureLimit int     `toml:"hardware_failure_limit"`
	AccelSampleMillis    int     `toml:"accel_sample_ms"`
	PeakLowerThreshold   float64 `toml:"peak_lower_threshold"`
	PeakUpperThreshold   float64 `toml:"peak_upper_threshold"`
	StepDebounceMillis   int     `toml:"step_debounce_ms"`
	PersistBatchSteps    int     `toml:"persist_batch_steps"`
	RolloverCheckSeconds int     `toml:"rollover_check_seconds"`
	DailyGoal            int     `toml:"daily_goal"`
	SysfsDir             string  `toml:"iio_sysfs_dir"`
	ForceAccelerometer   bool    `toml:"force_accelerometer"`
}

// Sedentary contains inactivity-monitor tuning.
type Sedentary struct {
	Enabled              bool `toml:"enabled"`
	IdleThresholdMinutes int  `toml:"idle_threshold_minutes"`
	CooldownMinutes      int  `toml:"cooldown_minutes"`
	PollIntervalMinutes  int  `toml:"poll_interval_minutes"`
	MinActivitySteps     int  `toml:"min_activity_steps"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Sedentary      bool   `toml:"sedentary"`
	DailyGoal      bool   `toml:"daily_goal"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for stride.
//
// Configuration sections by subsystem:
//   - Paths: data and log directories
//   - Tracking: source polling, peak-detection thresholds, ledger batching
//   - Sedentary: idle threshold, nudge cooldown, poll interval
//   - Notifications: ntfy topic and per-event toggles
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Tracking      Tracking      `toml:"tracking"`
	Sedentary     Sedentary     `toml:"sedentary"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// HardwarePollInterval returns the hardware counter poll cadence.
func (t Tracking) HardwarePollInterval() time.Duration {
	return time.Duration(t.HardwarePollMillis) * time.Millisecond
}

// AccelSampleInterval returns the accelerometer sampling cadence.
func (t Tracking) AccelSampleInterval() time.Duration {
	return time.Duration(t.AccelSampleMillis) * time.Millisecond
}

// StepDebounce returns the minimum gap between accepted accelerometer steps.
func (t Tracking) StepDebounce() time.Duration {
	return time.Duration(t.StepDebounceMillis) * time.Millisecond
}

// RolloverCheckInterval returns the idle day-rollover check cadence.
func (t Tracking) RolloverCheckInterval() time.Duration {
	return time.Duration(t.RolloverCheckSeconds) * time.Second
}

// IdleThreshold returns the idle duration after which a nudge becomes eligible.
func (s Sedentary) IdleThreshold() time.Duration {
	return time.Duration(s.IdleThresholdMinutes) * time.Minute
}

// Cooldown returns the minimum gap between nudges.
func (s Sedentary) Cooldown() time.Duration {
	return time.Duration(s.CooldownMinutes) * time.Minute
}

// PollInterval returns the periodic sedentary check cadence.
func (s Sedentary) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalMinutes) * time.Minute
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/stride/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("stride.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
