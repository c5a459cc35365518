package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTracking(); err != nil {
		return err
	}
	if err := c.validateSedentary(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTracking() error {
	t := c.Tracking
	if t.HardwarePollMillis <= 0 {
		return errors.New("tracking.hardware_poll_ms must be positive")
	}
	if t.AccelSampleMillis <= 0 {
		return errors.New("tracking.accel_sample_ms must be positive")
	}
	if t.PeakLowerThreshold <= 0 {
		return errors.New("tracking.peak_lower_threshold must be positive")
	}
	if t.PeakUpperThreshold <= t.PeakLowerThreshold {
		return fmt.Errorf("tracking.peak_upper_threshold must exceed peak_lower_threshold (%.2f)", t.PeakLowerThreshold)
	}
	if t.StepDebounceMillis < 0 {
		return errors.New("tracking.step_debounce_ms must not be negative")
	}
	if t.PersistBatchSteps < 1 {
		return errors.New("tracking.persist_batch_steps must be at least 1")
	}
	if t.RolloverCheckSeconds <= 0 {
		return errors.New("tracking.rollover_check_seconds must be positive")
	}
	if t.DailyGoal < 0 {
		return errors.New("tracking.daily_goal must not be negative (0 disables)")
	}
	return nil
}

func (c *Config) validateSedentary() error {
	s := c.Sedentary
	if !s.Enabled {
		return nil
	}
	if s.IdleThresholdMinutes <= 0 {
		return errors.New("sedentary.idle_threshold_minutes must be positive")
	}
	if s.CooldownMinutes <= 0 {
		return errors.New("sedentary.cooldown_minutes must be positive")
	}
	if s.PollIntervalMinutes <= 0 {
		return errors.New("sedentary.poll_interval_minutes must be positive")
	}
	if s.MinActivitySteps <= 0 {
		return errors.New("sedentary.min_activity_steps must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}
