package testsupport

import (
	"path/filepath"
	"testing"

	"stride/internal/config"
)

// ConfigOption customizes the test configuration.
type ConfigOption func(*config.Config)

// NewConfig returns a validated config rooted in a per-test temp directory.
// Notifications are disabled and the sensor sysfs root points at an empty
// directory so tests never touch real hardware.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Tracking.SysfsDir = filepath.Join(base, "iio")
	cfg.Tracking.Autostart = false
	cfg.Notifications.NtfyTopic = ""

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config failed validation: %v", err)
	}
	return &cfg
}

// WithDailyGoal sets the tracking daily goal on the test config.
func WithDailyGoal(goal int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tracking.DailyGoal = goal
	}
}

// WithSedentaryDisabled turns off the sedentary monitor.
func WithSedentaryDisabled() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sedentary.Enabled = false
	}
}
