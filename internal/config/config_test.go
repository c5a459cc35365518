package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stride/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
	if cfg.Tracking.PeakLowerThreshold >= cfg.Tracking.PeakUpperThreshold {
		t.Fatal("default peak window is inverted")
	}
	if !cfg.Sedentary.Enabled {
		t.Fatal("expected sedentary monitoring enabled by default")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := config.Load(missing)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.Sedentary.IdleThresholdMinutes != 45 {
		t.Fatalf("expected default idle threshold 45, got %d", cfg.Sedentary.IdleThresholdMinutes)
	}
	if cfg.Tracking.StepDebounceMillis != 250 {
		t.Fatalf("expected default debounce 250, got %d", cfg.Tracking.StepDebounceMillis)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`data_dir = "` + filepath.Join(dir, "data") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		"[sedentary]",
		"idle_threshold_minutes = 20",
		"cooldown_minutes = 10",
		"[tracking]",
		"daily_goal = 5000",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Sedentary.IdleThresholdMinutes != 20 || cfg.Sedentary.CooldownMinutes != 10 {
		t.Fatalf("expected overlaid sedentary values, got %+v", cfg.Sedentary)
	}
	if cfg.Tracking.DailyGoal != 5000 {
		t.Fatalf("expected daily goal 5000, got %d", cfg.Tracking.DailyGoal)
	}
	// Untouched keys keep defaults.
	if cfg.Tracking.PersistBatchSteps != 10 {
		t.Fatalf("expected default batch size, got %d", cfg.Tracking.PersistBatchSteps)
	}
}

func TestValidateRejectsInvertedPeakWindow(t *testing.T) {
	cfg := config.Default()
	cfg.Tracking.PeakLowerThreshold = 3.0
	cfg.Tracking.PeakUpperThreshold = 2.0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for inverted peak window")
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "yaml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported log format")
	}
}

func TestValidateSkipsSedentaryWhenDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Sedentary.Enabled = false
	cfg.Sedentary.IdleThresholdMinutes = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected disabled sedentary section to skip validation, got %v", err)
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error overwriting existing config")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[sedentary]") {
		t.Fatal("expected sample to contain sedentary section")
	}
}
