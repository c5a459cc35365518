package preflight

import (
	"context"

	"stride/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDiskSpace("Data disk space", cfg.Paths.DataDir),
		CheckStepCounter(cfg.Tracking.SysfsDir),
		CheckAccelerometer(cfg.Tracking.SysfsDir),
		CheckNotifications(cfg),
	}
	return results
}
