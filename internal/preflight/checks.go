package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"stride/internal/config"
	"stride/internal/sensor"
)

// minFreeBytes is the free-space floor for the data directory. The SQLite
// store is tiny; this guards against a full disk wedging WAL checkpoints.
const minFreeBytes = 64 << 20

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDiskSpace verifies the filesystem holding path has headroom for the
// store and logs.
func CheckDiskSpace(name, path string) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minFreeBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (only %d MiB free)", path, free>>20)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d MiB free)", path, free>>20)}
}

// CheckStepCounter reports whether an IIO step counter is exposed under the
// sysfs root. Not a failure condition by itself: the accelerometer fallback
// covers tracking.
func CheckStepCounter(sysfsDir string) Result {
	const name = "Hardware step counter"
	if dir, ok := sensor.DiscoverStepCounter(sysfsDir); ok {
		return Result{Name: name, Passed: true, Detail: dir}
	}
	return Result{Name: name, Detail: "not present (accelerometer fallback will be used)"}
}

// CheckAccelerometer reports whether a 3-axis accelerometer is exposed under
// the sysfs root.
func CheckAccelerometer(sysfsDir string) Result {
	const name = "Accelerometer"
	if dir, ok := sensor.DiscoverAccelerometer(sysfsDir); ok {
		return Result{Name: name, Passed: true, Detail: dir}
	}
	return Result{Name: name, Detail: "not present"}
}

// CheckNotifications reports whether push notifications are configured.
// Unconfigured notifications pass; they are an optional feature.
func CheckNotifications(cfg *config.Config) Result {
	const name = "Notifications"
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return Result{Name: name, Passed: true, Detail: "Disabled (no ntfy topic configured)"}
	}
	return Result{Name: name, Passed: true, Detail: topic}
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
