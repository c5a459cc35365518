package sensor

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Linux IIO channel files. Step counters expose a processed lifetime count;
// accelerometers expose raw per-axis values plus a shared scale.
const (
	stepsInputFile = "in_steps_input"
	stepsRawFile   = "in_steps_raw"
	accelScaleFile = "in_accel_scale"
)

var accelAxisFiles = [3]string{"in_accel_x_raw", "in_accel_y_raw", "in_accel_z_raw"}

// standardGravity converts m/s² readings to g.
const standardGravity = 9.80665

// DiscoverStepCounter scans the IIO sysfs root for a device exposing a step
// counter channel and returns its directory.
func DiscoverStepCounter(root string) (string, bool) {
	return discoverDevice(root, func(dir string) bool {
		return fileExists(filepath.Join(dir, stepsInputFile)) ||
			fileExists(filepath.Join(dir, stepsRawFile))
	})
}

// DiscoverAccelerometer scans the IIO sysfs root for a device exposing all
// three acceleration axes and returns its directory.
func DiscoverAccelerometer(root string) (string, bool) {
	return discoverDevice(root, func(dir string) bool {
		for _, axis := range accelAxisFiles {
			if !fileExists(filepath.Join(dir, axis)) {
				return false
			}
		}
		return true
	})
}

func discoverDevice(root string, match func(string) bool) (string, bool) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "iio:device") {
			continue
		}
		dir := filepath.Join(root, name)
		if match(dir) {
			return dir, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// NewSysfsCounterBridge returns a CounterBridge reading the step counter
// channel under the IIO sysfs root.
func NewSysfsCounterBridge(root string) CounterBridge {
	return &sysfsCounterBridge{root: root}
}

type sysfsCounterBridge struct {
	root string
}

func (b *sysfsCounterBridge) Available() bool {
	_, ok := DiscoverStepCounter(b.root)
	return ok
}

func (b *sysfsCounterBridge) Read(ctx context.Context) (NativeEvent, error) {
	if err := ctx.Err(); err != nil {
		return NativeEvent{}, err
	}
	dir, ok := DiscoverStepCounter(b.root)
	if !ok {
		return NativeEvent{}, fmt.Errorf("step counter: %w", ErrUnavailable)
	}
	path := filepath.Join(dir, stepsInputFile)
	if !fileExists(path) {
		path = filepath.Join(dir, stepsRawFile)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return NativeEvent{}, fmt.Errorf("read step counter: %w", err)
	}
	return DecodeNativeEvent(data)
}

// NewSysfsAccelReader returns a SampleReader reading per-axis acceleration
// under the IIO sysfs root. Axis values are converted to g using the device
// scale when present.
func NewSysfsAccelReader(root string) SampleReader {
	return &sysfsAccelReader{root: root}
}

type sysfsAccelReader struct {
	root string
}

func (r *sysfsAccelReader) Available() bool {
	_, ok := DiscoverAccelerometer(r.root)
	return ok
}

func (r *sysfsAccelReader) Read(ctx context.Context) (float64, float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, 0, err
	}
	dir, ok := DiscoverAccelerometer(r.root)
	if !ok {
		return 0, 0, 0, fmt.Errorf("accelerometer: %w", ErrUnavailable)
	}

	scale := 1.0
	if data, err := os.ReadFile(filepath.Join(dir, accelScaleFile)); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64); err == nil && parsed > 0 {
			scale = parsed
		}
	}

	var axes [3]float64
	for i, name := range accelAxisFiles {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return 0, 0, 0, fmt.Errorf("read %s: %w", name, err)
		}
		raw, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("parse %s: %w", name, err)
		}
		axes[i] = raw * scale / standardGravity
	}
	return axes[0], axes[1], axes[2], nil
}

// Magnitude reduces a 3-axis sample to its vector magnitude.
func Magnitude(x, y, z float64) float64 {
	return math.Sqrt(x*x + y*y + z*z)
}
