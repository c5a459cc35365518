package sensor

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeChannel(t *testing.T, dir, name, value string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(value), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newIIODevice(t *testing.T, root string, index int) string {
	t.Helper()
	dir := filepath.Join(root, "iio:device"+string(rune('0'+index)))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	return dir
}

func TestDiscoverStepCounter(t *testing.T) {
	root := t.TempDir()
	if _, ok := DiscoverStepCounter(root); ok {
		t.Fatal("expected no counter in empty root")
	}

	dev := newIIODevice(t, root, 0)
	writeChannel(t, dev, stepsInputFile, "100\n")

	dir, ok := DiscoverStepCounter(root)
	if !ok {
		t.Fatal("expected counter to be discovered")
	}
	if dir != dev {
		t.Fatalf("expected %s, got %s", dev, dir)
	}
}

func TestDiscoverAccelerometerRequiresAllAxes(t *testing.T) {
	root := t.TempDir()
	dev := newIIODevice(t, root, 0)
	writeChannel(t, dev, "in_accel_x_raw", "0")
	writeChannel(t, dev, "in_accel_y_raw", "0")

	if _, ok := DiscoverAccelerometer(root); ok {
		t.Fatal("two axes should not qualify as an accelerometer")
	}

	writeChannel(t, dev, "in_accel_z_raw", "0")
	if _, ok := DiscoverAccelerometer(root); !ok {
		t.Fatal("expected accelerometer with all three axes")
	}
}

func TestSysfsCounterBridgeRead(t *testing.T) {
	root := t.TempDir()
	dev := newIIODevice(t, root, 0)
	writeChannel(t, dev, stepsInputFile, "10050\n")

	bridge := NewSysfsCounterBridge(root)
	if !bridge.Available() {
		t.Fatal("expected bridge to be available")
	}

	ev, err := bridge.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ev.Kind != NativeLegacy || ev.Raw != 10050 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestSysfsAccelReaderAppliesScale(t *testing.T) {
	root := t.TempDir()
	dev := newIIODevice(t, root, 0)
	writeChannel(t, dev, "in_accel_x_raw", "0")
	writeChannel(t, dev, "in_accel_y_raw", "0")
	// One standard gravity after scaling: 9806.65 * 0.001 m/s².
	writeChannel(t, dev, "in_accel_z_raw", "9806.65")
	writeChannel(t, dev, accelScaleFile, "0.001")

	reader := NewSysfsAccelReader(root)
	x, y, z, err := reader.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if x != 0 || y != 0 {
		t.Fatalf("expected zero x/y, got %f/%f", x, y)
	}
	if math.Abs(z-1.0) > 1e-9 {
		t.Fatalf("expected z of 1g, got %f", z)
	}
	if mag := Magnitude(x, y, z); math.Abs(mag-1.0) > 1e-9 {
		t.Fatalf("expected magnitude 1g, got %f", mag)
	}
}
