package sensor

import (
	"context"
	"errors"
	"time"
)

// Kind identifies which signal source produced a step delta.
type Kind string

const (
	// KindNone means no source is active.
	KindNone Kind = ""
	// KindNative is the hardware step counter.
	KindNative Kind = "native"
	// KindAccelerometer is the peak-detection fallback path.
	KindAccelerometer Kind = "accelerometer"
)

// StepDelta is a validated increment to apply to the daily total.
type StepDelta struct {
	Amount uint32
	Source Kind
}

// AccelerometerSample is one magnitude reading. Samples are ephemeral: they
// feed the peak detector and are never persisted.
type AccelerometerSample struct {
	Magnitude float64
	At        time.Time
}

// Events carries the callbacks a Source invokes. All callbacks fire from the
// source's polling goroutine; receivers serialize their own state.
type Events struct {
	// Native fires for each hardware counter reading.
	Native func(NativeEvent)
	// Sample fires for each accelerometer magnitude sample.
	Sample func(AccelerometerSample)
	// Fallback fires once when the native path fails and the session
	// switches to the accelerometer.
	Fallback func(err error)
}

// Source is the uniform interface the engine tracks through, regardless of
// which physical source is active.
type Source interface {
	Start(ctx context.Context, ev Events) error
	Stop()
	Active() Kind
	NativeAvailable() bool
}

// ErrUnavailable indicates no usable signal source exists. Non-fatal at the
// session level: the native path falls back to the accelerometer, and only a
// device with neither sensor surfaces this to the caller.
var ErrUnavailable = errors.New("no step signal source available")

// CounterBridge abstracts the hardware step counter.
type CounterBridge interface {
	// Available reports whether the counter can currently be read.
	Available() bool
	// Read returns the decoded bridge event for the current counter value.
	Read(ctx context.Context) (NativeEvent, error)
}

// SampleReader abstracts the accelerometer.
type SampleReader interface {
	// Available reports whether axis channels can currently be read.
	Available() bool
	// Read returns one 3-axis sample in g.
	Read(ctx context.Context) (x, y, z float64, err error)
}
