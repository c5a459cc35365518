package sensor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"stride/internal/config"
	"stride/internal/logging"
)

// Manager arbitrates between the hardware counter and the accelerometer and
// presents them as a single Source. Selection happens at Start; within a
// session the only transition is native -> accelerometer, triggered by the
// failure limit. A stopped manager re-arbitrates on the next Start.
type Manager struct {
	bridge       CounterBridge
	reader       SampleReader
	gate         PermissionGate
	logger       *slog.Logger
	pollInterval time.Duration
	sampleEvery  time.Duration
	failureLimit int
	forceAccel   bool
	now          func() time.Time

	mu      sync.Mutex
	active  Kind
	counter *hardwareCounter
	stream  *accelStream
	events  Events
	ctx     context.Context
}

// ManagerOption adjusts Manager construction.
type ManagerOption func(*Manager)

// WithClock overrides the sample timestamp clock.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// WithPermissionGate overrides the motion permission gate.
func WithPermissionGate(gate PermissionGate) ManagerOption {
	return func(m *Manager) { m.gate = gate }
}

// NewManager builds a manager over the given bridge and reader using the
// tracking section of the configuration.
func NewManager(cfg *config.Config, bridge CounterBridge, reader SampleReader, logger *slog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		bridge:       bridge,
		reader:       reader,
		gate:         ProbeGate{Reader: reader, Bridge: bridge},
		logger:       logging.NewComponentLogger(logger, "sensor-manager"),
		pollInterval: cfg.Tracking.HardwarePollInterval(),
		sampleEvery:  cfg.Tracking.AccelSampleInterval(),
		failureLimit: cfg.Tracking.HardwareFailureLimit,
		forceAccel:   cfg.Tracking.ForceAccelerometer,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NativeAvailable reports whether the hardware counter can currently be read.
func (m *Manager) NativeAvailable() bool {
	return m.bridge != nil && m.bridge.Available()
}

// Active returns the source currently feeding events, or KindNone when
// stopped.
func (m *Manager) Active() Kind {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Start selects a source and begins emitting events. It fails only when
// neither source is usable or motion permission is denied.
func (m *Manager) Start(ctx context.Context, ev Events) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != KindNone {
		return fmt.Errorf("sensor manager already started")
	}
	if m.gate != nil && !m.gate.Allowed() {
		return fmt.Errorf("motion access denied: %w", ErrUnavailable)
	}

	m.events = ev
	m.ctx = ctx

	useNative := !m.forceAccel && m.bridge != nil && m.bridge.Available()
	if useNative {
		m.startNativeLocked(ctx)
		return nil
	}

	if m.reader == nil || !m.reader.Available() {
		m.events = Events{}
		return ErrUnavailable
	}
	m.startAccelLocked(ctx)
	return nil
}

// Stop halts the active source. Safe to call when already stopped.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counter != nil {
		m.counter.Stop()
		m.counter = nil
	}
	if m.stream != nil {
		m.stream.Stop()
		m.stream = nil
	}
	m.active = KindNone
	m.events = Events{}
	m.ctx = nil
}

func (m *Manager) startNativeLocked(ctx context.Context) {
	m.counter = newHardwareCounter(m.bridge, m.pollInterval, m.failureLimit, m.logger,
		func(ev NativeEvent) {
			m.mu.Lock()
			fn := m.events.Native
			m.mu.Unlock()
			if fn != nil {
				fn(ev)
			}
		},
		m.fallBack,
	)
	m.counter.Start(ctx)
	m.active = KindNative
	m.logger.Info("tracking on hardware counter",
		logging.String(logging.FieldEventType, "source_selected"),
		logging.String(logging.FieldSource, string(KindNative)),
	)
}

func (m *Manager) startAccelLocked(ctx context.Context) {
	m.stream = newAccelStream(m.reader, m.sampleEvery, m.logger, m.now,
		func(sample AccelerometerSample) {
			m.mu.Lock()
			fn := m.events.Sample
			m.mu.Unlock()
			if fn != nil {
				fn(sample)
			}
		},
	)
	m.stream.Start(ctx)
	m.active = KindAccelerometer
	m.logger.Info("tracking on accelerometer",
		logging.String(logging.FieldEventType, "source_selected"),
		logging.String(logging.FieldSource, string(KindAccelerometer)),
	)
}

// fallBack is invoked by the hardware counter after its failure limit. The
// switch is one-way for the remainder of the session.
func (m *Manager) fallBack(cause error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != KindNative {
		return
	}
	m.counter = nil

	ctx := m.ctx
	if ctx == nil || ctx.Err() != nil {
		m.active = KindNone
		return
	}

	if m.reader == nil || !m.reader.Available() {
		logging.ErrorWithContext(m.logger, "no fallback source available", "fallback_unavailable",
			logging.Error(cause),
			logging.String(logging.FieldErrorHint, "verify an accelerometer is exposed under the IIO sysfs root"),
		)
		m.active = KindNone
		fn := m.events.Fallback
		if fn != nil {
			go fn(ErrUnavailable)
		}
		return
	}

	m.startAccelLocked(ctx)
	fn := m.events.Fallback
	if fn != nil {
		go fn(cause)
	}
}
