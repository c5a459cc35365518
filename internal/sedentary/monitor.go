// Package sedentary watches elapsed time since the last qualifying activity
// and fires throttled nudges while the application is backgrounded.
package sedentary

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"stride/internal/config"
	"stride/internal/lifecycle"
	"stride/internal/logging"
	"stride/internal/store"
)

// State is the monitor's position in the nudge cycle.
type State string

const (
	// StateActive means qualifying activity happened within the idle
	// threshold.
	StateActive State = "active"
	// StateSedentary means the idle threshold has elapsed and a nudge is
	// cooldown eligible.
	StateSedentary State = "sedentary"
	// StateNudged means a nudge fired and its cooldown is running.
	StateNudged State = "nudged"
)

// NudgeNotifier delivers the sedentary nudge. Fire-and-forget; the monitor
// logs failures and moves on.
type NudgeNotifier interface {
	NotifySedentaryNudge(ctx context.Context, idle time.Duration) error
}

// Persister is the slice of the store the monitor persists its timestamps
// through, so nudge throttling survives restarts.
type Persister interface {
	GetState(ctx context.Context, key string) (string, bool, error)
	SetStates(ctx context.Context, values map[string]string) error
}

// Monitor is the sedentary state machine. Activity comes in through OnSteps
// (wired as the engine's activity sink) and RecordActivity; the periodic
// check and foreground rechecks drive nudging.
type Monitor struct {
	cfg      config.Sedentary
	persist  Persister
	notifier NudgeNotifier
	lcStream *lifecycle.Stream
	logger   *slog.Logger
	now      func() time.Time

	mu           sync.Mutex
	enabled      bool
	state        State
	lastActivity time.Time
	lastNudge    time.Time
	stepAnchor   uint32
	lastSteps    uint32

	runCtx      context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup
	running     bool
}

// Option adjusts Monitor construction.
type Option func(*Monitor)

// WithClock overrides the monitor's clock.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// New builds a monitor from the sedentary configuration section.
func New(cfg config.Sedentary, persist Persister, notifier NudgeNotifier, lcStream *lifecycle.Stream, logger *slog.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		cfg:      cfg,
		persist:  persist,
		notifier: notifier,
		lcStream: lcStream,
		logger:   logging.NewComponentLogger(logger, "sedentary-monitor"),
		now:      time.Now,
		enabled:  cfg.Enabled,
		state:    StateActive,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start restores persisted timestamps, subscribes to lifecycle transitions,
// and begins the periodic check.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return nil
	}

	if err := m.loadLocked(ctx); err != nil {
		return fmt.Errorf("restore sedentary state: %w", err)
	}
	if m.lastActivity.IsZero() {
		// No history: treat startup as activity so a fresh install does not
		// nudge immediately.
		m.lastActivity = m.now()
	}

	m.runCtx, m.cancel = context.WithCancel(context.Background())
	m.running = true

	if m.lcStream != nil {
		m.unsubscribe = m.lcStream.Subscribe(m.onLifecycle)
	}

	m.wg.Add(1)
	go m.pollLoop()

	m.logger.Info("sedentary monitor started",
		logging.String(logging.FieldEventType, "sedentary_monitor_started"),
		logging.Bool("enabled", m.enabled),
		logging.Duration("idle_threshold", m.cfg.IdleThreshold()),
		logging.Duration("cooldown", m.cfg.Cooldown()),
	)
	return nil
}

// Stop halts the periodic check. Idempotent.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	unsubscribe := m.unsubscribe
	m.cancel = nil
	m.unsubscribe = nil
	m.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

// State returns the current machine state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Enabled reports whether nudging is switched on.
func (m *Monitor) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// SetEnabled switches nudging on or off and persists the choice.
func (m *Monitor) SetEnabled(ctx context.Context, enabled bool) error {
	m.mu.Lock()
	m.enabled = enabled
	m.mu.Unlock()

	return m.persist.SetStates(ctx, map[string]string{
		store.KeySedentaryEnabled: fmt.Sprintf("%t", enabled),
	})
}

// LastActivity returns the timestamp of the last qualifying activity.
func (m *Monitor) LastActivity() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastActivity
}

// OnSteps implements the engine's activity sink. A session-step increase of
// at least the minimum-activity threshold since the current window's anchor
// counts as qualifying activity; sub-threshold shuffling does not reset the
// idle clock.
func (m *Monitor) OnSteps(sessionSteps uint32) {
	m.mu.Lock()
	m.lastSteps = sessionSteps
	if sessionSteps < m.stepAnchor {
		// Session restarted.
		m.stepAnchor = sessionSteps
		m.mu.Unlock()
		return
	}
	if sessionSteps-m.stepAnchor < uint32(m.cfg.MinActivitySteps) {
		m.mu.Unlock()
		return
	}
	m.stepAnchor = sessionSteps
	m.mu.Unlock()

	m.RecordActivity()
}

// RecordActivity unconditionally marks now as the last qualifying activity
// and returns the machine to Active. Called for manual log entries and by
// OnSteps.
func (m *Monitor) RecordActivity() {
	m.mu.Lock()
	now := m.now()
	m.lastActivity = now
	m.state = StateActive
	ctx := m.runCtx
	running := m.running
	m.mu.Unlock()

	if !running {
		return
	}
	if err := m.persist.SetStates(ctx, map[string]string{
		store.KeySedentaryLastActivity: now.UTC().Format(time.RFC3339Nano),
	}); err != nil {
		m.logger.Warn("failed to persist activity timestamp", logging.Error(err))
	}
}

// Check runs one evaluation of the idle condition. Called by the poll loop
// and directly by tests; the window anchor advances to the last observed
// session count so the next window only credits steps taken inside it.
func (m *Monitor) Check(ctx context.Context) {
	m.mu.Lock()
	m.stepAnchor = m.lastSteps
	m.mu.Unlock()
	m.evaluate(ctx, false)
}

// Recheck re-evaluates without firing. Triggered on foregrounding so a stale
// nudge condition resolves immediately instead of waiting for the next poll.
func (m *Monitor) Recheck(ctx context.Context) {
	m.evaluate(ctx, true)
}

// evaluate applies the transition rules. suppress forces the no-fire path
// regardless of lifecycle state.
func (m *Monitor) evaluate(ctx context.Context, suppress bool) {
	m.mu.Lock()

	now := m.now()
	idle := now.Sub(m.lastActivity)

	if idle < m.cfg.IdleThreshold() {
		m.state = StateActive
		m.mu.Unlock()
		return
	}

	if !m.lastNudge.IsZero() && now.Sub(m.lastNudge) < m.cfg.Cooldown() {
		// Idle but throttled: a recent nudge's cooldown is still running.
		if m.state != StateNudged {
			m.state = StateSedentary
		}
		m.mu.Unlock()
		return
	}

	m.state = StateSedentary
	foreground := m.lcStream != nil && m.lcStream.Current() == lifecycle.Foreground
	if suppress || foreground || !m.enabled || m.notifier == nil {
		m.mu.Unlock()
		return
	}

	m.lastNudge = now
	m.state = StateNudged
	m.mu.Unlock()

	if err := m.persist.SetStates(ctx, map[string]string{
		store.KeySedentaryLastNudge: now.UTC().Format(time.RFC3339Nano),
	}); err != nil {
		m.logger.Warn("failed to persist nudge timestamp", logging.Error(err))
	}
	if err := m.notifier.NotifySedentaryNudge(ctx, idle); err != nil {
		m.logger.Warn("sedentary nudge delivery failed", logging.Error(err))
		return
	}
	m.logger.Info("sedentary nudge sent",
		logging.String(logging.FieldEventType, "sedentary_nudge"),
		logging.Duration("idle", idle),
	)
}

func (m *Monitor) onLifecycle(state lifecycle.State) {
	if state != lifecycle.Foreground {
		return
	}
	m.mu.Lock()
	ctx := m.runCtx
	running := m.running
	m.mu.Unlock()
	if running {
		m.Recheck(ctx)
	}
}

func (m *Monitor) pollLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.PollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-m.runCtx.Done():
			return
		case <-ticker.C:
			m.Check(m.runCtx)
		}
	}
}

// loadLocked restores persisted timestamps and the enabled flag.
func (m *Monitor) loadLocked(ctx context.Context) error {
	if raw, ok, err := m.persist.GetState(ctx, store.KeySedentaryLastActivity); err != nil {
		return err
	} else if ok && raw != "" {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			m.lastActivity = ts
		}
	}

	if raw, ok, err := m.persist.GetState(ctx, store.KeySedentaryLastNudge); err != nil {
		return err
	} else if ok && raw != "" {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			m.lastNudge = ts
		}
	}

	if raw, ok, err := m.persist.GetState(ctx, store.KeySedentaryEnabled); err != nil {
		return err
	} else if ok && raw != "" {
		m.enabled = raw == "true"
	}
	return nil
}
