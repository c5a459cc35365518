package pedometer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"stride/internal/config"
	"stride/internal/lifecycle"
	"stride/internal/logging"
	"stride/internal/sensor"
	"stride/internal/store"
)

// GoalNotifier delivers the daily-goal notification. Implemented by the
// notifications service; a nil notifier disables the feature.
type GoalNotifier interface {
	NotifyDailyGoalReached(ctx context.Context, date string, total uint32) error
}

// ActivitySink receives the session step count after each accepted delta.
// The sedentary monitor implements it to window qualifying activity.
type ActivitySink interface {
	OnSteps(sessionSteps uint32)
}

// Deps carries the engine's collaborators. Config, Store, Source, and Logger
// are required; the rest are optional.
type Deps struct {
	Config    *config.Config
	Store     Persister
	Source    sensor.Source
	Notifier  GoalNotifier
	Activity  ActivitySink
	Lifecycle *lifecycle.Stream
	Logger    *slog.Logger
	Now       func() time.Time
}

// Engine composes the ledger, detectors, and hub behind the tracking
// interface. One engine instance is constructed by the daemon and injected
// into the IPC layer; there is no implicit global.
type Engine struct {
	cfg       *config.Config
	persister Persister
	source    sensor.Source
	notifier  GoalNotifier
	activity  ActivitySink
	lcStream  *lifecycle.Stream
	logger    *slog.Logger
	now       func() time.Time
	hub       *ObserverHub

	mu        sync.Mutex
	ledger    *Ledger
	peaks     *PeakDetector
	tracking  bool
	sessionID string
	started   bool

	runCtx      context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup
}

// New validates deps and builds an engine. Start must be called before
// tracking.
func New(deps Deps) (*Engine, error) {
	if deps.Config == nil {
		return nil, errors.New("pedometer: config is required")
	}
	if deps.Store == nil {
		return nil, errors.New("pedometer: store is required")
	}
	if deps.Source == nil {
		return nil, errors.New("pedometer: signal source is required")
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := logging.NewComponentLogger(deps.Logger, "step-engine")

	return &Engine{
		cfg:       deps.Config,
		persister: deps.Store,
		source:    deps.Source,
		notifier:  deps.Notifier,
		activity:  deps.Activity,
		lcStream:  deps.Lifecycle,
		logger:    logger,
		now:       now,
		hub:       NewObserverHub(),
		ledger:    NewLedger(deps.Store, deps.Logger, deps.Config.Tracking.PersistBatchSteps, now),
		peaks: NewPeakDetector(
			deps.Config.Tracking.PeakLowerThreshold,
			deps.Config.Tracking.PeakUpperThreshold,
			deps.Config.Tracking.StepDebounce(),
		),
	}, nil
}

// Start loads the persisted ledger, subscribes to lifecycle transitions, and
// begins the periodic rollover check. It does not start tracking.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return nil
	}

	if err := e.ledger.Load(ctx); err != nil {
		return fmt.Errorf("restore step ledger: %w", err)
	}

	e.runCtx, e.cancel = context.WithCancel(context.Background())
	e.started = true

	if e.lcStream != nil {
		e.unsubscribe = e.lcStream.Subscribe(e.onLifecycle)
	}

	e.wg.Add(1)
	go e.rolloverLoop()

	e.logger.Info("step engine started",
		logging.String(logging.FieldEventType, "engine_started"),
		logging.String(logging.FieldDate, e.ledger.Date()),
		logging.Uint64(logging.FieldSteps, uint64(e.ledger.TotalDailySteps())),
	)
	return nil
}

// Shutdown stops tracking, flushes the ledger, and releases the background
// loop. Idempotent.
func (e *Engine) Shutdown(ctx context.Context) {
	e.StopTracking()

	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return
	}
	e.started = false
	cancel := e.cancel
	unsubscribe := e.unsubscribe
	e.cancel = nil
	e.unsubscribe = nil
	if err := e.ledger.Flush(ctx); err != nil {
		e.logger.Warn("final ledger flush failed", logging.Error(err))
	}
	e.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
	e.wg.Wait()
}

// StartTracking selects a signal source and begins counting. Idempotent
// while already tracking. Returns sensor.ErrUnavailable when no source is
// usable and a permission error when motion access is denied.
func (e *Engine) StartTracking(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return errors.New("engine not started")
	}
	if e.tracking {
		return nil
	}

	e.ledger.CheckRollover(ctx)
	e.ledger.ResetSession()
	e.peaks.Reset()

	err := e.source.Start(e.runCtx, sensor.Events{
		Native:   e.handleNativeEvent,
		Sample:   e.handleSample,
		Fallback: e.handleFallback,
	})
	if err != nil {
		return err
	}

	e.tracking = true
	e.sessionID = uuid.NewString()
	e.logger.Info("tracking started",
		logging.String(logging.FieldEventType, "tracking_started"),
		logging.String(logging.FieldSessionID, e.sessionID),
		logging.String(logging.FieldSource, string(e.source.Active())),
	)
	return nil
}

// StopTracking unsubscribes from the active source and flushes a final
// write. Idempotent; the ledger stays resumable by a later StartTracking.
func (e *Engine) StopTracking() {
	e.mu.Lock()
	if !e.tracking {
		e.mu.Unlock()
		return
	}
	e.tracking = false
	sessionID := e.sessionID
	session := e.ledger.SessionSteps()
	e.mu.Unlock()

	e.source.Stop()

	e.mu.Lock()
	if err := e.ledger.Flush(context.Background()); err != nil {
		e.logger.Warn("ledger flush on stop failed", logging.Error(err))
	}
	e.mu.Unlock()

	e.logger.Info("tracking stopped",
		logging.String(logging.FieldEventType, "tracking_stopped"),
		logging.String(logging.FieldSessionID, sessionID),
		logging.Uint64(logging.FieldSteps, uint64(session)),
	)
}

// Tracking reports whether a tracking session is active.
func (e *Engine) Tracking() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracking
}

// ActiveSource returns the signal source feeding the current session.
func (e *Engine) ActiveSource() sensor.Kind {
	return e.source.Active()
}

// NativeSourceAvailable reports whether the hardware counter is usable.
func (e *Engine) NativeSourceAvailable() bool {
	return e.source.NativeAvailable()
}

// CurrentSteps returns the steps counted in the current session.
func (e *Engine) CurrentSteps() uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.SessionSteps()
}

// TotalDailySteps returns today's running total, rolling the day over first
// if the calendar has moved on since the last event.
func (e *Engine) TotalDailySteps() uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		e.ledger.CheckRollover(e.runCtx)
	}
	return e.ledger.TotalDailySteps()
}

// LedgerDate returns the calendar date the current total belongs to.
func (e *Engine) LedgerDate() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Date()
}

// AddListener subscribes to daily-total updates and returns the unsubscribe
// function.
func (e *Engine) AddListener(fn func(total uint32)) func() {
	return e.hub.Subscribe(fn)
}

// RecordManualActivity credits manually logged steps outside any sensor
// path. Used by the CLI for activities the sensors cannot see.
func (e *Engine) RecordManualActivity(ctx context.Context, steps uint32) uint32 {
	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return 0
	}
	total := e.ledger.ApplyDelta(ctx, steps)
	session := e.ledger.SessionSteps()
	date := e.ledger.Date()
	e.mu.Unlock()

	e.dispatch(total, session, date)
	return total
}

// handleNativeEvent reconciles one hardware counter reading into a delta.
func (e *Engine) handleNativeEvent(ev sensor.NativeEvent) {
	e.mu.Lock()
	if !e.tracking {
		e.mu.Unlock()
		return
	}
	e.ledger.CheckRollover(e.runCtx)
	delta := e.ledger.Reconciler().Reconcile(ev.Raw)
	if delta == 0 {
		e.mu.Unlock()
		return
	}
	total := e.ledger.ApplyDelta(e.runCtx, delta)
	session := e.ledger.SessionSteps()
	date := e.ledger.Date()
	e.mu.Unlock()

	e.dispatch(total, session, date)
}

// handleSample feeds one accelerometer magnitude into the peak detector.
func (e *Engine) handleSample(sample sensor.AccelerometerSample) {
	e.mu.Lock()
	if !e.tracking {
		e.mu.Unlock()
		return
	}
	if !e.peaks.Offer(sample.Magnitude, sample.At) {
		e.mu.Unlock()
		return
	}
	total := e.ledger.ApplyDelta(e.runCtx, 1)
	session := e.ledger.SessionSteps()
	date := e.ledger.Date()
	e.mu.Unlock()

	e.dispatch(total, session, date)
}

func (e *Engine) handleFallback(err error) {
	logging.WarnWithContext(e.logger, "native source failed mid-session", "source_fallback",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check IIO device state; restart tracking to retry the hardware counter"),
		logging.String(logging.FieldImpact, "steps are now counted from accelerometer peaks"),
	)
}

// dispatch runs post-commit effects outside the engine lock: listener
// notification, activity windowing, and the daily-goal check.
func (e *Engine) dispatch(total uint32, session uint32, date string) {
	e.hub.Notify(total)
	if e.activity != nil {
		e.activity.OnSteps(session)
	}
	e.maybeNotifyGoal(total, date)
}

// maybeNotifyGoal fires the daily-goal notification once per date.
func (e *Engine) maybeNotifyGoal(total uint32, date string) {
	goal := e.cfg.Tracking.DailyGoal
	if e.notifier == nil || !e.cfg.Notifications.DailyGoal || goal <= 0 {
		return
	}
	if total < uint32(goal) {
		return
	}

	e.mu.Lock()
	ctx := e.runCtx
	started := e.started
	e.mu.Unlock()
	if !started {
		return
	}

	notified, _, err := e.persister.GetState(ctx, store.KeyGoalNotifiedDate)
	if err != nil {
		e.logger.Warn("goal notification dedup read failed", logging.Error(err))
		return
	}
	if notified == date {
		return
	}
	if err := e.persister.SetStates(ctx, map[string]string{store.KeyGoalNotifiedDate: date}); err != nil {
		e.logger.Warn("goal notification dedup write failed", logging.Error(err))
		return
	}

	if err := e.notifier.NotifyDailyGoalReached(ctx, date, total); err != nil {
		e.logger.Warn("daily goal notification failed", logging.Error(err))
		return
	}
	e.logger.Info("daily goal reached",
		logging.String(logging.FieldEventType, "daily_goal_reached"),
		logging.String(logging.FieldDate, date),
		logging.Uint64(logging.FieldSteps, uint64(total)),
	)
}

// onLifecycle flushes the ledger on backgrounding so data loss is bounded to
// steps since the last background transition.
func (e *Engine) onLifecycle(state lifecycle.State) {
	if state != lifecycle.Background {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return
	}
	if err := e.ledger.Flush(e.runCtx); err != nil {
		e.logger.Warn("ledger flush on backgrounding failed", logging.Error(err))
	}
}

// rolloverLoop runs the periodic idle-tick rollover check so the date
// advances even when no deltas arrive.
func (e *Engine) rolloverLoop() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.cfg.Tracking.RolloverCheckInterval())
	defer ticker.Stop()

	for {
		select {
		case <-e.runCtx.Done():
			return
		case <-ticker.C:
			e.mu.Lock()
			rolled := e.ledger.CheckRollover(e.runCtx)
			total := e.ledger.TotalDailySteps()
			e.mu.Unlock()
			if rolled {
				e.hub.Notify(total)
			}
		}
	}
}
