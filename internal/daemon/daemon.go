package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"stride/internal/config"
	"stride/internal/lifecycle"
	"stride/internal/logging"
	"stride/internal/notifications"
	"stride/internal/pedometer"
	"stride/internal/preflight"
	"stride/internal/sedentary"
	"stride/internal/sensor"
	"stride/internal/store"
)

// Daemon coordinates the tracking services and enforces single-instance
// execution through a file lock.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	engine   *pedometer.Engine
	monitor  *sedentary.Monitor
	notifier notifications.Service
	lcStream *lifecycle.Stream
	hotplug  *sensor.HotplugMonitor
	logPath  string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running          bool
	Tracking         bool
	ActiveSource     string
	NativeAvailable  bool
	SessionSteps     uint32
	TotalDailySteps  uint32
	Date             string
	DailyGoal        int
	SedentaryState   string
	SedentaryEnabled bool
	LastActivity     time.Time
	Lifecycle        string
	DBPath           string
	LockFilePath     string
	PID              int
	Checks           []preflight.Result
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger, engine *pedometer.Engine, monitor *sedentary.Monitor, notifier notifications.Service, lcStream *lifecycle.Stream, hotplug *sensor.HotplugMonitor) (*Daemon, error) {
	if cfg == nil || st == nil || engine == nil || monitor == nil || lcStream == nil {
		return nil, errors.New("daemon requires config, store, engine, monitor, and lifecycle stream")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "strided.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    st,
		engine:   engine,
		monitor:  monitor,
		notifier: notifier,
		lcStream: lcStream,
		hotplug:  hotplug,
		logPath:  filepath.Join(cfg.Paths.LogDir, logging.LogFileName),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and brings up the engine and monitor. With
// autostart enabled, tracking begins immediately; a sensor failure there is
// logged and reported, not fatal, so the daemon still answers IPC.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another stride daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	if err := d.engine.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start step engine: %w", err)
	}
	if err := d.monitor.Start(d.ctx); err != nil {
		d.engine.Shutdown(ctx)
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start sedentary monitor: %w", err)
	}
	if d.hotplug != nil {
		_ = d.hotplug.Start(d.ctx)
	}

	d.running.Store(true)
	d.logger.Info("stride daemon started",
		logging.String(logging.FieldEventType, "daemon_started"),
		logging.String("lock", d.lockPath),
	)

	if d.cfg.Tracking.Autostart {
		if err := d.engine.StartTracking(d.ctx); err != nil {
			logging.WarnWithContext(d.logger, "tracking autostart failed", "tracking_autostart_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check sensor availability with stride status; start manually with stride start"),
				logging.String(logging.FieldImpact, "steps are not being counted"),
			)
			if notifyErr := d.notifier.NotifyError(d.ctx, err, "tracking autostart"); notifyErr != nil {
				d.logger.Debug("error notification failed", logging.Error(notifyErr))
			}
		}
	}
	return nil
}

// Stop shuts down tracking and releases the daemon lock. Idempotent.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	d.engine.Shutdown(context.Background())
	d.monitor.Stop()
	if d.hotplug != nil {
		d.hotplug.Stop()
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("stride daemon stopped",
		logging.String(logging.FieldEventType, "daemon_stopped"),
	)
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Running reports whether the daemon has started.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// LogPath returns the daemon log file location.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// StartTracking begins a tracking session. The error, if any, is translated
// to a message so IPC clients get a stable shape.
func (d *Daemon) StartTracking(ctx context.Context) (bool, string) {
	if !d.running.Load() {
		return false, "daemon is not running"
	}
	if d.engine.Tracking() {
		return true, "tracking already active"
	}
	if err := d.engine.StartTracking(ctx); err != nil {
		if errors.Is(err, sensor.ErrUnavailable) {
			return false, "no usable step signal source (no hardware counter or accelerometer)"
		}
		return false, err.Error()
	}
	return true, fmt.Sprintf("tracking started on %s source", d.engine.ActiveSource())
}

// StopTracking ends the active tracking session.
func (d *Daemon) StopTracking() {
	d.engine.StopTracking()
}

// Status assembles the daemon's runtime snapshot.
func (d *Daemon) Status(ctx context.Context) Status {
	return Status{
		Running:          d.running.Load(),
		Tracking:         d.engine.Tracking(),
		ActiveSource:     string(d.engine.ActiveSource()),
		NativeAvailable:  d.engine.NativeSourceAvailable(),
		SessionSteps:     d.engine.CurrentSteps(),
		TotalDailySteps:  d.engine.TotalDailySteps(),
		Date:             d.engine.LedgerDate(),
		DailyGoal:        d.cfg.Tracking.DailyGoal,
		SedentaryState:   string(d.monitor.State()),
		SedentaryEnabled: d.monitor.Enabled(),
		LastActivity:     d.monitor.LastActivity(),
		Lifecycle:        string(d.lcStream.Current()),
		DBPath:           d.store.Path(),
		LockFilePath:     d.lockPath,
		PID:              os.Getpid(),
		Checks:           preflight.RunAll(ctx, d.cfg),
	}
}

// History returns recent daily totals, newest first, with today's entry
// overlaid by the live in-memory total so batched writes don't lag the
// report.
func (d *Daemon) History(ctx context.Context, days int) ([]store.DailyTotal, error) {
	entries, err := d.store.History(ctx, days)
	if err != nil {
		return nil, err
	}

	today := d.engine.LedgerDate()
	total := d.engine.TotalDailySteps()
	found := false
	for i := range entries {
		if entries[i].Date == today {
			if total > entries[i].Total {
				entries[i].Total = total
			}
			found = true
			break
		}
	}
	if !found && total > 0 {
		entries = append([]store.DailyTotal{{Date: today, Total: total}}, entries...)
	}
	return entries, nil
}

// RecordActivity credits manually logged steps and resets the sedentary idle
// clock.
func (d *Daemon) RecordActivity(ctx context.Context, steps uint32) (uint32, error) {
	if steps == 0 {
		return 0, errors.New("step count must be positive")
	}
	total := d.engine.RecordManualActivity(ctx, steps)
	d.monitor.RecordActivity()
	return total, nil
}

// SetLifecycle publishes an app lifecycle transition reported over IPC.
func (d *Daemon) SetLifecycle(state lifecycle.State) error {
	if !state.Valid() {
		return fmt.Errorf("invalid lifecycle state %q", state)
	}
	d.lcStream.Publish(state)
	return nil
}

// SetSedentaryEnabled toggles sedentary nudging at runtime.
func (d *Daemon) SetSedentaryEnabled(ctx context.Context, enabled bool) error {
	return d.monitor.SetEnabled(ctx, enabled)
}

// TestNotification sends a test push notification.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, err.Error(), err
	}
	return true, "test notification sent", nil
}
