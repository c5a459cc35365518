package pedometer

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"stride/internal/logging"
	"stride/internal/store"
)

// ledgerDateLayout is the local calendar date the ledger keys its day on.
const ledgerDateLayout = "2006-01-02"

// Persister is the slice of the store the ledger writes through. The store is
// shared with the rest of the daemon; the ledger touches only its own
// namespaced keys and the daily totals table.
type Persister interface {
	GetState(ctx context.Context, key string) (string, bool, error)
	SetStates(ctx context.Context, values map[string]string) error
	UpsertDailyTotal(ctx context.Context, date string, total uint32) error
}

// Ledger is the sole writer of the persisted daily aggregate. It owns the
// current date, the daily and session totals, and the reconciler baseline,
// and arbitrates the day-boundary rollover.
//
// The ledger is not internally locked; the engine serializes all access.
type Ledger struct {
	persister  Persister
	logger     *slog.Logger
	reconciler *CounterReconciler
	batchSize  int
	now        func() time.Time

	date    string
	total   uint32
	session uint32
	unsaved int
}

// NewLedger builds an unloaded ledger. batchSize is the number of accepted
// deltas between persistence writes; writes also happen on rollover, flush,
// and backgrounding.
func NewLedger(persister Persister, logger *slog.Logger, batchSize int, now func() time.Time) *Ledger {
	if batchSize < 1 {
		batchSize = 1
	}
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		persister:  persister,
		logger:     logging.NewComponentLogger(logger, "step-ledger"),
		reconciler: NewCounterReconciler(0),
		batchSize:  batchSize,
		now:        now,
	}
}

// Load restores the persisted aggregate. If the persisted date is not today
// the rollover runs immediately, so a restart across midnight starts the new
// day at zero with a fresh reconciler baseline. Session steps always start
// at zero; the persisted session count is a snapshot of the previous run,
// never a value to resume from.
func (l *Ledger) Load(ctx context.Context) error {
	date, _, err := l.persister.GetState(ctx, store.KeyLedgerDate)
	if err != nil {
		return fmt.Errorf("load ledger date: %w", err)
	}
	total, err := l.loadUint(ctx, store.KeyLedgerTotal)
	if err != nil {
		return err
	}
	baseline, err := l.loadUint(ctx, store.KeyLedgerRawBaseline)
	if err != nil {
		return err
	}

	today := l.today()
	l.session = 0
	l.unsaved = 0

	if date == "" {
		l.date = today
		l.total = 0
		l.reconciler = NewCounterReconciler(0)
		return nil
	}

	l.date = date
	l.total = uint32(total)
	l.reconciler = NewCounterReconciler(baseline)

	if l.date != today {
		l.rollover(ctx, today)
	}
	return nil
}

func (l *Ledger) loadUint(ctx context.Context, key string) (uint64, error) {
	raw, ok, err := l.persister.GetState(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s value %q: %w", key, raw, err)
	}
	return value, nil
}

// Reconciler returns the hardware-counter reconciler the ledger restores and
// re-baselines.
func (l *Ledger) Reconciler() *CounterReconciler {
	return l.reconciler
}

// Date returns the calendar date the current totals belong to.
func (l *Ledger) Date() string { return l.date }

// TotalDailySteps returns the running total for the current date.
func (l *Ledger) TotalDailySteps() uint32 { return l.total }

// SessionSteps returns the steps counted since tracking last started.
func (l *Ledger) SessionSteps() uint32 { return l.session }

// ResetSession zeroes the session counter at tracking start.
func (l *Ledger) ResetSession() { l.session = 0 }

// CheckRollover compares the cached date against the local calendar and runs
// the rollover when they differ. Returns true if a rollover happened.
func (l *Ledger) CheckRollover(ctx context.Context) bool {
	today := l.today()
	if l.date == today {
		return false
	}
	l.rollover(ctx, today)
	return true
}

// ApplyDelta credits an accepted delta to the daily and session totals and
// returns the new daily total. Rollover is checked first, so a delta arriving
// after midnight lands on the new date. Persistence is batched; a failed
// write is logged and the in-memory total stands.
func (l *Ledger) ApplyDelta(ctx context.Context, delta uint32) uint32 {
	l.CheckRollover(ctx)
	if delta == 0 {
		return l.total
	}

	l.total += delta
	l.session += delta
	l.unsaved++

	if l.unsaved >= l.batchSize {
		if err := l.persist(ctx); err != nil {
			logging.WarnWithContext(l.logger, "ledger write failed; continuing with in-memory totals", "ledger_persist_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check data directory permissions and free space"),
				logging.String(logging.FieldImpact, "recent steps are lost if the daemon crashes before the next write"),
			)
		}
	}
	return l.total
}

// Flush writes the current aggregate unconditionally. Called on stop, on
// backgrounding, and at daemon shutdown.
func (l *Ledger) Flush(ctx context.Context) error {
	return l.persist(ctx)
}

// rollover resets the daily aggregate for a new date. The previous date's
// final total is recorded in the history table first, then the reset
// snapshot is written as the last step so a crash mid-rollover never double
// counts across the boundary.
func (l *Ledger) rollover(ctx context.Context, today string) {
	previous := l.date
	previousTotal := l.total

	if previous != "" && previousTotal > 0 {
		if err := l.persister.UpsertDailyTotal(ctx, previous, previousTotal); err != nil {
			l.logger.Warn("failed to archive previous day total",
				logging.Error(err),
				logging.String(logging.FieldDate, previous),
			)
		}
	}

	l.date = today
	l.total = 0
	l.session = 0
	l.reconciler.Rebaseline()

	if err := l.persist(ctx); err != nil {
		logging.WarnWithContext(l.logger, "rollover write failed", "rollover_persist_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check data directory permissions and free space"),
			logging.String(logging.FieldImpact, "a crash before the next write may replay yesterday's total"),
		)
	}

	l.logger.Info("day rollover",
		logging.String(logging.FieldEventType, "day_rollover"),
		logging.String(logging.FieldDate, today),
		logging.String("previous_date", previous),
		logging.Uint64("previous_total", uint64(previousTotal)),
	)
}

// persist writes the snapshot in one transaction so the date, totals, and
// baseline never tear, then mirrors the running total into the history table.
// The session count is part of the snapshot for inspection of the last run;
// Load never restores it because a session spans one tracking run.
func (l *Ledger) persist(ctx context.Context) error {
	err := l.persister.SetStates(ctx, map[string]string{
		store.KeyLedgerDate:        l.date,
		store.KeyLedgerTotal:       strconv.FormatUint(uint64(l.total), 10),
		store.KeyLedgerSession:     strconv.FormatUint(uint64(l.session), 10),
		store.KeyLedgerRawBaseline: strconv.FormatUint(l.reconciler.Baseline(), 10),
	})
	if err != nil {
		return err
	}
	l.unsaved = 0
	if err := l.persister.UpsertDailyTotal(ctx, l.date, l.total); err != nil {
		return err
	}
	return nil
}

func (l *Ledger) today() string {
	return l.now().Local().Format(ledgerDateLayout)
}
