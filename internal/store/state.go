package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Engine state keys. The "stride." prefix namespaces the shared key-value
// table; never write a key outside this prefix.
const (
	KeyLedgerDate            = "stride.ledger.date"
	KeyLedgerTotal           = "stride.ledger.total_daily_steps"
	KeyLedgerSession         = "stride.ledger.session_steps"
	KeyLedgerRawBaseline     = "stride.ledger.last_raw_counter"
	KeySedentaryLastActivity = "stride.sedentary.last_activity"
	KeySedentaryLastNudge    = "stride.sedentary.last_nudge"
	KeySedentaryEnabled      = "stride.sedentary.enabled"
	KeyGoalNotifiedDate      = "stride.goal.notified_date"
)

// GetState returns the value for key and whether it exists.
func (s *Store) GetState(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM engine_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get state %q: %w", key, err)
	}
	return value, true, nil
}

// SetState inserts or replaces the value for key.
func (s *Store) SetState(ctx context.Context, key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO engine_state (key, value, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now,
	)
	if err != nil {
		return fmt.Errorf("set state %q: %w", key, err)
	}
	return nil
}

// SetStates writes several keys in one transaction. Used for ledger snapshots
// so a crash never persists a torn date/total pair.
func (s *Store) SetStates(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin state tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for key, value := range values {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO engine_state (key, value, updated_at) VALUES (?, ?, ?)
             ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, now,
		); err != nil {
			return fmt.Errorf("set state %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit state tx: %w", err)
	}
	return nil
}

// DeleteState removes key if present.
func (s *Store) DeleteState(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM engine_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete state %q: %w", key, err)
	}
	return nil
}
