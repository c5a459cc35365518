package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DailyTotal is one day's final (or running) step count.
type DailyTotal struct {
	Date  string `json:"date"`
	Total uint32 `json:"total"`
}

// UpsertDailyTotal records the running total for a date. Totals only grow
// within a date, so the stored value is kept at the maximum seen.
func (s *Store) UpsertDailyTotal(ctx context.Context, date string, total uint32) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_steps (date, total, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(date) DO UPDATE SET
             total = MAX(daily_steps.total, excluded.total),
             updated_at = excluded.updated_at`,
		date, int64(total), now,
	)
	if err != nil {
		return fmt.Errorf("upsert daily total for %s: %w", date, err)
	}
	return nil
}

// TotalForDate returns the recorded total for a date and whether a row exists.
func (s *Store) TotalForDate(ctx context.Context, date string) (uint32, bool, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `SELECT total FROM daily_steps WHERE date = ?`, date).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("total for %s: %w", date, err)
	}
	return uint32(total), true, nil
}

// History returns up to days most recent daily totals, newest first.
func (s *Store) History(ctx context.Context, days int) ([]DailyTotal, error) {
	if days <= 0 {
		days = 7
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, total FROM daily_steps ORDER BY date DESC LIMIT ?`, days)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []DailyTotal
	for rows.Next() {
		var entry DailyTotal
		var total int64
		if err := rows.Scan(&entry.Date, &total); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entry.Total = uint32(total)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}
