package store_test

import (
	"context"
	"strings"
	"testing"

	"stride/internal/store"
	"stride/internal/testsupport"
)

func TestStateRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, ok, err := st.GetState(ctx, store.KeyLedgerDate); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := st.SetState(ctx, store.KeyLedgerDate, "2024-01-01"); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	value, ok, err := st.GetState(ctx, store.KeyLedgerDate)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if !ok || value != "2024-01-01" {
		t.Fatalf("unexpected value %q ok=%v", value, ok)
	}

	if err := st.SetState(ctx, store.KeyLedgerDate, "2024-01-02"); err != nil {
		t.Fatalf("SetState overwrite: %v", err)
	}
	value, _, err = st.GetState(ctx, store.KeyLedgerDate)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if value != "2024-01-02" {
		t.Fatalf("expected overwritten value, got %q", value)
	}

	if err := st.DeleteState(ctx, store.KeyLedgerDate); err != nil {
		t.Fatalf("DeleteState: %v", err)
	}
	if _, ok, _ := st.GetState(ctx, store.KeyLedgerDate); ok {
		t.Fatal("expected key deleted")
	}
}

func TestSetStatesWritesAtomically(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	err := st.SetStates(ctx, map[string]string{
		store.KeyLedgerDate:        "2024-01-02",
		store.KeyLedgerTotal:       "120",
		store.KeyLedgerRawBaseline: "10050",
	})
	if err != nil {
		t.Fatalf("SetStates: %v", err)
	}

	for key, want := range map[string]string{
		store.KeyLedgerDate:        "2024-01-02",
		store.KeyLedgerTotal:       "120",
		store.KeyLedgerRawBaseline: "10050",
	} {
		value, ok, err := st.GetState(ctx, key)
		if err != nil || !ok {
			t.Fatalf("GetState(%s): ok=%v err=%v", key, ok, err)
		}
		if value != want {
			t.Fatalf("GetState(%s) = %q, want %q", key, value, want)
		}
	}
}

func TestNamespacedKeys(t *testing.T) {
	for _, key := range []string{
		store.KeyLedgerDate,
		store.KeyLedgerTotal,
		store.KeyLedgerSession,
		store.KeyLedgerRawBaseline,
		store.KeySedentaryLastActivity,
		store.KeySedentaryLastNudge,
		store.KeySedentaryEnabled,
		store.KeyGoalNotifiedDate,
	} {
		if !strings.HasPrefix(key, "stride.") {
			t.Fatalf("key %q escapes the stride namespace", key)
		}
	}
}

func TestDailyTotalsNeverShrink(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.UpsertDailyTotal(ctx, "2024-01-01", 500); err != nil {
		t.Fatalf("UpsertDailyTotal: %v", err)
	}
	if err := st.UpsertDailyTotal(ctx, "2024-01-01", 300); err != nil {
		t.Fatalf("UpsertDailyTotal: %v", err)
	}

	total, ok, err := st.TotalForDate(ctx, "2024-01-01")
	if err != nil || !ok {
		t.Fatalf("TotalForDate: ok=%v err=%v", ok, err)
	}
	if total != 500 {
		t.Fatalf("expected total to stay at 500, got %d", total)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for date, total := range map[string]uint32{
		"2024-01-01": 500,
		"2024-01-02": 1200,
		"2024-01-03": 80,
	} {
		if err := st.UpsertDailyTotal(ctx, date, total); err != nil {
			t.Fatalf("UpsertDailyTotal(%s): %v", date, err)
		}
	}

	entries, err := st.History(ctx, 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Date != "2024-01-03" || entries[1].Date != "2024-01-02" {
		t.Fatalf("expected newest first ordering, got %+v", entries)
	}
}

func TestReopenPreservesState(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.SetState(ctx, store.KeyLedgerRawBaseline, "5000"); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	value, ok, err := reopened.GetState(ctx, store.KeyLedgerRawBaseline)
	if err != nil || !ok {
		t.Fatalf("GetState after reopen: ok=%v err=%v", ok, err)
	}
	if value != "5000" {
		t.Fatalf("expected persisted baseline 5000, got %q", value)
	}
}
