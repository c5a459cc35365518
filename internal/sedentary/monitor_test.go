package sedentary

import (
	"context"
	"sync"
	"testing"
	"time"

	"stride/internal/lifecycle"
	"stride/internal/logging"
	"stride/internal/store"
	"stride/internal/testsupport"
)

type nudgeRecorder struct {
	mu    sync.Mutex
	calls int
	idle  time.Duration
}

func (n *nudgeRecorder) NotifySedentaryNudge(ctx context.Context, idle time.Duration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	n.idle = idle
	return nil
}

func (n *nudgeRecorder) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// newTestMonitor builds a started monitor with a seeded last-activity
// timestamp and a background lifecycle stream.
func newTestMonitor(t *testing.T, clock *testClock, recorder NudgeNotifier, lastActivity time.Time) (*Monitor, *lifecycle.Stream, *store.Store) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.SetStates(ctx, map[string]string{
		store.KeySedentaryLastActivity: lastActivity.UTC().Format(time.RFC3339Nano),
	}); err != nil {
		t.Fatalf("seed last activity: %v", err)
	}

	stream := lifecycle.NewStream()
	m := New(cfg.Sedentary, st, recorder, stream, logging.NewNop(), WithClock(clock.now))
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(m.Stop)
	return m, stream, st
}

func TestMonitorNudgesWhenIdleThresholdElapsed(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &testClock{t: t0}
	recorder := &nudgeRecorder{}

	// Last activity 46 minutes ago against a 45 minute threshold.
	m, _, _ := newTestMonitor(t, clock, recorder, t0.Add(-46*time.Minute))

	m.Check(context.Background())
	if recorder.count() != 1 {
		t.Fatalf("expected one nudge, got %d", recorder.count())
	}
	if m.State() != StateNudged {
		t.Fatalf("expected nudged state, got %s", m.State())
	}
}

func TestMonitorCooldown(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &testClock{t: t0}
	recorder := &nudgeRecorder{}
	ctx := context.Background()

	m, _, _ := newTestMonitor(t, clock, recorder, t0.Add(-46*time.Minute))

	m.Check(ctx)
	if recorder.count() != 1 {
		t.Fatalf("expected the first nudge, got %d", recorder.count())
	}

	// Ten minutes into the 30 minute cooldown: still idle, no second nudge.
	clock.set(t0.Add(10 * time.Minute))
	m.Check(ctx)
	if recorder.count() != 1 {
		t.Fatalf("nudge inside cooldown must not fire, got %d", recorder.count())
	}

	// Past the cooldown and still idle: fires again.
	clock.set(t0.Add(31 * time.Minute))
	m.Check(ctx)
	if recorder.count() != 2 {
		t.Fatalf("expected a second nudge after cooldown, got %d", recorder.count())
	}
}

func TestMonitorForegroundSuppression(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &testClock{t: t0}
	recorder := &nudgeRecorder{}
	ctx := context.Background()

	m, stream, _ := newTestMonitor(t, clock, recorder, t0.Add(-46*time.Minute))
	stream.Publish(lifecycle.Foreground)

	m.Check(ctx)
	if recorder.count() != 0 {
		t.Fatalf("foreground must suppress nudges, got %d", recorder.count())
	}
	if m.State() != StateSedentary {
		t.Fatalf("expected sedentary state while suppressed, got %s", m.State())
	}

	// Backgrounding again re-arms the nudge at the next check.
	stream.Publish(lifecycle.Background)
	m.Check(ctx)
	if recorder.count() != 1 {
		t.Fatalf("expected nudge after backgrounding, got %d", recorder.count())
	}
}

func TestMonitorRecheckNeverFires(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &testClock{t: t0}
	recorder := &nudgeRecorder{}

	m, _, _ := newTestMonitor(t, clock, recorder, t0.Add(-46*time.Minute))

	m.Recheck(context.Background())
	if recorder.count() != 0 {
		t.Fatalf("recheck must never fire a nudge, got %d", recorder.count())
	}
	if m.State() != StateSedentary {
		t.Fatalf("expected sedentary state, got %s", m.State())
	}
}

func TestMonitorActivityResetsIdleClock(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &testClock{t: t0}
	recorder := &nudgeRecorder{}
	ctx := context.Background()

	m, _, _ := newTestMonitor(t, clock, recorder, t0.Add(-46*time.Minute))

	m.RecordActivity()
	m.Check(ctx)
	if recorder.count() != 0 {
		t.Fatalf("activity must reset the idle clock, got %d nudges", recorder.count())
	}
	if m.State() != StateActive {
		t.Fatalf("expected active state, got %s", m.State())
	}
}

func TestMonitorOnStepsWindowing(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &testClock{t: t0}
	recorder := &nudgeRecorder{}

	m, _, _ := newTestMonitor(t, clock, recorder, t0.Add(-46*time.Minute))
	before := m.LastActivity()

	// Sub-threshold shuffling (default minimum 50 steps) does not qualify.
	m.OnSteps(30)
	if !m.LastActivity().Equal(before) {
		t.Fatal("30 steps must not count as qualifying activity")
	}

	// Crossing the threshold within the window does.
	m.OnSteps(60)
	if !m.LastActivity().Equal(t0) {
		t.Fatalf("expected activity at %v, got %v", t0, m.LastActivity())
	}
}

func TestMonitorSingleStepAfterPollDoesNotResetIdleClock(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &testClock{t: t0}
	recorder := &nudgeRecorder{}
	ctx := context.Background()

	m, _, _ := newTestMonitor(t, clock, recorder, t0)

	// A walk crosses the threshold at t0, then the user sits still.
	m.OnSteps(60)
	if !m.LastActivity().Equal(t0) {
		t.Fatalf("expected activity at %v, got %v", t0, m.LastActivity())
	}

	clock.set(t0.Add(1 * time.Minute))
	m.Check(ctx)

	// One step 44 minutes in is sub-threshold for its window and must not
	// count as qualifying activity.
	clock.set(t0.Add(44 * time.Minute))
	m.OnSteps(61)
	if !m.LastActivity().Equal(t0) {
		t.Fatalf("a single step must not reset the idle clock, got activity at %v", m.LastActivity())
	}

	// 46 minutes idle against the 45 minute threshold: nudge fires.
	clock.set(t0.Add(46 * time.Minute))
	m.Check(ctx)
	if recorder.count() != 1 {
		t.Fatalf("expected one nudge after the idle threshold, got %d", recorder.count())
	}
}

func TestMonitorDisabledNeverNudges(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &testClock{t: t0}
	recorder := &nudgeRecorder{}
	ctx := context.Background()

	m, _, _ := newTestMonitor(t, clock, recorder, t0.Add(-46*time.Minute))
	if err := m.SetEnabled(ctx, false); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}

	m.Check(ctx)
	if recorder.count() != 0 {
		t.Fatalf("disabled monitor must not nudge, got %d", recorder.count())
	}
}

func TestMonitorPersistsNudgeAcrossRestart(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &testClock{t: t0}
	recorder := &nudgeRecorder{}
	ctx := context.Background()

	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	if err := st.SetStates(ctx, map[string]string{
		store.KeySedentaryLastActivity: t0.Add(-46 * time.Minute).UTC().Format(time.RFC3339Nano),
	}); err != nil {
		t.Fatalf("seed last activity: %v", err)
	}

	stream := lifecycle.NewStream()
	m := New(cfg.Sedentary, st, recorder, stream, logging.NewNop(), WithClock(clock.now))
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	m.Check(ctx)
	m.Stop()
	if recorder.count() != 1 {
		t.Fatalf("expected one nudge before restart, got %d", recorder.count())
	}

	// A restarted monitor inside the cooldown stays throttled.
	clock.set(t0.Add(10 * time.Minute))
	restarted := New(cfg.Sedentary, st, recorder, stream, logging.NewNop(), WithClock(clock.now))
	if err := restarted.Start(ctx); err != nil {
		t.Fatalf("restart: %v", err)
	}
	t.Cleanup(restarted.Stop)

	restarted.Check(ctx)
	if recorder.count() != 1 {
		t.Fatalf("cooldown must survive restarts, got %d nudges", recorder.count())
	}
}
