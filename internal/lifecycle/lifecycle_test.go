package lifecycle_test

import (
	"testing"

	"stride/internal/lifecycle"
)

func TestStreamStartsBackgrounded(t *testing.T) {
	s := lifecycle.NewStream()
	if s.Current() != lifecycle.Background {
		t.Fatalf("expected initial state background, got %s", s.Current())
	}
}

func TestPublishNotifiesInOrder(t *testing.T) {
	s := lifecycle.NewStream()

	var got []string
	s.Subscribe(func(state lifecycle.State) {
		got = append(got, "first:"+string(state))
	})
	s.Subscribe(func(state lifecycle.State) {
		got = append(got, "second:"+string(state))
	})

	s.Publish(lifecycle.Foreground)

	if len(got) != 2 || got[0] != "first:foreground" || got[1] != "second:foreground" {
		t.Fatalf("unexpected dispatch order: %v", got)
	}
	if s.Current() != lifecycle.Foreground {
		t.Fatalf("expected current foreground, got %s", s.Current())
	}
}

func TestPublishSameStateIsNoop(t *testing.T) {
	s := lifecycle.NewStream()
	calls := 0
	s.Subscribe(func(lifecycle.State) { calls++ })

	s.Publish(lifecycle.Background)
	if calls != 0 {
		t.Fatalf("expected no dispatch for repeated state, got %d", calls)
	}
}

func TestUnsubscribeStopsDispatch(t *testing.T) {
	s := lifecycle.NewStream()
	calls := 0
	unsubscribe := s.Subscribe(func(lifecycle.State) { calls++ })

	s.Publish(lifecycle.Foreground)
	unsubscribe()
	s.Publish(lifecycle.Background)

	if calls != 1 {
		t.Fatalf("expected exactly one dispatch, got %d", calls)
	}
}

func TestPublishIgnoresInvalidState(t *testing.T) {
	s := lifecycle.NewStream()
	s.Publish(lifecycle.State("hibernating"))
	if s.Current() != lifecycle.Background {
		t.Fatalf("expected invalid state ignored, got %s", s.Current())
	}
}
