// Package lifecycle tracks the host application's foreground/background state
// and fans transitions out to interested engine components.
//
// The daemon itself has no UI; the companion app (or the stride CLI) reports
// transitions over IPC. The sedentary monitor suppresses nudges while the app
// is foregrounded and forces a re-check when it returns to the foreground.
package lifecycle

import (
	"sync"

	"github.com/google/uuid"
)

// State is the host application's lifecycle state.
type State string

const (
	// Foreground means the companion app is visible and in active use.
	Foreground State = "foreground"
	// Background means the companion app is backgrounded or closed.
	Background State = "background"
)

// Valid reports whether s is a recognized lifecycle state.
func (s State) Valid() bool {
	return s == Foreground || s == Background
}

// Stream holds the current lifecycle state and notifies subscribers of
// transitions synchronously, in subscription order.
type Stream struct {
	mu    sync.Mutex
	state State
	order []string
	subs  map[string]func(State)
}

// NewStream returns a stream starting in the background state. A daemon with
// no connected app behaves as if the app were backgrounded, so nudges stay
// eligible.
func NewStream() *Stream {
	return &Stream{
		state: Background,
		subs:  make(map[string]func(State)),
	}
}

// Current returns the last published state.
func (s *Stream) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Publish records a transition and notifies subscribers. Publishing the
// current state again is a no-op.
func (s *Stream) Publish(state State) {
	if !state.Valid() {
		return
	}
	s.mu.Lock()
	if state == s.state {
		s.mu.Unlock()
		return
	}
	s.state = state
	fns := make([]func(State), 0, len(s.order))
	for _, id := range s.order {
		if fn, ok := s.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// Subscribe registers fn for future transitions and returns an unsubscribe
// function. The stream only holds fn for dispatch; callers own its lifetime.
func (s *Stream) Subscribe(fn func(State)) func() {
	if fn == nil {
		return func() {}
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.subs[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
		for i, existing := range s.order {
			if existing == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}
