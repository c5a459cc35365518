package pedometer

import (
	"sync"

	"github.com/google/uuid"
)

// ObserverHub fans each accepted step update out to registered listeners,
// synchronously and in registration order. Listeners receive the new daily
// total after the in-memory ledger mutation commits; persistence may still be
// pending.
type ObserverHub struct {
	mu        sync.Mutex
	listeners []hubListener
}

type hubListener struct {
	token string
	fn    func(total uint32)
}

// NewObserverHub returns an empty hub.
func NewObserverHub() *ObserverHub {
	return &ObserverHub{}
}

// Subscribe registers a listener and returns its unsubscribe function. The
// hub holds the callback only for dispatch; unsubscribing is the caller's
// responsibility.
func (h *ObserverHub) Subscribe(fn func(total uint32)) func() {
	token := uuid.NewString()

	h.mu.Lock()
	h.listeners = append(h.listeners, hubListener{token: token, fn: fn})
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, l := range h.listeners {
			if l.token == token {
				h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
				return
			}
		}
	}
}

// Notify dispatches the new total to every listener in registration order.
func (h *ObserverHub) Notify(total uint32) {
	h.mu.Lock()
	listeners := make([]hubListener, len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.Unlock()

	for _, l := range listeners {
		l.fn(total)
	}
}

// Len reports the number of registered listeners.
func (h *ObserverHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}
