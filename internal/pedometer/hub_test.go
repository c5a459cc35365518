package pedometer

import "testing"

func TestHubNotifiesInRegistrationOrder(t *testing.T) {
	hub := NewObserverHub()

	var order []int
	hub.Subscribe(func(uint32) { order = append(order, 1) })
	hub.Subscribe(func(uint32) { order = append(order, 2) })
	hub.Subscribe(func(uint32) { order = append(order, 3) })

	hub.Notify(100)

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("expected dispatch order 1,2,3, got %v", order)
	}
}

func TestHubUnsubscribeStopsDispatch(t *testing.T) {
	hub := NewObserverHub()

	calls := 0
	unsubscribe := hub.Subscribe(func(uint32) { calls++ })

	hub.Notify(1)
	unsubscribe()
	hub.Notify(2)

	if calls != 1 {
		t.Fatalf("expected exactly one call, got %d", calls)
	}
	if hub.Len() != 0 {
		t.Fatalf("expected no listeners after unsubscribe, got %d", hub.Len())
	}
}

func TestHubUnsubscribeIsIdempotent(t *testing.T) {
	hub := NewObserverHub()

	unsubscribe := hub.Subscribe(func(uint32) {})
	hub.Subscribe(func(uint32) {})

	unsubscribe()
	unsubscribe()

	if hub.Len() != 1 {
		t.Fatalf("expected one remaining listener, got %d", hub.Len())
	}
}
