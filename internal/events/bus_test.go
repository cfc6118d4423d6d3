package events

import (
	"testing"

	"github.com/lionsys/fittrack/internal/store"
)

func TestBus_NotifyReachesAllSubscribers(t *testing.T) {
	bus := NewBus()

	var got1, got2 []string
	bus.Subscribe(func(e store.LogEntry) { got1 = append(got1, e.ID) })
	bus.Subscribe(func(e store.LogEntry) { got2 = append(got2, e.ID) })

	bus.Notify(store.LogEntry{ID: "a"})
	bus.Notify(store.LogEntry{ID: "b"})

	if len(got1) != 2 || len(got2) != 2 {
		t.Fatalf("subscribers saw %d and %d events, want 2 and 2", len(got1), len(got2))
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	var count int
	unsub := bus.Subscribe(func(store.LogEntry) { count++ })

	bus.Notify(store.LogEntry{ID: "a"})
	unsub()
	bus.Notify(store.LogEntry{ID: "b"})

	if count != 1 {
		t.Errorf("subscriber saw %d events after unsubscribe, want 1", count)
	}
}

func TestBus_NotifyWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	// Must not panic.
	bus.Notify(store.LogEntry{ID: "a"})
}
