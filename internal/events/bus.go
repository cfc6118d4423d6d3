// Package events carries the change notification emitted when a log entry
// is persisted, so observers such as the dashboard know to refresh. The Bus
// is strictly in-process; an optional NATS mirror can be attached as one of
// its subscribers.
package events

import (
	"sync"

	"github.com/lionsys/fittrack/internal/store"
)

type Bus struct {
	mu   sync.RWMutex
	subs map[int]func(store.LogEntry)
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(store.LogEntry))}
}

// Subscribe registers fn for every stored log entry and returns an
// unsubscribe func.
func (b *Bus) Subscribe(fn func(store.LogEntry)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Notify fans the entry out to every subscriber, synchronously.
func (b *Bus) Notify(e store.LogEntry) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, fn := range b.subs {
		fn(e)
	}
}
