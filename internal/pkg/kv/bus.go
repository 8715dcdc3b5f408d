package kv

import "sync"

// Change describes a key whose value was written.
type Change struct {
	Key   string
	Value string
}

// Bus fans out change notifications to subscribers. Delivery is best-effort:
// a subscriber whose channel is full misses the event rather than blocking
// the writer.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs map[int]chan Change
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Change)}
}

// Subscribe registers a listener. The returned cancel func must be called
// when the listener is done.
func (b *Bus) Subscribe() (<-chan Change, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Change, 16)
	b.subs[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

// Publish notifies all subscribers of a change.
func (b *Bus) Publish(c Change) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- c:
		default:
		}
	}
}
