package database

import "sync"

// Change describes a committed write to a persistent key.
// Remote is false for the context that wrote it and true for every other context.
type Change struct {
	Key    string
	Origin string
	Remote bool
}

type subscriber struct {
	origin string
	fn     func(Change)
}

// Hub fans committed changes out to every subscribed browsing context.
type Hub struct {
	mu   sync.RWMutex
	subs map[int]subscriber
	next int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]subscriber)}
}

func (h *Hub) subscribe(origin string, fn func(Change)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	h.subs[id] = subscriber{origin: origin, fn: fn}

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// publish runs handlers synchronously on the writer's goroutine, after the write committed.
// Handlers must not block.
func (h *Hub) publish(c Change) {
	h.mu.RLock()
	subs := make([]subscriber, 0, len(h.subs))
	for _, sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		ev := c
		ev.Remote = sub.origin != c.Origin
		sub.fn(ev)
	}
}

// OnChange registers fn for every change to persistent keys, from this context or any other.
// The returned func unsubscribes.
func (s *Store) OnChange(fn func(Change)) func() {
	return s.hub.subscribe(s.origin, fn)
}
