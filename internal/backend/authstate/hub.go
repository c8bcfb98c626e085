// Package authstate holds identity state shared by the identity backends:
// the change hub that feeds subscribers and the persisted session file.
package authstate

import (
	"sync"

	"taskhub/internal/service"
)

// Hub tracks the current identity and fans changes out to subscribers.
// Delivery is synchronous and ordered. Callbacks must not call back into the Hub.
type Hub struct {
	mu      sync.Mutex
	current *service.User
	nextID  int
	subs    map[int]func(*service.User)
	order   []int
}

// NewHub creates a hub whose current identity is initial (nil when signed out).
func NewHub(initial *service.User) *Hub {
	return &Hub{
		current: clone(initial),
		subs:    make(map[int]func(*service.User)),
	}
}

// Current returns a copy of the current identity, or nil.
func (h *Hub) Current() *service.User {
	h.mu.Lock()
	defer h.mu.Unlock()
	return clone(h.current)
}

// Publish sets the current identity and delivers it to every subscriber
// in subscription order before returning.
func (h *Hub) Publish(u *service.User) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.current = clone(u)
	for _, id := range h.order {
		h.subs[id](clone(h.current))
	}
}

// Subscribe registers fn and immediately delivers the current identity to it.
func (h *Hub) Subscribe(fn func(*service.User)) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.order = append(h.order, id)
	fn(clone(h.current))

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *Hub) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subs, id)
	for i, v := range h.order {
		if v == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

// clone copies u so subscribers cannot mutate shared state.
func clone(u *service.User) *service.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
