package shortcut

import (
	"sync"

	"github.com/tmarsden/daybook/internal/input/key"
)

// Handler receives a key event and reports whether it consumed it.
type Handler interface {
	HandleKey(ev key.Event) bool
}

// Dispatcher fans key events out to attached handlers.
type Dispatcher struct {
	mu       sync.Mutex
	handlers map[uint64]Handler
	order    []uint64
	nextID   uint64
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[uint64]Handler),
	}
}

// Subscription represents an attached handler.
type Subscription struct {
	id         uint64
	dispatcher *Dispatcher
}

// Detach removes the handler. Safe to call more than once; after Detach
// returns the handler will not see any further events.
func (s *Subscription) Detach() {
	if s.dispatcher != nil {
		s.dispatcher.detach(s.id)
	}
}

// Attach registers a handler. Handlers are consulted in attachment order.
func (d *Dispatcher) Attach(h Handler) *Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	d.handlers[id] = h
	d.order = append(d.order, id)

	return &Subscription{id: id, dispatcher: d}
}

// Dispatch offers the event to each handler until one consumes it.
// It returns true if any handler consumed the event.
func (d *Dispatcher) Dispatch(ev key.Event) bool {
	d.mu.Lock()
	handlers := make([]Handler, 0, len(d.order))
	for _, id := range d.order {
		if h, ok := d.handlers[id]; ok {
			handlers = append(handlers, h)
		}
	}
	d.mu.Unlock()

	// Handlers run outside the lock so they may detach themselves.
	for _, h := range handlers {
		if h.HandleKey(ev) {
			return true
		}
	}
	return false
}

// Len returns the number of attached handlers.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handlers)
}

func (d *Dispatcher) detach(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.handlers, id)
	for i, v := range d.order {
		if v == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}
