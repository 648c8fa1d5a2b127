// Package event provides the in-process event dispatcher that replaces the
// SPA's ad hoc browser broadcasts. Views that used to listen for
// "cartUpdated" DOM events now register handlers here; server-side listeners
// feed the websocket hub, metrics and the mail queue.
package event

import "sync"

// Event names fired by the application.
const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
	CartUpdated        = "cart.updated"
	UserRegistered     = "user.registered"
)

// Handler receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners.
func Fire(event string, payload interface{}) {
	mu.RLock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}

// FireAsync dispatches the event to all listeners concurrently and returns
// without waiting for them.
func FireAsync(event string, payload interface{}) {
	mu.RLock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	mu.RUnlock()

	for _, h := range hs {
		go h(payload)
	}
}

// Flush removes all listeners. Used by tests.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
