package shared

import (
	"sync"
	"time"
)

// DomainEvent represents an event that has occurred in the domain
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}

// EventDispatcher dispatches domain events to handlers
type EventDispatcher interface {
	Dispatch(event DomainEvent) error
	Register(eventName string, handler EventHandler)
}

// EventHandler handles domain events
type EventHandler func(event DomainEvent) error

// AggregateRoot is the base type for aggregate roots
type AggregateRoot struct {
	events []DomainEvent
}

// AddEvent adds a domain event to be dispatched
func (a *AggregateRoot) AddEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// Events returns and clears pending domain events
func (a *AggregateRoot) Events() []DomainEvent {
	events := a.events
	a.events = nil
	return events
}

// ClearEvents clears all pending events
func (a *AggregateRoot) ClearEvents() {
	a.events = nil
}

// InMemoryDispatcher fans events out to the handlers registered for their name.
// Handlers registered under "*" receive every event.
type InMemoryDispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
}

// NewInMemoryDispatcher creates an empty dispatcher
func NewInMemoryDispatcher() *InMemoryDispatcher {
	return &InMemoryDispatcher{handlers: make(map[string][]EventHandler)}
}

// Register adds a handler for the given event name
func (d *InMemoryDispatcher) Register(eventName string, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventName] = append(d.handlers[eventName], handler)
}

// Dispatch runs every matching handler and returns the first error seen.
func (d *InMemoryDispatcher) Dispatch(event DomainEvent) error {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.handlers[event.EventName()]...)
	handlers = append(handlers, d.handlers["*"]...)
	d.mu.RUnlock()

	var firstErr error
	for _, h := range handlers {
		if err := h(event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
