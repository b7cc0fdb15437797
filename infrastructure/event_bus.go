package infrastructure

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"raffler/domain/events"
)

// Handler is a function that handles events
type Handler func(ctx context.Context, event events.Event)

// EventBus dispatches events to in-process subscribers. Publishing never
// blocks the caller; handlers run on their own goroutines.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[events.EventType][]Handler
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[events.EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *EventBus) Subscribe(eventType events.EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("subscribed handler to event type")
}

// Publish dispatches an event to all registered handlers
func (b *EventBus) Publish(event events.Event) error {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	ctx := context.Background()
	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
	return nil
}
