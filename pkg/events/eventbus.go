package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/oarkflow/smpp-client/pkg/smpp"
)

// EventBus implements a thread-safe pub/sub bus for client lifecycle and
// message events.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[smpp.EventType][]smpp.EventHandler
	logger      smpp.Logger
	async       bool
}

// NewEventBus creates a new event bus. With async set, handlers run in
// their own goroutine and handler errors are only logged.
func NewEventBus(logger smpp.Logger, async bool) *EventBus {
	return &EventBus{
		subscribers: make(map[smpp.EventType][]smpp.EventHandler),
		logger:      logger,
		async:       async,
	}
}

// Subscribe subscribes to events of a specific type
func (eb *EventBus) Subscribe(ctx context.Context, eventType smpp.EventType, handler smpp.EventHandler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	eb.mu.Lock()
	defer eb.mu.Unlock()

	for _, h := range eb.subscribers[eventType] {
		if h.GetHandlerID() == handler.GetHandlerID() {
			return fmt.Errorf("handler %s already subscribed to event type %s", handler.GetHandlerID(), eventType)
		}
	}
	eb.subscribers[eventType] = append(eb.subscribers[eventType], handler)

	if eb.logger != nil {
		eb.logger.Debug("Handler subscribed to event",
			"handler_id", handler.GetHandlerID(),
			"event_type", eventType)
	}
	return nil
}

// Unsubscribe unsubscribes from events
func (eb *EventBus) Unsubscribe(ctx context.Context, eventType smpp.EventType, handler smpp.EventHandler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	eb.mu.Lock()
	defer eb.mu.Unlock()

	handlers := eb.subscribers[eventType]
	for i, h := range handlers {
		if h.GetHandlerID() == handler.GetHandlerID() {
			eb.subscribers[eventType] = append(handlers[:i], handlers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("handler %s not subscribed to event type %s", handler.GetHandlerID(), eventType)
}

// Publish delivers the event to every subscriber of its type.
func (eb *EventBus) Publish(ctx context.Context, event smpp.Event) error {
	eb.mu.RLock()
	handlers := make([]smpp.EventHandler, len(eb.subscribers[event.GetEventType()]))
	copy(handlers, eb.subscribers[event.GetEventType()])
	eb.mu.RUnlock()

	for _, handler := range handlers {
		if eb.async {
			go eb.deliver(ctx, handler, event)
			continue
		}
		if err := handler.HandleEvent(ctx, event); err != nil {
			return fmt.Errorf("handler %s: %w", handler.GetHandlerID(), err)
		}
	}
	return nil
}

func (eb *EventBus) deliver(ctx context.Context, handler smpp.EventHandler, event smpp.Event) {
	if err := handler.HandleEvent(ctx, event); err != nil && eb.logger != nil {
		eb.logger.Error("Event handler failed",
			"handler_id", handler.GetHandlerID(),
			"event_type", event.GetEventType(),
			"error", err)
	}
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc struct {
	ID string
	Fn func(ctx context.Context, event smpp.Event) error
}

func (h HandlerFunc) HandleEvent(ctx context.Context, event smpp.Event) error {
	return h.Fn(ctx, event)
}

func (h HandlerFunc) GetHandlerID() string {
	return h.ID
}
