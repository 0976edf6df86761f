package events

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

type registry struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
}

// Subscribe registers a handler for the given event type.
func (r *registry) Subscribe(eventType EventType, handler EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listeners == nil {
		r.listeners = make(map[EventType][]EventHandler)
	}
	r.listeners[eventType] = append(r.listeners[eventType], handler)
}

func (r *registry) handlers(eventType EventType) []EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]EventHandler{}, r.listeners[eventType]...)
}

// inMemoryDispatcher is a simple synchronous dispatcher.
type inMemoryDispatcher struct {
	registry
}

// NewInMemoryDispatcher creates a dispatcher that runs handlers on the caller's goroutine.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{}
}

// Publish invokes every handler and joins their errors.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, handler := range d.handlers(event.Type) {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Runner executes tasks off the caller's goroutine.
type Runner interface {
	Submit(task func(ctx context.Context)) error
}

// DropFunc observes events that could not be queued.
type DropFunc func(event Event, err error)

type asyncDispatcher struct {
	registry
	runner Runner
	logger *zap.Logger
	onDrop DropFunc
}

// NewAsyncDispatcher creates a dispatcher that hands every handler invocation to
// runner. Publish never waits for handlers; handler errors are only logged.
func NewAsyncDispatcher(runner Runner, logger *zap.Logger, onDrop DropFunc) Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &asyncDispatcher{
		runner: runner,
		logger: logger,
		onDrop: onDrop,
	}
}

// Publish queues handlers and returns. The request context is not propagated;
// handlers receive the runner's context so they outlive the request.
func (d *asyncDispatcher) Publish(_ context.Context, event Event) error {
	for _, handler := range d.handlers(event.Type) {
		err := d.runner.Submit(func(ctx context.Context) {
			if err := handler(ctx, event); err != nil {
				d.logger.Error("event handler failed",
					zap.String("event_id", event.ID),
					zap.String("event_type", string(event.Type)),
					zap.String("complaint_id", event.ComplaintID),
					zap.Error(err))
			}
		})
		if err != nil {
			d.logger.Warn("event dropped",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)),
				zap.String("complaint_id", event.ComplaintID),
				zap.Error(err))
			if d.onDrop != nil {
				d.onDrop(event, err)
			}
		}
	}
	return nil
}
