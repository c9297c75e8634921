// Package pubsub provides a small in-process publish/subscribe bus.
//
// The bus is generic over its payload type and carries no domain
// knowledge; the orders repository uses one instance for domain events
// and realtime views share a second instance for cache notifications.
package pubsub

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Handler consumes a published payload.
type Handler[T any] func(T)

// Subscription identifies a single registered handler.
type Subscription[T any] struct {
	event  string
	fn     Handler[T]
	once   bool
	active atomic.Bool
}

// Off deactivates the subscription. Calling Off more than once is a no-op.
func (s *Subscription[T]) Off() {
	if s != nil {
		s.active.Store(false)
	}
}

// Bus dispatches payloads to handlers registered under named events.
// Dispatch is synchronous and follows registration order.
type Bus[T any] struct {
	mu       sync.Mutex
	handlers map[string][]*Subscription[T]
	logger   *slog.Logger
}

// Option configures a Bus.
type Option[T any] func(*Bus[T])

// WithLogger sets the logger used to report recovered handler panics.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(b *Bus[T]) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBus constructs an empty bus.
func NewBus[T any](opts ...Option[T]) *Bus[T] {
	b := &Bus[T]{
		handlers: map[string][]*Subscription[T]{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// On registers fn for event. The handler runs on every Emit of that event
// after this call, until the returned subscription is removed.
func (b *Bus[T]) On(event string, fn Handler[T]) *Subscription[T] {
	return b.subscribe(event, fn, false)
}

// Once registers fn for event and removes it after the first delivery.
func (b *Bus[T]) Once(event string, fn Handler[T]) *Subscription[T] {
	return b.subscribe(event, fn, true)
}

// Off removes a subscription. Removing one that is absent or already
// removed is a no-op.
func (b *Bus[T]) Off(sub *Subscription[T]) {
	sub.Off()
}

func (b *Bus[T]) subscribe(event string, fn Handler[T], once bool) *Subscription[T] {
	sub := &Subscription[T]{event: event, fn: fn, once: once}
	sub.active.Store(true)
	if fn == nil {
		sub.active.Store(false)
		return sub
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], sub)
	return sub
}

// Emit synchronously invokes every handler currently registered for event,
// in registration order. A handler that panics is recovered and logged; it
// never prevents later handlers from running. Handlers registered during
// an Emit are not invoked by that Emit.
func (b *Bus[T]) Emit(event string, payload T) {
	b.mu.Lock()
	subs := b.handlers[event]
	snapshot := make([]*Subscription[T], 0, len(subs))
	compacted := subs[:0]
	for _, sub := range subs {
		if !sub.active.Load() {
			continue
		}
		snapshot = append(snapshot, sub)
		if sub.once {
			// Deactivate before dispatch so reentrant emits cannot
			// deliver twice.
			sub.active.Store(false)
			continue
		}
		compacted = append(compacted, sub)
	}
	b.handlers[event] = compacted
	b.mu.Unlock()

	for _, sub := range snapshot {
		if !sub.once && !sub.active.Load() {
			// Removed by an earlier handler in this same emit.
			continue
		}
		b.dispatch(event, sub, payload)
	}
}

func (b *Bus[T]) dispatch(event string, sub *Subscription[T], payload T) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("pubsub handler panicked",
				slog.String("event", event),
				slog.Any("panic", r),
			)
		}
	}()
	sub.fn(payload)
}

// Clear removes every registration for every event.
func (b *Bus[T]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for event, subs := range b.handlers {
		for _, sub := range subs {
			sub.active.Store(false)
		}
		delete(b.handlers, event)
	}
}

// Len reports the number of active subscriptions for event.
func (b *Bus[T]) Len(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, sub := range b.handlers[event] {
		if sub.active.Load() {
			n++
		}
	}
	return n
}
