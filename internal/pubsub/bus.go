package pubsub

import (
	"context"
	"sync"
)

// Handle identifies a Bus subscription. The zero Handle is never issued.
type Handle uint64

// PanicHandler is called when a Bus subscriber panics during delivery.
// position is the subscriber's index in the delivery order.
type PanicHandler func(h Handle, position int, recovered any)

type busSub[T any] struct {
	handle Handle
	fn     func(T)
}

// Bus is a synchronous publish/subscribe channel. Publish delivers to every
// current subscriber, in subscription order, on the publisher's goroutine.
// A panicking subscriber is recovered and reported; delivery to the remaining
// subscribers continues.
type Bus[T any] struct {
	mu      sync.Mutex
	subs    []busSub[T]
	next    Handle
	onPanic PanicHandler
}

// BusOption configures a Bus.
type BusOption func(*busConfig)

type busConfig struct {
	onPanic PanicHandler
}

// WithPanicHandler installs a handler for recovered subscriber panics.
func WithPanicHandler(fn PanicHandler) BusOption {
	return func(c *busConfig) {
		c.onPanic = fn
	}
}

// NewBus creates an empty bus.
func NewBus[T any](opts ...BusOption) *Bus[T] {
	var cfg busConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Bus[T]{onPanic: cfg.onPanic}
}

// Subscribe appends fn to the delivery list and returns its handle.
func (b *Bus[T]) Subscribe(fn func(T)) Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.subs = append(b.subs, busSub[T]{handle: b.next, fn: fn})
	return b.next
}

// Unsubscribe removes the subscription. It reports whether the handle was
// subscribed.
func (b *Bus[T]) Unsubscribe(h Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.handle == h {
			// Copy so snapshots taken by in-flight publishes stay intact.
			subs := make([]busSub[T], 0, len(b.subs)-1)
			subs = append(subs, b.subs[:i]...)
			subs = append(subs, b.subs[i+1:]...)
			b.subs = subs
			return true
		}
	}
	return false
}

// Publish delivers ev to the subscribers registered at the time of the call
// and returns how many deliveries completed without panicking. Subscribers may
// publish, subscribe or unsubscribe from inside their callback.
func (b *Bus[T]) Publish(ev T) int {
	b.mu.Lock()
	subs := b.subs
	onPanic := b.onPanic
	b.mu.Unlock()

	delivered := 0
	for i, s := range subs {
		if deliver(s, i, ev, onPanic) {
			delivered++
		}
	}
	return delivered
}

// Len returns the number of current subscribers.
func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Forward republishes every bus event on broker under eventType until ctx is
// cancelled. It is how Bubble Tea models observe a Bus: they listen on the
// broker with a ContinuousListener.
func (b *Bus[T]) Forward(ctx context.Context, broker *Broker[T], eventType func(T) EventType) Handle {
	h := b.Subscribe(func(ev T) {
		broker.Publish(eventType(ev), ev)
	})
	go func() {
		<-ctx.Done()
		b.Unsubscribe(h)
	}()
	return h
}

func deliver[T any](s busSub[T], position int, ev T, onPanic PanicHandler) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			if onPanic != nil {
				onPanic(s.handle, position, r)
			}
		}
	}()
	s.fn(ev)
	return true
}
