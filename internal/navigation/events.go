package navigation

import (
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/thingdock/internal/log"
	"github.com/zjrosen/thingdock/internal/pubsub"
)

// Status is the lifecycle transition a LifecycleEvent announces.
type Status int

const (
	StatusOpen Status = iota
	StatusClosed
)

func (s Status) String() string {
	if s == StatusClosed {
		return "closed"
	}
	return "open"
}

// LifecycleEvent announces a panel being opened or closed.
type LifecycleEvent struct {
	SessionID uuid.UUID
	Kind      Kind
	Logic     Logic
	Surface   Surface
	Status    Status
	At        time.Time
}

// EventType maps a lifecycle event onto the pubsub event types, for
// Bus.Forward.
func (e LifecycleEvent) EventType() pubsub.EventType {
	if e.Status == StatusClosed {
		return pubsub.ClosedEvent
	}
	return pubsub.OpenedEvent
}

// NewEventBus creates the lifecycle bus. Subscriber panics are logged and do
// not stop delivery.
func NewEventBus() *pubsub.Bus[LifecycleEvent] {
	return pubsub.NewBus[LifecycleEvent](pubsub.WithPanicHandler(func(h pubsub.Handle, position int, recovered any) {
		log.Error(log.CatBus, "lifecycle subscriber panicked", "handle", h, "position", position, "panic", recovered)
	}))
}

func newEvent(s *Session, status Status) LifecycleEvent {
	return LifecycleEvent{
		SessionID: s.ID(),
		Kind:      s.Kind(),
		Logic:     s.Logic(),
		Surface:   s.Surface(),
		Status:    status,
		At:        time.Now(),
	}
}
