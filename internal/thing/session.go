package thing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/zjrosen/thingdock/internal/log"
	"github.com/zjrosen/thingdock/internal/pubsub"
)

// Store persists Things.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*Thing, error)
	List(ctx context.Context, kind ClassKind) ([]*Thing, error)
	Children(ctx context.Context, id uuid.UUID) ([]*Thing, error)
	Save(ctx context.Context, t *Thing) (*Thing, error)
}

// ChangeEvent tells observers that a Thing changed. A zero ThingID means the
// data source changed outside this process and everything should be reloaded.
type ChangeEvent struct {
	ThingID  uuid.UUID
	Kind     ClassKind
	Revision int
}

// External reports whether the change came from outside the session.
func (e ChangeEvent) External() bool {
	return e.ThingID == uuid.Nil
}

// Session is the connection handle to one data source. View-models read
// through it and observe its change notifications.
type Session struct {
	source  string
	store   Store
	changes *pubsub.Broker[ChangeEvent]
}

// NewSession connects a data source URI to its store.
func NewSession(source string, store Store) *Session {
	return &Session{
		source:  source,
		store:   store,
		changes: pubsub.NewBroker[ChangeEvent](),
	}
}

// DataSource returns the URI identifying the data source.
func (s *Session) DataSource() string {
	return s.source
}

// Get loads a Thing by ID.
func (s *Session) Get(ctx context.Context, id uuid.UUID) (*Thing, error) {
	return s.store.Get(ctx, id)
}

// List loads every Thing of a kind.
func (s *Session) List(ctx context.Context, kind ClassKind) ([]*Thing, error) {
	return s.store.List(ctx, kind)
}

// Children loads the Things contained by id.
func (s *Session) Children(ctx context.Context, id uuid.UUID) ([]*Thing, error) {
	return s.store.Children(ctx, id)
}

// Write saves every change recorded in tx and notifies observers.
func (s *Session) Write(ctx context.Context, tx *Transaction) error {
	if tx == nil || tx.Empty() {
		return nil
	}
	for _, c := range tx.Changes() {
		c.Thing.DataSource = s.source
		saved, err := s.store.Save(ctx, c.Thing)
		if err != nil {
			return fmt.Errorf("writing %s %s: %w", c.Thing.Kind, c.Thing.ID, err)
		}
		evType := pubsub.UpdatedEvent
		if c.Op == OpCreate {
			evType = pubsub.CreatedEvent
		}
		s.changes.Publish(evType, ChangeEvent{ThingID: saved.ID, Kind: saved.Kind, Revision: saved.Revision})
	}
	log.Debug(log.CatStore, "transaction written", "source", s.source, "changes", len(tx.Changes()))
	return nil
}

// NotifyExternal publishes a reload-everything change, used when the file
// watcher sees the database modified by another process.
func (s *Session) NotifyExternal() {
	s.changes.Publish(pubsub.UpdatedEvent, ChangeEvent{})
}

// Changes subscribes to change notifications for the lifetime of ctx.
func (s *Session) Changes(ctx context.Context) <-chan pubsub.Event[ChangeEvent] {
	return s.changes.Subscribe(ctx)
}

// Broker exposes the change broker for Bubble Tea listeners.
func (s *Session) Broker() *pubsub.Broker[ChangeEvent] {
	return s.changes
}

// Observers returns the number of live change subscriptions. A view-model
// that was disposed must not be counted here.
func (s *Session) Observers() int {
	return s.changes.SubscriberCount()
}

// Close stops all change notifications.
func (s *Session) Close() {
	s.changes.Close()
}
