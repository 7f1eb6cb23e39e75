// Package viewkit holds the pieces shared by the view packages.
package viewkit

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/zjrosen/thingdock/internal/flags"
	"github.com/zjrosen/thingdock/internal/log"
	"github.com/zjrosen/thingdock/internal/thing"
	"github.com/zjrosen/thingdock/internal/ui/markdown"
	"github.com/zjrosen/thingdock/internal/ui/surface"
)

// Root is the identity root shared by every view package.
const Root = "Thingdock"

// Env is what surface factories are built with.
type Env struct {
	Host surface.Host
	// Markdown renders descriptions. Nil renders them as plain text.
	Markdown *markdown.Cache
	// Flags gates optional behavior. Nil leaves every flag at its default.
	Flags *flags.Registry
}

// Enabled reports whether the feature flag name is on.
func (e Env) Enabled(name string) bool {
	if e.Flags == nil {
		return flags.Default(name)
	}
	return e.Flags.Enabled(name)
}

// Subscription is a live change-notification subscription owned by a
// view-model. Stop ends it and waits for the handler to return.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Subscribe calls fn for every change on session that match accepts. A nil
// session yields a subscription that does nothing.
func Subscribe(session *thing.Session, match func(thing.ChangeEvent) bool, fn func(context.Context, thing.ChangeEvent)) *Subscription {
	ctx, cancel := context.WithCancel(context.Background())
	sub := &Subscription{cancel: cancel, done: make(chan struct{})}
	if session == nil {
		close(sub.done)
		return sub
	}
	ch := session.Changes(ctx)
	go func() {
		defer close(sub.done)
		for ev := range ch {
			if ctx.Err() != nil {
				return
			}
			if match == nil || match(ev.Payload) {
				fn(ctx, ev.Payload)
			}
		}
	}()
	return sub
}

// Stop cancels the subscription. Safe to call more than once.
func (s *Subscription) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

// Stopped reports whether the subscription has ended.
func (s *Subscription) Stopped() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// ForThing matches changes to id and external reloads.
func ForThing(id uuid.UUID) func(thing.ChangeEvent) bool {
	return func(ev thing.ChangeEvent) bool {
		return ev.External() || ev.ThingID == id
	}
}

// Any matches every change.
func Any(thing.ChangeEvent) bool { return true }

// Reload fetches id from session, logging and returning nil on failure.
func Reload(ctx context.Context, session *thing.Session, id uuid.UUID) *thing.Thing {
	t, err := session.Get(ctx, id)
	if err != nil {
		log.ErrorErr(log.CatUI, "reload thing", err, "id", id)
		return nil
	}
	return t
}
