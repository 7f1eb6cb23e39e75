package navigation

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/thingdock/internal/log"
)

var errNotFloating = errors.New("surface cannot be shown floating")

// FloatingRegistry tracks non-blocking dialogs, at most one per key.
type FloatingRegistry struct {
	nav *Navigator

	mu      sync.Mutex
	entries map[uuid.UUID]*Session
}

// Open shows a floating surface for logic. When a session for logic.Key() is
// already open its surface is activated instead and logic, if it is a
// different instance, is disposed. The registry owns logic from this call on.
func (r *FloatingRegistry) Open(ctx context.Context, logic FloatingLogic) error {
	key := logic.Key()
	if r.activate(key, logic) {
		return nil
	}

	ctx, span := r.nav.factory.tracer.Start(ctx, "navigation.floating.open",
		trace.WithAttributes(
			attribute.String("navigation.key", key.String()),
			attribute.String("navigation.logic", logic.Identity()),
		))
	defer span.End()

	s, err := r.nav.factory.Bind(ctx, KindFloating, logic, r.nav.handles(Args{}))
	if err != nil {
		disposeQuietly(logic)
		return err
	}
	surface, ok := s.Surface().(FloatingSurface)
	if !ok {
		s.Close()
		return &ConstructionError{Identity: s.Surface().Identity(), Part: PartSurface, Err: errNotFloating}
	}

	r.mu.Lock()
	if existing, ok := r.entries[key]; ok {
		// Lost a race with a concurrent Open for the same key.
		r.mu.Unlock()
		if existing.Logic() == Logic(logic) {
			s.discard()
		} else {
			s.Close()
		}
		activateQuietly(existing)
		return nil
	}
	r.entries[key] = s
	r.mu.Unlock()

	s.markOpen()
	surface.Show()
	log.Debug(log.CatFloating, "floating opened", "key", key, "id", s.ID(), "logic", logic.Identity())
	return nil
}

func (r *FloatingRegistry) activate(key uuid.UUID, logic FloatingLogic) bool {
	r.mu.Lock()
	existing, ok := r.entries[key]
	r.mu.Unlock()
	if !ok {
		return false
	}
	if existing.Logic() != Logic(logic) {
		disposeQuietly(logic)
	}
	activateQuietly(existing)
	log.Debug(log.CatFloating, "floating activated", "key", key, "id", existing.ID())
	return true
}

// Close tears down the session whose surface is surface. Closing an unknown
// surface is a no-op and reports false.
func (r *FloatingRegistry) Close(surface Surface) bool {
	r.mu.Lock()
	var found *Session
	for key, s := range r.entries {
		if s.Surface() == surface {
			found = s
			delete(r.entries, key)
			break
		}
	}
	r.mu.Unlock()
	if found == nil {
		return false
	}
	found.Close()
	log.Debug(log.CatFloating, "floating closed", "id", found.ID())
	return true
}

// CloseKey closes the session registered for key.
func (r *FloatingRegistry) CloseKey(key uuid.UUID) bool {
	r.mu.Lock()
	s, ok := r.entries[key]
	delete(r.entries, key)
	r.mu.Unlock()
	if !ok {
		return false
	}
	s.Close()
	return true
}

// CloseAll closes every floating session.
func (r *FloatingRegistry) CloseAll() int {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.entries))
	for _, s := range r.entries {
		sessions = append(sessions, s)
	}
	clear(r.entries)
	r.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
	return len(sessions)
}

// Lookup returns the session open for key.
func (r *FloatingRegistry) Lookup(key uuid.UUID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.entries[key]
	return s, ok
}

// Keys returns the keys of the open floating sessions, sorted.
func (r *FloatingRegistry) Keys() []uuid.UUID {
	r.mu.Lock()
	keys := make([]uuid.UUID, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	r.mu.Unlock()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// Len returns the number of open floating sessions.
func (r *FloatingRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sessions returns the open floating sessions, oldest first.
func (r *FloatingRegistry) Sessions() []*Session {
	r.mu.Lock()
	out := make([]*Session, 0, len(r.entries))
	for _, s := range r.entries {
		out = append(out, s)
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	return out
}

func activateQuietly(s *Session) {
	fs, ok := s.Surface().(FloatingSurface)
	if !ok {
		return
	}
	s.guard("activate", fs.Activate)
}
