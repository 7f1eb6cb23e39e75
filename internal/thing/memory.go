package thing

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by tests and the playground data
// source.
type MemoryStore struct {
	mu     sync.RWMutex
	things map[uuid.UUID]*Thing
}

// NewMemoryStore creates a store preloaded with things.
func NewMemoryStore(things ...*Thing) *MemoryStore {
	m := &MemoryStore{things: make(map[uuid.UUID]*Thing, len(things))}
	for _, t := range things {
		m.things[t.ID] = t.Clone()
	}
	return m
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Thing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.things[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t.Clone(), nil
}

func (m *MemoryStore) List(_ context.Context, kind ClassKind) ([]*Thing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Thing
	for _, t := range m.things {
		if t.Kind == kind {
			out = append(out, t.Clone())
		}
	}
	sortThings(out)
	return out, nil
}

func (m *MemoryStore) Children(_ context.Context, id uuid.UUID) ([]*Thing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Thing
	for _, t := range m.things {
		if t.Container != nil && *t.Container == id {
			out = append(out, t.Clone())
		}
	}
	sortThings(out)
	return out, nil
}

func (m *MemoryStore) Save(_ context.Context, t *Thing) (*Thing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := t.Clone()
	if prev, ok := m.things[t.ID]; ok {
		saved.Revision = prev.Revision + 1
	} else {
		saved.Revision = 1
	}
	saved.UpdatedAt = time.Now()
	m.things[saved.ID] = saved
	return saved.Clone(), nil
}

func sortThings(things []*Thing) {
	sort.Slice(things, func(i, j int) bool {
		if things[i].ShortName != things[j].ShortName {
			return things[i].ShortName < things[j].ShortName
		}
		return things[i].ID.String() < things[j].ID.String()
	})
}
