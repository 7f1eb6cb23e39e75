// Package testutil builds in-memory thing models and a scripted host for
// tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/thingdock/internal/thing"
)

// DataSource is the data source URI of built models.
const DataSource = "memory:test"

// Builder accumulates things and stores them in dependency order.
type Builder struct {
	t      *testing.T
	things []thingData
}

// Model is a built data set: a session plus the things by builder key.
type Model struct {
	Session *thing.Session
	Store   *thing.MemoryStore
	Things  map[string]*thing.Thing
}

// NewBuilder creates an empty builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t}
}

// WithThing adds a thing under key.
func (b *Builder) WithThing(key string, kind thing.ClassKind, opts ...ThingOption) *Builder {
	d := defaultThing(key, kind)
	for _, opt := range opts {
		opt(&d)
	}
	b.things = append(b.things, d)
	return b
}

// Build stores everything and returns the model. The session is closed when
// the test completes.
func (b *Builder) Build() *Model {
	b.t.Helper()
	m := &Model{
		Store:  thing.NewMemoryStore(),
		Things: make(map[string]*thing.Thing, len(b.things)),
	}
	m.Session = thing.NewSession(DataSource, m.Store)
	b.t.Cleanup(m.Session.Close)

	for _, d := range b.things {
		th := thing.New(d.kind, d.name, d.shortName)
		th.Description = d.description
		th.DataSource = DataSource
		if d.container != "" {
			parent, ok := m.Things[d.container]
			require.True(b.t, ok, "container %q must be added before %q", d.container, d.key)
			th.ContainedBy(parent)
		}
		saved, err := m.Store.Save(b.t.Context(), th)
		require.NoError(b.t, err)
		m.Things[d.key] = saved
	}
	return m
}

// Get returns the thing stored under key.
func (m *Model) Get(t *testing.T, key string) *thing.Thing {
	t.Helper()
	th, ok := m.Things[key]
	require.True(t, ok, "no thing %q in model", key)
	return th.Clone()
}
