package navigation

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFloating_OpenShowsSurface(t *testing.T) {
	f := newFixture(t)
	l := f.newFloating(uuid.New())

	require.NoError(t, f.nav.Floating().Open(context.Background(), l))

	s, ok := f.nav.Floating().Lookup(l.Key())
	require.True(t, ok)
	require.Equal(t, StateOpen, s.State())
	require.Equal(t, 1, s.Surface().(*fakeSurface).shown)
	require.Equal(t, 1, f.nav.Floating().Len())
}

func TestFloating_SecondOpenActivatesExisting(t *testing.T) {
	f := newFixture(t)
	key := uuid.New()
	first := f.newFloating(key)
	second := f.newFloating(key)

	require.NoError(t, f.nav.Floating().Open(context.Background(), first))
	require.NoError(t, f.nav.Floating().Open(context.Background(), second))

	require.Equal(t, 1, f.nav.Floating().Len())
	s, _ := f.nav.Floating().Lookup(key)
	require.Same(t, first, s.Logic())
	require.Equal(t, 1, s.Surface().(*fakeSurface).Activated())
	require.Zero(t, first.Disposed())
	require.Equal(t, 1, second.Disposed())

	// Reopening the same instance only activates.
	require.NoError(t, f.nav.Floating().Open(context.Background(), first))
	require.Zero(t, first.Disposed())
	require.Equal(t, 2, s.Surface().(*fakeSurface).Activated())
}

func TestFloating_Keys(t *testing.T) {
	f := newFixture(t)
	require.Empty(t, f.nav.Floating().Keys())

	a, b := f.newFloating(uuid.New()), f.newFloating(uuid.New())
	require.NoError(t, f.nav.Floating().Open(context.Background(), a))
	require.NoError(t, f.nav.Floating().Open(context.Background(), b))

	want := []uuid.UUID{a.Key(), b.Key()}
	sort.Slice(want, func(i, j int) bool { return want[i].String() < want[j].String() })
	require.Equal(t, want, f.nav.Floating().Keys())

	f.nav.Floating().CloseKey(a.Key())
	require.Equal(t, []uuid.UUID{b.Key()}, f.nav.Floating().Keys())
}

func TestFloating_CloseBySurface(t *testing.T) {
	f := newFixture(t)
	l := f.newFloating(uuid.New())
	require.NoError(t, f.nav.Floating().Open(context.Background(), l))
	s, _ := f.nav.Floating().Lookup(l.Key())

	require.True(t, f.nav.Floating().Close(s.Surface()))
	require.False(t, f.nav.Floating().Close(s.Surface()))
	require.Zero(t, f.nav.Floating().Len())
	require.Equal(t, 1, l.Disposed())
	require.Equal(t, StateClosed, s.State())
}

func TestFloating_CloseUnknownIsNoop(t *testing.T) {
	f := newFixture(t)
	require.False(t, f.nav.Floating().Close(&fakeSurface{identity: "Stray"}))
	require.False(t, f.nav.Floating().CloseKey(uuid.New()))
}

func TestFloating_OpenBindFailureDisposes(t *testing.T) {
	f := newFixture(t)
	l := newFakeLogic("Unknown")

	err := f.nav.Floating().Open(context.Background(), l)
	require.ErrorIs(t, err, ErrUnregistered)
	require.Equal(t, 1, l.Disposed())
	require.Zero(t, f.nav.Floating().Len())
}

func TestFloating_CloseAll(t *testing.T) {
	f := newFixture(t)
	a, b := f.newFloating(uuid.New()), f.newFloating(uuid.New())
	require.NoError(t, f.nav.Floating().Open(context.Background(), a))
	require.NoError(t, f.nav.Floating().Open(context.Background(), b))
	require.Len(t, f.nav.Floating().Sessions(), 2)

	require.Equal(t, 2, f.nav.Floating().CloseAll())
	require.Equal(t, 1, a.Disposed())
	require.Equal(t, 1, b.Disposed())
}

// TestFloating_AtMostOnePerKey opens and closes floating sessions over a
// small key space and checks that each key maps to at most one live session
// and every rejected or closed logic is disposed exactly once.
func TestFloating_AtMostOnePerKey(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(t)
		keys := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
		var all []*fakeLogic

		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			key := keys[rapid.IntRange(0, len(keys)-1).Draw(rt, "key")]
			if rapid.Bool().Draw(rt, "open") {
				l := f.newFloating(key)
				all = append(all, l)
				require.NoError(rt, f.nav.Floating().Open(context.Background(), l))
			} else {
				f.nav.Floating().CloseKey(key)
			}
			require.LessOrEqual(rt, f.nav.Floating().Len(), len(keys))
		}

		live := map[*fakeLogic]bool{}
		for _, s := range f.nav.Floating().Sessions() {
			live[s.Logic().(*fakeLogic)] = true
		}
		for _, l := range all {
			if live[l] {
				require.Zero(rt, l.Disposed())
			} else {
				require.Equal(rt, 1, l.Disposed())
			}
		}
	})
}
