package shell

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/thingdock/internal/ui/surface"
)

type stubComponent struct {
	surface.Base
	title string
}

func newStub(host surface.Host, title string) *stubComponent {
	c := &stubComponent{title: title}
	c.Init(c, "Test.Views.Stub", host)
	return c
}

func (c *stubComponent) Title() string          { return c.title }
func (c *stubComponent) Update(tea.Msg) tea.Cmd { c.Finish(); return nil }
func (c *stubComponent) View(_, _ int) string   { return c.title }

func present(h *Host, ctx context.Context, c surface.Component) <-chan error {
	errc := make(chan error, 1)
	go func() { errc <- h.Present(ctx, c) }()
	return errc
}

func waitTop(t *testing.T, h *Host, c surface.Component) {
	t.Helper()
	require.Eventually(t, func() bool {
		top, ok := h.TopModal()
		return ok && top == c
	}, time.Second, time.Millisecond)
}

func TestHost_PresentBlocksUntilSettled(t *testing.T) {
	h := NewHost(context.Background())
	c := newStub(h, "first")
	errc := present(h, context.Background(), c)
	waitTop(t, h, c)

	require.Zero(t, h.Settle())
	select {
	case <-errc:
		t.Fatal("Present returned before the component finished")
	default:
	}

	c.Update(nil)
	require.Equal(t, 1, h.Settle())
	require.NoError(t, <-errc)
	require.Empty(t, h.Modals())
}

func TestHost_NestedModalsUnwindInOrder(t *testing.T) {
	h := NewHost(context.Background())
	outer, inner := newStub(h, "outer"), newStub(h, "inner")
	outerErr := present(h, context.Background(), outer)
	waitTop(t, h, outer)
	innerErr := present(h, context.Background(), inner)
	waitTop(t, h, inner)
	require.Len(t, h.Modals(), 2)

	inner.Update(nil)
	h.Settle()
	require.NoError(t, <-innerErr)
	top, ok := h.TopModal()
	require.True(t, ok)
	require.Same(t, outer, top)

	outer.Update(nil)
	h.Settle()
	require.NoError(t, <-outerErr)
}

func TestHost_DismissReleasesPresent(t *testing.T) {
	h := NewHost(context.Background())
	c := newStub(h, "dialog")
	errc := present(h, context.Background(), c)
	waitTop(t, h, c)

	h.Dismiss(c)
	require.NoError(t, <-errc)
	h.Dismiss(c)
}

func TestHost_PresentHonorsContext(t *testing.T) {
	h := NewHost(context.Background())
	ctx, cancel := context.WithCancel(context.Background())
	c := newStub(h, "dialog")
	errc := present(h, ctx, c)
	waitTop(t, h, c)

	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)
	require.Empty(t, h.Modals())
}

func TestHost_ShutdownReleasesPresentAndWait(t *testing.T) {
	h := NewHost(context.Background())
	c := newStub(h, "dialog")
	errc := present(h, context.Background(), c)
	waitTop(t, h, c)
	// drain the wake left by Present
	require.IsType(t, wakeMsg{}, h.Wait()())

	h.Shutdown()
	require.ErrorIs(t, <-errc, context.Canceled)
	require.Nil(t, h.Wait()())
}

func TestHost_FloatingLayer(t *testing.T) {
	h := NewHost(context.Background())
	a, b := newStub(h, "a"), newStub(h, "b")

	h.ShowFloating(a)
	h.ShowFloating(b)
	h.ShowFloating(a)
	require.Equal(t, []surface.Component{b, a}, h.Floating())

	h.Raise(b)
	require.Equal(t, []surface.Component{a, b}, h.Floating())

	h.Raise(newStub(h, "stranger"))
	require.Len(t, h.Floating(), 2)

	h.Dismiss(a)
	require.Equal(t, []surface.Component{b}, h.Floating())
	require.IsType(t, wakeMsg{}, h.Wait()())
}
