package shell

import (
	"context"
	"slices"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/thingdock/internal/log"
	"github.com/zjrosen/thingdock/internal/ui/surface"
)

// wakeMsg tells the shell the host's layers changed.
type wakeMsg struct{}

type frame struct {
	c    surface.Component
	done chan struct{}
	once sync.Once
}

func (f *frame) finish() {
	f.once.Do(func() { close(f.done) })
}

// Host is the surface.Host the shell renders. It is called from navigation
// goroutines and from Update alike; changes are announced to the event loop
// through a wake channel read by Wait, never by sending into the program.
type Host struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	modals   []*frame
	floating []surface.Component

	wake chan struct{}
}

var _ surface.Host = (*Host)(nil)

// NewHost creates a host that lives until parent ends or Shutdown is called.
func NewHost(parent context.Context) *Host {
	ctx, cancel := context.WithCancel(parent)
	return &Host{
		ctx:    ctx,
		cancel: cancel,
		wake:   make(chan struct{}, 1),
	}
}

func (h *Host) Context() context.Context { return h.ctx }

// Present pushes c onto the modal stack and blocks until c finishes, is
// dismissed, ctx ends or the host shuts down.
func (h *Host) Present(ctx context.Context, c surface.Component) error {
	f := &frame{c: c, done: make(chan struct{})}
	h.mu.Lock()
	h.modals = append(h.modals, f)
	depth := len(h.modals)
	h.mu.Unlock()
	h.notify()
	log.Debug(log.CatUI, "modal presented", "title", c.Title(), "depth", depth)

	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		h.removeModal(c)
		return ctx.Err()
	case <-h.ctx.Done():
		h.removeModal(c)
		return h.ctx.Err()
	}
}

// ShowFloating adds c on top of the floating layer. Showing a component
// twice only raises it.
func (h *Host) ShowFloating(c surface.Component) {
	h.mu.Lock()
	h.floating = append(slices.DeleteFunc(h.floating, func(x surface.Component) bool { return x == c }), c)
	h.mu.Unlock()
	h.notify()
}

// Raise moves a floating component to the top. Unknown components are
// ignored.
func (h *Host) Raise(c surface.Component) {
	h.mu.Lock()
	i := slices.Index(h.floating, c)
	if i >= 0 {
		h.floating = append(slices.Delete(h.floating, i, i+1), c)
	}
	h.mu.Unlock()
	if i >= 0 {
		h.notify()
	}
}

// Dismiss removes c from whichever layer holds it. A presented component is
// released as if it had finished.
func (h *Host) Dismiss(c surface.Component) {
	h.mu.Lock()
	n := len(h.floating)
	h.floating = slices.DeleteFunc(h.floating, func(x surface.Component) bool { return x == c })
	removed := n != len(h.floating)
	h.mu.Unlock()
	if h.removeModal(c) || removed {
		h.notify()
	}
}

func (h *Host) removeModal(c surface.Component) bool {
	h.mu.Lock()
	var gone []*frame
	h.modals = slices.DeleteFunc(h.modals, func(f *frame) bool {
		if f.c == c {
			gone = append(gone, f)
			return true
		}
		return false
	})
	h.mu.Unlock()
	for _, f := range gone {
		f.finish()
	}
	return len(gone) > 0
}

// Settle releases every presented component that reports Done. The shell
// calls it after routing input to the modal layer.
func (h *Host) Settle() int {
	h.mu.Lock()
	var done []*frame
	h.modals = slices.DeleteFunc(h.modals, func(f *frame) bool {
		if f.c.Done() {
			done = append(done, f)
			return true
		}
		return false
	})
	h.mu.Unlock()
	for _, f := range done {
		f.finish()
	}
	return len(done)
}

// TopModal returns the component on top of the modal stack.
func (h *Host) TopModal() (surface.Component, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.modals) == 0 {
		return nil, false
	}
	return h.modals[len(h.modals)-1].c, true
}

// Modals returns the modal stack, bottom first.
func (h *Host) Modals() []surface.Component {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]surface.Component, len(h.modals))
	for i, f := range h.modals {
		out[i] = f.c
	}
	return out
}

// Floating returns the floating layer, topmost last.
func (h *Host) Floating() []surface.Component {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.floating)
}

// Wait returns a command that delivers the next change as a message. The
// shell re-issues it after every wake.
func (h *Host) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-h.wake:
			return wakeMsg{}
		case <-h.ctx.Done():
			return nil
		}
	}
}

// Shutdown releases every blocked Present and stops Wait.
func (h *Host) Shutdown() {
	h.cancel()
}

func (h *Host) notify() {
	select {
	case h.wake <- struct{}{}:
	default:
	}
}
