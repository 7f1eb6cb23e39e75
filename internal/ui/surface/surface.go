// Package surface adapts Bubble Tea components to navigation surfaces and
// defines the host contract the shell implements.
package surface

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/thingdock/internal/navigation"
)

// ErrNoHost is returned when a modal surface is shown without a host.
var ErrNoHost = errors.New("surface has no host")

// Component is a navigation surface the shell can render and route input to.
// Update and View run on the Bubble Tea event loop only.
type Component interface {
	navigation.Surface
	Title() string
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
	// Done reports that a presented component has finished and can be
	// removed from the modal stack.
	Done() bool
}

// InputCapturer is implemented by components that consume plain keys, such
// as text editors. While it reports true the shell only handles ctrl keys.
type InputCapturer interface {
	CapturesInput() bool
}

// Host displays components. Present blocks the calling goroutine until the
// component is Done or ctx ends, so it must never be called from Update. The
// other methods never block.
type Host interface {
	// Context is cancelled when the host shuts down.
	Context() context.Context
	Present(ctx context.Context, c Component) error
	ShowFloating(c Component)
	Raise(c Component)
	Dismiss(c Component)
}

// Base implements the navigation.Surface half of a Component. Embed it and
// call Init from the constructor.
type Base struct {
	self     Component
	identity string
	host     Host

	mu   sync.RWMutex
	ctx  navigation.Logic
	done bool
}

// Init wires b to its owning component.
func (b *Base) Init(self Component, identity string, host Host) {
	b.self = self
	b.identity = identity
	b.host = host
}

// Identity returns the surface type identity.
func (b *Base) Identity() string { return b.identity }

// Host returns the host the surface was built with.
func (b *Base) Host() Host { return b.host }

// DataContext returns the attached logic, or nil once detached.
func (b *Base) DataContext() navigation.Logic {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ctx
}

// SetDataContext attaches logic. Detaching (nil) also dismisses the
// component from the host.
func (b *Base) SetDataContext(l navigation.Logic) {
	b.mu.Lock()
	had := b.ctx != nil
	b.ctx = l
	b.mu.Unlock()
	if l == nil && had && b.host != nil {
		b.host.Dismiss(b.self)
	}
}

// Finish marks the component done.
func (b *Base) Finish() {
	b.mu.Lock()
	b.done = true
	b.mu.Unlock()
}

// Done reports whether Finish was called.
func (b *Base) Done() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.done
}

// ShowModal presents the component and blocks until it finishes.
func (b *Base) ShowModal(ctx context.Context) error {
	if b.host == nil {
		return ErrNoHost
	}
	b.mu.Lock()
	b.done = false
	b.mu.Unlock()
	return b.host.Present(ctx, b.self)
}

// Show adds the component to the host's floating layer.
func (b *Base) Show() {
	if b.host != nil {
		b.host.ShowFloating(b.self)
	}
}

// Activate brings the component to the front.
func (b *Base) Activate() {
	if b.host != nil {
		b.host.Raise(b.self)
	}
}

// Messages the shell routes to components.
type (
	// RefreshMsg tells components their data may have changed.
	RefreshMsg struct{}

	// ErrorMsg reports a navigation failure to the shell's toaster.
	ErrorMsg struct{ Err error }

	// InfoMsg is a short status message for the toaster.
	InfoMsg struct{ Text string }
)

// Go runs fn off the event loop and reports a non-nil error as ErrorMsg.
// Navigation calls that may block on a modal go through here.
func Go(fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return ErrorMsg{Err: err}
		}
		return nil
	}
}
