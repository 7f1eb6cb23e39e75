package testutil

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/thingdock/internal/ui/surface"
)

// Host is a surface.Host for tests. Present runs the script registered for
// the component's identity (or the default script) on the calling goroutine
// instead of waiting for a real event loop.
type Host struct {
	ctx context.Context

	mu        sync.Mutex
	scripts   map[string]func(surface.Component)
	fallback  func(surface.Component)
	presented []surface.Component
	floating  []surface.Component
	raised    []surface.Component
	dismissed []surface.Component
}

var _ surface.Host = (*Host)(nil)

// NewHost creates a host whose Context is ctx.
func NewHost(ctx context.Context) *Host {
	return &Host{ctx: ctx, scripts: make(map[string]func(surface.Component))}
}

// Script sets what happens when a component with identity is presented.
func (h *Host) Script(identity string, fn func(surface.Component)) *Host {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scripts[identity] = fn
	return h
}

// Default sets the script for components without their own.
func (h *Host) Default(fn func(surface.Component)) *Host {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fallback = fn
	return h
}

func (h *Host) Context() context.Context { return h.ctx }

func (h *Host) Present(ctx context.Context, c surface.Component) error {
	h.mu.Lock()
	h.presented = append(h.presented, c)
	fn := h.scripts[c.Identity()]
	if fn == nil {
		fn = h.fallback
	}
	h.mu.Unlock()

	if fn != nil {
		fn(c)
	}
	return ctx.Err()
}

func (h *Host) ShowFloating(c surface.Component) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.floating = append(h.floating, c)
}

func (h *Host) Raise(c surface.Component) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.raised = append(h.raised, c)
}

func (h *Host) Dismiss(c surface.Component) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dismissed = append(h.dismissed, c)
}

// Presented returns every component passed to Present, in order.
func (h *Host) Presented() []surface.Component {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]surface.Component(nil), h.presented...)
}

// Floating returns every component passed to ShowFloating.
func (h *Host) Floating() []surface.Component {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]surface.Component(nil), h.floating...)
}

// Raised returns every component passed to Raise.
func (h *Host) Raised() []surface.Component {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]surface.Component(nil), h.raised...)
}

// Dismissed returns every component passed to Dismiss.
func (h *Host) Dismissed() []surface.Component {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]surface.Component(nil), h.dismissed...)
}

// Keys returns a script that feeds keys to the component in order.
func Keys(keys ...string) func(surface.Component) {
	return func(c surface.Component) {
		for _, k := range keys {
			Press(c, k)
		}
	}
}

// Press sends one key to c.
func Press(c surface.Component, key string) tea.Cmd {
	return c.Update(KeyMsg(key))
}

// KeyMsg builds the tea.KeyMsg for a key name such as "enter", "esc" or "y".
func KeyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+k":
		return tea.KeyMsg{Type: tea.KeyCtrlK}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+w":
		return tea.KeyMsg{Type: tea.KeyCtrlW}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+q":
		return tea.KeyMsg{Type: tea.KeyCtrlQ}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "ctrl+b":
		return tea.KeyMsg{Type: tea.KeyCtrlB}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "ctrl+h":
		return tea.KeyMsg{Type: tea.KeyCtrlH}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// Type sends each rune of text as a key press.
func Type(c surface.Component, text string) {
	for _, r := range text {
		c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}
