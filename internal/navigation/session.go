package navigation

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/thingdock/internal/log"
)

// Kind is the presentation mode of a session.
type Kind int

const (
	KindModal Kind = iota
	KindFloating
	KindPanel
)

func (k Kind) String() string {
	switch k {
	case KindModal:
		return "modal"
	case KindFloating:
		return "floating"
	case KindPanel:
		return "panel"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// State is a session's lifecycle position. States only move forward.
type State int

const (
	StateCreated State = iota
	StateOpen
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session is a surface bound to a logic instance.
type Session struct {
	id      uuid.UUID
	kind    Kind
	surface Surface
	logic   Logic
	created time.Time

	mu        sync.Mutex
	state     State
	onClosing []func(*Session)
	onClosed  []func(*Session)
}

func newSession(kind Kind, surface Surface, logic Logic) *Session {
	return &Session{
		id:      uuid.New(),
		kind:    kind,
		surface: surface,
		logic:   logic,
		created: time.Now(),
	}
}

func (s *Session) ID() uuid.UUID        { return s.id }
func (s *Session) Kind() Kind           { return s.kind }
func (s *Session) Surface() Surface     { return s.surface }
func (s *Session) Logic() Logic         { return s.logic }
func (s *Session) CreatedAt() time.Time { return s.created }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// OnClosing registers fn to run when Close begins, before teardown.
func (s *Session) OnClosing(fn func(*Session)) {
	s.mu.Lock()
	s.onClosing = append(s.onClosing, fn)
	s.mu.Unlock()
}

// OnClosed registers fn to run after the logic was disposed.
func (s *Session) OnClosed(fn func(*Session)) {
	s.mu.Lock()
	s.onClosed = append(s.onClosed, fn)
	s.mu.Unlock()
}

func (s *Session) markOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCreated {
		return false
	}
	s.state = StateOpen
	return true
}

// Close detaches the surface from the logic and disposes the logic. Only the
// first call does anything; it reports whether this call performed the
// teardown. Panics from hooks or Dispose are recovered and logged.
func (s *Session) Close() bool {
	s.mu.Lock()
	if s.state >= StateClosing {
		s.mu.Unlock()
		return false
	}
	s.state = StateClosing
	closing := s.onClosing
	s.mu.Unlock()

	for _, fn := range closing {
		s.guard("closing hook", func() { fn(s) })
	}
	s.guard("detach", func() { s.surface.SetDataContext(nil) })
	s.guard("dispose", s.logic.Dispose)

	s.mu.Lock()
	s.state = StateClosed
	closed := s.onClosed
	s.onClosing, s.onClosed = nil, nil
	s.mu.Unlock()

	for _, fn := range closed {
		s.guard("closed hook", func() { fn(s) })
	}
	log.Debug(log.CatNav, "session closed", "id", s.id, "kind", s.kind, "logic", s.logic.Identity())
	return true
}

// discard ends a session that never opened without disposing its logic,
// which stays with whoever owns it. Hooks are dropped unrun.
func (s *Session) discard() {
	s.mu.Lock()
	if s.state >= StateClosing {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	s.onClosing, s.onClosed = nil, nil
	s.mu.Unlock()
	s.guard("detach", func() { s.surface.SetDataContext(nil) })
}

func (s *Session) guard(step string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error(log.CatNav, "session teardown panicked",
				"id", s.id, "step", step, "logic", s.logic.Identity(), "panic", r)
		}
	}()
	fn()
}

func (s *Session) String() string {
	return fmt.Sprintf("%s session %s (%s)", s.kind, s.id, s.logic.Identity())
}
