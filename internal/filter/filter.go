// Package filter broadcasts the global filter string to the dock panels that
// accept it.
package filter

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/zjrosen/thingdock/internal/log"
	"github.com/zjrosen/thingdock/internal/navigation"
)

// Filterable panels narrow their content to a filter string.
type Filterable interface {
	navigation.PanelLogic
	ApplyFilter(filter string)
}

// Service implements navigation.FilterService. Panels that are not
// Filterable are accepted and ignored.
type Service struct {
	mu     sync.Mutex
	filter string
	panels map[uuid.UUID]Filterable
	order  []uuid.UUID
}

var _ navigation.FilterService = (*Service)(nil)

// NewService creates an empty service.
func NewService() *Service {
	return &Service{panels: make(map[uuid.UUID]Filterable)}
}

// RegisterForService starts broadcasting to p and applies the current filter.
func (s *Service) RegisterForService(p navigation.PanelLogic) {
	f, ok := p.(Filterable)
	if !ok {
		return
	}
	s.mu.Lock()
	id := f.Identifier()
	if _, dup := s.panels[id]; !dup {
		s.order = append(s.order, id)
	}
	s.panels[id] = f
	current := s.filter
	s.mu.Unlock()

	log.Debug(log.CatUI, "panel registered for filter", "panel", f.Caption())
	if current != "" {
		f.ApplyFilter(current)
	}
}

// UnregisterFromService stops broadcasting to p. Unknown panels are ignored.
func (s *Service) UnregisterFromService(p navigation.PanelLogic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := p.Identifier()
	if _, ok := s.panels[id]; !ok {
		return
	}
	delete(s.panels, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// SetFilter stores filter and pushes it to every registered panel in
// registration order.
func (s *Service) SetFilter(filter string) {
	filter = strings.TrimSpace(filter)
	s.mu.Lock()
	s.filter = filter
	targets := make([]Filterable, 0, len(s.order))
	for _, id := range s.order {
		targets = append(targets, s.panels[id])
	}
	s.mu.Unlock()

	for _, f := range targets {
		f.ApplyFilter(filter)
	}
}

// Filter returns the current filter string.
func (s *Service) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Len returns the number of registered panels.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.panels)
}

// Matches reports whether text contains every whitespace separated term of
// filter, ignoring case. An empty filter matches everything.
func Matches(filter, text string) bool {
	text = strings.ToLower(text)
	for _, term := range strings.Fields(strings.ToLower(filter)) {
		if !strings.Contains(text, term) {
			return false
		}
	}
	return true
}
