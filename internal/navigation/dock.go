package navigation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/thingdock/internal/log"
	"github.com/zjrosen/thingdock/internal/thing"
)

// PropertyGridName is the registered name of the property grid panel.
const PropertyGridName = "PropertyGrid"

var errNotPanel = errors.New("logic cannot be docked")

// Dock manages the docked panels. Removing a panel from its collection, by
// Close, by a bulk close or by the host reporting a removal, runs the panel's
// teardown exactly once: publish Closed, detach, dispose, unregister from the
// filter service.
type Dock struct {
	nav    *Navigator
	panels *PanelCollection

	mu       sync.Mutex
	sessions map[PanelLogic]*Session
}

func newDock(nav *Navigator) *Dock {
	d := &Dock{
		nav:      nav,
		panels:   NewPanelCollection(),
		sessions: make(map[PanelLogic]*Session),
	}
	d.panels.OnRemoved(d.OnItemRemoved)
	return d
}

// Open docks logic and selects it. A panel that is already docked is only
// selected. The dock owns logic from this call on.
func (d *Dock) Open(ctx context.Context, logic PanelLogic) error {
	if d.panels.SelectItem(logic) {
		return nil
	}
	ctx, span := d.nav.factory.tracer.Start(ctx, "navigation.dock.open",
		trace.WithAttributes(attribute.String("navigation.logic", logic.Identity())))
	defer span.End()

	s, err := d.nav.factory.Bind(ctx, KindPanel, logic, d.nav.handles(Args{}))
	if err != nil {
		disposeQuietly(logic)
		return err
	}
	d.adopt(s, logic)
	return nil
}

// OpenNamed builds the panel registered under name and docks it.
func (d *Dock) OpenNamed(ctx context.Context, name string, args Args) (PanelLogic, error) {
	desc, err := d.nav.registry.Resolve(ForName(name))
	if err != nil {
		return nil, err
	}
	s, err := d.nav.factory.Build(ctx, KindPanel, desc, d.nav.handles(args))
	if err != nil {
		return nil, err
	}
	logic, ok := s.Logic().(PanelLogic)
	if !ok {
		s.Close()
		return nil, &ConstructionError{Identity: s.Logic().Identity(), Part: PartLogic, Err: errNotPanel}
	}
	d.adopt(s, logic)
	return logic, nil
}

// OpenExistingOrOpen selects the docked panel with logic's identifier, or
// docks logic when there is none. A logic that was not docked is disposed.
func (d *Dock) OpenExistingOrOpen(ctx context.Context, logic PanelLogic) error {
	for _, p := range d.panels.Items() {
		if p.Identifier() != logic.Identifier() {
			continue
		}
		if p != logic {
			disposeQuietly(logic)
		}
		d.panels.SelectItem(p)
		return nil
	}
	return d.Open(ctx, logic)
}

// OpenProperties shows t in the property grid. A docked grid is retargeted;
// otherwise a new grid is opened. Without a registered grid this only logs a
// warning.
func (d *Dock) OpenProperties(ctx context.Context, t *thing.Thing, session *thing.Session) error {
	if t == nil {
		return invalidRequest("thing is required")
	}
	args := d.nav.handles(Args{Thing: t, Session: session, DialogKind: thing.DialogInspect})
	for _, p := range d.panels.Items() {
		grid, ok := p.(Retargetable)
		if !ok {
			continue
		}
		if err := grid.Retarget(args); err != nil {
			return fmt.Errorf("retarget %s: %w", grid.Caption(), err)
		}
		d.panels.SelectItem(p)
		return nil
	}
	if !d.nav.registry.Has(ForName(PropertyGridName)) {
		log.Warn(log.CatDock, "property grid not registered", "thing", t.ID)
		return nil
	}
	_, err := d.OpenNamed(ctx, PropertyGridName, args)
	return err
}

// adopt docks logic under s. When another session already owns logic, s
// lost a concurrent open: its surface is detached, logic is left to the
// owner, and the docked panel is selected.
func (d *Dock) adopt(s *Session, logic PanelLogic) bool {
	d.mu.Lock()
	if _, owned := d.sessions[logic]; owned {
		d.mu.Unlock()
		s.discard()
		d.panels.SelectItem(logic)
		log.Debug(log.CatDock, "duplicate open discarded", "id", s.ID(), "caption", logic.Caption())
		return false
	}
	d.sessions[logic] = s
	d.mu.Unlock()

	if !d.panels.Add(logic) {
		d.mu.Lock()
		delete(d.sessions, logic)
		d.mu.Unlock()
		s.discard()
		d.panels.SelectItem(logic)
		return false
	}

	s.OnClosing(func(s *Session) {
		d.nav.bus.Publish(newEvent(s, StatusClosed))
	})
	s.OnClosed(func(*Session) {
		d.nav.filter.UnregisterFromService(logic)
	})
	s.markOpen()
	d.nav.filter.RegisterForService(logic)
	d.nav.bus.Publish(newEvent(s, StatusOpen))
	log.Debug(log.CatDock, "panel opened", "id", s.ID(), "caption", logic.Caption(), "panels", d.panels.Len())
	return true
}

// Add docks a logic whose session the caller already built, then selects it.
func (d *Dock) Add(s *Session) error {
	logic, ok := s.Logic().(PanelLogic)
	if !ok {
		return &ConstructionError{Identity: s.Logic().Identity(), Part: PartLogic, Err: errNotPanel}
	}
	if d.panels.Contains(logic) {
		d.panels.SelectItem(logic)
		return nil
	}
	d.adopt(s, logic)
	return nil
}

// RequestClose closes logic, first asking for confirmation when it holds
// unsaved changes. It reports whether the panel was closed; a declined
// confirmation leaves everything untouched.
func (d *Dock) RequestClose(ctx context.Context, logic PanelLogic) (bool, error) {
	if !d.panels.Contains(logic) {
		return false, nil
	}
	if d.nav.confirmDirty && logic.IsDirty() {
		ok, err := d.nav.confirmer.Confirm(ctx, "Unsaved changes", dirtyMessage(logic))
		if err != nil {
			return false, fmt.Errorf("confirm close of %s: %w", logic.Caption(), err)
		}
		if !ok {
			log.Debug(log.CatDock, "close declined", "caption", logic.Caption())
			return false, nil
		}
	}
	return d.Close(logic), nil
}

func dirtyMessage(p PanelLogic) string {
	if dd, ok := p.(DirtyDescriber); ok {
		if msg := dd.DirtyMessage(); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("%q has unsaved changes. Close anyway?", p.Caption())
}

// Close undocks logic without confirmation. A panel that already left the
// collection but was never torn down is torn down here.
func (d *Dock) Close(logic PanelLogic) bool {
	if d.panels.Remove(logic) {
		return true
	}
	if d.panels.Contains(logic) {
		return false
	}
	return d.teardown(logic)
}

// OnItemRemoved tears down the session of a panel that left the collection.
// It does nothing while logic is still docked, and is safe to call for a
// panel that was already torn down.
func (d *Dock) OnItemRemoved(logic PanelLogic) {
	if d.panels.Contains(logic) {
		return
	}
	d.teardown(logic)
}

func (d *Dock) teardown(logic PanelLogic) bool {
	d.mu.Lock()
	s, ok := d.sessions[logic]
	delete(d.sessions, logic)
	d.mu.Unlock()
	if !ok {
		return false
	}
	if !s.Close() {
		return false
	}
	log.Debug(log.CatDock, "panel closed", "id", s.ID(), "caption", logic.Caption(), "panels", d.panels.Len())
	return true
}

// CloseAllForSource closes every panel showing data from source. Panels
// docked while the close runs are left alone.
func (d *Dock) CloseAllForSource(source string) int {
	return d.closeWhere(func(p PanelLogic) bool { return p.DataSource() == source })
}

// CloseAllOfKind closes every panel whose logic identity is identity.
func (d *Dock) CloseAllOfKind(identity string) int {
	return d.closeWhere(func(p PanelLogic) bool { return p.Identity() == identity })
}

// CloseAll closes every panel.
func (d *Dock) CloseAll() int {
	return d.closeWhere(func(PanelLogic) bool { return true })
}

func (d *Dock) closeWhere(match func(PanelLogic) bool) int {
	var n int
	for _, p := range d.panels.Items() {
		if match(p) && d.Close(p) {
			n++
		}
	}
	return n
}

// Move puts logic at index to.
func (d *Dock) Move(logic PanelLogic, to int) bool {
	return d.panels.Move(logic, to)
}

// Select selects the panel at index i.
func (d *Dock) Select(i int) bool {
	return d.panels.Select(i)
}

// SelectNext moves the selection by delta, wrapping around.
func (d *Dock) SelectNext(delta int) {
	d.panels.SelectNext(delta)
}

// Selected returns the selected panel, or nil.
func (d *Dock) Selected() PanelLogic {
	p, _ := d.panels.Selected()
	return p
}

// SelectedIndex returns the selected position, or -1.
func (d *Dock) SelectedIndex() int {
	_, i := d.panels.Selected()
	return i
}

// Panels returns the docked panels in order.
func (d *Dock) Panels() []PanelLogic {
	return d.panels.Items()
}

// Len returns the number of docked panels.
func (d *Dock) Len() int {
	return d.panels.Len()
}

// Collection exposes the underlying panel collection.
func (d *Dock) Collection() *PanelCollection {
	return d.panels
}

// Session returns the session of a docked panel.
func (d *Dock) Session(logic PanelLogic) (*Session, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.sessions[logic]
	return s, ok
}

// SurfaceFor returns the surface showing logic.
func (d *Dock) SurfaceFor(logic PanelLogic) (Surface, bool) {
	s, ok := d.Session(logic)
	if !ok {
		return nil, false
	}
	return s.Surface(), true
}
