// Package details provides the floating details window, one per thing.
package details

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/zjrosen/thingdock/internal/log"
	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/thing"
	"github.com/zjrosen/thingdock/internal/views/viewkit"
)

// Name is the descriptor name of the window.
const Name = "ThingDetails"

const root = viewkit.Root + ".Things"

var (
	LogicIdentity   = navigation.LogicIdentity(root, Name)
	SurfaceIdentity = navigation.SurfaceIdentity(root, Name)
)

var ErrNoContainer = errors.New("thing has no container")

// ViewModel shows one thing with its container and children. It holds the
// navigation handles it needs to open further windows and panels.
type ViewModel struct {
	id       uuid.UUID
	session  *thing.Session
	floating *navigation.FloatingRegistry
	dock     *navigation.Dock
	sub      *viewkit.Subscription

	mu        sync.Mutex
	thing     *thing.Thing
	container *thing.Thing
	children  []*thing.Thing
	disposed  bool
}

var _ navigation.FloatingLogic = (*ViewModel)(nil)

// NewViewModel loads the thing id from session.
func NewViewModel(ctx context.Context, session *thing.Session, id uuid.UUID, floating *navigation.FloatingRegistry, dock *navigation.Dock) (*ViewModel, error) {
	vm := &ViewModel{id: id, session: session, floating: floating, dock: dock}
	if err := vm.load(ctx); err != nil {
		return nil, err
	}
	vm.sub = viewkit.Subscribe(session, vm.matches, func(ctx context.Context, _ thing.ChangeEvent) {
		if err := vm.load(ctx); err != nil {
			log.ErrorErr(log.CatUI, "reload details", err, "id", vm.id)
		}
	})
	return vm, nil
}

func (vm *ViewModel) matches(ev thing.ChangeEvent) bool {
	if ev.External() || ev.ThingID == vm.id {
		return true
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.thing.Container != nil && *vm.thing.Container == ev.ThingID {
		return true
	}
	for _, c := range vm.children {
		if c.ID == ev.ThingID {
			return true
		}
	}
	// A new thing may have been created inside this one.
	return ev.Kind != thing.KindUnknown && containsKind(vm.thing.Kind, ev.Kind)
}

func containsKind(container, child thing.ClassKind) bool {
	k, ok := thing.ContainedKind(container)
	return ok && k == child
}

func (vm *ViewModel) load(ctx context.Context) error {
	t, err := vm.session.Get(ctx, vm.id)
	if err != nil {
		return fmt.Errorf("loading %s: %w", vm.id, err)
	}
	var container *thing.Thing
	if t.Container != nil {
		container, err = vm.session.Get(ctx, *t.Container)
		if err != nil && !errors.Is(err, thing.ErrNotFound) {
			return fmt.Errorf("loading container of %s: %w", vm.id, err)
		}
	}
	children, err := vm.session.Children(ctx, vm.id)
	if err != nil {
		return fmt.Errorf("loading children of %s: %w", vm.id, err)
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.disposed {
		return nil
	}
	vm.thing, vm.container, vm.children = t, container, children
	return nil
}

func (vm *ViewModel) Identity() string { return LogicIdentity }

// Key is the thing ID; one window is shown per thing.
func (vm *ViewModel) Key() uuid.UUID { return vm.id }

func (vm *ViewModel) Thing() *thing.Thing {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.thing.Clone()
}

// Container returns the containing thing, or nil.
func (vm *ViewModel) Container() *thing.Thing {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.container.Clone()
}

func (vm *ViewModel) Children() []*thing.Thing {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	out := make([]*thing.Thing, len(vm.children))
	for i, c := range vm.children {
		out[i] = c.Clone()
	}
	return out
}

// OpenContainer shows the container's window, or raises it when open.
func (vm *ViewModel) OpenContainer(ctx context.Context) error {
	c := vm.Container()
	if c == nil {
		return ErrNoContainer
	}
	return vm.open(ctx, c.ID)
}

// OpenChild shows the window of the i-th child.
func (vm *ViewModel) OpenChild(ctx context.Context, i int) error {
	children := vm.Children()
	if i < 0 || i >= len(children) {
		return nil
	}
	return vm.open(ctx, children[i].ID)
}

func (vm *ViewModel) open(ctx context.Context, id uuid.UUID) error {
	next, err := NewViewModel(ctx, vm.session, id, vm.floating, vm.dock)
	if err != nil {
		return err
	}
	return vm.floating.Open(ctx, next)
}

// ShowProperties shows the thing in the property grid panel.
func (vm *ViewModel) ShowProperties(ctx context.Context) error {
	return vm.dock.OpenProperties(ctx, vm.Thing(), vm.session)
}

// Close closes the window showing this view-model.
func (vm *ViewModel) Close() bool {
	return vm.floating.CloseKey(vm.id)
}

func (vm *ViewModel) Dispose() {
	if vm.sub != nil {
		vm.sub.Stop()
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.disposed = true
}

// Disposed reports whether Dispose was called.
func (vm *ViewModel) Disposed() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.disposed
}
