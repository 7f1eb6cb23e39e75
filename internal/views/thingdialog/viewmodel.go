// Package thingdialog provides the modal dialog registered for every thing
// kind: create, edit or inspect one thing, and inspect its container on top.
package thingdialog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/thing"
	"github.com/zjrosen/thingdock/internal/views/viewkit"
)

// Name is the descriptor name of the dialog.
const Name = "ThingDialog"

const root = viewkit.Root + ".Things"

var (
	LogicIdentity   = navigation.LogicIdentity(root, Name)
	SurfaceIdentity = navigation.SurfaceIdentity(root, Name)
)

var (
	ErrNameRequired   = errors.New("name is required")
	ErrNoContainer    = errors.New("thing has no container")
	ErrContainerCycle = errors.New("container is already open")
	errNoNavigation   = errors.New("dialog has no modal controller")
)

// ViewModel edits a working copy of one thing. Changes reach the transaction
// only on OK; a root dialog also writes the transaction.
type ViewModel struct {
	args  navigation.Args
	title string
	sub   *viewkit.Subscription

	mu       sync.Mutex
	working  *thing.Thing
	stale    bool
	result   navigation.DialogResult
	disposed bool
}

var _ navigation.DialogLogic = (*ViewModel)(nil)

// NewViewModel builds the dialog logic from navigation arguments.
func NewViewModel(args navigation.Args) (*ViewModel, error) {
	switch {
	case args.Thing == nil:
		return nil, errors.New("thing is required")
	case args.Session == nil:
		return nil, errors.New("session is required")
	case args.Transaction == nil && !args.DialogKind.ReadOnly():
		return nil, fmt.Errorf("%s dialog requires a transaction", args.DialogKind)
	}

	working := args.Thing.Clone()
	if args.DialogKind == thing.DialogCreate && working.Container == nil && args.Container != nil {
		working.ContainedBy(args.Container)
	}
	title := args.Title
	if title == "" {
		title = navigation.DialogTitle(args.DialogKind, working.Kind)
	}

	vm := &ViewModel{args: args, title: title, working: working}
	vm.sub = viewkit.Subscribe(args.Session, viewkit.ForThing(working.ID), vm.onChange)
	return vm, nil
}

func (vm *ViewModel) onChange(ctx context.Context, _ thing.ChangeEvent) {
	switch {
	case vm.args.DialogKind == thing.DialogCreate:
		return
	case !vm.args.DialogKind.ReadOnly():
		vm.mu.Lock()
		vm.stale = true
		vm.mu.Unlock()
		return
	}
	t := viewkit.Reload(ctx, vm.args.Session, vm.args.Thing.ID)
	if t == nil {
		return
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if !vm.disposed {
		vm.working = t
	}
}

func (vm *ViewModel) Identity() string { return LogicIdentity }

// Title is the dialog title, e.g. "Edit Requirement".
func (vm *ViewModel) Title() string { return vm.title }

// Kind is the operation the dialog was opened for.
func (vm *ViewModel) Kind() thing.DialogKind { return vm.args.DialogKind }

// ReadOnly reports whether edits are ignored.
func (vm *ViewModel) ReadOnly() bool { return vm.args.DialogKind.ReadOnly() }

// Depth is the number of dialogs below this one in the container chain.
func (vm *ViewModel) Depth() int { return len(vm.args.Chain) }

// Thing returns a copy of the working thing.
func (vm *ViewModel) Thing() *thing.Thing {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.working.Clone()
}

// Stale reports whether the thing was changed elsewhere while being edited.
func (vm *ViewModel) Stale() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.stale
}

func (vm *ViewModel) edit(fn func(t *thing.Thing)) {
	if vm.ReadOnly() {
		return
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	fn(vm.working)
}

func (vm *ViewModel) SetName(s string) {
	vm.edit(func(t *thing.Thing) { t.Name = s })
}

func (vm *ViewModel) SetShortName(s string) {
	vm.edit(func(t *thing.Thing) { t.ShortName = s })
}

func (vm *ViewModel) SetDescription(s string) {
	vm.edit(func(t *thing.Thing) { t.Description = s })
}

// OK validates the working copy and records it. An error leaves the dialog
// pending.
func (vm *ViewModel) OK(ctx context.Context) error {
	t := vm.Thing()
	if vm.ReadOnly() {
		vm.setResult(navigation.ConfirmedResult(t))
		return nil
	}

	t.Name = strings.TrimSpace(t.Name)
	t.ShortName = strings.TrimSpace(t.ShortName)
	if t.Name == "" {
		return ErrNameRequired
	}

	tx := vm.args.Transaction
	if vm.args.DialogKind == thing.DialogCreate {
		tx.Create(t)
	} else {
		tx.Update(t)
	}
	if vm.args.IsRoot {
		if err := vm.args.Session.Write(ctx, tx); err != nil {
			return err
		}
	}
	vm.setResult(navigation.ConfirmedResult(t))
	return nil
}

// Cancel dismisses without recording anything.
func (vm *ViewModel) Cancel() {
	vm.setResult(navigation.CancelledResult())
}

func (vm *ViewModel) setResult(r navigation.DialogResult) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.result = r
}

func (vm *ViewModel) Result() navigation.DialogResult {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.result
}

// HasContainer reports whether the thing is contained by another.
func (vm *ViewModel) HasContainer() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.working.Container != nil
}

// InspectContainer shows a read-only dialog for the container on top of
// this one and blocks until it is dismissed.
func (vm *ViewModel) InspectContainer(ctx context.Context) error {
	t := vm.Thing()
	if t.Container == nil {
		return ErrNoContainer
	}
	if slices.ContainsFunc(vm.args.Chain, func(a *thing.Thing) bool { return a.ID == *t.Container }) {
		return ErrContainerCycle
	}
	if vm.args.Modal == nil {
		return errNoNavigation
	}
	container, err := vm.args.Session.Get(ctx, *t.Container)
	if err != nil {
		return fmt.Errorf("loading container: %w", err)
	}
	_, err = vm.args.Modal.NavigateThing(ctx, navigation.ThingRequest{
		Thing:       container,
		Transaction: vm.args.Transaction,
		Session:     vm.args.Session,
		Kind:        thing.DialogInspect,
		Chain:       append(slices.Clone(vm.args.Chain), t),
	})
	return err
}

// Dispose ends the change subscription.
func (vm *ViewModel) Dispose() {
	vm.sub.Stop()
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
