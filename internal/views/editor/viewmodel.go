// Package editor provides the description editor panel.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/thing"
	"github.com/zjrosen/thingdock/internal/views/viewkit"
)

// Name is the registered name of the panel.
const Name = "Description Editor"

const root = viewkit.Root + ".Panels"

var (
	LogicIdentity   = navigation.LogicIdentity(root, "DescriptionEditor")
	SurfaceIdentity = navigation.SurfaceIdentity(root, "DescriptionEditor")
)

// ViewModel edits the description of one thing. The panel identifier is the
// thing ID, so each thing gets at most one editor.
type ViewModel struct {
	id      uuid.UUID
	session *thing.Session
	sub     *viewkit.Subscription

	mu       sync.Mutex
	original *thing.Thing
	draft    string
	stale    bool
	disposed bool
}

var (
	_ navigation.PanelLogic     = (*ViewModel)(nil)
	_ navigation.DirtyDescriber = (*ViewModel)(nil)
)

// NewViewModel opens an editor on t.
func NewViewModel(t *thing.Thing, session *thing.Session) (*ViewModel, error) {
	if t == nil || session == nil {
		return nil, errors.New("thing and session are required")
	}
	vm := &ViewModel{id: t.ID, session: session, original: t.Clone(), draft: t.Description}
	vm.sub = viewkit.Subscribe(session, viewkit.ForThing(t.ID), vm.onChange)
	return vm, nil
}

func (vm *ViewModel) onChange(ctx context.Context, _ thing.ChangeEvent) {
	t := viewkit.Reload(ctx, vm.session, vm.id)
	if t == nil {
		return
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.disposed {
		return
	}
	dirty := vm.draft != vm.original.Description
	vm.original = t
	switch {
	case !dirty:
		vm.draft = t.Description
	case vm.draft == t.Description:
		vm.stale = false
	default:
		vm.stale = true
	}
}

func (vm *ViewModel) Identity() string      { return LogicIdentity }
func (vm *ViewModel) Identifier() uuid.UUID { return vm.id }
func (vm *ViewModel) DataSource() string    { return vm.session.DataSource() }

func (vm *ViewModel) Caption() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	name := vm.original.ShortName
	if name == "" {
		name = vm.original.Name
	}
	return "Description: " + name
}

// Thing returns a copy of the stored thing being edited.
func (vm *ViewModel) Thing() *thing.Thing {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.original.Clone()
}

func (vm *ViewModel) Draft() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.draft
}

func (vm *ViewModel) SetDraft(s string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.draft = s
}

func (vm *ViewModel) IsDirty() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.draft != vm.original.Description
}

// Stale reports whether the stored description changed while the draft had
// unsaved edits.
func (vm *ViewModel) Stale() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.stale
}

// Revert drops the draft.
func (vm *ViewModel) Revert() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.draft = vm.original.Description
	vm.stale = false
}

// Save writes the draft as the thing's description.
func (vm *ViewModel) Save(ctx context.Context) error {
	vm.mu.Lock()
	t := vm.original.Clone()
	t.Description = vm.draft
	vm.mu.Unlock()

	tx := thing.NewTransaction()
	tx.Update(t)
	if err := vm.session.Write(ctx, tx); err != nil {
		return fmt.Errorf("saving description: %w", err)
	}
	saved, err := vm.session.Get(ctx, vm.id)
	if err != nil {
		return err
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.original = saved
	vm.stale = false
	return nil
}

// Changes counts inserted and deleted characters of the draft.
func (vm *ViewModel) Changes() (inserted, deleted int) {
	vm.mu.Lock()
	before, after := vm.original.Description, vm.draft
	vm.mu.Unlock()

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			inserted += uniseg.GraphemeClusterCount(d.Text)
		case diffmatchpatch.DiffDelete:
			deleted += uniseg.GraphemeClusterCount(d.Text)
		}
	}
	return inserted, deleted
}

// DirtyMessage is the question asked before closing with unsaved changes.
func (vm *ViewModel) DirtyMessage() string {
	if !vm.IsDirty() {
		return ""
	}
	ins, del := vm.Changes()
	return fmt.Sprintf("The description of %s has unsaved changes (+%d -%d characters). Close anyway?",
		vm.Thing().Label(), ins, del)
}

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
