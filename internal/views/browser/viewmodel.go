// Package browser provides the thing browser panels: a containment tree of
// the things of a few kinds, narrowed by the global filter.
package browser

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/zjrosen/thingdock/internal/filter"
	"github.com/zjrosen/thingdock/internal/log"
	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/thing"
	"github.com/zjrosen/thingdock/internal/views/details"
	"github.com/zjrosen/thingdock/internal/views/editor"
	"github.com/zjrosen/thingdock/internal/views/viewkit"
)

const root = viewkit.Root + ".Panels"

var (
	LogicIdentity   = navigation.LogicIdentity(root, "Browser")
	SurfaceIdentity = navigation.SurfaceIdentity(root, "Browser")
)

// Kind configures one browser panel.
type Kind struct {
	Name  string
	Kinds []thing.ClassKind
}

var (
	Elements = Kind{
		Name:  "Element Browser",
		Kinds: []thing.ClassKind{thing.KindElementDefinition, thing.KindElementUsage, thing.KindParameter},
	}
	Requirements = Kind{
		Name:  "Requirement Browser",
		Kinds: []thing.ClassKind{thing.KindRequirementsSpecification, thing.KindRequirement},
	}
)

// Kinds lists the registered browsers.
var Kinds = []Kind{Elements, Requirements}

var (
	ErrCannotContain = errors.New("selected thing cannot contain other things")
	errNoNavigation  = errors.New("browser has no navigation handles")
)

// browserNamespace seeds the stable panel identifiers.
var browserNamespace = uuid.MustParse("6f1c2b8e-3d4a-4f5e-9a7b-0c1d2e3f4a5b")

// Item is one row of the tree.
type Item struct {
	Thing *thing.Thing
	Depth int
}

// ViewModel lists the things of its kinds as a containment tree.
type ViewModel struct {
	kind     Kind
	id       uuid.UUID
	session  *thing.Session
	modal    *navigation.ModalController
	floating *navigation.FloatingRegistry
	dock     *navigation.Dock
	sub      *viewkit.Subscription

	mu       sync.Mutex
	items    []Item
	filter   string
	disposed bool
}

var (
	_ navigation.PanelLogic = (*ViewModel)(nil)
	_ filter.Filterable     = (*ViewModel)(nil)
)

// NewViewModel builds a browser of kind over args.Session. The panel
// identifier is derived from the kind name and data source, so a second
// browser of the same kind is deduplicated by OpenExistingOrOpen.
func NewViewModel(ctx context.Context, kind Kind, args navigation.Args) (*ViewModel, error) {
	if args.Session == nil {
		return nil, errors.New("session is required")
	}
	vm := &ViewModel{
		kind:     kind,
		id:       uuid.NewSHA1(browserNamespace, []byte(args.Session.DataSource()+"|"+kind.Name)),
		session:  args.Session,
		modal:    args.Modal,
		floating: args.Floating,
		dock:     args.Dock,
	}
	if err := vm.Reload(ctx); err != nil {
		return nil, err
	}
	vm.sub = viewkit.Subscribe(args.Session, vm.matches, func(ctx context.Context, _ thing.ChangeEvent) {
		if err := vm.Reload(ctx); err != nil {
			log.ErrorErr(log.CatUI, "reload browser", err, "panel", kind.Name)
		}
	})
	return vm, nil
}

func (vm *ViewModel) matches(ev thing.ChangeEvent) bool {
	return ev.External() || slices.Contains(vm.kind.Kinds, ev.Kind)
}

// Reload rebuilds the tree from the session.
func (vm *ViewModel) Reload(ctx context.Context) error {
	byID := make(map[uuid.UUID]*thing.Thing)
	var all []*thing.Thing
	for _, k := range vm.kind.Kinds {
		things, err := vm.session.List(ctx, k)
		if err != nil {
			return fmt.Errorf("listing %s: %w", k, err)
		}
		for _, t := range things {
			byID[t.ID] = t
			all = append(all, t)
		}
	}

	children := make(map[uuid.UUID][]*thing.Thing)
	var roots []*thing.Thing
	for _, t := range all {
		if t.Container != nil {
			if _, ok := byID[*t.Container]; ok {
				children[*t.Container] = append(children[*t.Container], t)
				continue
			}
		}
		roots = append(roots, t)
	}
	sortByLabel(roots)

	items := make([]Item, 0, len(all))
	var walk func(t *thing.Thing, depth int)
	walk = func(t *thing.Thing, depth int) {
		items = append(items, Item{Thing: t, Depth: depth})
		kids := children[t.ID]
		sortByLabel(kids)
		for _, c := range kids {
			walk(c, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if !vm.disposed {
		vm.items = items
	}
	return nil
}

func sortByLabel(things []*thing.Thing) {
	slices.SortStableFunc(things, func(a, b *thing.Thing) int {
		return cmp.Compare(a.ShortName, b.ShortName)
	})
}

func (vm *ViewModel) Identity() string      { return LogicIdentity }
func (vm *ViewModel) Identifier() uuid.UUID { return vm.id }
func (vm *ViewModel) Caption() string       { return vm.kind.Name }
func (vm *ViewModel) DataSource() string    { return vm.session.DataSource() }
func (vm *ViewModel) IsDirty() bool         { return false }

func (vm *ViewModel) ApplyFilter(f string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.filter = f
}

// Filter returns the filter currently applied.
func (vm *ViewModel) Filter() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.filter
}

// Items returns the visible rows. While filtering, matching things are
// listed flat.
func (vm *ViewModel) Items() []Item {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.filter == "" {
		return slices.Clone(vm.items)
	}
	var out []Item
	for _, it := range vm.items {
		if filter.Matches(vm.filter, it.Thing.Label()+" "+it.Thing.Description) {
			out = append(out, Item{Thing: it.Thing})
		}
	}
	return out
}

func (vm *ViewModel) request(t *thing.Thing, kind thing.DialogKind) navigation.ThingRequest {
	req := navigation.ThingRequest{Thing: t.Clone(), Session: vm.session, Kind: kind}
	if !kind.ReadOnly() {
		req.Transaction = thing.NewTransaction()
		req.IsRoot = true
	}
	return req
}

// Inspect shows the read-only dialog of t.
func (vm *ViewModel) Inspect(ctx context.Context, t *thing.Thing) error {
	if vm.modal == nil {
		return errNoNavigation
	}
	_, err := vm.modal.NavigateThing(ctx, vm.request(t, thing.DialogInspect))
	return err
}

// Edit shows the edit dialog of t as the root of a new transaction.
func (vm *ViewModel) Edit(ctx context.Context, t *thing.Thing) error {
	if vm.modal == nil {
		return errNoNavigation
	}
	_, err := vm.modal.NavigateThing(ctx, vm.request(t, thing.DialogUpdate))
	return err
}

// New shows the create dialog for a thing inside parent, or for a new top
// level thing when parent is nil.
func (vm *ViewModel) New(ctx context.Context, parent *thing.Thing) error {
	if vm.modal == nil {
		return errNoNavigation
	}
	kind := vm.kind.Kinds[0]
	if parent != nil {
		var ok bool
		if kind, ok = thing.ContainedKind(parent.Kind); !ok {
			return fmt.Errorf("%s: %w", parent.Kind.Words(), ErrCannotContain)
		}
	}
	req := vm.request(thing.New(kind, "", ""), thing.DialogCreate)
	req.Container = parent
	_, err := vm.modal.NavigateThing(ctx, req)
	return err
}

// Details shows the floating details window of t.
func (vm *ViewModel) Details(ctx context.Context, t *thing.Thing) error {
	if vm.floating == nil {
		return errNoNavigation
	}
	d, err := details.NewViewModel(ctx, vm.session, t.ID, vm.floating, vm.dock)
	if err != nil {
		return err
	}
	return vm.floating.Open(ctx, d)
}

// Properties shows t in the property grid.
func (vm *ViewModel) Properties(ctx context.Context, t *thing.Thing) error {
	if vm.dock == nil {
		return errNoNavigation
	}
	return vm.dock.OpenProperties(ctx, t, vm.session)
}

// EditDescription docks the description editor of t, or selects it when
// already docked.
func (vm *ViewModel) EditDescription(ctx context.Context, t *thing.Thing) error {
	if vm.dock == nil {
		return errNoNavigation
	}
	e, err := editor.NewViewModel(t, vm.session)
	if err != nil {
		return err
	}
	return vm.dock.OpenExistingOrOpen(ctx, e)
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
