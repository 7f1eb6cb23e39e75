// Package propertygrid provides the property grid panel: the fields of one
// thing, switched to another thing in place when asked to show it.
package propertygrid

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/zjrosen/thingdock/internal/filter"
	"github.com/zjrosen/thingdock/internal/keys"
	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/thing"
	"github.com/zjrosen/thingdock/internal/ui/styles"
	"github.com/zjrosen/thingdock/internal/ui/surface"
	"github.com/zjrosen/thingdock/internal/views/viewkit"
)

// Caption is the tab caption of the panel.
const Caption = "Property Grid"

const root = viewkit.Root + ".Panels"

var (
	LogicIdentity   = navigation.LogicIdentity(root, navigation.PropertyGridName)
	SurfaceIdentity = navigation.SurfaceIdentity(root, navigation.PropertyGridName)
)

// Row is one property.
type Row struct {
	Label string
	Value string
}

// ViewModel shows the properties of its target thing.
type ViewModel struct {
	id    uuid.UUID
	modal *navigation.ModalController

	mu        sync.Mutex
	session   *thing.Session
	target    *thing.Thing
	container *thing.Thing
	filter    string
	sub       *viewkit.Subscription
	disposed  bool
}

var (
	_ navigation.Retargetable = (*ViewModel)(nil)
	_ filter.Filterable       = (*ViewModel)(nil)
)

// NewViewModel shows args.Thing.
func NewViewModel(args navigation.Args) (*ViewModel, error) {
	vm := &ViewModel{id: uuid.New(), modal: args.Modal}
	if err := vm.Retarget(args); err != nil {
		return nil, err
	}
	return vm, nil
}

// Retarget switches the grid to args.Thing without rebuilding the panel.
func (vm *ViewModel) Retarget(args navigation.Args) error {
	if args.Thing == nil || args.Session == nil {
		return errors.New("thing and session are required")
	}
	target := args.Thing.Clone()
	container := loadContainer(context.Background(), args.Session, target)
	sub := viewkit.Subscribe(args.Session, viewkit.ForThing(target.ID), vm.onChange)

	vm.mu.Lock()
	if vm.disposed {
		vm.mu.Unlock()
		sub.Stop()
		return nil
	}
	old := vm.sub
	vm.session, vm.target, vm.container, vm.sub = args.Session, target, container, sub
	vm.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	return nil
}

func loadContainer(ctx context.Context, session *thing.Session, t *thing.Thing) *thing.Thing {
	if t.Container == nil {
		return nil
	}
	return viewkit.Reload(ctx, session, *t.Container)
}

func (vm *ViewModel) onChange(ctx context.Context, ev thing.ChangeEvent) {
	vm.mu.Lock()
	session, target := vm.session, vm.target
	vm.mu.Unlock()
	if !ev.External() && ev.ThingID != target.ID {
		return
	}

	t := viewkit.Reload(ctx, session, target.ID)
	if t == nil {
		return
	}
	container := loadContainer(ctx, session, t)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.disposed || vm.target.ID != t.ID {
		return
	}
	vm.target, vm.container = t, container
}

func (vm *ViewModel) Identity() string      { return LogicIdentity }
func (vm *ViewModel) Identifier() uuid.UUID { return vm.id }
func (vm *ViewModel) Caption() string       { return Caption }
func (vm *ViewModel) IsDirty() bool         { return false }

func (vm *ViewModel) DataSource() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.session.DataSource()
}

// Target returns a copy of the thing shown.
func (vm *ViewModel) Target() *thing.Thing {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.target.Clone()
}

// ApplyFilter hides rows whose label and value do not match.
func (vm *ViewModel) ApplyFilter(f string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.filter = f
}

// Rows returns the visible properties.
func (vm *ViewModel) Rows() []Row {
	vm.mu.Lock()
	t, c, f := vm.target, vm.container, vm.filter
	vm.mu.Unlock()

	container := "none"
	if c != nil {
		container = c.Label()
	}
	updated := ""
	if !t.UpdatedAt.IsZero() {
		updated = t.UpdatedAt.Local().Format(time.DateTime)
	}
	all := []Row{
		{"Name", t.Name},
		{"Short Name", t.ShortName},
		{"Kind", t.Kind.Words()},
		{"Container", container},
		{"Description", firstLine(t.Description)},
		{"Revision", styles.FormatRevision(t.Revision)},
		{"Updated", updated},
		{"Data Source", t.DataSource},
		{"ID", t.ID.String()},
	}
	if f == "" {
		return all
	}
	rows := all[:0]
	for _, r := range all {
		if filter.Matches(f, r.Label+" "+r.Value) {
			rows = append(rows, r)
		}
	}
	return rows
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

// Edit opens the edit dialog for the target and blocks until it closes.
func (vm *ViewModel) Edit(ctx context.Context) error {
	vm.mu.Lock()
	session, t := vm.session, vm.target.Clone()
	vm.mu.Unlock()
	if vm.modal == nil {
		return errors.New("property grid has no modal controller")
	}
	_, err := vm.modal.NavigateThing(ctx, navigation.ThingRequest{
		Thing:       t,
		Transaction: thing.NewTransaction(),
		Session:     session,
		IsRoot:      true,
		Kind:        thing.DialogUpdate,
	})
	return err
}

func (vm *ViewModel) Dispose() {
	vm.mu.Lock()
	vm.disposed = true
	sub := vm.sub
	vm.mu.Unlock()
	if sub != nil {
		sub.Stop()
	}
}

// Disposed reports whether Dispose was called.
func (vm *ViewModel) Disposed() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.disposed
}

// View renders the rows as a two column table.
type View struct {
	surface.Base
}

var _ surface.Component = (*View)(nil)

// NewView creates an unattached grid surface.
func NewView(host surface.Host) *View {
	v := &View{}
	v.Init(v, SurfaceIdentity, host)
	return v
}

func (v *View) vm() *ViewModel {
	vm, _ := v.DataContext().(*ViewModel)
	return vm
}

func (v *View) Title() string { return Caption }

func (v *View) Update(msg tea.Msg) tea.Cmd {
	vm := v.vm()
	km, ok := msg.(tea.KeyMsg)
	if vm == nil || !ok {
		return nil
	}
	if key.Matches(km, keys.Browser.Edit) {
		ctx := context.Background()
		if h := v.Host(); h != nil {
			ctx = h.Context()
		}
		return surface.Go(func() error { return vm.Edit(ctx) })
	}
	return nil
}

const labelWidth = 14

func (v *View) View(width, height int) string {
	vm := v.vm()
	if vm == nil {
		return ""
	}
	t := vm.Target()
	header := styles.KindStyle(t.Kind).Bold(true).Render(styles.TruncateString(t.Label(), max(width, 1)))
	lines := []string{header, ""}

	label := lipgloss.NewStyle().Width(labelWidth).Inherit(styles.LabelStyle)
	for _, r := range vm.Rows() {
		value := styles.TruncateString(r.Value, max(width-labelWidth, 1))
		lines = append(lines, label.Render(r.Label)+styles.ValueStyle.Render(value))
	}
	lines = append(lines, "", styles.LabelStyle.Render(keys.Browser.Edit.Help().Key+" edit"))
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// Provider registers the grid by name so the dock can open it.
func Provider(env viewkit.Env) navigation.Provider {
	newSurface := func(navigation.Args) (navigation.Surface, error) {
		return NewView(env.Host), nil
	}
	return navigation.Provider{
		Key: "propertygrid",
		Descriptors: []navigation.Descriptor{
			{
				Discriminator:   navigation.ForName(navigation.PropertyGridName),
				Name:            Caption,
				LogicIdentity:   LogicIdentity,
				SurfaceIdentity: SurfaceIdentity,
				NewLogic: func(a navigation.Args) (navigation.Logic, error) {
					vm, err := NewViewModel(a)
					if err != nil {
						return nil, err
					}
					return vm, nil
				},
				NewSurface: newSurface,
			},
			{
				Discriminator:   navigation.ForSurface(SurfaceIdentity),
				Name:            Caption,
				SurfaceIdentity: SurfaceIdentity,
				NewSurface:      newSurface,
			},
		},
	}
}
