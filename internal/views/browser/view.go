package browser

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/thingdock/internal/keys"
	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/thing"
	"github.com/zjrosen/thingdock/internal/ui/styles"
	"github.com/zjrosen/thingdock/internal/ui/surface"
	"github.com/zjrosen/thingdock/internal/views/viewkit"
)

// View renders the tree with a cursor.
type View struct {
	surface.Base
	cursor int
	offset int
}

var _ surface.Component = (*View)(nil)

// NewView creates an unattached browser surface.
func NewView(host surface.Host) *View {
	v := &View{}
	v.Init(v, SurfaceIdentity, host)
	return v
}

func (v *View) vm() *ViewModel {
	vm, _ := v.DataContext().(*ViewModel)
	return vm
}

func (v *View) Title() string {
	if vm := v.vm(); vm != nil {
		return vm.Caption()
	}
	return "Browser"
}

// Selected returns the thing under the cursor, or nil for an empty list.
func (v *View) Selected() *thing.Thing {
	vm := v.vm()
	if vm == nil {
		return nil
	}
	items := vm.Items()
	if len(items) == 0 {
		return nil
	}
	v.cursor = min(v.cursor, len(items)-1)
	return items[v.cursor].Thing
}

func (v *View) Update(msg tea.Msg) tea.Cmd {
	vm := v.vm()
	km, ok := msg.(tea.KeyMsg)
	if vm == nil || !ok {
		return nil
	}
	ctx := context.Background()
	if h := v.Host(); h != nil {
		ctx = h.Context()
	}

	switch {
	case key.Matches(km, keys.Browser.Up):
		v.cursor = max(v.cursor-1, 0)
		return nil
	case key.Matches(km, keys.Browser.Down):
		v.cursor = min(v.cursor+1, max(len(vm.Items())-1, 0))
		return nil
	case key.Matches(km, keys.Browser.New):
		parent := v.Selected()
		return surface.Go(func() error { return vm.New(ctx, parent) })
	}

	t := v.Selected()
	if t == nil {
		return nil
	}
	var action func(context.Context, *thing.Thing) error
	switch {
	case key.Matches(km, keys.Browser.Inspect):
		action = vm.Inspect
	case key.Matches(km, keys.Browser.Edit):
		action = vm.Edit
	case key.Matches(km, keys.Browser.Details):
		action = vm.Details
	case key.Matches(km, keys.Browser.Properties):
		action = vm.Properties
	case key.Matches(km, keys.Browser.EditDescription):
		action = vm.EditDescription
	default:
		return nil
	}
	return surface.Go(func() error { return action(ctx, t) })
}

func (v *View) View(width, height int) string {
	vm := v.vm()
	if vm == nil {
		return ""
	}
	items := vm.Items()
	listHeight := max(height-2, 1)

	var lines []string
	if len(items) == 0 {
		empty := "No things yet. Press n to create one."
		if vm.Filter() != "" {
			empty = "Nothing matches " + `"` + vm.Filter() + `"`
		}
		lines = append(lines, styles.LabelStyle.Render(empty))
	} else {
		v.cursor = min(v.cursor, len(items)-1)
		if v.cursor < v.offset {
			v.offset = v.cursor
		}
		if v.cursor >= v.offset+listHeight {
			v.offset = v.cursor - listHeight + 1
		}
		end := min(v.offset+listHeight, len(items))
		for i := v.offset; i < end; i++ {
			lines = append(lines, v.renderItem(items[i], i == v.cursor, width))
		}
	}
	for len(lines) < listHeight {
		lines = append(lines, "")
	}

	help := make([]string, 0, 5)
	for _, b := range keys.Browser.ShortHelp() {
		help = append(help, b.Help().Key+" "+b.Help().Desc)
	}
	lines = append(lines, "", styles.LabelStyle.Render(styles.TruncateString(strings.Join(help, " • "), max(width, 1))))
	return strings.Join(lines, "\n")
}

func (v *View) renderItem(it Item, selected bool, width int) string {
	prefix := "  "
	if selected {
		prefix = styles.SelectionIndicatorStyle.Render(">") + " "
	}
	indent := strings.Repeat("  ", it.Depth)
	marker := styles.KindStyle(it.Thing.Kind).Render("●")
	label := styles.TruncateString(it.Thing.Label(), max(width-4-len(indent), 1))
	return prefix + indent + marker + " " + label
}

// Provider registers one panel per browser kind.
func Provider(env viewkit.Env) navigation.Provider {
	newSurface := func(navigation.Args) (navigation.Surface, error) {
		return NewView(env.Host), nil
	}
	descriptors := make([]navigation.Descriptor, 0, len(Kinds)+1)
	for _, k := range Kinds {
		descriptors = append(descriptors, navigation.Descriptor{
			Discriminator:   navigation.ForName(k.Name),
			Name:            k.Name,
			LogicIdentity:   LogicIdentity,
			SurfaceIdentity: SurfaceIdentity,
			NewLogic: func(a navigation.Args) (navigation.Logic, error) {
				ctx := context.Background()
				if env.Host != nil {
					ctx = env.Host.Context()
				}
				vm, err := NewViewModel(ctx, k, a)
				if err != nil {
					return nil, err
				}
				return vm, nil
			},
			NewSurface: newSurface,
		})
	}
	descriptors = append(descriptors, navigation.Descriptor{
		Discriminator:   navigation.ForSurface(SurfaceIdentity),
		Name:            "Browser",
		SurfaceIdentity: SurfaceIdentity,
		NewSurface:      newSurface,
	})
	return navigation.Provider{Key: "browser", Descriptors: descriptors}
}
