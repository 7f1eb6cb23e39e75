package details

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/thingdock/internal/keys"
	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/ui/markdown"
	"github.com/zjrosen/thingdock/internal/ui/styles"
	"github.com/zjrosen/thingdock/internal/ui/surface"
	"github.com/zjrosen/thingdock/internal/views/viewkit"
)

// Default window size, clamped to the screen.
const (
	Width  = 52
	Height = 16
)

// View renders the details window.
type View struct {
	surface.Base
	md     *markdown.Cache
	cursor int
}

var (
	_ surface.Component          = (*View)(nil)
	_ navigation.FloatingSurface = (*View)(nil)
)

// NewView creates an unattached details window.
func NewView(host surface.Host, md *markdown.Cache) *View {
	v := &View{md: md}
	v.Init(v, SurfaceIdentity, host)
	return v
}

func (v *View) vm() *ViewModel {
	vm, _ := v.DataContext().(*ViewModel)
	return vm
}

func (v *View) Title() string {
	if vm := v.vm(); vm != nil {
		return vm.Thing().Label()
	}
	return "Details"
}

func (v *View) context() context.Context {
	if h := v.Host(); h != nil {
		return h.Context()
	}
	return context.Background()
}

func (v *View) Update(msg tea.Msg) tea.Cmd {
	vm := v.vm()
	km, ok := msg.(tea.KeyMsg)
	if vm == nil || !ok {
		return nil
	}
	ctx := v.context()
	children := len(vm.Children())
	switch {
	case key.Matches(km, keys.Details.Close):
		vm.Close()
	case key.Matches(km, keys.Details.Container):
		return surface.Go(func() error { return vm.OpenContainer(ctx) })
	case key.Matches(km, keys.Details.Properties):
		return surface.Go(func() error { return vm.ShowProperties(ctx) })
	case key.Matches(km, keys.Browser.Up):
		v.cursor = max(v.cursor-1, 0)
	case key.Matches(km, keys.Browser.Down):
		v.cursor = min(v.cursor+1, max(children-1, 0))
	case key.Matches(km, keys.Browser.Inspect):
		i := v.cursor
		return surface.Go(func() error { return vm.OpenChild(ctx, i) })
	}
	return nil
}

func (v *View) View(width, height int) string {
	w, h := Width, Height
	if width > 0 {
		w = min(w, width)
	}
	if height > 0 {
		h = min(h, height)
	}
	vm := v.vm()
	if vm == nil {
		return styles.RenderWithTitleBorder("", "Details", w, h, false)
	}
	return styles.RenderWithTitleBorder(v.body(vm, w-2), v.Title(), w, h, true)
}

func (v *View) body(vm *ViewModel, width int) string {
	t := vm.Thing()
	row := func(label, value string) string {
		return styles.LabelStyle.Render(label+": ") + styles.ValueStyle.Render(value)
	}

	lines := []string{
		styles.LabelStyle.Render("Kind: ") + styles.KindStyle(t.Kind).Render(t.Kind.Words()),
		row("Revision", styles.FormatRevision(t.Revision)),
	}
	if c := vm.Container(); c != nil {
		lines = append(lines, row("Container", c.Label()))
	}
	if desc := v.md.Render(t.Description, width); desc != "" {
		lines = append(lines, "")
		lines = append(lines, strings.Split(desc, "\n")...)
	}

	children := vm.Children()
	if len(children) > 0 {
		lines = append(lines, "", styles.LabelStyle.Render("Contains:"))
		v.cursor = min(v.cursor, len(children)-1)
		for i, c := range children {
			prefix := "  "
			if i == v.cursor {
				prefix = styles.SelectionIndicatorStyle.Render(">") + " "
			}
			lines = append(lines, prefix+styles.TruncateString(c.Label(), width-2))
		}
	}

	hints := []string{"esc close", "p properties"}
	if t.Container != nil {
		hints = append(hints, "c container")
	}
	lines = append(lines, "", styles.LabelStyle.Render(strings.Join(hints, " • ")))
	return strings.Join(lines, "\n")
}

// Provider registers the window's surface for binding by naming convention.
// The view-model is built by the caller with NewViewModel.
func Provider(env viewkit.Env) navigation.Provider {
	return navigation.Provider{
		Key: "details",
		Descriptors: []navigation.Descriptor{{
			Discriminator:   navigation.ForSurface(SurfaceIdentity),
			Name:            Name,
			SurfaceIdentity: SurfaceIdentity,
			NewSurface: func(navigation.Args) (navigation.Surface, error) {
				return NewView(env.Host, env.Markdown), nil
			},
		}},
	}
}
