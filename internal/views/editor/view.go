package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/thingdock/internal/keys"
	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/ui/styles"
	"github.com/zjrosen/thingdock/internal/ui/surface"
	"github.com/zjrosen/thingdock/internal/views/viewkit"
)

// View wraps a textarea bound to the view-model's draft.
type View struct {
	surface.Base
	ta textarea.Model
}

var (
	_ surface.Component     = (*View)(nil)
	_ surface.InputCapturer = (*View)(nil)
)

// NewView creates an unattached editor surface.
func NewView(host surface.Host) *View {
	v := &View{ta: textarea.New()}
	v.Init(v, SurfaceIdentity, host)
	v.ta.ShowLineNumbers = false
	v.ta.Prompt = ""
	v.ta.CharLimit = 0
	v.ta.Focus()
	return v
}

// SetDataContext attaches vm and loads its draft.
func (v *View) SetDataContext(l navigation.Logic) {
	v.Base.SetDataContext(l)
	if vm, ok := l.(*ViewModel); ok {
		v.ta.SetValue(vm.Draft())
	}
}

func (v *View) vm() *ViewModel {
	vm, _ := v.DataContext().(*ViewModel)
	return vm
}

func (v *View) Title() string {
	if vm := v.vm(); vm != nil {
		return vm.Caption()
	}
	return Name
}

func (v *View) CapturesInput() bool { return true }

func (v *View) Update(msg tea.Msg) tea.Cmd {
	vm := v.vm()
	km, ok := msg.(tea.KeyMsg)
	if vm == nil || !ok {
		return nil
	}
	switch {
	case key.Matches(km, keys.Editor.Save):
		ctx := context.Background()
		if h := v.Host(); h != nil {
			ctx = h.Context()
		}
		return func() tea.Msg {
			if err := vm.Save(ctx); err != nil {
				return surface.ErrorMsg{Err: err}
			}
			return surface.InfoMsg{Text: "Saved " + vm.Caption()}
		}
	case key.Matches(km, keys.Editor.Revert):
		vm.Revert()
		v.ta.SetValue(vm.Draft())
		return nil
	}

	v.sync(vm)
	var cmd tea.Cmd
	v.ta, cmd = v.ta.Update(km)
	vm.SetDraft(v.ta.Value())
	return cmd
}

func (v *View) View(width, height int) string {
	vm := v.vm()
	if vm == nil {
		return ""
	}
	v.sync(vm)
	v.ta.SetWidth(max(width, 10))
	v.ta.SetHeight(max(height-2, 1))

	return v.ta.View() + "\n\n" + v.status(vm)
}

// sync reloads the textarea when the draft changed underneath it.
func (v *View) sync(vm *ViewModel) {
	if draft := vm.Draft(); draft != v.ta.Value() {
		v.ta.SetValue(draft)
	}
}

func (v *View) status(vm *ViewModel) string {
	draft := vm.Draft()
	parts := []string{
		fmt.Sprintf("%d chars", uniseg.GraphemeClusterCount(draft)),
		fmt.Sprintf("%d lines", strings.Count(draft, "\n")+1),
	}
	if vm.IsDirty() {
		ins, del := vm.Changes()
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.StatusWarningColor).
			Render(fmt.Sprintf("modified +%d -%d", ins, del)))
	}
	if vm.Stale() {
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.StatusErrorColor).Render("changed elsewhere"))
	}
	parts = append(parts, "ctrl+s save", "ctrl+r revert")
	return styles.LabelStyle.Render(strings.Join(parts, " • "))
}

// Provider registers the editor by name.
func Provider(env viewkit.Env) navigation.Provider {
	newSurface := func(navigation.Args) (navigation.Surface, error) {
		return NewView(env.Host), nil
	}
	return navigation.Provider{
		Key: "editor",
		Descriptors: []navigation.Descriptor{
			{
				Discriminator:   navigation.ForName(Name),
				Name:            Name,
				LogicIdentity:   LogicIdentity,
				SurfaceIdentity: SurfaceIdentity,
				NewLogic: func(a navigation.Args) (navigation.Logic, error) {
					vm, err := NewViewModel(a.Thing, a.Session)
					if err != nil {
						return nil, err
					}
					return vm, nil
				},
				NewSurface: newSurface,
			},
			{
				Discriminator:   navigation.ForSurface(SurfaceIdentity),
				Name:            Name,
				SurfaceIdentity: SurfaceIdentity,
				NewSurface:      newSurface,
			},
		},
	}
}
