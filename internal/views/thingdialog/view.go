package thingdialog

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/thingdock/internal/keys"
	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/thing"
	"github.com/zjrosen/thingdock/internal/ui/markdown"
	"github.com/zjrosen/thingdock/internal/ui/styles"
	"github.com/zjrosen/thingdock/internal/ui/surface"
)

type field int

const (
	fieldName field = iota
	fieldShortName
	fieldDescription
	fieldCount
)

const (
	minWidth = 40
	maxWidth = 72
)

// View is the dialog surface. Inputs are loaded from the view-model when it
// is attached and written back on every key.
type View struct {
	surface.Base
	md *markdown.Cache

	name      textinput.Model
	shortName textinput.Model
	desc      textarea.Model
	focus     field
	err       error
	// nested enables opening the container in a stacked inspect dialog.
	nested bool
}

var (
	_ surface.Component       = (*View)(nil)
	_ surface.InputCapturer   = (*View)(nil)
	_ navigation.ModalSurface = (*View)(nil)
)

// NewView creates an unattached dialog surface.
func NewView(host surface.Host, md *markdown.Cache) *View {
	v := &View{md: md, nested: true}
	v.Init(v, SurfaceIdentity, host)

	v.name = textinput.New()
	v.name.Prompt = ""
	v.name.CharLimit = 200
	v.shortName = textinput.New()
	v.shortName.Prompt = ""
	v.shortName.CharLimit = 40
	v.desc = textarea.New()
	v.desc.ShowLineNumbers = false
	v.desc.Prompt = ""
	v.desc.SetHeight(4)
	return v
}

// SetDataContext attaches vm and loads its thing into the inputs.
func (v *View) SetDataContext(l navigation.Logic) {
	v.Base.SetDataContext(l)
	vm, ok := l.(*ViewModel)
	if !ok {
		return
	}
	t := vm.Thing()
	v.name.SetValue(t.Name)
	v.shortName.SetValue(t.ShortName)
	v.desc.SetValue(t.Description)
	v.setFocus(fieldName)
}

func (v *View) vm() *ViewModel {
	vm, _ := v.DataContext().(*ViewModel)
	return vm
}

func (v *View) Title() string {
	if vm := v.vm(); vm != nil {
		return vm.Title()
	}
	return Name
}

// CapturesInput is true while an editable field has focus.
func (v *View) CapturesInput() bool {
	vm := v.vm()
	return vm != nil && !vm.ReadOnly()
}

// Err returns the last validation or navigation error.
func (v *View) Err() error { return v.err }

func (v *View) context() context.Context {
	if h := v.Host(); h != nil {
		return h.Context()
	}
	return context.Background()
}

func (v *View) Update(msg tea.Msg) tea.Cmd {
	vm := v.vm()
	if vm == nil {
		return nil
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(km, keys.Dialog.Cancel):
		vm.Cancel()
		v.Finish()
		return nil
	case key.Matches(km, keys.Dialog.Save), vm.ReadOnly() && km.Type == tea.KeyEnter:
		if err := vm.OK(v.context()); err != nil {
			v.err = err
			return nil
		}
		v.Finish()
		return nil
	case v.nested && (key.Matches(km, keys.Dialog.Container) || vm.ReadOnly() && key.Matches(km, keys.Details.Container)):
		v.err = nil
		ctx := v.context()
		return surface.Go(func() error { return vm.InspectContainer(ctx) })
	}

	if vm.ReadOnly() {
		return nil
	}

	multiline := v.focus == fieldDescription && (km.Type == tea.KeyUp || km.Type == tea.KeyDown)
	switch {
	case multiline:
	case key.Matches(km, keys.Dialog.NextField):
		v.setFocus((v.focus + 1) % fieldCount)
		return nil
	case key.Matches(km, keys.Dialog.PrevField):
		v.setFocus((v.focus + fieldCount - 1) % fieldCount)
		return nil
	}

	var cmd tea.Cmd
	switch v.focus {
	case fieldName:
		v.name, cmd = v.name.Update(km)
		vm.SetName(v.name.Value())
	case fieldShortName:
		v.shortName, cmd = v.shortName.Update(km)
		vm.SetShortName(v.shortName.Value())
	case fieldDescription:
		v.desc, cmd = v.desc.Update(km)
		vm.SetDescription(v.desc.Value())
	}
	v.err = nil
	return cmd
}

func (v *View) setFocus(f field) {
	v.focus = f
	v.name.Blur()
	v.shortName.Blur()
	v.desc.Blur()
	switch f {
	case fieldName:
		v.name.Focus()
	case fieldShortName:
		v.shortName.Focus()
	case fieldDescription:
		v.desc.Focus()
	}
}

func (v *View) View(width, _ int) string {
	vm := v.vm()
	if vm == nil {
		return ""
	}
	boxWidth := maxWidth
	if width > 0 {
		boxWidth = max(min(width-4, maxWidth), minWidth)
	}
	contentWidth := boxWidth - 2

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor)
	pad := lipgloss.NewStyle().PaddingLeft(1)

	var b strings.Builder
	b.WriteString(pad.Render(titleStyle.Render(vm.Title())))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(styles.BorderDefaultColor).Render(strings.Repeat("─", boxWidth)))
	b.WriteString("\n\n")

	t := vm.Thing()
	if vm.ReadOnly() {
		b.WriteString(pad.Render(v.renderInspect(t, contentWidth-2)))
	} else {
		b.WriteString(pad.Render(v.renderForm(contentWidth - 2)))
	}
	b.WriteString("\n")

	if vm.Stale() {
		b.WriteString("\n")
		b.WriteString(pad.Render(lipgloss.NewStyle().Foreground(styles.StatusWarningColor).
			Render("Changed elsewhere since the dialog opened.")))
	}
	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(pad.Render(lipgloss.NewStyle().Foreground(styles.StatusErrorColor).Render(v.err.Error())))
	}
	b.WriteString("\n")
	b.WriteString(pad.Render(v.renderHints(vm)))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(boxWidth).
		Render(b.String())
}

func (v *View) renderForm(width int) string {
	v.name.Width = width - 3
	v.shortName.Width = width - 3
	v.desc.SetWidth(width - 2)
	sections := []string{
		styles.RenderFormSection([]string{v.name.View()}, "Name", "required", width, v.focus == fieldName),
		styles.RenderFormSection([]string{v.shortName.View()}, "Short Name", "", width, v.focus == fieldShortName),
		styles.RenderFormSection(strings.Split(v.desc.View(), "\n"), "Description", "markdown", width, v.focus == fieldDescription),
	}
	return strings.Join(sections, "\n")
}

func (v *View) renderInspect(t *thing.Thing, width int) string {
	row := func(label, value string) string {
		return styles.LabelStyle.Render(label+": ") + styles.ValueStyle.Render(value)
	}
	lines := []string{
		row("Name", t.Name),
		row("Short Name", t.ShortName),
		row("Kind", styles.KindStyle(t.Kind).Render(t.Kind.Words())),
		row("Revision", styles.FormatRevision(t.Revision)),
	}
	if desc := v.md.Render(t.Description, width); desc != "" {
		lines = append(lines, "", desc)
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderHints(vm *ViewModel) string {
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	var parts []string
	if vm.ReadOnly() {
		parts = append(parts, "enter ok", "esc close")
	} else {
		parts = append(parts, "ctrl+s ok", "esc cancel", "tab next field")
	}
	if v.nested && vm.HasContainer() {
		parts = append(parts, keys.Dialog.Container.Help().Key+" container")
	}
	return hint.Render(strings.Join(parts, " • "))
}
