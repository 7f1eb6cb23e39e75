// Package confirm provides the yes/no dialog behind ModalController.Confirm.
package confirm

import (
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/thingdock/internal/keys"
	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/ui/styles"
	"github.com/zjrosen/thingdock/internal/ui/surface"
	"github.com/zjrosen/thingdock/internal/views/viewkit"
)

const root = viewkit.Root + ".Common"

var (
	LogicIdentity   = navigation.LogicIdentity(root, navigation.ConfirmationName)
	SurfaceIdentity = navigation.SurfaceIdentity(root, navigation.ConfirmationName)
)

// ViewModel holds the question and the answer.
type ViewModel struct {
	title   string
	message string

	mu       sync.Mutex
	result   navigation.DialogResult
	disposed bool
}

var _ navigation.DialogLogic = (*ViewModel)(nil)

// NewViewModel creates a pending question.
func NewViewModel(title, message string) *ViewModel {
	if title == "" {
		title = "Confirm"
	}
	return &ViewModel{title: title, message: message}
}

func (vm *ViewModel) Identity() string { return LogicIdentity }
func (vm *ViewModel) Title() string    { return vm.title }
func (vm *ViewModel) Message() string  { return vm.message }

// Yes answers the question positively.
func (vm *ViewModel) Yes() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.result = navigation.ConfirmedResult(true)
}

// No answers the question negatively.
func (vm *ViewModel) No() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.result = navigation.CancelledResult()
}

func (vm *ViewModel) Result() navigation.DialogResult {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.result
}

func (vm *ViewModel) Dispose() {
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

type button int

const (
	buttonYes button = iota
	buttonNo
)

// View renders the question with Yes and No buttons.
type View struct {
	surface.Base
	focus button
}

var (
	_ surface.Component       = (*View)(nil)
	_ navigation.ModalSurface = (*View)(nil)
)

// NewView creates an unattached confirmation surface.
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
		return vm.Title()
	}
	return "Confirm"
}

func (v *View) Update(msg tea.Msg) tea.Cmd {
	vm := v.vm()
	km, ok := msg.(tea.KeyMsg)
	if !ok || vm == nil {
		return nil
	}
	switch {
	case key.Matches(km, keys.Confirm.Yes):
		vm.Yes()
		v.Finish()
	case key.Matches(km, keys.Confirm.No):
		vm.No()
		v.Finish()
	case key.Matches(km, keys.Confirm.Toggle):
		v.focus = 1 - v.focus
	case key.Matches(km, keys.Confirm.Submit):
		if v.focus == buttonYes {
			vm.Yes()
		} else {
			vm.No()
		}
		v.Finish()
	}
	return nil
}

const minWidth = 40

func (v *View) View(width, _ int) string {
	contentWidth := minWidth
	if w := lipgloss.Width(v.Title()); w > contentWidth {
		contentWidth = w
	}
	if width > 0 {
		contentWidth = min(contentWidth, max(width-4, 10))
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).PaddingLeft(1)
	divider := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor).Render(strings.Repeat("─", contentWidth+2))

	var content strings.Builder
	if vm := v.vm(); vm != nil && vm.Message() != "" {
		msg := wordwrap.String(vm.Message(), contentWidth)
		content.WriteString(lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Render(msg))
		content.WriteString("\n\n")
	}
	content.WriteString(v.renderButtons())

	body := titleStyle.Render(v.Title()) + "\n" + divider + "\n" +
		lipgloss.NewStyle().Padding(1, 1).Render(content.String())

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(contentWidth + 2).
		Render(body)
}

func (v *View) renderButtons() string {
	yes := styles.DangerButtonStyle
	no := styles.SecondaryButtonStyle
	if v.focus == buttonYes {
		yes = styles.DangerButtonFocusedStyle
	} else {
		no = styles.SecondaryButtonFocusedStyle
	}
	return yes.Render("Yes") + "  " + no.Render("No")
}

// Provider registers the dialog by name and its surface by identity.
func Provider(env viewkit.Env) navigation.Provider {
	newSurface := func(navigation.Args) (navigation.Surface, error) {
		return NewView(env.Host), nil
	}
	return navigation.Provider{
		Key: "confirm",
		Descriptors: []navigation.Descriptor{
			{
				Discriminator:   navigation.ForName(navigation.ConfirmationName),
				Name:            navigation.ConfirmationName,
				LogicIdentity:   LogicIdentity,
				SurfaceIdentity: SurfaceIdentity,
				NewLogic: func(a navigation.Args) (navigation.Logic, error) {
					return NewViewModel(a.Title, a.Message), nil
				},
				NewSurface: newSurface,
			},
			{
				Discriminator:   navigation.ForSurface(SurfaceIdentity),
				Name:            navigation.ConfirmationName,
				SurfaceIdentity: SurfaceIdentity,
				NewSurface:      newSurface,
			},
		},
	}
}
