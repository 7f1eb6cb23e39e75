// Package help contains the key binding overlay.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/thingdock/internal/keys"
	"github.com/zjrosen/thingdock/internal/ui/overlay"
	"github.com/zjrosen/thingdock/internal/ui/styles"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			PaddingLeft(2)

	dividerStyle = lipgloss.NewStyle().
			Foreground(styles.OverlayBorderColor)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			MarginTop(1)

	keyStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondaryColor).
			Width(11)

	descStyle = lipgloss.NewStyle().
			Foreground(styles.TextDescriptionColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.OverlayBorderColor)

	contentStyle = lipgloss.NewStyle().
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			MarginTop(1)
)

// Section is one titled column of bindings.
type Section struct {
	Title    string
	Bindings []key.Binding
}

// Sections returns the columns the overlay shows.
func Sections() []Section {
	full := keys.Shell.FullHelp()
	return []Section{
		{Title: "Dock", Bindings: full[0]},
		{Title: "Windows", Bindings: full[1]},
		{Title: "Panels", Bindings: full[2]},
		{Title: "Browser", Bindings: []key.Binding{
			keys.Browser.Up, keys.Browser.Down, keys.Browser.Inspect, keys.Browser.Edit,
			keys.Browser.New, keys.Browser.Details, keys.Browser.Properties, keys.Browser.EditDescription,
		}},
		{Title: "General", Bindings: full[3]},
	}
}

// Model holds the help view state.
type Model struct {
	sections []Section
	width    int
	height   int
}

// New creates the help overlay.
func New() Model {
	return Model{sections: Sections()}
}

// SetSize updates dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// View renders the help box centered on an empty screen.
func (m Model) View() string {
	return m.Overlay("")
}

// Overlay renders the help box on top of a background view.
func (m Model) Overlay(background string) string {
	helpBox := m.renderContent()

	if background == "" {
		return lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			helpBox,
		)
	}

	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, helpBox, background)
}

func (m Model) renderContent() string {
	columnStyle := lipgloss.NewStyle().MarginRight(4)

	cols := make([]string, 0, len(m.sections))
	for i, s := range m.sections {
		var col strings.Builder
		col.WriteString(sectionStyle.Render(s.Title))
		col.WriteString("\n")
		for _, b := range s.Bindings {
			col.WriteString(renderBinding(b))
		}
		if i < len(m.sections)-1 {
			cols = append(cols, columnStyle.Render(col.String()))
		} else {
			cols = append(cols, col.String())
		}
	}
	columns := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	boxWidth := lipgloss.Width(columns) + 4
	body := contentStyle.Render(columns + "\n" + footerStyle.Render("Press ? or Esc to close"))
	divider := dividerStyle.Render(strings.Repeat("─", boxWidth))

	var content strings.Builder
	content.WriteString(titleStyle.Render("Keybindings"))
	content.WriteString("\n")
	content.WriteString(divider)
	content.WriteString("\n")
	content.WriteString(body)

	return boxStyle.Width(boxWidth).Render(content.String())
}

func renderBinding(b key.Binding) string {
	h := b.Help()
	return keyStyle.Render(h.Key) + descStyle.Render(h.Desc) + "\n"
}
