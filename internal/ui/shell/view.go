package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/thingdock/internal/ui/overlay"
	"github.com/zjrosen/thingdock/internal/ui/styles"
	"github.com/zjrosen/thingdock/internal/ui/surface"
)

const (
	maxTabWidth = 28
	tabZone     = "dock-tab-"
)

func tabZoneID(i int) string { return tabZone + strconv.Itoa(i) }

var mutedStyle = lipgloss.NewStyle().Foreground(styles.TextMutedColor)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	top := m.renderTabs()
	var bottom []string
	if line := m.renderFilter(); line != "" {
		bottom = append(bottom, line)
	}
	if m.showStatus {
		bottom = append(bottom, m.renderStatus())
	}
	bodyHeight := max(m.height-1-len(bottom), 3)

	parts := append([]string{top, m.renderPanel(bodyHeight)}, bottom...)
	view := strings.Join(parts, "\n")

	view = m.renderFloating(view)
	view = m.renderModals(view)
	if m.showHelp {
		view = m.help.Overlay(view)
	}
	view = m.logs.Overlay(view)
	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}
	return zone.Scan(view)
}

func (m Model) renderTabs() string {
	dock := m.nav.Dock()
	panels := dock.Panels()
	if len(panels) == 0 {
		return mutedStyle.Render(" no panels")
	}
	selected := dock.SelectedIndex()

	var b strings.Builder
	used := 0
	for i, p := range panels {
		style := styles.TabInactiveStyle
		if i == selected {
			style = styles.TabActiveStyle
		}
		tab := style.Render(runewidth.Truncate(p.Caption(), maxTabWidth, "…"))
		if p.IsDirty() {
			tab += styles.TabDirtyMarker
		}
		w := lipgloss.Width(tab) + 1
		if used+w > m.width {
			b.WriteString(mutedStyle.Render("…"))
			break
		}
		b.WriteString(zone.Mark(tabZoneID(i), tab))
		b.WriteString(" ")
		used += w
	}
	return b.String()
}

func (m Model) renderPanel(height int) string {
	c := m.selectedPanel()
	if c == nil {
		hint := mutedStyle.Render("No panels open. Press ctrl+o to open the default panels.")
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, hint)
	}
	content := c.View(max(m.width-2, 1), max(height-2, 1))
	return styles.RenderWithTitleBorder(content, c.Title(), m.width, height, !m.windowFocus)
}

func (m Model) renderFilter() string {
	if m.filtering {
		return m.filterInput.View()
	}
	if f := m.filter.Filter(); f != "" {
		return mutedStyle.Render(" filter: " + f + "  (ctrl+u clears)")
	}
	return ""
}

func (m Model) renderStatus() string {
	source := "no data source"
	if m.session != nil {
		source = m.session.DataSource()
	}
	left := fmt.Sprintf(" %s │ panels %d │ windows %d │ modals %d",
		source, m.nav.Dock().Len(), len(m.host.Floating()), len(m.host.Modals()))
	right := fmt.Sprintf("opened %d closed %d │ ? help ", m.opened, m.closed)
	// StatusBarStyle pads one column on each side
	gap := max(m.width-2-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return styles.StatusBarStyle.Render(left + strings.Repeat(" ", gap) + right)
}

// renderFloating cascades the floating windows from the top-left, each one
// offset from the one below it.
func (m Model) renderFloating(bg string) string {
	step := m.ui.FloatingOffset
	for i, c := range m.host.Floating() {
		bg = overlay.Place(overlay.Config{
			Width:    m.width,
			Height:   m.height,
			Position: overlay.Absolute,
			X:        4 + i*step*2,
			Y:        2 + i*step,
		}, c.View(m.width, m.height), bg)
	}
	return bg
}

// renderModals centers the modal stack, shifting each nested dialog so the
// ones below stay visible.
func (m Model) renderModals(bg string) string {
	for i, c := range m.host.Modals() {
		bg = placeModal(c, i, m.width, m.height, bg)
	}
	return bg
}

func placeModal(c surface.Component, depth, width, height int, bg string) string {
	fg := c.View(width, height)
	x := (width-lipgloss.Width(fg))/2 + depth*2
	y := (height-lipgloss.Height(fg))/2 + depth
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.Absolute,
		X:        x,
		Y:        y,
	}, fg, bg)
}
