// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// ShellKeys are handled by the shell before the focused component sees them.
type ShellKeys struct {
	NextPanel      key.Binding
	PrevPanel      key.Binding
	MovePanelLeft  key.Binding
	MovePanelRight key.Binding
	ClosePanel     key.Binding
	NextWindow     key.Binding
	CloseWindow    key.Binding
	Filter         key.Binding
	ClearFilter    key.Binding
	DefaultPanels  key.Binding
	ToggleStatus   key.Binding
	ToggleLog      key.Binding
	Help           key.Binding
	Quit           key.Binding
}

// BrowserKeys act on the selected thing in a list panel.
type BrowserKeys struct {
	Up              key.Binding
	Down            key.Binding
	Inspect         key.Binding
	Edit            key.Binding
	New             key.Binding
	Details         key.Binding
	Properties      key.Binding
	EditDescription key.Binding
}

// DialogKeys drive the thing dialog.
type DialogKeys struct {
	NextField key.Binding
	PrevField key.Binding
	Save      key.Binding
	Cancel    key.Binding
	Container key.Binding
}

// DetailsKeys drive the floating details window.
type DetailsKeys struct {
	Container  key.Binding
	Properties key.Binding
	Close      key.Binding
}

// ConfirmKeys answer a yes/no question.
type ConfirmKeys struct {
	Yes    key.Binding
	No     key.Binding
	Toggle key.Binding
	Submit key.Binding
}

// EditorKeys drive the description editor panel.
type EditorKeys struct {
	Save   key.Binding
	Revert key.Binding
}

// Shell is the global key map.
var Shell = ShellKeys{
	NextPanel: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "next panel"),
	),
	PrevPanel: key.NewBinding(
		key.WithKeys("ctrl+p"),
		key.WithHelp("ctrl+p", "previous panel"),
	),
	MovePanelLeft: key.NewBinding(
		key.WithKeys("ctrl+h"),
		key.WithHelp("ctrl+h", "move panel left"),
	),
	MovePanelRight: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "move panel right"),
	),
	ClosePanel: key.NewBinding(
		key.WithKeys("ctrl+w"),
		key.WithHelp("ctrl+w", "close panel"),
	),
	NextWindow: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "cycle windows"),
	),
	CloseWindow: key.NewBinding(
		key.WithKeys("ctrl+q"),
		key.WithHelp("ctrl+q", "close window"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter panels"),
	),
	ClearFilter: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("ctrl+u", "clear filter"),
	),
	DefaultPanels: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "open default panels"),
	),
	ToggleStatus: key.NewBinding(
		key.WithKeys("ctrl+b"),
		key.WithHelp("ctrl+b", "toggle status bar"),
	),
	ToggleLog: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "toggle log"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// Browser is the key map of list panels.
var Browser = BrowserKeys{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "move down"),
	),
	Inspect: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "inspect"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new contained thing"),
	),
	Details: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "details window"),
	),
	Properties: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "show properties"),
	),
	EditDescription: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "edit description"),
	),
}

// Dialog is the key map of the thing dialog.
var Dialog = DialogKeys{
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous field"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "ok"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Container: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "inspect container"),
	),
}

// Details is the key map of the floating details window.
var Details = DetailsKeys{
	Container: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "container details"),
	),
	Properties: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "show properties"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc", "close"),
	),
}

// Confirm is the key map of the confirmation dialog.
var Confirm = ConfirmKeys{
	Yes: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "yes"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "no"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("left", "right", "h", "l", "tab"),
		key.WithHelp("←/→", "switch button"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "choose"),
	),
}

// Editor is the key map of the description editor.
var Editor = EditorKeys{
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
	Revert: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "revert"),
	),
}

// ShortHelp returns keybindings for the short help view.
func (k ShellKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k ShellKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Dock
		{k.NextPanel, k.PrevPanel, k.MovePanelLeft, k.MovePanelRight, k.ClosePanel},
		// Windows
		{k.NextWindow, k.CloseWindow},
		// Panels
		{k.Filter, k.ClearFilter, k.DefaultPanels},
		// General
		{k.ToggleStatus, k.ToggleLog, k.Help, k.Quit},
	}
}

// ShortHelp returns the browser bindings shown in the status bar.
func (k BrowserKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Inspect, k.Edit, k.New, k.Details, k.Properties}
}
