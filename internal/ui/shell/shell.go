// Package shell is the full-screen Bubble Tea program that hosts the dock,
// the floating windows and the modal stack.
package shell

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/thingdock/internal/config"
	"github.com/zjrosen/thingdock/internal/filter"
	"github.com/zjrosen/thingdock/internal/flags"
	"github.com/zjrosen/thingdock/internal/keys"
	"github.com/zjrosen/thingdock/internal/log"
	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/pubsub"
	"github.com/zjrosen/thingdock/internal/thing"
	"github.com/zjrosen/thingdock/internal/ui/help"
	"github.com/zjrosen/thingdock/internal/ui/logview"
	"github.com/zjrosen/thingdock/internal/ui/surface"
	"github.com/zjrosen/thingdock/internal/ui/toaster"
)

// Options configure the shell.
type Options struct {
	Navigator *navigation.Navigator
	Host      *Host
	Session   *thing.Session
	Filter    *filter.Service
	Flags     *flags.Registry
	UI        config.UIConfig
	Dock      config.DockConfig

	// Startup runs off the event loop once the program starts.
	Startup func(ctx context.Context) error
	// QuitAfterStartup ends the program when Startup returns.
	QuitAfterStartup bool
}

type startupDoneMsg struct{ err error }

type panelsOpenedMsg struct {
	opened int
	err    error
}

// selectionSource is a surface with a current thing, such as a browser.
type selectionSource interface {
	Selected() *thing.Thing
}

// Model is the shell state.
type Model struct {
	nav     *navigation.Navigator
	host    *Host
	session *thing.Session
	filter  *filter.Service
	flags   *flags.Registry
	ui      config.UIConfig
	dock    config.DockConfig

	startup          func(ctx context.Context) error
	quitAfterStartup bool
	err              error

	width  int
	height int

	events  *pubsub.ContinuousListener[navigation.LifecycleEvent]
	changes *pubsub.ContinuousListener[thing.ChangeEvent]
	logTail *log.LogListener

	toaster     toaster.Model
	logs        logview.Model
	help        help.Model
	showHelp    bool
	showStatus  bool
	filterInput textinput.Model
	filtering   bool
	filterPrev  string

	// windowFocus routes input to the topmost floating window instead of
	// the selected panel.
	windowFocus bool
	floatCount  int
	topFloat    surface.Component
	cycled      int

	followed uuid.UUID
	opened   int
	closed   int
}

// New builds the shell. Lifecycle events, store changes and log entries
// are streamed into the model for as long as the host lives.
func New(opts Options) Model {
	if opts.Host == nil {
		opts.Host = NewHost(context.Background())
	}
	if opts.Filter == nil {
		opts.Filter = filter.NewService()
	}
	ctx := opts.Host.Context()

	broker := pubsub.NewBroker[navigation.LifecycleEvent]()
	opts.Navigator.Events().Forward(ctx, broker, navigation.LifecycleEvent.EventType)

	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "filter panels"

	m := Model{
		nav:              opts.Navigator,
		host:             opts.Host,
		session:          opts.Session,
		filter:           opts.Filter,
		flags:            opts.Flags,
		ui:               opts.UI,
		dock:             opts.Dock,
		startup:          opts.Startup,
		quitAfterStartup: opts.QuitAfterStartup,
		events:           pubsub.NewContinuousListener[navigation.LifecycleEvent](ctx, broker),
		logTail:          log.NewListener(ctx),
		toaster:          toaster.New(),
		logs:             logview.New(),
		help:             help.New(),
		showStatus:       opts.UI.ShowStatusBar,
		filterInput:      input,
	}
	if opts.Session != nil {
		m.changes = pubsub.NewContinuousListener[thing.ChangeEvent](ctx, opts.Session.Broker())
	}
	return m
}

// Init starts the listeners, opens the default panels and runs Startup.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.host.Wait(), m.events.Listen()}
	if m.changes != nil {
		cmds = append(cmds, m.changes.Listen())
	}
	if m.logTail != nil {
		cmds = append(cmds, m.logTail.Listen())
	}
	if m.startup != nil {
		startup, ctx := m.startup, m.host.Context()
		cmds = append(cmds, func() tea.Msg {
			return startupDoneMsg{err: startup(ctx)}
		})
	} else {
		cmds = append(cmds, m.openDefaultPanels())
	}
	return tea.Batch(cmds...)
}

// Err returns the error Startup ended with.
func (m Model) Err() error { return m.err }

// Host returns the shell's surface host.
func (m Model) Host() *Host { return m.host }

// Close stops the listeners and releases blocked modal callers.
func (m Model) Close() {
	m.host.Shutdown()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.logs.SetSize(msg.Width, msg.Height)
		m.help = m.help.SetSize(msg.Width, msg.Height)
		m.filterInput.Width = max(msg.Width-4, 10)
		return m, nil

	case wakeMsg:
		m.syncFocus()
		return m, m.host.Wait()

	case pubsub.Event[navigation.LifecycleEvent]:
		if msg.Payload.Status == navigation.StatusClosed {
			m.closed++
		} else {
			m.opened++
		}
		return m, m.events.Listen()

	case pubsub.Event[thing.ChangeEvent]:
		return m, m.changes.Listen()

	case log.LogEvent:
		m.logs.Append(msg.Payload)
		return m, m.logTail.Listen()

	case startupDoneMsg:
		if m.quitAfterStartup {
			m.err = msg.err
			return m, tea.Quit
		}
		if msg.err != nil {
			return m.showError(msg.err)
		}
		return m, nil

	case panelsOpenedMsg:
		if msg.err != nil {
			return m.showError(msg.err)
		}
		return m, nil

	case surface.ErrorMsg:
		return m.showError(msg.Err)

	case surface.InfoMsg:
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show(msg.Text, toaster.StyleInfo)
		return m, cmd

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case logview.CloseMsg:
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) showError(err error) (tea.Model, tea.Cmd) {
	if errors.Is(err, context.Canceled) {
		return m, nil
	}
	log.ErrorErr(log.CatUI, "navigation failed", err)
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.ShowError(err)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Shell.Quit) {
		return m, tea.Quit
	}
	if m.logs.Visible() {
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd
	}
	if m.showHelp {
		if msg.Type == tea.KeyEsc || key.Matches(msg, keys.Shell.Help) {
			m.showHelp = false
		}
		return m, nil
	}
	if m.filtering {
		return m.updateFilter(msg)
	}

	if top, ok := m.host.TopModal(); ok {
		cmd := top.Update(msg)
		m.host.Settle()
		return m, cmd
	}

	target := m.focused()
	captures := false
	if ic, ok := target.(surface.InputCapturer); ok {
		captures = ic.CapturesInput()
	}
	if !captures || strings.HasPrefix(msg.String(), "ctrl+") {
		if handled, cmd := m.handleShellKey(msg); handled {
			return m, cmd
		}
	}
	if target == nil {
		return m, nil
	}
	cmd := target.Update(msg)
	m.follow(target)
	return m, cmd
}

func (m *Model) handleShellKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	dock := m.nav.Dock()
	switch {
	case key.Matches(msg, keys.Shell.NextPanel):
		dock.SelectNext(1)
		m.windowFocus = false
	case key.Matches(msg, keys.Shell.PrevPanel):
		dock.SelectNext(-1)
		m.windowFocus = false
	case key.Matches(msg, keys.Shell.MovePanelLeft):
		if p, i := dock.Selected(), dock.SelectedIndex(); p != nil && i > 0 {
			dock.Move(p, i-1)
		}
	case key.Matches(msg, keys.Shell.MovePanelRight):
		if p, i := dock.Selected(), dock.SelectedIndex(); p != nil && i < dock.Len()-1 {
			dock.Move(p, i+1)
		}
	case key.Matches(msg, keys.Shell.ClosePanel):
		p := dock.Selected()
		if p == nil {
			return true, nil
		}
		ctx := m.host.Context()
		return true, surface.Go(func() error {
			_, err := dock.RequestClose(ctx, p)
			return err
		})
	case key.Matches(msg, keys.Shell.NextWindow):
		m.cycleWindows()
	case key.Matches(msg, keys.Shell.CloseWindow):
		if c := m.focusedWindow(); c != nil {
			m.nav.Floating().Close(c)
		}
	case key.Matches(msg, keys.Shell.Filter):
		m.filtering = true
		m.filterPrev = m.filter.Filter()
		m.filterInput.SetValue(m.filterPrev)
		m.filterInput.CursorEnd()
		return true, m.filterInput.Focus()
	case key.Matches(msg, keys.Shell.ClearFilter):
		m.filter.SetFilter("")
	case key.Matches(msg, keys.Shell.DefaultPanels):
		return true, m.openDefaultPanels()
	case key.Matches(msg, keys.Shell.ToggleStatus):
		m.showStatus = !m.showStatus
	case key.Matches(msg, keys.Shell.ToggleLog):
		m.logs.Toggle()
	case key.Matches(msg, keys.Shell.Help):
		m.showHelp = true
	default:
		return false, nil
	}
	return true, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.filterInput.Blur()
		m.filter.SetFilter(m.filterPrev)
		return m, nil
	case tea.KeyEnter:
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.filter.SetFilter(m.filterInput.Value())
	return m, cmd
}

// focused returns the component that receives plain input.
func (m Model) focused() surface.Component {
	if c := m.focusedWindow(); c != nil {
		return c
	}
	return m.selectedPanel()
}

func (m Model) focusedWindow() surface.Component {
	if !m.windowFocus {
		return nil
	}
	floats := m.host.Floating()
	if len(floats) == 0 {
		return nil
	}
	return floats[len(floats)-1]
}

func (m Model) selectedPanel() surface.Component {
	dock := m.nav.Dock()
	p := dock.Selected()
	if p == nil {
		return nil
	}
	s, ok := dock.SurfaceFor(p)
	if !ok {
		return nil
	}
	c, _ := s.(surface.Component)
	return c
}

// syncFocus moves input to a floating window that was just shown or raised,
// and back to the dock once the last window closes.
func (m *Model) syncFocus() {
	floats := m.host.Floating()
	var top surface.Component
	if len(floats) > 0 {
		top = floats[len(floats)-1]
	}
	switch {
	case top == nil:
		m.windowFocus = false
		m.cycled = 0
	case len(floats) > m.floatCount:
		m.windowFocus = true
		m.cycled = 0
	case top != m.topFloat:
		m.windowFocus = true
	}
	m.floatCount = len(floats)
	m.topFloat = top
}

// cycleWindows moves focus from the dock through every floating window and
// back to the dock.
func (m *Model) cycleWindows() {
	floats := m.host.Floating()
	switch {
	case len(floats) == 0:
		m.windowFocus = false
	case !m.windowFocus:
		m.windowFocus = true
		m.cycled = 0
	case m.cycled < len(floats)-1:
		m.host.Raise(floats[0])
		m.cycled++
	default:
		m.windowFocus = false
		m.cycled = 0
	}
}

// follow retargets docked property grids to the selection of target when
// the property-grid-follow flag is on.
func (m *Model) follow(target surface.Component) {
	if !m.flags.Enabled(flags.FlagPropertyGridFollow) {
		return
	}
	src, ok := target.(selectionSource)
	if !ok {
		return
	}
	t := src.Selected()
	if t == nil || t.ID == m.followed {
		return
	}
	m.followed = t.ID
	for _, p := range m.nav.Dock().Panels() {
		grid, ok := p.(navigation.Retargetable)
		if !ok {
			continue
		}
		if err := grid.Retarget(navigation.Args{Thing: t, Session: m.session}); err != nil {
			log.ErrorErr(log.CatUI, "property grid follow failed", err, "thing", t.ID)
		}
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return
	}
	for i := range m.nav.Dock().Len() {
		if z := zone.Get(tabZoneID(i)); z != nil && z.InBounds(msg) {
			m.nav.Dock().Select(i)
			m.windowFocus = false
			return
		}
	}
}

// openDefaultPanels docks each configured default panel that is not docked
// yet. Names that fail to open are reported together.
func (m Model) openDefaultPanels() tea.Cmd {
	names := slices.Clone(m.dock.DefaultPanels)
	if len(names) == 0 {
		return nil
	}
	dock, session, ctx := m.nav.Dock(), m.session, m.host.Context()
	return func() tea.Msg {
		docked := make(map[string]bool)
		for _, p := range dock.Panels() {
			docked[p.Caption()] = true
		}
		var opened int
		var errs []error
		for _, name := range names {
			if docked[name] {
				continue
			}
			if _, err := dock.OpenNamed(ctx, name, navigation.Args{Session: session}); err != nil {
				errs = append(errs, err)
				continue
			}
			docked[name] = true
			opened++
		}
		log.Debug(log.CatUI, "default panels opened", "opened", opened, "failed", len(errs))
		return panelsOpenedMsg{opened: opened, err: errors.Join(errs...)}
	}
}

// PanelNames returns the captions of the docked panels in order.
func (m Model) PanelNames() []string {
	var names []string
	for _, p := range m.nav.Dock().Panels() {
		names = append(names, p.Caption())
	}
	return names
}
