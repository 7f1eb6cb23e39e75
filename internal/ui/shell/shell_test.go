package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/thingdock/internal/catalog"
	"github.com/zjrosen/thingdock/internal/config"
	"github.com/zjrosen/thingdock/internal/filter"
	"github.com/zjrosen/thingdock/internal/flags"
	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/testutil"
	"github.com/zjrosen/thingdock/internal/ui/surface"
	"github.com/zjrosen/thingdock/internal/views/browser"
	"github.com/zjrosen/thingdock/internal/views/editor"
	"github.com/zjrosen/thingdock/internal/views/propertygrid"
	"github.com/zjrosen/thingdock/internal/views/viewkit"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

type fixture struct {
	model  *testutil.Model
	host   *Host
	nav    *navigation.Navigator
	filter *filter.Service
	shell  Model
}

func newFixture(t *testing.T, enabled ...string) *fixture {
	t.Helper()
	model := testutil.NewBuilder(t).WithStandardModel().Build()
	host := NewHost(context.Background())
	t.Cleanup(host.Shutdown)

	configured := map[string]bool{}
	for _, name := range enabled {
		configured[name] = true
	}
	fl := flags.New(configured)

	reg, err := catalog.Build(viewkit.Env{Host: host, Flags: fl}, catalog.Manifest{})
	require.NoError(t, err)
	fs := filter.NewService()
	nav := navigation.New(reg, navigation.WithFilterService(fs))
	t.Cleanup(nav.Shutdown)

	cfg := config.Defaults()
	f := &fixture{model: model, host: host, nav: nav, filter: fs}
	f.shell = New(Options{
		Navigator: nav,
		Host:      host,
		Session:   model.Session,
		Filter:    fs,
		Flags:     fl,
		UI:        cfg.UI,
		Dock:      cfg.Dock,
	})
	f.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return f
}

// send runs one Update and returns its command.
func (f *fixture) send(msg tea.Msg) tea.Cmd {
	next, cmd := f.shell.Update(msg)
	f.shell = next.(Model)
	return cmd
}

func (f *fixture) press(key string) tea.Cmd {
	return f.send(testutil.KeyMsg(key))
}

func (f *fixture) typeText(text string) {
	for _, r := range text {
		f.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// run executes cmd and feeds its message back, the way the program would.
func (f *fixture) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		f.send(msg)
	}
}

func (f *fixture) openDefaults(t *testing.T) {
	t.Helper()
	f.run(f.shell.openDefaultPanels())
	require.Equal(t, 2, f.nav.Dock().Len())
	require.True(t, f.nav.Dock().Select(0))
}

func TestDefaultPanels_OpenOnce(t *testing.T) {
	f := newFixture(t)
	f.openDefaults(t)
	require.Equal(t, []string{browser.Elements.Name, browser.Requirements.Name}, f.shell.PanelNames())

	f.run(f.press("ctrl+o"))
	require.Equal(t, 2, f.nav.Dock().Len())
}

func TestDefaultPanels_ReportsUnknownName(t *testing.T) {
	f := newFixture(t)
	f.shell.dock.DefaultPanels = []string{"Nope", browser.Elements.Name}
	f.run(f.shell.openDefaultPanels())

	require.Equal(t, 1, f.nav.Dock().Len())
	require.True(t, f.shell.toaster.Visible())
	require.Contains(t, f.shell.View(), "Nope")
}

func TestLifecycleEvents_CountedInStatusBar(t *testing.T) {
	f := newFixture(t)
	f.openDefaults(t)
	f.run(f.shell.events.Listen())
	f.run(f.shell.events.Listen())
	require.Equal(t, 2, f.shell.opened)

	f.run(f.press("ctrl+w"))
	require.Equal(t, 1, f.nav.Dock().Len())
	f.run(f.shell.events.Listen())
	require.Equal(t, 1, f.shell.closed)
	require.Contains(t, f.shell.View(), "opened 2 closed 1")
}

func TestPanelNavigation(t *testing.T) {
	f := newFixture(t)
	f.openDefaults(t)
	dock := f.nav.Dock()

	f.press("ctrl+n")
	require.Equal(t, 1, dock.SelectedIndex())
	f.press("ctrl+n")
	require.Equal(t, 0, dock.SelectedIndex())
	f.press("ctrl+p")
	require.Equal(t, 1, dock.SelectedIndex())

	f.press("ctrl+h")
	require.Equal(t, []string{browser.Requirements.Name, browser.Elements.Name}, f.shell.PanelNames())
	require.Equal(t, 0, dock.SelectedIndex())
	f.press("ctrl+h")
	require.Equal(t, 0, dock.SelectedIndex())
	f.press("ctrl+l")
	require.Equal(t, []string{browser.Elements.Name, browser.Requirements.Name}, f.shell.PanelNames())
}

func TestModal_RoutesInputAndUnwinds(t *testing.T) {
	f := newFixture(t)
	f.openDefaults(t)

	result := make(chan bool, 1)
	go func() {
		ok, err := f.nav.Modal().Confirm(context.Background(), "Discard?", "Throw away the draft?")
		if err == nil {
			result <- ok
		}
	}()
	require.Eventually(t, func() bool {
		_, ok := f.host.TopModal()
		return ok
	}, time.Second, time.Millisecond)

	require.Contains(t, f.shell.View(), "Throw away the draft?")
	f.press("ctrl+n")
	require.Equal(t, 0, f.nav.Dock().SelectedIndex(), "shell keys are blocked under a modal")

	f.press("y")
	require.True(t, <-result)
	require.Empty(t, f.host.Modals())
	require.Eventually(t, func() bool { return f.nav.Modal().Depth() == 0 }, time.Second, time.Millisecond)
}

func TestFloating_FocusCycleAndClose(t *testing.T) {
	f := newFixture(t)
	f.openDefaults(t)

	f.run(f.press("d"))
	f.send(wakeMsg{})
	require.Len(t, f.host.Floating(), 1)
	require.True(t, f.shell.windowFocus)
	require.Contains(t, f.shell.View(), "SC Spacecraft")

	f.press("ctrl+t")
	require.False(t, f.shell.windowFocus)
	f.press("ctrl+t")
	require.True(t, f.shell.windowFocus)

	f.press("ctrl+q")
	require.Empty(t, f.host.Floating())
	require.Zero(t, f.nav.Floating().Len())
	f.send(wakeMsg{})
	require.False(t, f.shell.windowFocus)
}

func TestFilter_LiveAndRevert(t *testing.T) {
	f := newFixture(t)
	f.openDefaults(t)

	f.press("/")
	require.True(t, f.shell.filtering)
	f.typeText("battery")
	require.Equal(t, "battery", f.filter.Filter())
	require.Contains(t, f.shell.View(), "BAT")
	require.NotContains(t, f.shell.View(), "PWR")

	f.press("esc")
	require.False(t, f.shell.filtering)
	require.Empty(t, f.filter.Filter())

	f.press("/")
	f.typeText("eclipse")
	f.press("enter")
	require.Equal(t, "eclipse", f.filter.Filter())
	require.Contains(t, f.shell.View(), "filter: eclipse")

	f.press("ctrl+u")
	require.Empty(t, f.filter.Filter())
}

func TestInputCapture_EditorReceivesPlainKeys(t *testing.T) {
	f := newFixture(t)
	f.openDefaults(t)

	f.run(f.press("D"))
	require.Equal(t, 3, f.nav.Dock().Len())
	vm, ok := f.nav.Dock().Selected().(*editor.ViewModel)
	require.True(t, ok)

	f.press("/")
	require.False(t, f.shell.filtering)
	require.Contains(t, vm.Draft(), "/")
	require.True(t, vm.IsDirty())

	f.press("ctrl+p")
	require.Equal(t, 1, f.nav.Dock().SelectedIndex())
}

func TestFollow_RetargetsPropertyGrid(t *testing.T) {
	f := newFixture(t, flags.FlagPropertyGridFollow)
	f.openDefaults(t)

	f.run(f.press("p"))
	grid, ok := f.nav.Dock().Selected().(*propertygrid.ViewModel)
	require.True(t, ok)
	require.Equal(t, "SC", grid.Target().ShortName)

	f.nav.Dock().Select(0)
	f.press("j")
	require.Equal(t, "PWR", grid.Target().ShortName)
	require.Equal(t, 0, f.nav.Dock().SelectedIndex(), "following does not steal focus")
}

func TestFollow_OffByDefault(t *testing.T) {
	f := newFixture(t)
	f.openDefaults(t)

	f.run(f.press("p"))
	grid := f.nav.Dock().Selected().(*propertygrid.ViewModel)
	f.nav.Dock().Select(0)
	f.press("j")
	require.Equal(t, "SC", grid.Target().ShortName)
}

func TestOverlays(t *testing.T) {
	f := newFixture(t)
	f.openDefaults(t)

	f.press("?")
	require.Contains(t, f.shell.View(), "Keybindings")
	f.press("j")
	require.True(t, f.shell.showHelp)
	f.press("esc")
	require.NotContains(t, f.shell.View(), "Keybindings")

	f.press("ctrl+x")
	require.True(t, f.shell.logs.Visible())
	f.press("esc")
	require.False(t, f.shell.logs.Visible())

	require.Contains(t, f.shell.View(), "memory:test")
	f.press("ctrl+b")
	require.NotContains(t, f.shell.View(), "memory:test")
}

func TestErrorsAndInfoToasts(t *testing.T) {
	f := newFixture(t)
	f.send(surfaceError(errors.New("boom")))
	require.Contains(t, f.shell.View(), "boom")

	f.send(surfaceError(context.Canceled))
	require.Contains(t, f.shell.View(), "boom", "cancellation is not reported")
}

func TestStartup_QuitAfter(t *testing.T) {
	f := newFixture(t)
	f.shell.quitAfterStartup = true
	want := errors.New("no such thing")

	cmd := f.send(startupDoneMsg{err: want})
	require.Equal(t, tea.QuitMsg{}, cmd())
	require.ErrorIs(t, f.shell.Err(), want)
}

func TestEmptyDockHint(t *testing.T) {
	f := newFixture(t)
	require.Contains(t, f.shell.View(), "No panels open")
	require.Nil(t, f.press("ctrl+w"))
}

func TestProgram_OpensDefaultPanelsAndQuits(t *testing.T) {
	f := newFixture(t)
	tm := teatest.NewTestModel(t, f.shell, teatest.WithInitialTermSize(120, 40))

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		// The last docked panel is selected, so its rows are on screen.
		return bytes.Contains(out, []byte(browser.Requirements.Name)) &&
			bytes.Contains(out, []byte("MR-001"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
	final := tm.FinalModel(t).(Model)
	require.Len(t, final.PanelNames(), 2)
	require.True(t, strings.HasPrefix(final.PanelNames()[0], "Element"))
}

func surfaceError(err error) tea.Msg {
	return surface.ErrorMsg{Err: err}
}
