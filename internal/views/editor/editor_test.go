package editor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/testutil"
	"github.com/zjrosen/thingdock/internal/thing"
	"github.com/zjrosen/thingdock/internal/ui/surface"
	"github.com/zjrosen/thingdock/internal/views/confirm"
	"github.com/zjrosen/thingdock/internal/views/viewkit"
)

type fixture struct {
	model *testutil.Model
	host  *testutil.Host
	nav   *navigation.Navigator
}

func setup(t *testing.T) *fixture {
	t.Helper()
	model := testutil.NewBuilder(t).WithStandardModel().Build()
	host := testutil.NewHost(context.Background())
	env := viewkit.Env{Host: host}
	reg, err := navigation.NewRegistry(Provider(env), confirm.Provider(env))
	require.NoError(t, err)
	nav := navigation.New(reg)
	t.Cleanup(nav.Shutdown)
	return &fixture{model: model, host: host, nav: nav}
}

func (f *fixture) open(t *testing.T, key string) (*ViewModel, *View) {
	t.Helper()
	logic, err := f.nav.Dock().OpenNamed(t.Context(), Name, navigation.Args{
		Thing:   f.model.Get(t, key),
		Session: f.model.Session,
	})
	require.NoError(t, err)
	vm := logic.(*ViewModel)
	s, ok := f.nav.Dock().SurfaceFor(vm)
	require.True(t, ok)
	return vm, s.(*View)
}

func TestEditor_TypingMakesDirty(t *testing.T) {
	f := setup(t)
	vm, v := f.open(t, "r1")
	require.Equal(t, "Description: MR-001", vm.Caption())
	require.Equal(t, f.model.Things["r1"].ID, vm.Identifier())
	require.False(t, vm.IsDirty())

	testutil.Type(v, " Twice.")
	require.True(t, vm.IsDirty())
	require.Equal(t, "Survive a 70 minute eclipse. Twice.", vm.Draft())

	ins, del := vm.Changes()
	require.Equal(t, 7, ins)
	require.Zero(t, del)
	require.Contains(t, vm.DirtyMessage(), "(+7 -0 characters)")
	require.Contains(t, v.View(60, 10), "modified +7 -0")
	require.True(t, v.CapturesInput())
}

func TestEditor_SaveWritesDescription(t *testing.T) {
	f := setup(t)
	vm, v := f.open(t, "r2")
	testutil.Type(v, "At least 2 Mbit/s.")

	cmd := testutil.Press(v, "ctrl+s")
	require.NotNil(t, cmd)
	require.IsType(t, surface.InfoMsg{}, cmd())
	require.False(t, vm.IsDirty())

	stored, err := f.model.Store.Get(t.Context(), f.model.Things["r2"].ID)
	require.NoError(t, err)
	require.Equal(t, "At least 2 Mbit/s.", stored.Description)
	require.Equal(t, 2, vm.Thing().Revision)
}

func TestEditor_Revert(t *testing.T) {
	f := setup(t)
	vm, v := f.open(t, "r1")
	testutil.Type(v, "!!!")
	testutil.Press(v, "ctrl+r")
	require.False(t, vm.IsDirty())
	require.Equal(t, "Survive a 70 minute eclipse.", vm.Draft())
}

func TestEditor_DirtyCloseAsksFirst(t *testing.T) {
	f := setup(t)
	vm, v := f.open(t, "r1")
	testutil.Type(v, " Twice.")

	var asked string
	f.host.Script(confirm.SurfaceIdentity, func(c surface.Component) {
		asked = c.(*confirm.View).DataContext().(*confirm.ViewModel).Message()
		testutil.Press(c, "n")
	})
	closed, err := f.nav.Dock().RequestClose(t.Context(), vm)
	require.NoError(t, err)
	require.False(t, closed)
	require.Contains(t, asked, "MR-001 Eclipse Survival")
	require.Equal(t, 1, f.nav.Dock().Len())
	require.False(t, vm.Disposed())

	f.host.Script(confirm.SurfaceIdentity, testutil.Keys("y"))
	closed, err = f.nav.Dock().RequestClose(t.Context(), vm)
	require.NoError(t, err)
	require.True(t, closed)
	require.True(t, vm.Disposed())
	require.Zero(t, f.nav.Dock().Len())
}

func TestEditor_CleanCloseDoesNotAsk(t *testing.T) {
	f := setup(t)
	vm, _ := f.open(t, "r1")
	closed, err := f.nav.Dock().RequestClose(t.Context(), vm)
	require.NoError(t, err)
	require.True(t, closed)
	require.Empty(t, f.host.Presented())
}

func TestEditor_OneEditorPerThing(t *testing.T) {
	f := setup(t)
	first, _ := f.open(t, "r1")

	second, err := NewViewModel(f.model.Get(t, "r1"), f.model.Session)
	require.NoError(t, err)
	require.NoError(t, f.nav.Dock().OpenExistingOrOpen(t.Context(), second))

	require.Equal(t, 1, f.nav.Dock().Len())
	require.Same(t, first, f.nav.Dock().Selected())
	require.True(t, second.Disposed())
}

func TestEditor_ExternalChange(t *testing.T) {
	f := setup(t)
	vm, v := f.open(t, "r1")

	write := func(desc string) {
		r1 := vm.Thing()
		r1.Description = desc
		tx := thing.NewTransaction()
		tx.Update(r1)
		require.NoError(t, f.model.Session.Write(t.Context(), tx))
	}

	write("Survive two eclipses.")
	require.Eventually(t, func() bool { return vm.Draft() == "Survive two eclipses." }, time.Second, 5*time.Millisecond)
	require.False(t, vm.Stale())

	testutil.Type(v, " Or three.")
	write("Survive no eclipse.")
	require.Eventually(t, vm.Stale, time.Second, 5*time.Millisecond)
	require.Equal(t, "Survive two eclipses. Or three.", vm.Draft())
}

func TestEditor_DisposeUnsubscribes(t *testing.T) {
	f := setup(t)
	vm, _ := f.open(t, "r1")
	require.Equal(t, 1, f.model.Session.Observers())
	require.True(t, f.nav.Dock().Close(vm))
	require.True(t, vm.Disposed())
	require.Eventually(t, func() bool { return f.model.Session.Observers() == 0 }, time.Second, 5*time.Millisecond)
}
