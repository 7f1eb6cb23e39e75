package propertygrid

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/thingdock/internal/filter"
	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/testutil"
	"github.com/zjrosen/thingdock/internal/thing"
	"github.com/zjrosen/thingdock/internal/ui/surface"
	"github.com/zjrosen/thingdock/internal/views/thingdialog"
	"github.com/zjrosen/thingdock/internal/views/viewkit"
)

type fixture struct {
	model   *testutil.Model
	host    *testutil.Host
	filters *filter.Service
	nav     *navigation.Navigator
}

func setup(t *testing.T) *fixture {
	t.Helper()
	model := testutil.NewBuilder(t).WithStandardModel().Build()
	host := testutil.NewHost(context.Background())
	env := viewkit.Env{Host: host}
	reg, err := navigation.NewRegistry(Provider(env), thingdialog.Provider(env))
	require.NoError(t, err)
	filters := filter.NewService()
	nav := navigation.New(reg, navigation.WithFilterService(filters))
	t.Cleanup(nav.Shutdown)
	return &fixture{model: model, host: host, filters: filters, nav: nav}
}

func (f *fixture) grid(t *testing.T) *ViewModel {
	t.Helper()
	require.Equal(t, 1, f.nav.Dock().Len())
	vm, ok := f.nav.Dock().Selected().(*ViewModel)
	require.True(t, ok)
	return vm
}

func TestOpenProperties_OpensGrid(t *testing.T) {
	f := setup(t)
	sc := f.model.Get(t, "sc")
	require.NoError(t, f.nav.Dock().OpenProperties(t.Context(), sc, f.model.Session))

	vm := f.grid(t)
	require.Equal(t, sc.ID, vm.Target().ID)
	require.Equal(t, Caption, vm.Caption())
	require.Equal(t, testutil.DataSource, vm.DataSource())
	require.Equal(t, 1, f.filters.Len())

	surf, ok := f.nav.Dock().SurfaceFor(vm)
	require.True(t, ok)
	out := surf.(*View).View(80, 30)
	require.Contains(t, out, "SC Spacecraft")
	require.Contains(t, out, "Short Name")
	require.Contains(t, out, "Top level **element**.")
}

func TestOpenProperties_RetargetsExistingGrid(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.nav.Dock().OpenProperties(t.Context(), f.model.Get(t, "sc"), f.model.Session))
	first := f.grid(t)

	r1 := f.model.Get(t, "r1")
	require.NoError(t, f.nav.Dock().OpenProperties(t.Context(), r1, f.model.Session))

	require.Same(t, first, f.grid(t))
	require.Equal(t, r1.ID, first.Target().ID)
	require.Equal(t, "MR Mission Requirements", rowValue(first.Rows(), "Container"))
	require.Eventually(t, func() bool { return f.model.Session.Observers() == 1 }, time.Second, 5*time.Millisecond)
}

func TestGrid_ReloadsTarget(t *testing.T) {
	f := setup(t)
	bat := f.model.Get(t, "bat")
	require.NoError(t, f.nav.Dock().OpenProperties(t.Context(), bat, f.model.Session))
	vm := f.grid(t)

	bat.Name = "Main Battery"
	tx := thing.NewTransaction()
	tx.Update(bat)
	require.NoError(t, f.model.Session.Write(t.Context(), tx))

	require.Eventually(t, func() bool { return rowValue(vm.Rows(), "Name") == "Main Battery" }, time.Second, 5*time.Millisecond)
	require.Equal(t, "r2", rowValue(vm.Rows(), "Revision"))
}

func TestGrid_Filter(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.nav.Dock().OpenProperties(t.Context(), f.model.Get(t, "sc"), f.model.Session))
	vm := f.grid(t)

	f.filters.SetFilter("revision")
	rows := vm.Rows()
	require.Len(t, rows, 1)
	require.Equal(t, "Revision", rows[0].Label)

	f.filters.SetFilter("")
	require.Len(t, vm.Rows(), 9)
}

func TestGrid_CloseDisposes(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.nav.Dock().OpenProperties(t.Context(), f.model.Get(t, "sc"), f.model.Session))
	vm := f.grid(t)

	require.True(t, f.nav.Dock().Close(vm))
	require.True(t, vm.Disposed())
	require.Zero(t, f.filters.Len())
	require.Eventually(t, func() bool { return f.model.Session.Observers() == 0 }, time.Second, 5*time.Millisecond)

	// Retargeting a disposed grid does not subscribe again.
	require.NoError(t, vm.Retarget(navigation.Args{Thing: f.model.Get(t, "r1"), Session: f.model.Session}))
	require.Eventually(t, func() bool { return f.model.Session.Observers() == 0 }, time.Second, 5*time.Millisecond)
	require.Equal(t, "Spacecraft", vm.Target().Name)
}

func TestGrid_EditOpensDialog(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.nav.Dock().OpenProperties(t.Context(), f.model.Get(t, "r2"), f.model.Session))
	vm := f.grid(t)
	f.host.Script(thingdialog.SurfaceIdentity, func(c surface.Component) {
		testutil.Type(c, " (S-band)")
		testutil.Press(c, "ctrl+s")
	})

	surf, _ := f.nav.Dock().SurfaceFor(vm)
	cmd := testutil.Press(surf.(*View), "e")
	require.NotNil(t, cmd)
	require.Nil(t, cmd())

	require.Eventually(t, func() bool { return vm.Target().Name == "Downlink Rate (S-band)" }, time.Second, 5*time.Millisecond)
}

func TestNewViewModel_RequiresThing(t *testing.T) {
	_, err := NewViewModel(navigation.Args{})
	require.Error(t, err)
}

func rowValue(rows []Row, label string) string {
	for _, r := range rows {
		if r.Label == label {
			return r.Value
		}
	}
	return ""
}
