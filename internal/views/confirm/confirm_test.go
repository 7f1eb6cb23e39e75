package confirm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/testutil"
	"github.com/zjrosen/thingdock/internal/ui/surface"
	"github.com/zjrosen/thingdock/internal/views/viewkit"
)

func newNavigator(t *testing.T, host *testutil.Host) *navigation.Navigator {
	t.Helper()
	reg, err := navigation.NewRegistry(Provider(viewkit.Env{Host: host}))
	require.NoError(t, err)
	return navigation.New(reg)
}

func TestConfirm_Yes(t *testing.T) {
	host := testutil.NewHost(context.Background()).Script(SurfaceIdentity, testutil.Keys("y"))
	nav := newNavigator(t, host)

	ok, err := nav.Modal().Confirm(t.Context(), "Discard", "Discard changes?")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, host.Presented(), 1)
}

func TestConfirm_NoAndEscape(t *testing.T) {
	for _, k := range []string{"n", "esc"} {
		t.Run(k, func(t *testing.T) {
			host := testutil.NewHost(context.Background()).Script(SurfaceIdentity, testutil.Keys(k))
			nav := newNavigator(t, host)

			ok, err := nav.Modal().Confirm(t.Context(), "Discard", "Discard changes?")
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestConfirm_ToggleThenSubmit(t *testing.T) {
	host := testutil.NewHost(context.Background()).Script(SurfaceIdentity, testutil.Keys("right", "enter"))
	nav := newNavigator(t, host)

	ok, err := nav.Modal().Confirm(t.Context(), "", "Close?")
	require.NoError(t, err)
	require.False(t, ok, "focus moved to No")
}

func TestConfirm_DismissedWithoutAnswerIsCancelled(t *testing.T) {
	host := testutil.NewHost(context.Background())
	nav := newNavigator(t, host)

	ok, err := nav.Modal().Confirm(t.Context(), "", "Close?")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestConfirm_TeardownDetachesAndDisposes(t *testing.T) {
	var view *View
	var vm *ViewModel
	host := testutil.NewHost(context.Background()).Script(SurfaceIdentity, func(c surface.Component) {
		view = c.(*View)
		vm = view.vm()
		testutil.Press(c, "y")
	})
	nav := newNavigator(t, host)

	_, err := nav.Modal().Confirm(t.Context(), "", "Close?")
	require.NoError(t, err)
	require.NotNil(t, vm)
	require.True(t, vm.Disposed())
	require.Nil(t, view.DataContext())
	require.Contains(t, host.Dismissed(), surface.Component(view))
	require.Zero(t, nav.Modal().Depth())
}

func TestView_Render(t *testing.T) {
	v := NewView(nil)
	v.SetDataContext(NewViewModel("Close panel", "Panel has unsaved changes. Close anyway?"))

	out := v.View(80, 24)
	require.Contains(t, out, "Close panel")
	require.Contains(t, out, "unsaved changes")
	require.Contains(t, out, "Yes")
	require.Contains(t, out, "No")
}

func TestView_IgnoresInputWhenDetached(t *testing.T) {
	v := NewView(nil)
	require.Nil(t, testutil.Press(v, "y"))
	require.False(t, v.Done())
	require.Equal(t, "Confirm", v.Title())
}
