package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_PlainStyle(t *testing.T) {
	r, err := New(40, "notty")
	require.NoError(t, err)
	require.Equal(t, 40, r.Width())

	out, err := r.Render("Top level **element**.")
	require.NoError(t, err)
	require.Contains(t, out, "element")
}

func TestCache_ReusesRendererPerWidth(t *testing.T) {
	c := NewCache("notty")
	require.Contains(t, c.Render("# Title", 30), "Title")
	require.Contains(t, c.Render("# Other", 30), "Other")
	require.Len(t, c.renderers, 1)

	c.Render("text", 50)
	require.Len(t, c.renderers, 2)
}

func TestCache_EmptyInput(t *testing.T) {
	require.Empty(t, NewCache(StyleAuto).Render("   ", 20))
}

func TestNew_UnknownStyleFallsBack(t *testing.T) {
	c := NewCache("no-such-style")
	require.Contains(t, c.Render("plain words", 30), "plain words")
}
