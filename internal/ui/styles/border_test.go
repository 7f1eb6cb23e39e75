package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWithTitleBorder_Basic(t *testing.T) {
	result := RenderWithTitleBorder("content", "Title", 20, 5, false)

	assert.Contains(t, result, "╭")
	assert.Contains(t, result, "╮")
	assert.Contains(t, result, "╰")
	assert.Contains(t, result, "╯")

	lines := strings.Split(result, "\n")
	require.Len(t, lines, 5, "box is exactly height lines")
	assert.Contains(t, lines[0], "Title")
	assert.Contains(t, lines[1], "content")
}

func TestRenderWithTitleBorder_ExactWidth(t *testing.T) {
	result := RenderWithTitleBorder("short\na much longer line than fits", "Element Browser", 24, 6, true)
	for i, line := range strings.Split(result, "\n") {
		require.Equal(t, 24, lipgloss.Width(line), "line %d", i)
	}
}

func TestRenderWithTitleBorder_LongTitle(t *testing.T) {
	result := RenderWithTitleBorder("x", "A very long panel caption indeed", 16, 3, false)
	top := strings.Split(result, "\n")[0]
	assert.Contains(t, top, "...")
	assert.Equal(t, 16, lipgloss.Width(top))
}

func TestRenderWithTitleBorder_EmptyTitleAndNarrow(t *testing.T) {
	for _, tc := range []struct {
		title string
		width int
	}{
		{"", 10},
		{"Title", 4},
		{"Title", 1},
	} {
		top := strings.Split(RenderWithTitleBorder("", tc.title, tc.width, 3, false), "\n")[0]
		assert.NotContains(t, top, "Title")
		assert.True(t, strings.HasPrefix(top, "╭"))
	}
}

func TestBuildTopBorder(t *testing.T) {
	plain := lipgloss.NewStyle()
	require.Equal(t, "╭─ Hi ────╮", buildTopBorder("Hi", 9, plain, plain))
	require.Equal(t, "╭─────────╮", buildTopBorder("", 9, plain, plain))
}
