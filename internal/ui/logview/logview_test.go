package logview

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/thingdock/internal/log"
)

func key(s string) tea.KeyMsg {
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEscape}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAppend_RingBuffer(t *testing.T) {
	m := New()
	for i := 0; i < Capacity+10; i++ {
		m.Append(fmt.Sprintf("2026-01-02T15:04:05 [INFO] [ui] entry %d\n", i))
	}
	require.Equal(t, Capacity, m.Len())
	require.Equal(t, "2026-01-02T15:04:05 [INFO] [ui] entry 10", m.entries[0])
}

func TestLevelFilter(t *testing.T) {
	m := New()
	m.SetSize(120, 40)
	m.Append("t [DEBUG] [dock] opened")
	m.Append("t [WARN] [dock] slow")
	m.Append("t [ERROR] [modal] failed")
	m.Append("plain line")
	m.Toggle()
	require.True(t, m.Visible())

	require.Len(t, m.filtered(), 4)
	m, _ = m.Update(key("w"))
	require.Equal(t, log.LevelWarn, m.MinLevel())
	require.Len(t, m.filtered(), 3)

	m, _ = m.Update(key("e"))
	require.Len(t, m.filtered(), 2)
	require.Contains(t, m.View(), "failed")
	require.NotContains(t, m.View(), "opened")
}

func TestClearAndClose(t *testing.T) {
	m := New()
	m.SetSize(80, 30)
	m.Append("t [INFO] [ui] hello")
	m.Toggle()

	m, _ = m.Update(key("c"))
	require.Zero(t, m.Len())
	require.Contains(t, m.View(), "No logs to display")

	m, cmd := m.Update(key("esc"))
	require.False(t, m.Visible())
	require.IsType(t, CloseMsg{}, cmd())
	require.Equal(t, "background", m.Overlay("background"))
}

func TestHiddenIgnoresKeys(t *testing.T) {
	m := New()
	m, cmd := m.Update(key("e"))
	require.Nil(t, cmd)
	require.Equal(t, log.LevelDebug, m.MinLevel())
	require.Empty(t, m.View())
}

func TestColorize_ByLevel(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.Ascii) })

	errLine := colorize("[ERROR] [store] write failed", 80)
	warnLine := colorize("[WARN] [dock] close vetoed", 80)

	require.Contains(t, errLine, "\x1b[", "styled output")
	require.NotEqual(t, errLine, warnLine)
	require.Equal(t, "[ERROR] [store] write failed", ansi.Strip(errLine))
}

func TestColorize_Truncates(t *testing.T) {
	got := ansi.Strip(colorize("[INFO] [nav] a rather long line of text", 20))
	require.Equal(t, 20, ansi.StringWidth(got))
	require.Contains(t, got, "...")
}
