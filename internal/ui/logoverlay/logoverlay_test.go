package logoverlay

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/tbracken/pantree/internal/log"
)

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	}
	return tea.KeyMsg{}
}

func sizedModel() Model {
	m := New()
	m.SetSize(100, 40)
	return m
}

func TestNew_HiddenByDefault(t *testing.T) {
	m := New()
	require.False(t, m.Visible())
	require.Equal(t, "", m.View())
}

func TestToggle(t *testing.T) {
	m := sizedModel()

	m.Toggle()
	require.True(t, m.Visible())

	m.Toggle()
	require.False(t, m.Visible())
}

func TestUpdate_IgnoredWhenHidden(t *testing.T) {
	m := New()
	updated, cmd := m.Update(keyMsg("e"))
	require.Nil(t, cmd)
	require.Equal(t, log.LevelDebug, updated.minLevel)
}

func TestUpdate_FilterKeys(t *testing.T) {
	tests := []struct {
		key  string
		want log.Level
	}{
		{"d", log.LevelDebug},
		{"i", log.LevelInfo},
		{"w", log.LevelWarn},
		{"e", log.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := sizedModel()
			m.Toggle()

			updated, _ := m.Update(keyMsg(tt.key))
			require.Equal(t, tt.want, updated.minLevel)
		})
	}
}

func TestUpdate_CloseKeys(t *testing.T) {
	for _, key := range []string{"esc", "ctrl+x"} {
		t.Run(key, func(t *testing.T) {
			m := sizedModel()
			m.Toggle()

			updated, cmd := m.Update(keyMsg(key))
			require.False(t, updated.Visible())
			require.NotNil(t, cmd)
			require.IsType(t, CloseMsg{}, cmd())
		})
	}
}

func TestView_ShowsTitleAndHints(t *testing.T) {
	m := sizedModel()
	m.Toggle()

	view := ansi.Strip(m.View())
	require.Contains(t, view, "Logs")
	require.Contains(t, view, "[c] Clear")
	require.Contains(t, view, "[d] Debug")
	require.Contains(t, view, "No logs to display")
}

func TestMatchesLevel(t *testing.T) {
	m := New()
	m.minLevel = log.LevelWarn

	require.True(t, m.matchesLevel("ts [ERROR] [store] boom"))
	require.True(t, m.matchesLevel("ts [WARN] [store] hmm"))
	require.False(t, m.matchesLevel("ts [INFO] [store] ok"))
	require.False(t, m.matchesLevel("ts [DEBUG] [store] detail"))
	require.True(t, m.matchesLevel("no level marker"))
}

func TestColorizeEntry_Truncates(t *testing.T) {
	m := New()
	long := strings.Repeat("x", 200)

	rendered := ansi.Strip(m.colorizeEntry(long, 50))
	require.LessOrEqual(t, ansi.StringWidth(rendered), 50)
	require.Contains(t, rendered, "...")
}

func TestOverlay_PassthroughWhenHidden(t *testing.T) {
	m := New()
	bg := "background content"
	require.Equal(t, bg, m.Overlay(bg))
}
