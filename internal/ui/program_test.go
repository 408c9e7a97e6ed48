package ui

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"github.com/tbracken/pantree/internal/config"
	"github.com/tbracken/pantree/internal/pantry"
)

func TestProgram_RendersListAndQuits(t *testing.T) {
	store := pantry.NewStore(pantry.OrderByName)
	_, err := store.Add("Milk", "2")
	require.NoError(t, err)
	_, err = store.Add("Bread", "1")
	require.NoError(t, err)

	m := New(Options{Store: store, Config: config.Defaults()})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Milk")) && bytes.Contains(bts, []byte("Bread"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}

func TestProgram_DeleteUpdatesList(t *testing.T) {
	store := pantry.NewStore(pantry.OrderByName)
	_, err := store.Add("Bread", "1")
	require.NoError(t, err)

	m := New(Options{Store: store, Config: config.Defaults()})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Bread"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("deleted Bread"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}
