package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func press(m ConfirmModel, msgs ...tea.KeyMsg) (ConfirmModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(ConfirmModel)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		name     string
		keys     []tea.KeyMsg
		answered bool
		want     bool
	}{
		{"yes", []tea.KeyMsg{runes("y")}, true, true},
		{"upper yes", []tea.KeyMsg{runes("Y")}, true, true},
		{"no", []tea.KeyMsg{runes("n")}, true, false},
		{"enter defaults to no", []tea.KeyMsg{{Type: tea.KeyEnter}}, true, false},
		{"toggle then enter", []tea.KeyMsg{{Type: tea.KeyRight}, {Type: tea.KeyEnter}}, true, true},
		{"toggle twice then enter", []tea.KeyMsg{{Type: tea.KeyTab}, {Type: tea.KeyTab}, {Type: tea.KeyEnter}}, true, false},
		{"escape", []tea.KeyMsg{{Type: tea.KeyEsc}}, true, false},
		{"ctrl+c", []tea.KeyMsg{{Type: tea.KeyCtrlC}}, true, false},
		{"unbound key", []tea.KeyMsg{runes("x")}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := press(NewConfirmModel("Close Chrome?"), tt.keys...)
			assert.Equal(t, tt.answered, m.Answered())
			assert.Equal(t, tt.want, m.Answer())
			if tt.answered {
				assert.NotNil(t, cmd)
			} else {
				assert.Nil(t, cmd)
			}
		})
	}
}

func TestConfirmModelIgnoresOtherMessages(t *testing.T) {
	m := NewConfirmModel("Close Chrome?")
	next, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Nil(t, cmd)
	assert.False(t, next.(ConfirmModel).Answered())
}

func TestConfirmModelView(t *testing.T) {
	m := NewConfirmModel("Close Chrome?", "chrome.exe (pid 42)")
	view := m.View()
	assert.Contains(t, view, "Close Chrome?")
	assert.Contains(t, view, "chrome.exe (pid 42)")

	m, _ = press(m, runes("n"))
	assert.Empty(t, m.View())
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 B", FormatSize(0))
	assert.Equal(t, "0 B", FormatSize(-5))
	assert.Equal(t, "1.0 KiB", FormatSize(1024))
	assert.Equal(t, "1.5 MiB", FormatSize(1536*1024))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "profile", Plural(1, "profile", "profiles"))
	assert.Equal(t, "profiles", Plural(0, "profile", "profiles"))
	assert.Equal(t, "profiles", Plural(3, "profile", "profiles"))
}
