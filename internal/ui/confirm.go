package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ─── Key Bindings ────────────────────────────────────────────────────────────

type confirmKeys struct {
	Yes    key.Binding
	No     key.Binding
	Toggle key.Binding
	Submit key.Binding
	Cancel key.Binding
}

var defaultConfirmKeys = confirmKeys{
	Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	No:     key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "no")),
	Toggle: key.NewBinding(key.WithKeys("left", "right", "h", "l", "tab"), key.WithHelp("←/→", "choose")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c", "q"), key.WithHelp("esc", "cancel")),
}

func (k confirmKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No, k.Toggle, k.Submit, k.Cancel}
}

func (k confirmKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// ─── Model ───────────────────────────────────────────────────────────────────

// ConfirmModel is a yes/no prompt. The highlighted choice starts on "No",
// so pressing Enter without a choice declines.
type ConfirmModel struct {
	Question string
	Detail   []string

	selected bool // highlighted choice
	answered bool
	answer   bool
	keys     confirmKeys
	help     help.Model
}

// NewConfirmModel builds a prompt for question. detail lines are listed
// beneath it.
func NewConfirmModel(question string, detail ...string) ConfirmModel {
	return ConfirmModel{
		Question: question,
		Detail:   detail,
		keys:     defaultConfirmKeys,
		help:     help.New(),
	}
}

// Answer returns the user's decision. An unanswered prompt counts as no.
func (m ConfirmModel) Answer() bool {
	return m.answered && m.answer
}

// Answered reports whether the prompt was resolved by a key press.
func (m ConfirmModel) Answered() bool {
	return m.answered
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		return m.finish(true)
	case key.Matches(keyMsg, m.keys.No), key.Matches(keyMsg, m.keys.Cancel):
		return m.finish(false)
	case key.Matches(keyMsg, m.keys.Submit):
		return m.finish(m.selected)
	case key.Matches(keyMsg, m.keys.Toggle):
		m.selected = !m.selected
	}
	return m, nil
}

func (m ConfirmModel) finish(answer bool) (tea.Model, tea.Cmd) {
	m.answered = true
	m.answer = answer
	return m, tea.Quit
}

func (m ConfirmModel) View() string {
	if m.answered {
		return ""
	}

	var s strings.Builder
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(ColorWarning).
		Render(IconWarning + " " + m.Question))
	s.WriteString("\n")
	for _, d := range m.Detail {
		s.WriteString(MutedStyle.Render("  " + IconBullet + " " + d))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	choice := lipgloss.NewStyle().Padding(0, 2)
	active := choice.Bold(true).Foreground(lipgloss.Color("#000000")).Background(ColorPrimary)
	yes, no := choice.Render("Yes"), active.Render("No")
	if m.selected {
		yes, no = active.Render("Yes"), choice.Render("No")
	}
	s.WriteString("  " + lipgloss.JoinHorizontal(lipgloss.Center, yes, " ", no))
	s.WriteString("\n\n")
	s.WriteString(m.help.View(m.keys))
	s.WriteString("\n")
	return s.String()
}

// ─── Confirmer ───────────────────────────────────────────────────────────────

// TerminalConfirmer asks questions on the terminal with a ConfirmModel.
type TerminalConfirmer struct {
	In  io.Reader
	Out io.Writer
}

// NewTerminalConfirmer prompts on the process's stdin and stdout.
func NewTerminalConfirmer() *TerminalConfirmer {
	return &TerminalConfirmer{In: os.Stdin, Out: os.Stdout}
}

// Confirm shows question and blocks until it is answered.
func (c *TerminalConfirmer) Confirm(question string) (bool, error) {
	return c.ConfirmDetail(question)
}

// ConfirmDetail is Confirm with extra lines listed under the question.
func (c *TerminalConfirmer) ConfirmDetail(question string, detail ...string) (bool, error) {
	p := tea.NewProgram(NewConfirmModel(question, detail...),
		tea.WithInput(c.In),
		tea.WithOutput(c.Out),
	)
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	m, ok := final.(ConfirmModel)
	if !ok {
		return false, nil
	}
	return m.Answer(), nil
}
