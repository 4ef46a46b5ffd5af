package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amirbrooks/jade/internal/command"
)

// maxHistory bounds how many chat entries stay on screen.
const maxHistory = 40

var (
	userStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	jadeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

type chatEntry struct {
	fromUser bool
	text     string
	isError  bool
}

type chatModel struct {
	responder Responder
	input     textinput.Model
	history   []chatEntry
	quitting  bool
}

func newChatModel(r Responder) *chatModel {
	ti := textinput.New()
	ti.Placeholder = "todo read book"
	ti.Prompt = "> "
	ti.CharLimit = 512
	ti.Width = 60
	ti.ShowSuggestions = true
	ti.SetSuggestions(command.Verbs())
	ti.Focus()

	return &chatModel{
		responder: r,
		input:     ti,
		history:   []chatEntry{{text: r.Greeting()}},
	}
}

// RunChat starts the chat front end. Messages are handled one at a time on
// the program's goroutine, which keeps access to the assistant sequential.
func RunChat(ctx context.Context, r Responder) error {
	program := tea.NewProgram(newChatModel(r), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m *chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	case tea.WindowSizeMsg:
		if msg.Width > 10 {
			m.input.Width = msg.Width - 10
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *chatModel) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}
	m.input.SetValue("")
	resp := m.responder.Respond(line)
	m.push(chatEntry{fromUser: true, text: line})
	m.push(chatEntry{text: resp.Text, isError: resp.IsError()})
	if resp.Exit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *chatModel) push(e chatEntry) {
	m.history = append(m.history, e)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
}

func (m *chatModel) View() string {
	var b strings.Builder
	for _, e := range m.history {
		if e.fromUser {
			b.WriteString(userStyle.Render("You") + "\n")
			b.WriteString(Indent + e.text + "\n\n")
			continue
		}
		b.WriteString(jadeStyle.Render("Jade") + "\n")
		for _, line := range strings.Split(e.text, "\n") {
			if e.isError {
				line = errorStyle.Render(line)
			}
			b.WriteString(Indent + line + "\n")
		}
		b.WriteString("\n")
	}
	if m.quitting {
		return b.String()
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter to send, tab to complete, esc to quit"))
	b.WriteString("\n")
	return b.String()
}
