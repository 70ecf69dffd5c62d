// Package tui provides an interactive chat interface for asking questions
// against the indexed documents, built on the Elm architecture.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// answerReceived carries the outcome of an ask back to the model.
type answerReceived struct {
	question string
	answer   *domain.Answer
	err      error
}

// exchange is one completed question and answer pair in the transcript.
type exchange struct {
	question string
	answer   string
	sources  []string
	isError  bool
}

// Model is the Bubble Tea model for the chat interface.
type Model struct {
	answerer driving.AnswerService
	ctx      context.Context

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	history []exchange
	waiting bool
	ready   bool
	width   int
}

// New creates a chat model backed by the given answer service.
func New(ctx context.Context, answerer driving.AnswerService) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about your documents"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		answerer: answerer,
		ctx:      ctx,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		width:    80,
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + ih + 1 // title, spacer, input frame, status
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderHistory())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter && !m.waiting {
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			return m, tea.Batch(m.spinner.Tick, m.ask(question))
		}

	case answerReceived:
		m.waiting = false
		m.history = append(m.history, toExchange(msg))
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the transcript, input box and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	title := titleStyle.Render("docqa chat")
	input := inputBoxStyle.Render(m.input.View())
	status := "enter to ask, esc to quit"
	if m.waiting {
		status = m.spinner.View() + " thinking..."
	}
	return title + "\n" + m.viewport.View() + "\n" + input + "\n" + sourceStyle.Render(status)
}

// ask runs the question against the answer service off the update loop.
func (m Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.answerer.Ask(m.ctx, domain.Query{Text: question})
		return answerReceived{question: question, answer: answer, err: err}
	}
}

func toExchange(msg answerReceived) exchange {
	ex := exchange{question: msg.question}
	if msg.err != nil {
		ex.isError = true
		ex.answer = msg.err.Error()
		return ex
	}
	ex.answer = msg.answer.Text
	for _, src := range msg.answer.Sources {
		name, _ := src.Metadata[domain.MetaFilename].(string)
		if name == "" {
			name = "Unknown"
		}
		ex.sources = append(ex.sources, fmt.Sprintf("%s (%.2f)", name, src.Score))
	}
	return ex
}

func (m Model) renderHistory() string {
	if len(m.history) == 0 {
		return "No questions yet. Upload documents, then ask away."
	}
	var b strings.Builder
	for i, ex := range m.history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("You: ") + ex.question + "\n\n")
		if ex.isError {
			b.WriteString(errorStyle.Render(ex.answer))
			continue
		}
		b.WriteString(ex.answer)
		if len(ex.sources) > 0 {
			b.WriteString("\n" + sourceStyle.Render("Sources: "+strings.Join(ex.sources, ", ")))
		}
	}
	return b.String()
}

// Run starts the chat program on the terminal and blocks until it exits.
func Run(ctx context.Context, answerer driving.AnswerService) error {
	p := tea.NewProgram(New(ctx, answerer), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
