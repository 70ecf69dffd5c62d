package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

type stubAnswerer struct {
	answer    *domain.Answer
	err       error
	lastQuery domain.Query
}

func (s *stubAnswerer) Ask(_ context.Context, query domain.Query) (*domain.Answer, error) {
	s.lastQuery = query
	return s.answer, s.err
}

func sized(m Model) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func TestModel_SubmitQuestion(t *testing.T) {
	answerer := &stubAnswerer{
		answer: &domain.Answer{
			Text: "The report covers Q3.",
			Sources: []domain.RetrievedMatch{
				{Metadata: map[string]any{domain.MetaFilename: "report.pdf"}, Score: 0.88},
			},
			Duration: 50 * time.Millisecond,
		},
	}
	m := sized(New(context.Background(), answerer))

	m.input.SetValue("What does the report cover?")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	require.NotNil(t, cmd)
	assert.True(t, m.waiting)
	assert.Empty(t, m.input.Value())

	// Drain the batch until the ask command's message arrives.
	msg := drainFor[answerReceived](t, cmd)
	assert.Equal(t, "What does the report cover?", msg.question)
	assert.Equal(t, "What does the report cover?", answerer.lastQuery.Text)

	updated, _ = m.Update(msg)
	m = updated.(Model)
	assert.False(t, m.waiting)
	require.Len(t, m.history, 1)
	assert.Equal(t, "The report covers Q3.", m.history[0].answer)
	assert.Equal(t, []string{"report.pdf (0.88)"}, m.history[0].sources)
	assert.Contains(t, m.View(), "The report covers Q3.")
}

func TestModel_EmptyInputDoesNothing(t *testing.T) {
	answerer := &stubAnswerer{}
	m := sized(New(context.Background(), answerer))

	m.input.SetValue("   ")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.False(t, m.waiting)
	assert.Empty(t, m.history)
}

func TestModel_ErrorRendersInTranscript(t *testing.T) {
	answerer := &stubAnswerer{err: errors.New("backend unreachable")}
	m := sized(New(context.Background(), answerer))

	updated, _ := m.Update(answerReceived{question: "q", err: answerer.err})
	m = updated.(Model)

	require.Len(t, m.history, 1)
	assert.True(t, m.history[0].isError)
	assert.Contains(t, m.View(), "backend unreachable")
}

func TestModel_QuitKeys(t *testing.T) {
	m := sized(New(context.Background(), &stubAnswerer{}))
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc} {
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		require.NotNil(t, cmd, "key %v should quit", key)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

// drainFor executes a command tree until a message of type T appears.
func drainFor[T tea.Msg](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case T:
			return msg
		case tea.BatchMsg:
			queue = append(queue, msg...)
		}
	}
	t.Fatal("command tree produced no matching message")
	var zero T
	return zero
}
