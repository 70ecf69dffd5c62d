package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Generation parameters for answer synthesis. Fixed rather than
// caller-supplied: every surface (HTTP, CLI, TUI, MCP) should produce
// answers with the same character.
const (
	synthesisMaxTokens   = 1000
	synthesisTemperature = 0.7
)

// systemInstruction pins the model to the retrieved context.
const systemInstruction = "You are a helpful assistant that answers questions based on the provided context. " +
	"Always cite information from the context when answering. " +
	"If the context doesn't contain enough information to answer the question, " +
	"say so clearly."

// Synthesiser turns a question and its retrieved matches into a grounded
// answer via the language model.
type Synthesiser struct {
	llm driven.LLMService
}

// NewSynthesiser creates a synthesiser backed by the given language model.
func NewSynthesiser(llm driven.LLMService) *Synthesiser {
	return &Synthesiser{llm: llm}
}

// Synthesise generates an answer to question grounded in matches. The
// matches must be non-empty; callers gate on retrieval before invoking
// the model. The returned answer carries the matches as sources and the
// wall-clock duration of the call.
func (s *Synthesiser) Synthesise(
	ctx context.Context, question string, matches []domain.RetrievedMatch,
) (*domain.Answer, error) {
	start := time.Now()

	prompt := buildPrompt(question, buildContext(matches))
	logger.Debug("Synthesising answer from %d matches with %s", len(matches), s.llm.ModelName())

	messages := []driven.ChatMessage{
		{Role: "system", Content: systemInstruction},
		{Role: "user", Content: prompt},
	}
	opts := driven.ChatOptions{
		MaxTokens:   synthesisMaxTokens,
		Temperature: synthesisTemperature,
	}

	text, err := s.llm.Chat(ctx, messages, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSynthesis, err)
	}

	return &domain.Answer{
		Text:     text,
		Sources:  matches,
		Duration: time.Since(start),
	}, nil
}

// buildContext formats matches as numbered source blocks. Source numbers
// are 1-based so the model's citations read naturally.
func buildContext(matches []domain.RetrievedMatch) string {
	parts := make([]string, len(matches))
	for i, m := range matches {
		filename := "Unknown"
		if name, ok := m.Metadata[domain.MetaFilename].(string); ok && name != "" {
			filename = name
		}
		parts[i] = fmt.Sprintf("[Source %d - %s]\n%s\n", i+1, filename, m.Content)
	}
	return strings.Join(parts, "\n---\n")
}

func buildPrompt(question, context string) string {
	return fmt.Sprintf(`Context from documents:

%s

---

Question: %s

Please provide a comprehensive answer based on the context above. If the context doesn't contain relevant information, please state that clearly.`, context, question)
}
