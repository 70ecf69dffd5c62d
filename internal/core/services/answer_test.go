package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func newAnswerPipeline(
	embedder *mockEmbeddingService, index *mockVectorIndex, llm *mockLLMService,
) *AnswerPipeline {
	return NewAnswerPipeline(embedder, index, NewSynthesiser(llm))
}

func TestAnswerPipeline_Ask(t *testing.T) {
	embedder := &mockEmbeddingService{embedding: []float32{0.1, 0.2, 0.3}}
	index := &mockVectorIndex{
		matches: []domain.RetrievedMatch{
			{Content: "relevant text", Metadata: map[string]any{domain.MetaFilename: "doc.pdf"}, Score: 0.9},
		},
	}
	llm := &mockLLMService{reply: "an answer"}

	p := newAnswerPipeline(embedder, index, llm)
	answer, err := p.Ask(context.Background(), domain.Query{Text: "what is this?", TopK: 3})
	require.NoError(t, err)

	assert.Equal(t, "an answer", answer.Text)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "relevant text", answer.Sources[0].Content)

	require.Len(t, embedder.embedCalls, 1)
	assert.Equal(t, "what is this?", embedder.embedCalls[0])
	require.Len(t, index.searchTopK, 1)
	assert.Equal(t, 3, index.searchTopK[0])
}

func TestAnswerPipeline_DefaultsTopK(t *testing.T) {
	embedder := &mockEmbeddingService{embedding: []float32{0.1}}
	index := &mockVectorIndex{
		matches: []domain.RetrievedMatch{{Content: "c", Metadata: map[string]any{}}},
	}
	llm := &mockLLMService{reply: "ok"}

	p := newAnswerPipeline(embedder, index, llm)
	_, err := p.Ask(context.Background(), domain.Query{Text: "question"})
	require.NoError(t, err)

	require.Len(t, index.searchTopK, 1)
	assert.Equal(t, domain.DefaultTopK, index.searchTopK[0])
}

func TestAnswerPipeline_InvalidQuery(t *testing.T) {
	tests := []struct {
		name  string
		query domain.Query
	}{
		{name: "empty text", query: domain.Query{Text: ""}},
		{name: "whitespace only", query: domain.Query{Text: "   \n\t"}},
		{name: "top_k too large", query: domain.Query{Text: "q", TopK: domain.MaxTopK + 1}},
		{name: "top_k negative", query: domain.Query{Text: "q", TopK: -1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			embedder := &mockEmbeddingService{embedding: []float32{0.1}}
			p := newAnswerPipeline(embedder, &mockVectorIndex{}, &mockLLMService{})

			_, err := p.Ask(context.Background(), tc.query)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, embedder.embedCalls, "embedding should not run for invalid input")
		})
	}
}

func TestAnswerPipeline_NoMatches(t *testing.T) {
	embedder := &mockEmbeddingService{embedding: []float32{0.1}}
	index := &mockVectorIndex{} // empty index
	llm := &mockLLMService{reply: "should never be used"}

	p := newAnswerPipeline(embedder, index, llm)
	answer, err := p.Ask(context.Background(), domain.Query{Text: "anything?"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoRelevantDocuments)
	assert.Nil(t, answer)
	assert.Empty(t, llm.messages, "the model must not be invoked with empty context")
}

func TestAnswerPipeline_EmbedFailure(t *testing.T) {
	embedder := &mockEmbeddingService{embedErr: errors.New("connection refused")}
	p := newAnswerPipeline(embedder, &mockVectorIndex{}, &mockLLMService{})

	_, err := p.Ask(context.Background(), domain.Query{Text: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAnswerPipeline_SearchFailure(t *testing.T) {
	embedder := &mockEmbeddingService{embedding: []float32{0.1}}
	index := &mockVectorIndex{searchErr: errors.New("collection missing")}
	p := newAnswerPipeline(embedder, index, &mockLLMService{})

	_, err := p.Ask(context.Background(), domain.Query{Text: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collection missing")
}
