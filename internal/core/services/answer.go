package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure AnswerPipeline implements the interface.
var _ driving.AnswerService = (*AnswerPipeline)(nil)

// AnswerPipeline answers questions by embedding the query, retrieving the
// most similar chunks and synthesising a grounded answer.
type AnswerPipeline struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	synth    *Synthesiser
}

// NewAnswerPipeline creates the query pipeline. All collaborators are
// required.
func NewAnswerPipeline(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	synth *Synthesiser,
) *AnswerPipeline {
	return &AnswerPipeline{
		embedder: embedder,
		index:    index,
		synth:    synth,
	}
}

// Ask runs the full query pipeline. The language model is only invoked
// when retrieval produced at least one match; an empty result set surfaces
// as domain.ErrNoRelevantDocuments.
func (p *AnswerPipeline) Ask(ctx context.Context, query domain.Query) (*domain.Answer, error) {
	logger.Section("Query Execution")

	query, err := query.Normalise()
	if err != nil {
		return nil, err
	}
	logger.Debug("Query: %q (top_k=%d)", query.Text, query.TopK)

	vector, err := p.embedder.Embed(ctx, query.Text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	matches, err := p.index.Search(ctx, vector, query.TopK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	logger.Debug("Retrieved %d matches", len(matches))

	if len(matches) == 0 {
		return nil, domain.ErrNoRelevantDocuments
	}

	answer, err := p.synth.Synthesise(ctx, query.Text, matches)
	if err != nil {
		return nil, err
	}
	logger.Info("Answer synthesised in %s from %d sources", answer.Duration, len(answer.Sources))

	return answer, nil
}
