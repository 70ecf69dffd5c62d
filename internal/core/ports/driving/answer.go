package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// AnswerService answers one user question from the stored document chunks.
type AnswerService interface {
	// Ask embeds the query, retrieves the most similar chunks and
	// synthesises a grounded answer. Returns domain.ErrNoRelevantDocuments
	// when the index yields no matches; the language model is not called in
	// that case.
	Ask(ctx context.Context, query domain.Query) (*domain.Answer, error)
}
