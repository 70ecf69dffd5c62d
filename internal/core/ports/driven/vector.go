package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// VectorIndex persists (vector, content, metadata) triples and answers
// nearest-neighbour searches over them. It exclusively owns persisted chunk
// data; ingestion and query logic never touch the backend directly, so the
// similarity backend is swappable without touching either.
//
// Infrastructure failures surface as domain.ErrIndex.
type VectorIndex interface {
	// EnsureReady checks that the backing collection exists with the
	// configured dimensionality and cosine metric, creating it if absent.
	// Idempotent: a second call produces no duplicate and no error. Invoked
	// once at startup so every subsequent operation can assume readiness.
	EnsureReady(ctx context.Context) error

	// Upsert assigns a fresh storage identifier to each chunk lacking one
	// and writes the triples, batched to respect backend payload limits.
	// Batching never changes the logical result; earlier batches remain
	// durable if a later batch fails. Returns the storage identifiers in
	// chunk order.
	Upsert(ctx context.Context, chunks []domain.Chunk) ([]string, error)

	// Search returns at most topK matches ordered by descending cosine
	// similarity. An empty index or no match above the backend's relevance
	// floor yields an empty slice, not an error.
	Search(ctx context.Context, vector []float32, topK int) ([]domain.RetrievedMatch, error)

	// DeleteByDocument removes every chunk whose metadata carries the given
	// document identifier. No-op if none match.
	DeleteByDocument(ctx context.Context, documentID string) error

	// HealthCheck reports whether the backend is reachable and responsive.
	// Used for liveness reporting only; never returns an error.
	HealthCheck(ctx context.Context) bool

	// Close releases resources.
	Close() error
}
