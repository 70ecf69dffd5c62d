package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The same model and dimensionality must be used for stored chunks and for
// incoming queries: the vector index's similarity metric is only meaningful
// when both sides were produced by the same model.
//
// Implementations surface transport failures and unexpectedly shaped
// responses as domain.ErrEmbedding and never retry silently - whether to
// retry a whole ingestion step is the caller's decision. Embeddings are not
// cached locally; recomputation is the caller's cost to manage.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 1536, 3072).
	// This is determined by the model and must match the VectorIndex
	// configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test
	// request. Used at startup to verify connectivity.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
