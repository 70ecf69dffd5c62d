package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates an invalid component configuration,
	// such as a chunk overlap that is not smaller than the chunk size.
	ErrConfiguration = errors.New("invalid configuration")

	// Pipeline stage errors. Each ingestion or query stage surfaces its
	// component's error wrapped in one of these sentinels, so callers can
	// classify failures with errors.Is without inspecting messages.

	// ErrExtraction indicates the uploaded byte stream is not a valid
	// document container, or text extraction failed.
	ErrExtraction = errors.New("text extraction failed")

	// ErrEmbedding indicates the embedding backend failed or returned a
	// vector of unexpected shape.
	ErrEmbedding = errors.New("embedding failed")

	// ErrIndex indicates the vector backend is unreachable or the backing
	// collection is misconfigured.
	ErrIndex = errors.New("vector index failure")

	// ErrSynthesis indicates the language model backend failed while
	// generating an answer.
	ErrSynthesis = errors.New("answer synthesis failed")

	// ErrNoRelevantDocuments is the non-error outcome of a query against an
	// index that returned no matches. It is distinguished from true failures
	// so callers don't conflate an empty knowledge base with a broken
	// backend, and so the language model is never invoked with empty context.
	ErrNoRelevantDocuments = errors.New("no relevant documents found")
)
