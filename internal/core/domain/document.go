package domain

import "time"

// DocumentStatus tracks a document's progress through ingestion.
type DocumentStatus string

const (
	// StatusProcessing means ingestion has been dispatched but not finished.
	StatusProcessing DocumentStatus = "processing"

	// StatusCompleted means every chunk is stored and searchable.
	StatusCompleted DocumentStatus = "completed"

	// StatusFailed means a pipeline stage failed; the source file is kept
	// for inspection.
	StatusFailed DocumentStatus = "failed"
)

// Metadata keys attached to every stored chunk. Document identity is
// reconstructed from chunk metadata; no separate document record is
// persisted.
const (
	MetaDocumentID  = "document_id"
	MetaFilename    = "filename"
	MetaFilePath    = "file_path"
	MetaChunkIndex  = "chunk_index"
	MetaTotalChunks = "total_chunks"
)

// Document represents one uploaded file. It is a caller-owned value object
// passed through the ingestion pipeline; the underlying file is transient
// and deleted once ingestion succeeds.
type Document struct {
	// ID is the opaque unique identifier generated at upload time.
	ID string

	// Filename is the original name of the uploaded file.
	Filename string

	// FilePath is the transient on-disk location of the uploaded bytes.
	FilePath string

	// Status is the current processing state.
	Status DocumentStatus

	// CreatedAt is when the document was uploaded.
	CreatedAt time.Time
}

// Chunk is one unit of retrievable text. Chunks are created by the chunker,
// given an embedding by the embedder, and persisted by the vector index.
type Chunk struct {
	// ID is the storage identifier assigned by the vector index on upsert.
	// Empty until the chunk has been persisted.
	ID string

	// DocumentID links to the owning document.
	DocumentID string

	// Content is the chunk text. Never empty for a valid chunk.
	Content string

	// Index is the 0-based position within the document. It is authoritative
	// for ordering; storage position carries no guarantee.
	Index int

	// Embedding is the vector representation. Its length must equal the
	// vector index's configured dimensionality.
	Embedding []float32

	// Metadata carries at minimum the document identifier, filename, source
	// path, chunk index and total chunk count.
	Metadata map[string]any
}
