package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// IngestionService runs the ingestion pipeline for one document. It is the
// handler the job runner invokes, and the upload entry point calls it
// directly when no queue is configured.
type IngestionService interface {
	// Ingest extracts, chunks, embeds and stores one document, then removes
	// the source file. The result always carries the document identifier;
	// on failure it carries the failing stage and originating error, and
	// the source file is left in place for inspection.
	Ingest(ctx context.Context, job domain.IngestJob) domain.IngestResult
}
