package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/custodia-labs/docqa/internal/chunker"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure IngestionPipeline implements the interface.
var _ driving.IngestionService = (*IngestionPipeline)(nil)

// embedBatchSize caps the inputs per embedding request. OpenAI rejects
// requests over 2048 inputs, so a large document has to be embedded in
// sub-batches.
const embedBatchSize = 100

// IngestionPipeline runs one document through extraction, chunking,
// embedding and storage. Each stage either advances the pipeline or
// terminates it; a failed stage leaves the source file in place.
type IngestionPipeline struct {
	extractor driven.TextExtractor
	chunker   *chunker.Chunker
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
}

// NewIngestionPipeline creates the ingestion pipeline. All collaborators
// are required.
func NewIngestionPipeline(
	extractor driven.TextExtractor,
	ch *chunker.Chunker,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
) *IngestionPipeline {
	return &IngestionPipeline{
		extractor: extractor,
		chunker:   ch,
		embedder:  embedder,
		index:     index,
	}
}

// Ingest executes the pipeline for one job. Stage order is fixed:
// extracting, chunking, embedding, storing, cleaning up. The source file
// is only removed after every chunk is durably stored, so a failed run can
// be retried from the original bytes.
func (p *IngestionPipeline) Ingest(ctx context.Context, job domain.IngestJob) domain.IngestResult {
	logger.Section("Document Ingestion")
	logger.Debug("Document: %s (%s), path: %s", job.DocumentID, job.Filename, job.FilePath)

	logger.Debug("Stage: %s", domain.StageExtracting)
	data, err := os.ReadFile(job.FilePath)
	if err != nil {
		return p.fail(job, domain.StageExtracting,
			fmt.Errorf("%w: reading %s: %v", domain.ErrExtraction, job.FilePath, err))
	}

	text, err := p.extractor.Extract(ctx, data)
	if err != nil {
		return p.fail(job, domain.StageExtracting, err)
	}

	if strings.TrimSpace(text) == "" {
		// A valid document with no extractable text is not a failure.
		logger.Warn("No extractable text in %s", job.Filename)
		return p.complete(job, 0)
	}

	logger.Debug("Stage: %s (%d characters)", domain.StageChunking, len(text))
	base := map[string]any{
		domain.MetaDocumentID: job.DocumentID,
		domain.MetaFilename:   job.Filename,
		domain.MetaFilePath:   job.FilePath,
	}
	chunks := p.chunker.Chunk(text, job.DocumentID, base)
	if len(chunks) == 0 {
		return p.complete(job, 0)
	}
	logger.Debug("Produced %d chunks", len(chunks))

	logger.Debug("Stage: %s", domain.StageEmbedding)
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}
	embeddings, err := p.embedAll(ctx, texts)
	if err != nil {
		return p.fail(job, domain.StageEmbedding, err)
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	logger.Debug("Stage: %s", domain.StageStoring)
	// Drop any chunks from a previous attempt so re-runs converge on a
	// single copy of the document.
	if err := p.index.DeleteByDocument(ctx, job.DocumentID); err != nil {
		return p.fail(job, domain.StageStoring, err)
	}
	ids, err := p.index.Upsert(ctx, chunks)
	if err != nil {
		return p.fail(job, domain.StageStoring, err)
	}

	return p.complete(job, len(ids))
}

// embedAll embeds texts in sub-batches of embedBatchSize and verifies one
// vector came back per input.
func (p *IngestionPipeline) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := p.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("%w: got %d embeddings for %d inputs",
				domain.ErrEmbedding, len(batch), end-start)
		}
		embeddings = append(embeddings, batch...)
	}
	return embeddings, nil
}

// complete runs cleanup and reports success. Cleanup failure is a real
// failure: a source file that survives a "successful" ingestion would be
// re-ingested by anything that re-discovers it.
func (p *IngestionPipeline) complete(job domain.IngestJob, chunksProcessed int) domain.IngestResult {
	logger.Debug("Stage: %s", domain.StageCleaningUp)
	if err := os.Remove(job.FilePath); err != nil && !os.IsNotExist(err) {
		return p.fail(job, domain.StageCleaningUp,
			fmt.Errorf("removing %s: %w", job.FilePath, err))
	}

	logger.Info("Ingested %s: %d chunks", job.Filename, chunksProcessed)
	return domain.IngestResult{
		Success:         true,
		DocumentID:      job.DocumentID,
		ChunksProcessed: chunksProcessed,
		Stage:           domain.StageCompleted,
	}
}

func (p *IngestionPipeline) fail(job domain.IngestJob, stage domain.IngestStage, err error) domain.IngestResult {
	logger.Warn("Ingestion of %s failed at %s: %v", job.Filename, stage, err)
	return domain.IngestResult{
		DocumentID: job.DocumentID,
		Stage:      stage,
		Err:        err,
	}
}
