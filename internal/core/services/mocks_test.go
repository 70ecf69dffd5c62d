package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// --- Mock implementations ---

var (
	_ driven.TextExtractor    = (*mockExtractor)(nil)
	_ driven.EmbeddingService = (*mockEmbeddingService)(nil)
	_ driven.VectorIndex      = (*mockVectorIndex)(nil)
	_ driven.LLMService       = (*mockLLMService)(nil)
	_ driven.JobQueue         = (*mockJobQueue)(nil)
)

// mockExtractor implements driven.TextExtractor for testing.
type mockExtractor struct {
	text string
	err  error
}

func (m *mockExtractor) Extract(_ context.Context, _ []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding []float32
	embedErr  error
	batchErr  error
	dims      int

	embedCalls []string
	batchCalls [][]string
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.embedCalls = append(m.embedCalls, text)
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls = append(m.batchCalls, texts)
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.embedding
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return len(m.embedding)
}

func (m *mockEmbeddingService) ModelName() string { return "mock-embedding" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	matches   []domain.RetrievedMatch
	searchErr error
	upsertErr error
	deleteErr error

	searchTopK []int
	upserted   [][]domain.Chunk
	deleted    []string
}

func (m *mockVectorIndex) EnsureReady(_ context.Context) error { return nil }

func (m *mockVectorIndex) Upsert(_ context.Context, chunks []domain.Chunk) ([]string, error) {
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	m.upserted = append(m.upserted, chunks)
	ids := make([]string, len(chunks))
	for i := range chunks {
		ids[i] = "id"
	}
	return ids, nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, topK int) ([]domain.RetrievedMatch, error) {
	m.searchTopK = append(m.searchTopK, topK)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if topK < len(m.matches) {
		return m.matches[:topK], nil
	}
	return m.matches, nil
}

func (m *mockVectorIndex) DeleteByDocument(_ context.Context, documentID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, documentID)
	return nil
}

func (m *mockVectorIndex) HealthCheck(_ context.Context) bool { return true }

func (m *mockVectorIndex) Close() error { return nil }

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	reply string
	err   error

	messages [][]driven.ChatMessage
	opts     []driven.ChatOptions
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.messages = append(m.messages, messages)
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

// mockJobQueue implements driven.JobQueue for testing. It is safe for
// concurrent use because the worker claims from a background goroutine.
type mockJobQueue struct {
	mu        sync.Mutex
	jobs      []domain.IngestJob
	completed map[string]int
	failed    map[string]error
	claimErr  error
}

func newMockJobQueue(jobs ...domain.IngestJob) *mockJobQueue {
	return &mockJobQueue{
		jobs:      jobs,
		completed: make(map[string]int),
		failed:    make(map[string]error),
	}
}

func (m *mockJobQueue) Enqueue(_ context.Context, job domain.IngestJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *mockJobQueue) Claim(_ context.Context) (*domain.IngestJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claimErr != nil {
		return nil, m.claimErr
	}
	if len(m.jobs) == 0 {
		return nil, nil
	}
	job := m.jobs[0]
	m.jobs = m.jobs[1:]
	return &job, nil
}

func (m *mockJobQueue) Complete(_ context.Context, jobID string, chunksProcessed int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed[jobID] = chunksProcessed
	return nil
}

func (m *mockJobQueue) Fail(_ context.Context, jobID string, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed[jobID] = cause
	return nil
}

func (m *mockJobQueue) Pending(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs), nil
}

func (m *mockJobQueue) Close() error { return nil }

func (m *mockJobQueue) completedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.completed)
}

func (m *mockJobQueue) failedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.failed)
}

// mockIngestionService implements driving.IngestionService for testing.
type mockIngestionService struct {
	mu      sync.Mutex
	results map[string]domain.IngestResult
	jobs    []domain.IngestJob
}

func (m *mockIngestionService) Ingest(_ context.Context, job domain.IngestJob) domain.IngestResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
	if r, ok := m.results[job.ID]; ok {
		return r
	}
	return domain.IngestResult{
		Success:    true,
		DocumentID: job.DocumentID,
		Stage:      domain.StageCompleted,
	}
}
