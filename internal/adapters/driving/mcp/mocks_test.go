package mcp

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer    *domain.Answer
	err       error
	lastQuery domain.Query
}

func (m *mockAnswerService) Ask(_ context.Context, query domain.Query) (*domain.Answer, error) {
	m.lastQuery = query
	return m.answer, m.err
}

// mockVectorIndex is a mock implementation of driven.VectorIndex.
type mockVectorIndex struct {
	healthy bool
}

func (m *mockVectorIndex) EnsureReady(_ context.Context) error { return nil }

func (m *mockVectorIndex) Upsert(_ context.Context, chunks []domain.Chunk) ([]string, error) {
	return make([]string, len(chunks)), nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, _ int) ([]domain.RetrievedMatch, error) {
	return nil, nil
}

func (m *mockVectorIndex) DeleteByDocument(_ context.Context, _ string) error { return nil }

func (m *mockVectorIndex) HealthCheck(_ context.Context) bool { return m.healthy }

func (m *mockVectorIndex) Close() error { return nil }

// mockJobQueue is a mock implementation of driven.JobQueue.
type mockJobQueue struct {
	pending int
	err     error
}

func (m *mockJobQueue) Enqueue(_ context.Context, _ domain.IngestJob) error { return m.err }

func (m *mockJobQueue) Claim(_ context.Context) (*domain.IngestJob, error) { return nil, m.err }

func (m *mockJobQueue) Complete(_ context.Context, _ string, _ int) error { return m.err }

func (m *mockJobQueue) Fail(_ context.Context, _ string, _ error) error { return m.err }

func (m *mockJobQueue) Pending(_ context.Context) (int, error) { return m.pending, m.err }

func (m *mockJobQueue) Close() error { return nil }
