package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// mockAnswerer is a mock implementation of driving.AnswerService.
type mockAnswerer struct {
	answer    *domain.Answer
	err       error
	lastQuery domain.Query
}

func (m *mockAnswerer) Ask(_ context.Context, query domain.Query) (*domain.Answer, error) {
	m.lastQuery = query
	return m.answer, m.err
}

// mockIngestor is a mock implementation of driving.IngestionService.
type mockIngestor struct {
	results []domain.IngestResult
	jobs    []domain.IngestJob
}

func (m *mockIngestor) Ingest(_ context.Context, job domain.IngestJob) domain.IngestResult {
	m.jobs = append(m.jobs, job)
	if len(m.results) > 0 {
		result := m.results[0]
		m.results = m.results[1:]
		result.DocumentID = job.DocumentID
		return result
	}
	return domain.IngestResult{
		Success:         true,
		DocumentID:      job.DocumentID,
		ChunksProcessed: 3,
		Stage:           domain.StageCompleted,
	}
}

// setupTestServices installs mock services and returns a cleanup func.
func setupTestServices() (answerer *mockAnswerer, ingestor *mockIngestor, cleanup func()) {
	oldAnswer := answerService
	oldIngest := ingestService
	oldCfg := appCfg

	answerer = &mockAnswerer{
		answer: &domain.Answer{
			Text: "The report covers Q3 revenue.",
			Sources: []domain.RetrievedMatch{
				{
					Content:  "Revenue grew 12% in Q3.",
					Metadata: map[string]any{domain.MetaFilename: "report.pdf"},
					Score:    0.91,
				},
			},
			Duration: 120 * time.Millisecond,
		},
	}
	ingestor = &mockIngestor{}

	answerService = answerer
	ingestService = ingestor

	cleanup = func() {
		answerService = oldAnswer
		ingestService = oldIngest
		appCfg = oldCfg
	}
	return answerer, ingestor, cleanup
}
