package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func startWorker(t *testing.T, w *Worker) {
	t.Helper()
	go func() {
		_ = w.Start(context.Background())
	}()
	t.Cleanup(func() {
		require.NoError(t, w.Stop())
	})
}

func TestWorker_RunsPendingJobs(t *testing.T) {
	queue := newMockJobQueue(
		domain.IngestJob{ID: "job-1", DocumentID: "doc-1"},
		domain.IngestJob{ID: "job-2", DocumentID: "doc-2"},
	)
	ingestor := &mockIngestionService{
		results: map[string]domain.IngestResult{
			"job-1": {Success: true, DocumentID: "doc-1", ChunksProcessed: 4, Stage: domain.StageCompleted},
			"job-2": {Success: true, DocumentID: "doc-2", ChunksProcessed: 7, Stage: domain.StageCompleted},
		},
	}

	w := NewWorker(queue, ingestor, 10*time.Millisecond)
	startWorker(t, w)

	assert.Eventually(t, func() bool {
		return queue.completedCount() == 2
	}, 2*time.Second, 10*time.Millisecond)

	queue.mu.Lock()
	defer queue.mu.Unlock()
	assert.Equal(t, 4, queue.completed["job-1"])
	assert.Equal(t, 7, queue.completed["job-2"])
	assert.Empty(t, queue.failed)
}

func TestWorker_RecordsFailures(t *testing.T) {
	queue := newMockJobQueue(domain.IngestJob{ID: "job-1", DocumentID: "doc-1"})
	cause := errors.New("extraction blew up")
	ingestor := &mockIngestionService{
		results: map[string]domain.IngestResult{
			"job-1": {DocumentID: "doc-1", Stage: domain.StageExtracting, Err: cause},
		},
	}

	w := NewWorker(queue, ingestor, 10*time.Millisecond)
	startWorker(t, w)

	assert.Eventually(t, func() bool {
		return queue.failedCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	queue.mu.Lock()
	defer queue.mu.Unlock()
	assert.Equal(t, cause, queue.failed["job-1"])
	assert.Empty(t, queue.completed)
}

func TestWorker_PicksUpLaterJobs(t *testing.T) {
	queue := newMockJobQueue()
	ingestor := &mockIngestionService{}

	w := NewWorker(queue, ingestor, 10*time.Millisecond)
	startWorker(t, w)

	require.NoError(t, queue.Enqueue(context.Background(), domain.IngestJob{ID: "job-late", DocumentID: "doc-9"}))

	assert.Eventually(t, func() bool {
		return queue.completedCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorker_StopIsIdempotent(t *testing.T) {
	w := NewWorker(newMockJobQueue(), &mockIngestionService{}, 10*time.Millisecond)

	go func() { _ = w.Start(context.Background()) }()
	time.Sleep(30 * time.Millisecond)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestWorker_DefaultInterval(t *testing.T) {
	w := NewWorker(newMockJobQueue(), &mockIngestionService{}, 0)
	assert.Equal(t, DefaultPollInterval, w.interval)
}
