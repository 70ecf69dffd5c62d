package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// DefaultPollInterval is how often the worker checks for pending jobs.
const DefaultPollInterval = 2 * time.Second

// Worker drains the job queue in the background. It claims pending
// ingestion jobs on a fixed tick and hands each one to the ingestion
// service, recording the outcome back on the queue.
type Worker struct {
	queue    driven.JobQueue
	ingestor driving.IngestionService
	interval time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewWorker creates a worker polling at interval. A non-positive interval
// falls back to DefaultPollInterval.
func NewWorker(queue driven.JobQueue, ingestor driving.IngestionService, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Worker{
		queue:    queue,
		ingestor: ingestor,
		interval: interval,
	}
}

// Start begins the polling loop. This method blocks until Stop is called
// or the context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil // Already running
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	// Drain anything already pending before the first tick.
	w.drain(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// Stop shuts down the worker and waits for the job in flight to finish.
func (w *Worker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()
	return nil
}

// drain claims and runs pending jobs until the queue reports empty.
// Jobs run one at a time; the embedding backend is the bottleneck and
// concurrent documents would just contend on its rate limit.
func (w *Worker) drain(ctx context.Context) {
	for {
		select {
		case <-w.stopCh:
			return
		default:
		}

		job, err := w.queue.Claim(ctx)
		if err != nil {
			logger.Warn("Claiming job: %v", err)
			return
		}
		if job == nil {
			return
		}

		w.wg.Add(1)
		w.runJob(ctx, *job)
		w.wg.Done()
	}
}

func (w *Worker) runJob(ctx context.Context, job domain.IngestJob) {
	logger.Debug("Claimed job %s for document %s", job.ID, job.DocumentID)

	result := w.ingestor.Ingest(ctx, job)
	if result.Success {
		if err := w.queue.Complete(ctx, job.ID, result.ChunksProcessed); err != nil {
			logger.Warn("Marking job %s completed: %v", job.ID, err)
		}
		return
	}
	if err := w.queue.Fail(ctx, job.ID, result.Err); err != nil {
		logger.Warn("Marking job %s failed: %v", job.ID, err)
	}
}
