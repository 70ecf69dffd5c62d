package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// JobQueue is the seam between the upload entry point and the asynchronous
// job runner: a collaborator enqueues an ingestion job, and a worker later
// claims and executes it. Delivery is at-least-once; exactly-once is not
// guaranteed and the ingestion pipeline tolerates re-runs.
type JobQueue interface {
	// Enqueue adds a pending job.
	Enqueue(ctx context.Context, job domain.IngestJob) error

	// Claim atomically takes the oldest pending job and marks it running.
	// Returns nil with no error when the queue is empty.
	Claim(ctx context.Context) (*domain.IngestJob, error)

	// Complete marks a claimed job completed with its chunk count.
	Complete(ctx context.Context, jobID string, chunksProcessed int) error

	// Fail marks a claimed job failed, recording the cause.
	Fail(ctx context.Context, jobID string, cause error) error

	// Pending returns the number of jobs waiting to be claimed.
	Pending(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
