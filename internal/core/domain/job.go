package domain

import "time"

// JobStatus is the lifecycle state of a queued ingestion job.
type JobStatus string

const (
	// JobPending means the job is waiting to be claimed by a worker.
	JobPending JobStatus = "pending"

	// JobRunning means a worker has claimed the job.
	JobRunning JobStatus = "running"

	// JobCompleted means the ingestion pipeline finished successfully.
	JobCompleted JobStatus = "completed"

	// JobFailed means the ingestion pipeline reported failure.
	JobFailed JobStatus = "failed"
)

// IngestStage identifies where the ingestion pipeline is, or where it
// failed. Stages run in order; failure is terminal and skips cleanup so the
// source file survives for inspection.
type IngestStage string

const (
	StageReceived   IngestStage = "received"
	StageExtracting IngestStage = "extracting"
	StageChunking   IngestStage = "chunking"
	StageEmbedding  IngestStage = "embedding"
	StageStoring    IngestStage = "storing"
	StageCleaningUp IngestStage = "cleaning_up"
	StageCompleted  IngestStage = "completed"
	StageFailed     IngestStage = "failed"
)

// IngestJob is the unit of work a collaborator enqueues and the job runner
// later hands to the ingestion pipeline.
type IngestJob struct {
	// ID identifies the job itself, distinct from the document.
	ID string

	// DocumentID is the opaque identifier generated at upload time.
	DocumentID string

	// FilePath is where the uploaded bytes were persisted.
	FilePath string

	// Filename is the original upload name, carried into chunk metadata.
	Filename string

	// Status is the queue lifecycle state.
	Status JobStatus

	// Error holds the failure message for failed jobs.
	Error string

	// ChunksProcessed is the number of chunks stored for completed jobs.
	ChunksProcessed int

	// EnqueuedAt orders claims; earlier jobs are claimed first.
	EnqueuedAt time.Time

	// StartedAt is when a worker claimed the job.
	StartedAt time.Time

	// FinishedAt is when the job reached a terminal status.
	FinishedAt time.Time
}

// IngestResult is what the ingestion pipeline reports back to the job
// runner for one document.
type IngestResult struct {
	// Success is true iff every chunk is durably stored and the source file
	// was cleaned up.
	Success bool

	// DocumentID identifies the document the result belongs to.
	DocumentID string

	// ChunksProcessed is the number of chunks stored.
	ChunksProcessed int

	// Stage is the terminal stage: StageCompleted, or the stage that failed.
	Stage IngestStage

	// Err is the originating error for failed ingestions.
	Err error
}
