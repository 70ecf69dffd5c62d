// Package sqlite provides a durable ingestion job queue backed by SQLite.
// Jobs survive process restarts; a worker left mid-job resumes from the
// queue after the process comes back.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docqa/internal/adapters/driven/queue/sqlite/migrations"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Queue implements the interface.
var _ driven.JobQueue = (*Queue)(nil)

// Queue is a SQLite-backed job queue.
type Queue struct {
	db   *sql.DB
	path string
}

// NewQueue creates a queue stored under dataDir. If dataDir is empty,
// defaults to ~/.docqa/data.
func NewQueue(dataDir string) (*Queue, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docqa", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "jobs.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	q := &Queue{
		db:   db,
		path: dbPath,
	}

	if err := q.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if err := q.recoverStaleJobs(); err != nil {
		db.Close()
		return nil, err
	}

	return q, nil
}

// recoverStaleJobs requeues jobs left running by a previous process. The
// queue is opened before any worker claims, so a running row at open time
// can only come from a crash; the ingestion pipeline tolerates re-runs.
func (q *Queue) recoverStaleJobs() error {
	_, err := q.db.Exec(`
		UPDATE ingest_jobs SET status = ?, started_at = NULL WHERE status = ?
	`, string(domain.JobPending), string(domain.JobRunning))
	if err != nil {
		return fmt.Errorf("recovering stale jobs: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (q *Queue) Close() error {
	return q.db.Close()
}

// Path returns the database file path.
func (q *Queue) Path() string {
	return q.path
}

// Enqueue adds a pending job.
func (q *Queue) Enqueue(ctx context.Context, job domain.IngestJob) error {
	enqueuedAt := job.EnqueuedAt
	if enqueuedAt.IsZero() {
		enqueuedAt = time.Now().UTC()
	}

	_, err := q.db.ExecContext(ctx, `
		INSERT INTO ingest_jobs (id, document_id, file_path, filename, status, enqueued_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, job.ID, job.DocumentID, job.FilePath, job.Filename, string(domain.JobPending), enqueuedAt)
	if err != nil {
		return fmt.Errorf("enqueueing job %s: %w", job.ID, err)
	}
	return nil
}

// Claim atomically takes the oldest pending job and marks it running.
// Returns nil with no error when the queue is empty.
func (q *Queue) Claim(ctx context.Context) (*domain.IngestJob, error) {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning claim transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT id, document_id, file_path, filename, enqueued_at
		FROM ingest_jobs
		WHERE status = ?
		ORDER BY enqueued_at, id
		LIMIT 1
	`, string(domain.JobPending))

	var job domain.IngestJob
	if err := row.Scan(&job.ID, &job.DocumentID, &job.FilePath, &job.Filename, &job.EnqueuedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("selecting pending job: %w", err)
	}

	startedAt := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		UPDATE ingest_jobs SET status = ?, started_at = ? WHERE id = ?
	`, string(domain.JobRunning), startedAt, job.ID); err != nil {
		return nil, fmt.Errorf("marking job %s running: %w", job.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing claim: %w", err)
	}

	job.Status = domain.JobRunning
	job.StartedAt = startedAt
	return &job, nil
}

// Complete marks a claimed job completed with its chunk count.
func (q *Queue) Complete(ctx context.Context, jobID string, chunksProcessed int) error {
	return q.finish(ctx, jobID, domain.JobCompleted, "", chunksProcessed)
}

// Fail marks a claimed job failed, recording the cause.
func (q *Queue) Fail(ctx context.Context, jobID string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return q.finish(ctx, jobID, domain.JobFailed, msg, 0)
}

func (q *Queue) finish(ctx context.Context, jobID string, status domain.JobStatus, errMsg string, chunks int) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE ingest_jobs
		SET status = ?, error = ?, chunks_processed = ?, finished_at = ?
		WHERE id = ?
	`, string(status), errMsg, chunks, time.Now().UTC(), jobID)
	if err != nil {
		return fmt.Errorf("finishing job %s: %w", jobID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: job %s", domain.ErrNotFound, jobID)
	}
	return nil
}

// Pending returns the number of jobs waiting to be claimed.
func (q *Queue) Pending(ctx context.Context) (int, error) {
	var count int
	row := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM ingest_jobs WHERE status = ?", string(domain.JobPending))
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting pending jobs: %w", err)
	}
	return count, nil
}

// Get returns one job by id.
func (q *Queue) Get(ctx context.Context, jobID string) (*domain.IngestJob, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, document_id, file_path, filename, status, error, chunks_processed,
		       enqueued_at, started_at, finished_at
		FROM ingest_jobs WHERE id = ?
	`, jobID)

	var job domain.IngestJob
	var status string
	var startedAt, finishedAt sql.NullTime
	err := row.Scan(&job.ID, &job.DocumentID, &job.FilePath, &job.Filename,
		&status, &job.Error, &job.ChunksProcessed, &job.EnqueuedAt, &startedAt, &finishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: job %s", domain.ErrNotFound, jobID)
		}
		return nil, fmt.Errorf("getting job %s: %w", jobID, err)
	}

	job.Status = domain.JobStatus(status)
	if startedAt.Valid {
		job.StartedAt = startedAt.Time
	}
	if finishedAt.Valid {
		job.FinishedAt = finishedAt.Time
	}
	return &job, nil
}

// migrate applies embedded .up.sql files newer than the current version.
func (q *Queue) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := q.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := q.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := q.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}
