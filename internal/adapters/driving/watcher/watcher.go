// Package watcher enqueues ingestion jobs for PDF files dropped into a
// watched directory. The dropped file itself is the ingestion source, so a
// successfully processed file disappears from the folder.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// settleDelay is how long a file must be quiet before it is enqueued.
// Drops are not atomic; enqueueing on the first write event would hand the
// pipeline a half-copied file.
const settleDelay = 500 * time.Millisecond

// Watcher watches one directory and enqueues every PDF that appears in it.
type Watcher struct {
	dir   string
	queue driven.JobQueue

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
	pending map[string]*time.Timer
}

// New creates a watcher for dir.
func New(dir string, queue driven.JobQueue) *Watcher {
	return &Watcher{
		dir:     dir,
		queue:   queue,
		pending: make(map[string]*time.Timer),
	}
}

// Start begins watching. Any PDFs already in the directory are enqueued
// first, so files dropped while the process was down are not lost. This
// method blocks until Stop is called or the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil // Already running
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return err
	}
	logger.Info("Watching %s for PDF drops", w.dir)

	w.enqueueExisting(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.scheduleEnqueue(ctx, event.Name)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// Stop shuts down the watcher and waits for in-flight enqueues.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.stopCh)
	for path, timer := range w.pending {
		if timer.Stop() {
			w.wg.Done() // Timer never fired; release its slot ourselves
		}
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.wg.Wait()
	return nil
}

// enqueueExisting picks up PDFs that were dropped while nothing watched.
func (w *Watcher) enqueueExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		logger.Warn("Scanning %s: %v", w.dir, err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if isPDF(path) {
			w.enqueue(ctx, path)
		}
	}
}

// scheduleEnqueue defers the enqueue until the file has been quiet for
// settleDelay. Repeated write events reset the timer.
func (w *Watcher) scheduleEnqueue(ctx context.Context, path string) {
	if !isPDF(path) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}

	if timer, ok := w.pending[path]; ok {
		timer.Reset(settleDelay)
		return
	}

	w.wg.Add(1)
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		defer w.wg.Done()

		w.mu.Lock()
		delete(w.pending, path)
		stopped := !w.running
		w.mu.Unlock()
		if stopped {
			return
		}

		w.enqueue(ctx, path)
	})
}

func (w *Watcher) enqueue(ctx context.Context, path string) {
	// The file may already be gone (processed or removed by hand).
	if _, err := os.Stat(path); err != nil {
		return
	}

	job := domain.IngestJob{
		ID:         uuid.New().String(),
		DocumentID: uuid.New().String(),
		FilePath:   path,
		Filename:   filepath.Base(path),
	}
	if err := w.queue.Enqueue(ctx, job); err != nil {
		logger.Warn("Enqueueing dropped file %s: %v", path, err)
		return
	}
	logger.Info("Enqueued dropped file %s as document %s", job.Filename, job.DocumentID)
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
