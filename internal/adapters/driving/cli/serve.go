package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/docqa/internal/adapters/driving/watcher"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/logger"
)

var serveMemoryIndex bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the document question answering API.

Endpoints:
  POST /upload  - upload a PDF for ingestion
  POST /query   - ask a question against the indexed documents
  GET  /health  - service and backend health

When the queue is enabled in configuration, uploads are processed
asynchronously by a background worker. A watch directory can be
configured to ingest PDFs dropped into a folder.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMemoryIndex, "memory", false,
		"keep the vector index in process instead of Qdrant (volatile)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ensureServices(ctx, serviceOptions{withQueue: true, memoryIndex: serveMemoryIndex}); err != nil {
		return err
	}
	defer closeServices()

	server, err := httpapi.New(httpapi.Config{
		UploadDir: appCfg.Ingest.UploadDir,
		Answerer:  answerService,
		Ingestor:  ingestService,
		Queue:     jobQueue,
		Index:     vectorIndex,
	})
	if err != nil {
		return err
	}

	var worker *services.Worker
	if jobQueue != nil {
		worker = services.NewWorker(jobQueue, ingestService, time.Duration(appCfg.Queue.PollInterval))
		go func() {
			if err := worker.Start(ctx); err != nil {
				logger.Warn("worker stopped: %v", err)
			}
		}()
		defer worker.Stop() //nolint:errcheck
	}

	if appCfg.Watch.Dir != "" && jobQueue != nil {
		w := watcher.New(appCfg.Watch.Dir, jobQueue)
		go func() {
			if err := w.Start(ctx); err != nil {
				logger.Warn("watcher stopped: %v", err)
			}
		}()
		defer w.Stop() //nolint:errcheck
		logger.Info("Watching %s for PDFs", appCfg.Watch.Dir)
	}

	httpServer := &http.Server{
		Addr:              appCfg.Server.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "docqa listening on %s\n", appCfg.Server.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
