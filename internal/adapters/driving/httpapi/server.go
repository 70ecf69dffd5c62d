// Package httpapi exposes the upload and query pipelines over HTTP.
package httpapi

import (
	"fmt"
	"net/http"
	"os"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Version reported by the root endpoint.
const Version = "1.0.0"

// Config configures a new Server instance.
type Config struct {
	// UploadDir is where uploaded files are staged before ingestion.
	UploadDir string

	// Answerer runs the query pipeline (required).
	Answerer driving.AnswerService

	// Ingestor runs the ingestion pipeline inline when no queue is
	// configured (required).
	Ingestor driving.IngestionService

	// Queue dispatches uploads for asynchronous processing. Optional:
	// when nil, uploads are ingested before the response returns.
	Queue driven.JobQueue

	// Index answers the health check (required).
	Index driven.VectorIndex
}

// Server is the HTTP API for the document question answering service.
type Server struct {
	uploadDir string
	answerer  driving.AnswerService
	ingestor  driving.IngestionService
	queue     driven.JobQueue
	index     driven.VectorIndex
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Answerer == nil || cfg.Ingestor == nil || cfg.Index == nil {
		return nil, fmt.Errorf("httpapi: answerer, ingestor and index are required")
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}
	if err := os.MkdirAll(cfg.UploadDir, 0700); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	return &Server{
		uploadDir: cfg.UploadDir,
		answerer:  cfg.Answerer,
		ingestor:  cfg.Ingestor,
		queue:     cfg.Queue,
		index:     cfg.Index,
	}, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("POST /query", s.handleQuery)

	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
