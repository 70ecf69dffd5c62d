package httpapi

import (
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// UploadResponse is returned by POST /upload.
type UploadResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// QueryResponse is returned by POST /query.
type QueryResponse struct {
	Query   string                  `json:"query"`
	Answer  string                  `json:"answer"`
	Sources []domain.RetrievedMatch `json:"sources"`

	// ProcessingTime is the answer synthesis duration in seconds.
	ProcessingTime float64 `json:"processing_time"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status           string    `json:"status"`
	BackendConnected bool      `json:"backend_connected"`
	Timestamp        time.Time `json:"timestamp"`
}

// ErrorResponse carries a human-readable error message.
type ErrorResponse struct {
	Error string `json:"error"`
}
