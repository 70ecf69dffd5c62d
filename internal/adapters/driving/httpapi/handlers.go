package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/logger"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Document Question Answering API",
		"version": Version,
		"endpoints": map[string]string{
			"health": "/health",
			"upload": "/upload",
			"query":  "/query",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	connected := s.index.HealthCheck(r.Context())

	status := "healthy"
	if !connected {
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:           status,
		BackendConnected: connected,
		Timestamp:        time.Now().UTC(),
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		writeError(w, http.StatusBadRequest, "Only PDF files are supported")
		return
	}

	documentID := uuid.New().String()
	path := filepath.Join(s.uploadDir, documentID+"_"+filename)

	dst, err := os.Create(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("saving upload: %v", err))
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(path)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("saving upload: %v", err))
		return
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("saving upload: %v", err))
		return
	}

	job := domain.IngestJob{
		ID:         uuid.New().String(),
		DocumentID: documentID,
		FilePath:   path,
		Filename:   filename,
	}

	if s.queue != nil {
		if err := s.queue.Enqueue(r.Context(), job); err != nil {
			os.Remove(path)
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("enqueueing document: %v", err))
			return
		}
		logger.Info("Enqueued document %s (%s)", documentID, filename)
		writeJSON(w, http.StatusOK, UploadResponse{
			DocumentID: documentID,
			Filename:   filename,
			Status:     "processing",
			Message:    "Document uploaded successfully and is being processed",
		})
		return
	}

	// No queue configured: process before responding.
	result := s.ingestor.Ingest(r.Context(), job)
	if !result.Success {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing document: %v", result.Err))
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		DocumentID: documentID,
		Filename:   filename,
		Status:     "completed",
		Message:    "Document processed successfully (synchronous mode)",
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := s.answerer.Ask(r.Context(), domain.Query{Text: req.Query, TopK: req.TopK})
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, domain.ErrNoRelevantDocuments):
		writeError(w, http.StatusNotFound, "No relevant documents found. Please upload documents first.")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing query: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Query:          req.Query,
		Answer:         answer.Text,
		Sources:        answer.Sources,
		ProcessingTime: answer.Duration.Seconds(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
