// Package qdrant provides a vector index adapter backed by Qdrant's REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultURL        = "http://localhost:6333"
	DefaultCollection = "documents"
	DefaultTimeout    = 30 * time.Second

	// upsertBatchSize bounds the points per upsert request so large
	// documents don't exceed Qdrant's payload limits.
	upsertBatchSize = 100
)

// Config holds configuration for the Qdrant index.
type Config struct {
	// URL is the Qdrant base URL (default: http://localhost:6333).
	URL string

	// APIKey authenticates requests. Optional for local deployments.
	APIKey string

	// Collection is the collection name (default: documents).
	Collection string

	// Dimensions is the vector size the collection stores (required).
	Dimensions int

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Index stores chunk embeddings in a Qdrant collection using cosine
// distance.
type Index struct {
	client     *http.Client
	url        string
	apiKey     string
	collection string
	dimensions int
}

// NewIndex creates a Qdrant-backed vector index.
func NewIndex(cfg Config) (*Index, error) {
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("%w: qdrant dimensions must be positive, got %d", domain.ErrConfiguration, cfg.Dimensions)
	}
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Index{
		client:     &http.Client{Timeout: cfg.Timeout},
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimensions: cfg.Dimensions,
	}, nil
}

// collectionInfo is the subset of Qdrant's collection response we verify.
type collectionInfo struct {
	Result struct {
		Config struct {
			Params struct {
				Vectors struct {
					Size     int    `json:"size"`
					Distance string `json:"distance"`
				} `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

// EnsureReady checks the collection exists with the configured dimensions,
// creating it when absent. A collection with mismatched dimensions is a
// configuration error, not something to silently recreate.
func (x *Index) EnsureReady(ctx context.Context) error {
	status, body, err := x.do(ctx, http.MethodGet, x.collectionURL(), nil)
	if err != nil {
		return fmt.Errorf("%w: checking collection: %v", domain.ErrIndex, err)
	}

	switch {
	case status == http.StatusOK:
		var info collectionInfo
		if err := json.Unmarshal(body, &info); err != nil {
			return fmt.Errorf("%w: decoding collection info: %v", domain.ErrIndex, err)
		}
		if got := info.Result.Config.Params.Vectors.Size; got != x.dimensions {
			return fmt.Errorf("%w: collection %q has %d dimensions, expected %d",
				domain.ErrConfiguration, x.collection, got, x.dimensions)
		}
		return nil

	case status == http.StatusNotFound:
		logger.Info("Creating Qdrant collection %q (%d dimensions, cosine)", x.collection, x.dimensions)
		create := map[string]any{
			"vectors": map[string]any{
				"size":     x.dimensions,
				"distance": "Cosine",
			},
		}
		status, body, err := x.do(ctx, http.MethodPut, x.collectionURL(), create)
		if err != nil {
			return fmt.Errorf("%w: creating collection: %v", domain.ErrIndex, err)
		}
		if status >= 300 {
			return fmt.Errorf("%w: creating collection: status %d: %s", domain.ErrIndex, status, body)
		}
		return nil

	default:
		return fmt.Errorf("%w: checking collection: status %d: %s", domain.ErrIndex, status, body)
	}
}

// Upsert writes chunks in batches and returns the generated point ids in
// chunk order. Chunks that already carry an id keep it, so re-ingesting
// the same chunk overwrites rather than duplicates.
func (x *Index) Upsert(ctx context.Context, chunks []domain.Chunk) ([]string, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	ids := make([]string, len(chunks))
	points := make([]map[string]any, len(chunks))
	for i, ch := range chunks {
		id := ch.ID
		if id == "" {
			id = uuid.New().String()
		}
		ids[i] = id

		payload := map[string]any{"content": ch.Content}
		for k, v := range ch.Metadata {
			payload[k] = v
		}

		points[i] = map[string]any{
			"id":      id,
			"vector":  ch.Embedding,
			"payload": payload,
		}
	}

	for start := 0; start < len(points); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(points) {
			end = len(points)
		}

		body := map[string]any{"points": points[start:end]}
		status, respBody, err := x.do(ctx, http.MethodPut, x.collectionURL()+"/points?wait=true", body)
		if err != nil {
			return nil, fmt.Errorf("%w: upserting points: %v", domain.ErrIndex, err)
		}
		if status >= 300 {
			return nil, fmt.Errorf("%w: upserting points: status %d: %s", domain.ErrIndex, status, respBody)
		}
		logger.Debug("Upserted points %d-%d of %d", start, end-1, len(points))
	}

	return ids, nil
}

// searchResponse is Qdrant's points/search result shape.
type searchResponse struct {
	Result []struct {
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// Search returns the topK most similar stored chunks.
func (x *Index) Search(ctx context.Context, vector []float32, topK int) ([]domain.RetrievedMatch, error) {
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}

	status, body, err := x.do(ctx, http.MethodPost, x.collectionURL()+"/points/search", req)
	if err != nil {
		return nil, fmt.Errorf("%w: searching: %v", domain.ErrIndex, err)
	}
	if status >= 300 {
		return nil, fmt.Errorf("%w: searching: status %d: %s", domain.ErrIndex, status, body)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding search response: %v", domain.ErrIndex, err)
	}

	matches := make([]domain.RetrievedMatch, 0, len(resp.Result))
	for _, r := range resp.Result {
		content, _ := r.Payload["content"].(string)
		metadata := make(map[string]any, len(r.Payload))
		for k, v := range r.Payload {
			if k == "content" {
				continue
			}
			metadata[k] = v
		}
		matches = append(matches, domain.RetrievedMatch{
			Content:  content,
			Metadata: metadata,
			Score:    r.Score,
		})
	}
	return matches, nil
}

// DeleteByDocument removes every point whose payload carries documentID.
func (x *Index) DeleteByDocument(ctx context.Context, documentID string) error {
	req := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{
					"key":   domain.MetaDocumentID,
					"match": map[string]any{"value": documentID},
				},
			},
		},
	}

	status, body, err := x.do(ctx, http.MethodPost, x.collectionURL()+"/points/delete?wait=true", req)
	if err != nil {
		return fmt.Errorf("%w: deleting document %s: %v", domain.ErrIndex, documentID, err)
	}
	if status >= 300 {
		return fmt.Errorf("%w: deleting document %s: status %d: %s", domain.ErrIndex, documentID, status, body)
	}
	return nil
}

// HealthCheck reports whether Qdrant answers its liveness endpoint.
func (x *Index) HealthCheck(ctx context.Context) bool {
	status, _, err := x.do(ctx, http.MethodGet, x.url+"/healthz", nil)
	return err == nil && status == http.StatusOK
}

// Close releases resources.
func (x *Index) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

func (x *Index) collectionURL() string {
	return fmt.Sprintf("%s/collections/%s", x.url, x.collection)
}

// do executes one JSON request and returns the status code and body.
func (x *Index) do(ctx context.Context, method, url string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if x.apiKey != "" {
		req.Header.Set("api-key", x.apiKey)
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}
