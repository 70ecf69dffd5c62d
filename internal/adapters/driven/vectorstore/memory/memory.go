// Package memory provides an in-memory vector index for development and
// tests. Search is a brute-force cosine scan, which is fine at the scale a
// single process ever holds.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// point is one stored chunk with its insertion sequence number.
type point struct {
	id       string
	content  string
	metadata map[string]any
	vector   []float32
	seq      int
}

// Index stores vectors in process memory.
type Index struct {
	mu         sync.RWMutex
	dimensions int
	points     map[string]point
	nextSeq    int
}

// NewIndex creates an in-memory index for vectors of the given size.
func NewIndex(dimensions int) (*Index, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrConfiguration, dimensions)
	}
	return &Index{
		dimensions: dimensions,
		points:     make(map[string]point),
	}, nil
}

// EnsureReady is a no-op; the map is ready as soon as it exists.
func (x *Index) EnsureReady(_ context.Context) error {
	return nil
}

// Upsert stores the chunks and returns their ids in chunk order.
func (x *Index) Upsert(_ context.Context, chunks []domain.Chunk) ([]string, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	ids := make([]string, len(chunks))
	for i, ch := range chunks {
		if ch.Content == "" {
			return nil, fmt.Errorf("%w: chunk %d has empty content", domain.ErrInvalidInput, i)
		}
		if len(ch.Embedding) != x.dimensions {
			return nil, fmt.Errorf("%w: chunk %d has %d dimensions, expected %d",
				domain.ErrInvalidInput, i, len(ch.Embedding), x.dimensions)
		}

		id := ch.ID
		if id == "" {
			id = uuid.New().String()
		}
		ids[i] = id

		metadata := make(map[string]any, len(ch.Metadata))
		for k, v := range ch.Metadata {
			metadata[k] = v
		}
		vector := make([]float32, len(ch.Embedding))
		copy(vector, ch.Embedding)

		seq := x.nextSeq
		if existing, ok := x.points[id]; ok {
			seq = existing.seq // Overwrites keep their original position
		} else {
			x.nextSeq++
		}
		x.points[id] = point{
			id:       id,
			content:  ch.Content,
			metadata: metadata,
			vector:   vector,
			seq:      seq,
		}
	}
	return ids, nil
}

// Search scans every stored point and returns the topK by descending
// cosine similarity. Ties break by insertion order, oldest first.
func (x *Index) Search(_ context.Context, vector []float32, topK int) ([]domain.RetrievedMatch, error) {
	if len(vector) != x.dimensions {
		return nil, fmt.Errorf("%w: query vector has %d dimensions, expected %d",
			domain.ErrInvalidInput, len(vector), x.dimensions)
	}
	if topK <= 0 {
		return []domain.RetrievedMatch{}, nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	type scored struct {
		p     point
		score float64
	}
	results := make([]scored, 0, len(x.points))
	for _, p := range x.points {
		results = append(results, scored{p: p, score: cosineSimilarity(vector, p.vector)})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].p.seq < results[j].p.seq
	})

	if topK < len(results) {
		results = results[:topK]
	}

	matches := make([]domain.RetrievedMatch, len(results))
	for i, r := range results {
		metadata := make(map[string]any, len(r.p.metadata))
		for k, v := range r.p.metadata {
			metadata[k] = v
		}
		matches[i] = domain.RetrievedMatch{
			Content:  r.p.content,
			Metadata: metadata,
			Score:    r.score,
		}
	}
	return matches, nil
}

// DeleteByDocument removes every point whose metadata carries documentID.
func (x *Index) DeleteByDocument(_ context.Context, documentID string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	for id, p := range x.points {
		if docID, ok := p.metadata[domain.MetaDocumentID].(string); ok && docID == documentID {
			delete(x.points, id)
		}
	}
	return nil
}

// HealthCheck always succeeds for an in-process store.
func (x *Index) HealthCheck(_ context.Context) bool {
	return true
}

// Close releases resources.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.points = make(map[string]point)
	return nil
}

// Len returns the number of stored points.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.points)
}

// cosineSimilarity returns a value between -1 and 1, where 1 means
// identical direction. Zero vectors score 0 against everything.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
