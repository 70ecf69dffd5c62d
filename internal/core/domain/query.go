package domain

import (
	"fmt"
	"strings"
	"time"
)

// Result count bounds for a query.
const (
	MinTopK     = 1
	MaxTopK     = 20
	DefaultTopK = 5
)

// Query is one user question. Ephemeral; never persisted.
type Query struct {
	// Text is the question. Must be non-empty after trimming.
	Text string

	// TopK is the requested result count. Zero means DefaultTopK;
	// otherwise it must lie in [MinTopK, MaxTopK].
	TopK int
}

// Normalise validates the query and applies the default result count.
func (q Query) Normalise() (Query, error) {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return q, fmt.Errorf("%w: query text is empty", ErrInvalidInput)
	}
	if q.TopK == 0 {
		q.TopK = DefaultTopK
	}
	if q.TopK < MinTopK || q.TopK > MaxTopK {
		return q, fmt.Errorf("%w: top_k must be between %d and %d", ErrInvalidInput, MinTopK, MaxTopK)
	}
	return q, nil
}

// RetrievedMatch is one similarity search result. Scores are monotonic
// under the index's native metric: higher means more similar.
type RetrievedMatch struct {
	// Content is the matched chunk's text.
	Content string `json:"content"`

	// Metadata is the matched chunk's stored metadata.
	Metadata map[string]any `json:"metadata"`

	// Score is the similarity score.
	Score float64 `json:"score"`
}

// Answer is the output of answer synthesis. Ephemeral; returned to the
// caller, never persisted.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources is the ordered list of matches the answer was grounded in.
	Sources []RetrievedMatch

	// Duration is the wall-clock time of the synthesis call.
	Duration time.Duration
}
