package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func newIndex(t *testing.T) *Index {
	t.Helper()
	x, err := NewIndex(3)
	require.NoError(t, err)
	return x
}

func chunk(docID, content string, vec []float32) domain.Chunk {
	return domain.Chunk{
		DocumentID: docID,
		Content:    content,
		Embedding:  vec,
		Metadata:   map[string]any{domain.MetaDocumentID: docID},
	}
}

func TestNewIndex_InvalidDimensions(t *testing.T) {
	_, err := NewIndex(0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestUpsertAndSearch(t *testing.T) {
	x := newIndex(t)
	ctx := context.Background()

	ids, err := x.Upsert(ctx, []domain.Chunk{
		chunk("doc-1", "points east", []float32{1, 0, 0}),
		chunk("doc-1", "points north", []float32{0, 1, 0}),
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])

	matches, err := x.Search(ctx, []float32{1, 0.1, 0}, 5)
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, "points east", matches[0].Content)
	assert.Greater(t, matches[0].Score, matches[1].Score)
	assert.Equal(t, "doc-1", matches[0].Metadata[domain.MetaDocumentID])
}

func TestSearch_RespectsTopK(t *testing.T) {
	x := newIndex(t)
	ctx := context.Background()

	_, err := x.Upsert(ctx, []domain.Chunk{
		chunk("doc-1", "a", []float32{1, 0, 0}),
		chunk("doc-1", "b", []float32{0.9, 0.1, 0}),
		chunk("doc-1", "c", []float32{0, 0, 1}),
	})
	require.NoError(t, err)

	matches, err := x.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestSearch_NonPositiveTopK(t *testing.T) {
	x := newIndex(t)
	ctx := context.Background()

	_, err := x.Upsert(ctx, []domain.Chunk{
		chunk("doc-1", "a", []float32{1, 0, 0}),
	})
	require.NoError(t, err)

	for _, topK := range []int{0, -1} {
		matches, err := x.Search(ctx, []float32{1, 0, 0}, topK)
		require.NoError(t, err, "topK=%d", topK)
		assert.Empty(t, matches, "topK=%d", topK)
	}
}

func TestSearch_EmptyIndex(t *testing.T) {
	x := newIndex(t)

	matches, err := x.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearch_TiesBreakByInsertionOrder(t *testing.T) {
	x := newIndex(t)
	ctx := context.Background()

	// Identical vectors score identically against any query.
	_, err := x.Upsert(ctx, []domain.Chunk{
		chunk("doc-1", "inserted first", []float32{1, 0, 0}),
		chunk("doc-1", "inserted second", []float32{1, 0, 0}),
		chunk("doc-1", "inserted third", []float32{1, 0, 0}),
	})
	require.NoError(t, err)

	matches, err := x.Search(ctx, []float32{1, 0, 0}, 3)
	require.NoError(t, err)

	require.Len(t, matches, 3)
	assert.Equal(t, "inserted first", matches[0].Content)
	assert.Equal(t, "inserted second", matches[1].Content)
	assert.Equal(t, "inserted third", matches[2].Content)
}

func TestSearch_DimensionMismatch(t *testing.T) {
	x := newIndex(t)

	_, err := x.Search(context.Background(), []float32{1, 0}, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpsert_Validation(t *testing.T) {
	x := newIndex(t)
	ctx := context.Background()

	t.Run("empty content", func(t *testing.T) {
		_, err := x.Upsert(ctx, []domain.Chunk{chunk("doc-1", "", []float32{1, 0, 0})})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("wrong dimensions", func(t *testing.T) {
		_, err := x.Upsert(ctx, []domain.Chunk{chunk("doc-1", "c", []float32{1, 0})})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestUpsert_OverwritesByID(t *testing.T) {
	x := newIndex(t)
	ctx := context.Background()

	ids, err := x.Upsert(ctx, []domain.Chunk{chunk("doc-1", "original", []float32{1, 0, 0})})
	require.NoError(t, err)

	updated := chunk("doc-1", "updated", []float32{1, 0, 0})
	updated.ID = ids[0]
	again, err := x.Upsert(ctx, []domain.Chunk{updated})
	require.NoError(t, err)

	assert.Equal(t, ids, again)
	assert.Equal(t, 1, x.Len())

	matches, err := x.Search(ctx, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "updated", matches[0].Content)
}

func TestDeleteByDocument(t *testing.T) {
	x := newIndex(t)
	ctx := context.Background()

	_, err := x.Upsert(ctx, []domain.Chunk{
		chunk("doc-1", "keep me not", []float32{1, 0, 0}),
		chunk("doc-1", "nor me", []float32{0, 1, 0}),
		chunk("doc-2", "survivor", []float32{0, 0, 1}),
	})
	require.NoError(t, err)

	require.NoError(t, x.DeleteByDocument(ctx, "doc-1"))
	assert.Equal(t, 1, x.Len())

	matches, err := x.Search(ctx, []float32{0, 0, 1}, 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "survivor", matches[0].Content)
}

func TestDeleteByDocument_NoMatches(t *testing.T) {
	x := newIndex(t)
	assert.NoError(t, x.DeleteByDocument(context.Background(), "missing"))
}

func TestHealthCheck(t *testing.T) {
	x := newIndex(t)
	assert.True(t, x.HealthCheck(context.Background()))
}
