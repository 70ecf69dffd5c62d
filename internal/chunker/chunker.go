// Package chunker splits extracted document text into overlapping
// fixed-size chunks, the unit of retrieval.
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Boundary separators tried in preference order when looking for a natural
// cut point. Hard character cuts are the fallback when none is in range.
var separators = []string{"\n\n", "\n", ". ", "! ", "? ", " "}

// Chunker splits text into chunks of at most size characters, where
// consecutive chunks overlap by overlap characters. Sizes are measured in
// runes so multi-byte text is never cut mid-character.
//
// Chunker is pure and deterministic; a single instance is safe for
// concurrent use.
type Chunker struct {
	size    int
	overlap int
}

// New creates a chunker. The overlap must be smaller than the chunk size
// and the size at least 1; anything else is a configuration error.
func New(size, overlap int) (*Chunker, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: chunk size must be at least 1, got %d", domain.ErrConfiguration, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap %d must be in [0, %d)", domain.ErrConfiguration, overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunk splits text into ordered chunks carrying base metadata merged with
// chunk_index and total_chunks. The total is only knowable after the full
// split, so metadata attachment is a second pass. Empty input yields an
// empty sequence, not an error.
func (c *Chunker) Chunk(text, documentID string, base map[string]any) []domain.Chunk {
	pieces := c.split(text)
	if len(pieces) == 0 {
		return nil
	}

	chunks := make([]domain.Chunk, len(pieces))
	for i, piece := range pieces {
		meta := make(map[string]any, len(base)+2)
		for k, v := range base {
			meta[k] = v
		}
		meta[domain.MetaChunkIndex] = i
		meta[domain.MetaTotalChunks] = len(pieces)

		chunks[i] = domain.Chunk{
			DocumentID: documentID,
			Content:    piece,
			Index:      i,
			Metadata:   meta,
		}
	}
	return chunks
}

// split produces the raw chunk texts. Chunks are contiguous slices of the
// input: each chunk starts exactly overlap characters before the previous
// chunk's end, so concatenating the non-overlapping regions reconstructs
// the original text.
func (c *Chunker) split(text string) []string {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	estimated := n/(c.size-c.overlap) + 1
	pieces := make([]string, 0, estimated)

	start := 0
	for start < n {
		end := start + c.size
		if end >= n {
			end = n
		} else if cut := c.naturalCut(runes[start:end]); cut > 0 {
			end = start + cut
		}

		pieces = append(pieces, string(runes[start:end]))
		if end == n {
			break
		}

		next := end - c.overlap
		if next <= start {
			// The chunk was shorter than the overlap; jump to its end
			// rather than loop forever.
			next = end
		}
		start = next
	}

	return pieces
}

// naturalCut returns the rune offset just past the latest natural boundary
// in the window, or 0 when no boundary falls in the window's second half.
// Restricting cuts to the second half keeps chunks from collapsing far
// below the configured size.
func (c *Chunker) naturalCut(window []rune) int {
	s := string(window)
	half := len(window) / 2

	for _, sep := range separators {
		idx := strings.LastIndex(s, sep)
		if idx < 0 {
			continue
		}
		cut := utf8.RuneCountInString(s[:idx+len(sep)])
		if cut > half {
			return cut
		}
	}
	return 0
}
