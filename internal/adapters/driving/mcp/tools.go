package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed documents"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of document chunks to retrieve (default 5, max 20)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Sources []SourceOutput `json:"sources"`
	Count   int            `json:"count"`
}

// SourceOutput represents one retrieved chunk the answer was grounded in.
type SourceOutput struct {
	Filename   string  `json:"filename"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float64 `json:"score"`
	Content    string  `json:"content,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using the indexed documents",
	}, s.handleAsk)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	query := domain.Query{Text: input.Question, TopK: input.TopK}

	answer, err := s.ports.Answer.Ask(ctx, query)
	if errors.Is(err, domain.ErrNoRelevantDocuments) {
		return nil, AskOutput{
			Answer:  "No relevant documents found. Upload documents first.",
			Sources: []SourceOutput{},
		}, nil
	}
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:  answer.Text,
		Sources: make([]SourceOutput, len(answer.Sources)),
		Count:   len(answer.Sources),
	}

	for i, src := range answer.Sources {
		output.Sources[i] = SourceOutput{
			Filename:   metaString(src.Metadata, domain.MetaFilename),
			ChunkIndex: metaInt(src.Metadata, domain.MetaChunkIndex),
			Score:      src.Score,
			Content:    src.Content,
		}
	}

	return nil, output, nil
}

func metaString(metadata map[string]any, key string) string {
	if v, ok := metadata[key].(string); ok {
		return v
	}
	return ""
}

// metaInt reads an integer metadata value. Backends that round-trip
// payloads through JSON hand integers back as float64.
func metaInt(metadata map[string]any, key string) int {
	switch v := metadata[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
