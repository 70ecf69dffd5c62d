package mcp

import (
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer answers questions from the indexed documents.
	Answer driving.AnswerService

	// Index exposes backend health for the status resource. Optional.
	Index driven.VectorIndex

	// Queue exposes the pending job count for the status resource. Optional.
	Queue driven.JobQueue
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	// Index and Queue only feed the status resource.
	return nil
}
