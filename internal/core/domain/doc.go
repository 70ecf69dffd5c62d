// Package domain defines the core business entities for docqa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded document moving through ingestion
//   - Chunk: The unit of retrievable text
//   - Query: A user question with a bounded result count
//   - RetrievedMatch: One similarity search hit
//   - Answer: A synthesised answer with its supporting sources
//   - IngestJob: The unit of work handed to the job queue
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
