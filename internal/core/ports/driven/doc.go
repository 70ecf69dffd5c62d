// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TextExtractor: Turns an uploaded byte stream into plain text
//   - EmbeddingService: Generates vector embeddings for chunks and queries
//   - VectorIndex: Stores embeddings and answers similarity searches
//   - LLMService: Language model completion for answer synthesis
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - JobQueue: Durable asynchronous ingestion. Without it, uploads are
//     processed inline before the response is returned.
//   - CommandRunner: Only needed by extractor adapters that shell out.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
