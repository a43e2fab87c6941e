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
//   - EmbeddingService: Generates vector embeddings for chunks and queries
//   - VectorIndex: Stores embeddings and answers nearest-neighbour queries
//   - MetadataStore: Document records, allowed roles, chunks, query logs
//   - PostProcessorPipeline: Turns raw document text into chunks
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Generative answer synthesis. Without it, answers are
//     produced by the template strategy.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
