// Package domain defines the core business entities for Docqa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: an ingested document with access metadata
//   - Chunk: the unit of retrieval within a document
//   - RetrievalResult: a chunk with its normalised similarity score
//   - QueryResponse: the externally visible answer object
//   - Role: the access-level tag gating retrieval
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
