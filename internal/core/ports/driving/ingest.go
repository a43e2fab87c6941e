package driving

import (
	"context"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// IngestRequest carries one document into the ingestion pipeline.
type IngestRequest struct {
	// Text is the raw extracted document text (UTF-8, no structure).
	Text string

	// SourceName is the human-readable origin, typically a filename.
	SourceName string

	// DocumentID identifies the document. Empty means a new id is
	// generated; re-ingesting an existing id replaces its chunks.
	DocumentID string

	// AllowedRoles gates retrieval of the document's chunks.
	// Empty defaults to all roles.
	AllowedRoles []domain.Role
}

// IngestResult reports a completed ingestion.
type IngestResult struct {
	// DocumentID is the (possibly generated) document id.
	DocumentID string

	// ChunkCount is the number of chunks indexed.
	ChunkCount int
}

// IngestionService converts raw document text into indexed chunks.
// Ingestion is all-or-nothing per document: any failure rolls back
// and leaves no partial chunks in the index.
type IngestionService interface {
	// Ingest chunks, embeds and indexes one document.
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)

	// Remove deletes a document, its chunks, and its index entries.
	Remove(ctx context.Context, documentID string) error

	// List returns all ingested document records.
	List(ctx context.Context) ([]domain.Document, error)
}
