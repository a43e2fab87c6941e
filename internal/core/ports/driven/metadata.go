package driven

import (
	"context"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// MetadataStore persists document records, their chunks, and query
// logs. Backed by SQLite; an in-memory implementation exists for tests.
type MetadataStore interface {
	// SaveDocument stores or updates a document record.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentBySource retrieves a document by source name.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocumentBySource(ctx context.Context, sourceName string) (*domain.Document, error)

	// GetAllowedRoles returns the roles permitted to retrieve the
	// document's chunks. Returns domain.ErrNotFound for unknown ids.
	GetAllowedRoles(ctx context.Context, documentID string) ([]domain.Role, error)

	// RecordIngestion marks a document as fully ingested with the
	// given chunk count.
	RecordIngestion(ctx context.Context, documentID string, chunkCount int) error

	// SaveChunks stores the chunks (including embeddings) for a
	// document, replacing any previous set.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// ListChunks returns every persisted chunk. Used to rebuild the
	// vector index at startup.
	ListChunks(ctx context.Context) ([]domain.Chunk, error)

	// ListDocuments returns all document records.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// SaveQueryLog records a processed query for analytics.
	SaveQueryLog(ctx context.Context, log domain.QueryLog) error

	// Close releases resources.
	Close() error
}
