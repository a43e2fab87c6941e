package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

// Ensure MetadataStore implements the interface.
var _ driven.MetadataStore = (*MetadataStore)(nil)

// MetadataStore is an in-memory implementation of driven.MetadataStore.
// Used in tests and as a fallback when no database path is configured.
type MetadataStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk
	queryLogs []domain.QueryLog
}

// NewMetadataStore creates a new in-memory metadata store.
func NewMetadataStore() *MetadataStore {
	return &MetadataStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// SaveDocument stores or updates a document record.
func (s *MetadataStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document by ID.
func (s *MetadataStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetDocumentBySource retrieves a document by source name.
func (s *MetadataStore) GetDocumentBySource(_ context.Context, sourceName string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.documents {
		doc := s.documents[id]
		if doc.SourceName == sourceName {
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetAllowedRoles returns the roles permitted to read the document.
func (s *MetadataStore) GetAllowedRoles(_ context.Context, documentID string) ([]domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	roles := make([]domain.Role, len(doc.AllowedRoles))
	copy(roles, doc.AllowedRoles)
	return roles, nil
}

// RecordIngestion marks a document as ingested with its chunk count.
func (s *MetadataStore) RecordIngestion(_ context.Context, documentID string, chunkCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[documentID]
	if !ok {
		return domain.ErrNotFound
	}
	doc.ChunkCount = chunkCount
	s.documents[documentID] = doc
	return nil
}

// SaveChunks stores chunks for a document, replacing the previous set.
func (s *MetadataStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docID := chunks[0].DocumentID
	stored := make([]domain.Chunk, len(chunks))
	copy(stored, chunks)
	s.chunks[docID] = stored
	return nil
}

// ListChunks returns every stored chunk, grouped by document and
// ordered by chunk index within each document.
func (s *MetadataStore) ListChunks(_ context.Context) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Chunk
	for _, chunks := range s.chunks {
		result = append(result, chunks...)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DocumentID != result[j].DocumentID {
			return result[i].DocumentID < result[j].DocumentID
		}
		return result[i].Index < result[j].Index
	})
	return result, nil
}

// ListDocuments returns all document records sorted by source name.
func (s *MetadataStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Document, 0, len(s.documents))
	for id := range s.documents {
		result = append(result, s.documents[id])
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SourceName < result[j].SourceName
	})
	return result, nil
}

// DeleteDocument removes a document and its chunks.
func (s *MetadataStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	delete(s.chunks, id)
	return nil
}

// SaveQueryLog records a processed query.
func (s *MetadataStore) SaveQueryLog(_ context.Context, log domain.QueryLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryLogs = append(s.queryLogs, log)
	return nil
}

// QueryLogs returns the recorded query logs. Test helper.
func (s *MetadataStore) QueryLogs() []domain.QueryLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := make([]domain.QueryLog, len(s.queryLogs))
	copy(logs, s.queryLogs)
	return logs
}

// Close releases resources. No-op for the in-memory store.
func (s *MetadataStore) Close() error {
	return nil
}
