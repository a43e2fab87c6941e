package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/logger"
)

// DefaultTopK is the candidate count used when a caller passes k <= 0.
const DefaultTopK = domain.DefaultTopK

// Retriever finds the chunks most relevant to a question that the
// querying role is permitted to read.
type Retriever struct {
	embeddingService driven.EmbeddingService
	vectorIndex      driven.VectorIndex
	metadataStore    driven.MetadataStore
}

// NewRetriever creates a new retriever.
func NewRetriever(
	embeddingService driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	metadataStore driven.MetadataStore,
) *Retriever {
	return &Retriever{
		embeddingService: embeddingService,
		vectorIndex:      vectorIndex,
		metadataStore:    metadataStore,
	}
}

// Retrieve embeds the question, searches the vector index, and drops
// candidates the role may not read. An empty result after filtering is
// a legitimate outcome, not an error. Embedding and index failures are
// reported as domain.ErrRetrieval for the orchestrator to degrade.
func (r *Retriever) Retrieve(
	ctx context.Context, question string, role domain.Role, k int,
) ([]domain.RetrievalResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrInvalidQuery
	}
	if r.embeddingService == nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRetrieval, domain.ErrEmbeddingUnavailable)
	}
	if k <= 0 {
		k = DefaultTopK
	}

	logger.Section("Retrieval")
	logger.Debug("Question: %q, role: %s, k: %d", question, role, k)

	vector, err := r.embeddingService.Embed(ctx, question)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, fmt.Errorf("%w: embed question: %v", domain.ErrRetrieval, err)
	}
	logger.Debug("Query embedding: %d dimensions", len(vector))

	hits, err := r.vectorIndex.Search(ctx, vector, k)
	if err != nil {
		logger.Warn("Index search failed: %v", err)
		return nil, fmt.Errorf("%w: index search: %v", domain.ErrRetrieval, err)
	}
	logger.Debug("Index returned %d candidates", len(hits))

	results := r.filterByRole(ctx, hits, role)
	logger.Info("Retrieval: %d of %d candidates permitted for role %s", len(results), len(hits), role)

	return results, nil
}

// filterByRole drops candidates whose owning document does not permit
// the role. Admins pass without a metadata lookup. Candidates whose
// document record has vanished are dropped rather than failing the
// whole query.
func (r *Retriever) filterByRole(
	ctx context.Context, hits []driven.VectorHit, role domain.Role,
) []domain.RetrievalResult {
	results := make([]domain.RetrievalResult, 0, len(hits))

	// One permission lookup per document, not per chunk.
	permitted := make(map[string]bool)

	for _, hit := range hits {
		docID := hit.Chunk.DocumentID

		allowed, seen := permitted[docID]
		if !seen {
			allowed = r.documentPermits(ctx, docID, role)
			permitted[docID] = allowed
		}
		if !allowed {
			logger.Debug("Dropping chunk %s: role %s not permitted", hit.Chunk.ID, role)
			continue
		}

		results = append(results, domain.RetrievalResult{
			Chunk: hit.Chunk,
			Score: hit.Score,
		})
	}

	return results
}

// documentPermits checks the metadata store for the document's allowed
// roles. Admin is implicitly permitted everywhere.
func (r *Retriever) documentPermits(ctx context.Context, docID string, role domain.Role) bool {
	if role == domain.RoleAdmin {
		return true
	}
	if r.metadataStore == nil {
		// No metadata collaborator configured: least privilege.
		return false
	}

	roles, err := r.metadataStore.GetAllowedRoles(ctx, docID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Role lookup for document %s failed: %v", docID, err)
		}
		return false
	}

	doc := domain.Document{AllowedRoles: roles}
	return doc.Permits(role)
}
