package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docqa-cli/internal/logger"
)

// retrievalErrorAnswer is returned when retrieval itself failed, as
// opposed to succeeding with nothing relevant.
const retrievalErrorAnswer = "I encountered an error processing your request. Please try again."

// Pipeline orchestrates the full question answering flow: ingestion
// (chunk, embed, index, persist) and querying (retrieve, synthesise,
// cite). It implements both driving.QueryService and
// driving.IngestionService.
type Pipeline struct {
	retriever        *Retriever
	synthesizer      *Synthesizer
	postProcessors   driven.PostProcessorPipeline
	embeddingService driven.EmbeddingService
	vectorIndex      driven.VectorIndex
	metadataStore    driven.MetadataStore
	settings         domain.Settings
}

// NewPipeline wires the pipeline from its collaborators.
func NewPipeline(
	retriever *Retriever,
	synthesizer *Synthesizer,
	postProcessors driven.PostProcessorPipeline,
	embeddingService driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	metadataStore driven.MetadataStore,
	settings domain.Settings,
) *Pipeline {
	return &Pipeline{
		retriever:        retriever,
		synthesizer:      synthesizer,
		postProcessors:   postProcessors,
		embeddingService: embeddingService,
		vectorIndex:      vectorIndex,
		metadataStore:    metadataStore,
		settings:         settings,
	}
}

// Ask answers a question for the given role. It always produces a
// well-formed response: greetings skip retrieval entirely, and a
// failed retrieval degrades to an answer without sources instead of
// surfacing the error to the caller.
func (p *Pipeline) Ask(
	ctx context.Context, question string, role domain.Role,
) (*domain.QueryResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrInvalidQuery
	}

	logger.Section("Query")
	logger.Info("Question: %q (role: %s)", question, role)

	var results []domain.RetrievalResult
	degraded := false

	if IsGreeting(question) {
		logger.Debug("Greeting detected, skipping retrieval")
	} else {
		var err error
		results, err = p.retriever.Retrieve(ctx, question, role, p.settings.TopK)
		if err != nil {
			if !errors.Is(err, domain.ErrRetrieval) {
				return nil, err
			}
			// Degrade: apologise rather than failing. The wording is
			// distinct from the no-context fallback so an outage never
			// reads as "the documents don't cover this".
			logger.Warn("Retrieval unavailable, degrading to apology: %v", err)
			results = nil
			degraded = true
		}
	}

	var answer string
	if degraded {
		answer = retrievalErrorAnswer
	} else {
		answer = p.synthesizer.Synthesize(ctx, question, results, role)
	}

	sources := make([]domain.Source, 0, len(results))
	for _, r := range results {
		sources = append(sources, domain.NewSource(r))
	}

	response := &domain.QueryResponse{
		Answer:      answer,
		Sources:     sources,
		ContextUsed: len(results) > 0,
		Timestamp:   time.Now().UTC(),
		Model:       domain.ModelTag,
	}

	p.logQuery(ctx, question, role, response)

	return response, nil
}

// logQuery records the query for analytics. Logging failures are
// reported but never fail the query.
func (p *Pipeline) logQuery(
	ctx context.Context, question string, role domain.Role, resp *domain.QueryResponse,
) {
	if p.metadataStore == nil {
		return
	}
	err := p.metadataStore.SaveQueryLog(ctx, domain.QueryLog{
		ID:          uuid.New().String(),
		Question:    question,
		Role:        role,
		ContextUsed: resp.ContextUsed,
		SourceCount: len(resp.Sources),
		CreatedAt:   resp.Timestamp,
	})
	if err != nil {
		logger.Warn("Failed to record query log: %v", err)
	}
}

// Ingest chunks, embeds and indexes one document. All-or-nothing: a
// failure after indexing rolls the document's entries back out of the
// index so queries never see a partially ingested document.
func (p *Pipeline) Ingest(
	ctx context.Context, req driving.IngestRequest,
) (*driving.IngestResult, error) {
	text := strings.TrimSpace(req.Text)
	minLen := p.settings.MinDocumentLength
	if minLen <= 0 {
		minLen = domain.DefaultMinDocumentLength
	}
	if len(text) < minLen {
		return nil, fmt.Errorf("%w: document text must be at least %d characters", domain.ErrIngestion, minLen)
	}

	doc := &domain.Document{
		ID:           req.DocumentID,
		SourceName:   req.SourceName,
		Content:      text,
		AllowedRoles: req.AllowedRoles,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.SourceName == "" {
		doc.SourceName = doc.ID
	}
	if len(doc.AllowedRoles) == 0 {
		doc.AllowedRoles = []domain.Role{domain.RoleAdmin, domain.RoleEmployee}
	}

	logger.Section("Ingestion")
	logger.Info("Ingesting %s (%d characters)", doc.SourceName, len(text))

	// Re-ingestion replaces the previous chunk set. Remember the old
	// chunk ids so entries the new set does not overwrite get removed.
	staleIDs := p.previousChunkIDs(ctx, doc)

	chunks, err := p.postProcessors.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: chunking: %v", domain.ErrIngestion, err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: document produced no chunks", domain.ErrIngestion)
	}
	logger.Info("Produced %d chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := p.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding: %v", domain.ErrIngestion, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: embedding returned %d vectors for %d chunks",
			domain.ErrIngestion, len(vectors), len(chunks))
	}

	entries := make([]driven.IndexEntry, len(chunks))
	newIDs := make(map[string]bool, len(chunks))
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
		entries[i] = driven.IndexEntry{
			ID:      chunks[i].ID,
			Vector:  vectors[i],
			Payload: chunks[i],
		}
		newIDs[chunks[i].ID] = true
	}

	if err := p.vectorIndex.Upsert(ctx, entries); err != nil {
		return nil, fmt.Errorf("%w: indexing: %v", domain.ErrIngestion, err)
	}

	if err := p.persistDocument(ctx, doc, chunks); err != nil {
		p.rollbackIndex(ctx, entries)
		return nil, err
	}

	// Stale entries from a smaller previous set are safe to drop now.
	var leftover []string
	for _, id := range staleIDs {
		if !newIDs[id] {
			leftover = append(leftover, id)
		}
	}
	if len(leftover) > 0 {
		if err := p.vectorIndex.Delete(ctx, leftover); err != nil {
			logger.Warn("Failed to drop %d stale index entries: %v", len(leftover), err)
		}
	}

	logger.Info("Ingested %s: %d chunks indexed", doc.SourceName, len(chunks))

	return &driving.IngestResult{
		DocumentID: doc.ID,
		ChunkCount: len(chunks),
	}, nil
}

// previousChunkIDs returns the ids of the document's existing chunks,
// or nil for a first ingestion.
func (p *Pipeline) previousChunkIDs(ctx context.Context, doc *domain.Document) []string {
	if p.metadataStore == nil {
		return nil
	}
	prev, err := p.metadataStore.GetDocument(ctx, doc.ID)
	if err != nil || prev == nil {
		return nil
	}
	doc.CreatedAt = prev.CreatedAt

	ids := make([]string, 0, prev.ChunkCount)
	for i := 0; i < prev.ChunkCount; i++ {
		ids = append(ids, fmt.Sprintf("%s_%d", doc.ID, i))
	}
	return ids
}

// persistDocument saves the document record and its chunks, then marks
// the ingestion complete.
func (p *Pipeline) persistDocument(
	ctx context.Context, doc *domain.Document, chunks []domain.Chunk,
) error {
	if p.metadataStore == nil {
		return nil
	}
	doc.ChunkCount = len(chunks)
	if err := p.metadataStore.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("%w: save document: %v", domain.ErrIngestion, err)
	}
	if err := p.metadataStore.SaveChunks(ctx, chunks); err != nil {
		return fmt.Errorf("%w: save chunks: %v", domain.ErrIngestion, err)
	}
	if err := p.metadataStore.RecordIngestion(ctx, doc.ID, len(chunks)); err != nil {
		return fmt.Errorf("%w: record ingestion: %v", domain.ErrIngestion, err)
	}
	return nil
}

// rollbackIndex removes freshly upserted entries after a later
// ingestion step failed.
func (p *Pipeline) rollbackIndex(ctx context.Context, entries []driven.IndexEntry) {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	if err := p.vectorIndex.Delete(ctx, ids); err != nil {
		logger.Warn("Rollback of %d index entries failed: %v", len(ids), err)
	} else {
		logger.Debug("Rolled back %d index entries", len(ids))
	}
}

// Remove deletes a document, its persisted chunks, and its index
// entries. Returns domain.ErrNotFound for an unknown id.
func (p *Pipeline) Remove(ctx context.Context, documentID string) error {
	doc, err := p.metadataStore.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}

	ids := make([]string, 0, doc.ChunkCount)
	for i := 0; i < doc.ChunkCount; i++ {
		ids = append(ids, fmt.Sprintf("%s_%d", documentID, i))
	}
	if err := p.vectorIndex.Delete(ctx, ids); err != nil {
		return fmt.Errorf("remove index entries: %w", err)
	}

	if err := p.metadataStore.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	logger.Info("Removed document %s (%d chunks)", documentID, doc.ChunkCount)
	return nil
}

// List returns all ingested document records.
func (p *Pipeline) List(ctx context.Context) ([]domain.Document, error) {
	return p.metadataStore.ListDocuments(ctx)
}

// Warmup rebuilds the vector index from persisted chunks. Called at
// startup so previously ingested documents are queryable without
// re-embedding.
func (p *Pipeline) Warmup(ctx context.Context) error {
	if p.metadataStore == nil {
		return nil
	}
	chunks, err := p.metadataStore.ListChunks(ctx)
	if err != nil {
		return fmt.Errorf("list chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil
	}

	entries := make([]driven.IndexEntry, 0, len(chunks))
	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			continue
		}
		entries = append(entries, driven.IndexEntry{
			ID:      c.ID,
			Vector:  c.Embedding,
			Payload: c,
		})
	}
	if len(entries) == 0 {
		return nil
	}
	if err := p.vectorIndex.Upsert(ctx, entries); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	logger.Info("Index warmed up with %d chunks", len(entries))
	return nil
}

// Interface conformance.
var (
	_ driving.QueryService     = (*Pipeline)(nil)
	_ driving.IngestionService = (*Pipeline)(nil)
)
