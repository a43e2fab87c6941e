package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	response *domain.QueryResponse
	err      error

	askedQuestion string
	askedRole     domain.Role
}

func (m *mockQueryService) Ask(
	_ context.Context,
	question string,
	role domain.Role,
) (*domain.QueryResponse, error) {
	m.askedQuestion = question
	m.askedRole = role
	if m.err != nil {
		return nil, m.err
	}
	if m.response != nil {
		return m.response, nil
	}
	return &domain.QueryResponse{
		Answer:    "mock answer",
		Timestamp: time.Now(),
		Model:     domain.ModelTag,
	}, nil
}

// mockIngestionService is a mock implementation of driving.IngestionService.
type mockIngestionService struct {
	result    *driving.IngestResult
	documents []domain.Document
	err       error

	lastRequest driving.IngestRequest
}

func (m *mockIngestionService) Ingest(
	_ context.Context,
	req driving.IngestRequest,
) (*driving.IngestResult, error) {
	m.lastRequest = req
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &driving.IngestResult{DocumentID: "doc-1", ChunkCount: 1}, nil
}

func (m *mockIngestionService) Remove(_ context.Context, _ string) error {
	return m.err
}

func (m *mockIngestionService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}
