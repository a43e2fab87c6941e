package cli

import (
	"bytes"
	"context"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
)

// mockQueryService records the last question asked.
type mockQueryService struct {
	response      *domain.QueryResponse
	err           error
	askedQuestion string
	askedRole     domain.Role
}

func (m *mockQueryService) Ask(
	_ context.Context, question string, role domain.Role,
) (*domain.QueryResponse, error) {
	m.askedQuestion = question
	m.askedRole = role
	if m.err != nil {
		return nil, m.err
	}
	if m.response != nil {
		return m.response, nil
	}
	return &domain.QueryResponse{Answer: "mock answer"}, nil
}

// mockIngestionService records requests and serves canned documents.
type mockIngestionService struct {
	documents   []domain.Document
	result      *driving.IngestResult
	err         error
	lastRequest driving.IngestRequest
	removedID   string
}

func (m *mockIngestionService) Ingest(
	_ context.Context, req driving.IngestRequest,
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

func (m *mockIngestionService) Remove(_ context.Context, documentID string) error {
	m.removedID = documentID
	return m.err
}

func (m *mockIngestionService) List(_ context.Context) ([]domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.documents, nil
}

type mockSettingsService struct {
	settings domain.Settings
	saved    *domain.Settings
}

func (m *mockSettingsService) Get() (domain.Settings, error) {
	return m.settings, nil
}

func (m *mockSettingsService) Save(settings domain.Settings) error {
	m.saved = &settings
	return nil
}

// setupTestServices swaps the package-level services for mocks so
// ensureServices never wires real adapters. Returns a restore func
// for t.Cleanup.
func setupTestServices(
	query *mockQueryService, ingestion *mockIngestionService,
) func() {
	prevQuery := queryService
	prevIngestion := ingestionService
	prevSettings := settingsService
	prevAppSettings := appSettings

	queryService = nil
	if query != nil {
		queryService = query
	}
	ingestionService = nil
	if ingestion != nil {
		ingestionService = ingestion
	}
	settingsService = &mockSettingsService{settings: domain.DefaultSettings()}
	appSettings = domain.DefaultSettings()

	return func() {
		queryService = prevQuery
		ingestionService = prevIngestion
		settingsService = prevSettings
		appSettings = prevAppSettings
	}
}

// executeCommand runs the root command with the given args and
// captures its output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
