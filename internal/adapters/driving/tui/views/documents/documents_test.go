package documents

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
)

// mockIngestionService serves a fixed document list and records removals.
type mockIngestionService struct {
	documents []domain.Document
	listErr   error
	removeErr error
	removedID string
}

func (m *mockIngestionService) Ingest(
	_ context.Context, _ driving.IngestRequest,
) (*driving.IngestResult, error) {
	return nil, errors.New("not implemented")
}

func (m *mockIngestionService) Remove(_ context.Context, documentID string) error {
	m.removedID = documentID
	return m.removeErr
}

func (m *mockIngestionService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.listErr
}

func newTestView(ingestion driving.IngestionService) *View {
	v := NewView(nil, ingestion)
	v.SetDimensions(100, 40)
	return v
}

func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func TestView_InitLoadsDocuments(t *testing.T) {
	ingestion := &mockIngestionService{
		documents: []domain.Document{
			{ID: "doc-1", SourceName: "handbook.md", ChunkCount: 4},
		},
	}
	v := newTestView(ingestion)

	cmd := v.Init()
	require.NotNil(t, cmd)

	msg := cmd()
	loaded, ok := msg.(messages.DocumentsLoaded)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	assert.Len(t, loaded.Documents, 1)

	v, _ = v.Update(loaded)
	assert.Contains(t, v.View(), "handbook.md")
}

func TestView_NilIngestionLoadsEmpty(t *testing.T) {
	v := newTestView(nil)

	cmd := v.Init()
	require.NotNil(t, cmd)

	loaded, ok := cmd().(messages.DocumentsLoaded)
	require.True(t, ok)
	assert.NoError(t, loaded.Err)
	assert.Empty(t, loaded.Documents)
}

func TestView_EmptyListRendered(t *testing.T) {
	v := newTestView(&mockIngestionService{})
	v, _ = v.Update(messages.DocumentsLoaded{})

	assert.Contains(t, v.View(), "No documents ingested.")
}

func TestView_LoadErrorRendered(t *testing.T) {
	v := newTestView(&mockIngestionService{})
	v, _ = v.Update(messages.DocumentsLoaded{Err: errors.New("store offline")})

	assert.Error(t, v.Err())
	assert.Contains(t, v.View(), "store offline")
}

func TestView_NavigationBounds(t *testing.T) {
	v := newTestView(&mockIngestionService{})
	v, _ = v.Update(messages.DocumentsLoaded{Documents: []domain.Document{
		{ID: "doc-1", SourceName: "a.txt"},
		{ID: "doc-2", SourceName: "b.txt"},
	}})

	// Up at the top stays put
	v, _ = v.Update(keyMsg("k"))
	assert.Equal(t, 0, v.Selected())

	v, _ = v.Update(keyMsg("j"))
	assert.Equal(t, 1, v.Selected())

	// Down at the bottom stays put
	v, _ = v.Update(keyMsg("j"))
	assert.Equal(t, 1, v.Selected())

	v, _ = v.Update(keyMsg("k"))
	assert.Equal(t, 0, v.Selected())
}

func TestView_DeleteSelectedDocument(t *testing.T) {
	ingestion := &mockIngestionService{}
	v := newTestView(ingestion)
	v, _ = v.Update(messages.DocumentsLoaded{Documents: []domain.Document{
		{ID: "doc-1", SourceName: "a.txt"},
		{ID: "doc-2", SourceName: "b.txt"},
	}})
	v, _ = v.Update(keyMsg("j"))

	_, cmd := v.Update(keyMsg("d"))
	require.NotNil(t, cmd)

	deleted, ok := cmd().(messages.DocumentDeleted)
	require.True(t, ok)
	assert.NoError(t, deleted.Err)
	assert.Equal(t, "doc-2", deleted.DocumentID)
	assert.Equal(t, "doc-2", ingestion.removedID)
}

func TestView_DeleteWithEmptyListIsNoop(t *testing.T) {
	v := newTestView(&mockIngestionService{})
	v, _ = v.Update(messages.DocumentsLoaded{})

	_, cmd := v.Update(keyMsg("d"))
	assert.Nil(t, cmd)
}

func TestView_DocumentDeletedShowsNoticeAndReloads(t *testing.T) {
	ingestion := &mockIngestionService{}
	v := newTestView(ingestion)

	v, cmd := v.Update(messages.DocumentDeleted{DocumentID: "doc-1"})
	require.NotNil(t, cmd)

	_, ok := cmd().(messages.DocumentsLoaded)
	assert.True(t, ok)
	assert.Contains(t, v.View(), "Deleted doc-1")
}

func TestView_RefreshReloads(t *testing.T) {
	ingestion := &mockIngestionService{}
	v := newTestView(ingestion)

	_, cmd := v.Update(keyMsg("r"))
	require.NotNil(t, cmd)

	_, ok := cmd().(messages.DocumentsLoaded)
	assert.True(t, ok)
}

func TestView_EscEmitsViewChanged(t *testing.T) {
	v := newTestView(&mockIngestionService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewMenu, changed.View)
}

func TestRolesLabel(t *testing.T) {
	assert.Equal(t, "all", rolesLabel(nil))
	assert.Equal(t, "ADMIN", rolesLabel([]domain.Role{domain.RoleAdmin}))
	assert.Equal(t, "ADMIN,EMPLOYEE",
		rolesLabel([]domain.Role{domain.RoleAdmin, domain.RoleEmployee}))
}
