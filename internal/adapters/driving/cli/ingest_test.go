package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestIngestCmd_Metadata(t *testing.T) {
	assert.Equal(t, "ingest <file>", ingestCmd.Use)
	assert.NotNil(t, ingestCmd.Flags().Lookup("name"))
	assert.NotNil(t, ingestCmd.Flags().Lookup("roles"))
}

func TestIngestCmd_IngestsFile(t *testing.T) {
	ingestion := &mockIngestionService{
		result: &driving.IngestResult{DocumentID: "doc-42", ChunkCount: 3},
	}
	cleanup := setupTestServices(nil, ingestion)
	t.Cleanup(cleanup)

	path := writeTestFile(t, "handbook.txt", "All employees accrue vacation at 25 days per year.")

	out, err := executeCommand("ingest", path)
	require.NoError(t, err)

	assert.Equal(t, "All employees accrue vacation at 25 days per year.", ingestion.lastRequest.Text)
	assert.Equal(t, "handbook.txt", ingestion.lastRequest.SourceName)
	assert.Nil(t, ingestion.lastRequest.AllowedRoles)
	assert.Contains(t, out, "3 chunks")
	assert.Contains(t, out, "doc-42")
}

func TestIngestCmd_NormalisesMarkdown(t *testing.T) {
	ingestion := &mockIngestionService{}
	cleanup := setupTestServices(nil, ingestion)
	t.Cleanup(cleanup)

	path := writeTestFile(t, "policy.md", "# Expense Policy\n\nSubmit receipts within 30 days.")

	_, err := executeCommand("ingest", path)
	require.NoError(t, err)

	assert.Equal(t, "Expense Policy\n\nSubmit receipts within 30 days.", ingestion.lastRequest.Text)
}

func TestIngestCmd_NameFlagOverridesFileName(t *testing.T) {
	ingestion := &mockIngestionService{}
	cleanup := setupTestServices(nil, ingestion)
	t.Cleanup(cleanup)
	t.Cleanup(func() { ingestName = "" })

	path := writeTestFile(t, "raw.txt", "Security incidents must be reported within one hour.")

	_, err := executeCommand("ingest", "--name", "Security Policy", path)
	require.NoError(t, err)

	assert.Equal(t, "Security Policy", ingestion.lastRequest.SourceName)
}

func TestIngestCmd_RolesFlag(t *testing.T) {
	ingestion := &mockIngestionService{}
	cleanup := setupTestServices(nil, ingestion)
	t.Cleanup(cleanup)
	t.Cleanup(func() { ingestRoles = nil })

	path := writeTestFile(t, "salaries.txt", "Salary bands by level are confidential to management.")

	_, err := executeCommand("ingest", "--roles", "admin", path)
	require.NoError(t, err)

	assert.Equal(t, []domain.Role{domain.RoleAdmin}, ingestion.lastRequest.AllowedRoles)
}

func TestIngestCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices(nil, &mockIngestionService{})
	t.Cleanup(cleanup)

	_, err := executeCommand("ingest", filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestIngestCmd_PropagatesIngestionError(t *testing.T) {
	ingestion := &mockIngestionService{err: domain.ErrIngestion}
	cleanup := setupTestServices(nil, ingestion)
	t.Cleanup(cleanup)

	path := writeTestFile(t, "short.txt", "Too short is still read fine here.")

	_, err := executeCommand("ingest", path)
	assert.ErrorIs(t, err, domain.ErrIngestion)
}

func TestParseRoles(t *testing.T) {
	assert.Nil(t, parseRoles(nil))
	assert.Nil(t, parseRoles([]string{" ", ""}))
	assert.Equal(t,
		[]domain.Role{domain.RoleAdmin, domain.RoleEmployee},
		parseRoles([]string{"admin", "employee"}))
	assert.Equal(t,
		[]domain.Role{domain.RoleEmployee},
		parseRoles([]string{"contractor"}))
}
