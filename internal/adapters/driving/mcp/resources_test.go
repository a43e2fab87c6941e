package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists documents as JSON", func(t *testing.T) {
		mockIngest := &mockIngestionService{
			documents: []domain.Document{
				{
					ID:           "doc-1",
					SourceName:   "handbook.md",
					AllowedRoles: []domain.Role{domain.RoleAdmin, domain.RoleEmployee},
					ChunkCount:   4,
				},
			},
		}
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Ingestion: mockIngest})
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, readRequest("docqa://documents"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, "handbook.md")
		assert.Contains(t, result.Contents[0].Text, "EMPLOYEE")
	})

	t.Run("no ingestion service yields empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}})
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, readRequest("docqa://documents"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})
}

func TestServer_handleDocumentContentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns document content", func(t *testing.T) {
		mockIngest := &mockIngestionService{
			documents: []domain.Document{
				{ID: "doc-1", SourceName: "handbook.md", Content: "Remote work is permitted."},
			},
		}
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Ingestion: mockIngest})
		require.NoError(t, err)

		result, err := server.handleDocumentContentResource(ctx, readRequest("docqa://documents/doc-1"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
		assert.Equal(t, "Remote work is permitted.", result.Contents[0].Text)
	})

	t.Run("unknown document returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Ingestion: &mockIngestionService{}})
		require.NoError(t, err)

		_, err = server.handleDocumentContentResource(ctx, readRequest("docqa://documents/ghost"))

		assert.Error(t, err)
	})
}

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"docqa://documents/doc-1", "doc-1"},
		{"docqa://documents/", ""},
		{"docqa://sources/doc-1", ""},
		{"http://example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, extractDocumentID(tt.uri))
		})
	}
}
