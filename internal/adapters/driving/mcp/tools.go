package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the natural-language question to answer from the ingested documents"`
	Role     string `json:"role,omitempty" jsonschema:"the role to answer as, ADMIN or EMPLOYEE (default EMPLOYEE)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer      string         `json:"answer"`
	Sources     []SourceOutput `json:"sources"`
	ContextUsed bool           `json:"context_used"`
	Model       string         `json:"model"`
}

// SourceOutput represents a single cited source.
type SourceOutput struct {
	Title     string `json:"title"`
	Relevance int    `json:"relevance"`
	Snippet   string `json:"snippet"`
}

// IngestInput is the input schema for the ingest_document tool.
type IngestInput struct {
	Text       string   `json:"text" jsonschema:"the raw document text to ingest"`
	SourceName string   `json:"source_name,omitempty" jsonschema:"a human-readable name for the document"`
	Roles      []string `json:"roles,omitempty" jsonschema:"roles permitted to retrieve this document (default all)"`
}

// IngestOutput is the output schema for the ingest_document tool.
type IngestOutput struct {
	DocumentID string `json:"document_id"`
	ChunkCount int    `json:"chunk_count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question over the ingested company documents",
	}, s.handleAsk)

	if s.ports.Ingestion != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest_document",
			Description: "Ingest a document so it becomes queryable",
		}, s.handleIngest)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	role := domain.ParseRole(input.Role)

	resp, err := s.ports.Query.Ask(ctx, input.Question, role)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:      resp.Answer,
		Sources:     make([]SourceOutput, len(resp.Sources)),
		ContextUsed: resp.ContextUsed,
		Model:       resp.Model,
	}
	for i, src := range resp.Sources {
		output.Sources[i] = SourceOutput{
			Title:     src.Title,
			Relevance: src.Relevance,
			Snippet:   src.Snippet,
		}
	}

	return nil, output, nil
}

// handleIngest handles the ingest_document tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	roles := make([]domain.Role, 0, len(input.Roles))
	for _, r := range input.Roles {
		roles = append(roles, domain.ParseRole(r))
	}

	result, err := s.ports.Ingestion.Ingest(ctx, driving.IngestRequest{
		Text:         input.Text,
		SourceName:   input.SourceName,
		AllowedRoles: roles,
	})
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		DocumentID: result.DocumentID,
		ChunkCount: result.ChunkCount,
	}, nil
}
