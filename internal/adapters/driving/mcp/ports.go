package mcp

import (
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers questions over ingested documents.
	Query driving.QueryService

	// Ingestion manages documents. Optional; without it the ingest
	// tool and document resources are unavailable.
	Ingestion driving.IngestionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	// Ingestion is optional
	return nil
}
