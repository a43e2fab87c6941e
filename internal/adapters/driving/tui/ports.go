// Package tui provides an interactive terminal user interface for Docqa.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers questions over the ingested documents. Required.
	Query driving.QueryService

	// Ingestion manages ingested documents. Optional; the documents
	// view is read-only without it.
	Ingestion driving.IngestionService

	// Settings reads the pipeline configuration. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(query driving.QueryService, ingestion driving.IngestionService) *Ports {
	return &Ports{
		Query:     query,
		Ingestion: ingestion,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
