// Package mcp provides an MCP (Model Context Protocol) server adapter for Docqa.
// It enables AI assistants like Claude to ask questions over the ingested
// documents and, optionally, to ingest new ones.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")
