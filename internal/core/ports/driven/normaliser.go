package driven

import (
	"context"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// Normaliser extracts plain text from one file format. The output is
// what the chunker sees; formatting artefacts left in it degrade
// retrieval quality.
type Normaliser interface {
	// Extensions returns the file extensions this normaliser handles,
	// lowercase with the leading dot.
	Extensions() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise extracts plain text from the raw file.
	Normalise(ctx context.Context, file domain.RawFile) (string, error)
}

// NormaliserRegistry selects the appropriate normaliser for a file by
// its extension. Unknown extensions fall back to the lowest-priority
// registered normaliser.
type NormaliserRegistry interface {
	// Normalise extracts plain text using the best matching normaliser.
	Normalise(ctx context.Context, file domain.RawFile) (string, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedExtensions returns all extensions with a registered
	// format-specific normaliser.
	SupportedExtensions() []string
}
