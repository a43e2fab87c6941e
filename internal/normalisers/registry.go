package normalisers

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"

	"github.com/custodia-labs/docqa-cli/internal/normalisers/html"
	"github.com/custodia-labs/docqa-cli/internal/normalisers/markdown"
	"github.com/custodia-labs/docqa-cli/internal/normalisers/plaintext"
)

// fallbackPriority is the ceiling below which a normaliser is treated
// as a fallback for unknown extensions.
const fallbackPriority = 10

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches files to the normaliser registered for their
// extension. When extensions overlap, the higher priority wins.
type Registry struct {
	byExtension map[string]driven.Normaliser
	fallback    driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExtension: make(map[string]driven.Normaliser)}
}

// NewDefaultRegistry creates a registry with all built-in normalisers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	return r
}

// Register adds a normaliser. Low-priority normalisers additionally
// become the fallback for unknown extensions.
func (r *Registry) Register(normaliser driven.Normaliser) {
	for _, ext := range normaliser.Extensions() {
		ext = strings.ToLower(ext)
		if existing, ok := r.byExtension[ext]; ok && existing.Priority() >= normaliser.Priority() {
			continue
		}
		r.byExtension[ext] = normaliser
	}
	if normaliser.Priority() < fallbackPriority {
		if r.fallback == nil || r.fallback.Priority() < normaliser.Priority() {
			r.fallback = normaliser
		}
	}
}

// Normalise extracts plain text using the normaliser registered for
// the file's extension, or the fallback for unknown extensions.
func (r *Registry) Normalise(ctx context.Context, file domain.RawFile) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Path))
	if n, ok := r.byExtension[ext]; ok {
		return n.Normalise(ctx, file)
	}
	if r.fallback != nil {
		return r.fallback.Normalise(ctx, file)
	}
	return "", domain.ErrEmptyInput
}

// SupportedExtensions returns all registered extensions, sorted.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
