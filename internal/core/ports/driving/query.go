package driving

import (
	"context"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// QueryService answers natural-language questions over ingested
// documents. It always returns a well-formed response: retrieval
// failures degrade to an apologetic answer with no sources.
type QueryService interface {
	// Ask processes a question for the given role and returns the
	// answer with cited sources. Returns domain.ErrInvalidQuery for
	// an empty or whitespace-only question.
	Ask(ctx context.Context, question string, role domain.Role) (*domain.QueryResponse, error)
}
