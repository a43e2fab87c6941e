package driven

import (
	"context"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// IndexEntry is what the vector index persists: an id, a vector, and
// the chunk payload returned verbatim on a search hit.
type IndexEntry struct {
	// ID is the entry key. Upserting an existing ID replaces the
	// entry rather than duplicating it.
	ID string

	// Vector is the embedding. All entries in one index share a
	// single dimensionality.
	Vector []float32

	// Payload carries the chunk text and provenance.
	Payload domain.Chunk
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// Chunk is the stored payload of the matched entry.
	Chunk domain.Chunk

	// Score is the normalised similarity in [0,1], where 1 is an
	// identical vector. Implementations must map their native metric
	// into this range consistently and document the mapping.
	Score float64
}

// VectorIndex stores embeddings and answers nearest-neighbour queries.
// The reference implementation is an exact linear scan; approximate
// indexes may be substituted behind the same contract.
//
// The index is the one shared mutable resource of the pipeline and
// owns its internal consistency: Search must never observe a
// half-written entry, and concurrent Upsert calls resolve to
// last-writer-wins per id.
type VectorIndex interface {
	// Upsert inserts or overwrites entries by ID. Idempotent.
	Upsert(ctx context.Context, entries []IndexEntry) error

	// Search returns up to k entries ordered by descending similarity.
	// Ties are broken by insertion order (stable).
	Search(ctx context.Context, vector []float32, k int) ([]VectorHit, error)

	// Delete removes entries. A subsequent Search never returns a
	// deleted id. Unknown ids are ignored.
	Delete(ctx context.Context, ids []string) error

	// Count returns the number of entries currently indexed.
	Count() int

	// Close releases resources.
	Close() error
}
