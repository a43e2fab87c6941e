// Package memory provides an exact, in-memory vector index.
//
// The index is a linear scan over all entries (O(N*D) per query),
// which is correct and fast enough for a single machine's document
// corpus. Approximate indexes can be substituted behind the same
// driven.VectorIndex contract without changing callers.
//
// Similarity is cosine, mapped into [0,1] as (cosine+1)/2 so that 1
// means identical direction and 0 opposite. All scores surfaced by
// this package use that mapping; the relevance percentages shown to
// users are derived from it directly.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// indexed is an entry plus its insertion sequence number, kept for
// stable tie-breaking.
type indexed struct {
	entry driven.IndexEntry
	seq   int
}

// Index is a linear-scan in-memory implementation of driven.VectorIndex.
type Index struct {
	mu      sync.RWMutex
	entries map[string]*indexed
	dims    int
	nextSeq int
}

// NewIndex creates an empty index. Dimensionality is fixed by the
// first upserted entry; mixing dimensionalities is rejected.
func NewIndex() *Index {
	return &Index{
		entries: make(map[string]*indexed),
	}
}

// Upsert inserts or overwrites entries by ID.
// Re-upserting an id replaces its vector and payload but keeps its
// original insertion rank, so tie-breaking stays stable.
func (idx *Index) Upsert(_ context.Context, entries []driven.IndexEntry) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, e := range entries {
		if len(e.Vector) == 0 {
			return fmt.Errorf("%w: entry %s has no vector", domain.ErrDimensionMismatch, e.ID)
		}
		if idx.dims == 0 {
			idx.dims = len(e.Vector)
		}
		if len(e.Vector) != idx.dims {
			return fmt.Errorf("%w: entry %s has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, e.ID, len(e.Vector), idx.dims)
		}

		if existing, ok := idx.entries[e.ID]; ok {
			existing.entry = e
			continue
		}
		idx.entries[e.ID] = &indexed{entry: e, seq: idx.nextSeq}
		idx.nextSeq++
	}

	return nil
}

// Search returns up to k entries ordered by descending similarity.
// Ties are broken by insertion order.
func (idx *Index) Search(_ context.Context, vector []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.entries) == 0 {
		return nil, nil
	}
	if len(vector) != idx.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(vector), idx.dims)
	}

	type scored struct {
		hit driven.VectorHit
		seq int
	}

	candidates := make([]scored, 0, len(idx.entries))
	for _, ix := range idx.entries {
		candidates = append(candidates, scored{
			hit: driven.VectorHit{
				Chunk: ix.entry.Payload,
				Score: normalisedCosine(vector, ix.entry.Vector),
			},
			seq: ix.seq,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].hit.Score != candidates[j].hit.Score {
			return candidates[i].hit.Score > candidates[j].hit.Score
		}
		return candidates[i].seq < candidates[j].seq
	})

	if k > len(candidates) {
		k = len(candidates)
	}

	hits := make([]driven.VectorHit, k)
	for i := 0; i < k; i++ {
		hits[i] = candidates[i].hit
	}
	return hits, nil
}

// Delete removes entries by id. Unknown ids are ignored.
func (idx *Index) Delete(_ context.Context, ids []string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, id := range ids {
		delete(idx.entries, id)
	}
	return nil
}

// Count returns the number of entries currently indexed.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Close releases resources. The in-memory index holds none.
func (idx *Index) Close() error {
	return nil
}

// normalisedCosine computes cosine similarity mapped into [0,1] via
// (cosine+1)/2. A zero-magnitude vector scores 0, as it carries no
// direction to compare.
func normalisedCosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	cosine := dot / (math.Sqrt(normA) * math.Sqrt(normB))

	// Clamp against floating point drift before mapping.
	if cosine > 1 {
		cosine = 1
	}
	if cosine < -1 {
		cosine = -1
	}
	return (cosine + 1) / 2
}
