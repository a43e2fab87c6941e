package domain

import (
	"math"
	"time"
	"unicode/utf8"
)

// ModelTag identifies the answer pipeline version in responses.
const ModelTag = "docqa-rag-v1"

// snippetLength is the number of characters shown per source snippet.
const snippetLength = 100

// RetrievalResult is a chunk paired with its normalised similarity.
// Score is always in [0,1]: 1 means identical, 0 unrelated. The vector
// index owns the mapping from its native metric (see vector/memory).
type RetrievalResult struct {
	// Chunk is the retrieved chunk payload.
	Chunk Chunk

	// Score is the normalised similarity in [0,1].
	Score float64
}

// Source describes one cited document in a QueryResponse.
type Source struct {
	// Title is the source document's display name.
	Title string `json:"title"`

	// Relevance is the similarity as an integer percentage 0..100.
	Relevance int `json:"relevance"`

	// Snippet is the leading slice of the matched chunk text.
	Snippet string `json:"snippet"`
}

// NewSource converts a retrieval result into a citable source entry.
func NewSource(r RetrievalResult) Source {
	snippet := r.Chunk.Text
	if len(snippet) > snippetLength {
		cut := snippetLength
		// Back up to a rune boundary so the cut never splits a
		// multi-byte character.
		for cut > 0 && !utf8.RuneStart(snippet[cut]) {
			cut--
		}
		snippet = snippet[:cut]
	}
	return Source{
		Title:     r.Chunk.SourceName,
		Relevance: int(math.Round(r.Score * 100)),
		Snippet:   snippet + "...",
	}
}

// QueryResponse is the pipeline's externally visible output.
// Invariant: Sources is empty exactly when ContextUsed is false, and
// Relevance values are non-increasing in slice order.
type QueryResponse struct {
	// Answer is the synthesised answer text.
	Answer string `json:"answer"`

	// Sources lists the cited documents, best match first.
	Sources []Source `json:"sources"`

	// ContextUsed reports whether retrieved chunks grounded the answer.
	ContextUsed bool `json:"context_used"`

	// Timestamp is when the response was produced.
	Timestamp time.Time `json:"timestamp"`

	// Model is the pipeline version tag.
	Model string `json:"model"`
}

// QueryLog records one processed query for analytics.
type QueryLog struct {
	// ID is the unique identifier for the log entry.
	ID string

	// Question is the raw question text.
	Question string

	// Role is the role the query was made with.
	Role Role

	// ContextUsed mirrors the response's ContextUsed flag.
	ContextUsed bool

	// SourceCount is the number of cited sources.
	SourceCount int

	// CreatedAt is when the query was processed.
	CreatedAt time.Time
}
