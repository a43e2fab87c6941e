// Package chunker provides a boundary-aware text chunking processor.
package chunker

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// DefaultChunkSize is the default character budget per chunk.
const DefaultChunkSize = 600

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 90

// DefaultMinLength is the minimum useful document length in characters.
const DefaultMinLength = 20

// boundaryTolerance is the fraction of the chunk budget within which a
// sentence or word boundary is preferred over a hard cut.
const boundaryTolerance = 0.2

var (
	blankLines = regexp.MustCompile(`\n{3,}`)
	spaceRuns  = regexp.MustCompile(`[ \t]{2,}`)
)

// Processor splits document content into overlapping chunks, ending
// each chunk at the nearest sentence or word boundary at or before the
// character budget. It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
	minLength int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk budget in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithMinLength sets the minimum useful document length.
func WithMinLength(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.minLength = n
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		minLength: DefaultMinLength,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from
// document content. Returns domain.ErrEmptyInput when the normalised
// content is below the minimum useful length - ingestion must reject
// the document rather than index zero chunks.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	content := Normalise(doc.Content)
	if len(content) < p.minLength {
		return nil, fmt.Errorf("%w: %d characters after normalisation", domain.ErrEmptyInput, len(content))
	}

	docID := doc.ID
	if docID == "" {
		docID = uuid.New().String()
	}

	estimated := (len(content) / (p.chunkSize - p.overlap)) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	start := 0
	for start < len(content) {
		end := p.cutPoint(content, start)

		chunks = append(chunks, domain.Chunk{
			ID:         fmt.Sprintf("%s_%d", docID, len(chunks)),
			DocumentID: docID,
			SourceName: doc.SourceName,
			Text:       strings.TrimSpace(content[start:end]),
			Index:      len(chunks),
		})

		if end == len(content) {
			break
		}

		// Step back by the overlap to preserve context continuity,
		// then snap forward to a word boundary so no chunk starts
		// mid-word.
		next := end - p.overlap
		if next <= start {
			next = end
		}
		start = snapToWordStart(content, next)
	}

	return chunks, nil
}

// cutPoint returns the end offset for a chunk starting at start.
// It prefers a sentence end within the tolerance window below the
// budget, then a word boundary, then falls back to a hard cut.
func (p *Processor) cutPoint(content string, start int) int {
	budget := start + p.chunkSize
	if budget >= len(content) {
		return len(content)
	}

	window := int(float64(p.chunkSize) * boundaryTolerance)
	floor := budget - window

	if cut := lastSentenceEnd(content[floor:budget]); cut >= 0 {
		return floor + cut + 1
	}
	if cut := strings.LastIndexAny(content[floor:budget], " \n"); cut >= 0 {
		return floor + cut + 1
	}

	// No boundary inside the window; cut hard at the budget.
	return budget
}

// lastSentenceEnd returns the offset of the last sentence terminator
// in s, or -1. A paragraph break counts as a sentence end.
func lastSentenceEnd(s string) int {
	if cut := strings.LastIndex(s, "\n\n"); cut >= 0 {
		return cut
	}
	return strings.LastIndexAny(s, ".!?")
}

// snapToWordStart advances pos to the start of the next word if it
// lands inside one.
func snapToWordStart(content string, pos int) int {
	if pos <= 0 || pos >= len(content) {
		return pos
	}
	if content[pos-1] == ' ' || content[pos-1] == '\n' {
		return pos
	}
	if next := strings.IndexAny(content[pos:], " \n"); next >= 0 {
		return pos + next + 1
	}
	return pos
}

// Normalise collapses whitespace runs: blank-line runs become a single
// paragraph break and space/tab runs a single space. Leading and
// trailing whitespace is trimmed.
func Normalise(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	text = spaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
