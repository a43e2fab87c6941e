package chunker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, p.overlap)
		}
		if p.minLength != DefaultMinLength {
			t.Errorf("expected minLength %d, got %d", DefaultMinLength, p.minLength)
		}
	})

	t.Run("custom options", func(t *testing.T) {
		p := New(WithChunkSize(500), WithOverlap(50), WithMinLength(10))
		if p.chunkSize != 500 || p.overlap != 50 || p.minLength != 10 {
			t.Errorf("options not applied: %+v", p)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(150))
		if p.overlap >= p.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1), WithMinLength(0))
		if p.chunkSize != DefaultChunkSize || p.overlap != DefaultChunkOverlap {
			t.Errorf("expected defaults, got %+v", p)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	if got := New().Name(); got != "chunker" {
		t.Errorf("expected name 'chunker', got %q", got)
	}
}

func TestProcess_ShortInput(t *testing.T) {
	p := New()

	for _, content := range []string{"", "   \n\n  ", "short"} {
		doc := &domain.Document{ID: "doc1", Content: content}
		_, err := p.Process(context.Background(), doc, nil)
		if !errors.Is(err, domain.ErrEmptyInput) {
			t.Errorf("content %q: expected ErrEmptyInput, got %v", content, err)
		}
	}
}

func TestProcess_SingleChunk(t *testing.T) {
	p := New()
	doc := &domain.Document{
		ID:         "doc1",
		SourceName: "handbook.txt",
		Content:    "Remote work policy: employees may work remotely up to 3 days per week.",
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}

	c := chunks[0]
	if c.ID != "doc1_0" {
		t.Errorf("expected id doc1_0, got %q", c.ID)
	}
	if c.DocumentID != "doc1" || c.SourceName != "handbook.txt" || c.Index != 0 {
		t.Errorf("unexpected chunk metadata: %+v", c)
	}
	if c.Text != doc.Content {
		t.Errorf("expected full content, got %q", c.Text)
	}
}

func TestProcess_ContiguousIndexes(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(15))

	var b strings.Builder
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&b, "Sentence number %d carries some policy detail. ", i)
	}
	doc := &domain.Document{ID: "doc1", Content: b.String()}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
		if c.ID != fmt.Sprintf("doc1_%d", i) {
			t.Errorf("chunk %d has id %q", i, c.ID)
		}
		if c.Text == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestProcess_Coverage(t *testing.T) {
	p := New(WithChunkSize(120), WithOverlap(20))

	var b strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "Clause %d of the security policy applies to all staff. ", i)
	}
	doc := &domain.Document{ID: "doc1", Content: b.String()}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Every clause of the normalised text must appear in some chunk.
	normalised := Normalise(doc.Content)
	for i := 0; i < 40; i++ {
		clause := fmt.Sprintf("Clause %d of the security policy", i)
		found := false
		for _, c := range chunks {
			if strings.Contains(c.Text, clause) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("clause %d missing from all chunks", i)
		}
	}

	// Chunks respect the budget with a tolerance margin.
	for i, c := range chunks {
		if len(c.Text) > 120 {
			t.Errorf("chunk %d exceeds budget: %d chars", i, len(c.Text))
		}
	}

	// Consecutive chunks share overlapping text.
	for i := 1; i < len(chunks); i++ {
		tail := chunks[i-1].Text[len(chunks[i-1].Text)-10:]
		if !strings.Contains(normalised, tail) {
			t.Errorf("chunk %d tail not found in source", i-1)
		}
	}
}

func TestProcess_NoMidWordSplit(t *testing.T) {
	p := New(WithChunkSize(80), WithOverlap(10))

	words := strings.Fields(strings.Repeat("acceptable usage policy document retention guideline ", 20))
	doc := &domain.Document{ID: "doc1", Content: strings.Join(words, " ")}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wordSet := make(map[string]bool)
	for _, w := range words {
		wordSet[w] = true
	}

	for i, c := range chunks {
		for _, w := range strings.Fields(c.Text) {
			if !wordSet[w] {
				t.Errorf("chunk %d contains split word %q", i, w)
			}
		}
	}
}

func TestProcess_GeneratedID(t *testing.T) {
	p := New()
	doc := &domain.Document{
		SourceName: "memo.txt",
		Content:    "All staff must complete the annual security awareness training.",
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].DocumentID == "" {
		t.Error("expected generated document id")
	}
	if !strings.HasSuffix(chunks[0].ID, "_0") {
		t.Errorf("expected generated id ending in _0, got %q", chunks[0].ID)
	}
}

func TestNormalise(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapse blank lines", "a\n\n\n\nb", "a\n\nb"},
		{"collapse spaces", "a    b\tc", "a b c"},
		{"windows line endings", "a\r\nb", "a\nb"},
		{"trim", "  a  ", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalise(tt.in); got != tt.want {
				t.Errorf("Normalise(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
