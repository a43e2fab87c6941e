package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

func normalise(t *testing.T, content string) string {
	t.Helper()
	text, err := New().Normalise(context.Background(), domain.RawFile{
		Path:    "doc.md",
		Content: []byte(content),
	})
	require.NoError(t, err)
	return text
}

func TestNormalise_StripsHeadings(t *testing.T) {
	text := normalise(t, "# Security Policy\n\nReport incidents within one hour.")

	assert.Equal(t, "Security Policy\n\nReport incidents within one hour.", text)
}

func TestNormalise_ConvertsLinksToText(t *testing.T) {
	text := normalise(t, "See the [employee handbook](https://intranet/handbook) for details.")

	assert.Equal(t, "See the employee handbook for details.", text)
}

func TestNormalise_RemovesCodeBlocksAndImages(t *testing.T) {
	text := normalise(t, "Before\n\n```\nsecret config\n```\n\n![diagram](img.png)\n\nAfter")

	assert.NotContains(t, text, "secret config")
	assert.NotContains(t, text, "img.png")
	assert.Contains(t, text, "Before")
	assert.Contains(t, text, "After")
}

func TestNormalise_StripsEmphasisAndLists(t *testing.T) {
	text := normalise(t, "**Important**:\n\n- first rule\n- second rule\n\n1. step one")

	assert.Contains(t, text, "Important")
	assert.Contains(t, text, "first rule")
	assert.Contains(t, text, "step one")
	assert.NotContains(t, text, "**")
	assert.NotContains(t, text, "- ")
}

func TestExtensionsAndPriority(t *testing.T) {
	n := New()

	assert.ElementsMatch(t, []string{".md", ".markdown"}, n.Extensions())
	assert.Equal(t, 50, n.Priority())
}
