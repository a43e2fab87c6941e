package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()
	require.NotNil(t, theme)

	assert.Equal(t, lipgloss.Color("#2563EB"), theme.Primary)
	assert.Equal(t, lipgloss.Color("#F38BA8"), theme.Error)
	assert.Equal(t, lipgloss.Color("#A6E3A1"), theme.Success)
}

func TestNewStyles(t *testing.T) {
	theme := DefaultTheme()
	s := NewStyles(theme)
	require.NotNil(t, s)

	assert.Same(t, theme, s.Theme())
	assert.True(t, s.Title.GetBold())
	assert.True(t, s.Selected.GetBold())
}

func TestNewStyles_NilThemeFallsBack(t *testing.T) {
	s := NewStyles(nil)
	require.NotNil(t, s)
	require.NotNil(t, s.Theme())

	assert.Equal(t, DefaultTheme().Primary, s.Theme().Primary)
}

func TestDefaultStyles(t *testing.T) {
	s := DefaultStyles()
	require.NotNil(t, s)
	assert.NotNil(t, s.Theme())
}
