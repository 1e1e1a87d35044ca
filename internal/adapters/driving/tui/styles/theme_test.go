package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumen-reader/lumen/internal/core/domain"
)

func TestDefaultTheme_CoversAllHighlightColours(t *testing.T) {
	theme := DefaultTheme()

	colours := []domain.HighlightColor{
		domain.HighlightYellow,
		domain.HighlightBlue,
		domain.HighlightGreen,
		domain.HighlightPink,
	}
	for _, c := range colours {
		assert.Contains(t, theme.Highlights, c)
	}
}

func TestNewStyles_NilThemeFallsBackToDefault(t *testing.T) {
	s := NewStyles(nil)

	assert.NotNil(t, s.Theme())
	assert.Equal(t, DefaultTheme().Primary, s.Theme().Primary)
}

func TestHighlightStyle_UnknownColourUsesPrimary(t *testing.T) {
	s := DefaultStyles()

	style := s.HighlightStyle(domain.HighlightColor("mauve"))
	known := s.HighlightStyle(domain.HighlightYellow)

	assert.NotEqual(t, known.GetForeground(), style.GetForeground())
	assert.Equal(t, s.Theme().Primary, style.GetForeground())
}
