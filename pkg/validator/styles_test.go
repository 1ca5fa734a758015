package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uilint/pkg/styles"
)

func TestValidateStyles(t *testing.T) {
	s := styles.NewExtractedStyles()
	s.Colors.AddN("#3B82F6", 5)
	s.Colors.AddN("#3B82F7", 2)
	s.Colors.Add("#111111")
	s.Spacing.AddN("16px", 4)
	s.Spacing.AddN("15px", 3)
	s.Spacing.Add("8px 10px")

	r := ValidateStyles(s, NewGuide(primaryGuide))
	assert.True(t, r.Valid)

	colors := issuesIn(r, CategoryColor)
	require.Len(t, colors, 2)
	assert.Equal(t, "Color #3B82F7 is used 2 times but is not in the style guide", colors[0].Message)
	assert.Equal(t, "#3B82F6", colors[0].Expected)
	assert.Equal(t, "Did you mean #3B82F6 (Primary)?", colors[0].Suggestion)
	assert.Equal(t, "Color #111111 is used once but is not in the style guide", colors[1].Message)
	assert.Empty(t, colors[1].Expected)

	spacing := issuesIn(r, CategorySpacing)
	require.Len(t, spacing, 2)
	assert.Equal(t, "15px", spacing[0].Current)
	assert.Equal(t, "16px", spacing[0].Expected)
	assert.Equal(t, "10px", spacing[1].Current)
	assert.Equal(t, "8px 10px", spacing[1].Code)
}

func TestValidateStyles_NoGuide(t *testing.T) {
	r := ValidateStyles(styles.NewExtractedStyles(), nil)
	require.Len(t, r.Issues, 1)
	assert.Equal(t, "No style guide found", r.Issues[0].Message)
	assert.True(t, r.Valid)
}

func TestValidateStyles_NilStyles(t *testing.T) {
	r := ValidateStyles(nil, NewGuide(primaryGuide))
	assert.True(t, r.Valid)
	assert.NotNil(t, r.Issues)
	assert.Empty(t, r.Issues)
}
