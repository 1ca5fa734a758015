package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uilint/pkg/styleguide"
)

const primaryGuide = "## Colors\n- **Primary**: #3B82F6 (buttons)\n"

func issuesIn(r Result, c Category) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Category == c {
			out = append(out, i)
		}
	}
	return out
}

// --- guide ---

func TestNewGuide(t *testing.T) {
	doc := primaryGuide + "\n## Notes\nAccent is #f59e0b.\n"
	g := NewGuide(doc)
	assert.Equal(t, []string{"#3B82F6", "#F59E0B"}, g.Colors)
	assert.True(t, g.knows("#3b82f6"))
	assert.Equal(t, "Primary", g.names["#3B82F6"])
}

func TestGuideFromStyleGuide_Nil(t *testing.T) {
	g := GuideFromStyleGuide(nil)
	assert.Empty(t, g.Colors)
	assert.Empty(t, Validate("#3B82F6", g).Issues[0].Expected)
}

// --- colors ---

func TestValidate_KnownColorHasNoIssues(t *testing.T) {
	r := Validate(`<button style={{ background: "#3B82F6" }}>Go</button>`, NewGuide(primaryGuide))
	assert.Empty(t, issuesIn(r, CategoryColor))
	assert.True(t, r.Valid)
}

func TestValidate_UnknownColorReportedOnce(t *testing.T) {
	r := Validate(`<p style="color: #111111">a</p><span class="text-[#111111]">b</span>`, NewGuide(primaryGuide))
	colors := issuesIn(r, CategoryColor)
	require.Len(t, colors, 1)
	assert.Equal(t, SeverityWarning, colors[0].Severity)
	assert.Equal(t, "#111111", colors[0].Current)
	assert.Empty(t, colors[0].Expected)
	assert.Contains(t, colors[0].Suggestion, "if it is intentional")
	assert.True(t, r.Valid)
}

func TestValidate_ColorsCaseInsensitive(t *testing.T) {
	r := Validate(`a { color: #3b82f6 } b { color: #abcdef } c { color: #ABCDEF }`, NewGuide(primaryGuide))
	colors := issuesIn(r, CategoryColor)
	require.Len(t, colors, 1)
	assert.Equal(t, "#ABCDEF", colors[0].Current)
	assert.Equal(t, "#abcdef", colors[0].Code)
}

func TestValidate_NearColorSuggestion(t *testing.T) {
	r := Validate(`color: #3B82F0`, NewGuide(primaryGuide))
	colors := issuesIn(r, CategoryColor)
	require.Len(t, colors, 1)
	assert.Equal(t, "#3B82F6", colors[0].Expected)
	assert.Equal(t, "Did you mean #3B82F6 (Primary)?", colors[0].Suggestion)
}

func TestNearestColor(t *testing.T) {
	known := []string{"#000000", "#FFFFFF", "bogus"}

	c, d, ok := NearestColor("#0A0A0A", known)
	require.True(t, ok)
	assert.Equal(t, "#000000", c)
	assert.InDelta(t, 17.32, d, 0.01)

	_, _, ok = NearestColor("#0A0A0A", nil)
	assert.False(t, ok)
	_, _, ok = NearestColor("red", known)
	assert.False(t, ok)
}

// --- spacing ---

func TestValidate_SpacingGrid(t *testing.T) {
	g := NewGuide(primaryGuide)

	r := Validate(`<div style={{ padding: "16px" }} />`, g)
	assert.Empty(t, issuesIn(r, CategorySpacing))

	r = Validate(`<div style={{ padding: "15px" }} />`, g)
	spacing := issuesIn(r, CategorySpacing)
	require.Len(t, spacing, 1)
	assert.Equal(t, "15px", spacing[0].Current)
	assert.Equal(t, "16px", spacing[0].Expected)
	assert.Equal(t, "Use 16px", spacing[0].Suggestion)
}

func TestValidate_SpacingValues(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{"css shorthand", `.a { margin: 8px 10px; }`, []string{"12px"}},
		{"longhand", `.a { padding-left: 6px }`, []string{"8px"}},
		{"camel case", `{ marginTop: '2px' }`, []string{"4px"}},
		{"gap", `.grid { gap: 13px; }`, []string{"12px"}},
		{"fraction", `.a { margin: 7.5px }`, []string{"8px"}},
		{"tiny value rounds up", `.a { margin: 1px }`, []string{"4px"}},
		{"unitless ignored", `{ padding: 15 }`, nil},
		{"other units ignored", `.a { margin: 1.5rem }`, nil},
		{"non-spacing ignored", `.a { width: 15px }`, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			for _, i := range issuesIn(Validate(tc.code, NewGuide("")), CategorySpacing) {
				got = append(got, i.Expected)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

// --- inline styles ---

func TestValidate_InlineStyles(t *testing.T) {
	two := `<a style="x">1</a><b style={{ y: 1 }}>2</b>`
	assert.Empty(t, issuesIn(Validate(two, NewGuide("")), CategoryMaintainability))

	three := two + `<i style='z'>3</i>`
	m := issuesIn(Validate(three, NewGuide("")), CategoryMaintainability)
	require.Len(t, m, 1)
	assert.Equal(t, "Found 3 inline styles", m[0].Message)
}

// --- result ---

func TestValidate_NoGuide(t *testing.T) {
	r := Validate(`color: #111111`, nil)
	assert.True(t, r.Valid)
	require.Len(t, r.Issues, 1)
	assert.Equal(t, SeverityWarning, r.Issues[0].Severity)
	assert.Equal(t, "No style guide found", r.Issues[0].Message)
}

func TestValidate_CleanInput(t *testing.T) {
	r := Validate(`<p>hello</p>`, GuideFromStyleGuide(styleguide.Parse(primaryGuide)))
	assert.True(t, r.Valid)
	assert.NotNil(t, r.Issues)
	assert.Empty(t, r.Issues)
}

func TestResult_HasErrors(t *testing.T) {
	assert.False(t, Result{Issues: []Issue{{Severity: SeverityWarning}}}.HasErrors())
	assert.True(t, Result{Issues: []Issue{{Severity: SeverityInfo}, {Severity: SeverityError}}}.HasErrors())
}
