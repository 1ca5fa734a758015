package styleguide

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uilint/pkg/styles"
)

const sampleDoc = `# UI Style Guide

Our design system.

## Colors
- **Primary**: #3b82f6 (buttons, links)
- **Text**: #111827
* Muted: #6B7280
- not a color line
- **Broken**: #12345

## Typography
- **Headings**: font-family: "Inter", font-size: 24px, font-weight: 700
- **Body**: font-family: "Inter", font-size: 16px, line-height: 1.5, letter-spacing: 0

## Spacing
- **Base unit**: 4px
- **Card padding**: 16px

## Components
- **Buttons**: rounded-lg, px-4 py-2
- **Cards**: shadow-sm,  border

## Notes
- **Ignored**: #FFFFFF
`

// --- parser ---

func TestParse_SampleDocument(t *testing.T) {
	g := Parse(sampleDoc)

	assert.Equal(t, []ColorRule{
		{Name: "Primary", Value: "#3B82F6", Usage: "buttons, links"},
		{Name: "Text", Value: "#111827"},
		{Name: "Muted", Value: "#6B7280"},
	}, g.Colors)

	assert.Equal(t, []TypographyRule{
		{Element: "Headings", FontFamily: "Inter", FontSize: "24px", FontWeight: "700"},
		{Element: "Body", FontFamily: "Inter", FontSize: "16px", LineHeight: "1.5"},
	}, g.Typography)

	assert.Equal(t, []SpacingRule{
		{Name: "Base unit", Value: "4px"},
		{Name: "Card padding", Value: "16px"},
	}, g.Spacing)

	assert.Equal(t, []ComponentRule{
		{Name: "Buttons", Styles: []string{"rounded-lg", "px-4 py-2"}},
		{Name: "Cards", Styles: []string{"shadow-sm", "border"}},
	}, g.Components)
}

func TestParse_PrimaryColorOnly(t *testing.T) {
	g := Parse("## Colors\n- **Primary**: #3B82F6 (buttons)\n")
	require.Len(t, g.Colors, 1)
	assert.Equal(t, ColorRule{Name: "Primary", Value: "#3B82F6", Usage: "buttons"}, g.Colors[0])
	assert.Empty(t, g.Typography)
	assert.Empty(t, g.Spacing)
	assert.Empty(t, g.Components)
}

func TestParse_EmptyDocument(t *testing.T) {
	g := Parse("")
	assert.True(t, g.IsEmpty())
	assert.NotNil(t, g.Colors)
}

func TestParse_RepeatedSectionsAppend(t *testing.T) {
	doc := "## Brand Colors\n- **A**: #000001\n\n## Status Colors\n- **B**: #000002\n"
	g := Parse(doc)
	assert.Equal(t, []string{"#000001", "#000002"}, g.ColorValues())
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, CategoryColors, CategoryOf("Color Palette"))
	assert.Equal(t, CategoryColors, CategoryOf("Font colors"), "color group is checked first")
	assert.Equal(t, CategoryTypography, CategoryOf("FONTS"))
	assert.Equal(t, CategorySpacing, CategoryOf("Spacing & Layout"))
	assert.Equal(t, CategoryComponents, CategoryOf("UI Components"))
	assert.Equal(t, CategoryNone, CategoryOf("Notes"))
}

func TestParseSections(t *testing.T) {
	sections := ParseSections(sampleDoc)
	require.Len(t, sections, 6)
	assert.Equal(t, IntroTitle, sections[0].Title)
	assert.Contains(t, sections[0].Content, "Our design system.")
	assert.Equal(t, "Colors", sections[1].Title)
	assert.Equal(t, "Notes", sections[5].Title)

	noIntro := ParseSections("## Colors\n- **A**: #000000")
	require.Len(t, noIntro, 1)
	assert.Equal(t, "Colors", noIntro[0].Title)

	crlf := ParseSections("## Spacing\r\n- **A**: 4px\r\n")
	require.Len(t, crlf, 1)
	assert.Equal(t, "Spacing", crlf[0].Title)
}

func TestExtractValues(t *testing.T) {
	v := ExtractValues(sampleDoc)
	assert.Equal(t, []string{"#3B82F6", "#111827", "#6B7280", "#FFFFFF"}, v.Colors)
	assert.Equal(t, []string{"24px", "16px"}, v.FontSizes)
	assert.Equal(t, []string{"Inter"}, v.FontFamilies)
}

// --- serializer ---

func TestMarkdown_RoundTrip(t *testing.T) {
	g := &StyleGuide{
		Colors: []ColorRule{
			NewColorRule("Primary", "#3b82f6", "buttons"),
			NewColorRule("Text", "#111827", ""),
		},
		Typography: []TypographyRule{
			NewTypographyRule("Body", TypographyOptions{FontFamily: "Inter", FontSize: "16px", FontWeight: "400", LineHeight: "1.5"}),
			NewTypographyRule("Caption", TypographyOptions{}),
		},
		Spacing: []SpacingRule{
			NewSpacingRule("Base unit", "4px"),
			NewSpacingRule("Section gap", "2rem"),
		},
		Components: []ComponentRule{
			NewComponentRule("Buttons", "rounded-lg", "px-4 py-2"),
		},
	}

	doc := Markdown(g)
	assert.True(t, strings.HasPrefix(doc, DocumentTitle))

	parsed := Parse(doc)
	assert.Equal(t, g, parsed)
	assert.Equal(t, doc, Markdown(parsed))
}

func TestMarkdown_EmptyGuide(t *testing.T) {
	doc := Markdown(nil)
	for _, title := range []string{TitleColors, TitleTypography, TitleSpacing, TitleComponents} {
		assert.Contains(t, doc, "## "+title+"\n")
	}
	assert.True(t, Parse(doc).IsEmpty())
}

// --- merge ---

func detectedBatch() *StyleGuide {
	return &StyleGuide{
		Colors: []ColorRule{
			NewColorRule("Color 1", "#3B82F6", ""), // value collides with Primary
			NewColorRule("Color 2", "#FF0000", ""),
			NewColorRule("Primary", "#00FF00", ""), // name collides
			NewColorRule("Color 3", "#ff0000", ""), // collides with Color 2 in the batch
		},
		Typography: []TypographyRule{
			NewTypographyRule("Body", TypographyOptions{FontSize: "18px"}),
			NewTypographyRule("Caption", TypographyOptions{FontSize: "12px"}),
		},
		Spacing: []SpacingRule{
			NewSpacingRule("Spacing 1", "4px"),
			NewSpacingRule("Spacing 2", "24px"),
			NewSpacingRule("Spacing 2", "32px"),
		},
		Components: []ComponentRule{
			NewComponentRule("Buttons", "rounded-none"),
			NewComponentRule("Corners", "border-radius: 6px"),
		},
	}
}

func TestMerge_ExistingWins(t *testing.T) {
	existing := Parse(sampleDoc)
	merged := Merge(existing, detectedBatch())

	assert.Equal(t, []string{"#3B82F6", "#111827", "#6B7280", "#FF0000"}, merged.ColorValues())
	assert.Equal(t, "Color 2", merged.Colors[3].Name)

	require.Len(t, merged.Typography, 3)
	assert.Equal(t, "16px", merged.Typography[1].FontSize, "existing Body rule is not updated")
	assert.Equal(t, "Caption", merged.Typography[2].Element)

	assert.Equal(t, []SpacingRule{
		{Name: "Base unit", Value: "4px"},
		{Name: "Card padding", Value: "16px"},
		{Name: "Spacing 2", Value: "24px"},
	}, merged.Spacing)

	require.Len(t, merged.Components, 3)
	assert.Equal(t, []string{"rounded-lg", "px-4 py-2"}, merged.Components[0].Styles)
	assert.Equal(t, "Corners", merged.Components[2].Name)
}

func TestMerge_NonDestructive(t *testing.T) {
	existing := Parse(sampleDoc)
	before := existing.Clone()
	merged := Merge(existing, detectedBatch())

	assert.Equal(t, before, existing, "inputs are not modified")
	assert.Equal(t, existing.Colors, merged.Colors[:len(existing.Colors)])
	assert.Equal(t, existing.Typography, merged.Typography[:len(existing.Typography)])
	assert.Equal(t, existing.Spacing, merged.Spacing[:len(existing.Spacing)])
	assert.Equal(t, existing.Components, merged.Components[:len(existing.Components)])
}

func TestMerge_Idempotent(t *testing.T) {
	guides := []*StyleGuide{Empty(), Parse(sampleDoc), Parse("## Colors\n- **Primary**: #3B82F6\n")}
	for _, g := range guides {
		once := Merge(g, detectedBatch())
		twice := Merge(once, detectedBatch())
		assert.Equal(t, once, twice)
	}
}

func TestMerge_NilInputs(t *testing.T) {
	assert.True(t, Merge(nil, nil).IsEmpty())
	merged := Merge(nil, detectedBatch())
	assert.Equal(t, []string{"#3B82F6", "#FF0000", "#00FF00"}, merged.ColorValues())
}

// --- model ---

func TestValidate(t *testing.T) {
	assert.Empty(t, Parse(sampleDoc).Validate())

	g := &StyleGuide{
		Colors:     []ColorRule{{Name: "", Value: "#000000"}, {Name: "A", Value: "red"}, {Name: "A", Value: "#FFFFFF"}},
		Spacing:    []SpacingRule{{Name: "S"}},
		Components: []ComponentRule{{Name: "C"}},
	}
	errs := g.Validate()
	require.Len(t, errs, 5)
	assert.Contains(t, errs[0].Error(), "colors[0]: name is required")
	assert.Contains(t, errs[1].Error(), "not #RRGGBB")
	assert.Contains(t, errs[2].Error(), "duplicate name")
}

func TestClone_IsDeep(t *testing.T) {
	g := Parse(sampleDoc)
	c := g.Clone()
	c.Components[0].Styles[0] = "changed"
	c.Colors[0].Name = "changed"
	assert.Equal(t, "rounded-lg", g.Components[0].Styles[0])
	assert.Equal(t, "Primary", g.Colors[0].Name)
}

// --- detection ---

func extracted() *styles.ExtractedStyles {
	s := styles.NewExtractedStyles()
	s.Colors.AddN("#111111", 5)
	s.Colors.AddN("#3B82F6", 3)
	for _, c := range []string{"#000001", "#000002", "#000003", "#000004"} {
		s.Colors.Add(c)
	}
	s.FontFamilies.AddN("Inter", 4)
	s.FontFamilies.Add("Georgia")
	s.FontSizes.AddN("16px", 4)
	s.FontWeights.AddN("400", 4)
	s.Spacing.AddN("8px", 3)
	s.Spacing.AddN("16px", 2)
	s.BorderRadius.AddN("6px", 2)
	return s
}

func TestDetect(t *testing.T) {
	g := Detect(extracted(), DetectOptions{})

	require.Len(t, g.Colors, 5)
	assert.Equal(t, NewColorRule("Color 1", "#111111", ""), g.Colors[0])
	assert.Equal(t, NewColorRule("Color 2", "#3B82F6", ""), g.Colors[1])

	assert.Equal(t, []TypographyRule{
		{Element: "Body", FontFamily: "Inter", FontSize: "16px", FontWeight: "400"},
	}, g.Typography)

	assert.Equal(t, []SpacingRule{
		{Name: "Base unit", Value: "8px"},
		{Name: "Spacing 1", Value: "8px"},
		{Name: "Spacing 2", Value: "16px"},
	}, g.Spacing)

	assert.Equal(t, []ComponentRule{
		{Name: "Corners", Styles: []string{"border-radius: 6px"}},
	}, g.Components)
}

func TestDetect_NoSharedUnit(t *testing.T) {
	s := styles.NewExtractedStyles()
	s.Spacing.Add("6px")
	s.Spacing.Add("1rem")
	g := Detect(s, DetectOptions{MaxSpacing: 1})
	assert.Equal(t, []SpacingRule{{Name: "Spacing 1", Value: "6px"}}, g.Spacing)
	assert.Empty(t, g.Typography)
}

func TestGenerate_ParsesBack(t *testing.T) {
	doc := Generate(extracted(), DefaultDetectOptions())
	assert.Contains(t, doc, generatedIntro)
	assert.Equal(t, Detect(extracted(), DefaultDetectOptions()), Parse(doc))
}

func TestIntro(t *testing.T) {
	doc := Generate(extracted(), DefaultDetectOptions())
	assert.Equal(t, generatedIntro, Intro(doc))
	assert.Equal(t, doc, MarkdownWithIntro(Parse(doc), Intro(doc)))

	assert.Empty(t, Intro("## Colors\n- **A**: #000000\n"))
	assert.Equal(t, "Plain preamble.", Intro("Plain preamble.\n\n## Colors\n"))
}

// --- query ---

func TestAnswer(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"what colors can I use?", "Colors in the style guide:\n  Primary: #3B82F6 (buttons, links)"},
		{"which font?", "Font families: Inter"},
		{"what font size for body", "Font sizes: 24px, 16px"},
		{"card padding", "Spacing values:\n  Base unit: 4px"},
		{"button styles", "Component styles:\n  Buttons: rounded-lg, px-4 py-2"},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			got, ok := Answer(tc.query, sampleDoc)
			require.True(t, ok)
			assert.True(t, strings.HasPrefix(got, tc.want), "got %q", got)
		})
	}

	_, ok := Answer("how should I structure a modal?", sampleDoc)
	assert.False(t, ok)

	got, ok := Answer("colors", "Just prose mentioning #abcdef.")
	require.True(t, ok)
	assert.Equal(t, "Colors found: #ABCDEF", got)
}

func TestFallback(t *testing.T) {
	got := Fallback(sampleDoc)
	assert.Contains(t, got, "- Colors: #3B82F6, #111827, #6B7280, #FFFFFF")
	assert.Contains(t, got, "- Font Sizes: 24px, 16px")

	assert.Contains(t, Fallback(""), "- Colors: None defined")
}

func TestFindSection(t *testing.T) {
	s, ok := FindSection(sampleDoc, "typo")
	require.True(t, ok)
	assert.Equal(t, "Typography", s.Title)
	assert.Contains(t, s.Content, "Headings")

	_, ok = FindSection(sampleDoc, "animations")
	assert.False(t, ok)
}
