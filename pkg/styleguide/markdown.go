package styleguide

import (
	"fmt"
	"strings"
)

// DocumentTitle heads every generated guide document.
const DocumentTitle = "# UI Style Guide"

// Section titles written by Markdown.
const (
	TitleColors     = "Colors"
	TitleTypography = "Typography"
	TitleSpacing    = "Spacing"
	TitleComponents = "Components"
)

// typographyPlaceholder stands in for a typography rule with no recognized
// properties so the line still parses back to the same element.
const typographyPlaceholder = "default"

// Markdown renders g as a guide document with the four category sections.
// Parse(Markdown(g)) reproduces g for well-formed values: names without
// ':' or '*', pixel font sizes, and component styles without commas.
func Markdown(g *StyleGuide) string {
	return MarkdownWithIntro(g, "")
}

// MarkdownWithIntro is Markdown with a paragraph between the title and the
// first section.
func MarkdownWithIntro(g *StyleGuide, intro string) string {
	if g == nil {
		g = Empty()
	}

	var sb strings.Builder
	sb.WriteString(DocumentTitle)
	sb.WriteString("\n\n")
	if intro = strings.TrimSpace(intro); intro != "" {
		sb.WriteString(intro)
		sb.WriteString("\n\n")
	}

	fmt.Fprintf(&sb, "## %s\n", TitleColors)
	for _, c := range g.Colors {
		fmt.Fprintf(&sb, "- **%s**: %s", c.Name, c.Value)
		if c.Usage != "" {
			fmt.Fprintf(&sb, " (%s)", c.Usage)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\n## %s\n", TitleTypography)
	for _, t := range g.Typography {
		fmt.Fprintf(&sb, "- **%s**: %s\n", t.Element, typographyProps(t))
	}

	fmt.Fprintf(&sb, "\n## %s\n", TitleSpacing)
	for _, s := range g.Spacing {
		fmt.Fprintf(&sb, "- **%s**: %s\n", s.Name, s.Value)
	}

	fmt.Fprintf(&sb, "\n## %s\n", TitleComponents)
	for _, c := range g.Components {
		fmt.Fprintf(&sb, "- **%s**: %s\n", c.Name, strings.Join(c.Styles, ", "))
	}

	return sb.String()
}

func typographyProps(t TypographyRule) string {
	var props []string
	if t.FontFamily != "" {
		props = append(props, `font-family: "`+t.FontFamily+`"`)
	}
	if t.FontSize != "" {
		props = append(props, "font-size: "+t.FontSize)
	}
	if t.FontWeight != "" {
		props = append(props, "font-weight: "+t.FontWeight)
	}
	if t.LineHeight != "" {
		props = append(props, "line-height: "+t.LineHeight)
	}
	if len(props) == 0 {
		return typographyPlaceholder
	}
	return strings.Join(props, ", ")
}
