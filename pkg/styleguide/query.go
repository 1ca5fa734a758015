package styleguide

import (
	"fmt"
	"strings"
)

// MissingGuideMessage answers any query when the project has no guide.
const MissingGuideMessage = "No style guide found. Create a .uilint/styleguide.md file to define your design system."

// Answer responds to simple keyword queries (colors, fonts, font sizes,
// spacing, components) from the document alone. ok is false when the query
// needs a richer answer than keyword lookup can give.
func Answer(query, doc string) (string, bool) {
	q := strings.ToLower(query)
	g := Parse(doc)
	values := ExtractValues(doc)

	switch {
	case strings.Contains(q, "color"):
		if len(g.Colors) > 0 {
			lines := make([]string, 0, len(g.Colors))
			for _, c := range g.Colors {
				line := fmt.Sprintf("  %s: %s", c.Name, c.Value)
				if c.Usage != "" {
					line += fmt.Sprintf(" (%s)", c.Usage)
				}
				lines = append(lines, line)
			}
			return "Colors in the style guide:\n" + strings.Join(lines, "\n"), true
		}
		if len(values.Colors) > 0 {
			return "Colors found: " + strings.Join(values.Colors, ", "), true
		}
		return "No colors defined in the style guide.", true

	case strings.Contains(q, "font") && !strings.Contains(q, "size"):
		if len(values.FontFamilies) > 0 {
			return "Font families: " + strings.Join(values.FontFamilies, ", "), true
		}
		return "No font families defined in the style guide.", true

	case strings.Contains(q, "font size"), strings.Contains(q, "fontsize"), strings.Contains(q, "font-size"):
		if len(values.FontSizes) > 0 {
			return "Font sizes: " + strings.Join(values.FontSizes, ", "), true
		}
		return "No font sizes defined in the style guide.", true

	case strings.Contains(q, "spacing"), strings.Contains(q, "padding"), strings.Contains(q, "margin"):
		if len(g.Spacing) > 0 {
			lines := make([]string, 0, len(g.Spacing))
			for _, s := range g.Spacing {
				lines = append(lines, fmt.Sprintf("  %s: %s", s.Name, s.Value))
			}
			return "Spacing values:\n" + strings.Join(lines, "\n"), true
		}
		return "No spacing values defined in the style guide.", true

	case strings.Contains(q, "component"), strings.Contains(q, "button"), strings.Contains(q, "card"):
		if len(g.Components) > 0 {
			lines := make([]string, 0, len(g.Components))
			for _, c := range g.Components {
				lines = append(lines, fmt.Sprintf("  %s: %s", c.Name, strings.Join(c.Styles, ", ")))
			}
			return "Component styles:\n" + strings.Join(lines, "\n"), true
		}
		return "No component styles defined in the style guide.", true
	}

	return "", false
}

// Fallback is the canned summary given when a query cannot be answered by
// keyword lookup and no LLM is available.
func Fallback(doc string) string {
	values := ExtractValues(doc)

	colors := values.Colors
	if len(colors) > 5 {
		colors = colors[:5]
	}

	return fmt.Sprintf(`Style Guide Summary:
- Colors: %s
- Font Sizes: %s
- Font Families: %s

For more specific queries, make sure an Ollama server is reachable.`,
		listOrNone(colors), listOrNone(values.FontSizes), listOrNone(values.FontFamilies))
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "None defined"
	}
	return strings.Join(items, ", ")
}

// FindSection returns the first section whose title contains title,
// case-insensitively.
func FindSection(doc, title string) (Section, bool) {
	want := strings.ToLower(strings.TrimSpace(title))
	if want == "" {
		return Section{}, false
	}
	for _, s := range ParseSections(doc) {
		if strings.Contains(strings.ToLower(s.Title), want) {
			return s, true
		}
	}
	return Section{}, false
}
