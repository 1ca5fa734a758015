package styles

import (
	"fmt"
	"strings"
)

// Summary caps. Colors and spacing are the only high-cardinality categories;
// the caps bound the size of text sent to an external analysis service.
const (
	MaxSummaryColors  = 20
	MaxSummarySpacing = 15
)

// Summarize renders s as the detected styles report. Each category is sorted
// by count descending with encounter order breaking ties. The output is the
// only form in which extracted data leaves the process.
func Summarize(s *ExtractedStyles) string {
	if s == nil {
		s = NewExtractedStyles()
	}
	view := *s
	view.ensure()
	s = &view

	var sb strings.Builder
	sb.WriteString("## Detected Styles Summary\n\n")

	writeCategory(&sb, "Colors", s.Colors.Top(MaxSummaryColors))
	sb.WriteString("\n")
	writeCategory(&sb, "Font Sizes", s.FontSizes.Sorted())
	sb.WriteString("\n")
	writeCategory(&sb, "Font Families", s.FontFamilies.Sorted())
	sb.WriteString("\n")
	writeCategory(&sb, "Font Weights", s.FontWeights.Sorted())
	sb.WriteString("\n")
	writeCategory(&sb, "Spacing Values", s.Spacing.Top(MaxSummarySpacing))
	sb.WriteString("\n")
	writeCategory(&sb, "Border Radius", s.BorderRadius.Sorted())

	return strings.TrimRight(sb.String(), "\n")
}

func writeCategory(sb *strings.Builder, title string, entries []TokenCount) {
	fmt.Fprintf(sb, "### %s\n", title)
	for _, e := range entries {
		fmt.Fprintf(sb, "- %s: %d occurrences\n", e.Token, e.Count)
	}
}
