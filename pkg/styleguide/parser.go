package styleguide

import (
	"regexp"
	"strings"
)

// IntroTitle is the title of the implicit section holding content before the
// first header.
const IntroTitle = "intro"

// Section is a level-2 section of a guide document.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Category identifies which rule set a section feeds.
type Category int

const (
	CategoryNone Category = iota
	CategoryColors
	CategoryTypography
	CategorySpacing
	CategoryComponents
)

var (
	headerPattern = regexp.MustCompile(`^##\s+(.+)$`)

	// "- **Primary**: #3B82F6 (buttons)"; bold markers and usage optional.
	colorLinePattern = regexp.MustCompile(`^\s*[-*]\s*\*?\*?([^*:]+)\*?\*?:\s*(#[A-Fa-f0-9]{6})\s*(?:\(([^)]+)\))?`)

	// "- **Name**: value" for typography, spacing and components.
	ruleLinePattern = regexp.MustCompile(`^\s*[-*]\s*\*?\*?([^*:]+)\*?\*?:\s*(.+)`)

	fontFamilyPattern = regexp.MustCompile(`font-family:\s*"?([^",]+)"?`)
	fontSizePattern   = regexp.MustCompile(`font-size:\s*(\d+px)`)
	fontWeightPattern = regexp.MustCompile(`font-weight:\s*(\d+)`)
	lineHeightPattern = regexp.MustCompile(`line-height:\s*([\d.]+)`)
)

// CategoryOf matches a section title against the keyword groups, in order:
// color, typography or font, spacing, component. First match wins.
func CategoryOf(title string) Category {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "color"):
		return CategoryColors
	case strings.Contains(t, "typography"), strings.Contains(t, "font"):
		return CategoryTypography
	case strings.Contains(t, "spacing"):
		return CategorySpacing
	case strings.Contains(t, "component"):
		return CategoryComponents
	default:
		return CategoryNone
	}
}

// ParseSections splits doc at "## Title" lines. Content before the first
// header becomes a leading IntroTitle section when it is not blank.
func ParseSections(doc string) []Section {
	var (
		sections []Section
		title    = IntroTitle
		content  []string
	)

	flush := func() {
		body := strings.Join(content, "\n")
		if title != IntroTitle || strings.TrimSpace(body) != "" {
			sections = append(sections, Section{Title: title, Content: body})
		}
	}

	for _, line := range strings.Split(normalizeNewlines(doc), "\n") {
		if m := headerPattern.FindStringSubmatch(line); m != nil {
			flush()
			title = strings.TrimSpace(m[1])
			content = nil
			continue
		}
		content = append(content, line)
	}
	flush()
	return sections
}

// Intro returns the text before the first section, without a leading
// "# Title" line. Markdown output of Intro(doc) keeps a document's preamble
// across a rewrite.
func Intro(doc string) string {
	sections := ParseSections(doc)
	if len(sections) == 0 || sections[0].Title != IntroTitle {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(sections[0].Content), "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "# ") {
		lines = lines[1:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Parse builds a StyleGuide from a guide document. Lines that match no rule
// pattern are dropped; an empty document yields an empty guide. Repeated
// sections of one category append in document order.
func Parse(doc string) *StyleGuide {
	g := Empty()
	for _, s := range ParseSections(doc) {
		switch CategoryOf(s.Title) {
		case CategoryColors:
			g.Colors = append(g.Colors, parseColors(s.Content)...)
		case CategoryTypography:
			g.Typography = append(g.Typography, parseTypography(s.Content)...)
		case CategorySpacing:
			g.Spacing = append(g.Spacing, parseSpacing(s.Content)...)
		case CategoryComponents:
			g.Components = append(g.Components, parseComponents(s.Content)...)
		}
	}
	return g
}

func parseColors(content string) []ColorRule {
	var out []ColorRule
	for _, line := range strings.Split(content, "\n") {
		m := colorLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out = append(out, NewColorRule(strings.TrimSpace(m[1]), m[2], strings.TrimSpace(m[3])))
	}
	return out
}

func parseTypography(content string) []TypographyRule {
	var out []TypographyRule
	for _, line := range strings.Split(content, "\n") {
		m := ruleLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		props := m[2]
		out = append(out, NewTypographyRule(strings.TrimSpace(m[1]), TypographyOptions{
			FontFamily: strings.TrimSpace(submatch(fontFamilyPattern, props)),
			FontSize:   submatch(fontSizePattern, props),
			FontWeight: submatch(fontWeightPattern, props),
			LineHeight: submatch(lineHeightPattern, props),
		}))
	}
	return out
}

func parseSpacing(content string) []SpacingRule {
	var out []SpacingRule
	for _, line := range strings.Split(content, "\n") {
		m := ruleLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out = append(out, NewSpacingRule(strings.TrimSpace(m[1]), strings.TrimSpace(m[2])))
	}
	return out
}

func parseComponents(content string) []ComponentRule {
	var out []ComponentRule
	for _, line := range strings.Split(content, "\n") {
		m := ruleLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		var styles []string
		for _, s := range strings.Split(m[2], ",") {
			styles = append(styles, strings.TrimSpace(s))
		}
		out = append(out, NewComponentRule(strings.TrimSpace(m[1]), styles...))
	}
	return out
}

func submatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// Values are the raw style values mentioned anywhere in a document,
// deduplicated in document order.
type Values struct {
	Colors       []string `json:"colors"`
	FontSizes    []string `json:"fontSizes"`
	FontFamilies []string `json:"fontFamilies"`
}

var (
	anyColorPattern      = regexp.MustCompile(`#[0-9A-Fa-f]{6}\b`)
	anyFontSizePattern   = regexp.MustCompile(`font-size:\s*(\d+px)`)
	anyFontFamilyPattern = regexp.MustCompile(`font-family:\s*"?([^",\n]+)"?`)
)

// ExtractValues collects every #RRGGBB color (uppercased), font-size pixel
// value and font family in doc, regardless of section structure.
func ExtractValues(doc string) Values {
	v := Values{Colors: []string{}, FontSizes: []string{}, FontFamilies: []string{}}

	seen := make(map[string]bool)
	for _, c := range anyColorPattern.FindAllString(doc, -1) {
		c = strings.ToUpper(c)
		if !seen[c] {
			seen[c] = true
			v.Colors = append(v.Colors, c)
		}
	}

	v.FontSizes = uniqueSubmatches(anyFontSizePattern, doc)
	v.FontFamilies = uniqueSubmatches(anyFontFamilyPattern, doc)
	return v
}

func uniqueSubmatches(re *regexp.Regexp, doc string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, m := range re.FindAllStringSubmatch(doc, -1) {
		s := strings.TrimSpace(m[1])
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
