// Package validator checks UI code against a style guide with fast,
// deterministic rules. It never calls out to an LLM; richer analysis lives
// in pkg/llm and falls back to this package.
package validator

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/gnana997/uilint/pkg/styleguide"
	"github.com/gnana997/uilint/pkg/styles"
)

// Severity of an issue. Only SeverityError makes a Result invalid.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Category groups issues by the kind of style they concern.
type Category string

const (
	CategoryColor           Category = "color"
	CategoryTypography      Category = "typography"
	CategorySpacing         Category = "spacing"
	CategoryComponent       Category = "component"
	CategoryAccessibility   Category = "accessibility"
	CategoryMaintainability Category = "maintainability"
	CategoryStyle           Category = "style"
)

// Issue is a single finding.
type Issue struct {
	Severity   Severity `json:"severity"`
	Category   Category `json:"category"`
	Message    string   `json:"message"`
	Code       string   `json:"code,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Current    string   `json:"current,omitempty"`
	Expected   string   `json:"expected,omitempty"`
}

// Result is the outcome of validating one input.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

// HasErrors reports whether any issue has error severity.
func (r Result) HasErrors() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Guide is what Validate checks against.
type Guide struct {
	// Colors are the known #RRGGBB values, uppercase, deduplicated.
	Colors []string

	// names maps a known color to its rule name, when it has one.
	names map[string]string
}

// NewGuide builds a Guide from a guide document. Known colors are the
// parsed color rules plus any other #RRGGBB value mentioned in the text.
func NewGuide(doc string) *Guide {
	g := GuideFromStyleGuide(styleguide.Parse(doc))
	for _, c := range styleguide.ExtractValues(doc).Colors {
		g.addColor(c, "")
	}
	return g
}

// GuideFromStyleGuide builds a Guide from parsed rules.
func GuideFromStyleGuide(sg *styleguide.StyleGuide) *Guide {
	g := &Guide{names: make(map[string]string)}
	if sg == nil {
		return g
	}
	for _, c := range sg.Colors {
		g.addColor(c.Value, c.Name)
	}
	return g
}

func (g *Guide) addColor(value, name string) {
	value = strings.ToUpper(value)
	if _, ok := g.names[value]; ok {
		return
	}
	g.names[value] = name
	g.Colors = append(g.Colors, value)
}

func (g *Guide) knows(color string) bool {
	_, ok := g.names[strings.ToUpper(color)]
	return ok
}

// MaxSuggestDistance is the Euclidean RGB distance below which an unknown
// color is reported as a likely typo of a known one.
const MaxSuggestDistance = 50.0

// MaxInlineStyles is the number of inline style attributes tolerated in one
// input before a maintainability warning.
const MaxInlineStyles = 2

var (
	hexColorPattern  = regexp.MustCompile(`#[0-9A-Fa-f]{6}\b`)
	spacingPattern   = regexp.MustCompile(`(?i)\b(?:margin|padding|gap)[a-z-]*\s*:\s*['"]?([^;,'"}\n]+)`)
	pixelPattern     = regexp.MustCompile(`(\d+(?:\.\d+)?)px\b`)
	inlineStyleRegex = regexp.MustCompile(`\bstyle\s*=\s*(?:\{\{|"|')`)
)

// Validate checks code against guide:
//   - every #RRGGBB literal not in the guide is reported once, with the
//     nearest known color when one is within MaxSuggestDistance
//   - margin, padding and gap pixel values must be multiples of 4
//   - more than MaxInlineStyles inline style attributes is a maintainability
//     warning
//
// A nil guide yields a single warning and no other checks.
func Validate(code string, guide *Guide) Result {
	if guide == nil {
		return Result{
			Valid: true,
			Issues: []Issue{{
				Severity:   SeverityWarning,
				Category:   CategoryStyle,
				Message:    "No style guide found",
				Suggestion: "Run `uilint init` to create " + styleguide.DefaultPath,
			}},
		}
	}

	var issues []Issue
	issues = append(issues, checkColors(code, guide)...)
	issues = append(issues, checkSpacing(code)...)
	issues = append(issues, checkInlineStyles(code)...)

	r := Result{Issues: issues}
	if r.Issues == nil {
		r.Issues = []Issue{}
	}
	r.Valid = !r.HasErrors()
	return r
}

func checkColors(code string, guide *Guide) []Issue {
	var issues []Issue
	seen := make(map[string]bool)
	for _, literal := range hexColorPattern.FindAllString(code, -1) {
		color := strings.ToUpper(literal)
		if seen[color] || guide.knows(color) {
			continue
		}
		seen[color] = true
		issues = append(issues, colorIssue(literal, color, guide))
	}
	return issues
}

func colorIssue(literal, color string, guide *Guide) Issue {
	issue := Issue{
		Severity:   SeverityWarning,
		Category:   CategoryColor,
		Message:    fmt.Sprintf("Color %s is not in the style guide", color),
		Code:       literal,
		Current:    color,
		Suggestion: fmt.Sprintf("Add %s to the style guide if it is intentional", color),
	}
	if nearest, dist, ok := NearestColor(color, guide.Colors); ok && dist < MaxSuggestDistance {
		issue.Expected = nearest
		issue.Suggestion = fmt.Sprintf("Did you mean %s?", nearest)
		if name := guide.names[nearest]; name != "" {
			issue.Suggestion = fmt.Sprintf("Did you mean %s (%s)?", nearest, name)
		}
	}
	return issue
}

func checkSpacing(code string) []Issue {
	var issues []Issue
	for _, decl := range spacingPattern.FindAllStringSubmatch(code, -1) {
		for _, px := range pixelPattern.FindAllStringSubmatch(decl[1], -1) {
			n, err := strconv.ParseFloat(px[1], 64)
			if err != nil || math.Mod(n, 4) == 0 {
				continue
			}
			issues = append(issues, spacingIssue(px[0], n, strings.TrimSpace(decl[0])))
		}
	}
	return issues
}

func spacingIssue(value string, n float64, code string) Issue {
	want := nearestMultipleOf4(n)
	return Issue{
		Severity:   SeverityWarning,
		Category:   CategorySpacing,
		Message:    fmt.Sprintf("Spacing value %s is not on the 4px grid", value),
		Code:       code,
		Current:    value,
		Expected:   want,
		Suggestion: "Use " + want,
	}
}

func nearestMultipleOf4(n float64) string {
	m := math.Round(n/4) * 4
	if m == 0 {
		m = 4
	}
	return strconv.FormatFloat(m, 'f', -1, 64) + "px"
}

func checkInlineStyles(code string) []Issue {
	n := len(inlineStyleRegex.FindAllStringIndex(code, -1))
	if n <= MaxInlineStyles {
		return nil
	}
	return []Issue{{
		Severity:   SeverityWarning,
		Category:   CategoryMaintainability,
		Message:    fmt.Sprintf("Found %d inline styles", n),
		Suggestion: "Move repeated inline styles into classes or design tokens",
	}}
}

// NearestColor returns the entry of known closest to hex by Euclidean RGB
// distance. ok is false when hex is not #RRGGBB or known has no valid entry.
func NearestColor(hex string, known []string) (string, float64, bool) {
	r, g, b, ok := styles.HexToRGB(hex)
	if !ok {
		return "", 0, false
	}

	best, bestDist, found := "", math.MaxFloat64, false
	for _, k := range known {
		kr, kg, kb, ok := styles.HexToRGB(k)
		if !ok {
			continue
		}
		dr, dg, db := float64(r-kr), float64(g-kg), float64(b-kb)
		if d := math.Sqrt(dr*dr + dg*dg + db*db); d < bestDist {
			best, bestDist, found = k, d, true
		}
	}
	if !found {
		return "", 0, false
	}
	return best, bestDist, true
}
