package styleguide

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/gnana997/uilint/pkg/styles"
)

// DetectOptions bounds how many rules Detect derives per category.
type DetectOptions struct {
	// MaxColors caps detected colors. Default: 5.
	MaxColors int

	// MaxSpacing caps detected spacing values. Default: 5.
	MaxSpacing int
}

// DefaultDetectOptions returns the caps used by `uilint update`.
func DefaultDetectOptions() DetectOptions {
	return DetectOptions{MaxColors: 5, MaxSpacing: 5}
}

func (o DetectOptions) withDefaults() DetectOptions {
	d := DefaultDetectOptions()
	if o.MaxColors > 0 {
		d.MaxColors = o.MaxColors
	}
	if o.MaxSpacing > 0 {
		d.MaxSpacing = o.MaxSpacing
	}
	return d
}

var pixelPattern = regexp.MustCompile(`^(\d+)px$`)

// Detect derives guide rules from extracted usage:
//   - the most frequent colors as "Color 1".."Color N"
//   - a "Body" typography rule from the most frequent family, size and weight
//   - the most frequent spacing values as "Spacing 1".."Spacing N", plus a
//     "Base unit" when every pixel value is a multiple of 8 (or else 4)
//   - a "Corners" component from the border radii in use
func Detect(s *styles.ExtractedStyles, opts DetectOptions) *StyleGuide {
	opts = opts.withDefaults()
	g := Empty()
	if s == nil {
		return g
	}

	for i, e := range s.Colors.Top(opts.MaxColors) {
		g.Colors = append(g.Colors, NewColorRule(fmt.Sprintf("Color %d", i+1), e.Token, ""))
	}

	body := TypographyOptions{
		FontFamily: top(s.FontFamilies),
		FontSize:   top(s.FontSizes),
		FontWeight: top(s.FontWeights),
	}
	if body != (TypographyOptions{}) {
		g.Typography = append(g.Typography, NewTypographyRule("Body", body))
	}

	if unit := baseUnit(s.Spacing); unit != "" {
		g.Spacing = append(g.Spacing, NewSpacingRule("Base unit", unit))
	}
	for i, e := range s.Spacing.Top(opts.MaxSpacing) {
		g.Spacing = append(g.Spacing, NewSpacingRule(fmt.Sprintf("Spacing %d", i+1), e.Token))
	}

	if radii := s.BorderRadius.Sorted(); len(radii) > 0 {
		var tokens []string
		for _, e := range radii {
			tokens = append(tokens, "border-radius: "+e.Token)
		}
		g.Components = append(g.Components, NewComponentRule("Corners", tokens...))
	}
	return g
}

func top(m *styles.FrequencyMap) string {
	if sorted := m.Top(1); len(sorted) > 0 {
		return sorted[0].Token
	}
	return ""
}

// baseUnit returns "8px" or "4px" when every pixel spacing value is a
// multiple of it, or "" when there are no pixel values or no shared unit.
func baseUnit(m *styles.FrequencyMap) string {
	var values []int
	for _, e := range m.Entries() {
		if px := pixelPattern.FindStringSubmatch(e.Token); px != nil {
			n, _ := strconv.Atoi(px[1])
			values = append(values, n)
		}
	}
	if len(values) == 0 {
		return ""
	}
	for _, unit := range []int{8, 4} {
		shared := true
		for _, v := range values {
			if v%unit != 0 {
				shared = false
				break
			}
		}
		if shared {
			return fmt.Sprintf("%dpx", unit)
		}
	}
	return ""
}

// generatedIntro opens documents written by Generate.
const generatedIntro = "Generated from the styles detected in your UI. Rename the rules and remove values that are not intentional."

// Generate renders a starter guide document for the detected styles. It is
// the deterministic path of `uilint init` and the fallback when an LLM
// cannot produce a guide.
func Generate(s *styles.ExtractedStyles, opts DetectOptions) string {
	return MarkdownWithIntro(Detect(s, opts), generatedIntro)
}
