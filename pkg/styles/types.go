// Package styles extracts style usage from an element tree into frequency
// mappings of normalized tokens and renders them as a deterministic summary.
package styles

import (
	"encoding/json"
	"strings"
)

// ExtractedStyles holds one frequency mapping per style category.
type ExtractedStyles struct {
	Colors       *FrequencyMap `json:"colors"`
	FontSizes    *FrequencyMap `json:"fontSizes"`
	FontFamilies *FrequencyMap `json:"fontFamilies"`
	FontWeights  *FrequencyMap `json:"fontWeights"`
	Spacing      *FrequencyMap `json:"spacing"`
	BorderRadius *FrequencyMap `json:"borderRadius"`
}

// NewExtractedStyles returns ExtractedStyles with all six mappings empty.
func NewExtractedStyles() *ExtractedStyles {
	return &ExtractedStyles{
		Colors:       NewFrequencyMap(),
		FontSizes:    NewFrequencyMap(),
		FontFamilies: NewFrequencyMap(),
		FontWeights:  NewFrequencyMap(),
		Spacing:      NewFrequencyMap(),
		BorderRadius: NewFrequencyMap(),
	}
}

// ensure replaces nil mappings (e.g. after decoding partial JSON) with empty ones.
func (s *ExtractedStyles) ensure() {
	for _, m := range []**FrequencyMap{&s.Colors, &s.FontSizes, &s.FontFamilies, &s.FontWeights, &s.Spacing, &s.BorderRadius} {
		if *m == nil {
			*m = NewFrequencyMap()
		}
	}
}

// Merge adds every count of other into s.
func (s *ExtractedStyles) Merge(other *ExtractedStyles) {
	if other == nil {
		return
	}
	s.ensure()
	o := *other
	o.ensure()
	other = &o
	s.Colors.merge(other.Colors)
	s.FontSizes.merge(other.FontSizes)
	s.FontFamilies.merge(other.FontFamilies)
	s.FontWeights.merge(other.FontWeights)
	s.Spacing.merge(other.Spacing)
	s.BorderRadius.merge(other.BorderRadius)
}

// Total returns the number of distinct tokens across all categories.
func (s *ExtractedStyles) Total() int {
	return s.Colors.Len() + s.FontSizes.Len() + s.FontFamilies.Len() +
		s.FontWeights.Len() + s.Spacing.Len() + s.BorderRadius.Len()
}

// Element is a node of the tree walked by Extract.
type Element interface {
	Children() []Element
}

// Declarations maps a CSS property name to its computed value.
type Declarations map[string]string

// ComputedStyleFunc returns the computed style of an element. ok is false
// when the element has no computed style; such elements are skipped.
type ComputedStyleFunc func(el Element) (decl Declarations, ok bool)

// Computed style properties read by the extractor.
const (
	PropColor           = "color"
	PropBackgroundColor = "background-color"
	PropBorderColor     = "border-color"
	PropFontSize        = "font-size"
	PropFontFamily      = "font-family"
	PropFontWeight      = "font-weight"
	PropMargin          = "margin"
	PropPadding         = "padding"
	PropGap             = "gap"
	PropBorderRadius    = "border-radius"
)

// ExtractedProperties lists every property the extractor reads, in the order
// they are consumed.
var ExtractedProperties = []string{
	PropColor, PropBackgroundColor, PropBorderColor,
	PropFontSize, PropFontFamily, PropFontWeight,
	PropMargin, PropPadding, PropGap,
	PropBorderRadius,
}

// UnmarshalJSON decodes the serialized snapshot form; missing categories
// become empty mappings.
func (s *ExtractedStyles) UnmarshalJSON(data []byte) error {
	type plain ExtractedStyles
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = ExtractedStyles(p)
	s.ensure()
	return nil
}

// Sanitize returns a copy of s with every token re-normalized the way
// Extract would have recorded it. Counts of tokens that collapse to the same
// normalized form are summed; tokens that normalize to nothing are dropped.
// It is applied to styles that arrive pre-extracted from outside the process.
func (s *ExtractedStyles) Sanitize() *ExtractedStyles {
	out := NewExtractedStyles()
	if s == nil {
		return out
	}
	s.ensure()
	for _, e := range s.Colors.Entries() {
		if hex, ok := NormalizeColor(e.Token); ok {
			out.Colors.AddN(hex, e.Count)
		}
	}
	copyTokens(out.FontSizes, s.FontSizes, strings.TrimSpace)
	copyTokens(out.FontFamilies, s.FontFamilies, NormalizeFontFamily)
	copyTokens(out.FontWeights, s.FontWeights, strings.TrimSpace)
	copyTokens(out.Spacing, s.Spacing, strings.TrimSpace)
	copyTokens(out.BorderRadius, s.BorderRadius, strings.TrimSpace)
	return out
}

func copyTokens(dst, src *FrequencyMap, norm func(string) string) {
	for _, e := range src.Entries() {
		tok := norm(e.Token)
		if IsNoop(tok) {
			continue
		}
		dst.AddN(tok, e.Count)
	}
}
