// Package styleguide models a project's canonical style guide: the markdown
// document on disk, the rules parsed from it, and the conservative merge of
// newly detected rules into an existing guide.
package styleguide

import (
	"fmt"
	"regexp"
	"strings"
)

// StyleGuide is the parsed form of a guide document. Rule order is document
// order and is preserved by every operation.
type StyleGuide struct {
	Colors     []ColorRule      `json:"colors"`
	Typography []TypographyRule `json:"typography"`
	Spacing    []SpacingRule    `json:"spacing"`
	Components []ComponentRule  `json:"components"`
}

// ColorRule names a color. Value is uppercase #RRGGBB.
type ColorRule struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Usage string `json:"usage,omitempty"`
}

// TypographyRule describes the type settings of one element. Empty fields
// are absent from the guide.
type TypographyRule struct {
	Element    string `json:"element"`
	FontFamily string `json:"fontFamily,omitempty"`
	FontSize   string `json:"fontSize,omitempty"`
	FontWeight string `json:"fontWeight,omitempty"`
	LineHeight string `json:"lineHeight,omitempty"`
}

// SpacingRule names a spacing value.
type SpacingRule struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ComponentRule lists the style tokens of a component.
type ComponentRule struct {
	Name   string   `json:"name"`
	Styles []string `json:"styles"`
}

// Empty returns a guide with all four categories empty.
func Empty() *StyleGuide {
	return &StyleGuide{
		Colors:     []ColorRule{},
		Typography: []TypographyRule{},
		Spacing:    []SpacingRule{},
		Components: []ComponentRule{},
	}
}

// NewColorRule creates a color rule with the value uppercased.
func NewColorRule(name, value, usage string) ColorRule {
	return ColorRule{Name: name, Value: strings.ToUpper(value), Usage: usage}
}

// TypographyOptions holds the optional fields of a typography rule.
type TypographyOptions struct {
	FontFamily string
	FontSize   string
	FontWeight string
	LineHeight string
}

// NewTypographyRule creates a typography rule for element.
func NewTypographyRule(element string, opts TypographyOptions) TypographyRule {
	return TypographyRule{
		Element:    element,
		FontFamily: opts.FontFamily,
		FontSize:   opts.FontSize,
		FontWeight: opts.FontWeight,
		LineHeight: opts.LineHeight,
	}
}

// NewSpacingRule creates a spacing rule.
func NewSpacingRule(name, value string) SpacingRule {
	return SpacingRule{Name: name, Value: value}
}

// NewComponentRule creates a component rule. The styles slice is copied.
func NewComponentRule(name string, styles ...string) ComponentRule {
	return ComponentRule{Name: name, Styles: append([]string{}, styles...)}
}

// Clone returns a deep copy of g.
func (g *StyleGuide) Clone() *StyleGuide {
	if g == nil {
		return Empty()
	}
	out := &StyleGuide{
		Colors:     append([]ColorRule{}, g.Colors...),
		Typography: append([]TypographyRule{}, g.Typography...),
		Spacing:    append([]SpacingRule{}, g.Spacing...),
		Components: make([]ComponentRule, len(g.Components)),
	}
	for i, c := range g.Components {
		out.Components[i] = NewComponentRule(c.Name, c.Styles...)
	}
	return out
}

// IsEmpty reports whether g has no rules in any category.
func (g *StyleGuide) IsEmpty() bool {
	return g == nil ||
		len(g.Colors) == 0 && len(g.Typography) == 0 && len(g.Spacing) == 0 && len(g.Components) == 0
}

// ColorValues returns the color values of g in rule order.
func (g *StyleGuide) ColorValues() []string {
	out := make([]string, 0, len(g.Colors))
	for _, c := range g.Colors {
		out = append(out, c.Value)
	}
	return out
}

var hexColorPattern = regexp.MustCompile(`^#[0-9A-F]{6}$`)

// Validate reports structural problems: missing names, malformed color
// values and duplicate names within a category. The report is advisory;
// parsing never rejects a guide.
func (g *StyleGuide) Validate() []error {
	var errs []error

	seen := make(map[string]bool)
	for i, c := range g.Colors {
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("colors[%d]: name is required", i))
			continue
		}
		if !hexColorPattern.MatchString(c.Value) {
			errs = append(errs, fmt.Errorf("color %q: value %q is not #RRGGBB", c.Name, c.Value))
		}
		if seen[c.Name] {
			errs = append(errs, fmt.Errorf("color %q: duplicate name", c.Name))
		}
		seen[c.Name] = true
	}

	seen = make(map[string]bool)
	for i, t := range g.Typography {
		if t.Element == "" {
			errs = append(errs, fmt.Errorf("typography[%d]: element is required", i))
			continue
		}
		if seen[t.Element] {
			errs = append(errs, fmt.Errorf("typography %q: duplicate element", t.Element))
		}
		seen[t.Element] = true
	}

	seen = make(map[string]bool)
	for i, s := range g.Spacing {
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("spacing[%d]: name is required", i))
			continue
		}
		if s.Value == "" {
			errs = append(errs, fmt.Errorf("spacing %q: value is required", s.Name))
		}
		if seen[s.Name] {
			errs = append(errs, fmt.Errorf("spacing %q: duplicate name", s.Name))
		}
		seen[s.Name] = true
	}

	seen = make(map[string]bool)
	for i, c := range g.Components {
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("components[%d]: name is required", i))
			continue
		}
		if len(c.Styles) == 0 {
			errs = append(errs, fmt.Errorf("component %q: styles must have at least one entry", c.Name))
		}
		if seen[c.Name] {
			errs = append(errs, fmt.Errorf("component %q: duplicate name", c.Name))
		}
		seen[c.Name] = true
	}

	return errs
}
