package markup

import (
	"sort"
	"strings"

	"github.com/gnana997/uilint/pkg/styles"
)

// Properties a child takes from its parent when it does not set them.
var inherited = []string{
	styles.PropColor,
	styles.PropFontSize,
	styles.PropFontFamily,
	styles.PropFontWeight,
}

var sides = []string{"top", "right", "bottom", "left"}

// ComputedStyle returns the resolved declarations of el. It satisfies
// styles.ComputedStyleFunc; ok is false for elements of another document
// type.
func (d *Document) ComputedStyle(el styles.Element) (styles.Declarations, bool) {
	n, ok := el.(*Node)
	if !ok || n == nil {
		return nil, false
	}
	return d.compute(n), true
}

func (d *Document) compute(n *Node) styles.Declarations {
	if decl, ok := d.computed[n]; ok {
		return decl
	}

	specified := d.specified(n)
	out := make(styles.Declarations, len(specified))

	if n.parent != nil {
		parent := d.compute(n.parent)
		for _, prop := range inherited {
			if v, ok := parent[prop]; ok {
				out[prop] = v
			}
		}
	}

	for prop, v := range specified {
		if strings.EqualFold(v, "inherit") {
			if n.parent != nil {
				if pv, ok := d.compute(n.parent)[prop]; ok {
					out[prop] = pv
					continue
				}
			}
			delete(out, prop)
			continue
		}
		out[prop] = v
	}

	resolveShorthands(out, specified)
	d.computed[n] = out
	return out
}

type matchedRule struct {
	specificity [3]int
	order       int
	decls       []declaration
}

// specified applies matching rules by ascending specificity, then the inline
// style, then !important declarations in the same order.
func (d *Document) specified(n *Node) map[string]string {
	var matched []matchedRule
	for _, r := range d.rules {
		if r.selector.matches(n) {
			matched = append(matched, matchedRule{specificity: r.selector.specificity, order: r.order, decls: r.decls})
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if c := compareSpecificity(matched[i].specificity, matched[j].specificity); c != 0 {
			return c < 0
		}
		return matched[i].order < matched[j].order
	})

	out := make(map[string]string)
	for _, important := range []bool{false, true} {
		for _, m := range matched {
			applyDecls(out, m.decls, important)
		}
		applyDecls(out, n.inline, important)
	}
	return out
}

func applyDecls(out map[string]string, decls []declaration, important bool) {
	for _, d := range decls {
		if d.important == important {
			out[d.property] = d.value
		}
	}
}

// resolveShorthands folds shorthands and longhands into the properties the
// extractor reads: background and border contribute their color, and margin
// and padding longhands are merged into the box shorthand.
func resolveShorthands(out styles.Declarations, specified map[string]string) {
	if _, ok := specified[styles.PropBackgroundColor]; !ok {
		if c, ok := colorComponent(specified["background"]); ok {
			out[styles.PropBackgroundColor] = c
		}
	}
	if _, ok := specified[styles.PropBorderColor]; !ok {
		if c, ok := colorComponent(specified["border"]); ok {
			out[styles.PropBorderColor] = c
		}
	}
	for prop, v := range out {
		if c, ok := namedColors[strings.ToLower(v)]; ok && isColorProperty(prop) {
			out[prop] = c
		}
	}

	for _, box := range []string{styles.PropMargin, styles.PropPadding} {
		if v, ok := resolveBox(box, specified); ok {
			out[box] = v
		}
	}
	delete(out, "background")
	delete(out, "border")
}

func isColorProperty(prop string) bool {
	return prop == styles.PropColor || prop == styles.PropBackgroundColor || prop == styles.PropBorderColor
}

// colorComponent finds the first token of a shorthand value that is a color.
func colorComponent(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	for _, tok := range splitValue(value) {
		if c, ok := namedColors[strings.ToLower(tok)]; ok {
			return c, true
		}
		if _, ok := styles.NormalizeColor(tok); ok {
			return tok, true
		}
	}
	return "", false
}

// splitValue splits on whitespace outside parentheses.
func splitValue(value string) []string {
	var (
		out   []string
		depth int
		start = -1
	)
	for i := 0; i < len(value); i++ {
		switch ch := value[i]; {
		case ch == '(':
			depth++
		case ch == ')':
			if depth > 0 {
				depth--
			}
		case (ch == ' ' || ch == '\t' || ch == '\n') && depth == 0:
			if start >= 0 {
				out = append(out, value[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, value[start:])
	}
	return out
}

// resolveBox expands the box shorthand to four sides, applies the side
// longhands, and serializes the shortest equivalent form.
func resolveBox(box string, specified map[string]string) (string, bool) {
	var values [4]string
	set := false

	if v, ok := specified[box]; ok {
		parts := strings.Fields(v)
		switch len(parts) {
		case 1:
			values = [4]string{parts[0], parts[0], parts[0], parts[0]}
		case 2:
			values = [4]string{parts[0], parts[1], parts[0], parts[1]}
		case 3:
			values = [4]string{parts[0], parts[1], parts[2], parts[1]}
		case 4:
			values = [4]string{parts[0], parts[1], parts[2], parts[3]}
		default:
			return "", false
		}
		set = true
	}
	for i, side := range sides {
		if v, ok := specified[box+"-"+side]; ok {
			values[i] = v
			set = true
		}
	}
	if !set {
		return "", false
	}
	for i := range values {
		if values[i] == "" {
			values[i] = "0px"
		}
	}

	t, r, b, l := values[0], values[1], values[2], values[3]
	switch {
	case t == r && r == b && b == l:
		return t, true
	case t == b && r == l:
		return t + " " + r, true
	case r == l:
		return t + " " + r + " " + b, true
	default:
		return t + " " + r + " " + b + " " + l, true
	}
}

// The basic CSS color keywords, as a browser would report them.
var namedColors = map[string]string{
	"black":   "rgb(0, 0, 0)",
	"silver":  "rgb(192, 192, 192)",
	"gray":    "rgb(128, 128, 128)",
	"grey":    "rgb(128, 128, 128)",
	"white":   "rgb(255, 255, 255)",
	"maroon":  "rgb(128, 0, 0)",
	"red":     "rgb(255, 0, 0)",
	"purple":  "rgb(128, 0, 128)",
	"fuchsia": "rgb(255, 0, 255)",
	"green":   "rgb(0, 128, 0)",
	"lime":    "rgb(0, 255, 0)",
	"olive":   "rgb(128, 128, 0)",
	"yellow":  "rgb(255, 255, 0)",
	"navy":    "rgb(0, 0, 128)",
	"blue":    "rgb(0, 0, 255)",
	"teal":    "rgb(0, 128, 128)",
	"aqua":    "rgb(0, 255, 255)",
	"orange":  "rgb(255, 165, 0)",
}
