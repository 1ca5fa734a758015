package styles

import "strings"

// Extract walks every descendant of root and accumulates normalized style
// tokens read through computed. It never fails: elements without a computed
// style and values that cannot be normalized are skipped.
func Extract(root Element, computed ComputedStyleFunc) *ExtractedStyles {
	s := NewExtractedStyles()
	if root == nil || computed == nil {
		return s
	}

	// Pre-order walk in document order; the root itself is not counted.
	stack := pushReversed(nil, root.Children())
	for len(stack) > 0 {
		el := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if el == nil {
			continue
		}
		stack = pushReversed(stack, el.Children())

		decl, ok := computed(el)
		if !ok {
			continue
		}
		s.AddDeclarations(decl)
	}
	return s
}

func pushReversed(stack, children []Element) []Element {
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, children[i])
	}
	return stack
}

// AddDeclarations records the tokens of one element's computed style.
func (s *ExtractedStyles) AddDeclarations(decl Declarations) {
	s.ensure()

	addColor(s.Colors, decl[PropColor])
	addColor(s.Colors, decl[PropBackgroundColor])
	addColor(s.Colors, decl[PropBorderColor])

	addToken(s.FontSizes, decl[PropFontSize])
	addToken(s.FontFamilies, NormalizeFontFamily(decl[PropFontFamily]))
	addToken(s.FontWeights, decl[PropFontWeight])

	addSpacing(s.Spacing, decl[PropMargin])
	addSpacing(s.Spacing, decl[PropPadding])
	addToken(s.Spacing, decl[PropGap])

	addToken(s.BorderRadius, decl[PropBorderRadius])
}

func addColor(m *FrequencyMap, value string) {
	if hex, ok := NormalizeColor(value); ok {
		m.Add(hex)
	}
}

// addSpacing splits compound values like "10px 20px" into independent tokens.
func addSpacing(m *FrequencyMap, value string) {
	for _, tok := range strings.Fields(value) {
		addToken(m, tok)
	}
}

func addToken(m *FrequencyMap, value string) {
	v := strings.TrimSpace(value)
	if IsNoop(v) {
		return
	}
	m.Add(v)
}
