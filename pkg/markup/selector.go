package markup

import "strings"

// Supported selector subset:
//   - universal and type: "*", "div"
//   - .class, #id and compounds: "a.btn.primary#go"
//   - attribute presence and equality: "[disabled]", "input[type=text]"
//   - descendant (space) and child (>) combinators
//
// Pseudo-classes, pseudo-elements and sibling combinators are unsupported;
// selectors using them never match.

type combinator byte

const (
	descendant combinator = ' '
	child      combinator = '>'
)

type attrMatch struct {
	key   string
	value string
	exact bool
}

type compound struct {
	tag     string // "" or "*" matches any element
	id      string
	classes []string
	attrs   []attrMatch
}

// selector is a complex selector. combinators[i] joins parts[i] and parts[i+1].
type selector struct {
	parts       []compound
	combinators []combinator
	specificity [3]int
}

func parseSelector(raw string) (*selector, bool) {
	var (
		sel     selector
		pending combinator
		start   = -1
	)

	flush := func(end int) bool {
		if start < 0 {
			return true
		}
		c, ok := parseCompound(raw[start:end])
		if !ok {
			return false
		}
		if len(sel.parts) > 0 {
			if pending == 0 {
				return false
			}
			sel.combinators = append(sel.combinators, pending)
		}
		sel.parts = append(sel.parts, c)
		pending = 0
		start = -1
		return true
	}

	inBracket := false
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		switch {
		case inBracket:
			if ch == ']' {
				inBracket = false
			}
		case ch == '[':
			inBracket = true
			if start < 0 {
				start = i
			}
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			if !flush(i) {
				return nil, false
			}
			if pending == 0 && len(sel.parts) > 0 {
				pending = descendant
			}
		case ch == '>':
			if !flush(i) || len(sel.parts) == 0 {
				return nil, false
			}
			pending = child
		case ch == '+' || ch == '~' || ch == ':' || ch == ',':
			return nil, false
		default:
			if start < 0 {
				start = i
			}
		}
	}
	if inBracket || !flush(len(raw)) || len(sel.parts) == 0 {
		return nil, false
	}
	if len(sel.combinators) != len(sel.parts)-1 {
		return nil, false
	}

	for _, c := range sel.parts {
		if c.id != "" {
			sel.specificity[0]++
		}
		sel.specificity[1] += len(c.classes) + len(c.attrs)
		if c.tag != "" && c.tag != "*" {
			sel.specificity[2]++
		}
	}
	return &sel, true
}

func parseCompound(s string) (compound, bool) {
	var c compound
	i := 0

	if i < len(s) && s[i] == '*' {
		c.tag = "*"
		i++
	} else {
		n := identLen(s[i:])
		c.tag = strings.ToLower(s[i : i+n])
		i += n
	}

	for i < len(s) {
		switch s[i] {
		case '.':
			n := identLen(s[i+1:])
			if n == 0 {
				return compound{}, false
			}
			c.classes = append(c.classes, s[i+1:i+1+n])
			i += 1 + n
		case '#':
			n := identLen(s[i+1:])
			if n == 0 || c.id != "" {
				return compound{}, false
			}
			c.id = s[i+1 : i+1+n]
			i += 1 + n
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return compound{}, false
			}
			a, ok := parseAttr(s[i+1 : i+end])
			if !ok {
				return compound{}, false
			}
			c.attrs = append(c.attrs, a)
			i += end + 1
		default:
			return compound{}, false
		}
	}
	return c, true
}

func parseAttr(s string) (attrMatch, bool) {
	key, val, exact := strings.Cut(s, "=")
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || identLen(key) != len(key) {
		return attrMatch{}, false
	}
	a := attrMatch{key: key, exact: exact}
	if exact {
		a.value = strings.Trim(strings.TrimSpace(val), `"'`)
	}
	return a, true
}

func identLen(s string) int {
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '-' || ch == '_' || ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= 0x80 {
			continue
		}
		return i
	}
	return len(s)
}

// matches reports whether n is selected by s.
func (s *selector) matches(n *Node) bool {
	return s.matchFrom(n, len(s.parts)-1)
}

func (s *selector) matchFrom(n *Node, i int) bool {
	if n == nil || !s.parts[i].matches(n) {
		return false
	}
	if i == 0 {
		return true
	}
	switch s.combinators[i-1] {
	case child:
		return s.matchFrom(n.parent, i-1)
	default:
		for a := n.parent; a != nil; a = a.parent {
			if s.matchFrom(a, i-1) {
				return true
			}
		}
		return false
	}
}

func (c *compound) matches(n *Node) bool {
	if c.tag != "" && c.tag != "*" && c.tag != n.Tag() {
		return false
	}
	if c.id != "" {
		if id, _ := n.Attr("id"); id != c.id {
			return false
		}
	}
	if len(c.classes) > 0 {
		have := strings.Fields(n.attr("class"))
		for _, want := range c.classes {
			if !contains(have, want) {
				return false
			}
		}
	}
	for _, a := range c.attrs {
		val, ok := n.Attr(a.key)
		if !ok || a.exact && val != a.value {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func compareSpecificity(a, b [3]int) int {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
