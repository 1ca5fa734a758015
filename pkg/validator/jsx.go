package validator

import (
	"fmt"
	"strings"
	"unicode"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// jsxElement is one DOM element found in a JSX tree.
type jsxElement struct {
	tag     string
	attrs   []jsxAttr
	hasText bool // non-blank text or an expression among the descendants
	code    string
}

// jsxAttr is one attribute of a JSX element. quote is the quote character of
// a string value, 0 for expressions and boolean attributes.
type jsxAttr struct {
	name  string
	quote byte
}

func (e jsxElement) has(names ...string) bool {
	for _, a := range e.attrs {
		for _, n := range names {
			if strings.EqualFold(a.name, n) {
				return true
			}
		}
	}
	return false
}

// tsxParsers holds idle TSX parsers. A parser serves one parse at a time.
var tsxParsers = make(chan *ts.Parser, 4)

func acquireParser() (*ts.Parser, error) {
	select {
	case p := <-tsxParsers:
		return p, nil
	default:
	}
	p := ts.NewParser()
	if p == nil {
		return nil, fmt.Errorf("failed to create parser")
	}
	if err := p.SetLanguage(ts.NewLanguage(ts_typescript.LanguageTSX())); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	return p, nil
}

func releaseParser(p *ts.Parser) {
	select {
	case tsxParsers <- p:
	default:
		p.Close()
	}
}

// parseJSX returns the DOM elements of code when it parses as TSX without
// errors and contains JSX. ok is false for HTML, CSS and broken snippets.
func parseJSX(code string) (elems []jsxElement, ok bool) {
	parser, err := acquireParser()
	if err != nil {
		return nil, false
	}
	source := []byte(code)
	tree := parser.Parse(source, nil)
	releaseParser(parser)
	if tree == nil {
		return nil, false
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, false
	}

	found := false
	walkJSX(root, source, func(e jsxElement) {
		found = true
		if isDOMTag(e.tag) {
			elems = append(elems, e)
		}
	})
	return elems, found
}

// walkJSX calls visit for every JSX element under node, in document order.
func walkJSX(node *ts.Node, source []byte, visit func(jsxElement)) {
	switch node.Kind() {
	case "jsx_element":
		e := jsxElement{code: node.Utf8Text(source)}
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			switch child.Kind() {
			case "jsx_opening_element":
				e.tag, e.attrs = tagAndAttrs(child, source)
			case "jsx_closing_element":
			default:
				if hasText(child, source) {
					e.hasText = true
				}
			}
		}
		visit(e)
	case "jsx_self_closing_element":
		e := jsxElement{code: node.Utf8Text(source)}
		e.tag, e.attrs = tagAndAttrs(node, source)
		visit(e)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walkJSX(node.Child(i), source, visit)
	}
}

func tagAndAttrs(node *ts.Node, source []byte) (string, []jsxAttr) {
	var (
		tag   string
		attrs []jsxAttr
	)
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "identifier", "member_expression", "nested_identifier", "jsx_namespace_name":
			if tag == "" {
				tag = child.Utf8Text(source)
			}
		case "jsx_attribute":
			attrs = append(attrs, attribute(child, source))
		}
	}
	return tag, attrs
}

func attribute(node *ts.Node, source []byte) jsxAttr {
	var a jsxAttr
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch {
		case i == 0:
			a.name = child.Utf8Text(source)
		case child.Kind() == "string":
			if text := child.Utf8Text(source); text != "" {
				a.quote = text[0]
			}
		}
	}
	return a
}

// hasText reports whether node holds visible text. Expressions count as text
// since their value is unknown.
func hasText(node *ts.Node, source []byte) bool {
	switch node.Kind() {
	case "jsx_text":
		return strings.IndexFunc(node.Utf8Text(source), func(r rune) bool { return !unicode.IsSpace(r) }) >= 0
	case "jsx_expression":
		return true
	case "jsx_self_closing_element":
		return false
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "jsx_opening_element", "jsx_closing_element":
			continue
		}
		if hasText(child, source) {
			return true
		}
	}
	return false
}

// isDOMTag reports whether tag names an intrinsic element rather than a
// component.
func isDOMTag(tag string) bool {
	return tag != "" && unicode.IsLower(rune(tag[0])) && !strings.ContainsAny(tag, ".:")
}
