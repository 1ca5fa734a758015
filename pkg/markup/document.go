// Package markup loads raw HTML into an element tree and resolves a computed
// style for each element from <style> blocks and inline style attributes.
//
// The cascade is a static approximation of a browser's: rules are ordered by
// specificity then source order, inline styles win over rules, !important
// declarations win over both, and color and font properties inherit. Lengths
// are not resolved; values are reported as written.
package markup

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gnana997/uilint/pkg/styles"
)

// Node is an element of a parsed document.
type Node struct {
	n        *html.Node
	parent   *Node
	children []styles.Element
	inline   []declaration
}

// Children implements styles.Element.
func (n *Node) Children() []styles.Element {
	return n.children
}

// Tag returns the lowercase element name.
func (n *Node) Tag() string {
	return n.n.Data
}

// Attr returns the value of an attribute.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (n *Node) attr(key string) string {
	v, _ := n.Attr(key)
	return v
}

// Document is a parsed HTML document with its stylesheet rules.
//
// A Document memoizes computed styles and is not safe for concurrent use.
type Document struct {
	html  *Node
	root  *Node
	rules []rule
	count int

	computed map[*Node]styles.Declarations
}

// Parse parses raw markup. The HTML parser recovers from malformed input, so
// an error is only returned when the input cannot be read at all.
func Parse(src string) (*Document, error) {
	top, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	doc := &Document{computed: make(map[*Node]styles.Declarations)}

	var sheets []string
	collectStyleText(top, &sheets)
	for _, text := range sheets {
		doc.rules = parseStylesheet(doc.rules, text)
	}

	docEl := firstElement(top)
	if docEl == nil {
		return nil, fmt.Errorf("failed to parse markup: no document element")
	}
	doc.html = doc.build(docEl, nil)
	doc.root = findBody(doc.html)
	if doc.root == nil {
		doc.root = doc.html
	}
	doc.count = countDescendants(doc.root)
	return doc, nil
}

// Root returns the <body> element, or the document element when there is none.
func (d *Document) Root() *Node {
	return d.root
}

// ElementCount returns the number of elements below Root.
func (d *Document) ElementCount() int {
	return d.count
}

// Rules returns the number of style rules collected from <style> blocks.
func (d *Document) Rules() int {
	return len(d.rules)
}

// Extract runs the style extractor over the document.
func (d *Document) Extract() *styles.ExtractedStyles {
	return styles.Extract(d.root, d.ComputedStyle)
}

// Elements that are never rendered and carry no visual style.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
	atom.Noscript: true,
	atom.Head:     true,
}

func (d *Document) build(n *html.Node, parent *Node) *Node {
	node := &Node{n: n, parent: parent}
	if style, ok := node.Attr("style"); ok {
		node.inline = parseInlineStyle(style)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || skipped[c.DataAtom] {
			continue
		}
		node.children = append(node.children, d.build(c, node))
	}
	return node
}

func collectStyleText(n *html.Node, out *[]string) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Style {
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
		*out = append(*out, sb.String())
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectStyleText(c, out)
	}
}

func firstElement(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

func findBody(n *Node) *Node {
	for _, c := range n.children {
		if node := c.(*Node); node.n.DataAtom == atom.Body {
			return node
		}
	}
	return nil
}

func countDescendants(n *Node) int {
	total := 0
	for _, c := range n.children {
		total += 1 + countDescendants(c.(*Node))
	}
	return total
}
