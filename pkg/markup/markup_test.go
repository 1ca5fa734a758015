package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uilint/pkg/styles"
)

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse(src)
	require.NoError(t, err)
	return doc
}

func findByID(n *Node, id string) *Node {
	if v, _ := n.Attr("id"); v == id {
		return n
	}
	for _, c := range n.children {
		if found := findByID(c.(*Node), id); found != nil {
			return found
		}
	}
	return nil
}

func styleOf(t *testing.T, doc *Document, id string) styles.Declarations {
	t.Helper()
	n := findByID(doc.Root(), id)
	require.NotNil(t, n, "element #%s", id)
	decl, ok := doc.ComputedStyle(n)
	require.True(t, ok)
	return decl
}

// --- document ---

func TestParse_RootAndCount(t *testing.T) {
	doc := mustParse(t, `<html><head><title>x</title><style>p{color:red}</style></head>
<body><div><p>a</p><p>b</p></div><script>var x</script></body></html>`)

	assert.Equal(t, "body", doc.Root().Tag())
	assert.Equal(t, 3, doc.ElementCount())
	assert.Equal(t, 1, doc.Rules())
}

func TestParse_Fragment(t *testing.T) {
	doc := mustParse(t, `<button style="padding: 8px">Go</button>`)
	assert.Equal(t, "body", doc.Root().Tag())
	assert.Equal(t, 1, doc.ElementCount())
}

func TestComputedStyle_ForeignElement(t *testing.T) {
	doc := mustParse(t, `<div></div>`)
	_, ok := doc.ComputedStyle(nil)
	assert.False(t, ok)
}

// --- cascade ---

func TestCascade_SpecificityAndOrder(t *testing.T) {
	doc := mustParse(t, `<style>
  #x { color: #111111; }
  .a { color: #222222; }
  div { color: #333333; }
  .a { padding: 4px; }
  .b { padding: 8px; }
</style>
<div id="x" class="a b"></div>
<div id="y" class="a b"></div>`)

	x := styleOf(t, doc, "x")
	assert.Equal(t, "#111111", x[styles.PropColor])
	assert.Equal(t, "8px", x[styles.PropPadding], "later rule of equal specificity wins")

	y := styleOf(t, doc, "y")
	assert.Equal(t, "#222222", y[styles.PropColor])
}

func TestCascade_InlineAndImportant(t *testing.T) {
	doc := mustParse(t, `<style>
  p { color: #111111 !important; margin: 4px; }
</style>
<p id="p" style="color: #222222; margin: 12px"></p>`)

	decl := styleOf(t, doc, "p")
	assert.Equal(t, "#111111", decl[styles.PropColor])
	assert.Equal(t, "12px", decl[styles.PropMargin])
}

func TestCascade_Inheritance(t *testing.T) {
	doc := mustParse(t, `<div id="outer" style="color: #123456; font-family: 'Inter', sans-serif; padding: 16px">
  <span id="inner"></span>
</div>`)

	inner := styleOf(t, doc, "inner")
	assert.Equal(t, "#123456", inner[styles.PropColor])
	assert.Equal(t, "'Inter', sans-serif", inner[styles.PropFontFamily])
	assert.NotContains(t, inner, styles.PropPadding)
}

func TestCascade_ValuesKeepSpaceAfterCommas(t *testing.T) {
	doc := mustParse(t, `<style>#a { border: 1px solid rgb(0,0,255) }</style>
<p id="a" style="font-family:'Inter',sans-serif"></p>`)

	a := styleOf(t, doc, "a")
	assert.Equal(t, "'Inter', sans-serif", a[styles.PropFontFamily])
	assert.Equal(t, "rgb(0, 0, 255)", a[styles.PropBorderColor])
}

func TestCascade_Shorthands(t *testing.T) {
	doc := mustParse(t, `<style>
  .card { background: #fafafa url(x.png) no-repeat; border: 1px solid rgb(0, 0, 255); }
  .box { margin: 4px; margin-left: 8px; padding: 2px 6px; }
  .named { color: red; }
</style>
<div id="card" class="card"></div>
<div id="box" class="box"></div>
<div id="named" class="named"></div>`)

	card := styleOf(t, doc, "card")
	assert.Equal(t, "#fafafa", card[styles.PropBackgroundColor])
	assert.Equal(t, "rgb(0, 0, 255)", card[styles.PropBorderColor])

	box := styleOf(t, doc, "box")
	assert.Equal(t, "4px 4px 4px 8px", box[styles.PropMargin])
	assert.Equal(t, "2px 6px", box[styles.PropPadding])

	named := styleOf(t, doc, "named")
	assert.Equal(t, "rgb(255, 0, 0)", named[styles.PropColor])
}

func TestCascade_MediaFlattenedOtherAtRulesSkipped(t *testing.T) {
	doc := mustParse(t, `<style>
  @media (min-width: 640px) { .m { color: #AAAAAA; } }
  @font-face { font-family: "X"; src: url(x.woff); }
  @keyframes spin { from { color: #BBBBBB; } to { color: #CCCCCC; } }
</style>
<div id="m" class="m"></div>`)

	assert.Equal(t, "#AAAAAA", styleOf(t, doc, "m")[styles.PropColor])
}

func TestCascade_MalformedCSSIgnored(t *testing.T) {
	doc := mustParse(t, `<style>.ok { color: #010101 } .bad { color: ; }</style><p id="p" class="ok bad"></p>`)
	assert.Equal(t, "#010101", styleOf(t, doc, "p")[styles.PropColor])
}

// --- selectors ---

func TestSelectors(t *testing.T) {
	doc := mustParse(t, `<main id="app">
  <section class="hero dark">
    <a id="a1" class="btn primary" data-kind="cta" href="#">go</a>
  </section>
  <nav><a id="a2" class="btn">x</a></nav>
</main>`)

	a1 := findByID(doc.Root(), "a1")
	a2 := findByID(doc.Root(), "a2")
	require.NotNil(t, a1)
	require.NotNil(t, a2)

	tests := []struct {
		sel    string
		a1, a2 bool
	}{
		{"*", true, true},
		{"a", true, true},
		{".btn.primary", true, false},
		{"a#a2", false, true},
		{"[data-kind]", true, false},
		{`a[data-kind="cta"]`, true, false},
		{"[data-kind=other]", false, false},
		{"main a", true, true},
		{"section > a", true, false},
		{"main > a", false, false},
		{"#app .hero.dark > .btn", true, false},
		{"a:hover", false, false},
		{"section + nav a", false, false},
	}

	for _, tc := range tests {
		t.Run(tc.sel, func(t *testing.T) {
			sel, ok := parseSelector(tc.sel)
			if !ok {
				assert.False(t, tc.a1 || tc.a2, "unsupported selector should never match")
				return
			}
			assert.Equal(t, tc.a1, sel.matches(a1))
			assert.Equal(t, tc.a2, sel.matches(a2))
		})
	}
}

func TestSelectorSpecificity(t *testing.T) {
	sel, ok := parseSelector("#app .hero.dark > a[href]")
	require.True(t, ok)
	assert.Equal(t, [3]int{1, 3, 1}, sel.specificity)
}

// --- extraction ---

func TestDocument_Extract(t *testing.T) {
	doc := mustParse(t, `<style>.btn { background-color: #ff0000; padding: 8px 16px; border-radius: 6px; }</style>
<button class="btn">One</button>
<button class="btn">Two</button>
<div style="background-color: rgb(0, 255, 0)"></div>`)

	s := doc.Extract()
	assert.Equal(t, map[string]int{"#FF0000": 2, "#00FF00": 1}, s.Colors.Map())
	assert.Equal(t, map[string]int{"8px": 2, "16px": 2}, s.Spacing.Map())
	assert.Equal(t, map[string]int{"6px": 2}, s.BorderRadius.Map())
}
