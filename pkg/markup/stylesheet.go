package markup

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// declaration is one property: value pair of a rule or style attribute.
type declaration struct {
	property  string
	value     string
	important bool
}

// rule is a ruleset from a <style> block. A grouped selector list becomes one
// rule per selector so each carries its own specificity.
type rule struct {
	selector *selector
	decls    []declaration
	order    int
}

// parseStylesheet turns CSS text into rules, appending to dst. Rules inside
// @media blocks are flattened in; other at-rule blocks are skipped.
// Malformed input never fails; the parser stops at the first hard error.
func parseStylesheet(dst []rule, text string) []rule {
	p := css.NewParser(parse.NewInput(bytes.NewReader([]byte(text))), false)

	skipDepth := 0
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			return dst

		case css.BeginAtRuleGrammar:
			if skipDepth > 0 || !strings.EqualFold(string(data), "@media") {
				skipDepth++
			}

		case css.EndAtRuleGrammar:
			if skipDepth > 0 {
				skipDepth--
			}

		case css.BeginRulesetGrammar:
			selectors := selectorList(data, p.Values())
			decls := parseDeclarations(p)
			if skipDepth > 0 {
				continue
			}
			for _, raw := range selectors {
				sel, ok := parseSelector(raw)
				if !ok {
					continue
				}
				dst = append(dst, rule{selector: sel, decls: decls, order: len(dst)})
			}
		}
	}
}

// selectorList builds the selector text of a ruleset and splits the group.
func selectorList(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	var out []string
	for _, s := range strings.Split(sb.String(), ",") {
		s = strings.TrimSpace(strings.Trim(s, "{"))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// parseDeclarations reads declarations up to the end of the current ruleset.
func parseDeclarations(p *css.Parser) []declaration {
	var decls []declaration
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return decls
		case css.DeclarationGrammar:
			if d, ok := newDeclaration(data, p.Values()); ok {
				decls = append(decls, d)
			}
		}
	}
}

// parseInlineStyle parses the value of a style attribute.
func parseInlineStyle(text string) []declaration {
	p := css.NewParser(parse.NewInput(bytes.NewReader([]byte(text))), true)

	var decls []declaration
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			return decls
		case css.DeclarationGrammar:
			if d, ok := newDeclaration(data, p.Values()); ok {
				decls = append(decls, d)
			}
		}
	}
}

func newDeclaration(name []byte, tokens []css.Token) (declaration, bool) {
	// The parser drops whitespace after commas; put one back so values read
	// as written ("rgb(0, 0, 255)", "'Inter', sans-serif").
	var parts []string
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			if len(parts) > 0 && parts[len(parts)-1] != " " {
				parts = append(parts, " ")
			}
			continue
		}
		if len(parts) > 0 && parts[len(parts)-1] == "," {
			parts = append(parts, " ")
		}
		parts = append(parts, string(t.Data))
	}
	value := strings.TrimSpace(strings.Join(parts, ""))

	d := declaration{property: strings.ToLower(strings.TrimSpace(string(name)))}
	if lower := strings.ToLower(value); strings.HasSuffix(lower, "!important") {
		d.important = true
		value = strings.TrimSpace(value[:len(value)-len("!important")])
	} else if strings.HasSuffix(lower, "! important") {
		d.important = true
		value = strings.TrimSpace(value[:len(value)-len("! important")])
	}
	d.value = value

	if d.property == "" || d.value == "" {
		return declaration{}, false
	}
	return d, true
}
