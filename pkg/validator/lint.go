package validator

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	magicNumberPattern = regexp.MustCompile(`(?i)\b((?:min-|max-|min|max)?(?:width|height)|font-?size|border-?radius)\s*:\s*([1-9]\d*)\s*(?:[,;}\n]|$)`)
	arbitraryColor     = regexp.MustCompile(`\b[a-z]+(?:-[a-z]+)*-\[(#[0-9A-Fa-f]{3,8}|rgba?\([^)\]]*\))\]`)
	styleAttrPattern   = regexp.MustCompile(`\bstyle\s*=\s*(?:"([^"]*)"|'([^']*)'|\{\{([^}]*)\}\})`)
	literalColor       = regexp.MustCompile(`#[0-9A-Fa-f]{3,8}\b|rgba?\([^)]*\)`)
	imgTagPattern      = regexp.MustCompile(`(?i)<img\b[^>]*>`)
	altAttrPattern     = regexp.MustCompile(`(?i)\balt\s*=`)
	buttonPattern      = regexp.MustCompile(`(?is)<button\b([^>]*?)(?:/>|>(.*?)</button>)`)
	labelAttrPattern   = regexp.MustCompile(`(?i)\b(?:aria-label|aria-labelledby|title)\s*=`)
	tagPattern         = regexp.MustCompile(`<[^>]*>`)
	doubleQuoteClass   = regexp.MustCompile(`\b(?:class|className)\s*=\s*"`)
	singleQuoteClass   = regexp.MustCompile(`\b(?:class|className)\s*=\s*'`)
)

// LintSnippet runs heuristic checks that need no style guide:
//   - unitless magic numbers in sizing properties
//   - hardcoded colors in arbitrary class values and inline style attributes
//   - images without alt text
//   - buttons with neither visible text nor an accessible label
//   - mixed quote styles on class attributes
//
// Findings are not deduplicated against Validate.
func LintSnippet(code string) []Issue {
	issues := []Issue{}

	for _, m := range magicNumberPattern.FindAllStringSubmatchIndex(code, -1) {
		// line-height, max-width and friends end in a sizing name too.
		if m[2] > 0 && code[m[2]-1] == '-' {
			continue
		}
		issues = append(issues, Issue{
			Severity:   SeverityWarning,
			Category:   CategoryStyle,
			Message:    fmt.Sprintf("Magic number %s for %s", code[m[4]:m[5]], code[m[2]:m[3]]),
			Code:       strings.TrimRight(strings.TrimSpace(code[m[2]:m[1]]), ",;}"),
			Suggestion: "Use a token or a value with an explicit unit",
		})
	}

	for _, m := range arbitraryColor.FindAllStringSubmatch(code, -1) {
		issues = append(issues, Issue{
			Severity:   SeverityWarning,
			Category:   CategoryColor,
			Message:    fmt.Sprintf("Hardcoded color %s in arbitrary class value", m[1]),
			Code:       m[0],
			Suggestion: "Use a theme color instead of an arbitrary value",
		})
	}

	for _, m := range styleAttrPattern.FindAllStringSubmatch(code, -1) {
		body := m[1] + m[2] + m[3]
		for _, c := range literalColor.FindAllString(body, -1) {
			issues = append(issues, Issue{
				Severity:   SeverityWarning,
				Category:   CategoryColor,
				Message:    fmt.Sprintf("Hardcoded color %s in inline style", c),
				Code:       m[0],
				Suggestion: "Use a theme color or CSS variable",
			})
		}
	}

	if elems, ok := parseJSX(code); ok {
		issues = append(issues, lintElements(elems)...)
	} else {
		issues = append(issues, lintMarkup(code)...)
	}

	return issues
}

// lintElements checks elements taken from a parsed JSX tree.
func lintElements(elems []jsxElement) []Issue {
	var issues []Issue
	for _, e := range elems {
		if e.tag == "img" && !e.has("alt") {
			issues = append(issues, missingAlt(e.code))
		}
	}
	for _, e := range elems {
		if e.tag == "button" && !e.hasText && !e.has("aria-label", "aria-labelledby", "title") {
			issues = append(issues, unlabeledButton(e.code))
		}
	}

	var double, single bool
	for _, e := range elems {
		for _, a := range e.attrs {
			if a.name != "class" && a.name != "className" {
				continue
			}
			switch a.quote {
			case '"':
				double = true
			case '\'':
				single = true
			}
		}
	}
	if double && single {
		issues = append(issues, mixedQuotes())
	}
	return issues
}

// lintMarkup applies the element checks to HTML and to snippets that do not
// parse as TSX.
func lintMarkup(code string) []Issue {
	var issues []Issue
	for _, tag := range imgTagPattern.FindAllString(code, -1) {
		if !altAttrPattern.MatchString(tag) {
			issues = append(issues, missingAlt(tag))
		}
	}

	for _, m := range buttonPattern.FindAllStringSubmatch(code, -1) {
		text := strings.TrimSpace(tagPattern.ReplaceAllString(m[2], ""))
		if text == "" && !labelAttrPattern.MatchString(m[1]) {
			issues = append(issues, unlabeledButton(m[0]))
		}
	}

	if doubleQuoteClass.MatchString(code) && singleQuoteClass.MatchString(code) {
		issues = append(issues, mixedQuotes())
	}
	return issues
}

func missingAlt(code string) Issue {
	return Issue{
		Severity:   SeverityWarning,
		Category:   CategoryAccessibility,
		Message:    "Image is missing alt text",
		Code:       code,
		Suggestion: `Add alt="" for decorative images or a description otherwise`,
	}
}

func unlabeledButton(code string) Issue {
	return Issue{
		Severity:   SeverityWarning,
		Category:   CategoryAccessibility,
		Message:    "Button has no accessible text",
		Code:       code,
		Suggestion: "Add visible text or an aria-label",
	}
}

func mixedQuotes() Issue {
	return Issue{
		Severity:   SeverityInfo,
		Category:   CategoryStyle,
		Message:    "Mixed quote styles in class attributes",
		Suggestion: "Use one quote style for class names",
	}
}
