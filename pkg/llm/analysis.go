package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gnana997/uilint/pkg/validator"
)

// Analysis is the model's review of extracted styles.
type Analysis struct {
	Issues   []validator.Issue `json:"issues"`
	Duration time.Duration     `json:"duration"`
}

// issueRecord is the issue shape the prompts ask the model for.
type issueRecord struct {
	Type          string `json:"type"`
	Severity      string `json:"severity"`
	Message       string `json:"message"`
	CurrentValue  string `json:"currentValue"`
	ExpectedValue string `json:"expectedValue"`
	Suggestion    string `json:"suggestion"`
}

type issueList struct {
	Issues []issueRecord `json:"issues"`
}

const issueFormat = `Respond with JSON only, in this shape:
{"issues": [{"type": "color|typography|spacing|component|accessibility", "severity": "error|warning|info", "message": "...", "currentValue": "...", "expectedValue": "...", "suggestion": "..."}]}
Return {"issues": []} when there is nothing to report.`

const generatePrompt = `You are a design system expert. Write a UI style guide in markdown for the styles below.

Use exactly these level-2 sections: "## Colors", "## Typography", "## Spacing", "## Components".
Write each rule as a list item:
- Colors: - **Name**: #RRGGBB (usage)
- Typography: - **Element**: font-family: "Family", font-size: 16px, font-weight: 400, line-height: 1.5
- Spacing: - **Name**: value
- Components: - **Name**: style, style

Give colors meaningful names. Output only the markdown document.

%s`

const analyzePrompt = `You are a UI consistency reviewer. Compare the styles detected in a UI with its style guide and report inconsistencies: near-duplicate colors, off-scale font sizes, spacing that breaks the grid, values missing from the guide.

%s

Detected styles:
%s

%s`

const validatePrompt = `You are a UI code reviewer. Check the code below against the style guide and report style violations.

Style guide:
%s

Code:
%s

%s`

const queryPrompt = `Answer the question using only the style guide below. Be brief and quote exact values.

Style guide:
%s

Question: %s`

// GenerateStyleGuide asks the model for a guide document describing the
// summarized styles.
func (c *Client) GenerateStyleGuide(ctx context.Context, summary string) (string, error) {
	out, err := c.generate(ctx, fmt.Sprintf(generatePrompt, summary), false)
	if err != nil {
		return "", fmt.Errorf("failed to generate style guide: %w", err)
	}
	doc := stripFences(out)
	if !strings.Contains(doc, "## ") {
		return "", fmt.Errorf("failed to generate style guide: response has no sections")
	}
	return doc, nil
}

// AnalyzeStyles asks the model to review summarized styles against an
// optional guide document.
func (c *Client) AnalyzeStyles(ctx context.Context, summary, guideDoc string) (*Analysis, error) {
	guide := "There is no style guide yet; look for internal inconsistencies only."
	if strings.TrimSpace(guideDoc) != "" {
		guide = "Style guide:\n" + guideDoc
	}

	start := time.Now()
	out, err := c.generate(ctx, fmt.Sprintf(analyzePrompt, guide, summary, issueFormat), true)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze styles: %w", err)
	}
	issues, err := decodeIssues(out)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze styles: %w", err)
	}
	return &Analysis{Issues: issues, Duration: time.Since(start)}, nil
}

// ValidateCode asks the model to check code against a guide document. The
// result follows validator semantics: Valid unless an error-severity issue
// is reported.
func (c *Client) ValidateCode(ctx context.Context, code, guideDoc string) (validator.Result, error) {
	if strings.TrimSpace(guideDoc) == "" {
		return validator.Validate(code, nil), nil
	}

	out, err := c.generate(ctx, fmt.Sprintf(validatePrompt, guideDoc, code, issueFormat), true)
	if err != nil {
		return validator.Result{}, fmt.Errorf("failed to validate code: %w", err)
	}
	issues, err := decodeIssues(out)
	if err != nil {
		return validator.Result{}, fmt.Errorf("failed to validate code: %w", err)
	}

	r := validator.Result{Issues: issues}
	r.Valid = !r.HasErrors()
	return r, nil
}

// QueryStyleGuide answers a free-form question about a guide document.
func (c *Client) QueryStyleGuide(ctx context.Context, query, guideDoc string) (string, error) {
	out, err := c.generate(ctx, fmt.Sprintf(queryPrompt, guideDoc, query), false)
	if err != nil {
		return "", fmt.Errorf("failed to query style guide: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func decodeIssues(raw string) ([]validator.Issue, error) {
	var list issueList
	if err := json.Unmarshal([]byte(stripFences(raw)), &list); err != nil {
		return nil, fmt.Errorf("invalid issue records: %w", err)
	}

	issues := make([]validator.Issue, 0, len(list.Issues))
	for _, rec := range list.Issues {
		if strings.TrimSpace(rec.Message) == "" {
			continue
		}
		issues = append(issues, validator.Issue{
			Severity:   severityOf(rec.Severity),
			Category:   categoryOf(rec.Type),
			Message:    rec.Message,
			Current:    rec.CurrentValue,
			Expected:   rec.ExpectedValue,
			Suggestion: rec.Suggestion,
		})
	}
	return issues, nil
}

func severityOf(s string) validator.Severity {
	switch validator.Severity(strings.ToLower(s)) {
	case validator.SeverityError:
		return validator.SeverityError
	case validator.SeverityInfo:
		return validator.SeverityInfo
	default:
		return validator.SeverityWarning
	}
}

func categoryOf(s string) validator.Category {
	switch c := validator.Category(strings.ToLower(s)); c {
	case validator.CategoryColor, validator.CategoryTypography, validator.CategorySpacing,
		validator.CategoryComponent, validator.CategoryAccessibility, validator.CategoryMaintainability:
		return c
	default:
		return validator.CategoryStyle
	}
}

var fencePattern = regexp.MustCompile("(?s)^\\s*```[a-zA-Z]*\\n(.*?)\\n?```\\s*$")

// stripFences removes a markdown code fence wrapped around the whole text.
func stripFences(s string) string {
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(s)
}
