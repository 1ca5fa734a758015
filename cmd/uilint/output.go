package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gnana997/uilint/pkg/validator"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func severityStyle(s validator.Severity) lipgloss.Style {
	switch s {
	case validator.SeverityError:
		return errorStyle
	case validator.SeverityInfo:
		return infoStyle
	default:
		return warningStyle
	}
}

func severityIcon(s validator.Severity) string {
	switch s {
	case validator.SeverityError:
		return "✗"
	case validator.SeverityInfo:
		return "i"
	default:
		return "!"
	}
}

// formatIssues renders issues as a numbered list, or clean when there are none.
func formatIssues(issues []validator.Issue, clean string) string {
	if len(issues) == 0 {
		return successStyle.Render("✓ " + clean)
	}

	var sb strings.Builder
	sb.WriteString(warningStyle.Render(fmt.Sprintf("Found %d issue(s):", len(issues))))
	sb.WriteString("\n")
	for i, issue := range issues {
		style := severityStyle(issue.Severity)
		fmt.Fprintf(&sb, "\n%d. %s %s\n", i+1,
			style.Render(severityIcon(issue.Severity)+" ["+string(issue.Category)+"]"),
			issue.Message)

		switch {
		case issue.Current != "" && issue.Expected != "":
			sb.WriteString(dimStyle.Render(fmt.Sprintf("   Current: %s → Expected: %s", issue.Current, issue.Expected)))
			sb.WriteString("\n")
		case issue.Code != "":
			sb.WriteString(dimStyle.Render("   Code: " + issue.Code))
			sb.WriteString("\n")
		}
		if issue.Suggestion != "" {
			sb.WriteString(hintStyle.Render("   → " + issue.Suggestion))
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func printIssues(w io.Writer, issues []validator.Issue, clean string) {
	fmt.Fprintln(w, formatIssues(issues, clean))
}
