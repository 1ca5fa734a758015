package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gnana997/uilint/pkg/validator"
)

type scanReport struct {
	Styleguide   string            `json:"styleguide,omitempty"`
	ElementCount int               `json:"elementCount"`
	Issues       []validator.Issue `json:"issues"`
	DurationMs   int64             `json:"durationMs"`
	Analyzer     string            `json:"analyzer"`
}

func newScanCmd(a *app) *cobra.Command {
	var (
		in          inputFlags
		useLLM      bool
		summaryOnly bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan markup for style inconsistencies",
		Long: `Scan extracts the styles used by a page and compares them with the style
guide. Rules run locally; --llm asks Ollama for a deeper review instead and
falls back to the rules when Ollama is unavailable. Exits 1 when issues are
found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := a.capture(cmd, &in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if summaryOnly {
				if a.jsonOutput() {
					return printJSON(out, snap.Styles)
				}
				fmt.Fprint(out, snap.Summary())
				return nil
			}

			store, err := a.newStore()
			if err != nil {
				return err
			}
			defer store.Close()

			doc, err := a.loadGuideOptional(store)
			if err != nil {
				return err
			}

			report := scanReport{ElementCount: snap.ElementCount, Analyzer: "rules"}
			if doc != nil {
				report.Styleguide = doc.Path
			}

			start := time.Now()
			if useLLM {
				guideDoc := ""
				if doc != nil {
					guideDoc = doc.Content
				}
				issues, err := a.analyzeWithLLM(cmd, snap.Summary(), guideDoc, snap.ElementCount)
				if err != nil {
					a.logger.Warn("llm analysis unavailable, using local rules", "error", err)
				} else {
					report.Issues = issues
					report.Analyzer = "llm"
				}
			}
			if report.Analyzer == "rules" {
				var guide *validator.Guide
				if doc != nil {
					guide = validator.NewGuide(doc.Content)
				}
				report.Issues = validator.ValidateStyles(snap.Styles, guide).Issues
			}
			report.DurationMs = time.Since(start).Milliseconds()

			if a.jsonOutput() {
				if err := printJSON(out, report); err != nil {
					return err
				}
			} else {
				if doc != nil {
					fmt.Fprintln(out, dimStyle.Render("Style guide: "+doc.Path))
				}
				printIssues(out, report.Issues, "No UI consistency issues found")
				fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("\nScanned %d elements in %dms", report.ElementCount, report.DurationMs)))
			}

			if len(report.Issues) > 0 {
				return errIssuesFound
			}
			return nil
		},
	}

	addInputFlags(cmd, &in)
	cmd.Flags().BoolVar(&useLLM, "llm", false, "analyze with Ollama instead of the local rules")
	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "print the extracted style summary and exit")
	return cmd
}

func (a *app) analyzeWithLLM(cmd *cobra.Command, summary, guideDoc string, elements int) ([]validator.Issue, error) {
	client, err := a.readyLLM(cmd)
	if err != nil {
		return nil, err
	}
	stop := a.spin(cmd, fmt.Sprintf("Analyzing %d elements", elements))
	analysis, err := client.AnalyzeStyles(cmd.Context(), summary, guideDoc)
	stop()
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	return analysis.Issues, nil
}
