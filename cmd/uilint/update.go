package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/uilint/pkg/styleguide"
	"github.com/gnana997/uilint/pkg/validator"
)

type updateReport struct {
	Path        string            `json:"path"`
	Changed     bool              `json:"changed"`
	Written     bool              `json:"written"`
	Added       map[string]int    `json:"added,omitempty"`
	Suggestions []validator.Issue `json:"suggestions,omitempty"`
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		in     inputFlags
		useLLM bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Merge newly detected styles into the style guide",
		Long: `Update adds detected colors, typography and spacing that the guide does not
have yet. Existing rules are never changed or removed. With --llm, Ollama
suggests edits instead and the guide is left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.newStore()
			if err != nil {
				return err
			}
			defer store.Close()

			doc, err := a.loadGuide(store)
			if errors.Is(err, styleguide.ErrNotFound) {
				return fmt.Errorf("%w: run `uilint init` first", err)
			}
			if err != nil {
				return err
			}

			snap, err := a.capture(cmd, &in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			report := updateReport{Path: doc.Path}

			if useLLM {
				client, err := a.readyLLM(cmd)
				if err != nil {
					return err
				}
				stop := a.spin(cmd, "Analyzing styles")
				analysis, err := client.AnalyzeStyles(cmd.Context(), snap.Summary(), doc.Content)
				stop()
				if err != nil {
					return fmt.Errorf("analysis failed: %w", err)
				}
				report.Suggestions = analysis.Issues
				report.Changed = len(analysis.Issues) > 0

				if a.jsonOutput() {
					return printJSON(out, report)
				}
				if !report.Changed {
					fmt.Fprintln(out, successStyle.Render("✓ Style guide is up to date"))
					return nil
				}
				fmt.Fprintln(out, titleStyle.Render("Suggested changes:"))
				for _, s := range analysis.Issues {
					fmt.Fprintf(out, "  • %s\n", s.Message)
					if s.Suggestion != "" {
						fmt.Fprintln(out, hintStyle.Render("    → "+s.Suggestion))
					}
				}
				fmt.Fprintln(out, dimStyle.Render("\nEdit the style guide to apply these changes."))
				return nil
			}

			detected := styleguide.Detect(snap.Styles, styleguide.DefaultDetectOptions())
			merged := styleguide.Merge(doc.Guide, detected)
			updated := styleguide.MarkdownWithIntro(merged, styleguide.Intro(doc.Content))

			report.Changed = updated != doc.Content
			report.Added = map[string]int{
				"colors":     len(merged.Colors) - len(doc.Guide.Colors),
				"typography": len(merged.Typography) - len(doc.Guide.Typography),
				"spacing":    len(merged.Spacing) - len(doc.Guide.Spacing),
				"components": len(merged.Components) - len(doc.Guide.Components),
			}
			if report.Changed && !dryRun {
				if err := store.Write(doc.Path, updated); err != nil {
					return err
				}
				report.Written = true
			}

			if a.jsonOutput() {
				return printJSON(out, report)
			}
			switch {
			case !report.Changed:
				fmt.Fprintln(out, successStyle.Render("✓ Style guide is up to date"))
			case dryRun:
				fmt.Fprint(out, updated)
			default:
				fmt.Fprintln(out, successStyle.Render("✓ Style guide updated at "+doc.Path))
				fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("  added %d colors, %d typography, %d spacing rules",
					report.Added["colors"], report.Added["typography"], report.Added["spacing"])))
			}
			return nil
		},
	}

	addInputFlags(cmd, &in)
	cmd.Flags().BoolVar(&useLLM, "llm", false, "ask Ollama for suggested edits instead of merging")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the updated guide without writing it")
	return cmd
}
