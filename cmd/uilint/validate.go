package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/uilint/pkg/validator"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		code   string
		file   string
		useLLM bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate code against the style guide",
		Long: `Validate checks hex colors, spacing and inline styles in a code snippet
against the style guide. With --llm the check runs on Ollama and falls back to
the local rules when Ollama is unavailable. Exits 1 when any issue is reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := readCode(cmd, code, file)
			if err != nil {
				return err
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

			var result validator.Result
			switch {
			case doc == nil:
				result = validator.Validate(src, nil)
			case useLLM:
				result, err = a.validateWithLLM(cmd, src, doc.Content)
				if err != nil {
					a.logger.Warn("llm validation unavailable, using local rules", "error", err)
					result = validator.Validate(src, validator.NewGuide(doc.Content))
				}
			default:
				result = validator.Validate(src, validator.NewGuide(doc.Content))
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput() {
				if err := printJSON(out, result); err != nil {
					return err
				}
			} else {
				printIssues(out, result.Issues, "Code passes validation")
			}

			if len(result.Issues) > 0 {
				return errIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "code snippet to validate")
	cmd.Flags().StringVarP(&file, "file", "f", "", "file to validate")
	cmd.Flags().BoolVar(&useLLM, "llm", false, "validate with Ollama")
	return cmd
}

func (a *app) validateWithLLM(cmd *cobra.Command, src, guideDoc string) (validator.Result, error) {
	client, err := a.readyLLM(cmd)
	if err != nil {
		return validator.Result{}, err
	}
	stop := a.spin(cmd, "Validating with "+client.Config().Model)
	result, err := client.ValidateCode(cmd.Context(), src, guideDoc)
	stop()
	if err != nil {
		return validator.Result{}, fmt.Errorf("validation failed: %w", err)
	}
	return result, nil
}

func newLintCmd(a *app) *cobra.Command {
	var (
		code string
		file string
	)

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Lint a snippet for hardcoded values and accessibility gaps",
		Long: `Lint needs no style guide. It reports magic numbers, hardcoded colors in
arbitrary classes and inline styles, images without alt text, buttons
without an accessible name, and mixed class attribute quoting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := readCode(cmd, code, file)
			if err != nil {
				return err
			}
			issues := validator.LintSnippet(src)

			out := cmd.OutOrStdout()
			if a.jsonOutput() {
				return printJSON(out, map[string]any{"issues": issues})
			}
			printIssues(out, issues, "No lint issues found")
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "code snippet to lint")
	cmd.Flags().StringVarP(&file, "file", "f", "", "file to lint")
	return cmd
}
