package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/uilint/pkg/styleguide"
)

type initReport struct {
	Path      string `json:"path"`
	Generator string `json:"generator"`
	Colors    int    `json:"colors"`
	Rules     int    `json:"rules"`
}

func newInitCmd(a *app) *cobra.Command {
	var (
		in     inputFlags
		useLLM bool
		force  bool
		target string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a style guide from the styles a UI uses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.projectPath(target)
			if path == "" {
				path = a.guidePath()
			}
			if path == "" {
				path = a.projectPath(styleguide.DefaultPath)
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("a style guide already exists at %s (use --force to overwrite, or `uilint update` to merge new styles)", path)
			}

			snap, err := a.capture(cmd, &in)
			if err != nil {
				return err
			}
			a.logger.Info("detected styles", "elements", snap.ElementCount, "tokens", snap.Styles.Total())

			report := initReport{Path: path, Generator: "rules"}
			content := ""
			if useLLM {
				client, err := a.readyLLM(cmd)
				if err != nil {
					return err
				}
				stop := a.spin(cmd, "Generating style guide")
				content, err = client.GenerateStyleGuide(cmd.Context(), snap.Summary())
				stop()
				if err != nil {
					a.logger.Warn("llm generation failed, using detected styles", "error", err)
					content = ""
				} else {
					report.Generator = "llm"
					content = strings.TrimRight(content, "\n") + "\n"
				}
			}
			if content == "" {
				content = styleguide.Generate(snap.Styles, styleguide.DefaultDetectOptions())
			}

			store, err := a.newStore()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Write(path, content); err != nil {
				return err
			}

			g := styleguide.Parse(content)
			report.Colors = len(g.Colors)
			report.Rules = len(g.Colors) + len(g.Typography) + len(g.Spacing) + len(g.Components)

			out := cmd.OutOrStdout()
			if a.jsonOutput() {
				return printJSON(out, report)
			}
			fmt.Fprintln(out, boxStyle.Render(strings.Join([]string{
				successStyle.Render("Created: ") + path,
				fmt.Sprintf("%d rules from %d elements", report.Rules, snap.ElementCount),
				"",
				dimStyle.Render("Next steps:"),
				"  1. Review and rename the generated rules",
				"  2. Run " + hintStyle.Render("uilint scan") + " to check for inconsistencies",
			}, "\n")))
			return nil
		},
	}

	addInputFlags(cmd, &in)
	cmd.Flags().BoolVar(&useLLM, "llm", false, "write the guide with Ollama")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing style guide")
	cmd.Flags().StringVar(&target, "path", "", "where to write the guide (default "+styleguide.DefaultPath+")")
	return cmd
}
