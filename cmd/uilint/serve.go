package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	mcpserver "github.com/gnana997/uilint/pkg/mcp"
	"github.com/gnana997/uilint/pkg/mcplog"
	"github.com/gnana997/uilint/pkg/styleguide"
	"github.com/gnana997/uilint/pkg/watch"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		watchGuide bool
		noLLM      bool
		callLog    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Serve exposes validate_code, lint_snippet, query_styleguide,
summarize_markup and get_styleguide_section to AI assistants over MCP stdio.
The guide is read on every call; --watch also drops cached copies as soon as
the file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.newStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if callLog == "" {
				callLog = a.projectPath(a.cfg.MCPLogPath)
			}
			logFile, err := mcplog.NewLogger(callLog)
			if err != nil {
				return err
			}
			defer logFile.Close()

			opts := mcpserver.Options{
				ProjectDir:    a.projectDir,
				GuidePath:     a.guidePath(),
				Store:         store,
				CallLog:       logFile,
				MaxHTMLLength: a.cfg.MaxHTMLLength,
				Logger:        a.logger,
			}
			if !noLLM {
				opts.LLM = a.newLLM()
			}

			if watchGuide {
				w, err := watch.New(store, watch.Options{
					Paths:  a.watchedGuides(),
					Logger: a.logger,
				})
				if err != nil {
					return err
				}
				if err := w.Start(); err != nil {
					return fmt.Errorf("failed to watch style guide: %w", err)
				}
				defer w.Stop()
			}

			a.logger.Info("starting MCP server", "project", a.projectDir, "guide", opts.GuidePath, "watch", watchGuide)
			return mcpserver.NewServer(opts).ServeStdio()
		},
	}

	cmd.Flags().BoolVarP(&watchGuide, "watch", "w", false, "reload the style guide when it changes")
	cmd.Flags().BoolVar(&noLLM, "no-llm", false, "answer queries without Ollama")
	cmd.Flags().StringVar(&callLog, "call-log", "", "append a JSONL record of every tool call to this file")
	return cmd
}

// watchedGuides lists the paths the server may load a guide from.
func (a *app) watchedGuides() []string {
	if p := a.guidePath(); p != "" {
		return []string{p}
	}
	paths := make([]string, 0, len(styleguide.SearchPaths))
	for _, rel := range styleguide.SearchPaths {
		paths = append(paths, filepath.Join(a.projectDir, rel))
	}
	return paths
}
