package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gnana997/uilint/pkg/llm"
	"github.com/gnana997/uilint/pkg/styleguide"
	"github.com/gnana997/uilint/pkg/util"
)

// app is the state shared by all commands of one invocation.
type app struct {
	v          *viper.Viper
	cfgFile    string
	projectDir string
	output     string

	cfg    Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "uilint",
		Short: "Check UI code for style consistency",
		Long: `uilint extracts the colors, typography and spacing a UI actually uses,
keeps them in a markdown style guide (.uilint/styleguide.md), and reports
code and pages that drift from it.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default .uilint/config.yaml in the project)")
	pf.StringVarP(&a.projectDir, "project", "p", ".", "project directory")
	pf.StringVarP(&a.output, "output", "o", "text", "output format: text or json")
	pf.StringP("styleguide", "s", "", "style guide file (default: search the project)")
	pf.StringP("model", "m", "", "Ollama model")
	pf.String("ollama-url", "", "Ollama server URL")
	pf.String("log-level", "", "log level: debug, info, warn, error")

	_ = a.v.BindPFlag("styleguide_path", pf.Lookup("styleguide"))
	_ = a.v.BindPFlag("llm.model", pf.Lookup("model"))
	_ = a.v.BindPFlag("llm.base_url", pf.Lookup("ollama-url"))
	_ = a.v.BindPFlag("log.level", pf.Lookup("log-level"))

	root.AddCommand(
		newScanCmd(a),
		newInitCmd(a),
		newUpdateCmd(a),
		newValidateCmd(a),
		newLintCmd(a),
		newQueryCmd(a),
		newServeCmd(a),
		newSetupCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the uilint version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "uilint %s\n", version)
		},
	}
}

// setup resolves the project directory, loads the configuration and
// installs the logger. Runs before every command.
func (a *app) setup(cmd *cobra.Command) error {
	if a.output != "text" && a.output != "json" {
		return fmt.Errorf("unknown output format %q (want text or json)", a.output)
	}

	dir, err := filepath.Abs(a.projectDir)
	if err != nil {
		return fmt.Errorf("failed to resolve project directory: %w", err)
	}
	a.projectDir = dir

	cfg, err := loadConfig(a.v, dir, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger = util.NewLogger(util.LoggerConfig{
		Level:  util.ParseLogLevel(cfg.Log.Level),
		Format: util.LogFormat(cfg.Log.Format),
		Output: cmd.ErrOrStderr(),
	})
	util.SetDefault(a.logger)
	return nil
}

func (a *app) jsonOutput() bool {
	return a.output == "json"
}

// projectPath resolves p against the project directory.
func (a *app) projectPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.projectDir, p)
}

// guidePath returns the configured guide path, or "" when the project should
// be searched. Always absolute so it matches watcher and cache keys.
func (a *app) guidePath() string {
	return a.projectPath(a.cfg.StyleguidePath)
}

func (a *app) newStore() (*styleguide.Store, error) {
	return styleguide.NewStore(styleguide.StoreConfig{Logger: a.logger})
}

// loadGuide loads the configured guide, or the first one found in the
// project. The error wraps styleguide.ErrNotFound when there is none.
func (a *app) loadGuide(store *styleguide.Store) (*styleguide.Document, error) {
	if p := a.guidePath(); p != "" {
		return store.Load(p)
	}
	return store.LoadProject(a.projectDir)
}

// loadGuideOptional is loadGuide with a missing guide reported as nil.
func (a *app) loadGuideOptional(store *styleguide.Store) (*styleguide.Document, error) {
	doc, err := a.loadGuide(store)
	if errors.Is(err, styleguide.ErrNotFound) {
		a.logger.Debug("no style guide", "error", err)
		return nil, nil
	}
	return doc, err
}

func (a *app) newLLM() *llm.Client {
	return llm.NewClient(a.cfg.LLM, a.logger)
}

// readyLLM returns a client whose model is available, pulling it if needed.
func (a *app) readyLLM(cmd *cobra.Command) (*llm.Client, error) {
	client := a.newLLM()
	stop := a.spin(cmd, "Preparing "+client.Config().Model)
	err := client.EnsureReady(cmd.Context())
	stop()
	if err != nil {
		return nil, fmt.Errorf("ollama is not ready at %s: %w", client.Config().BaseURL, err)
	}
	return client, nil
}

// spin shows a spinner in text mode on an interactive terminal and returns
// the function that removes it.
func (a *app) spin(cmd *cobra.Command, text string) func() {
	if a.jsonOutput() || !isTerminal(cmd.OutOrStdout()) {
		return func() {}
	}
	spinner, err := pterm.DefaultSpinner.
		WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100 * time.Millisecond).
		WithRemoveWhenDone(true).
		Start(text)
	if err != nil {
		return func() {}
	}
	return func() { _ = spinner.Stop() }
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
