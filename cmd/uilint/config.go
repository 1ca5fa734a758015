package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/uilint/pkg/llm"
	"github.com/gnana997/uilint/pkg/snapshot"
	"github.com/gnana997/uilint/pkg/util"
)

// configPath is the project config file, relative to the project root.
const configPath = ".uilint/config.yaml"

// Config holds the settings of one invocation. Precedence, lowest first:
// defaults, the config file, UILINT_* environment variables, flags.
type Config struct {
	StyleguidePath string     `mapstructure:"styleguide_path"`
	LLM            llm.Config `mapstructure:"llm"`
	Log            LogConfig  `mapstructure:"log"`
	MaxHTMLLength  int        `mapstructure:"max_html_length"`
	MCPLogPath     string     `mapstructure:"mcp_log_path"`
	Scan           ScanConfig `mapstructure:"scan"`
}

// LogConfig configures the stderr logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// ScanConfig holds the globs used by batch scans (--dir).
type ScanConfig struct {
	Include []string `mapstructure:"include" yaml:"include" json:"include"`
	Exclude []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
}

func defaultConfig() Config {
	discover := snapshot.DefaultDiscoverConfig()
	return Config{
		LLM:           llm.DefaultConfig(),
		Log:           LogConfig{Level: string(util.LevelWarn), Format: string(util.FormatText)},
		MaxHTMLLength: snapshot.DefaultMaxHTMLLength,
		Scan:          ScanConfig{Include: discover.Include, Exclude: discover.Exclude},
	}
}

func setDefaults(v *viper.Viper) {
	d := defaultConfig()
	v.SetDefault("styleguide_path", d.StyleguidePath)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("max_html_length", d.MaxHTMLLength)
	v.SetDefault("mcp_log_path", d.MCPLogPath)
	v.SetDefault("scan.include", d.Scan.Include)
	v.SetDefault("scan.exclude", d.Scan.Exclude)
}

// loadConfig resolves the configuration. file overrides the project config
// path; a missing project config is not an error, a missing explicit file is.
func loadConfig(v *viper.Viper, projectDir, file string) (Config, error) {
	setDefaults(v)
	v.SetEnvPrefix("UILINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file == "" {
		candidate := filepath.Join(projectDir, configPath)
		if _, err := os.Stat(candidate); err == nil {
			file = candidate
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// fileConfig is the on-disk shape of Config. Durations are written as
// strings so the file stays readable.
type fileConfig struct {
	StyleguidePath string     `yaml:"styleguide_path" json:"styleguide_path"`
	LLM            fileLLM    `yaml:"llm" json:"llm"`
	Log            LogConfig  `yaml:"log" json:"log"`
	MaxHTMLLength  int        `yaml:"max_html_length" json:"max_html_length"`
	MCPLogPath     string     `yaml:"mcp_log_path" json:"mcp_log_path"`
	Scan           ScanConfig `yaml:"scan" json:"scan"`
}

type fileLLM struct {
	BaseURL string `yaml:"base_url" json:"base_url"`
	Model   string `yaml:"model" json:"model"`
	Timeout string `yaml:"timeout" json:"timeout"`
}

func (c Config) file() fileConfig {
	return fileConfig{
		StyleguidePath: c.StyleguidePath,
		LLM: fileLLM{
			BaseURL: c.LLM.BaseURL,
			Model:   c.LLM.Model,
			Timeout: c.LLM.Timeout.String(),
		},
		Log:           c.Log,
		MaxHTMLLength: c.MaxHTMLLength,
		MCPLogPath:    c.MCPLogPath,
		Scan:          c.Scan,
	}
}

const configHeader = "# uilint configuration. UILINT_<KEY> environment variables override these\n" +
	"# values, e.g. UILINT_LLM_MODEL for llm.model.\n"

func marshalConfig(c Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(configHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c.file()); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// writeConfig writes c to path. An existing file is kept unless force is set.
func writeConfig(path string, c Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	data, err := marshalConfig(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage .uilint/config.yaml",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := filepath.Join(a.projectDir, configPath)
			if err := writeConfig(path, defaultConfig(), force); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Created "+path))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), a.cfg.file())
			}
			data, err := marshalConfig(a.cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
