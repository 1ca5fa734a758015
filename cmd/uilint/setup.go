package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

// serverName is the key uilint registers under in agent MCP configs.
const serverName = "uilint"

// agentKind is how an agent's MCP servers are configured.
type agentKind int

const (
	// kindCLI agents register servers with `<binary> mcp add`.
	kindCLI agentKind = iota
	// kindFile agents read servers from a JSON file.
	kindFile
)

// agent describes one AI assistant that can run the uilint MCP server.
type agent struct {
	id      string
	name    string
	kind    agentKind
	binary  string        // kindCLI: executable on PATH
	markers []string      // kindFile: directories whose presence means the agent is used here
	config  func() string // kindFile: config file path
	key     string        // kindFile: JSON key holding the server map
	scoped  bool          // kindCLI: supports project/user scope
	extra   map[string]string
}

var agents = []agent{
	{id: "claude_code", name: "Claude Code", kind: kindCLI, binary: "claude", scoped: true},
	{id: "openai_codex", name: "OpenAI Codex", kind: kindCLI, binary: "codex", scoped: true},
	{
		id: "vscode_copilot", name: "VS Code Copilot", kind: kindFile,
		markers: []string{".vscode"},
		config:  func() string { return filepath.Join(".vscode", "mcp.json") },
		key:     "servers",
		extra:   map[string]string{"type": "stdio"},
	},
	{
		id: "cursor", name: "Cursor", kind: kindFile,
		markers: []string{".cursor"},
		config:  func() string { return filepath.Join(".cursor", "mcp.json") },
		key:     "mcpServers",
	},
	{
		id: "claude_desktop", name: "Claude Desktop", kind: kindFile,
		config: claudeDesktopConfig,
		key:    "mcpServers",
	},
}

func claudeDesktopConfig() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json")
	default:
		return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
	}
}

// detected is an agent found on this machine.
type detected struct {
	agent      agent
	configPath string
	configured bool
}

// installer registers the uilint MCP server with the detected agents.
// The function fields are replaced in tests.
type installer struct {
	dir   string
	in    *bufio.Scanner
	out   io.Writer
	auto  bool
	watch bool

	lookPath func(string) (string, error)
	stat     func(string) (os.FileInfo, error)
	run      func(name string, args ...string) error
}

func newInstaller(dir string, in io.Reader, out io.Writer) *installer {
	return &installer{
		dir:      dir,
		in:       bufio.NewScanner(in),
		out:      out,
		lookPath: exec.LookPath,
		stat:     os.Stat,
		run: func(name string, args ...string) error {
			cmd := exec.Command(name, args...)
			cmd.Dir = dir
			cmd.Stdout = out
			cmd.Stderr = out
			return cmd.Run()
		},
	}
}

func newSetupCmd(a *app) *cobra.Command {
	var auto, watchGuide bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the uilint MCP server with installed AI assistants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inst := newInstaller(a.projectDir, cmd.InOrStdin(), cmd.OutOrStdout())
			inst.auto = auto
			inst.watch = watchGuide
			inst.execute()
			return nil
		},
	}
	cmd.Flags().BoolVar(&auto, "auto", false, "configure every detected assistant without prompting")
	cmd.Flags().BoolVar(&watchGuide, "watch", false, "register the server with --watch")
	return cmd
}

// path resolves project-relative agent paths against the project directory.
func (i *installer) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(i.dir, p)
}

// serveArgs is the argument list agents launch uilint with.
func (i *installer) serveArgs() []string {
	if i.watch {
		return []string{"serve", "--watch"}
	}
	return []string{"serve"}
}

func (i *installer) detect() []detected {
	var found []detected
	for _, ag := range agents {
		switch ag.kind {
		case kindCLI:
			if _, err := i.lookPath(ag.binary); err == nil {
				found = append(found, detected{agent: ag, configured: hasServer(i.path(".mcp.json"), "mcpServers")})
			}

		case kindFile:
			path := i.path(ag.config())
			present := false
			for _, m := range ag.markers {
				if _, err := i.stat(i.path(m)); err == nil {
					present = true
					break
				}
			}
			// Agents with no project marker are present when their config directory exists.
			if !present && len(ag.markers) == 0 {
				if _, err := i.stat(filepath.Dir(path)); err == nil {
					present = true
				}
			}
			if present {
				found = append(found, detected{agent: ag, configPath: path, configured: hasServer(path, ag.key)})
			}
		}
	}
	return found
}

// hasServer reports whether the JSON file at path already lists uilint under key.
func hasServer(path, key string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return false
	}
	servers, ok := config[key].(map[string]any)
	if !ok {
		return false
	}
	_, exists := servers[serverName]
	return exists
}

// addServer returns existing with a uilint entry added under key, or nil
// when one is already there. Other entries are preserved.
func addServer(existing []byte, key string, args []string, extra map[string]string) ([]byte, error) {
	config := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	servers, ok := config[key].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers[serverName]; exists {
		return nil, nil
	}

	entryArgs := make([]any, len(args))
	for n, a := range args {
		entryArgs[n] = a
	}
	entry := map[string]any{"command": serverName, "args": entryArgs}
	for k, v := range extra {
		entry[k] = v
	}
	servers[serverName] = entry
	config[key] = servers

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func (i *installer) configureFile(ag agent, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", path, err)
	}
	merged, err := addServer(existing, ag.key, i.serveArgs(), ag.extra)
	if err != nil {
		return err
	}
	if merged == nil {
		return nil
	}
	return os.WriteFile(path, merged, 0o644)
}

func (i *installer) configureCLI(ag agent, scope string) error {
	args := []string{"mcp", "add"}
	if scope != "" {
		args = append(args, "--scope", scope)
	}
	args = append(args, serverName, "--", serverName)
	args = append(args, i.serveArgs()...)
	return i.run(ag.binary, args...)
}

// --- prompts ---

// confirm asks a Y/n question. Empty input and EOF mean yes.
func (i *installer) confirm(question string) bool {
	fmt.Fprintf(i.out, "%s ", question)
	if !i.in.Scan() {
		return true
	}
	answer := strings.ToLower(strings.TrimSpace(i.in.Text()))
	return answer == "" || answer == "y" || answer == "yes"
}

// scope asks where a CLI agent should register the server: "project",
// "user", or "" to skip. Empty input and EOF mean project.
func (i *installer) scope(agentName string) string {
	fmt.Fprintf(i.out, "\n%s: add the uilint MCP server?\n", agentName)
	fmt.Fprintln(i.out, "  [1] Project scope (shared with team)")
	fmt.Fprintln(i.out, "  [2] User scope (personal, global)")
	fmt.Fprintln(i.out, "  [3] Skip")
	fmt.Fprint(i.out, "  > ")

	if !i.in.Scan() {
		return "project"
	}
	switch strings.TrimSpace(i.in.Text()) {
	case "1", "":
		return "project"
	case "2":
		return "user"
	default:
		return ""
	}
}

// --- orchestration ---

func (i *installer) execute() {
	found := i.detect()
	if len(found) == 0 {
		fmt.Fprintln(i.out, "No supported AI assistants detected.")
		return
	}

	fmt.Fprintln(i.out, "Detected AI assistants:")
	for _, d := range found {
		if d.configured {
			fmt.Fprintf(i.out, "  * %s (already configured)\n", d.agent.name)
		} else {
			fmt.Fprintf(i.out, "  * %s\n", d.agent.name)
		}
	}
	fmt.Fprintln(i.out)

	if !i.auto && !i.confirm("Configure them? [Y/n]") {
		return
	}

	for _, d := range found {
		if d.configured {
			fmt.Fprintf(i.out, "\n%s: already configured, skipping\n", d.agent.name)
			continue
		}
		i.configure(d)
	}
}

func (i *installer) configure(d detected) {
	switch d.agent.kind {
	case kindCLI:
		scope := "project"
		if !i.auto && d.agent.scoped {
			if scope = i.scope(d.agent.name); scope == "" {
				fmt.Fprintln(i.out, "  skipped")
				return
			}
		}
		if err := i.configureCLI(d.agent, scope); err != nil {
			fmt.Fprintf(i.out, "  ! %s: failed: %v\n", d.agent.name, err)
			return
		}
		fmt.Fprintf(i.out, "  + %s configured (scope: %s)\n", d.agent.name, scope)

	case kindFile:
		if !i.auto && !i.confirm(fmt.Sprintf("\n%s: add to %s? [Y/n]", d.agent.name, d.configPath)) {
			fmt.Fprintln(i.out, "  skipped")
			return
		}
		if err := i.configureFile(d.agent, d.configPath); err != nil {
			fmt.Fprintf(i.out, "  ! %s: failed: %v\n", d.agent.name, err)
			return
		}
		fmt.Fprintf(i.out, "  + %s configured (%s)\n", d.agent.name, d.configPath)
	}
}
