package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/uilint/pkg/browser"
	"github.com/gnana997/uilint/pkg/snapshot"
)

// inputFlags selects where a snapshot comes from. The first set source wins:
// --url, --dir, --json, --file, then stdin.
type inputFlags struct {
	url        string
	controlURL string
	selector   string
	dir        string
	json       string
	file       string
}

func addInputFlags(cmd *cobra.Command, f *inputFlags) {
	fs := cmd.Flags()
	fs.StringVarP(&f.file, "file", "f", "", "markup file, or a .json file with html and styles")
	fs.StringVarP(&f.json, "json", "j", "", `inline JSON input: {"html": ..., "styles": ...}`)
	fs.StringVar(&f.dir, "dir", "", "scan every markup file under a directory")
	fs.StringVar(&f.url, "url", "", "capture a live page with headless Chrome")
	fs.StringVar(&f.controlURL, "chrome", "", "DevTools URL of a running Chrome (with --url)")
	fs.StringVar(&f.selector, "selector", "", "root element to capture (with --url, default body)")
}

var errNoInput = errors.New("no input provided: use --file, --json, --dir, --url or pipe markup to stdin")

func (a *app) snapshotOptions() snapshot.Options {
	return snapshot.Options{MaxHTMLLength: a.cfg.MaxHTMLLength, Logger: a.logger}
}

// capture builds a snapshot from the selected input source.
func (a *app) capture(cmd *cobra.Command, f *inputFlags) (*snapshot.Snapshot, error) {
	opts := a.snapshotOptions()

	switch {
	case f.url != "":
		res, err := browser.Capture(cmd.Context(), browser.Config{
			URL:        f.url,
			ControlURL: f.controlURL,
			Selector:   f.selector,
			Logger:     a.logger,
		})
		if err != nil {
			return nil, err
		}
		return res.Snapshot(opts)

	case f.dir != "":
		return a.captureDir(cmd, f.dir, opts)

	case f.json != "":
		in, err := snapshot.DecodeJSON([]byte(f.json))
		if err != nil {
			return nil, fmt.Errorf("invalid --json input: %w", err)
		}
		return snapshot.Capture(in, opts)

	case f.file != "":
		in, err := snapshot.FromFile(f.file)
		if err != nil {
			return nil, err
		}
		return snapshot.Capture(in, opts)
	}

	data, ok, err := readStdin(cmd)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNoInput
	}
	if strings.TrimSpace(data) == "" {
		return nil, errors.New("no input provided via stdin")
	}
	return snapshot.Capture(decodeStdin(data), opts)
}

func (a *app) captureDir(cmd *cobra.Command, dir string, opts snapshot.Options) (*snapshot.Snapshot, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	paths, err := snapshot.DiscoverFiles(root, snapshot.DiscoverConfig{
		Include: a.cfg.Scan.Include,
		Exclude: a.cfg.Scan.Exclude,
	})
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no markup files found in %s", root)
	}
	a.logger.Info("capturing files", "dir", root, "files", len(paths))

	snap, err := snapshot.CaptureAll(cmd.Context(), paths, opts)
	if snap == nil {
		return nil, err
	}
	if err != nil {
		a.logger.Warn("some files could not be captured", "error", err)
	}
	return snap, nil
}

// decodeStdin treats piped JSON objects as snapshot inputs and anything else
// as markup.
func decodeStdin(data string) snapshot.Input {
	if strings.HasPrefix(strings.TrimSpace(data), "{") {
		if in, err := snapshot.DecodeJSON([]byte(data)); err == nil {
			return in
		}
	}
	return snapshot.RawMarkup{HTML: data}
}

// readStdin reads the command's input unless it is an interactive terminal.
func readStdin(cmd *cobra.Command) (string, bool, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		info, err := f.Stat()
		if err != nil || info.Mode()&os.ModeCharDevice != 0 {
			return "", false, nil
		}
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", false, fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), true, nil
}

// readCode returns the code to validate: --code, then --file, then stdin.
func readCode(cmd *cobra.Command, code, file string) (string, error) {
	if code != "" {
		return code, nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return string(data), nil
	}

	data, ok, err := readStdin(cmd)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("no code provided: use --code, --file or pipe code to stdin")
	}
	if strings.TrimSpace(data) == "" {
		return "", errors.New("no code provided via stdin")
	}
	return data, nil
}
