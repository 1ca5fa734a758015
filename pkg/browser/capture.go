// Package browser captures computed styles from a live page with headless
// Chrome. Raw values are normalized in Go by the same rules the static
// extractor uses, so a browser capture and a markup capture of the same page
// produce comparable frequency mappings.
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/gnana997/uilint/pkg/snapshot"
	"github.com/gnana997/uilint/pkg/styles"
)

// Config configures a capture.
type Config struct {
	// URL of the page to capture.
	URL string

	// ControlURL is the DevTools WebSocket URL of a running Chrome.
	// Empty launches a local headless Chrome.
	ControlURL string

	// Timeout bounds navigation and evaluation. Default: 30s.
	Timeout time.Duration

	// Selector picks the root element. Default: "body".
	Selector string

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Selector == "" {
		c.Selector = "body"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Result is a browser capture: the pre-extracted input plus the number of
// elements walked.
type Result struct {
	Input        snapshot.PreExtracted
	ElementCount int
}

// captureScript returns the page markup and, for every element below the
// root, the computed values the extractor reads.
const captureScript = `(sel) => {
	const root = document.querySelector(sel) || document.body;
	const props = %s;
	const elements = [];
	for (const el of root.querySelectorAll('*')) {
		const cs = window.getComputedStyle(el);
		if (!cs) continue;
		const decl = {};
		for (const p of props) decl[p] = cs.getPropertyValue(p);
		elements.push(decl);
	}
	return JSON.stringify({ html: root.outerHTML, elements });
}`

type pagePayload struct {
	HTML     string                `json:"html"`
	Elements []styles.Declarations `json:"elements"`
}

// Capture opens cfg.URL and extracts its styles.
func Capture(ctx context.Context, cfg Config) (*Result, error) {
	cfg.defaults()
	if cfg.URL == "" {
		return nil, errors.New("browser: no URL to capture")
	}
	log := cfg.Logger

	controlURL := cfg.ControlURL
	var lnch *launcher.Launcher
	if controlURL == "" {
		lnch = launcher.New().Headless(true)
		u, err := lnch.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		controlURL = u
		log.Debug("browser: launched local chrome", "url", controlURL)
		defer lnch.Kill()
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			log.Warn("browser: close failed", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	page, err := b.Context(ctx).Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}
	defer page.Close()

	if err := page.Context(ctx).Navigate(cfg.URL); err != nil {
		return nil, fmt.Errorf("browser: navigate %s: %w", cfg.URL, err)
	}
	if err := page.Context(ctx).WaitLoad(); err != nil {
		log.Warn("browser: wait load timeout", "url", cfg.URL, "error", err)
	}

	props, _ := json.Marshal(styles.ExtractedProperties)
	res, err := page.Context(ctx).Eval(fmt.Sprintf(captureScript, props), cfg.Selector)
	if err != nil {
		return nil, fmt.Errorf("browser: evaluate styles: %w", err)
	}

	result, err := decodePayload([]byte(res.Value.Str()))
	if err != nil {
		return nil, err
	}
	log.Info("browser: captured page", "url", cfg.URL, "elements", result.ElementCount)
	return result, nil
}

// decodePayload turns the script output into a pre-extracted input.
func decodePayload(data []byte) (*Result, error) {
	var p pagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("browser: decode page styles: %w", err)
	}

	s := styles.NewExtractedStyles()
	for _, decl := range p.Elements {
		s.AddDeclarations(decl)
	}
	return &Result{
		Input:        snapshot.PreExtracted{HTML: p.HTML, Styles: s},
		ElementCount: len(p.Elements),
	}, nil
}

// Snapshot builds a snapshot from the capture, keeping the element count the
// browser walked.
func (r *Result) Snapshot(opts snapshot.Options) (*snapshot.Snapshot, error) {
	snap, err := snapshot.Capture(r.Input, opts)
	if err != nil {
		return nil, err
	}
	snap.ElementCount = r.ElementCount
	return snap, nil
}
