// Package llm talks to a local Ollama server for style analysis that the
// rule-based packages cannot do: generating guides, reviewing extracted
// styles, validating code and answering free-form questions.
//
// Every failure is returned to the caller, which is expected to fall back
// to the deterministic path. Nothing is retried.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Config addresses one Ollama server and model.
type Config struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Model   string        `mapstructure:"model" yaml:"model"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// DefaultConfig returns the local Ollama defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:11434",
		Model:   "qwen2.5-coder:7b",
		Timeout: 60 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BaseURL != "" {
		d.BaseURL = strings.TrimRight(c.BaseURL, "/")
	}
	if c.Model != "" {
		d.Model = c.Model
	}
	if c.Timeout > 0 {
		d.Timeout = c.Timeout
	}
	return d
}

// ErrUnavailable is returned when the server cannot be reached.
var ErrUnavailable = errors.New("ollama server unavailable")

// Client is an Ollama API client. Safe for concurrent use.
type Client struct {
	config Config
	http   *http.Client
	pull   *http.Client
	logger *slog.Logger
}

// NewClient creates a Client. Zero fields of config take DefaultConfig values.
func NewClient(config Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	config = config.withDefaults()
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		// Pulling a model can take minutes; it is bounded by ctx only.
		pull:   &http.Client{},
		logger: logger,
	}
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.config
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// IsAvailable reports whether the server answers GET /api/tags.
func (c *Client) IsAvailable(ctx context.Context) bool {
	_, err := c.Models(ctx)
	return err == nil
}

// Models lists the models the server has pulled.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var tags tagsResponse
	if err := c.do(c.http, req, &tags); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// EnsureReady checks the server is reachable and pulls the configured model
// if it is not present yet.
func (c *Client) EnsureReady(ctx context.Context) error {
	models, err := c.Models(ctx)
	if err != nil {
		return err
	}
	for _, m := range models {
		if m == c.config.Model || m == c.config.Model+":latest" {
			return nil
		}
	}

	c.logger.Info("pulling model", "model", c.config.Model)
	body, err := json.Marshal(map[string]any{"name": c.config.Model, "stream": false})
	if err != nil {
		return fmt.Errorf("failed to encode pull request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/pull", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var status struct {
		Status string `json:"status"`
	}
	if err := c.do(c.pull, req, &status); err != nil {
		return fmt.Errorf("failed to pull model %s: %w", c.config.Model, err)
	}
	if status.Status != "success" {
		return fmt.Errorf("failed to pull model %s: status %q", c.config.Model, status.Status)
	}
	return nil
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// generate runs one non-streaming completion. With jsonMode the model is
// constrained to emit a JSON document.
func (c *Client) generate(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	gr := generateRequest{Model: c.config.Model, Prompt: prompt}
	if jsonMode {
		gr.Format = "json"
	}
	body, err := json.Marshal(gr)
	if err != nil {
		return "", fmt.Errorf("failed to encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	var out generateResponse
	if err := c.do(c.http, req, &out); err != nil {
		return "", err
	}
	c.logger.Debug("generate completed",
		"model", c.config.Model,
		"json", jsonMode,
		"duration", time.Since(start),
		"response_bytes", len(out.Response))
	return out.Response, nil
}

// do sends req and decodes a JSON response body into out.
func (c *Client) do(hc *http.Client, req *http.Request, out any) error {
	resp, err := hc.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return fmt.Errorf("request canceled: %w", ctxErr)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("%s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
