package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uilint/pkg/llm"
	"github.com/gnana997/uilint/pkg/mcplog"
	"github.com/gnana997/uilint/pkg/styleguide"
)

// --- helpers ---

const testGuide = `# UI Style Guide

## Colors
- **Primary**: #3B82F6 (buttons)
- **Text**: #111827

## Typography
- **Body**: font-family: "Inter", font-size: 16px

## Spacing
- **Base unit**: 4px

## Components
- **Buttons**: rounded-lg, px-4 py-2
`

func testServer(t *testing.T, guide string, opts Options) *Server {
	t.Helper()
	dir := t.TempDir()
	if guide != "" {
		path := filepath.Join(dir, styleguide.DefaultPath)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(guide), 0o644))
	}

	store, err := styleguide.NewStore(styleguide.StoreConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	opts.ProjectDir = dir
	opts.Store = store
	return NewServer(opts)
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

	switch req.Params.Name {
	case "validate_code":
		handler = s.handleValidateCode
	case "lint_snippet":
		handler = s.handleLintSnippet
	case "query_styleguide":
		handler = s.handleQueryStyleGuide
	case "summarize_markup":
		handler = s.handleSummarizeMarkup
	case "get_styleguide_section":
		handler = s.handleGetStyleGuideSection
	default:
		t.Fatalf("unknown tool: %s", req.Params.Name)
	}

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// fakeLLM serves /api/tags and a fixed /api/generate answer.
func fakeLLM(t *testing.T, answer string) *llm.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"models":[{"name":"test-model"}]}`))
	})
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"response": answer, "done": true})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return llm.NewClient(llm.Config{BaseURL: srv.URL, Model: "test-model"}, nil)
}

func downLLM() *llm.Client {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	return llm.NewClient(llm.Config{BaseURL: srv.URL}, nil)
}

// --- registration ---

func TestNewServer_RegistersTools(t *testing.T) {
	s := testServer(t, testGuide, Options{})
	tools := s.mcpServer.ListTools()
	var names []string
	for name := range tools {
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{
		"validate_code", "lint_snippet", "query_styleguide", "summarize_markup", "get_styleguide_section",
	}, names)
}

// --- validate_code ---

func TestHandleValidateCode_Known(t *testing.T) {
	s := testServer(t, testGuide, Options{})
	result := callTool(t, s, makeRequest("validate_code", map[string]any{
		"code": `<button style={{ background: "#3B82F6", padding: "16px" }}>Go</button>`,
	}))
	assert.False(t, result.IsError)

	var vr map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &vr))
	assert.Equal(t, true, vr["valid"])
	assert.Empty(t, vr["issues"])
}

func TestHandleValidateCode_Issues(t *testing.T) {
	s := testServer(t, testGuide, Options{})
	result := callTool(t, s, makeRequest("validate_code", map[string]any{
		"code": `<p style="color: #111111; margin: 15px">x</p>`,
	}))

	var vr struct {
		Valid  bool `json:"valid"`
		Issues []struct {
			Category string `json:"category"`
			Expected string `json:"expected"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &vr))
	assert.True(t, vr.Valid)
	require.Len(t, vr.Issues, 2)
	assert.Equal(t, "color", vr.Issues[0].Category)
	assert.Equal(t, "spacing", vr.Issues[1].Category)
	assert.Equal(t, "16px", vr.Issues[1].Expected)
}

func TestHandleValidateCode_NoGuide(t *testing.T) {
	s := testServer(t, "", Options{})
	result := callTool(t, s, makeRequest("validate_code", map[string]any{"code": "#111111"}))
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "No style guide found")
}

func TestHandleValidateCode_LLMUnavailableFallsBack(t *testing.T) {
	s := testServer(t, testGuide, Options{LLM: downLLM()})
	result := callTool(t, s, makeRequest("validate_code", map[string]any{"code": "#111111", "use_llm": true}))
	assert.Contains(t, resultText(t, result), "Color #111111 is not in the style guide")
}

func TestHandleValidateCode_LLM(t *testing.T) {
	s := testServer(t, testGuide, Options{LLM: fakeLLM(t, `{"issues":[{"type":"color","message":"Use Primary"}]}`)})
	result := callTool(t, s, makeRequest("validate_code", map[string]any{"code": "#111111", "use_llm": true}))
	assert.Contains(t, resultText(t, result), "Use Primary")
}

func TestHandleValidateCode_MissingCode(t *testing.T) {
	s := testServer(t, testGuide, Options{})
	result := callTool(t, s, makeRequest("validate_code", nil))
	assert.True(t, result.IsError)
}

// --- lint_snippet ---

func TestHandleLintSnippet(t *testing.T) {
	s := testServer(t, "", Options{})
	result := callTool(t, s, makeRequest("lint_snippet", map[string]any{"code": `<img src="a.png">`}))
	assert.False(t, result.IsError)

	var lr struct {
		Issues []map[string]any `json:"issues"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &lr))
	require.Len(t, lr.Issues, 1)
	assert.Equal(t, "accessibility", lr.Issues[0]["category"])
}

func TestHandleLintSnippet_Clean(t *testing.T) {
	s := testServer(t, "", Options{})
	result := callTool(t, s, makeRequest("lint_snippet", map[string]any{"code": `<p>ok</p>`}))
	assert.JSONEq(t, `{"issues":[]}`, resultText(t, result))
}

// --- query_styleguide ---

func TestHandleQueryStyleGuide_Keyword(t *testing.T) {
	s := testServer(t, testGuide, Options{})
	result := callTool(t, s, makeRequest("query_styleguide", map[string]any{"query": "What colors can I use?"}))
	text := resultText(t, result)
	assert.Contains(t, text, "Primary: #3B82F6 (buttons)")
	assert.Contains(t, text, "Text: #111827")
}

func TestHandleQueryStyleGuide_NoGuide(t *testing.T) {
	s := testServer(t, "", Options{})
	result := callTool(t, s, makeRequest("query_styleguide", map[string]any{"query": "colors"}))
	assert.Equal(t, styleguide.MissingGuideMessage, resultText(t, result))
}

func TestHandleQueryStyleGuide_LLM(t *testing.T) {
	s := testServer(t, testGuide, Options{LLM: fakeLLM(t, "Modals use the Primary color for actions.")})
	result := callTool(t, s, makeRequest("query_styleguide", map[string]any{"query": "how do modals look?"}))
	assert.Equal(t, "Modals use the Primary color for actions.", resultText(t, result))
}

func TestHandleQueryStyleGuide_Fallback(t *testing.T) {
	for name, client := range map[string]*llm.Client{"no llm": nil, "llm down": downLLM()} {
		t.Run(name, func(t *testing.T) {
			s := testServer(t, testGuide, Options{LLM: client})
			result := callTool(t, s, makeRequest("query_styleguide", map[string]any{"query": "how do modals look?"}))
			text := resultText(t, result)
			assert.True(t, strings.HasPrefix(text, "Style Guide Summary:"))
			assert.Contains(t, text, "- Colors: #3B82F6, #111827")
		})
	}
}

// --- summarize_markup ---

func TestHandleSummarizeMarkup(t *testing.T) {
	s := testServer(t, "", Options{})
	html := `<div style="background-color: #FF0000"></div><div style="background-color: #FF0000"></div><div style="background-color: #00FF00"></div>`
	result := callTool(t, s, makeRequest("summarize_markup", map[string]any{"html": html}))
	assert.False(t, result.IsError)

	var sr struct {
		ElementCount int    `json:"elementCount"`
		Summary      string `json:"summary"`
		Styles       struct {
			Colors map[string]int `json:"colors"`
		} `json:"styles"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &sr))
	assert.Equal(t, map[string]int{"#FF0000": 2, "#00FF00": 1}, sr.Styles.Colors)
	assert.Less(t, strings.Index(sr.Summary, "#FF0000"), strings.Index(sr.Summary, "#00FF00"))
}

// --- get_styleguide_section ---

func TestHandleGetStyleGuideSection(t *testing.T) {
	s := testServer(t, testGuide, Options{})
	result := callTool(t, s, makeRequest("get_styleguide_section", map[string]any{"section": "spacing"}))
	assert.False(t, result.IsError)

	var sec styleguide.Section
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &sec))
	assert.Equal(t, "Spacing", sec.Title)
	assert.Contains(t, sec.Content, "Base unit")
}

func TestHandleGetStyleGuideSection_NotFound(t *testing.T) {
	s := testServer(t, testGuide, Options{})
	result := callTool(t, s, makeRequest("get_styleguide_section", map[string]any{"section": "motion"}))
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "available: Colors, Typography, Spacing, Components")
}

func TestHandleGetStyleGuideSection_NoGuide(t *testing.T) {
	s := testServer(t, "", Options{})
	result := callTool(t, s, makeRequest("get_styleguide_section", map[string]any{"section": "Colors"}))
	assert.True(t, result.IsError)
}

// --- middleware ---

func TestLoggingMiddleware(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	callLog, err := mcplog.NewLogger(path)
	require.NoError(t, err)

	s := testServer(t, testGuide, Options{CallLog: callLog})
	handler := s.loggingMiddleware()(s.handleLintSnippet)
	_, err = handler(context.Background(), makeRequest("lint_snippet", map[string]any{"code": strings.Repeat("x", 100)}))
	require.NoError(t, err)
	require.NoError(t, callLog.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry mcplog.Entry
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "lint_snippet", entry.Tool)
	assert.EqualValues(t, 100, entry.Params["code_len"])
	assert.Positive(t, entry.ResponseBytes)
}
