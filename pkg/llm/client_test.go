package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uilint/pkg/validator"
)

// fakeOllama is a minimal Ollama API for tests.
type fakeOllama struct {
	mu       sync.Mutex
	models   []string
	response string
	status   int
	prompts  []generateRequest
	pulled   []string
}

func (f *fakeOllama) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var tags tagsResponse
		for _, m := range f.models {
			tags.Models = append(tags.Models, struct {
				Name string `json:"name"`
			}{Name: m})
		}
		_ = json.NewEncoder(w).Encode(tags)
	})
	mux.HandleFunc("/api/pull", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.pulled = append(f.pulled, body.Name)
		f.models = append(f.models, body.Name)
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.prompts = append(f.prompts, req)
		if f.status != 0 {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(`{"error":"model exploded"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(generateResponse{Response: f.response, Done: true})
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeOllama) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", Model: "test-model", Timeout: 5 * time.Second}, nil)
}

func TestDefaultConfig(t *testing.T) {
	c := NewClient(Config{}, nil).Config()
	assert.Equal(t, "http://localhost:11434", c.BaseURL)
	assert.Equal(t, "qwen2.5-coder:7b", c.Model)
	assert.Equal(t, 60*time.Second, c.Timeout)
}

// --- readiness ---

func TestIsAvailable(t *testing.T) {
	c := newTestClient(t, &fakeOllama{})
	assert.True(t, c.IsAvailable(context.Background()))

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	down := NewClient(Config{BaseURL: srv.URL}, nil)
	assert.False(t, down.IsAvailable(context.Background()))

	_, err := down.Models(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestEnsureReady_ModelPresent(t *testing.T) {
	f := &fakeOllama{models: []string{"test-model:latest"}}
	c := newTestClient(t, f)
	require.NoError(t, c.EnsureReady(context.Background()))
	assert.Empty(t, f.pulled)
}

func TestEnsureReady_PullsMissingModel(t *testing.T) {
	f := &fakeOllama{models: []string{"other"}}
	c := newTestClient(t, f)
	require.NoError(t, c.EnsureReady(context.Background()))
	assert.Equal(t, []string{"test-model"}, f.pulled)

	models, err := c.Models(context.Background())
	require.NoError(t, err)
	assert.Contains(t, models, "test-model")
}

// --- generation ---

func TestGenerateStyleGuide(t *testing.T) {
	f := &fakeOllama{response: "```markdown\n# UI Style Guide\n\n## Colors\n- **Primary**: #3B82F6\n```"}
	c := newTestClient(t, f)

	doc, err := c.GenerateStyleGuide(context.Background(), "Colors: #3B82F6 (3x)")
	require.NoError(t, err)
	assert.Equal(t, "# UI Style Guide\n\n## Colors\n- **Primary**: #3B82F6", doc)

	require.Len(t, f.prompts, 1)
	assert.Equal(t, "test-model", f.prompts[0].Model)
	assert.False(t, f.prompts[0].Stream)
	assert.Empty(t, f.prompts[0].Format)
	assert.Contains(t, f.prompts[0].Prompt, "Colors: #3B82F6 (3x)")
}

func TestGenerateStyleGuide_RejectsUnstructuredOutput(t *testing.T) {
	c := newTestClient(t, &fakeOllama{response: "I cannot help with that."})
	_, err := c.GenerateStyleGuide(context.Background(), "x")
	assert.Error(t, err)
}

func TestAnalyzeStyles(t *testing.T) {
	f := &fakeOllama{response: `{"issues": [
		{"type": "color", "message": "Two near-identical blues", "currentValue": "#3B82F5", "expectedValue": "#3B82F6", "suggestion": "Merge them"},
		{"type": "unknown", "severity": "ERROR", "message": "Odd thing"},
		{"type": "spacing", "message": ""}
	]}`}
	c := newTestClient(t, f)

	a, err := c.AnalyzeStyles(context.Background(), "summary", "")
	require.NoError(t, err)
	require.Len(t, a.Issues, 2)
	assert.Equal(t, validator.Issue{
		Severity:   validator.SeverityWarning,
		Category:   validator.CategoryColor,
		Message:    "Two near-identical blues",
		Current:    "#3B82F5",
		Expected:   "#3B82F6",
		Suggestion: "Merge them",
	}, a.Issues[0])
	assert.Equal(t, validator.SeverityError, a.Issues[1].Severity)
	assert.Equal(t, validator.CategoryStyle, a.Issues[1].Category)

	require.Len(t, f.prompts, 1)
	assert.Equal(t, "json", f.prompts[0].Format)
	assert.Contains(t, f.prompts[0].Prompt, "no style guide yet")
}

func TestAnalyzeStyles_InvalidJSON(t *testing.T) {
	c := newTestClient(t, &fakeOllama{response: "not json"})
	_, err := c.AnalyzeStyles(context.Background(), "summary", "## Colors")
	assert.ErrorContains(t, err, "invalid issue records")
}

func TestValidateCode(t *testing.T) {
	f := &fakeOllama{response: `{"issues": [{"type": "color", "severity": "warning", "message": "Off-palette red"}]}`}
	c := newTestClient(t, f)

	r, err := c.ValidateCode(context.Background(), `<p style="color:#f00">x</p>`, "## Colors\n- **Primary**: #3B82F6")
	require.NoError(t, err)
	assert.True(t, r.Valid)
	require.Len(t, r.Issues, 1)
	assert.Contains(t, f.prompts[0].Prompt, `<p style="color:#f00">x</p>`)

	f.response = `{"issues": [{"type": "accessibility", "severity": "error", "message": "Missing alt"}]}`
	r, err = c.ValidateCode(context.Background(), `<img>`, "## Colors")
	require.NoError(t, err)
	assert.False(t, r.Valid)
}

func TestValidateCode_NoGuideSkipsModel(t *testing.T) {
	f := &fakeOllama{}
	c := newTestClient(t, f)

	r, err := c.ValidateCode(context.Background(), "x", "  ")
	require.NoError(t, err)
	assert.True(t, r.Valid)
	assert.Equal(t, "No style guide found", r.Issues[0].Message)
	assert.Empty(t, f.prompts)
}

func TestQueryStyleGuide(t *testing.T) {
	f := &fakeOllama{response: "  Use #3B82F6 for buttons.\n"}
	c := newTestClient(t, f)

	answer, err := c.QueryStyleGuide(context.Background(), "what color are buttons?", "## Colors")
	require.NoError(t, err)
	assert.Equal(t, "Use #3B82F6 for buttons.", answer)
	assert.True(t, strings.HasSuffix(f.prompts[0].Prompt, "Question: what color are buttons?"))
}

func TestGenerate_ServerError(t *testing.T) {
	c := newTestClient(t, &fakeOllama{status: http.StatusInternalServerError})
	_, err := c.QueryStyleGuide(context.Background(), "q", "doc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500: model exploded")
}

func TestGenerate_Canceled(t *testing.T) {
	c := newTestClient(t, &fakeOllama{response: "x"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.QueryStyleGuide(ctx, "q", "doc")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, "plain", stripFences("  plain \n"))
}
