package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/uilint/pkg/snapshot"
	"github.com/gnana997/uilint/pkg/styleguide"
	"github.com/gnana997/uilint/pkg/styles"
	"github.com/gnana997/uilint/pkg/validator"
)

// jsonResult marshals v as the text content of a tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleValidateCode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.guide()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if doc == nil {
		return jsonResult(validator.Validate(code, nil))
	}

	if req.GetBool("use_llm", false) && s.llm != nil && s.llm.IsAvailable(ctx) {
		result, err := s.llm.ValidateCode(ctx, code, doc.Content)
		if err == nil {
			return jsonResult(result)
		}
		s.logger.Warn("llm validation failed, using rules", "error", err)
	}

	return jsonResult(validator.Validate(code, validator.NewGuide(doc.Content)))
}

func (s *Server) handleLintSnippet(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"issues": validator.LintSnippet(code)})
}

func (s *Server) handleQueryStyleGuide(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.guide()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if doc == nil {
		return mcp.NewToolResultText(styleguide.MissingGuideMessage), nil
	}

	if answer, ok := styleguide.Answer(query, doc.Content); ok {
		return mcp.NewToolResultText(answer), nil
	}

	if s.llm != nil && s.llm.IsAvailable(ctx) {
		answer, err := s.llm.QueryStyleGuide(ctx, query, doc.Content)
		if err == nil && answer != "" {
			return mcp.NewToolResultText(answer), nil
		}
		s.logger.Warn("llm query failed, using summary", "error", err)
	}
	return mcp.NewToolResultText(styleguide.Fallback(doc.Content)), nil
}

type markupSummary struct {
	ElementCount int                     `json:"elementCount"`
	Summary      string                  `json:"summary"`
	Styles       *styles.ExtractedStyles `json:"styles"`
}

func (s *Server) handleSummarizeMarkup(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	html, err := req.RequireString("html")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap, err := snapshot.Capture(snapshot.RawMarkup{HTML: html}, snapshot.Options{
		MaxHTMLLength: s.opts.MaxHTMLLength,
		Logger:        s.logger,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(markupSummary{
		ElementCount: snap.ElementCount,
		Summary:      snap.Summary(),
		Styles:       snap.Styles,
	})
}

func (s *Server) handleGetStyleGuideSection(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("section")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.guide()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if doc == nil {
		return mcp.NewToolResultError(styleguide.MissingGuideMessage), nil
	}

	section, ok := styleguide.FindSection(doc.Content, title)
	if !ok {
		var titles []string
		for _, sec := range styleguide.ParseSections(doc.Content) {
			if sec.Title != styleguide.IntroTitle {
				titles = append(titles, sec.Title)
			}
		}
		return mcp.NewToolResultError(fmt.Sprintf("no section matching %q; available: %s", title, strings.Join(titles, ", "))), nil
	}
	return jsonResult(section)
}
