// Package mcp exposes uilint's checks as Model Context Protocol tools so
// coding agents can validate and query styles while they write UI code.
package mcp

import (
	"errors"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/uilint/pkg/llm"
	"github.com/gnana997/uilint/pkg/mcplog"
	"github.com/gnana997/uilint/pkg/styleguide"
)

const serverVersion = "0.1.0"

// Options configures a Server.
type Options struct {
	// ProjectDir is searched for a guide with styleguide.Find when
	// GuidePath is empty.
	ProjectDir string

	// GuidePath pins the guide document.
	GuidePath string

	// Store loads guides. Required.
	Store *styleguide.Store

	// LLM answers queries keyword lookup cannot. Optional.
	LLM *llm.Client

	// CallLog records every tool call. Optional.
	CallLog *mcplog.Logger

	// MaxHTMLLength bounds markup kept by summarize_markup.
	MaxHTMLLength int

	Logger *slog.Logger
}

// Server is the uilint MCP server.
type Server struct {
	mcpServer *server.MCPServer
	opts      Options
	store     *styleguide.Store
	llm       *llm.Client
	callLog   *mcplog.Logger
	logger    *slog.Logger
}

// NewServer creates a Server with all tools registered.
func NewServer(opts Options) *Server {
	s := &Server{
		opts:    opts,
		store:   opts.Store,
		llm:     opts.LLM,
		callLog: opts.CallLog,
		logger:  opts.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	serverOpts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if s.callLog != nil {
		serverOpts = append(serverOpts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer("uilint", serverVersion, serverOpts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: validateCodeTool(), Handler: s.handleValidateCode},
		server.ServerTool{Tool: lintSnippetTool(), Handler: s.handleLintSnippet},
		server.ServerTool{Tool: queryStyleGuideTool(), Handler: s.handleQueryStyleGuide},
		server.ServerTool{Tool: summarizeMarkupTool(), Handler: s.handleSummarizeMarkup},
		server.ServerTool{Tool: getStyleGuideSectionTool(), Handler: s.handleGetStyleGuideSection},
	)

	return s
}

// ServeStdio serves on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// guide loads the current guide document. A missing guide is (nil, nil).
func (s *Server) guide() (*styleguide.Document, error) {
	var (
		doc *styleguide.Document
		err error
	)
	if s.opts.GuidePath != "" {
		doc, err = s.store.Load(s.opts.GuidePath)
	} else {
		doc, err = s.store.LoadProject(s.opts.ProjectDir)
	}
	if errors.Is(err, styleguide.ErrNotFound) {
		return nil, nil
	}
	return doc, err
}
