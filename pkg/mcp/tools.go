package mcp

import "github.com/mark3labs/mcp-go/mcp"

func validateCodeTool() mcp.Tool {
	return mcp.NewTool("validate_code",
		mcp.WithDescription("Validate UI code (JSX, HTML or CSS) against the project style guide. Reports colors missing from the guide, spacing off the 4px grid and heavy inline style use."),
		mcp.WithString("code", mcp.Required(), mcp.Description("Source code to validate")),
		mcp.WithBoolean("use_llm", mcp.Description("Ask the configured Ollama model for a deeper review; falls back to the rule-based check when unavailable")),
	)
}

func lintSnippetTool() mcp.Tool {
	return mcp.NewTool("lint_snippet",
		mcp.WithDescription("Lint a code snippet for common UI problems: magic numbers, hardcoded colors, images without alt text, unlabeled buttons and mixed class quote styles."),
		mcp.WithString("code", mcp.Required(), mcp.Description("Source code to lint")),
	)
}

func queryStyleGuideTool() mcp.Tool {
	return mcp.NewTool("query_styleguide",
		mcp.WithDescription("Ask a question about the project style guide, e.g. \"what colors are available?\" or \"what spacing should cards use?\"."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Question about the style guide")),
	)
}

func summarizeMarkupTool() mcp.Tool {
	return mcp.NewTool("summarize_markup",
		mcp.WithDescription("Extract the colors, typography, spacing and border radii used by an HTML document and return them with occurrence counts, most used first."),
		mcp.WithString("html", mcp.Required(), mcp.Description("HTML markup, optionally with <style> blocks and inline styles")),
	)
}

func getStyleGuideSectionTool() mcp.Tool {
	return mcp.NewTool("get_styleguide_section",
		mcp.WithDescription("Return one section of the project style guide by title, e.g. \"Colors\" or \"Typography\"."),
		mcp.WithString("section", mcp.Required(), mcp.Description("Section title or part of it, case-insensitive")),
	)
}
