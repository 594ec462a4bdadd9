// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the screenshot gallery for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kennithz884/snapmind/internal/gallery"
	"github.com/kennithz884/snapmind/internal/oracle"
)

// Server wraps the MCP server with SnapMind tools.
type Server struct {
	mcp *server.MCPServer
	svc *gallery.Service
}

// New creates a new MCP server with all SnapMind tools registered.
func New(svc *gallery.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"SnapMind",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_screenshots",
		mcp.WithDescription("List all catalogued screenshots with their summaries, newest first."),
	), s.listScreenshots)

	s.mcp.AddTool(mcp.NewTool("get_screenshot",
		mcp.WithDescription("Read the full record of one screenshot: summary, OCR text, category, and extracted insights."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Screenshot id")),
	), s.getScreenshot)

	s.mcp.AddTool(mcp.NewTool("search_screenshots",
		mcp.WithDescription("Find the single screenshot that best matches a natural-language query."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Natural-language search query")),
	), s.searchScreenshots)

	s.mcp.AddTool(mcp.NewTool("ask_screenshot",
		mcp.WithDescription("Ask a question about one screenshot. The answer is grounded in the screenshot's summary and OCR text."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Screenshot id")),
		mcp.WithString("question", mcp.Required(), mcp.Description("Question about the screenshot")),
	), s.askScreenshot)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listScreenshots(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recs, err := s.svc.All(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(recs, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getScreenshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.svc.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchScreenshots(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := s.svc.Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if id == oracle.NoMatch {
		return mcp.NewToolResultText("no match"), nil
	}
	rec, err := s.svc.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) askScreenshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	question, err := req.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	transcript, err := s.svc.Ask(ctx, id, question)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	// The last transcript entry is the assistant's answer. The transcript
	// comes back empty when another tool call switched the selection while
	// this one was waiting on the oracle; the reply was dropped as stale.
	if len(transcript) == 0 {
		return mcp.NewToolResultText(gallery.FallbackAssistantMessage), nil
	}
	answer := transcript[len(transcript)-1].Content
	return mcp.NewToolResultText(answer), nil
}
