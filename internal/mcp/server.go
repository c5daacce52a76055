// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/diffdochq/diffdoc/application/service"
	"github.com/diffdochq/diffdoc/domain/narrative"
	"github.com/diffdochq/diffdoc/domain/source"
	"github.com/diffdochq/diffdoc/domain/story"
	"github.com/diffdochq/diffdoc/infrastructure/detect"
)

// Explainer processes one submission into a narrative document.
type Explainer interface {
	Explain(ctx context.Context, req service.Request) (*narrative.Document, error)
}

// Server wraps the MCP server with diffdoc-specific tools.
type Server struct {
	mcpServer *server.MCPServer
	explainer Explainer
	version   string
	logger    *slog.Logger
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(explainer Explainer, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		explainer: explainer,
		version:   version,
		logger:    logger,
	}

	mcpServer := server.NewMCPServer(
		"diffdoc",
		version,
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

// registerTools registers all diffdoc tools with the MCP server.
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	explainTool := mcp.NewTool("explain_change",
		mcp.WithDescription("Analyze a code change against a user story and return an ordered markdown document explaining the change"),
		mcp.WithString("story_name",
			mcp.Required(),
			mcp.Description("Short name of the user story the change implements"),
		),
		mcp.WithString("modified_code",
			mcp.Required(),
			mcp.Description("The full modified code to analyze"),
		),
		mcp.WithString("story_description",
			mcp.Description("Longer description of the user story"),
		),
		mcp.WithString("original_code",
			mcp.Description("The original code before the change, used to extract relevant context"),
		),
		mcp.WithString("original_name",
			mcp.Description("Filename of the original code"),
		),
		mcp.WithString("modified_name",
			mcp.Description("Filename of the modified code, used for language detection"),
		),
		mcp.WithString("instructions",
			mcp.Description("Additional instructions for the analysis"),
		),
	)

	mcpServer.AddTool(explainTool, s.handleExplainChange)

	versionTool := mcp.NewTool("get_version",
		mcp.WithDescription("Get the diffdoc server version"),
	)

	mcpServer.AddTool(versionTool, s.handleGetVersion)
}

// handleExplainChange handles the explain_change tool invocation.
func (s *Server) handleExplainChange(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	storyName, err := request.RequireString("story_name")
	if err != nil {
		return mcp.NewToolResultError("story_name is required"), nil
	}

	modifiedCode, err := request.RequireString("modified_code")
	if err != nil {
		return mcp.NewToolResultError("modified_code is required"), nil
	}

	modified := detect.Label(source.NewDocument(request.GetString("modified_name", ""), modifiedCode))
	original := source.NewDocument(request.GetString("original_name", ""), request.GetString("original_code", ""))

	doc, err := s.explainer.Explain(ctx, service.Request{
		Original:     original,
		Modified:     modified,
		Story:        story.New(storyName, request.GetString("story_description", "")),
		Instructions: request.GetString("instructions", ""),
	})
	if err != nil {
		s.logger.Error("explain failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("explain failed: %v", err)), nil
	}

	return mcp.NewToolResultText(doc.Markdown()), nil
}

// handleGetVersion handles the get_version tool invocation.
func (s *Server) handleGetVersion(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.version), nil
}

// MCPServer returns the underlying MCP server for stdio serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
