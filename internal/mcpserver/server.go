// Package mcpserver exposes the knowledge base over the Model Context
// Protocol: four tools that query or mutate articles and two read-only
// resources that render the current store state as JSON.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/knowledge-base-server/internal/service"
	"github.com/knowledge-base-server/internal/validation"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

const (
	ServerName    = "mcp-knowledge-base-server"
	ServerVersion = "1.0.0"
)

// New creates the MCP server with every tool and resource registered
func New(services *service.Services, validator *validation.Validator, log zerolog.Logger) *server.MCPServer {
	log = log.With().Str("component", "mcp").Logger()

	s := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
	)

	tools := []tool{
		NewSearchTool(services.Article, validator, log),
		NewCreateTool(services.Article, validator, log),
		NewUpdateTool(services.Article, validator, log),
		NewListTool(services.Article, validator, log),
	}
	for _, t := range tools {
		s.AddTool(t.Definition(), t.Handle)
	}

	catalog := NewCatalogResource(services.Article, log)
	s.AddResource(catalog.Definition(), catalog.Handle)

	detail := NewArticleResource(services.Article, log)
	s.AddResourceTemplate(detail.Definition(), detail.Handle)

	log.Debug().Int("tools", len(tools)).Msg("MCP server configured")
	return s
}

// tool is a registrable MCP tool
type tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// bindArguments decodes the loosely typed tool arguments into dst
func bindArguments(request mcp.CallToolRequest, dst interface{}) error {
	raw, err := json.Marshal(request.GetArguments())
	if err != nil {
		return fmt.Errorf("failed to encode arguments: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("malformed arguments: %w", err)
	}
	return nil
}

// invalidArguments reports a boundary rejection as an error-flagged result
func invalidArguments(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError("Invalid arguments: " + validation.Describe(err))
}
