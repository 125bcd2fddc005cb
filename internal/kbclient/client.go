// Package kbclient talks to a knowledge base MCP server as a client. Reads
// go through resources, writes through tools.
package kbclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/knowledge-base-server/internal/mcpserver"
	"github.com/knowledge-base-server/internal/models"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned when the server has no article with the id
	ErrNotFound = errors.New("article not found")
	// ErrToolFailed is returned when a tool call comes back error-flagged
	ErrToolFailed = errors.New("tool call failed")
	// ErrMissingID is returned when a create confirmation carries no id
	ErrMissingID = errors.New("create succeeded but could not get article ID")
)

const (
	clientName    = "knowledge-base-app"
	clientVersion = "1.0.0"
)

// MCPClient is the subset of an MCP client used here
type MCPClient interface {
	CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
	ReadResource(ctx context.Context, request mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)
	Close() error
}

// Client is an article gateway backed by an MCP client
type Client struct {
	mcp MCPClient
	log zerolog.Logger
}

// New wraps an already initialized MCP client
func New(c MCPClient, log zerolog.Logger) *Client {
	return &Client{
		mcp: c,
		log: log.With().Str("component", "kbclient").Logger(),
	}
}

// NewInProcess connects to s without a transport and performs the
// initialize handshake
func NewInProcess(ctx context.Context, s *server.MCPServer, log zerolog.Logger) (*Client, error) {
	c, err := client.NewInProcessClient(s)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-process client: %w", err)
	}
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start client: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: clientName, Version: clientVersion}
	result, err := c.Initialize(ctx, initReq)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	log.Info().
		Str("server", result.ServerInfo.Name).
		Str("server_version", result.ServerInfo.Version).
		Msg("Connected to knowledge base server")

	return New(c, log), nil
}

// Close releases the underlying MCP client
func (c *Client) Close() error {
	return c.mcp.Close()
}

// Catalog reads the catalog resource
func (c *Client) Catalog(ctx context.Context) (*models.Catalog, error) {
	contents, err := c.readResource(ctx, mcpserver.CatalogURI)
	if err != nil {
		return nil, err
	}
	if contents.Text == "" {
		return nil, errors.New("empty catalog")
	}

	var catalog models.Catalog
	if err := json.Unmarshal([]byte(contents.Text), &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return &catalog, nil
}

// GetArticle reads the article resource. A text/plain body means the
// article does not exist.
func (c *Client) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	contents, err := c.readResource(ctx, mcpserver.ArticleURI(id))
	if err != nil {
		return nil, err
	}
	if contents.Text == "" || contents.MIMEType == mcpserver.MIMETypeText {
		return nil, ErrNotFound
	}

	var article models.Article
	if err := json.Unmarshal([]byte(contents.Text), &article); err != nil {
		return nil, fmt.Errorf("failed to decode article %s: %w", id, err)
	}
	return &article, nil
}

// CreateArticle calls create-article and reads the new article back
func (c *Client) CreateArticle(ctx context.Context, fields *models.ArticleFields) (*models.Article, error) {
	args := map[string]any{
		"title":   fields.Title,
		"content": fields.Content,
		"tags":    fields.Tags,
	}
	if fields.Summary != nil {
		args["summary"] = *fields.Summary
	}
	if fields.Author != "" {
		args["author"] = fields.Author
	}
	if fields.Status != "" {
		args["status"] = string(fields.Status)
	}

	text, isError, err := c.callTool(ctx, mcpserver.ToolCreateArticle, args)
	if err != nil {
		return nil, err
	}
	if isError {
		return nil, fmt.Errorf("%w: %s", ErrToolFailed, text)
	}

	id, ok := ExtractCreatedID(text)
	if !ok {
		c.log.Error().Str("response", text).Msg("Create confirmation without ID")
		return nil, ErrMissingID
	}
	return c.GetArticle(ctx, id)
}

// UpdateArticle calls update-article and reads the article back
func (c *Client) UpdateArticle(ctx context.Context, id string, update *models.ArticleUpdate) (*models.Article, error) {
	args := map[string]any{"id": id}
	if update.Title != nil {
		args["title"] = *update.Title
	}
	if update.Content != nil {
		args["content"] = *update.Content
	}
	if update.Summary != nil {
		args["summary"] = *update.Summary
	}
	if update.Tags != nil {
		args["tags"] = *update.Tags
	}
	if update.Status != nil {
		args["status"] = string(*update.Status)
	}

	text, isError, err := c.callTool(ctx, mcpserver.ToolUpdateArticle, args)
	if err != nil {
		return nil, err
	}

	article, err := c.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if isError {
		return nil, fmt.Errorf("%w: %s", ErrToolFailed, text)
	}
	return article, nil
}

func (c *Client) callTool(ctx context.Context, name string, args map[string]any) (string, bool, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := c.mcp.CallTool(ctx, req)
	if err != nil {
		return "", false, fmt.Errorf("call %s: %w", name, err)
	}

	c.log.Debug().Str("tool", name).Bool("is_error", result.IsError).Msg("Tool called")
	return firstText(result.Content), result.IsError, nil
}

func (c *Client) readResource(ctx context.Context, uri string) (mcp.TextResourceContents, error) {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri

	result, err := c.mcp.ReadResource(ctx, req)
	if err != nil {
		return mcp.TextResourceContents{}, fmt.Errorf("read %s: %w", uri, err)
	}
	if len(result.Contents) == 0 {
		return mcp.TextResourceContents{}, nil
	}

	switch contents := result.Contents[0].(type) {
	case mcp.TextResourceContents:
		return contents, nil
	case *mcp.TextResourceContents:
		return *contents, nil
	default:
		return mcp.TextResourceContents{}, fmt.Errorf("read %s: unexpected %T contents", uri, contents)
	}
}

func firstText(content []mcp.Content) string {
	if len(content) == 0 {
		return ""
	}
	switch c := content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	return ""
}
