package mcpserver

import (
	"context"

	"github.com/knowledge-base-server/internal/models"
	"github.com/knowledge-base-server/internal/service"
	"github.com/knowledge-base-server/internal/validation"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
)

// Tool names
const (
	ToolSearchArticles = "search-articles"
	ToolCreateArticle  = "create-article"
	ToolUpdateArticle  = "update-article"
	ToolListArticles   = "list-articles"
)

var (
	filterStatusValues = []string{"published", "draft", "archived", "all"}
	createStatusValues = []string{"draft", "published"}
	storedStatusValues = []string{"draft", "published", "archived"}
)

func tagItems() map[string]any {
	return map[string]any{"type": "string", "maxLength": validation.MaxTagLength}
}

// SearchTool handles search-articles
type SearchTool struct {
	articles  service.ArticleService
	validator *validation.Validator
	log       zerolog.Logger
}

// NewSearchTool creates a SearchTool
func NewSearchTool(articles service.ArticleService, validator *validation.Validator, log zerolog.Logger) *SearchTool {
	return &SearchTool{articles: articles, validator: validator, log: log.With().Str("tool", ToolSearchArticles).Logger()}
}

// Definition returns the tool schema
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool(ToolSearchArticles,
		mcp.WithDescription("Search the knowledge base by keyword. Matches titles, content and tags. Use when the user asks a question the knowledge base may answer."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.MinLength(validation.MinQueryLength),
			mcp.MaxLength(validation.MaxQueryLength),
			mcp.Description("Search keywords"),
		),
		mcp.WithString("status",
			mcp.Enum(filterStatusValues...),
			mcp.DefaultString(string(models.StatusPublished)),
			mcp.Description("Filter by status"),
		),
		mcp.WithNumber("limit",
			mcp.Min(1),
			mcp.Max(validation.MaxSearchLimit),
			mcp.DefaultNumber(validation.DefaultSearchLimit),
			mcp.Description("Max results"),
		),
		mcp.WithArray("tags",
			mcp.Items(tagItems()),
			mcp.Description("Only return articles carrying at least one of these tags"),
		),
	)
}

// Handle runs the search
func (t *SearchTool) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var req models.SearchArticlesRequest
	if err := bindArguments(request, &req); err != nil {
		return invalidArguments(err), nil
	}
	opts, err := t.validator.Search(&req)
	if err != nil {
		t.log.Debug().Err(err).Msg("Rejected search arguments")
		return invalidArguments(err), nil
	}

	results := t.articles.Search(ctx, opts)
	return mcp.NewToolResultText(formatSearchResults(opts.Query, results)), nil
}

// CreateTool handles create-article
type CreateTool struct {
	articles  service.ArticleService
	validator *validation.Validator
	log       zerolog.Logger
}

// NewCreateTool creates a CreateTool
func NewCreateTool(articles service.ArticleService, validator *validation.Validator, log zerolog.Logger) *CreateTool {
	return &CreateTool{articles: articles, validator: validator, log: log.With().Str("tool", ToolCreateArticle).Logger()}
}

// Definition returns the tool schema
func (t *CreateTool) Definition() mcp.Tool {
	return mcp.NewTool(ToolCreateArticle,
		mcp.WithDescription("Create a new knowledge base article. New articles are drafts unless published explicitly."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.MinLength(validation.MinTitleLength),
			mcp.MaxLength(validation.MaxTitleLength),
			mcp.Description("Article title"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.MinLength(validation.MinContentLength),
			mcp.Description("Article body"),
		),
		mcp.WithString("summary",
			mcp.MaxLength(validation.MaxSummaryLength),
			mcp.Description("Short summary shown in search results"),
		),
		mcp.WithArray("tags",
			mcp.Required(),
			mcp.Items(tagItems()),
			mcp.MinItems(validation.MinTags),
			mcp.MaxItems(validation.MaxTags),
			mcp.Description("Tags for categorization"),
		),
		mcp.WithString("author",
			mcp.DefaultString(models.DefaultAuthor),
			mcp.Description("Author name"),
		),
		mcp.WithString("status",
			mcp.Enum(createStatusValues...),
			mcp.DefaultString(string(models.StatusDraft)),
			mcp.Description("Initial status"),
		),
	)
}

// Handle creates the article
func (t *CreateTool) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var req models.CreateArticleRequest
	if err := bindArguments(request, &req); err != nil {
		return invalidArguments(err), nil
	}
	fields, err := t.validator.Create(&req)
	if err != nil {
		t.log.Debug().Err(err).Msg("Rejected create arguments")
		return invalidArguments(err), nil
	}

	article, err := t.articles.Create(ctx, fields)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(formatCreated(article)), nil
}

// UpdateTool handles update-article
type UpdateTool struct {
	articles  service.ArticleService
	validator *validation.Validator
	log       zerolog.Logger
}

// NewUpdateTool creates an UpdateTool
func NewUpdateTool(articles service.ArticleService, validator *validation.Validator, log zerolog.Logger) *UpdateTool {
	return &UpdateTool{articles: articles, validator: validator, log: log.With().Str("tool", ToolUpdateArticle).Logger()}
}

// Definition returns the tool schema
func (t *UpdateTool) Definition() mcp.Tool {
	return mcp.NewTool(ToolUpdateArticle,
		mcp.WithDescription("Update an existing article. Only the fields provided are changed; tags are replaced as a whole."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Article ID, e.g. art-0001"),
		),
		mcp.WithString("title",
			mcp.MinLength(validation.MinTitleLength),
			mcp.MaxLength(validation.MaxTitleLength),
		),
		mcp.WithString("content",
			mcp.MinLength(validation.MinContentLength),
		),
		mcp.WithString("summary",
			mcp.MaxLength(validation.MaxSummaryLength),
		),
		mcp.WithArray("tags",
			mcp.Items(tagItems()),
			mcp.MinItems(validation.MinTags),
			mcp.MaxItems(validation.MaxTags),
		),
		mcp.WithString("status",
			mcp.Enum(storedStatusValues...),
		),
	)
}

// Handle applies the update
func (t *UpdateTool) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var req models.UpdateArticleRequest
	if err := bindArguments(request, &req); err != nil {
		return invalidArguments(err), nil
	}
	id, update, err := t.validator.Update(&req)
	if err != nil {
		t.log.Debug().Err(err).Msg("Rejected update arguments")
		return invalidArguments(err), nil
	}

	article, ok := t.articles.Update(ctx, id, update)
	if !ok {
		return mcp.NewToolResultError(toolNotFoundText(id)), nil
	}
	return mcp.NewToolResultText(formatUpdated(article)), nil
}

// ListTool handles list-articles
type ListTool struct {
	articles  service.ArticleService
	validator *validation.Validator
	log       zerolog.Logger
}

// NewListTool creates a ListTool
func NewListTool(articles service.ArticleService, validator *validation.Validator, log zerolog.Logger) *ListTool {
	return &ListTool{articles: articles, validator: validator, log: log.With().Str("tool", ToolListArticles).Logger()}
}

// Definition returns the tool schema
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool(ToolListArticles,
		mcp.WithDescription("List articles in the knowledge base. Use when the user wants to see what's available or browse by status."),
		mcp.WithString("status",
			mcp.Enum(filterStatusValues...),
			mcp.DefaultString(string(models.StatusPublished)),
			mcp.Description("Filter by status"),
		),
		mcp.WithNumber("limit",
			mcp.Min(1),
			mcp.Max(validation.MaxListLimit),
			mcp.DefaultNumber(validation.DefaultListLimit),
			mcp.Description("Max results"),
		),
	)
}

// Handle lists articles
func (t *ListTool) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var req models.ListArticlesRequest
	if err := bindArguments(request, &req); err != nil {
		return invalidArguments(err), nil
	}
	opts, err := t.validator.List(&req)
	if err != nil {
		t.log.Debug().Err(err).Msg("Rejected list arguments")
		return invalidArguments(err), nil
	}

	return mcp.NewToolResultText(formatList(t.articles.List(ctx, opts))), nil
}
