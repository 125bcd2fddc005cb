package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/knowledge-base-server/internal/models"
	"github.com/knowledge-base-server/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
)

// Resource addressing
const (
	CatalogURI         = "kb://catalog"
	ArticleURITemplate = "kb://article/{id}"
	ArticleURIPrefix   = "kb://article/"

	// CatalogLimit caps the number of articles rendered into the catalog
	CatalogLimit = 100

	MIMETypeJSON = "application/json"
	MIMETypeText = "text/plain"
)

// ArticleURI returns the resource address of a single article
func ArticleURI(id string) string {
	return ArticleURIPrefix + id
}

// CatalogResource serves kb://catalog
type CatalogResource struct {
	articles service.ArticleService
	log      zerolog.Logger
}

// NewCatalogResource creates a CatalogResource
func NewCatalogResource(articles service.ArticleService, log zerolog.Logger) *CatalogResource {
	return &CatalogResource{articles: articles, log: log.With().Str("resource", "catalog").Logger()}
}

// Definition returns the resource descriptor
func (r *CatalogResource) Definition() mcp.Resource {
	return mcp.NewResource(CatalogURI, "catalog",
		mcp.WithResourceDescription("Every article in the knowledge base, without content"),
		mcp.WithMIMEType(MIMETypeJSON),
	)
}

// Handle renders the catalog from current store state
func (r *CatalogResource) Handle(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	articles := r.articles.List(ctx, models.ListOptions{Status: models.StatusAll, Limit: CatalogLimit})

	catalog := models.Catalog{
		Articles: make([]models.ArticleSummary, len(articles)),
		Count:    len(articles),
	}
	for i, a := range articles {
		catalog.Articles[i] = models.Summarize(a)
	}

	body, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}

	r.log.Debug().Int("count", catalog.Count).Msg("Catalog read")

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: MIMETypeJSON,
			Text:     string(body),
		},
	}, nil
}

// ArticleResource serves kb://article/{id}
type ArticleResource struct {
	articles service.ArticleService
	log      zerolog.Logger
}

// NewArticleResource creates an ArticleResource
func NewArticleResource(articles service.ArticleService, log zerolog.Logger) *ArticleResource {
	return &ArticleResource{articles: articles, log: log.With().Str("resource", "article-detail").Logger()}
}

// Definition returns the resource template descriptor
func (r *ArticleResource) Definition() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(ArticleURITemplate, "article-detail",
		mcp.WithTemplateDescription("Read a single article by ID"),
		mcp.WithTemplateMIMEType(MIMETypeJSON),
	)
}

// Handle renders one article. An unknown id yields a text/plain body
// rather than an error so callers branch on the content type.
func (r *ArticleResource) Handle(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	id := strings.TrimPrefix(uri, ArticleURIPrefix)

	article, ok := r.articles.Get(ctx, id)
	if !ok {
		r.log.Debug().Str("article_id", id).Msg("Article resource not found")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: MIMETypeText,
				Text:     resourceNotFoundText(id),
			},
		}, nil
	}

	body, err := json.MarshalIndent(article, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode article %s: %w", id, err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: MIMETypeJSON,
			Text:     string(body),
		},
	}, nil
}
