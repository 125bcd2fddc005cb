package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/knowledge-base-server/internal/kbclient"
	"github.com/knowledge-base-server/internal/models"
	"github.com/rs/zerolog"
)

// List endpoint bounds
const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// ArticleGateway reaches the knowledge base through its MCP surface
type ArticleGateway interface {
	Catalog(ctx context.Context) (*models.Catalog, error)
	GetArticle(ctx context.Context, id string) (*models.Article, error)
	CreateArticle(ctx context.Context, fields *models.ArticleFields) (*models.Article, error)
	UpdateArticle(ctx context.Context, id string, update *models.ArticleUpdate) (*models.Article, error)
}

var _ ArticleGateway = (*kbclient.Client)(nil)

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	gateway ArticleGateway
	log     zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(gateway ArticleGateway, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		gateway: gateway,
		log:     log.With().Str("handler", "article").Logger(),
	}
}

// ListArticles handles GET /api/articles
// Query params: q (title, summary or tag substring), status (default all),
// limit (default 50, never more than 100)
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	catalog, err := h.gateway.Catalog(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read catalog")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	articles := filterCatalog(catalog.Articles, c.Query("q"), c.DefaultQuery("status", string(models.StatusAll)))
	if limit := parseListLimit(c.Query("limit")); len(articles) > limit {
		articles = articles[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"count":    len(articles),
	})
}

// GetArticle handles GET /api/articles/:id
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id := c.Param("id")

	article, err := h.gateway.GetArticle(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, article)
}

// CreateArticle handles POST /api/articles
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var body models.CreateArticleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body: " + err.Error()})
		return
	}
	if body.Title == "" || body.Content == "" || len(body.Tags) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, content, and at least one tag required"})
		return
	}

	fields := &models.ArticleFields{
		Title:   strings.TrimSpace(body.Title),
		Content: strings.TrimSpace(body.Content),
		Tags:    cleanTags(body.Tags),
		Status:  models.StatusDraft,
	}
	if body.Summary != nil && *body.Summary != "" {
		summary := strings.TrimSpace(*body.Summary)
		fields.Summary = &summary
	}
	if body.Author != nil && *body.Author != "" {
		fields.Author = strings.TrimSpace(*body.Author)
	}
	if body.Status != "" {
		fields.Status = models.ArticleStatus(body.Status)
	}

	article, err := h.gateway.CreateArticle(c.Request.Context(), fields)
	if err != nil {
		h.respondError(c, "", err)
		return
	}

	h.log.Info().Str("article_id", article.ID).Msg("Article created via app")
	c.JSON(http.StatusCreated, article)
}

// UpdateArticle handles PUT /api/articles/:id
// Only fields present in the body are forwarded
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	id := c.Param("id")

	var body models.UpdateArticleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body: " + err.Error()})
		return
	}

	update := &models.ArticleUpdate{
		Title:   trimmed(body.Title),
		Content: trimmed(body.Content),
		Summary: trimmed(body.Summary),
	}
	if body.Tags != nil {
		tags := cleanTags(*body.Tags)
		update.Tags = &tags
	}
	if body.Status != nil {
		status := models.ArticleStatus(*body.Status)
		update.Status = &status
	}

	article, err := h.gateway.UpdateArticle(c.Request.Context(), id, update)
	if err != nil {
		h.respondError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, article)
}

// respondError maps gateway errors to HTTP responses
func (h *ArticleHandler) respondError(c *gin.Context, id string, err error) {
	switch {
	case errors.Is(err, kbclient.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
	case errors.Is(err, kbclient.ErrToolFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("article_id", id).Msg("Knowledge base request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// filterCatalog applies the list endpoint's q and status filters
func filterCatalog(articles []models.ArticleSummary, q, status string) []models.ArticleSummary {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]models.ArticleSummary, 0, len(articles))
	for _, a := range articles {
		if status != "" && status != string(models.StatusAll) && string(a.Status) != status {
			continue
		}
		if q != "" && !summaryMatches(a, q) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func summaryMatches(a models.ArticleSummary, q string) bool {
	if strings.Contains(strings.ToLower(a.Title), q) {
		return true
	}
	if a.Summary != nil && strings.Contains(strings.ToLower(*a.Summary), q) {
		return true
	}
	for _, t := range a.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// parseListLimit reads the limit query param. Missing, malformed or
// non-positive values fall back to the default; larger values are capped.
func parseListLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return limit
}

// cleanTags trims tags and drops blank ones
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
