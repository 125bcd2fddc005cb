package service

import (
	"context"

	"github.com/knowledge-base-server/internal/models"
	"github.com/knowledge-base-server/internal/repository"
	"github.com/rs/zerolog"
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	repo repository.ArticleRepository
	log  zerolog.Logger
}

// newArticleService creates a new ArticleService
func newArticleService(repo repository.ArticleRepository, log zerolog.Logger) *articleService {
	return &articleService{
		repo: repo,
		log:  log.With().Str("service", "article").Logger(),
	}
}

// NewArticleService creates an ArticleService over the given repository
func NewArticleService(repo repository.ArticleRepository, log zerolog.Logger) ArticleService {
	return newArticleService(repo, log)
}

// Create stores a new article
func (s *articleService) Create(ctx context.Context, fields *models.ArticleFields) (*models.Article, error) {
	article, err := s.repo.Create(ctx, fields)
	if err != nil {
		s.log.Error().Err(err).Str("title", fields.Title).Msg("Failed to create article")
		return nil, err
	}

	s.log.Info().
		Str("article_id", article.ID).
		Str("status", string(article.Status)).
		Strs("tags", article.Tags).
		Msg("Article created")

	return article, nil
}

// Get retrieves an article by id
func (s *articleService) Get(ctx context.Context, id string) (*models.Article, bool) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial update to an existing article
func (s *articleService) Update(ctx context.Context, id string, update *models.ArticleUpdate) (*models.Article, bool) {
	article, ok := s.repo.Update(ctx, id, update)
	if !ok {
		s.log.Debug().Str("article_id", id).Msg("Update of unknown article")
		return nil, false
	}

	msg := "Article updated"
	if update.IsEmpty() {
		msg = "Article touched with no field changes"
	}
	s.log.Info().
		Str("article_id", article.ID).
		Str("status", string(article.Status)).
		Time("updated_at", article.UpdatedAt).
		Msg(msg)

	return article, true
}

// Search runs a filtered search over the current articles
func (s *articleService) Search(ctx context.Context, opts models.SearchOptions) []*models.Article {
	results := Search(s.repo.All(ctx), opts)

	s.log.Debug().
		Str("query", opts.Query).
		Str("status", string(opts.Status)).
		Strs("tags", opts.Tags).
		Int("limit", opts.Limit).
		Int("results", len(results)).
		Msg("Search completed")

	return results
}

// List enumerates articles by status
func (s *articleService) List(ctx context.Context, opts models.ListOptions) []*models.Article {
	return List(s.repo.All(ctx), opts)
}

// Count returns the total number of articles
func (s *articleService) Count(ctx context.Context) int {
	return s.repo.Count(ctx)
}

// CountByStatus returns the number of articles in each stored status
func (s *articleService) CountByStatus(ctx context.Context) map[models.ArticleStatus]int {
	counts := map[models.ArticleStatus]int{
		models.StatusDraft:     0,
		models.StatusPublished: 0,
		models.StatusArchived:  0,
	}
	for _, a := range s.repo.All(ctx) {
		counts[a.Status]++
	}
	return counts
}
