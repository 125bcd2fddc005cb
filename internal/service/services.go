package service

import (
	"context"

	"github.com/knowledge-base-server/internal/models"
	"github.com/knowledge-base-server/internal/repository"
	"github.com/rs/zerolog"
)

// ArticleService defines the interface for knowledge base operations
type ArticleService interface {
	Create(ctx context.Context, fields *models.ArticleFields) (*models.Article, error)
	Get(ctx context.Context, id string) (*models.Article, bool)
	Update(ctx context.Context, id string, update *models.ArticleUpdate) (*models.Article, bool)
	Search(ctx context.Context, opts models.SearchOptions) []*models.Article
	List(ctx context.Context, opts models.ListOptions) []*models.Article
	Count(ctx context.Context) int
	CountByStatus(ctx context.Context) map[models.ArticleStatus]int
}

// Services holds all service interfaces
type Services struct {
	Article ArticleService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, log zerolog.Logger) *Services {
	return &Services{
		Article: newArticleService(repos.Article, log),
	}
}
