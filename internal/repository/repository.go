package repository

import (
	"context"
	"errors"
	"time"

	"github.com/knowledge-base-server/internal/models"
)

// ErrIDCollision is returned if a generated id is already taken
var ErrIDCollision = errors.New("article id collision")

// ArticleRepository defines the interface for article data operations.
// Lookups report absence with ok=false rather than an error.
type ArticleRepository interface {
	Create(ctx context.Context, fields *models.ArticleFields) (*models.Article, error)
	GetByID(ctx context.Context, id string) (*models.Article, bool)
	Update(ctx context.Context, id string, update *models.ArticleUpdate) (*models.Article, bool)
	All(ctx context.Context) []*models.Article
	Count(ctx context.Context) int
	Seed(ctx context.Context, seeds []models.ArticleFields) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article ArticleRepository
}

// New creates all repositories backed by process memory
func New() *Repositories {
	return &Repositories{
		Article: NewArticleRepo(time.Now),
	}
}
