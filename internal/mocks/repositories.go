package mocks

import (
	"context"
	"sync"

	"github.com/knowledge-base-server/internal/models"
	"github.com/knowledge-base-server/internal/repository"
)

// MockArticleRepository is a mock implementation of ArticleRepository.
// Articles are returned exactly as placed in Articles, so tests can set
// arbitrary ids and timestamps.
type MockArticleRepository struct {
	mu          sync.Mutex
	Articles    []*models.Article
	CreateError error
	CreateCalls int
	UpdateCalls int
}

// Verify interface compliance
var _ repository.ArticleRepository = (*MockArticleRepository)(nil)

func NewMockArticleRepository(articles ...*models.Article) *MockArticleRepository {
	return &MockArticleRepository{Articles: articles}
}

func (m *MockArticleRepository) Create(ctx context.Context, fields *models.ArticleFields) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls++
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	a := &models.Article{
		ID:      "mock-article",
		Title:   fields.Title,
		Content: fields.Content,
		Summary: fields.Summary,
		Tags:    models.NormalizeTags(fields.Tags),
		Author:  fields.Author,
		Status:  fields.Status,
	}
	m.Articles = append(m.Articles, a)
	return a.Clone(), nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.Articles {
		if a.ID == id {
			return a.Clone(), true
		}
	}
	return nil, false
}

func (m *MockArticleRepository) Update(ctx context.Context, id string, update *models.ArticleUpdate) (*models.Article, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls++
	for _, a := range m.Articles {
		if a.ID != id {
			continue
		}
		if update.Title != nil {
			a.Title = *update.Title
		}
		if update.Status != nil {
			a.Status = *update.Status
		}
		return a.Clone(), true
	}
	return nil, false
}

func (m *MockArticleRepository) All(ctx context.Context) []*models.Article {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.Article, len(m.Articles))
	for i, a := range m.Articles {
		out[i] = a.Clone()
	}
	return out
}

func (m *MockArticleRepository) Count(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Articles)
}

func (m *MockArticleRepository) Seed(ctx context.Context, seeds []models.ArticleFields) (int, error) {
	for i := range seeds {
		if _, err := m.Create(ctx, &seeds[i]); err != nil {
			return i, err
		}
	}
	return len(seeds), nil
}
