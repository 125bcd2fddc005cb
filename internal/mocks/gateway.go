package mocks

import (
	"context"
	"sync"

	"github.com/knowledge-base-server/internal/api"
	"github.com/knowledge-base-server/internal/kbclient"
	"github.com/knowledge-base-server/internal/models"
)

// MockArticleGateway is an in-memory stand-in for the MCP client gateway
type MockArticleGateway struct {
	mu sync.Mutex

	Articles []*models.Article

	CatalogError error
	CreateError  error
	UpdateError  error

	CreatedFields []*models.ArticleFields
	Updates       map[string]*models.ArticleUpdate
}

// Verify interface compliance
var _ api.ArticleGateway = (*MockArticleGateway)(nil)

func NewMockArticleGateway(articles ...*models.Article) *MockArticleGateway {
	return &MockArticleGateway{
		Articles: articles,
		Updates:  make(map[string]*models.ArticleUpdate),
	}
}

func (m *MockArticleGateway) Catalog(ctx context.Context) (*models.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CatalogError != nil {
		return nil, m.CatalogError
	}
	catalog := &models.Catalog{Articles: make([]models.ArticleSummary, 0, len(m.Articles))}
	for _, a := range m.Articles {
		catalog.Articles = append(catalog.Articles, models.Summarize(a))
	}
	catalog.Count = len(catalog.Articles)
	return catalog, nil
}

func (m *MockArticleGateway) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(id)
}

func (m *MockArticleGateway) CreateArticle(ctx context.Context, fields *models.ArticleFields) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreatedFields = append(m.CreatedFields, fields)
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

func (m *MockArticleGateway) UpdateArticle(ctx context.Context, id string, update *models.ArticleUpdate) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Updates[id] = update
	if m.UpdateError != nil {
		return nil, m.UpdateError
	}
	a, err := m.find(id)
	if err != nil {
		return nil, err
	}
	if update.Title != nil {
		a.Title = *update.Title
	}
	if update.Status != nil {
		a.Status = *update.Status
	}
	return a, nil
}

func (m *MockArticleGateway) find(id string) (*models.Article, error) {
	for _, a := range m.Articles {
		if a.ID == id {
			return a.Clone(), nil
		}
	}
	return nil, kbclient.ErrNotFound
}
