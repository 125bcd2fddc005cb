package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/knowledge-base-server/internal/models"
)

const (
	idPrefix = "art-"
	idWidth  = 4
)

// articleRepo is the in-memory implementation of ArticleRepository
type articleRepo struct {
	mu       sync.RWMutex
	articles map[string]*models.Article
	order    []string // insertion order, used for stable snapshots
	counter  int
	now      func() time.Time
}

// NewArticleRepo creates a new in-memory article repository.
// now supplies timestamps; pass time.Now outside of tests.
func NewArticleRepo(now func() time.Time) ArticleRepository {
	return &articleRepo{
		articles: make(map[string]*models.Article),
		counter:  1,
		now:      now,
	}
}

// nextID formats the current counter and advances it. Caller holds mu.
func (r *articleRepo) nextID() string {
	id := fmt.Sprintf("%s%0*d", idPrefix, idWidth, r.counter)
	r.counter++
	return id
}

// insert stores a new article built from fields. Caller holds mu.
func (r *articleRepo) insert(fields *models.ArticleFields, at time.Time) (*models.Article, error) {
	id := r.nextID()
	if _, exists := r.articles[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrIDCollision, id)
	}

	status := fields.Status
	if status == "" {
		status = models.StatusDraft
	}
	author := fields.Author
	if author == "" {
		author = models.DefaultAuthor
	}

	article := &models.Article{
		ID:        id,
		Title:     fields.Title,
		Content:   fields.Content,
		Tags:      models.NormalizeTags(fields.Tags),
		Author:    author,
		Status:    status,
		CreatedAt: at,
		UpdatedAt: at,
	}
	if fields.Summary != nil {
		s := *fields.Summary
		article.Summary = &s
	}

	r.articles[id] = article
	r.order = append(r.order, id)
	return article.Clone(), nil
}

// Create inserts a new article with the next sequential id
func (r *articleRepo) Create(ctx context.Context, fields *models.ArticleFields) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(fields, r.now().UTC())
}

// GetByID retrieves an article by exact id
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	article, ok := r.articles[id]
	if !ok {
		return nil, false
	}
	return article.Clone(), true
}

// Update merges the present fields of update over an existing article.
// Tags are replaced, not merged. UpdatedAt always advances.
func (r *articleRepo) Update(ctx context.Context, id string, update *models.ArticleUpdate) (*models.Article, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.articles[id]
	if !ok {
		return nil, false
	}

	updated := existing.Clone()
	if update.Title != nil {
		updated.Title = *update.Title
	}
	if update.Content != nil {
		updated.Content = *update.Content
	}
	if update.Summary != nil {
		s := *update.Summary
		updated.Summary = &s
	}
	if update.Tags != nil {
		updated.Tags = models.NormalizeTags(*update.Tags)
	}
	if update.Status != nil {
		updated.Status = *update.Status
	}

	now := r.now().UTC()
	if !now.After(existing.UpdatedAt) {
		now = existing.UpdatedAt.Add(time.Nanosecond)
	}
	updated.UpdatedAt = now

	r.articles[id] = updated
	return updated.Clone(), true
}

// All returns a snapshot of every article in insertion order
func (r *articleRepo) All(ctx context.Context) []*models.Article {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Article, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.articles[id].Clone())
	}
	return out
}

// Count returns the total number of articles
func (r *articleRepo) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.articles)
}

// Seed inserts seed articles into an empty store and returns how many
// were added. A non-empty store is left untouched.
func (r *articleRepo) Seed(ctx context.Context, seeds []models.ArticleFields) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.articles) > 0 {
		return 0, nil
	}

	at := r.now().UTC()
	for i := range seeds {
		if _, err := r.insert(&seeds[i], at); err != nil {
			return i, err
		}
	}
	return len(seeds), nil
}
