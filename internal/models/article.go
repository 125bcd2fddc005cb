package models

import (
	"strings"
	"time"
)

// ArticleStatus is the lifecycle state of an article
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
	StatusArchived  ArticleStatus = "archived"

	// StatusAll is a query-time wildcard, never a stored status
	StatusAll ArticleStatus = "all"
)

// DefaultAuthor is used when an article is created without an author
const DefaultAuthor = "AI Assistant"

// ValidStatuses defines the statuses an article may be stored with
var ValidStatuses = map[ArticleStatus]bool{
	StatusDraft:     true,
	StatusPublished: true,
	StatusArchived:  true,
}

// Article represents a knowledge base article
type Article struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Summary   *string       `json:"summary,omitempty"`
	Tags      []string      `json:"tags"`
	Author    string        `json:"author"`
	Status    ArticleStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Clone returns a deep copy that shares no mutable state with a
func (a *Article) Clone() *Article {
	c := *a
	c.Tags = append([]string(nil), a.Tags...)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if a.Summary != nil {
		s := *a.Summary
		c.Summary = &s
	}
	return &c
}

// Excerpt returns the summary, or the first 100 characters of content
// followed by an ellipsis when no summary is set
func (a *Article) Excerpt() string {
	if a.Summary != nil {
		return *a.Summary
	}
	runes := []rune(a.Content)
	if len(runes) > 100 {
		runes = runes[:100]
	}
	return string(runes) + "..."
}

// ArticleFields holds the caller-supplied fields of a new article
type ArticleFields struct {
	Title   string        `json:"title" yaml:"title"`
	Content string        `json:"content" yaml:"content"`
	Summary *string       `json:"summary,omitempty" yaml:"summary"`
	Tags    []string      `json:"tags" yaml:"tags"`
	Author  string        `json:"author,omitempty" yaml:"author"`
	Status  ArticleStatus `json:"status,omitempty" yaml:"status"`
}

// ArticleUpdate is a partial update; nil fields leave the stored value unchanged
type ArticleUpdate struct {
	Title   *string        `json:"title,omitempty"`
	Content *string        `json:"content,omitempty"`
	Summary *string        `json:"summary,omitempty"`
	Tags    *[]string      `json:"tags,omitempty"`
	Status  *ArticleStatus `json:"status,omitempty"`
}

// IsEmpty reports whether the update carries no fields
func (u *ArticleUpdate) IsEmpty() bool {
	return u.Title == nil && u.Content == nil && u.Summary == nil && u.Tags == nil && u.Status == nil
}

// SearchOptions controls a search over the article collection
type SearchOptions struct {
	Query  string
	Status ArticleStatus // empty means published
	Limit  int           // <= 0 means unbounded
	Tags   []string
}

// ListOptions controls a plain listing of articles
type ListOptions struct {
	Status ArticleStatus // empty means published
	Limit  int
}

// ArticleSummary is the catalog projection of an article; content is omitted
type ArticleSummary struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Summary   *string       `json:"summary,omitempty"`
	Tags      []string      `json:"tags"`
	Status    ArticleStatus `json:"status"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Catalog is the payload of the catalog resource
type Catalog struct {
	Articles []ArticleSummary `json:"articles"`
	Count    int              `json:"count"`
}

// Summarize projects an article to its catalog shape
func Summarize(a *Article) ArticleSummary {
	c := a.Clone()
	return ArticleSummary{
		ID:        c.ID,
		Title:     c.Title,
		Summary:   c.Summary,
		Tags:      c.Tags,
		Status:    c.Status,
		UpdatedAt: c.UpdatedAt,
	}
}

// NormalizeTag lowercases and trims a tag
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTags normalizes every tag, preserving order
func NormalizeTags(tags []string) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = NormalizeTag(t)
	}
	return out
}
