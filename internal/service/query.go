package service

import (
	"sort"
	"strings"

	"github.com/knowledge-base-server/internal/models"
)

// filterByStatus keeps articles with the given status. An empty status
// means published; StatusAll keeps everything.
func filterByStatus(articles []*models.Article, status models.ArticleStatus) []*models.Article {
	if status == "" {
		status = models.StatusPublished
	}
	if status == models.StatusAll {
		return articles
	}

	out := articles[:0:0]
	for _, a := range articles {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}

// filterByTags keeps articles carrying at least one of the requested tags
func filterByTags(articles []*models.Article, tags []string) []*models.Article {
	if len(tags) == 0 {
		return articles
	}

	wanted := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		wanted[models.NormalizeTag(t)] = struct{}{}
	}

	out := articles[:0:0]
	for _, a := range articles {
		for _, t := range a.Tags {
			if _, ok := wanted[t]; ok {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// filterByText keeps articles whose title, content or any tag contains
// the query, case-insensitively. A blank query keeps everything.
func filterByText(articles []*models.Article, query string) []*models.Article {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return articles
	}

	out := articles[:0:0]
	for _, a := range articles {
		if matchesText(a, q) {
			out = append(out, a)
		}
	}
	return out
}

func matchesText(a *models.Article, q string) bool {
	if strings.Contains(strings.ToLower(a.Title), q) || strings.Contains(strings.ToLower(a.Content), q) {
		return true
	}
	for _, t := range a.Tags {
		if strings.Contains(t, q) {
			return true
		}
	}
	return false
}

// sortByRecency orders articles by UpdatedAt, newest first. Ties keep
// their input order.
func sortByRecency(articles []*models.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].UpdatedAt.After(articles[j].UpdatedAt)
	})
}

// bound truncates to limit; limit <= 0 leaves the slice whole
func bound(articles []*models.Article, limit int) []*models.Article {
	if limit > 0 && len(articles) > limit {
		return articles[:limit]
	}
	return articles
}

// Search filters, sorts and bounds a snapshot of articles. Filters are
// conjunctive; the tag filter is a disjunction across the requested tags.
func Search(snapshot []*models.Article, opts models.SearchOptions) []*models.Article {
	results := filterByStatus(snapshot, opts.Status)
	results = filterByTags(results, opts.Tags)
	results = filterByText(results, opts.Query)
	sortByRecency(results)
	return bound(results, opts.Limit)
}

// List filters by status, sorts and bounds a snapshot of articles
func List(snapshot []*models.Article, opts models.ListOptions) []*models.Article {
	results := filterByStatus(snapshot, opts.Status)
	sortByRecency(results)
	return bound(results, opts.Limit)
}
