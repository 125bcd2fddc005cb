package mcpserver

import (
	"fmt"
	"strings"
	"time"

	"github.com/knowledge-base-server/internal/models"
)

func formatSearchResults(query string, articles []*models.Article) string {
	if len(articles) == 0 {
		return fmt.Sprintf("No articles found matching \"%s\". Try different keywords or broaden filters.", query)
	}

	blocks := make([]string, len(articles))
	for i, a := range articles {
		blocks[i] = fmt.Sprintf("- **%s** (%s)\n  %s\n  Tags: %s", a.Title, a.ID, a.Excerpt(), joinTags(a.Tags))
	}
	return strings.Join(blocks, "\n\n")
}

func formatCreated(a *models.Article) string {
	return fmt.Sprintf("Article created.\n**Title:** %s\n**ID:** %s\n**Status:** %s\n**Tags:** %s",
		a.Title, a.ID, a.Status, joinTags(a.Tags))
}

func formatUpdated(a *models.Article) string {
	return fmt.Sprintf("Article updated.\n**Title:** %s\n**ID:** %s\n**Status:** %s\n**Updated:** %s",
		a.Title, a.ID, a.Status, a.UpdatedAt.Format(time.RFC3339Nano))
}

func formatList(articles []*models.Article) string {
	if len(articles) == 0 {
		return "No articles found."
	}

	lines := make([]string, len(articles))
	for i, a := range articles {
		lines[i] = fmt.Sprintf("- **%s** (%s) — %s — %s", a.Title, a.ID, a.Status, joinTags(a.Tags))
	}
	return strings.Join(lines, "\n")
}

func toolNotFoundText(id string) string {
	return fmt.Sprintf("Article \"%s\" not found. Use search-articles to find IDs.", id)
}

func resourceNotFoundText(id string) string {
	return fmt.Sprintf("Article \"%s\" not found.", id)
}

func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
