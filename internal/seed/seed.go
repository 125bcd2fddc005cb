// Package seed provides the articles a fresh knowledge base starts with.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/knowledge-base-server/internal/config"
	"github.com/knowledge-base-server/internal/models"
	"github.com/knowledge-base-server/internal/repository"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DemoAuthor is credited on seeded articles without an author
const DemoAuthor = "Demo"

func strPtr(s string) *string { return &s }

// DemoArticles returns the built-in published demo articles
func DemoArticles() []models.ArticleFields {
	return []models.ArticleFields{
		{
			Title:   "Getting Started with MCP",
			Content: "The Model Context Protocol (MCP) lets AI applications discover and use tools and resources in a standard way. This article covers setup and your first MCP server.",
			Summary: strPtr("Introduction to MCP: what it is and how to build your first server."),
			Tags:    []string{"mcp", "ai", "tutorial"},
			Author:  DemoAuthor,
			Status:  models.StatusPublished,
		},
		{
			Title:   "Building Go MCP Servers",
			Content: "Use mcp-go to build servers in Go. Register tools with typed argument schemas, expose resources and resource templates, and serve them over stdio or streamable HTTP.",
			Summary: strPtr("Go and mcp-go for building servers."),
			Tags:    []string{"go", "mcp", "sdk"},
			Author:  DemoAuthor,
			Status:  models.StatusPublished,
		},
		{
			Title:   "Tool Design Best Practices",
			Content: "Good tool descriptions help the AI choose the right tool. Use clear parameter names, sensible defaults, and describe when to use each tool.",
			Summary: strPtr("How to design MCP tools that AI can use reliably."),
			Tags:    []string{"mcp", "design", "best-practices"},
			Author:  DemoAuthor,
			Status:  models.StatusPublished,
		},
	}
}

// file is the on-disk seed document
type file struct {
	Articles []models.ArticleFields `yaml:"articles"`
}

// LoadFile reads seed articles from a YAML document of the form
//
//	articles:
//	  - title: ...
//	    content: ...
//	    tags: [a, b]
//
// Missing authors default to DemoAuthor and missing statuses to published.
func LoadFile(path string) ([]models.ArticleFields, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc file
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}

	var errs []error
	for i := range doc.Articles {
		a := &doc.Articles[i]
		if a.Title == "" || a.Content == "" || len(a.Tags) == 0 {
			errs = append(errs, fmt.Errorf("article %d: title, content and at least one tag are required", i))
			continue
		}
		if a.Author == "" {
			a.Author = DemoAuthor
		}
		if a.Status == "" {
			a.Status = models.StatusPublished
		}
		if !models.ValidStatuses[a.Status] {
			errs = append(errs, fmt.Errorf("article %d: invalid status %q", i, a.Status))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid seed file %s: %w", path, errors.Join(errs...))
	}

	return doc.Articles, nil
}

// Load resolves the seed articles for the given store configuration. A
// seed file takes precedence over the demo articles.
func Load(cfg config.StoreConfig) ([]models.ArticleFields, error) {
	if cfg.SeedFile != "" {
		return LoadFile(cfg.SeedFile)
	}
	if !cfg.SeedDemo {
		return nil, nil
	}
	return DemoArticles(), nil
}

// Apply loads the configured seed articles into repo. Seeding only
// happens on an empty store.
func Apply(ctx context.Context, repo repository.ArticleRepository, cfg config.StoreConfig, log zerolog.Logger) error {
	log = log.With().Str("component", "seed").Logger()

	articles, err := Load(cfg)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		log.Info().Msg("Seeding disabled, starting with an empty knowledge base")
		return nil
	}

	n, err := repo.Seed(ctx, articles)
	if err != nil {
		return fmt.Errorf("failed to seed articles: %w", err)
	}

	source := "demo"
	if cfg.SeedFile != "" {
		source = cfg.SeedFile
	}
	log.Info().Int("articles", n).Str("source", source).Msg("Knowledge base seeded")
	return nil
}
