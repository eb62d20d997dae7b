package cache

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"antifraud/internal/models"
)

// Search returns articles whose title, summary or source contains query, ignoring case
// and full-width/half-width differences. A blank query matches nothing.
func (c *ArticleCache) Search(ctx context.Context, query string) []models.Article {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Article{}
	}

	fold := cases.Fold()
	key := func(s string) string {
		return fold.String(norm.NFKC.String(s))
	}

	needle := key(query)
	results := []models.Article{}

	for _, article := range c.GetAllArticles(ctx) {
		for _, field := range []string{article.Title, article.Summary, article.Source} {
			if strings.Contains(key(field), needle) {
				results = append(results, article)

				break
			}
		}
	}

	return results
}
