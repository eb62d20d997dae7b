// Package models defines the article data structures shared by the fetcher, cache and API.
package models

import (
	"time"

	"antifraud/pkg/utils"
)

// PreviewLength is the number of characters kept by Article.Preview.
const PreviewLength = 100

// ArticleAnalysis holds the tags derived from an article summary.
type ArticleAnalysis struct {
	ScamType      string   `json:"scamType"`
	Location      string   `json:"location"`
	KeyFeatures   []string `json:"keyFeatures"`
	AntiFraudTech []string `json:"antiFraudTech"`
}

// Article is a record from the upstream table, enriched with its analysis.
type Article struct {
	CreatedAt time.Time       `json:"createdAt"`
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Date      string          `json:"date"`
	Summary   string          `json:"summary"`
	Content   string          `json:"content,omitempty"`
	Source    string          `json:"source"`
	Address   string          `json:"address"`
	Analysis  ArticleAnalysis `json:"analysis"`
}

// Preview returns the first PreviewLength characters of the content, or of the summary
// when there is no content, followed by "..." if anything was cut.
func (a Article) Preview() string {
	text := a.Content
	if text == "" {
		text = a.Summary
	}

	return utils.NewStringHelper().TruncateRunes(text, PreviewLength)
}

// ToStored drops the derived analysis, leaving the form kept in a shared cache.
func (a Article) ToStored() StoredArticle {
	return StoredArticle{
		ID:        a.ID,
		Title:     a.Title,
		Date:      a.Date,
		Summary:   a.Summary,
		Content:   a.Content,
		Source:    a.Source,
		Address:   a.Address,
		CreatedAt: a.CreatedAt,
	}
}

// StoredArticle is the persisted cache form of an Article. Analysis is not stored;
// it is recomputed from Summary on restore.
type StoredArticle struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content,omitempty"`
	Source    string    `json:"source"`
	Address   string    `json:"address"`
}
