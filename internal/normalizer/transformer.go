package normalizer

import (
	"time"

	"antifraud/internal/analyzer"
	"antifraud/internal/feishu"
	"antifraud/internal/models"
)

// Transformer maps upstream records to articles.
type Transformer struct {
	analyzer *analyzer.Analyzer
	now      func() time.Time
}

// NewTransformer creates a transformer using the shared analyzer.
func NewTransformer() *Transformer {
	return &Transformer{
		analyzer: analyzer.Default(),
		now:      time.Now,
	}
}

// SetClock replaces the time source used for CreatedAt.
func (t *Transformer) SetClock(now func() time.Time) {
	t.now = now
}

// FromRecord builds an article from a record. It never fails: absent or malformed
// fields become empty strings.
func (t *Transformer) FromRecord(record feishu.RawRecord, mapping models.FieldMapping) models.Article {
	article := models.Article{
		ID:        record.ID,
		Title:     record.Text(mapping.Title),
		Date:      record.Text(mapping.Date),
		Summary:   record.Text(mapping.Summary),
		Source:    record.Text(mapping.Source),
		Address:   record.Address(mapping.Address).String(),
		CreatedAt: t.now(),
	}

	article.Analysis = t.analyzer.Analyze(article.Summary)

	return article
}

// Restore rebuilds an article from its stored form, recomputing the analysis.
func (t *Transformer) Restore(stored models.StoredArticle) models.Article {
	return models.Article{
		ID:        stored.ID,
		Title:     stored.Title,
		Date:      stored.Date,
		Summary:   stored.Summary,
		Content:   stored.Content,
		Source:    stored.Source,
		Address:   stored.Address,
		CreatedAt: stored.CreatedAt,
		Analysis:  t.analyzer.Analyze(stored.Summary),
	}
}

// RestoreAll restores a stored snapshot in order.
func (t *Transformer) RestoreAll(stored []models.StoredArticle) []models.Article {
	articles := make([]models.Article, 0, len(stored))
	for _, s := range stored {
		articles = append(articles, t.Restore(s))
	}

	return articles
}
