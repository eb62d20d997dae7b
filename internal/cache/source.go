package cache

import (
	"context"
	"fmt"

	"antifraud/internal/feishu"
	"antifraud/internal/models"
	"antifraud/internal/normalizer"
)

// Source produces a complete, ordered article list.
type Source interface {
	Articles(ctx context.Context) ([]models.Article, error)
}

// RecordLister lists every record of the upstream table.
type RecordLister interface {
	GetAllRecords(ctx context.Context) ([]feishu.RawRecord, error)
}

// TableSource fetches the table and maps each record to an article.
type TableSource struct {
	records   RecordLister
	processor *normalizer.Processor
	mapping   models.FieldMapping
}

// NewTableSource creates a source over records using mapping.
func NewTableSource(records RecordLister, processor *normalizer.Processor, mapping models.FieldMapping) *TableSource {
	return &TableSource{records: records, processor: processor, mapping: mapping}
}

// Articles fetches every record and maps it, preserving upstream order.
func (s *TableSource) Articles(ctx context.Context) ([]models.Article, error) {
	records, err := s.records.GetAllRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	articles, err := s.processor.Process(records, s.mapping)
	if err != nil {
		return nil, fmt.Errorf("map records: %w", err)
	}

	return articles, nil
}
