// Package normalizer turns upstream table records into articles.
package normalizer

import (
	"fmt"

	"antifraud/internal/feishu"
	"antifraud/internal/logger"
	"antifraud/internal/models"
)

// Processor validates and transforms batches of records.
type Processor struct {
	validator   *Validator
	transformer *Transformer
	logger      *logger.Logger
}

// NewProcessor creates a new processor instance. A nil logger discards output.
func NewProcessor(log *logger.Logger) *Processor {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(),
		logger:      log,
	}
}

// Transformer returns the transformer used by the processor.
func (p *Processor) Transformer() *Transformer {
	return p.transformer
}

// Process maps records to articles in input order. Only an invalid mapping is an error;
// suspicious records are logged and mapped anyway.
func (p *Processor) Process(records []feishu.RawRecord, mapping models.FieldMapping) ([]models.Article, error) {
	// 1. Validate the mapping
	if err := p.validator.ValidateMapping(mapping); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// 2. Transform the records
	articles := make([]models.Article, 0, len(records))
	for i, record := range records {
		if err := p.validator.CheckRecord(record, mapping); err != nil {
			p.logger.Warn("Suspicious record", "index", i, "record_id", record.ID, "error", err)
		}

		articles = append(articles, p.transformer.FromRecord(record, mapping))
	}

	return articles, nil
}
