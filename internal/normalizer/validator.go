package normalizer

import (
	"errors"
	"fmt"

	"antifraud/internal/feishu"
	"antifraud/internal/models"
)

// Validation errors.
var (
	ErrInvalidMapping  = errors.New("invalid field mapping")
	ErrMissingRecordID = errors.New("record has no record_id")
	ErrNoFields        = errors.New("record has no fields")
	ErrNoMappedFields  = errors.New("record has none of the mapped fields")
)

// Validator checks field mappings and upstream records before transformation.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateMapping checks that every logical field names a source column.
func (v *Validator) ValidateMapping(mapping models.FieldMapping) error {
	if err := mapping.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}

	return nil
}

// CheckRecord reports the first problem with a record. Problems are advisory: the record
// is still mapped, with empty values where data is missing.
func (v *Validator) CheckRecord(record feishu.RawRecord, mapping models.FieldMapping) error {
	if record.ID == "" {
		return ErrMissingRecordID
	}

	if len(record.Fields) == 0 {
		return ErrNoFields
	}

	for _, name := range []string{mapping.Title, mapping.Date, mapping.Summary, mapping.Source, mapping.Address} {
		if _, ok := record.Fields[name]; ok {
			return nil
		}
	}

	return ErrNoMappedFields
}
