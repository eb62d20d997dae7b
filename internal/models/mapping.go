package models

import (
	"errors"
	"fmt"
)

// ErrEmptyFieldName is returned when a logical field has no source column.
var ErrEmptyFieldName = errors.New("field mapping entry is empty")

// FieldMapping translates the five logical article attributes into the column names of
// the upstream table.
type FieldMapping struct {
	Title   string `yaml:"title" json:"title"`
	Date    string `yaml:"date" json:"date"`
	Summary string `yaml:"summary" json:"summary"`
	Source  string `yaml:"source" json:"source"`
	Address string `yaml:"address" json:"address"`
}

// DefaultFieldMapping returns the column names used by the curated case table.
func DefaultFieldMapping() FieldMapping {
	return FieldMapping{
		Title:   "标题",
		Date:    "日期",
		Summary: "摘要",
		Source:  "账号",
		Address: "地址",
	}
}

// WithDefaults fills empty entries from DefaultFieldMapping.
func (m FieldMapping) WithDefaults() FieldMapping {
	def := DefaultFieldMapping()

	if m.Title == "" {
		m.Title = def.Title
	}

	if m.Date == "" {
		m.Date = def.Date
	}

	if m.Summary == "" {
		m.Summary = def.Summary
	}

	if m.Source == "" {
		m.Source = def.Source
	}

	if m.Address == "" {
		m.Address = def.Address
	}

	return m
}

// Validate reports the first logical field without a source column.
func (m FieldMapping) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"title", m.Title},
		{"date", m.Date},
		{"summary", m.Summary},
		{"source", m.Source},
		{"address", m.Address},
	}

	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: %s", ErrEmptyFieldName, f.name)
		}
	}

	return nil
}
