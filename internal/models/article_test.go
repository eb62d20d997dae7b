package models

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestArticle_Preview(t *testing.T) {
	long := strings.Repeat("诈", 120)

	tests := []struct {
		name    string
		article Article
		want    string
	}{
		{
			name:    "Short summary is returned as is",
			article: Article{Summary: "测试摘要"},
			want:    "测试摘要",
		},
		{
			name:    "Content takes precedence over summary",
			article: Article{Summary: "摘要", Content: "正文"},
			want:    "正文",
		},
		{
			name:    "Long summary is cut at 100 characters",
			article: Article{Summary: long},
			want:    strings.Repeat("诈", 100) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.article.Preview(); got != tt.want {
				t.Errorf("Preview() = %q, want %q", got, tt.want)
			}
		})
	}

	if n := utf8.RuneCountInString(Article{Summary: long}.Preview()); n != 103 {
		t.Errorf("expected 103 characters, got %d", n)
	}
}

func TestArticle_ToStored(t *testing.T) {
	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	a := Article{
		ID:        "rec1",
		Title:     "标题",
		Date:      "2024-01-01",
		Summary:   "摘要",
		Source:    "来源",
		Address:   "http://x",
		CreatedAt: created,
		Analysis:  ArticleAnalysis{ScamType: "刷单"},
	}

	s := a.ToStored()
	if s.ID != "rec1" || s.Title != "标题" || s.Address != "http://x" || !s.CreatedAt.Equal(created) {
		t.Errorf("unexpected stored form: %+v", s)
	}
}

func TestFieldMapping_Validate(t *testing.T) {
	if err := DefaultFieldMapping().Validate(); err != nil {
		t.Fatalf("default mapping should be valid: %v", err)
	}

	m := DefaultFieldMapping()
	m.Address = ""

	err := m.Validate()
	if !errors.Is(err, ErrEmptyFieldName) {
		t.Fatalf("expected ErrEmptyFieldName, got %v", err)
	}

	if !strings.Contains(err.Error(), "address") {
		t.Errorf("expected field name in error, got %v", err)
	}
}

func TestFieldMapping_WithDefaults(t *testing.T) {
	m := FieldMapping{Title: "名称"}.WithDefaults()

	if m.Title != "名称" {
		t.Errorf("expected explicit title to be kept, got %q", m.Title)
	}

	if m.Summary != "摘要" || m.Address != "地址" {
		t.Errorf("expected defaults to be filled, got %+v", m)
	}
}
