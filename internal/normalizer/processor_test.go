package normalizer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"antifraud/internal/feishu"
	"antifraud/internal/logger"
	"antifraud/internal/models"
)

func TestNewProcessor(t *testing.T) {
	p := NewProcessor(nil)
	if p == nil {
		t.Fatal("NewProcessor returned nil")
	}
}

func TestProcessor_Process(t *testing.T) {
	p := NewProcessor(nil)

	records := []feishu.RawRecord{
		newRecord("rec1", map[string]string{"标题": `"一"`}),
		newRecord("rec2", map[string]string{"标题": `"二"`}),
		newRecord("rec3", map[string]string{"标题": `"三"`}),
	}

	articles, err := p.Process(records, models.DefaultFieldMapping())
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if len(articles) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(articles))
	}

	for i, want := range []string{"rec1", "rec2", "rec3"} {
		if articles[i].ID != want {
			t.Errorf("articles[%d].ID = %s, want %s", i, articles[i].ID, want)
		}
	}
}

func TestProcessor_Process_InvalidMapping(t *testing.T) {
	p := NewProcessor(nil)

	result, err := p.Process(nil, models.FieldMapping{Title: "标题"})
	if !errors.Is(err, ErrInvalidMapping) {
		t.Errorf("expected ErrInvalidMapping, got %v", err)
	}

	if result != nil {
		t.Error("Process expected nil result for invalid mapping")
	}
}

func TestProcessor_Process_LogsSuspiciousRecords(t *testing.T) {
	var buf bytes.Buffer

	p := NewProcessor(logger.NewLoggerWithFormat("debug", "text", &buf))

	articles, err := p.Process([]feishu.RawRecord{newRecord("", nil)}, models.DefaultFieldMapping())
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if len(articles) != 1 {
		t.Errorf("suspicious records must still be mapped, got %d articles", len(articles))
	}

	if !strings.Contains(buf.String(), "Suspicious record") {
		t.Errorf("expected warning in log, got %q", buf.String())
	}
}
