package metadata

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	in := map[string]string{"id": "rec1", "title": "标题"}

	data, err := Encode(in, "v1")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var out map[string]string

	env, err := Decode(data, &out)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if env.Version != "v1" {
		t.Errorf("expected version v1, got %q", env.Version)
	}

	if out["title"] != "标题" {
		t.Errorf("expected payload to round trip, got %v", out)
	}
}

func TestDecode_HashMismatch(t *testing.T) {
	data, err := Encode([]int{1, 2, 3}, "v1")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	env.Payload = json.RawMessage(`[1,2,4]`)

	tampered, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var out []int
	if _, err := Decode(tampered, &out); !errors.Is(err, ErrHashMismatch) {
		t.Errorf("expected ErrHashMismatch, got %v", err)
	}
}

func TestVerify_Errors(t *testing.T) {
	if err := Verify(Envelope{}); !errors.Is(err, ErrNoPayload) {
		t.Errorf("expected ErrNoPayload, got %v", err)
	}

	if err := Verify(Envelope{Payload: json.RawMessage(`{}`)}); !errors.Is(err, ErrNoHashFound) {
		t.Errorf("expected ErrNoHashFound, got %v", err)
	}
}
