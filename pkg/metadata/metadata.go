// Package metadata signs payloads with a content hash so stored copies can be verified on read.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Metadata verification errors.
var (
	ErrNoPayload    = errors.New("no payload in envelope")
	ErrNoHashFound  = errors.New("no hash found in metadata")
	ErrHashMismatch = errors.New("hash mismatch")
)

// Envelope carries a payload together with its version, signing time and hash.
type Envelope struct {
	LastModify time.Time       `json:"last_modify"`
	Version    string          `json:"version"`
	Hash       string          `json:"hash"`
	Payload    json.RawMessage `json:"payload"`
}

// CalculateHash computes the SHA-256 hash of data.
func CalculateHash(data []byte) string {
	hash := sha256.Sum256(data)

	return hex.EncodeToString(hash[:])
}

// Sign wraps payload in an envelope with a fresh hash and timestamp.
func Sign(payload []byte, version string) Envelope {
	return Envelope{
		LastModify: time.Now().UTC(),
		Version:    version,
		Hash:       CalculateHash(payload),
		Payload:    payload,
	}
}

// Verify checks that the payload matches the hash it was signed with.
func Verify(env Envelope) error {
	if len(env.Payload) == 0 {
		return ErrNoPayload
	}

	if env.Hash == "" {
		return ErrNoHashFound
	}

	calculated := CalculateHash(env.Payload)
	if calculated != env.Hash {
		return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, env.Hash, calculated)
	}

	return nil
}

// Encode marshals v, signs it and returns the encoded envelope.
func Encode(v any, version string) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	data, err := json.Marshal(Sign(payload, version))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	return data, nil
}

// Decode parses an encoded envelope, verifies it and unmarshals the payload into v.
func Decode(data []byte, v any) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse envelope: %w", err)
	}

	if err := Verify(env); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(env.Payload, v); err != nil {
		return nil, fmt.Errorf("failed to parse payload: %w", err)
	}

	return &env, nil
}
