package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"antifraud/internal/models"
	"antifraud/pkg/metadata"
)

// DefaultRedisKey is the key the snapshot is stored under.
const DefaultRedisKey = "antifraud:all_articles"

// snapshotVersion tags the stored envelope layout.
const snapshotVersion = "1"

// Restorer rebuilds articles from their stored form.
type Restorer interface {
	RestoreAll(stored []models.StoredArticle) []models.Article
}

type storedSnapshot struct {
	CreatedAt time.Time              `json:"created_at"`
	Articles  []models.StoredArticle `json:"articles"`
}

// RedisStore keeps the snapshot in Redis so several processes share one generation.
// Entries are signed with a SHA-256 checksum; entries that fail verification are
// treated as absent.
type RedisStore struct {
	client   redis.UniversalClient
	restorer Restorer
	key      string
}

// NewRedisStore creates a store on client under key (DefaultRedisKey when empty).
func NewRedisStore(client redis.UniversalClient, key string, restorer Restorer) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}

	return &RedisStore{client: client, key: key, restorer: restorer}
}

// Get loads and verifies the snapshot.
func (s *RedisStore) Get(ctx context.Context) (Snapshot, bool, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, false, nil
	}

	if err != nil {
		return Snapshot{}, false, fmt.Errorf("redis get %s: %w", s.key, err)
	}

	var stored storedSnapshot
	if _, err := metadata.Decode(data, &stored); err != nil {
		if errors.Is(err, metadata.ErrHashMismatch) || errors.Is(err, metadata.ErrNoHashFound) {
			return Snapshot{}, false, nil
		}

		return Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}

	return Snapshot{
		CreatedAt: stored.CreatedAt,
		Articles:  s.restorer.RestoreAll(stored.Articles),
	}, true, nil
}

// Set stores the snapshot with ttl as the key expiry.
func (s *RedisStore) Set(ctx context.Context, snap Snapshot, ttl time.Duration) error {
	stored := storedSnapshot{
		CreatedAt: snap.CreatedAt,
		Articles:  make([]models.StoredArticle, 0, len(snap.Articles)),
	}

	for _, a := range snap.Articles {
		stored.Articles = append(stored.Articles, a.ToStored())
	}

	data, err := metadata.Encode(stored, snapshotVersion)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}

	return nil
}

// Delete removes the key.
func (s *RedisStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.key, err)
	}

	return nil
}

// Name returns "redis".
func (s *RedisStore) Name() string {
	return "redis"
}
