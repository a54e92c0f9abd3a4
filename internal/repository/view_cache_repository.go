package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/MaiNhanKiet/look-up-convocation2025/pkg/errors"
)

const (
	viewCacheNamespace = "convocation:bachelor-view"
	evictBatchSize     = 500
)

// ViewCacheKey returns the Redis key holding a student's public lookup view.
// IDs are case-folded so "se123456" and "SE123456" share one entry.
func ViewCacheKey(studentID string) string {
	return viewCacheNamespace + ":" + strings.ToUpper(strings.TrimSpace(studentID))
}

// ViewCacheRepository keeps serialized lookup views in Redis keyed by student
// ID. A nil client behaves as an always-empty cache.
type ViewCacheRepository struct {
	client *redis.Client
}

// NewViewCacheRepository constructs the repository.
func NewViewCacheRepository(client *redis.Client) *ViewCacheRepository {
	return &ViewCacheRepository{client: client}
}

// Load returns the stored payload or ErrCacheMiss.
func (r *ViewCacheRepository) Load(ctx context.Context, studentID string) ([]byte, error) {
	if r.client == nil {
		return nil, appErrors.ErrCacheMiss
	}
	raw, err := r.client.Get(ctx, ViewCacheKey(studentID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get view %s: %w", studentID, err)
	}
	return raw, nil
}

// Store writes the payload with the given expiry.
func (r *ViewCacheRepository) Store(ctx context.Context, studentID string, payload []byte, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Set(ctx, ViewCacheKey(studentID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set view %s: %w", studentID, err)
	}
	return nil
}

// Evict unlinks the views of the given students, evictBatchSize keys per
// command, and reports how many entries existed.
func (r *ViewCacheRepository) Evict(ctx context.Context, studentIDs ...string) (int64, error) {
	if r.client == nil || len(studentIDs) == 0 {
		return 0, nil
	}
	var removed int64
	for start := 0; start < len(studentIDs); start += evictBatchSize {
		batch := studentIDs[start:min(start+evictBatchSize, len(studentIDs))]
		keys := make([]string, len(batch))
		for i, id := range batch {
			keys[i] = ViewCacheKey(id)
		}
		n, err := r.client.Unlink(ctx, keys...).Result()
		if err != nil {
			return removed, fmt.Errorf("redis unlink %d views: %w", len(keys), err)
		}
		removed += n
	}
	return removed, nil
}
