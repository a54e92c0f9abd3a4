package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/MaiNhanKiet/look-up-convocation2025/internal/dto"
	appErrors "github.com/MaiNhanKiet/look-up-convocation2025/pkg/errors"
)

const defaultViewCacheTTL = 5 * time.Minute

type viewCacheStore interface {
	Load(ctx context.Context, studentID string) ([]byte, error)
	Store(ctx context.Context, studentID string, payload []byte, ttl time.Duration) error
	Evict(ctx context.Context, studentIDs ...string) (int64, error)
}

// ViewCache holds masked public lookup views between imports. Each entry
// lives for ttl plus up to a tenth more, so views cached together after an
// import do not all expire at once. Backend failures degrade to misses.
type ViewCache struct {
	store   viewCacheStore
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	jitter  func(max time.Duration) time.Duration
}

// NewViewCache constructs a view cache. metrics and logger may be nil.
func NewViewCache(store viewCacheStore, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *ViewCache {
	if ttl <= 0 {
		ttl = defaultViewCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewCache{
		store:   store,
		metrics: metrics,
		ttl:     ttl,
		logger:  logger,
		jitter: func(max time.Duration) time.Duration {
			if max <= 0 {
				return 0
			}
			return time.Duration(rand.Int63n(int64(max)))
		},
	}
}

func (c *ViewCache) active() bool {
	return c != nil && c.store != nil
}

// Get returns the cached view of studentID, if any.
func (c *ViewCache) Get(ctx context.Context, studentID string) (*dto.BachelorView, bool) {
	if !c.active() {
		return nil, false
	}
	start := time.Now()
	raw, err := c.store.Load(ctx, studentID)
	c.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			c.logger.Warn("view cache read failed", zap.String("student_id", studentID), zap.Error(err))
		}
		return nil, false
	}

	var view dto.BachelorView
	if err := json.Unmarshal(raw, &view); err != nil || view.StudentID == "" {
		c.logger.Warn("dropping unreadable cached view", zap.String("student_id", studentID), zap.Error(err))
		_, _ = c.store.Evict(ctx, studentID)
		return nil, false
	}
	return &view, true
}

// Put caches a view under its own student ID.
func (c *ViewCache) Put(ctx context.Context, view *dto.BachelorView) {
	if !c.active() || view == nil || view.StudentID == "" {
		return
	}
	payload, err := json.Marshal(view)
	if err != nil {
		c.logger.Warn("view cache encode failed", zap.String("student_id", view.StudentID), zap.Error(err))
		return
	}
	start := time.Now()
	err = c.store.Store(ctx, view.StudentID, payload, c.ttl+c.jitter(c.ttl/10))
	c.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		c.logger.Warn("view cache write failed", zap.String("student_id", view.StudentID), zap.Error(err))
	}
}

// Evict drops the cached views of the given students, typically after an
// import rewrote their records.
func (c *ViewCache) Evict(ctx context.Context, studentIDs ...string) (int64, error) {
	if !c.active() || len(studentIDs) == 0 {
		return 0, nil
	}
	removed, err := c.store.Evict(ctx, studentIDs...)
	if err != nil {
		c.logger.Warn("view cache eviction failed", zap.Int("students", len(studentIDs)), zap.Error(err))
		return removed, err
	}
	c.logger.Info("view cache evicted", zap.Int("students", len(studentIDs)), zap.Int64("removed", removed))
	return removed, nil
}
