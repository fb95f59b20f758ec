package usecase

import (
	"context"
	"encoding/json"
	"time"

	"AdPulse/internal/domain/models"
	domsvc "AdPulse/internal/domain/service"
	"AdPulse/internal/service/cache"
	"AdPulse/internal/service/metrics"
	"AdPulse/pkg/logger"
)

const statsCacheKey = "ml:model-stats"

// StatsCache fronts the model statistics endpoint with a short-lived cache.
type StatsCache struct {
	predictor domsvc.Predictor
	cache     cache.BytesCache
	ttl       time.Duration
	log       *logger.Logger
}

func NewStatsCache(predictor domsvc.Predictor, c cache.BytesCache, ttl time.Duration, log *logger.Logger) *StatsCache {
	if c == nil {
		c = cache.NewMemoryBytesCache()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &StatsCache{predictor: predictor, cache: c, ttl: ttl, log: log}
}

// Get returns model statistics and whether they came from the cache.
func (s *StatsCache) Get(ctx context.Context) (models.ModelStats, bool, error) {
	if s.ttl > 0 {
		if b, ok, err := s.cache.GetBytes(ctx, statsCacheKey); err == nil && ok {
			var st models.ModelStats
			if err := json.Unmarshal(b, &st); err == nil {
				metrics.CacheLookups.WithLabelValues("ml_stats", "hit").Inc()
				return st, true, nil
			}
		} else if err != nil {
			s.log.Warn("stats cache read failed", logger.Error(err))
		}
		metrics.CacheLookups.WithLabelValues("ml_stats", "miss").Inc()
	}

	st, err := s.predictor.Stats(ctx)
	if err != nil {
		return models.ModelStats{}, false, err
	}
	if s.ttl > 0 {
		if b, err := json.Marshal(st); err == nil {
			if err := s.cache.SetBytes(ctx, statsCacheKey, b, s.ttl); err != nil {
				s.log.Warn("stats cache write failed", logger.Error(err))
			}
		}
	}
	return st, false, nil
}

// Invalidate drops the cached statistics.
func (s *StatsCache) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, statsCacheKey)
}
