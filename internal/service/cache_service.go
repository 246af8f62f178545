package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sma-attendance-monitor/pkg/errors"
)

// Cache lookup outcomes reported to metrics.
const (
	cacheResultHit   = "hit"
	cacheResultMiss  = "miss"
	cacheResultError = "error"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CacheService keeps per-institution reference snapshots under a key namespace. Every method is a
// no-op while caching is disabled, and a failing backend degrades to a miss.
type CacheService struct {
	repo      CacheRepository
	metrics   *MetricsService
	namespace string
	ttl       time.Duration
	logger    *zap.Logger
	enabled   bool
}

// CacheOptions configures a CacheService.
type CacheOptions struct {
	Namespace string
	TTL       time.Duration
	Enabled   bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, opts CacheOptions, logger *zap.Logger) *CacheService {
	if opts.TTL <= 0 {
		opts.TTL = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{
		repo:      repo,
		metrics:   metrics,
		namespace: opts.Namespace,
		ttl:       opts.TTL,
		logger:    logger,
		enabled:   opts.Enabled,
	}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

func (s *CacheService) key(institutionID string) string {
	return s.namespace + institutionID
}

// Load decodes the institution's cached entry into dest and reports whether it was found.
func (s *CacheService) Load(ctx context.Context, institutionID string, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}
	start := time.Now()
	err := s.repo.Get(ctx, s.key(institutionID), dest)
	switch {
	case err == nil:
		s.metrics.RecordCacheLookup(cacheResultHit, time.Since(start))
		return true
	case errors.Is(err, appErrors.ErrCacheMiss):
		s.metrics.RecordCacheLookup(cacheResultMiss, time.Since(start))
	default:
		s.metrics.RecordCacheLookup(cacheResultError, time.Since(start))
		s.logger.Warn("cache read failed", zap.String("institution_id", institutionID), zap.Error(err))
	}
	return false
}

// Store writes value for the institution with the configured TTL. Failures are logged only.
func (s *CacheService) Store(ctx context.Context, institutionID string, value interface{}) {
	if !s.Enabled() {
		return
	}
	start := time.Now()
	err := s.repo.Set(ctx, s.key(institutionID), value, s.ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache write failed", zap.String("institution_id", institutionID), zap.Error(err))
	}
}

// Drop removes the cached entries of the given institutions.
func (s *CacheService) Drop(ctx context.Context, institutionIDs ...string) error {
	if !s.Enabled() || len(institutionIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(institutionIDs))
	for _, id := range institutionIDs {
		keys = append(keys, s.key(id))
	}
	if err := s.repo.Delete(ctx, keys...); err != nil {
		s.logger.Warn("cache drop failed", zap.Strings("keys", keys), zap.Error(err))
		return err
	}
	return nil
}
