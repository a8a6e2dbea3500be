package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/mailrisk/internal/adapters/cache"
	"github.com/mikey/mailrisk/internal/config"
	"github.com/mikey/mailrisk/internal/core"
)

// CacheFactory creates the assessment cache based on configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCacheRepository creates the assessment cache
func (f *CacheFactory) CreateCacheRepository() (core.CacheRepository, error) {
	ttl, err := f.cfg.GetDuration("cache.ttl")
	if err != nil {
		return nil, err
	}
	cleanupFreq, err := f.cfg.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return nil, err
	}
	return cache.NewMemoryCache(f.logger, ttl, cleanupFreq), nil
}

// IsCacheEnabled returns whether caching is enabled
func (f *CacheFactory) IsCacheEnabled() bool {
	return f.cfg.GetBool("cache.enabled")
}
