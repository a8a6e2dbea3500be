// Package cache provides the in-memory TTL memoization of risk assessments.
package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/mailrisk/internal/core"
)

// MemoryCache is an in-memory implementation of the CacheRepository port.
// Expired entries are treated as misses and evicted lazily on access; the
// background sweep only bounds memory and is not required for correctness.
type MemoryCache struct {
	entries     map[string]*core.CacheEntry
	mu          sync.RWMutex
	logger      *zap.Logger
	ttl         time.Duration
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewMemoryCache creates a new in-memory assessment cache. A cleanupFreq of
// zero disables the background sweep.
func NewMemoryCache(logger *zap.Logger, ttl, cleanupFreq time.Duration) *MemoryCache {
	c := &MemoryCache{
		entries:     make(map[string]*core.CacheEntry),
		logger:      logger,
		ttl:         ttl,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	if cleanupFreq > 0 {
		go c.startCleanupTask()
	}

	return c
}

// Get returns the cached assessment for a message id, if present and fresh.
func (c *MemoryCache) Get(_ context.Context, messageID string) (*core.RiskAssessment, bool) {
	c.mu.RLock()
	entry, ok := c.entries[messageID]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; another writer may have refreshed it.
		if cur, still := c.entries[messageID]; still && time.Now().After(cur.ExpiresAt) {
			delete(c.entries, messageID)
		}
		c.mu.Unlock()
		return nil, false
	}

	return entry.Assessment, true
}

// Set stores an assessment under the configured TTL. Concurrent writers for
// the same key race benignly; the last write wins.
func (c *MemoryCache) Set(_ context.Context, messageID string, assessment *core.RiskAssessment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[messageID] = &core.CacheEntry{
		MessageID:  messageID,
		Assessment: assessment,
		ExpiresAt:  time.Now().Add(c.ttl),
	}
}

// Cleanup removes expired entries.
func (c *MemoryCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expiredCount := 0
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			expiredCount++
		}
	}

	if expiredCount > 0 {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int("expired_count", expiredCount))
	}
}

func (c *MemoryCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Cleanup()
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task.
func (c *MemoryCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}
