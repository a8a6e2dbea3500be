package core

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RiskService is the core service for message risk assessment. It owns the
// retrieval strategy: cache, then canonical store, then fallback index.
type RiskService struct {
	store         MessageStore
	index         SearchIndex
	cache         CacheRepository
	scorer        Scorer
	metrics       MetricsEmitter
	logger        *zap.Logger
	cacheEnabled  bool
	lookupTimeout time.Duration
}

// NewRiskService creates a new risk assessment service.
func NewRiskService(
	store MessageStore,
	index SearchIndex,
	cache CacheRepository,
	scorer Scorer,
	metrics MetricsEmitter,
	logger *zap.Logger,
	cacheEnabled bool,
	lookupTimeout time.Duration,
) *RiskService {
	return &RiskService{
		store:         store,
		index:         index,
		cache:         cache,
		scorer:        scorer,
		metrics:       metrics,
		logger:        logger,
		cacheEnabled:  cacheEnabled,
		lookupTimeout: lookupTimeout,
	}
}

// Assess returns the risk assessment for a message id. Cached results are
// served as-is within their TTL. On a miss the canonical store is queried
// first; if it errors, times out, or has no record, the fallback index is
// tried before giving up with ErrMessageNotFound.
func (s *RiskService) Assess(ctx context.Context, messageID string) (*RiskAssessment, error) {
	if s.cacheEnabled {
		if cached, ok := s.cache.Get(ctx, messageID); ok {
			s.logger.Debug("Cache hit for message", zap.String("message_id", messageID))
			return cached, nil
		}
	}

	msg, err := s.primaryLookup(ctx, messageID)
	if err != nil || msg == nil {
		if err != nil {
			s.logger.Warn("Primary lookup failed, trying fallback",
				zap.String("message_id", messageID),
				zap.Error(err))
		}
		msg, err = s.fallbackLookup(ctx, messageID)
		if err != nil {
			s.logger.Warn("Fallback lookup failed",
				zap.String("message_id", messageID),
				zap.Error(err))
			return nil, ErrMessageNotFound
		}
		if msg == nil {
			return nil, ErrMessageNotFound
		}
	}

	assessment, err := s.scorer.Score(ctx, msg)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled {
		// Concurrent computes for the same key may race here; last write
		// wins, which is acceptable since results are deterministic.
		s.cache.Set(ctx, messageID, assessment)
	}

	s.metrics.ServedAssessment(assessment.Level)

	s.logger.Info("Served risk assessment",
		zap.String("message_id", messageID),
		zap.Int("score", assessment.Score),
		zap.String("level", string(assessment.Level)),
		zap.Strings("signals", assessment.Signals))

	return assessment, nil
}

func (s *RiskService) primaryLookup(ctx context.Context, messageID string) (*NormalizedMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()
	return s.store.GetMessage(ctx, messageID)
}

func (s *RiskService) fallbackLookup(ctx context.Context, messageID string) (*NormalizedMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()
	return s.index.Search(ctx, messageID)
}
