package core

import (
	"context"
	"errors"
)

// ErrMessageNotFound is returned by Assess when both the canonical store and
// the fallback index have no record of the message. It is the only error
// that crosses the core boundary; callers should render it as "no assessment
// available yet", not as a failure.
var ErrMessageNotFound = errors.New("message not found")

// MessageStore is the canonical store for normalized message records.
type MessageStore interface {
	// GetMessage retrieves a message by its canonical identifier.
	// Returns (nil, nil) when no record exists.
	GetMessage(ctx context.Context, messageID string) (*NormalizedMessage, error)
}

// SearchIndex is the secondary lookup path, queried when the canonical
// store errors or misses. It matches on broader identity (provider message
// id) and offers reduced guarantees.
type SearchIndex interface {
	// Search looks up a message by any known identity.
	// Returns (nil, nil) when nothing matches.
	Search(ctx context.Context, messageID string) (*NormalizedMessage, error)
}

// CacheRepository memoizes assessments by message identity for a short TTL.
type CacheRepository interface {
	// Get returns the cached assessment and true on a fresh hit.
	Get(ctx context.Context, messageID string) (*RiskAssessment, bool)

	// Set stores an assessment under the configured TTL.
	Set(ctx context.Context, messageID string, assessment *RiskAssessment)
}

// MetricsEmitter records served assessments by risk level. Implementations
// must never fail the caller; emission problems are logged and swallowed.
type MetricsEmitter interface {
	ServedAssessment(level RiskLevel)
}

// Scorer runs the detection pipeline over a message and produces an
// assessment. Implemented by the detect package's engine.
type Scorer interface {
	Score(ctx context.Context, msg *NormalizedMessage) (*RiskAssessment, error)
}
