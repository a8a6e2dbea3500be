package detect

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mikey/mailrisk/internal/core"
)

// Thresholds holds the score boundaries for risk classification. The lower
// bound of each band is inclusive.
type Thresholds struct {
	Warn       int
	Suspicious int
}

// DefaultThresholds matches the tuned production boundaries: below 40 is ok,
// 40–69 warns, 70 and above is suspicious.
var DefaultThresholds = Thresholds{Warn: 40, Suspicious: 70}

// Engine runs every detector over a message, aggregates triggered weights
// into a clamped score, classifies it, and composes the explanation list.
type Engine struct {
	catalog    *Catalog
	detectors  []Detector
	thresholds Thresholds
	logger     *zap.Logger
}

// NewEngine creates a scoring engine and validates that detectors and
// catalog are in lock-step. A validation failure is a deployment defect and
// must abort startup.
func NewEngine(catalog *Catalog, detectors []Detector, thresholds Thresholds, logger *zap.Logger) (*Engine, error) {
	if err := catalog.Validate(detectors); err != nil {
		return nil, err
	}
	if thresholds.Warn <= 0 || thresholds.Suspicious <= thresholds.Warn {
		return nil, fmt.Errorf("invalid thresholds: warn=%d suspicious=%d", thresholds.Warn, thresholds.Suspicious)
	}
	for _, def := range catalog.definitions {
		if def.Weight >= thresholds.Suspicious {
			logger.Warn("Single signal can reach suspicious level with configured weights",
				zap.String("signal", def.ID),
				zap.Int("weight", def.Weight),
				zap.Int("suspicious_threshold", thresholds.Suspicious))
		}
	}
	return &Engine{
		catalog:    catalog,
		detectors:  detectors,
		thresholds: thresholds,
		logger:     logger,
	}, nil
}

// Score evaluates all detectors, unconditionally and in parallel, then joins
// before aggregation. Every applicable signal must appear in the result, so
// there is no early exit.
func (e *Engine) Score(ctx context.Context, msg *core.NormalizedMessage) (*core.RiskAssessment, error) {
	results := make([]SignalResult, len(e.detectors))

	g, _ := errgroup.WithContext(ctx)
	for i, d := range e.detectors {
		i, d := i, d
		g.Go(func() error {
			results[i] = d.Evaluate(msg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	score := 0
	var triggered []SignalResult
	for _, res := range results {
		if !res.Triggered {
			continue
		}
		def, err := e.catalog.Lookup(res.ID)
		if err != nil {
			// Validate guarantees this cannot happen for the registered set.
			return nil, err
		}
		score += def.Weight
		triggered = append(triggered, res)
	}
	if score > 100 {
		score = 100
	}

	explanations, signals, err := Compose(e.catalog, triggered)
	if err != nil {
		return nil, err
	}

	return &core.RiskAssessment{
		Score:        score,
		Level:        e.levelFor(score),
		Explanations: explanations,
		Signals:      signals,
		ComputedAt:   time.Now().UTC(),
		ProcessingID: uuid.NewString(),
	}, nil
}

func (e *Engine) levelFor(score int) core.RiskLevel {
	switch {
	case score >= e.thresholds.Suspicious:
		return core.LevelSuspicious
	case score >= e.thresholds.Warn:
		return core.LevelWarn
	default:
		return core.LevelOK
	}
}
