package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/mailrisk/internal/config"
	"github.com/mikey/mailrisk/internal/detect"
)

// EngineFactory builds the detection engine from the signal configuration
type EngineFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewEngineFactory creates a new engine factory
func NewEngineFactory(cfg *config.Config, logger *zap.Logger) *EngineFactory {
	return &EngineFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateEngine builds the catalog and detector set and validates them
// against each other. A mismatch aborts startup.
func (f *EngineFactory) CreateEngine() (*detect.Engine, error) {
	signals := f.cfg.GetSignals()

	catalog, err := detect.NewCatalog(signals.Weights)
	if err != nil {
		return nil, err
	}

	detectors := detect.NewDetectors(signals.RiskyExtensions, signals.ShortenerDomains)

	thresholds := detect.DefaultThresholds
	if signals.WarnThreshold > 0 {
		thresholds.Warn = signals.WarnThreshold
	}
	if signals.SuspiciousThreshold > 0 {
		thresholds.Suspicious = signals.SuspiciousThreshold
	}

	return detect.NewEngine(catalog, detectors, thresholds, f.logger)
}
