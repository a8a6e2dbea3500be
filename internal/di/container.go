package di

import (
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/mailrisk/internal/config"
	"github.com/mikey/mailrisk/internal/core"
	"github.com/mikey/mailrisk/internal/detect"
	"github.com/mikey/mailrisk/internal/factory"
	"github.com/mikey/mailrisk/internal/logging"
	"github.com/mikey/mailrisk/internal/metrics"
	"github.com/mikey/mailrisk/internal/server"
)

// storeResult lets one factory call provide both lookup ports.
type storeResult struct {
	dig.Out

	Store core.MessageStore
	Index core.SearchIndex
}

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewEngineFactory); err != nil {
		return nil, err
	}

	// Register message store and fallback index
	if err := container.Provide(func(f *factory.StoreFactory) (storeResult, error) {
		store, index, err := f.CreateStore()
		if err != nil {
			return storeResult{}, err
		}
		return storeResult{Store: store, Index: index}, nil
	}); err != nil {
		return nil, err
	}

	// Register assessment cache
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) bool {
		return f.IsCacheEnabled()
	}); err != nil {
		return nil, err
	}

	// Register per-lookup timeout
	if err := container.Provide(func(cfg *config.Config) (time.Duration, error) {
		return cfg.GetDuration("lookup.timeout")
	}); err != nil {
		return nil, err
	}

	// Register detection engine; catalog validation happens here, so a
	// detector/catalog mismatch fails container construction, not a request.
	if err := container.Provide(func(f *factory.EngineFactory) (*detect.Engine, error) {
		return f.CreateEngine()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(e *detect.Engine) core.Scorer { return e }); err != nil {
		return nil, err
	}

	// Register metrics recorder
	if err := container.Provide(func(logger *zap.Logger) (core.MetricsEmitter, error) {
		if err := metrics.Register(nil); err != nil {
			return nil, err
		}
		return metrics.NewRecorder(logger), nil
	}); err != nil {
		return nil, err
	}

	// Register risk service
	if err := container.Provide(core.NewRiskService); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(func(cfg *config.Config, svc *core.RiskService, logger *zap.Logger) *server.Server {
		return server.New(cfg.GetServer().ListenAddress, svc, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
