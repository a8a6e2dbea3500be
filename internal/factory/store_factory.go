package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mikey/mailrisk/internal/adapters/store"
	"github.com/mikey/mailrisk/internal/config"
	"github.com/mikey/mailrisk/internal/core"
)

// StoreFactory creates message stores based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStore creates the canonical message store based on the
// configuration. Every supported backend also serves as the fallback
// search index.
func (f *StoreFactory) CreateStore() (core.MessageStore, core.SearchIndex, error) {
	storeCfg := f.cfg.GetStore()

	switch storeCfg.Type {
	case "memory":
		s := store.NewMemoryStore()
		return s, s, nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(storeCfg.SQLitePath), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		s, err := store.NewSQLiteStore(storeCfg.SQLitePath, f.logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case "mysql":
		s, err := store.NewMySQLStore(storeCfg.MySQLDSN, f.logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store type: %s", storeCfg.Type)
	}
}
