package cmd

import (
	"fmt"

	"street-sync/core/config"
	"street-sync/core/database"
	"street-sync/core/logger"
	"street-sync/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles what every command needs.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	store  storage.Client
	db     *gorm.DB
}

// newRuntime loads the configuration and opens storage. The registry database
// is connected only when withDB is set.
func newRuntime(withDB bool) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: l, store: store}
	if withDB {
		db, err := connectRegistry(rt)
		if err != nil {
			return nil, err
		}
		rt.db = db
	}
	return rt, nil
}

// connectRegistry opens the registry database.
func connectRegistry(rt *runtime) (*gorm.DB, error) {
	db, err := database.Connect(rt.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
