package main

import (
	"context"
	"log"
	"time"

	"github.com/wuwenbin0122/taskpad/internal/db"
	"github.com/wuwenbin0122/taskpad/internal/utils"
)

// migrate creates the indexes or tables the configured store driver relies on.
func main() {
	if err := utils.LoadEnvFiles(".env", "config/.env"); err != nil {
		log.Printf("config: env file not loaded: %v", err)
	}

	cfg, err := utils.LoadStoreConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := utils.MustNewLogger(cfg.Logging).Sugar()
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	switch cfg.StoreDriver {
	case utils.StorePostgres:
		postgres, err := db.NewPostgres(ctx, cfg.Postgres)
		if err != nil {
			logger.Fatalw("connect postgres failed", "error", err)
		}
		defer postgres.Close()

		if err := postgres.EnsureSchema(ctx); err != nil {
			logger.Fatalw("ensure schema failed", "error", err)
		}

	case utils.StoreMongo:
		mongoStore, err := db.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			logger.Fatalw("connect mongo failed", "error", err)
		}
		defer mongoStore.Close(context.Background())

		if err := mongoStore.EnsureCollections(ctx); err != nil {
			logger.Fatalw("ensure collections failed", "error", err)
		}

	default:
		logger.Fatalw("store driver has nothing to migrate", "driver", cfg.StoreDriver)
	}

	logger.Infow("store migrated", "driver", cfg.StoreDriver, "at", time.Now().Format(time.RFC3339))
}
