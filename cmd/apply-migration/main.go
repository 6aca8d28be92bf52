// Command apply-migration creates the tap-talk schema in the configured database.
package main

import (
	"context"
	"time"

	"github.com/DidierBrusa/tap-talk-api/common/database"
	"github.com/DidierBrusa/tap-talk-api/common/logger"
	"github.com/DidierBrusa/tap-talk-api/db/migrations"
	"github.com/DidierBrusa/tap-talk-api/internal/config"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("invalid configuration", zap.Error(err))
	}
	log, err := logger.NewLogger(cfg.Log.Level, "console", "apply-migration")
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("cannot connect to database", zap.Error(err))
	}
	defer database.Close(db)
	log.Info("connected", zap.String("database", cfg.Database.Database), zap.String("host", cfg.Database.Host))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := migrations.Apply(ctx, db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("migration completed")
}
