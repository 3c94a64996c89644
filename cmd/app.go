package cmd

import (
	"context"
	"fmt"
	"time"

	"qr-registry/core/config"
	"qr-registry/core/database"
	"qr-registry/core/logger"
	"qr-registry/core/reconcile"
	"qr-registry/core/storage"
	"qr-registry/feature/media"
	"qr-registry/feature/records/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds the wired dependencies shared by every command.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *gorm.DB
	records  *store.Store
	blobs    storage.Client
	uploader *media.Uploader
	engine   *reconcile.Engine
}

// bootstrap loads configuration and connects the record store and blob store.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection required: %w", err)
	}
	logg = logg.With(zap.String("driver", cfg.Database.Driver))

	records := store.New(db, logg)
	if err := records.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate record table: %w", err)
	}

	blobs, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	uploader := media.NewUploader(blobs, cfg.Storage, logg)

	return &app{
		cfg:      cfg,
		log:      logg,
		db:       db,
		records:  records,
		blobs:    blobs,
		uploader: uploader,
		engine:   reconcile.NewEngine(records, uploader, logg),
	}, nil
}

// operationTimeout is the per lookup/commit bound from config, zero when disabled.
func (a *app) operationTimeout() time.Duration {
	return time.Duration(a.cfg.Scan.OperationTimeoutSeconds) * time.Second
}

func (a *app) close() {
	_ = a.log.Sync()
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
