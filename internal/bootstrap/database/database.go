package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"deliverydesk/internal/bootstrap/config"
	"deliverydesk/internal/bootstrap/logging"
	"deliverydesk/internal/errs"
	"deliverydesk/internal/infrastructure/persistence/sqlite/model"
)

// Open connects to the in-memory SQLite store and creates its schema.
// The pool is pinned to one connection: every new connection to :memory: is a fresh, empty database.
func Open(ctx context.Context, cfg config.StoreConfig) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.database"))

	if cfg.Driver != config.DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if !config.IsInMemoryDSN(cfg.DSN) {
		return nil, fmt.Errorf("refusing on-disk sqlite dsn %q", cfg.DSN)
	}

	db, err := gorm.Open(gormsqlite.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errs.Wrap(err, "open sqlite db")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errs.Wrap(err, "get sql db")
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		_ = sqlDB.Close()
		return nil, errs.Wrap(err, "auto migrate schema")
	}

	logging.Info(logCtx, "database opened", slog.String("driver", cfg.Driver), slog.String("dsn", cfg.DSN))
	return db, nil
}

func Close(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return errs.Wrap(err, "get sql db")
	}
	if err := sqlDB.Close(); err != nil {
		return errs.Wrap(err, "close sql db")
	}

	logging.Info(logging.WithAttrs(ctx, slog.String("component", "bootstrap.database")), "database connection closed")
	return nil
}
