package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ghostname-service/internal/config"
)

// Database is an open store handle for either driver.
type Database struct {
	DB     *sql.DB
	Driver string
	pg     *Postgres
}

// Open connects to the configured store and, when enabled, migrates it.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (*Database, error) {
	d := &Database{Driver: cfg.Driver}

	switch cfg.Driver {
	case config.DriverPostgres:
		pg, err := NewPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		d.pg = pg
		d.DB = pg.DB()
	case config.DriverSQLite:
		db, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("opened sqlite store", zap.String("path", cfg.SQLitePath))
		d.DB = db
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}

	if cfg.RunMigrations {
		if err := RunMigrations(ctx, d.DB, d.Driver, logger); err != nil {
			d.Close()
			return nil, err
		}
	}
	return d, nil
}

// Ping verifies the store is reachable.
func (d *Database) Ping(ctx context.Context) error {
	if d == nil || d.DB == nil {
		return fmt.Errorf("store not configured")
	}
	return d.DB.PingContext(ctx)
}

// Close releases the store handle.
func (d *Database) Close() {
	if d == nil {
		return
	}
	if d.pg != nil {
		d.pg.Close()
		return
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
