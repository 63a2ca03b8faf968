package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"ecomcli/internal/config"
	apperrors "ecomcli/internal/errors"
	"ecomcli/internal/infrastructure"
)

// pingTimeout bounds the connectivity check in Open
const pingTimeout = 5 * time.Second

// DB is an open SQL connection pool together with its dialect
type DB struct {
	SQL     *sql.DB
	Dialect Dialect

	prefix string
	logger *slog.Logger
}

// Open connects to the database described by cfg and verifies the
// connection with a ping
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "storage")

	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid storage driver", err)
	}

	dsn, err := dialect.normalizeDSN(cfg.DSN)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid storage DSN", err)
	}

	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open connection", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("database ping failed", err)
	}

	logger.Info("Database connected",
		slog.String("driver", dialect.Driver),
		slog.Int("max_open_conns", cfg.MaxOpenConns))

	return NewDB(db, dialect, cfg.TablePrefix, logger), nil
}

// NewDB wraps an existing pool. prefix is prepended to every table written
// by the sink.
func NewDB(db *sql.DB, dialect Dialect, prefix string, logger *slog.Logger) *DB {
	if logger == nil {
		logger = slog.Default()
	}
	return &DB{SQL: db, Dialect: dialect, prefix: prefix, logger: logger}
}

// Source returns a reader of raw transactions
func (d *DB) Source() *Source {
	return &Source{db: d.SQL, dialect: d.Dialect, logger: d.logger}
}

// Sink returns a writer of result tables
func (d *DB) Sink() *Sink {
	return &Sink{db: d.SQL, dialect: d.Dialect, prefix: d.prefix, logger: d.logger}
}

// Close closes the pool
func (d *DB) Close() error {
	if err := d.SQL.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
