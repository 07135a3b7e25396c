// Package database opens the PostgreSQL pool and the gorm handle layered on it.
package database

import (
	"context"
	"database/sql"
	"fmt"

	"couple-journal-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB owns the pgx pool and the gorm handle sharing it.
type DB struct {
	Pool *pgxpool.Pool
	Gorm *gorm.DB
	sql  *sql.DB
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(log.Logger),
	})
	if err != nil {
		sqlDB.Close()
		pool.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	return &DB{Pool: pool, Gorm: gdb, sql: sqlDB}, nil
}

// Migrate creates or updates every table.
func (d *DB) Migrate(ctx context.Context) error {
	if err := d.Gorm.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Ping checks the pool is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// Close releases the gorm handle and the pool.
func (d *DB) Close() {
	if err := d.sql.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close sql handle")
	}
	d.Pool.Close()
}
