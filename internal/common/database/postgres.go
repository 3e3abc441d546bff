package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"apartmentiq-workers/internal/common/config"

	_ "github.com/lib/pq"
)

type PostgresClient struct {
	DB *sql.DB
}

// schema holds the tables the access workers read and write.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS user_subscriptions (
		user_id    TEXT PRIMARY KEY,
		tier       TEXT NOT NULL,
		expires_at TEXT NOT NULL DEFAULT '',
		is_valid   BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS property_unlocks (
		user_id     TEXT NOT NULL,
		property_id TEXT NOT NULL,
		payment_id  TEXT NOT NULL DEFAULT '',
		unlocked_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, property_id)
	)`,
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// EnsureSchema creates the subscription and unlock tables when missing.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
