// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"contract-workers/internal/common/config"
	"contract-workers/internal/common/errors"

	_ "github.com/lib/pq"
)

// schemaStatements creates the tables used by the template and contract stores.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS contract_templates (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		category         TEXT NOT NULL DEFAULT '',
		content          JSONB NOT NULL,
		fields           JSONB NOT NULL,
		optional_clauses JSONB NOT NULL,
		is_active        BOOLEAN NOT NULL DEFAULT TRUE,
		sort_order       INTEGER NOT NULL DEFAULT 0,
		version          INTEGER NOT NULL DEFAULT 1,
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id               TEXT PRIMARY KEY,
		template_id      TEXT NOT NULL REFERENCES contract_templates(id),
		template_version INTEGER NOT NULL,
		owner_id         TEXT NOT NULL DEFAULT '',
		title            TEXT NOT NULL,
		rendered_content TEXT NOT NULL,
		plain_text       TEXT NOT NULL,
		template_data    JSONB NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS contracts_template_id_idx ON contracts (template_id)`,
}

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres creates a new PostgreSQL client
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

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return errors.NewDatabaseConnectionFailedError(err)
	}
	return nil
}

// EnsureSchema creates the contract tables when they do not exist yet.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
