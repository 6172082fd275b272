package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/eslsoft/vocabbook/internal/infrastructure/config"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// NewDB opens a database handle for the configured driver.
func NewDB(cfg *config.Config) (*sql.DB, func(), error) {
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database driver: %w", err)
	}
	dsn, err := cfg.DatabaseDSN()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database dsn: %w", err)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s db: %w", driver, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping sqlite db: %w", err)
		}
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	} else {
		db.SetMaxOpenConns(10)
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping %s db: %w", driver, err)
		}
	}

	return db, func() { _ = db.Close() }, nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS vocabs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	word TEXT NOT NULL,
	context TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT '',
	freq REAL NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_vocabs_word ON vocabs (word);
CREATE INDEX IF NOT EXISTS idx_vocabs_freq_id ON vocabs (freq DESC, id DESC);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS vocabs (
	id BIGSERIAL PRIMARY KEY,
	word TEXT NOT NULL,
	context TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT '',
	freq DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_vocabs_word ON vocabs (word);
CREATE INDEX IF NOT EXISTS idx_vocabs_freq_id ON vocabs (freq DESC, id DESC);
`

// Migrate creates the vocabs table and its indexes when missing.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	schema := sqliteSchema
	if driver == "postgres" {
		schema = postgresSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
