// Package db opens the Postgres record store and manages its schema.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// schema is idempotent. The text-search indexes use the same expressions as
// the repository queries so the planner can pick them up.
const schema = `
CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    tags TEXT[] NOT NULL DEFAULT '{}',
    is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS notes_owner_created_idx ON notes (owner_id, created_at DESC);
CREATE INDEX IF NOT EXISTS notes_tags_idx ON notes USING GIN (tags);
CREATE INDEX IF NOT EXISTS notes_search_idx ON notes
    USING GIN (to_tsvector('simple', title || ' ' || content));

CREATE TABLE IF NOT EXISTS bookmarks (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    url TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    tags TEXT[] NOT NULL DEFAULT '{}',
    is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS bookmarks_owner_created_idx ON bookmarks (owner_id, created_at DESC);
CREATE INDEX IF NOT EXISTS bookmarks_tags_idx ON bookmarks USING GIN (tags);
CREATE INDEX IF NOT EXISTS bookmarks_search_idx ON bookmarks
    USING GIN (to_tsvector('simple', title || ' ' || description));
`

const dropSchema = `
DROP TABLE IF EXISTS notes;
DROP TABLE IF EXISTS bookmarks;
`

// Open opens a connection pool for dsn and verifies it with a ping.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// InitPostgres opens dsn with Open and applies the schema.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}

	if err := ApplySchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// ApplySchema creates the record tables and their indexes if missing.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// DropSchema removes the record tables.
func DropSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, dropSchema); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	return nil
}
