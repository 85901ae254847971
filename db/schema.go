// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the block runtime.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Portable between PostgreSQL and SQLite: answers and poll_answers hold JSON text.
// block holds the definition and the shared tally; learner holds each
// learner's own vote.
const schema = `
CREATE TABLE IF NOT EXISTS block (
    id TEXT PRIMARY KEY,
    display_name TEXT NOT NULL DEFAULT '',
    question TEXT NOT NULL DEFAULT '',
    answers TEXT NOT NULL DEFAULT '[]',
    poll_answers TEXT NOT NULL DEFAULT '{}',
    reset BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS learner (
    block_id TEXT NOT NULL REFERENCES block(id) ON DELETE CASCADE,
    token TEXT NOT NULL,
    poll_answer TEXT NOT NULL DEFAULT '',
    voted BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (block_id, token),
    CHECK (voted = (poll_answer <> ''))
);

CREATE INDEX IF NOT EXISTS idx_block_updated_at ON block(updated_at);
`
