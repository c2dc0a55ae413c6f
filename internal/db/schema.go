package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Statements must stay idempotent so that
// Migrate can run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS parts (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    brand       TEXT NOT NULL DEFAULT '',
    model       TEXT NOT NULL DEFAULT '',
    category    TEXT NOT NULL DEFAULT '',
    fuel        TEXT NOT NULL DEFAULT '',
    engine      TEXT NOT NULL DEFAULT '',
    part_number TEXT NOT NULL DEFAULT '',
    quantity    INTEGER NOT NULL DEFAULT 0,
    price       REAL,
    note        TEXT NOT NULL DEFAULT '',
    location    TEXT NOT NULL DEFAULT '',
    images      TEXT NOT NULL DEFAULT '[]',
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Migrate creates all tables if they don't already exist.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
