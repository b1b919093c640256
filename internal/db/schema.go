package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS armor (
    id        INTEGER PRIMARY KEY,
    name      TEXT NOT NULL UNIQUE,
    set_code  TEXT,
    body_part TEXT NOT NULL CHECK (body_part IN ('HEAD', 'BODY', 'LEGS')),
    max_level INTEGER NOT NULL CHECK (max_level >= 0)
);

-- NULL set codes are distinct in SQLite unique indexes, so ungrouped pieces
-- may share a body part.
CREATE UNIQUE INDEX IF NOT EXISTS idx_armor_set_body_part
    ON armor(set_code, body_part);

CREATE TABLE IF NOT EXISTS armor_upgrade_costs (
    id       INTEGER PRIMARY KEY,
    armor_id INTEGER NOT NULL REFERENCES armor(id) ON DELETE CASCADE,
    level    INTEGER NOT NULL CHECK (level >= 0),
    material TEXT NOT NULL DEFAULT '',
    quantity INTEGER NOT NULL CHECK (quantity >= 0),
    CHECK ((material = '') = (quantity = 0)),
    UNIQUE (armor_id, level, material)
);

CREATE TABLE IF NOT EXISTS user_armor (
    user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    armor_id   INTEGER NOT NULL REFERENCES armor(id) ON DELETE CASCADE,
    level      INTEGER NOT NULL CHECK (level >= 0),
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (user_id, armor_id)
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
