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
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'manager', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS items (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    category   TEXT NOT NULL DEFAULT '',
    materials  TEXT NOT NULL DEFAULT '',
    weight_g   REAL NOT NULL CHECK (weight_g > 0),
    stock      INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
    image      BLOB,
    image_mime TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE TABLE IF NOT EXISTS invoices (
    id                INTEGER PRIMARY KEY,
    number            TEXT NOT NULL,
    type              TEXT NOT NULL CHECK (type IN ('sales', 'pawn', 'buy')),
    customer_name     TEXT NOT NULL,
    customer_phone    TEXT,
    customer_address  TEXT,
    status            TEXT NOT NULL,
    due_date          DATETIME,
    notes             TEXT,
    skip_stock_update INTEGER NOT NULL DEFAULT 0,
    subtotal          REAL NOT NULL DEFAULT 0,
    discount          REAL NOT NULL DEFAULT 0,
    total             REAL NOT NULL DEFAULT 0,
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    created_by        INTEGER REFERENCES users(id)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_number ON invoices(number);

CREATE TABLE IF NOT EXISTS invoice_lines (
    id          INTEGER PRIMARY KEY,
    invoice_id  INTEGER NOT NULL REFERENCES invoices(id),
    position    INTEGER NOT NULL,
    item_id     INTEGER REFERENCES items(id),
    name        TEXT NOT NULL DEFAULT '',
    category    TEXT NOT NULL DEFAULT '',
    weight_g    REAL NOT NULL DEFAULT 0,
    quantity    INTEGER NOT NULL CHECK (quantity > 0),
    price       REAL NOT NULL DEFAULT 0 CHECK (price >= 0),
    discount    REAL NOT NULL DEFAULT 0 CHECK (discount >= 0),
    return_type TEXT NOT NULL DEFAULT '',
    total       REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_invoice_lines_invoice ON invoice_lines(invoice_id);

CREATE TABLE IF NOT EXISTS gold_prices (
    id          INTEGER PRIMARY KEY,
    price       REAL NOT NULL CHECK (price > 0),
    recorded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    recorded_by INTEGER REFERENCES users(id)
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
