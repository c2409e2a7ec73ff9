package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

// Keys in the settings table. invoice_seq is read and advanced inside the
// invoice-creation transaction; jwt_secret is generated once at first start.
const (
	settingJWTSecret  = "jwt_secret"
	settingInvoiceSeq = "invoice_seq"
)

// GetJWTSecret returns the persisted signing secret, generating and storing
// one on first use. INSERT OR IGNORE + re-SELECT keeps two concurrently
// starting processes from ending up with different secrets.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}

	if err := ensureSetting(ctx, db, settingJWTSecret, hex.EncodeToString(buf)); err != nil {
		return "", err
	}
	return getSetting(ctx, db, settingJWTSecret)
}

// ensureSetting stores a value for key unless one already exists.
func ensureSetting(ctx context.Context, db *sql.DB, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, value,
	)
	if err != nil {
		return fmt.Errorf("storing setting %s: %w", key, err)
	}
	return nil
}

func getSetting(ctx context.Context, db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, nil
}
