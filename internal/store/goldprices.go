package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/khinezaw/shwezin/internal/model"
)

// RecordGoldPrice stores an operator-entered market rate (price of pure
// gold per tickal).
func RecordGoldPrice(ctx context.Context, db *sql.DB, price float64, recordedBy *int64) (*model.GoldPrice, error) {
	if price <= 0 {
		return nil, model.Invalid("price", "must be positive")
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO gold_prices (price, recorded_by) VALUES (?, ?)`,
		price, recordedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("recording gold price: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting gold price id: %w", err)
	}

	gp := &model.GoldPrice{}
	err = db.QueryRowContext(ctx,
		`SELECT id, price, recorded_at, recorded_by FROM gold_prices WHERE id = ?`, id,
	).Scan(&gp.ID, &gp.Price, &gp.RecordedAt, &gp.RecordedBy)
	if err != nil {
		return nil, fmt.Errorf("getting gold price: %w", err)
	}
	return gp, nil
}

// LatestGoldPrice returns the most recently recorded rate, or nil if none
// has been entered yet.
func LatestGoldPrice(ctx context.Context, db *sql.DB) (*model.GoldPrice, error) {
	gp := &model.GoldPrice{}
	err := db.QueryRowContext(ctx,
		`SELECT id, price, recorded_at, recorded_by FROM gold_prices
		 ORDER BY recorded_at DESC, id DESC LIMIT 1`,
	).Scan(&gp.ID, &gp.Price, &gp.RecordedAt, &gp.RecordedBy)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting latest gold price: %w", err)
	}
	return gp, nil
}

// ListGoldPrices returns recorded rates, newest first, capped at limit
// (0 means no cap).
func ListGoldPrices(ctx context.Context, db *sql.DB, limit int) ([]model.GoldPrice, error) {
	query := `SELECT id, price, recorded_at, recorded_by FROM gold_prices
	          ORDER BY recorded_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing gold prices: %w", err)
	}
	defer rows.Close()

	var prices []model.GoldPrice
	for rows.Next() {
		var gp model.GoldPrice
		if err := rows.Scan(&gp.ID, &gp.Price, &gp.RecordedAt, &gp.RecordedBy); err != nil {
			return nil, fmt.Errorf("scanning gold price: %w", err)
		}
		prices = append(prices, gp)
	}
	return prices, rows.Err()
}
