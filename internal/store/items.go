package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/khinezaw/shwezin/internal/model"
)

// execer is satisfied by both *sql.DB and *sql.Tx so stock adjustments can
// run inside the invoice-creation transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateItem creates a new catalog item.
func CreateItem(ctx context.Context, db *sql.DB, name, category string, materials []string, weightG float64, stock int) (*model.Item, error) {
	if name == "" {
		return nil, model.Invalid("name", "required")
	}
	if weightG <= 0 {
		return nil, model.Invalid("weight_g", "must be positive")
	}
	if stock < 0 {
		return nil, model.Invalid("stock", "must not be negative")
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, category, materials, weight_g, stock) VALUES (?, ?, ?, ?, ?)`,
		name, category, joinMaterials(materials), weightG, stock,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	return getItem(ctx, db, id)
}

func getItem(ctx context.Context, q execer, id int64) (*model.Item, error) {
	item := &model.Item{}
	var category, materials, imageMime sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT id, name, category, materials, weight_g, stock, image_mime, created_at, updated_at, deleted_at
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &category, &materials, &item.WeightG, &item.Stock,
		&imageMime, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.Category = category.String
	item.Materials = splitMaterials(materials.String)
	item.ImageMime = imageMime.String
	return item, nil
}

// ListItems returns all non-deleted items, optionally filtered by category.
func ListItems(ctx context.Context, db *sql.DB, category string) ([]model.Item, error) {
	query := `SELECT id, name, category, materials, weight_g, stock, image_mime, created_at, updated_at, deleted_at
	          FROM items WHERE deleted_at IS NULL`
	var args []any
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var category, materials, imageMime sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &category, &materials, &item.WeightG, &item.Stock,
			&imageMime, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Category = category.String
		item.Materials = splitMaterials(materials.String)
		item.ImageMime = imageMime.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem updates an item's metadata. Stock is not touched here: it only
// moves through ApplyStockDelta or invoice creation.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, name, category string, materials []string, weightG float64) error {
	if name == "" {
		return model.Invalid("name", "required")
	}
	if weightG <= 0 {
		return model.Invalid("weight_g", "must be positive")
	}

	result, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, category = ?, materials = ?, weight_g = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		name, category, joinMaterials(materials), weightG, id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("item %d: %w", id, model.ErrNotFound)
	}
	return nil
}

// DeleteItem soft-deletes an item. Invoice lines keep their reference so
// past invoices stay traceable.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// ApplyStockDelta atomically adjusts an item's stock by delta (negative for
// sales, positive for buys). The check and the write are one conditional
// UPDATE, so two concurrent sales against the same item cannot both pass a
// stock check and then drive the quantity below zero.
func ApplyStockDelta(ctx context.Context, db *sql.DB, id int64, delta int) (*model.Item, error) {
	if err := applyStockDelta(ctx, db, id, delta); err != nil {
		return nil, err
	}
	return GetItem(ctx, db, id)
}

func applyStockDelta(ctx context.Context, q execer, id int64, delta int) error {
	result, err := q.ExecContext(ctx,
		`UPDATE items SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL AND stock + ? >= 0`,
		delta, id, delta,
	)
	if err != nil {
		return fmt.Errorf("adjusting stock for item %d: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjusting stock for item %d: %w", id, err)
	}
	if n == 1 {
		return nil
	}

	// The conditional update matched nothing: either the item is gone or
	// the delta would take stock negative.
	item, err := getItem(ctx, q, id)
	if err != nil {
		return err
	}
	if item == nil || item.DeletedAt != nil {
		return fmt.Errorf("item %d: %w", id, model.ErrNotFound)
	}
	return fmt.Errorf("item %d: have %d, need %d: %w", id, item.Stock, -delta, model.ErrInsufficientStock)
}

// SetItemImage sets an item's photo.
func SetItemImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("item %d: %w", id, model.ErrNotFound)
	}
	return nil
}

// GetItemImage returns an item's photo data and MIME type.
func GetItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}

// Materials are stored as a single comma-separated column; the ordered list
// is a display concern, not a relation worth its own table.

func joinMaterials(materials []string) string {
	return strings.Join(materials, ",")
}

func splitMaterials(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
