package model

import "time"

// Item represents a catalog entry (quantity-based stock, not per-piece tracking).
type Item struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	Materials []string   `json:"materials,omitempty"`
	WeightG   float64    `json:"weight_g"`
	Stock     int        `json:"stock"`
	ImageMime string     `json:"image_mime,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// StockDelta is a signed stock adjustment for one item, produced by
// reconciling a committed invoice against the catalog.
type StockDelta struct {
	ItemID int64 `json:"item_id"`
	Delta  int   `json:"delta"`
}
