package model

import "time"

// GoldPrice is one recorded market rate: the spot price of pure gold per
// tickal, entered by an operator (no live feed).
type GoldPrice struct {
	ID         int64     `json:"id"`
	Price      float64   `json:"price"`
	RecordedAt time.Time `json:"recorded_at"`
	RecordedBy *int64    `json:"recorded_by,omitempty"`
}
