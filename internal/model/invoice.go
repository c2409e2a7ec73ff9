package model

import "time"

// Invoice types.
const (
	InvoiceTypeSales = "sales"
	InvoiceTypePawn  = "pawn"
	InvoiceTypeBuy   = "buy"
)

// ValidInvoiceType reports whether t is one of the three transaction types.
func ValidInvoiceType(t string) bool {
	return t == InvoiceTypeSales || t == InvoiceTypePawn || t == InvoiceTypeBuy
}

// Invoice statuses. Each invoice type has its own legal set (see the
// invoice package for the transition rules).
const (
	// Pawn statuses.
	StatusActive   = "active"
	StatusOverdue  = "overdue"
	StatusRedeemed = "redeemed"
	StatusExpired  = "expired"

	// Sales statuses.
	StatusPaid          = "paid"
	StatusPartiallyPaid = "partially_paid"

	// Buy invoices carry a fixed label; shared "returned" is the one
	// status a caller may set on them after creation.
	StatusCompleted = "completed"
	StatusReturned  = "returned"
)

// Line-item return types (sales only).
const (
	ReturnTypeMakingCharges = "making-charges"
	ReturnTypePercentage    = "percentage"
)

// LineItem is one row of an invoice. ItemID is nil for manually entered
// pawn/buy lines that do not reference the catalog.
type LineItem struct {
	ID         int64   `json:"id,omitempty"`
	ItemID     *int64  `json:"item_id,omitempty"`
	Name       string  `json:"name"`
	Category   string  `json:"category,omitempty"`
	WeightG    float64 `json:"weight_g"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
	Discount   float64 `json:"discount,omitempty"`
	ReturnType string  `json:"return_type,omitempty"`
	Total      float64 `json:"total"`
}

// Invoice is an invoice header with its ordered line items. Line items and
// totals are immutable after creation; only the status changes afterwards,
// through validated transitions. Re-issuing requires a new invoice.
type Invoice struct {
	ID              int64      `json:"id"`
	Number          string     `json:"number"`
	Type            string     `json:"type"`
	CustomerName    string     `json:"customer_name"`
	CustomerPhone   string     `json:"customer_phone,omitempty"`
	CustomerAddress string     `json:"customer_address,omitempty"`
	Status          string     `json:"status"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	SkipStockUpdate bool       `json:"skip_stock_update,omitempty"`
	Lines           []LineItem `json:"lines"`
	Subtotal        float64    `json:"subtotal"`
	Discount        float64    `json:"discount"`
	Total           float64    `json:"total"`
	CreatedAt       time.Time  `json:"created_at"`
	CreatedBy       *int64     `json:"created_by,omitempty"`
}
