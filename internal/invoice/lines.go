package invoice

import "github.com/khinezaw/shwezin/internal/model"

// Totals is the aggregate of an invoice's line items.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// LineTotal computes one line's total. Discounts only apply to sales
// invoices; for pawn and buy the discount is forced to zero.
func LineTotal(invoiceType string, price float64, quantity int, discount float64) float64 {
	if invoiceType != model.InvoiceTypeSales {
		discount = 0
	}
	return price*float64(quantity) - discount
}

// Aggregate sums line items into subtotal, total discount, and total. The
// lines form an unordered multiset: permuting them never changes the result.
func Aggregate(invoiceType string, lines []model.LineItem) Totals {
	var t Totals
	for _, l := range lines {
		discount := l.Discount
		if invoiceType != model.InvoiceTypeSales {
			discount = 0
		}
		t.Subtotal += l.Price * float64(l.Quantity)
		t.Discount += discount
	}
	t.Total = t.Subtotal - t.Discount
	return t
}
