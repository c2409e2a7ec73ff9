package invoice

import (
	"fmt"
	"math"
	"time"

	"github.com/khinezaw/shwezin/internal/model"
)

// Draft is the caller-supplied input for creating one invoice. Totals are
// not part of the draft: the store computes and persists them itself, so a
// client cannot submit a total that disagrees with its lines.
type Draft struct {
	Type            string           `json:"type"`
	CustomerName    string           `json:"customer_name"`
	CustomerPhone   string           `json:"customer_phone,omitempty"`
	CustomerAddress string           `json:"customer_address,omitempty"`
	Status          string           `json:"status,omitempty"`
	DueDate         *time.Time       `json:"due_date,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	SkipStockUpdate bool             `json:"skip_stock_update,omitempty"`
	Lines           []model.LineItem `json:"lines"`
}

// ValidateDraft checks a draft against the per-type field requirements.
// Sales lines need positive weight, quantity, and price; pawn and buy lines
// additionally need a name (they are often entered by hand, without a
// catalog reference); pawn tickets need a due date.
func ValidateDraft(d *Draft) error {
	if !model.ValidInvoiceType(d.Type) {
		return model.Invalid("type", "must be sales, pawn, or buy")
	}
	if d.CustomerName == "" {
		return model.Invalid("customer_name", "required")
	}
	if len(d.Lines) == 0 {
		return model.Invalid("lines", "at least one line item required")
	}
	if d.Type == model.InvoiceTypePawn && d.DueDate == nil {
		return model.Invalid("due_date", "required for pawn invoices")
	}
	if d.Status != "" {
		// Only sales invoices may pick their starting status (paid or
		// partially paid at the counter). Pawn tickets always open active
		// and buy invoices always open completed; anything else must go
		// through a status transition.
		if d.Type != model.InvoiceTypeSales {
			return model.Invalid("status", fmt.Sprintf("%s invoices always start as %q", d.Type, InitialStatus(d.Type)))
		}
		if !ValidStatus(d.Type, d.Status) {
			return model.Invalid("status", fmt.Sprintf("%q is not a %s status", d.Status, d.Type))
		}
	}

	for i, l := range d.Lines {
		field := func(name string) string { return fmt.Sprintf("lines[%d].%s", i, name) }

		if l.Quantity <= 0 {
			return model.Invalid(field("quantity"), "must be positive")
		}
		if !finiteNonNegative(l.Price) {
			return model.Invalid(field("price"), "must be a non-negative finite number")
		}
		if !finiteNonNegative(l.Discount) {
			return model.Invalid(field("discount"), "must be a non-negative finite number")
		}

		switch d.Type {
		case model.InvoiceTypeSales:
			if l.WeightG <= 0 || !finiteNonNegative(l.WeightG) {
				return model.Invalid(field("weight_g"), "must be positive")
			}
			if l.Price <= 0 {
				return model.Invalid(field("price"), "must be positive")
			}
			if l.Discount > l.Price*float64(l.Quantity) {
				return model.Invalid(field("discount"), "exceeds line amount")
			}
			if l.ReturnType != "" && l.ReturnType != model.ReturnTypeMakingCharges && l.ReturnType != model.ReturnTypePercentage {
				return model.Invalid(field("return_type"), "must be making-charges or percentage")
			}
		case model.InvoiceTypePawn, model.InvoiceTypeBuy:
			if l.Name == "" {
				return model.Invalid(field("name"), "required")
			}
			// Zero weight is fine for hand-entered lines; negative or
			// non-finite is not.
			if !finiteNonNegative(l.WeightG) {
				return model.Invalid(field("weight_g"), "must be a non-negative finite number")
			}
			if l.Discount != 0 {
				return model.Invalid(field("discount"), "only sales lines may carry a discount")
			}
		}
	}

	return nil
}

func finiteNonNegative(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0
}
