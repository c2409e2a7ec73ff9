package invoice

import (
	"fmt"

	"github.com/khinezaw/shwezin/internal/model"
)

// statuses lists the legal status values per invoice type.
var statuses = map[string]map[string]bool{
	model.InvoiceTypePawn: {
		model.StatusActive:   true,
		model.StatusOverdue:  true,
		model.StatusRedeemed: true,
		model.StatusExpired:  true,
	},
	model.InvoiceTypeSales: {
		model.StatusPaid:          true,
		model.StatusPartiallyPaid: true,
		model.StatusReturned:      true,
	},
	model.InvoiceTypeBuy: {
		model.StatusCompleted: true,
		model.StatusReturned:  true,
	},
}

// transitions maps invoice type -> current status -> allowed next statuses.
//
// Pawn tickets start active; overdue and expired are reached from active
// (time- or operator-driven), redemption closes the ticket from active or
// overdue, and nothing leaves redeemed or expired.
//
// Sales invoices move freely between paid and partially_paid, and either may
// be marked returned. A returned sale is final: re-selling needs a new
// invoice.
//
// Buy invoices carry a fixed completed label; the single allowed change is
// marking the purchase returned, which also blocks importing its lines.
var transitions = map[string]map[string]map[string]bool{
	model.InvoiceTypePawn: {
		model.StatusActive: {
			model.StatusOverdue:  true,
			model.StatusRedeemed: true,
			model.StatusExpired:  true,
		},
		model.StatusOverdue: {
			model.StatusRedeemed: true,
		},
		model.StatusRedeemed: {},
		model.StatusExpired:  {},
	},
	model.InvoiceTypeSales: {
		model.StatusPaid: {
			model.StatusPartiallyPaid: true,
			model.StatusReturned:      true,
		},
		model.StatusPartiallyPaid: {
			model.StatusPaid:     true,
			model.StatusReturned: true,
		},
		model.StatusReturned: {},
	},
	model.InvoiceTypeBuy: {
		model.StatusCompleted: {
			model.StatusReturned: true,
		},
		model.StatusReturned: {},
	},
}

// InitialStatus returns the status a freshly created invoice of the given
// type gets when the caller does not choose one. Sales invoices may be
// created in any of their legal statuses (ValidStatus gates the choice).
func InitialStatus(invoiceType string) string {
	switch invoiceType {
	case model.InvoiceTypePawn:
		return model.StatusActive
	case model.InvoiceTypeBuy:
		return model.StatusCompleted
	default:
		return model.StatusPaid
	}
}

// ValidStatus reports whether status is legal for the invoice type.
func ValidStatus(invoiceType, status string) bool {
	return statuses[invoiceType][status]
}

// CanTransition reports whether an invoice of the given type may move from
// one status to another.
func CanTransition(invoiceType, from, to string) bool {
	return transitions[invoiceType][from][to]
}

// Transition validates a requested status change and returns the new status.
// An illegal request is an error, never a silent no-op.
func Transition(invoiceType, from, to string) (string, error) {
	if !ValidStatus(invoiceType, to) {
		return "", fmt.Errorf("%w: %q is not a %s status", model.ErrInvalidTransition, to, invoiceType)
	}
	if !CanTransition(invoiceType, from, to) {
		return "", fmt.Errorf("%w: %s invoice cannot go from %q to %q", model.ErrInvalidTransition, invoiceType, from, to)
	}
	return to, nil
}
