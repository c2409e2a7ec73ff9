package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/khinezaw/shwezin/internal/db"
	"github.com/khinezaw/shwezin/internal/invoice"
	"github.com/khinezaw/shwezin/internal/model"
)

func salesDraft(itemID int64, qty int) *invoice.Draft {
	return &invoice.Draft{
		Type:         model.InvoiceTypeSales,
		CustomerName: "Daw Khin",
		Lines: []model.LineItem{
			{ItemID: &itemID, Name: "Gold ring", WeightG: 4.2, Quantity: qty, Price: 500000, Discount: 20000},
		},
	}
}

func TestCreateSalesInvoice(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Gold ring", "ring", nil, 4.2, 5)

	inv, err := CreateInvoice(ctx, database, salesDraft(item.ID, 2), nil)
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	if !strings.HasPrefix(inv.Number, "S-") {
		t.Errorf("expected S- prefix, got %q", inv.Number)
	}
	if inv.Status != model.StatusPaid {
		t.Errorf("expected default status paid, got %q", inv.Status)
	}
	if inv.Subtotal != 1000000 || inv.Discount != 20000 || inv.Total != 980000 {
		t.Errorf("unexpected totals: %+v", inv)
	}
	if len(inv.Lines) != 1 || inv.Lines[0].Total != 980000 {
		t.Errorf("unexpected lines: %+v", inv.Lines)
	}

	// Invoice total reconciles with its lines.
	var sum float64
	for _, l := range inv.Lines {
		sum += l.Total
	}
	if sum != inv.Total {
		t.Errorf("total %v does not reconcile with lines %v", inv.Total, sum)
	}

	// Stock decremented by the sold quantity.
	after, _ := GetItem(ctx, database, item.ID)
	if after.Stock != 3 {
		t.Errorf("expected stock 3, got %d", after.Stock)
	}
}

func TestCreateSalesInvoiceInsufficientStock(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	plenty, _ := CreateItem(ctx, database, "Bangle", "bangle", nil, 10, 100)
	scarce, _ := CreateItem(ctx, database, "Chain", "chain", nil, 12, 1)

	draft := &invoice.Draft{
		Type:         model.InvoiceTypeSales,
		CustomerName: "Daw Khin",
		Lines: []model.LineItem{
			{ItemID: &plenty.ID, Name: "Bangle", WeightG: 10, Quantity: 5, Price: 100000},
			{ItemID: &scarce.ID, Name: "Chain", WeightG: 12, Quantity: 2, Price: 200000},
		},
	}

	_, err := CreateInvoice(ctx, database, draft, nil)
	if !errors.Is(err, model.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// All-or-nothing: the first line's decrement must have been rolled back
	// and no invoice row persisted.
	p, _ := GetItem(ctx, database, plenty.ID)
	if p.Stock != 100 {
		t.Errorf("expected stock 100 after rollback, got %d", p.Stock)
	}
	invoices, _ := ListInvoices(ctx, database, "", "")
	if len(invoices) != 0 {
		t.Errorf("expected no invoices after rollback, got %d", len(invoices))
	}
}

func TestCreatePawnInvoiceNeverTouchesStock(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Necklace", "necklace", nil, 15, 4)
	due := time.Now().AddDate(0, 3, 0)

	draft := &invoice.Draft{
		Type:         model.InvoiceTypePawn,
		CustomerName: "U Mya",
		DueDate:      &due,
		Lines: []model.LineItem{
			{ItemID: &item.ID, Name: "Necklace", WeightG: 15, Quantity: 4, Price: 800000},
		},
	}

	inv, err := CreateInvoice(ctx, database, draft, nil)
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if inv.Status != model.StatusActive {
		t.Errorf("expected active pawn ticket, got %q", inv.Status)
	}
	if inv.DueDate == nil {
		t.Error("due date not persisted")
	}

	after, _ := GetItem(ctx, database, item.ID)
	if after.Stock != 4 {
		t.Errorf("pawn must not mutate stock, got %d", after.Stock)
	}
}

func TestCreateBuyInvoiceStockBehavior(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Earring", "earring", nil, 3, 2)

	draft := &invoice.Draft{
		Type:         model.InvoiceTypeBuy,
		CustomerName: "Ma Hla",
		Lines: []model.LineItem{
			{ItemID: &item.ID, Name: "Earring", WeightG: 3, Quantity: 3, Price: 150000},
			{Name: "Unmatched old ring", WeightG: 5, Quantity: 1, Price: 90000},
		},
	}

	inv, err := CreateInvoice(ctx, database, draft, nil)
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if inv.Status != model.StatusCompleted {
		t.Errorf("expected completed buy invoice, got %q", inv.Status)
	}

	after, _ := GetItem(ctx, database, item.ID)
	if after.Stock != 5 {
		t.Errorf("expected stock replenished to 5, got %d", after.Stock)
	}

	// With the invoice-wide skip flag no line touches stock.
	draft.SkipStockUpdate = true
	if _, err := CreateInvoice(ctx, database, draft, nil); err != nil {
		t.Fatalf("CreateInvoice with skip flag: %v", err)
	}
	after, _ = GetItem(ctx, database, item.ID)
	if after.Stock != 5 {
		t.Errorf("skip_stock_update must suppress stock changes, got %d", after.Stock)
	}
}

func TestCreateInvoiceCannotSkipLifecycle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// A pawn ticket must open active; minting one already redeemed would
	// skip the whole lifecycle.
	due := time.Now().AddDate(0, 3, 0)
	_, err := CreateInvoice(ctx, database, &invoice.Draft{
		Type:         model.InvoiceTypePawn,
		CustomerName: "U Mya",
		DueDate:      &due,
		Status:       model.StatusRedeemed,
		Lines:        []model.LineItem{{Name: "Bangle", WeightG: 10, Quantity: 1, Price: 300000}},
	}, nil)
	if !errors.Is(err, model.ErrValidation) {
		t.Errorf("pawn draft with redeemed status: expected validation error, got %v", err)
	}

	_, err = CreateInvoice(ctx, database, &invoice.Draft{
		Type:         model.InvoiceTypeBuy,
		CustomerName: "Ma Hla",
		Status:       model.StatusReturned,
		Lines:        []model.LineItem{{Name: "Old chain", WeightG: 8, Quantity: 1, Price: 400000}},
	}, nil)
	if !errors.Is(err, model.ErrValidation) {
		t.Errorf("buy draft with returned status: expected validation error, got %v", err)
	}

	invoices, _ := ListInvoices(ctx, database, "", "")
	if len(invoices) != 0 {
		t.Errorf("rejected drafts must not persist, got %d invoices", len(invoices))
	}

	// Sales keep their choice of starting status.
	item, _ := CreateItem(ctx, database, "Ring", "ring", nil, 4, 5)
	d := salesDraft(item.ID, 1)
	d.Status = model.StatusPartiallyPaid
	inv, err := CreateInvoice(ctx, database, d, nil)
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if inv.Status != model.StatusPartiallyPaid {
		t.Errorf("expected partially_paid, got %q", inv.Status)
	}
}

func TestInvoiceNumbersDistinct(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Ring", "ring", nil, 4, 50)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		inv, err := CreateInvoice(ctx, database, salesDraft(item.ID, 1), nil)
		if err != nil {
			t.Fatalf("CreateInvoice %d: %v", i, err)
		}
		if seen[inv.Number] {
			t.Fatalf("duplicate invoice number %q", inv.Number)
		}
		seen[inv.Number] = true
	}
}

func TestGetInvoiceByNumber(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Ring", "ring", nil, 4, 5)
	created, _ := CreateInvoice(ctx, database, salesDraft(item.ID, 1), nil)

	inv, err := GetInvoiceByNumber(ctx, database, created.Number)
	if err != nil {
		t.Fatalf("GetInvoiceByNumber: %v", err)
	}
	if inv == nil || inv.ID != created.ID {
		t.Errorf("expected invoice %d, got %+v", created.ID, inv)
	}

	missing, err := GetInvoiceByNumber(ctx, database, "S-999999")
	if err != nil {
		t.Fatalf("GetInvoiceByNumber missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown number, got %+v", missing)
	}
}

func TestUpdateInvoiceStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Ring", "ring", nil, 4, 5)
	created, _ := CreateInvoice(ctx, database, salesDraft(item.ID, 1), nil)

	inv, err := UpdateInvoiceStatus(ctx, database, created.ID, model.StatusPartiallyPaid)
	if err != nil {
		t.Fatalf("UpdateInvoiceStatus: %v", err)
	}
	if inv.Status != model.StatusPartiallyPaid {
		t.Errorf("expected partially_paid, got %q", inv.Status)
	}

	// overdue belongs to pawn tickets, not sales.
	if _, err := UpdateInvoiceStatus(ctx, database, created.ID, model.StatusOverdue); !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
	unchanged, _ := GetInvoice(ctx, database, created.ID)
	if unchanged.Status != model.StatusPartiallyPaid {
		t.Errorf("rejected transition must not change status, got %q", unchanged.Status)
	}

	if _, err := UpdateInvoiceStatus(ctx, database, 9999, model.StatusPaid); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestImportFromInvoice(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Ring", "ring", nil, 4, 5)
	source, _ := CreateInvoice(ctx, database, salesDraft(item.ID, 2), nil)

	draft, err := ImportFromInvoice(ctx, database, source.ID, model.InvoiceTypePawn)
	if err != nil {
		t.Fatalf("ImportFromInvoice: %v", err)
	}
	if draft.CustomerName != source.CustomerName {
		t.Errorf("customer not copied: %+v", draft)
	}
	if len(draft.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(draft.Lines))
	}
	l := draft.Lines[0]
	if l.Price != 0 || l.Discount != 0 {
		t.Errorf("prices must be reset on import, got %+v", l)
	}
	if l.ItemID == nil || *l.ItemID != item.ID || l.Quantity != 2 {
		t.Errorf("item reference and quantity must be kept, got %+v", l)
	}
}

func TestImportRestrictions(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	buyDraft := &invoice.Draft{
		Type:         model.InvoiceTypeBuy,
		CustomerName: "Ma Hla",
		Lines:        []model.LineItem{{Name: "Old chain", WeightG: 8, Quantity: 1, Price: 400000}},
	}
	buyInv, err := CreateInvoice(ctx, database, buyDraft, nil)
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	// buy -> buy is refused.
	if _, err := ImportFromInvoice(ctx, database, buyInv.ID, model.InvoiceTypeBuy); !errors.Is(err, model.ErrImportRestricted) {
		t.Errorf("expected ErrImportRestricted for buy->buy, got %v", err)
	}

	// buy -> sales is fine while not returned.
	if _, err := ImportFromInvoice(ctx, database, buyInv.ID, model.InvoiceTypeSales); err != nil {
		t.Errorf("buy->sales import should work, got %v", err)
	}

	// A returned source is refused for any target type.
	if _, err := UpdateInvoiceStatus(ctx, database, buyInv.ID, model.StatusReturned); err != nil {
		t.Fatalf("UpdateInvoiceStatus: %v", err)
	}
	if _, err := ImportFromInvoice(ctx, database, buyInv.ID, model.InvoiceTypeSales); !errors.Is(err, model.ErrImportRestricted) {
		t.Errorf("expected ErrImportRestricted for returned source, got %v", err)
	}

	if _, err := ImportFromInvoice(ctx, database, 9999, model.InvoiceTypeSales); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListInvoicesFiltered(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Ring", "ring", nil, 4, 10)
	CreateInvoice(ctx, database, salesDraft(item.ID, 1), nil)
	CreateInvoice(ctx, database, salesDraft(item.ID, 1), nil)

	due := time.Now().AddDate(0, 1, 0)
	CreateInvoice(ctx, database, &invoice.Draft{
		Type:         model.InvoiceTypePawn,
		CustomerName: "U Mya",
		DueDate:      &due,
		Lines:        []model.LineItem{{Name: "Bracelet", WeightG: 6, Quantity: 1, Price: 250000}},
	}, nil)

	all, _ := ListInvoices(ctx, database, "", "")
	if len(all) != 3 {
		t.Errorf("expected 3 invoices, got %d", len(all))
	}
	sales, _ := ListInvoices(ctx, database, model.InvoiceTypeSales, "")
	if len(sales) != 2 {
		t.Errorf("expected 2 sales invoices, got %d", len(sales))
	}
	active, _ := ListInvoices(ctx, database, "", model.StatusActive)
	if len(active) != 1 {
		t.Errorf("expected 1 active invoice, got %d", len(active))
	}
}
