package invoice

import (
	"testing"

	"github.com/khinezaw/shwezin/internal/model"
)

func ref(id int64) *int64 { return &id }

func TestStockDeltasSales(t *testing.T) {
	lines := []model.LineItem{
		{ItemID: ref(1), Quantity: 2},
		{Name: "hand-entered", Quantity: 5}, // no catalog reference
		{ItemID: ref(2), Quantity: 1},
		{ItemID: ref(1), Quantity: 3}, // same item twice, merged
	}

	deltas := StockDeltas(model.InvoiceTypeSales, lines, false)
	want := []model.StockDelta{{ItemID: 1, Delta: -5}, {ItemID: 2, Delta: -1}}
	if len(deltas) != len(want) {
		t.Fatalf("expected %d deltas, got %d: %v", len(want), len(deltas), deltas)
	}
	for i := range want {
		if deltas[i] != want[i] {
			t.Errorf("delta %d: expected %+v, got %+v", i, want[i], deltas[i])
		}
	}
}

func TestStockDeltasBuy(t *testing.T) {
	lines := []model.LineItem{
		{ItemID: ref(7), Quantity: 4},
		{Name: "old ring", Quantity: 1},
	}

	deltas := StockDeltas(model.InvoiceTypeBuy, lines, false)
	if len(deltas) != 1 || deltas[0] != (model.StockDelta{ItemID: 7, Delta: 4}) {
		t.Errorf("expected single +4 delta for item 7, got %v", deltas)
	}

	// The skip flag is invoice-wide: no line mutates stock.
	if deltas := StockDeltas(model.InvoiceTypeBuy, lines, true); len(deltas) != 0 {
		t.Errorf("skip_stock_update should suppress all deltas, got %v", deltas)
	}
}

func TestStockDeltasPawn(t *testing.T) {
	lines := []model.LineItem{
		{ItemID: ref(1), Quantity: 2},
		{ItemID: ref(2), Quantity: 9},
	}
	if deltas := StockDeltas(model.InvoiceTypePawn, lines, false); len(deltas) != 0 {
		t.Errorf("pawn invoices never mutate stock, got %v", deltas)
	}
}
