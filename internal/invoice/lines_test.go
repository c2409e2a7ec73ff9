package invoice

import (
	"math/rand"
	"testing"

	"github.com/khinezaw/shwezin/internal/model"
)

func TestLineTotal(t *testing.T) {
	if got := LineTotal(model.InvoiceTypeSales, 100, 3, 50); got != 250 {
		t.Errorf("expected 250, got %v", got)
	}
	// Discounts are ignored outside sales.
	if got := LineTotal(model.InvoiceTypePawn, 100, 3, 50); got != 300 {
		t.Errorf("expected 300 for pawn, got %v", got)
	}
	if got := LineTotal(model.InvoiceTypeBuy, 100, 3, 50); got != 300 {
		t.Errorf("expected 300 for buy, got %v", got)
	}
}

func TestLineTotalNonNegativeUnderBoundedDiscount(t *testing.T) {
	for i := 0; i < 100; i++ {
		price := float64(rand.Intn(1000))
		qty := rand.Intn(10) + 1
		max := price * float64(qty)
		discount := max * rand.Float64()
		if got := LineTotal(model.InvoiceTypeSales, price, qty, discount); got < 0 {
			t.Fatalf("negative total %v for price=%v qty=%d discount=%v", got, price, qty, discount)
		}
	}
}

func TestAggregate(t *testing.T) {
	lines := []model.LineItem{
		{Price: 500, Quantity: 2, Discount: 100},
		{Price: 300, Quantity: 1},
		{Price: 250, Quantity: 4, Discount: 50},
	}

	got := Aggregate(model.InvoiceTypeSales, lines)
	want := Totals{Subtotal: 2300, Discount: 150, Total: 2150}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	// Pawn and buy ignore discounts entirely: total equals subtotal.
	got = Aggregate(model.InvoiceTypeBuy, lines)
	if got.Discount != 0 || got.Total != got.Subtotal {
		t.Errorf("buy aggregate should ignore discounts, got %+v", got)
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	lines := []model.LineItem{
		{Price: 123.45, Quantity: 2, Discount: 10},
		{Price: 999, Quantity: 1, Discount: 0},
		{Price: 0.5, Quantity: 7, Discount: 1.5},
		{Price: 42, Quantity: 3, Discount: 6},
	}
	want := Aggregate(model.InvoiceTypeSales, lines)

	for i := 0; i < 20; i++ {
		shuffled := make([]model.LineItem, len(lines))
		copy(shuffled, lines)
		rand.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := Aggregate(model.InvoiceTypeSales, shuffled); got != want {
			t.Fatalf("permutation changed totals: %+v vs %+v", got, want)
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	if got := Aggregate(model.InvoiceTypeSales, nil); got != (Totals{}) {
		t.Errorf("expected zero totals, got %+v", got)
	}
}
