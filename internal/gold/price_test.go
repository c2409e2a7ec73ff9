package gold

import (
	"errors"
	"math"
	"testing"

	"github.com/khinezaw/shwezin/internal/model"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.5
}

func TestSellConversion(t *testing.T) {
	// 33.2 g is exactly 2 tickal. At p15 the divisor is 16+(16-15)=17.
	q, err := Convert(Input{Side: SideSell, Price: 1_000_000, WeightG: 33.2, Purity: PurityP15})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if q.WeightTickal != 2 {
		t.Errorf("expected 2 tickal, got %v", q.WeightTickal)
	}
	if !almostEqual(q.AdjustedPrice, 941176.47) {
		t.Errorf("expected adjusted price ~941176.47, got %v", q.AdjustedPrice)
	}
	if !almostEqual(q.Final, 1882352.94) {
		t.Errorf("expected final ~1882352.94, got %v", q.Final)
	}
	if q.Deduction != 0 {
		t.Errorf("sell side must not deduct, got %v", q.Deduction)
	}
}

func TestBuyConversionWithDeduction(t *testing.T) {
	q, err := Convert(Input{
		Side: SideBuy, Price: 1_000_000, WeightG: 33.2, Purity: PurityP15,
		Yway: 2, Pe: 3,
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !almostEqual(q.AdjustedPrice, 937500) {
		t.Errorf("expected adjusted price 937500, got %v", q.AdjustedPrice)
	}
	if !almostEqual(q.TotalValue, 1875000) {
		t.Errorf("expected total 1875000, got %v", q.TotalValue)
	}
	if !almostEqual(q.Deduction, 190429.69) {
		t.Errorf("expected deduction ~190429.69, got %v", q.Deduction)
	}
	if !almostEqual(q.Final, 1684570.31) {
		t.Errorf("expected final ~1684570.31, got %v", q.Final)
	}
}

func TestIrregularGradeAsymmetry(t *testing.T) {
	// The 14-pe slot sells as 14.5 but buys as 14.
	sell, err := Convert(Input{Side: SideSell, Price: 1_000_000, WeightG: 16.6, Purity: PurityP14Half})
	if err != nil {
		t.Fatalf("Convert sell: %v", err)
	}
	wantSell := 1_000_000 * 16 / (16 + (16 - 14.5))
	if !almostEqual(sell.AdjustedPrice, wantSell) {
		t.Errorf("sell adjusted: expected %v, got %v", wantSell, sell.AdjustedPrice)
	}

	buy, err := Convert(Input{Side: SideBuy, Price: 1_000_000, WeightG: 16.6, Purity: PurityP14Half})
	if err != nil {
		t.Fatalf("Convert buy: %v", err)
	}
	wantBuy := 1_000_000 * 14.0 / 16
	if !almostEqual(buy.AdjustedPrice, wantBuy) {
		t.Errorf("buy adjusted: expected %v, got %v", wantBuy, buy.AdjustedPrice)
	}
}

func TestSellPurityMonotonic(t *testing.T) {
	// Higher purity constant must yield a higher sell price for a fixed spot.
	prev := math.Inf(1)
	for _, grade := range Grades {
		q, err := Convert(Input{Side: SideSell, Price: 1_000_000, WeightG: 16.6, Purity: grade})
		if err != nil {
			t.Fatalf("Convert %s: %v", grade, err)
		}
		if q.AdjustedPrice >= prev {
			t.Errorf("grade %s: adjusted price %v not below previous %v", grade, q.AdjustedPrice, prev)
		}
		prev = q.AdjustedPrice
	}
}

func TestConvertRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		in   Input
	}{
		{"zero price", Input{Side: SideSell, Price: 0, WeightG: 1, Purity: PurityP15}},
		{"negative weight", Input{Side: SideSell, Price: 1, WeightG: -1, Purity: PurityP15}},
		{"nan weight", Input{Side: SideSell, Price: 1, WeightG: math.NaN(), Purity: PurityP15}},
		{"inf price", Input{Side: SideBuy, Price: math.Inf(1), WeightG: 1, Purity: PurityP15}},
		{"unknown purity", Input{Side: SideSell, Price: 1, WeightG: 1, Purity: "p16"}},
		{"bad side", Input{Side: "trade", Price: 1, WeightG: 1, Purity: PurityP15}},
		{"yway out of range", Input{Side: SideBuy, Price: 1, WeightG: 1, Purity: PurityP15, Yway: 8}},
		{"pe out of range", Input{Side: SideBuy, Price: 1, WeightG: 1, Purity: PurityP15, Pe: 16}},
	}
	for _, tc := range cases {
		if _, err := Convert(tc.in); !errors.Is(err, model.ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestConvertDeterministic(t *testing.T) {
	in := Input{Side: SideBuy, Price: 3_456_789, WeightG: 8.3, Purity: PurityP13, Yway: 5, Pe: 11}
	a, err := Convert(in)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	b, _ := Convert(in)
	if *a != *b {
		t.Errorf("same input produced different quotes: %+v vs %+v", a, b)
	}
}
