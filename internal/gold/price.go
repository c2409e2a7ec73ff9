package gold

import (
	"math"

	"github.com/khinezaw/shwezin/internal/model"
)

// GramsPerTickal converts weights between grams and the traditional tickal
// unit used for precious-metal pricing.
const GramsPerTickal = 16.6

// Transaction sides.
const (
	SideSell = "sell"
	SideBuy  = "buy"
)

// Purity grades. Constants follow the traditional pe scale where 16 pe is
// pure gold. The 14-pe slot is irregular: it is quoted as 14.5 on the sell
// side but the buy-side formula uses 14. This asymmetry comes from how the
// shop has always priced that grade and must not be normalized.
const (
	PurityP15     = "p15"
	PurityP14Half = "p14.5"
	PurityP13     = "p13"
	PurityP12     = "p12"
	PurityP11     = "p11"
	PurityP10     = "p10"
	PurityP9      = "p9"
	PurityP8      = "p8"
)

type purity struct {
	sellConstant float64 // used in the sell divisor and shown to the user
	buyFactor    float64 // numerator of the buy-side conversion
}

var purities = map[string]purity{
	PurityP15:     {15, 15},
	PurityP14Half: {14.5, 14},
	PurityP13:     {13, 13},
	PurityP12:     {12, 12},
	PurityP11:     {11, 11},
	PurityP10:     {10, 10},
	PurityP9:      {9, 9},
	PurityP8:      {8, 8},
}

// Grades lists the purity grade identifiers from highest to lowest fineness.
var Grades = []string{
	PurityP15, PurityP14Half, PurityP13, PurityP12,
	PurityP11, PurityP10, PurityP9, PurityP8,
}

// DisplayConstant returns the pe constant shown for a grade, or false if the
// grade is unknown.
func DisplayConstant(grade string) (float64, bool) {
	p, ok := purities[grade]
	return p.sellConstant, ok
}

// Quote is the result of one price conversion.
type Quote struct {
	WeightTickal  float64 `json:"weight_tickal"`
	AdjustedPrice float64 `json:"adjusted_price"`
	TotalValue    float64 `json:"total_value"`
	Deduction     float64 `json:"deduction"`
	Final         float64 `json:"final"`
}

// Input holds the parameters for a conversion. Yway and Pe are only
// consulted on the buy side.
type Input struct {
	Side    string  `json:"side"`
	Price   float64 `json:"price"`
	WeightG float64 `json:"weight_g"`
	Purity  string  `json:"purity"`
	Yway    int     `json:"yway,omitempty"`
	Pe      int     `json:"pe,omitempty"`
}

// Convert turns a spot gold price into a quality- and transaction-adjusted
// value for the given weight. Pure and deterministic.
//
// Sell: adjusted = price * 16 / (16 + (16 - c)), no deduction.
// Buy: adjusted = price * f / 16, then a making-charges deduction of
// ((|yway|/8 + |pe|) / 16) * adjusted is subtracted from the total.
func Convert(in Input) (*Quote, error) {
	if !isFinitePositive(in.Price) {
		return nil, model.Invalid("price", "must be a positive finite number")
	}
	if !isFinitePositive(in.WeightG) {
		return nil, model.Invalid("weight_g", "must be a positive finite number")
	}
	p, ok := purities[in.Purity]
	if !ok {
		return nil, model.Invalid("purity", "unknown purity grade")
	}

	q := &Quote{WeightTickal: in.WeightG / GramsPerTickal}

	switch in.Side {
	case SideSell:
		q.AdjustedPrice = in.Price * 16 / (16 + (16 - p.sellConstant))
		q.TotalValue = q.WeightTickal * q.AdjustedPrice
		q.Final = q.TotalValue
	case SideBuy:
		if in.Yway < 0 || in.Yway > 7 {
			return nil, model.Invalid("yway", "must be between 0 and 7")
		}
		if in.Pe < 0 || in.Pe > 15 {
			return nil, model.Invalid("pe", "must be between 0 and 15")
		}
		q.AdjustedPrice = in.Price * p.buyFactor / 16
		q.TotalValue = q.WeightTickal * q.AdjustedPrice
		yway := math.Abs(float64(in.Yway))
		pe := math.Abs(float64(in.Pe))
		q.Deduction = ((yway/8 + pe) / 16) * q.AdjustedPrice
		q.Final = q.TotalValue - q.Deduction
	default:
		return nil, model.Invalid("side", "must be \"sell\" or \"buy\"")
	}

	return q, nil
}

func isFinitePositive(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
}
