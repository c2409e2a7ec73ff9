package api

import (
	"net/http"

	"github.com/khinezaw/shwezin/internal/gold"
)

// CalculatorHandler exposes the standalone gold price calculator. It is
// advisory: the quote seeds a line price at the operator's discretion but
// never overrides what is stored on an invoice.
type CalculatorHandler struct{}

// Quote handles POST /api/calculator/quote.
func (h *CalculatorHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var in gold.Input
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quote, err := gold.Convert(in)
	if err != nil {
		domainError(w, err, "failed to compute quote")
		return
	}

	jsonResponse(w, http.StatusOK, quote)
}

// Grades handles GET /api/calculator/grades, listing the purity grades and
// their displayed pe constants for the client's dropdown.
func (h *CalculatorHandler) Grades(w http.ResponseWriter, r *http.Request) {
	type grade struct {
		ID       string  `json:"id"`
		Constant float64 `json:"constant"`
	}
	grades := make([]grade, 0, len(gold.Grades))
	for _, g := range gold.Grades {
		c, _ := gold.DisplayConstant(g)
		grades = append(grades, grade{ID: g, Constant: c})
	}
	jsonResponse(w, http.StatusOK, grades)
}
