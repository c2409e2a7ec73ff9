package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/khinezaw/shwezin/internal/model"
	"github.com/khinezaw/shwezin/internal/store"
)

// GoldPricesHandler handles market-rate endpoints.
type GoldPricesHandler struct {
	DB *sql.DB
}

type goldPriceRequest struct {
	Price float64 `json:"price"`
}

// Record handles POST /api/gold-prices.
func (h *GoldPricesHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req goldPriceRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	gp, err := store.RecordGoldPrice(r.Context(), h.DB, req.Price, userID(r.Context()))
	if err != nil {
		domainError(w, err, "failed to record gold price")
		return
	}

	jsonResponse(w, http.StatusCreated, gp)
}

// Latest handles GET /api/gold-prices/latest.
func (h *GoldPricesHandler) Latest(w http.ResponseWriter, r *http.Request) {
	gp, err := store.LatestGoldPrice(r.Context(), h.DB)
	if err != nil {
		domainError(w, err, "failed to get gold price")
		return
	}
	if gp == nil {
		jsonError(w, http.StatusNotFound, "no gold price recorded yet")
		return
	}
	jsonResponse(w, http.StatusOK, gp)
}

// List handles GET /api/gold-prices with an optional limit.
func (h *GoldPricesHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			jsonError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	prices, err := store.ListGoldPrices(r.Context(), h.DB, limit)
	if err != nil {
		domainError(w, err, "failed to list gold prices")
		return
	}
	if prices == nil {
		prices = []model.GoldPrice{}
	}
	jsonResponse(w, http.StatusOK, prices)
}
