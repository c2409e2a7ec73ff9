package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/khinezaw/shwezin/internal/invoice"
	"github.com/khinezaw/shwezin/internal/model"
	"github.com/khinezaw/shwezin/internal/store"
)

// InvoicesHandler handles invoice endpoints.
type InvoicesHandler struct {
	DB *sql.DB
}

// Create handles POST /api/invoices.
func (h *InvoicesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft invoice.Draft
	if err := decodeJSON(r, &draft); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := store.CreateInvoice(r.Context(), h.DB, &draft, userID(r.Context()))
	if err != nil {
		domainError(w, err, "failed to create invoice")
		return
	}

	jsonResponse(w, http.StatusCreated, inv)
}

// List handles GET /api/invoices with optional type and status filters.
func (h *InvoicesHandler) List(w http.ResponseWriter, r *http.Request) {
	invoiceType := r.URL.Query().Get("type")
	status := r.URL.Query().Get("status")

	if invoiceType != "" && !model.ValidInvoiceType(invoiceType) {
		jsonError(w, http.StatusBadRequest, "invalid invoice type")
		return
	}

	invoices, err := store.ListInvoices(r.Context(), h.DB, invoiceType, status)
	if err != nil {
		domainError(w, err, "failed to list invoices")
		return
	}
	if invoices == nil {
		invoices = []model.Invoice{}
	}
	jsonResponse(w, http.StatusOK, invoices)
}

// Get handles GET /api/invoices/{id}.
func (h *InvoicesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	inv, err := store.GetInvoice(r.Context(), h.DB, id)
	if err != nil {
		domainError(w, err, "failed to get invoice")
		return
	}
	if inv == nil {
		jsonError(w, http.StatusNotFound, "invoice not found")
		return
	}

	jsonResponse(w, http.StatusOK, inv)
}

// GetByNumber handles GET /api/invoices/number/{number}.
func (h *InvoicesHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")
	if number == "" {
		jsonError(w, http.StatusBadRequest, "invoice number required")
		return
	}

	inv, err := store.GetInvoiceByNumber(r.Context(), h.DB, number)
	if err != nil {
		domainError(w, err, "failed to get invoice")
		return
	}
	if inv == nil {
		jsonError(w, http.StatusNotFound, "invoice not found")
		return
	}

	jsonResponse(w, http.StatusOK, inv)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /api/invoices/{id}/status.
func (h *InvoicesHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		jsonError(w, http.StatusBadRequest, "status required")
		return
	}

	inv, err := store.UpdateInvoiceStatus(r.Context(), h.DB, id, req.Status)
	if err != nil {
		domainError(w, err, "failed to update invoice status")
		return
	}

	jsonResponse(w, http.StatusOK, inv)
}

type importRequest struct {
	SourceID int64  `json:"source_id"`
	Type     string `json:"type"`
}

// Import handles POST /api/invoices/import: it returns a pre-filled draft
// copied from an existing invoice, with prices reset for re-quoting. The
// draft is not persisted; the client submits it through Create.
func (h *InvoicesHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	draft, err := store.ImportFromInvoice(r.Context(), h.DB, req.SourceID, req.Type)
	if err != nil {
		domainError(w, err, "failed to import invoice")
		return
	}

	jsonResponse(w, http.StatusOK, draft)
}
