package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/khinezaw/shwezin/internal/invoice"
	"github.com/khinezaw/shwezin/internal/model"
)

// numberPrefixes gives invoice numbers a per-type prefix so staff can tell
// receipts apart at a glance.
var numberPrefixes = map[string]string{
	model.InvoiceTypeSales: "S",
	model.InvoiceTypePawn:  "P",
	model.InvoiceTypeBuy:   "B",
}

// CreateInvoice validates a draft, computes its totals, assigns the next
// invoice number, and persists the header, its lines, and the resulting
// stock adjustments in a single transaction. Either everything lands or
// nothing does: an oversold sales line rolls back the whole invoice,
// including stock changes already applied for earlier lines.
func CreateInvoice(ctx context.Context, db *sql.DB, draft *invoice.Draft, createdBy *int64) (*model.Invoice, error) {
	if err := invoice.ValidateDraft(draft); err != nil {
		return nil, err
	}

	status := draft.Status
	if status == "" {
		status = invoice.InitialStatus(draft.Type)
	}

	totals := invoice.Aggregate(draft.Type, draft.Lines)
	deltas := invoice.StockDeltas(draft.Type, draft.Lines, draft.SkipStockUpdate)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	number, err := nextInvoiceNumber(ctx, tx, draft.Type)
	if err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO invoices (number, type, customer_name, customer_phone, customer_address,
		                       status, due_date, notes, skip_stock_update, subtotal, discount, total, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		number, draft.Type, draft.CustomerName, draft.CustomerPhone, draft.CustomerAddress,
		status, draft.DueDate, draft.Notes, draft.SkipStockUpdate,
		totals.Subtotal, totals.Discount, totals.Total, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("creating invoice: %w", err)
	}

	invoiceID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting invoice id: %w", err)
	}

	for i, l := range draft.Lines {
		total := invoice.LineTotal(draft.Type, l.Price, l.Quantity, l.Discount)
		_, err := tx.ExecContext(ctx,
			`INSERT INTO invoice_lines (invoice_id, position, item_id, name, category,
			                            weight_g, quantity, price, discount, return_type, total)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			invoiceID, i, l.ItemID, l.Name, l.Category,
			l.WeightG, l.Quantity, l.Price, lineDiscount(draft.Type, l.Discount), l.ReturnType, total,
		)
		if err != nil {
			return nil, fmt.Errorf("creating invoice line %d: %w", i, err)
		}
	}

	for _, d := range deltas {
		if err := applyStockDelta(ctx, tx, d.ItemID, d.Delta); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing invoice: %w", err)
	}

	return GetInvoice(ctx, db, invoiceID)
}

// nextInvoiceNumber increments the persistent sequence and formats the new
// number. It runs inside the caller's write transaction; SQLite's single
// writer guarantees two concurrent creations cannot read the same value, and
// the unique index on invoices.number backstops it.
func nextInvoiceNumber(ctx context.Context, tx *sql.Tx, invoiceType string) (string, error) {
	if _, err := tx.ExecContext(ctx,
		`UPDATE settings SET value = CAST(value AS INTEGER) + 1 WHERE key = ?`, settingInvoiceSeq,
	); err != nil {
		return "", fmt.Errorf("advancing invoice sequence: %w", err)
	}

	var value string
	if err := tx.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, settingInvoiceSeq,
	).Scan(&value); err != nil {
		return "", fmt.Errorf("reading invoice sequence: %w", err)
	}

	seq, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return "", fmt.Errorf("parsing invoice sequence %q: %w", value, err)
	}

	return fmt.Sprintf("%s-%06d", numberPrefixes[invoiceType], seq), nil
}

func lineDiscount(invoiceType string, discount float64) float64 {
	if invoiceType != model.InvoiceTypeSales {
		return 0
	}
	return discount
}

// GetInvoice returns an invoice with its lines by ID.
func GetInvoice(ctx context.Context, db *sql.DB, id int64) (*model.Invoice, error) {
	return getInvoiceWhere(ctx, db, `id = ?`, id)
}

// GetInvoiceByNumber returns an invoice with its lines by invoice number.
func GetInvoiceByNumber(ctx context.Context, db *sql.DB, number string) (*model.Invoice, error) {
	return getInvoiceWhere(ctx, db, `number = ?`, number)
}

func getInvoiceWhere(ctx context.Context, db *sql.DB, where string, arg any) (*model.Invoice, error) {
	inv := &model.Invoice{}
	var phone, address, notes sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, number, type, customer_name, customer_phone, customer_address,
		        status, due_date, notes, skip_stock_update, subtotal, discount, total, created_at, created_by
		 FROM invoices WHERE `+where, arg,
	).Scan(&inv.ID, &inv.Number, &inv.Type, &inv.CustomerName, &phone, &address,
		&inv.Status, &inv.DueDate, &notes, &inv.SkipStockUpdate,
		&inv.Subtotal, &inv.Discount, &inv.Total, &inv.CreatedAt, &inv.CreatedBy)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting invoice: %w", err)
	}
	inv.CustomerPhone = phone.String
	inv.CustomerAddress = address.String
	inv.Notes = notes.String

	lines, err := getInvoiceLines(ctx, db, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Lines = lines
	return inv, nil
}

func getInvoiceLines(ctx context.Context, db *sql.DB, invoiceID int64) ([]model.LineItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, item_id, name, category, weight_g, quantity, price, discount, return_type, total
		 FROM invoice_lines WHERE invoice_id = ? ORDER BY position`, invoiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting invoice lines: %w", err)
	}
	defer rows.Close()

	var lines []model.LineItem
	for rows.Next() {
		var l model.LineItem
		if err := rows.Scan(&l.ID, &l.ItemID, &l.Name, &l.Category, &l.WeightG,
			&l.Quantity, &l.Price, &l.Discount, &l.ReturnType, &l.Total); err != nil {
			return nil, fmt.Errorf("scanning invoice line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ListInvoices returns invoice headers (no lines), newest first, optionally
// filtered by type and status.
func ListInvoices(ctx context.Context, db *sql.DB, invoiceType, status string) ([]model.Invoice, error) {
	query := `SELECT id, number, type, customer_name, customer_phone, customer_address,
	                 status, due_date, notes, skip_stock_update, subtotal, discount, total, created_at, created_by
	          FROM invoices WHERE 1=1`
	var args []any
	if invoiceType != "" {
		query += ` AND type = ?`
		args = append(args, invoiceType)
	}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []model.Invoice
	for rows.Next() {
		var inv model.Invoice
		var phone, address, notes sql.NullString
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.Type, &inv.CustomerName, &phone, &address,
			&inv.Status, &inv.DueDate, &notes, &inv.SkipStockUpdate,
			&inv.Subtotal, &inv.Discount, &inv.Total, &inv.CreatedAt, &inv.CreatedBy); err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}
		inv.CustomerPhone = phone.String
		inv.CustomerAddress = address.String
		inv.Notes = notes.String
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// UpdateInvoiceStatus applies a status transition after validating it
// against the invoice type's legal set.
func UpdateInvoiceStatus(ctx context.Context, db *sql.DB, id int64, newStatus string) (*model.Invoice, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var invoiceType, current string
	err = tx.QueryRowContext(ctx,
		`SELECT type, status FROM invoices WHERE id = ?`, id,
	).Scan(&invoiceType, &current)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("invoice %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting invoice status: %w", err)
	}

	next, err := invoice.Transition(invoiceType, current, newStatus)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE invoices SET status = ? WHERE id = ?`, next, id,
	); err != nil {
		return nil, fmt.Errorf("updating invoice status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing status update: %w", err)
	}

	return GetInvoice(ctx, db, id)
}

// ImportFromInvoice copies customer fields and line items from an existing
// invoice into a fresh draft of the given type, with prices and discounts
// reset so the operator re-quotes them. Importing is refused when the source
// was returned, or when both source and target are buy invoices (a bought
// lot must not be re-imported into another purchase).
func ImportFromInvoice(ctx context.Context, db *sql.DB, sourceID int64, targetType string) (*invoice.Draft, error) {
	if !model.ValidInvoiceType(targetType) {
		return nil, model.Invalid("type", "must be sales, pawn, or buy")
	}

	source, err := GetInvoice(ctx, db, sourceID)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("invoice %d: %w", sourceID, model.ErrNotFound)
	}

	if source.Status == model.StatusReturned {
		return nil, fmt.Errorf("invoice %s was returned: %w", source.Number, model.ErrImportRestricted)
	}
	if source.Type == model.InvoiceTypeBuy && targetType == model.InvoiceTypeBuy {
		return nil, fmt.Errorf("buy invoice %s cannot seed another buy: %w", source.Number, model.ErrImportRestricted)
	}

	draft := &invoice.Draft{
		Type:            targetType,
		CustomerName:    source.CustomerName,
		CustomerPhone:   source.CustomerPhone,
		CustomerAddress: source.CustomerAddress,
	}
	for _, l := range source.Lines {
		draft.Lines = append(draft.Lines, model.LineItem{
			ItemID:   l.ItemID,
			Name:     l.Name,
			Category: l.Category,
			WeightG:  l.WeightG,
			Quantity: l.Quantity,
		})
	}
	return draft, nil
}
