package invoice

import "github.com/khinezaw/shwezin/internal/model"

// StockDeltas translates a committed invoice's line items into catalog stock
// adjustments:
//
//   - sales: each catalog-referenced line decrements its item by quantity
//   - buy: each catalog-referenced line increments its item by quantity,
//     unless the invoice-wide skip flag is set
//   - pawn: never touches stock (pawned goods are collateral, not sold)
//
// Lines with no item reference contribute nothing. Deltas for the same item
// are merged so the catalog sees one adjustment per item.
func StockDeltas(invoiceType string, lines []model.LineItem, skipStockUpdate bool) []model.StockDelta {
	var sign int
	switch invoiceType {
	case model.InvoiceTypeSales:
		sign = -1
	case model.InvoiceTypeBuy:
		if skipStockUpdate {
			return nil
		}
		sign = 1
	default:
		return nil
	}

	merged := make(map[int64]int)
	var order []int64
	for _, l := range lines {
		if l.ItemID == nil {
			continue
		}
		if _, seen := merged[*l.ItemID]; !seen {
			order = append(order, *l.ItemID)
		}
		merged[*l.ItemID] += sign * l.Quantity
	}

	deltas := make([]model.StockDelta, 0, len(order))
	for _, id := range order {
		deltas = append(deltas, model.StockDelta{ItemID: id, Delta: merged[id]})
	}
	return deltas
}
