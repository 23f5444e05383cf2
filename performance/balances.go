package performance

import (
	"time"

	"github.com/redstreet/fava-investor/inventory"
	"github.com/redstreet/fava-investor/ledger"
)

// Project turns per-period deltas into running balances. A period whose
// delta is empty gets an empty placeholder instead of a repeated balance,
// except the last period, which always carries the final balance.
func Project(deltas []inventory.Inventory) []inventory.Inventory {
	if len(deltas) == 0 {
		return nil
	}
	result := make([]inventory.Inventory, len(deltas))
	var balance inventory.Inventory
	for i, delta := range deltas {
		balance.AddInventory(delta)
		if delta.IsEmpty() && i < len(deltas)-1 {
			continue
		}
		result[i] = balance.Clone()
	}
	return result
}

// Row is one period of a category as shown in reports.
type Row struct {
	Date        time.Time
	Transaction *ledger.Transaction
	Change      inventory.Inventory
	Balance     inventory.Inventory
}

// Rows returns one row per period of category c.
func Rows(r *Result, c Category) []Row {
	deltas := r.Get(c)
	balances := Project(deltas)
	rows := make([]Row, len(deltas))
	for i := range deltas {
		rows[i] = Row{
			Date:        r.Dates[i],
			Transaction: r.Transactions[i],
			Change:      deltas[i],
			Balance:     balances[i],
		}
	}
	return rows
}

// CategoryTotals returns the sum over all periods of every computed category.
func CategoryTotals(r *Result) map[Category]inventory.Inventory {
	totals := make(map[Category]inventory.Inventory)
	for _, c := range AllCategories() {
		if seq := r.Get(c); seq != nil {
			totals[c] = inventory.Sum(seq...)
		}
	}
	return totals
}
