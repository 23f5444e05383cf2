package performance

import (
	"fmt"
	"strings"
	"time"

	"github.com/redstreet/fava-investor/inventory"
	"github.com/redstreet/fava-investor/ledger"
)

// JournalEntry is the reconciliation of one period: the part of the value
// change that no category explains.
type JournalEntry struct {
	Date        time.Time
	Transaction *ledger.Transaction
	Residual    inventory.Inventory
	Running     inventory.Inventory
}

// Journal is the error journal of a split, one entry per period.
type Journal []JournalEntry

// IncompleteError is returned when a split category was not computed, so
// value changes cannot be reconciled.
type IncompleteError struct {
	Missing []Category
}

func (e *IncompleteError) Error() string {
	names := make([]string, len(e.Missing))
	for i, c := range e.Missing {
		names[i] = c.String()
	}
	return fmt.Sprintf("cannot reconcile without categories: %s", strings.Join(names, ", "))
}

// Reconcile computes, for every period, the value change minus the sum of
// the split categories. Every split category must have been computed.
func Reconcile(r *Result) (Journal, error) {
	if missing := r.Missing(); len(missing) > 0 {
		return nil, &IncompleteError{Missing: missing}
	}
	journal := make(Journal, r.Len())
	var running inventory.Inventory
	for i := range journal {
		var explained inventory.Inventory
		for _, c := range SplitCategories() {
			explained.AddInventory(r.Parts.Get(c)[i])
		}
		residual := r.Values[i].Add(explained.Neg())
		running.AddInventory(residual)
		journal[i] = JournalEntry{
			Date:        r.Dates[i],
			Transaction: r.Transactions[i],
			Residual:    residual,
			Running:     running.Clone(),
		}
	}
	return journal, nil
}

// OK reports whether every period reconciles.
func (j Journal) OK() bool {
	for _, e := range j {
		if !e.Residual.IsEmpty() {
			return false
		}
	}
	return true
}

// Total returns the residual summed over all periods.
func (j Journal) Total() inventory.Inventory {
	if len(j) == 0 {
		return inventory.Inventory{}
	}
	return j[len(j)-1].Running
}

// Failures returns the entries with a residual.
func (j Journal) Failures() Journal {
	var failures Journal
	for _, e := range j {
		if !e.Residual.IsEmpty() {
			failures = append(failures, e)
		}
	}
	return failures
}

// ReconciliationError reports the first period whose value change is not
// explained by its categories.
type ReconciliationError struct {
	Date        time.Time
	Transaction *ledger.Transaction
	Residual    inventory.Inventory
}

func (e *ReconciliationError) Error() string {
	msg := fmt.Sprintf("%s: value change not explained by categories: residual %s", e.Date.Format("2006-01-02"), e.Residual)
	if e.Transaction != nil && e.Transaction.Narration != "" {
		msg += fmt.Sprintf(" (last transaction %q)", e.Transaction.Narration)
	}
	return msg
}

// Check returns a *ReconciliationError for the first period that does not
// reconcile, nil if all do. An incomplete result is an *IncompleteError.
func Check(r *Result) error {
	journal, err := Reconcile(r)
	if err != nil {
		return err
	}
	for _, e := range journal {
		if !e.Residual.IsEmpty() {
			return &ReconciliationError{Date: e.Date, Transaction: e.Transaction, Residual: e.Residual}
		}
	}
	return nil
}
