package performance

import (
	"github.com/redstreet/fava-investor/inventory"
	"github.com/redstreet/fava-investor/ledger"
)

// Parts are the category inventories extracted from one transaction.
// Contributions are positive, withdrawals negative; dividends and realized
// gains are positive for income, costs negative for expenses.
type Parts struct {
	Contributions inventory.Inventory
	Withdrawals   inventory.Inventory
	Dividends     inventory.Inventory
	Costs         inventory.Inventory
	RealizedGains inventory.Inventory
}

// shape records which roles a transaction touches.
type shape struct {
	value, internal, income, expense, external, internalized bool
	// sale is set by Categorize for transactions touching value accounts.
	sale bool
}

func shapeOf(txn *ledger.Transaction, accounts *Accounts) shape {
	var s shape
	for _, p := range txn.Postings {
		switch accounts.Role(p.Account) {
		case RoleValue:
			s.value = true
		case RoleIncome:
			s.internal, s.income = true, true
		case RoleExpense:
			s.internal, s.expense = true, true
		default:
			s.external = true
		}
		if accounts.Internalized.Has(p.Account) {
			s.internalized = true
		}
	}
	return s
}

// Categorize splits the effect of txn on the value accounts into categories.
// A transaction may land in several categories, or in none when its shape is
// not recognised; the latter shows up as a reconciliation residual.
func Categorize(txn *ledger.Transaction, accounts *Accounts) Parts {
	s := shapeOf(txn, accounts)
	if s.value {
		s.sale = IsCommoditySale(txn, accounts.Value)
	}
	var parts Parts
	parts.Contributions, parts.Withdrawals = transfers(txn, accounts, s)
	parts.Dividends = dividends(txn, accounts, s)
	parts.Costs = costs(txn, accounts, s)
	parts.RealizedGains = realizedGains(txn, accounts, s)
	return parts
}

// IsCommoditySale reports whether txn disposes of a lot held in a value
// account.
func IsCommoditySale(txn *ledger.Transaction, value AccountSet) bool {
	for _, p := range txn.Postings {
		if value.Has(p.Account) && p.Units.Number.IsNegative() && p.Cost != nil {
			return true
		}
	}
	return false
}

// transfers returns the money moved between the portfolio and the outside.
// Value and internal postings are summed at cost, then split by sign.
func transfers(txn *ledger.Transaction, accounts *Accounts, s shape) (in, out inventory.Inventory) {
	switch {
	case s.value && s.external:
		var change inventory.Inventory
		for _, p := range txn.Postings {
			if accounts.Value.Has(p.Account) || accounts.Internal.Has(p.Account) {
				change.AddAmount(preferCost(p))
			}
		}
		for _, pos := range change.Positions() {
			if pos.Units.Number.IsPositive() {
				in.AddPosition(pos)
			} else {
				out.AddPosition(pos)
			}
		}
	case !s.value && s.internalized && s.external:
		// Internalized income paid out is a dividend followed by a
		// withdrawal; an internalized expense paid from outside is a
		// contribution followed by a cost.
		for _, p := range internalizedPostings(txn, accounts) {
			if p.Units.Number.IsNegative() {
				out.AddAmount(p.Units)
			} else {
				in.AddAmount(p.Units)
			}
		}
	}
	return in, out
}

func dividends(txn *ledger.Transaction, accounts *Accounts, s shape) inventory.Inventory {
	var result inventory.Inventory
	switch {
	case s.value && s.internal && !s.sale:
		for _, p := range txn.Postings {
			if accounts.Income.Has(p.Account) && p.Units.Number.IsNegative() {
				result.AddAmount(p.Units.Neg())
			}
		}
	case !s.value && s.internalized && s.external:
		for _, p := range internalizedPostings(txn, accounts) {
			if accounts.Income.Has(p.Account) && p.Units.Number.IsNegative() {
				result.AddAmount(p.Units.Neg())
			}
		}
	}
	return result
}

func costs(txn *ledger.Transaction, accounts *Accounts, s shape) inventory.Inventory {
	var result inventory.Inventory
	switch {
	case s.value && s.expense:
		for _, p := range txn.Postings {
			if accounts.Expenses.Has(p.Account) {
				result.AddAmount(p.Units.Neg())
			}
		}
	case !s.value && s.internalized && s.external:
		for _, p := range internalizedPostings(txn, accounts) {
			if accounts.Expenses.Has(p.Account) {
				result.AddAmount(p.Units.Neg())
			}
		}
	}
	return result
}

func realizedGains(txn *ledger.Transaction, accounts *Accounts, s shape) inventory.Inventory {
	var result inventory.Inventory
	if s.value && s.income && s.sale {
		for _, p := range txn.Postings {
			if accounts.Income.Has(p.Account) {
				result.AddAmount(p.Units.Neg())
			}
		}
	}
	return result
}

// internalizedPostings returns the internalized postings that count: income
// received (negative) and expenses paid (positive).
func internalizedPostings(txn *ledger.Transaction, accounts *Accounts) []ledger.Posting {
	var postings []ledger.Posting
	for _, p := range txn.Postings {
		if !accounts.Internalized.Has(p.Account) {
			continue
		}
		income := accounts.Income.Has(p.Account) && p.Units.Number.IsNegative()
		expense := accounts.Expenses.Has(p.Account)
		if income || expense {
			postings = append(postings, p)
		}
	}
	return postings
}

// preferCost returns the cost of a posting held at cost, its units otherwise.
func preferCost(p ledger.Posting) inventory.Amount {
	if p.Cost != nil {
		return inventory.NewAmount(p.Units.Number.Mul(p.Cost.Number), p.Cost.Currency)
	}
	return p.Units
}
