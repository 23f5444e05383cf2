package ledger

import (
	"time"

	"github.com/redstreet/fava-investor/ast"
	"github.com/redstreet/fava-investor/inventory"
)

// Transaction is a booked transaction: every posting has units, reductions
// carry the full cost of the lot they consumed, and missing amounts have been
// interpolated. Transactions are never modified after booking.
type Transaction struct {
	Date      time.Time
	Flag      string
	Payee     string
	Narration string
	Tags      []string
	Links     []string
	Postings  []Posting

	// Synthetic marks entries that do not come from the source file.
	Synthetic bool

	// Source is the parsed directive, nil for synthetic entries.
	Source *ast.Transaction
}

// Posting is one booked leg of a transaction.
type Posting struct {
	Account string
	Units   inventory.Amount
	Cost    *inventory.Cost
	Price   *inventory.Amount
	Flag    string
}

// Position returns the units and cost of the posting.
func (p Posting) Position() inventory.Position {
	return inventory.Position{Units: p.Units, Cost: p.Cost}
}

// Weight is the amount the posting contributes to the transaction balance.
func (p Posting) Weight() inventory.Amount {
	if p.Cost == nil && p.Price != nil {
		return inventory.NewAmount(p.Units.Number.Mul(p.Price.Number), p.Price.Currency)
	}
	return p.Position().Weight()
}

// Accounts returns the distinct accounts posted to, in posting order.
func (t *Transaction) Accounts() []string {
	var accounts []string
	seen := make(map[string]bool, len(t.Postings))
	for _, p := range t.Postings {
		if !seen[p.Account] {
			seen[p.Account] = true
			accounts = append(accounts, p.Account)
		}
	}
	return accounts
}

// Position returns the source position, or the zero position for synthetic
// entries.
func (t *Transaction) Position() ast.Position {
	if t.Source == nil {
		return ast.Position{}
	}
	return t.Source.Pos
}
