// Package performance splits the change in value of a portfolio into
// contributions, withdrawals, dividends, costs, realized gains and unrealized
// gains.
//
// Split walks the booked transactions of a ledger once, in date order,
// feeding every transaction to one Accumulator per category and closing a
// period at each interval boundary. The sum of the categories of a period
// equals the change in market value of the value accounts over that period;
// Reconcile checks it.
//
//	cfg, _ := performance.LoadConfig("investor.yaml")
//	split, err := performance.Split(ctx, l, cfg)
//	if err != nil {
//	    return err
//	}
//	for _, row := range performance.Rows(split, performance.Dividends) {
//	    fmt.Println(row.Date, row.Change, row.Balance)
//	}
package performance

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slices"

	"github.com/redstreet/fava-investor/inventory"
	"github.com/redstreet/fava-investor/ledger"
	"github.com/redstreet/fava-investor/prices"
	"github.com/redstreet/fava-investor/telemetry"
)

// DummyNarration marks the synthetic transaction appended so the last price
// directives are reflected in the final unrealized gains.
const DummyNarration = "UNREALIZED GAINS NEW BALANCE"

// SplitParts holds one inventory per period for each split category.
type SplitParts struct {
	Contributions   []inventory.Inventory
	Withdrawals     []inventory.Inventory
	Dividends       []inventory.Inventory
	Costs           []inventory.Inventory
	RealizedGains   []inventory.Inventory
	UnrealizedGains []inventory.Inventory
}

// Get returns the sequence of a category, nil for ValueChanges.
func (p *SplitParts) Get(c Category) []inventory.Inventory {
	switch c {
	case Contributions:
		return p.Contributions
	case Withdrawals:
		return p.Withdrawals
	case Dividends:
		return p.Dividends
	case Costs:
		return p.Costs
	case RealizedGains:
		return p.RealizedGains
	case UnrealizedGains:
		return p.UnrealizedGains
	}
	return nil
}

func (p *SplitParts) append(c Category, inv inventory.Inventory) {
	switch c {
	case Contributions:
		p.Contributions = append(p.Contributions, inv)
	case Withdrawals:
		p.Withdrawals = append(p.Withdrawals, inv)
	case Dividends:
		p.Dividends = append(p.Dividends, inv)
	case Costs:
		p.Costs = append(p.Costs, inv)
	case RealizedGains:
		p.RealizedGains = append(p.RealizedGains, inv)
	case UnrealizedGains:
		p.UnrealizedGains = append(p.UnrealizedGains, inv)
	}
}

// Result is the output of Split. Every slice is indexed by period.
type Result struct {
	// Dates are the valuation dates of the periods.
	Dates []time.Time
	// Transactions holds the last transaction of each period, nil for
	// periods without transactions.
	Transactions []*ledger.Transaction
	// Values are the changes in market value of the value accounts.
	Values []inventory.Inventory
	Parts  SplitParts

	Accounts *Accounts
	// Prices is the price map used for valuation, including the quotes
	// synthesized from acquisition costs.
	Prices *prices.Map
	// Synthesized lists the quotes derived from acquisition costs.
	Synthesized []prices.Quote
}

// Len returns the number of periods.
func (r *Result) Len() int {
	return len(r.Dates)
}

// Get returns the sequence of any category, ValueChanges included.
func (r *Result) Get(c Category) []inventory.Inventory {
	if c == ValueChanges {
		return r.Values
	}
	return r.Parts.Get(c)
}

// Missing returns the split categories that were not computed.
func (r *Result) Missing() []Category {
	var missing []Category
	for _, c := range SplitCategories() {
		if len(r.Parts.Get(c)) != r.Len() {
			missing = append(missing, c)
		}
	}
	return missing
}

// Split computes the split report of l. The ledger is not modified.
func Split(ctx context.Context, l *ledger.Ledger, cfg Config) (*Result, error) {
	timer := telemetry.FromContext(ctx).Start(fmt.Sprintf("performance.split (%s)", cfg.Interval))
	defer timer.End()

	accounts, err := Classify(l.Accounts(), cfg)
	if err != nil {
		return nil, err
	}

	quotes := slices.Clone(l.Prices())
	if cfg.ImplicitPrices {
		quotes = append(quotes, l.ImplicitPrices()...)
	}
	txns := slices.Clone(l.Transactions())

	priceMap, synthesized, err := prices.BuildWithCostFallback(quotes, acquisitions(txns))
	if err != nil {
		return nil, fmt.Errorf("building price map: %w", err)
	}

	if dummy := dummyTransaction(txns, quotes); dummy != nil {
		txns = append(txns, dummy)
	}

	result := &Result{Accounts: accounts, Prices: priceMap, Synthesized: synthesized}
	if len(txns) == 0 {
		return result, nil
	}

	accs, err := newAccumulators(cfg.categories(), accounts, priceMap)
	if err != nil {
		return nil, err
	}
	p := &pass{result: result, accumulators: accs}

	bounds := Boundaries(txns[0].Date, txns[len(txns)-1].Date, cfg.Interval)
	for _, txn := range txns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for len(bounds) > 1 && txn.Date.After(bounds[0]) {
			if err := p.close(bounds[0]); err != nil {
				return nil, err
			}
			bounds = bounds[1:]
		}
		if err := p.process(txn); err != nil {
			return nil, err
		}
		if cfg.Interval == PerTransaction {
			if err := p.close(txn.Date); err != nil {
				return nil, err
			}
		}
	}
	if cfg.Interval != PerTransaction {
		if err := p.close(txns[len(txns)-1].Date); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// pass is the state of one walk over the transactions.
type pass struct {
	result       *Result
	accumulators []Accumulator
	last         *ledger.Transaction
}

// process feeds txn to every accumulator. The flow categories share a single
// Categorize result.
func (p *pass) process(txn *ledger.Transaction) error {
	var parts *Parts
	for _, acc := range p.accumulators {
		if f, ok := acc.(*flow); ok {
			if parts == nil {
				categorized := Categorize(txn, p.result.Accounts)
				parts = &categorized
			}
			f.add(*parts)
			continue
		}
		if err := acc.Process(txn); err != nil {
			return err
		}
	}
	p.last = txn
	return nil
}

func (p *pass) close(date time.Time) error {
	for _, acc := range p.accumulators {
		inv, err := acc.ResultAndReset(date)
		if err != nil {
			return err
		}
		if acc.Category() == ValueChanges {
			p.result.Values = append(p.result.Values, inv)
			continue
		}
		p.result.Parts.append(acc.Category(), inv)
	}
	p.result.Dates = append(p.result.Dates, date)
	p.result.Transactions = append(p.result.Transactions, p.last)
	p.last = nil
	return nil
}

// newAccumulators returns the accumulators of categories plus the value
// change accumulator, which is always run.
func newAccumulators(categories []Category, accounts *Accounts, lookup inventory.PriceLookup) ([]Accumulator, error) {
	selected := append(slices.Clone(categories), ValueChanges)
	seen := make(map[Category]bool)
	var accs []Accumulator
	for _, c := range selected {
		if seen[c] {
			continue
		}
		seen[c] = true
		acc, err := NewAccumulator(c, accounts, lookup)
		if err != nil {
			return nil, err
		}
		accs = append(accs, acc)
	}
	return accs, nil
}

// acquisitions lists the postings that add units at a cost, in stream order.
func acquisitions(txns []*ledger.Transaction) []prices.Acquisition {
	var acqs []prices.Acquisition
	for _, txn := range txns {
		for _, p := range txn.Postings {
			if p.Cost == nil || !p.Units.Number.IsPositive() {
				continue
			}
			acqs = append(acqs, prices.Acquisition{
				Date:         txn.Date,
				Currency:     p.Units.Currency,
				Cost:         p.Cost.Number,
				CostCurrency: p.Cost.Currency,
			})
		}
	}
	return acqs
}

// dummyTransaction returns an empty synthetic transaction dated at the last
// price quote when that quote is later than the last transaction, nil
// otherwise.
func dummyTransaction(txns []*ledger.Transaction, quotes []prices.Quote) *ledger.Transaction {
	if len(txns) == 0 || len(quotes) == 0 {
		return nil
	}
	last := quotes[0].Date
	for _, q := range quotes[1:] {
		if q.Date.After(last) {
			last = q.Date
		}
	}
	if !last.After(txns[len(txns)-1].Date) {
		return nil
	}
	return &ledger.Transaction{
		Date:      last,
		Flag:      "*",
		Narration: DummyNarration,
		Synthetic: true,
	}
}
