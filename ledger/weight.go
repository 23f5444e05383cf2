package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/redstreet/fava-investor/ast"
	"github.com/redstreet/fava-investor/inventory"
)

// pendingPosting is a source posting on its way to being booked.
type pendingPosting struct {
	src     *ast.Posting
	account *Account
	units   *inventory.Amount
	price   *inventory.Amount
	// weights are known once units and cost (or price) are resolved.
	weights []inventory.Amount
	// inferCost is set for augmentations written with an empty cost spec.
	inferCost bool
	booked    []Posting
}

// bookTransaction resolves every posting of txn against the current account
// balances: lots are matched for reductions, one missing amount and one empty
// augmentation cost may be inferred, and the result must balance within
// tolerance. Account balances are not modified.
func (l *Ledger) bookTransaction(ctx context.Context, txn *ast.Transaction) (*Transaction, []error) {
	cfg := ConfigFromContext(ctx)
	date := txn.Date.Time

	var errs []error
	for _, p := range txn.Postings {
		acc, ok := l.accounts[string(p.Account)]
		if !ok || !acc.IsOpen(date) {
			errs = append(errs, NewAccountNotOpenError(txn, p.Account))
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	working := make(map[string]inventory.Inventory)
	pending := make([]*pendingPosting, 0, len(txn.Postings))
	var missing *pendingPosting

	for _, p := range txn.Postings {
		pp := &pendingPosting{src: p, account: l.accounts[string(p.Account)]}
		pending = append(pending, pp)

		if p.Amount == nil {
			if p.Cost != nil {
				errs = append(errs, NewInvalidAmountError(txn, p.Account, "", fmt.Errorf("cost without units")))
				continue
			}
			if missing != nil {
				errs = append(errs, NewInvalidAmountError(txn, p.Account, "", fmt.Errorf("too many missing amounts")))
				continue
			}
			missing = pp
			continue
		}

		units, err := ParseAmount(p.Amount)
		if err != nil {
			errs = append(errs, NewInvalidAmountError(txn, p.Account, p.Amount.Value, err))
			continue
		}
		pp.units = &units

		if p.Price != nil {
			price, weight, err := resolvePrice(p, units)
			if err != nil {
				errs = append(errs, NewInvalidAmountError(txn, p.Account, p.Price.Value, err))
				continue
			}
			pp.price, pp.weights = &price, []inventory.Amount{weight}
		}

		if p.Cost == nil {
			if pp.weights == nil {
				pp.weights = []inventory.Amount{units}
			}
			pp.booked = []Posting{{Account: string(p.Account), Units: units, Price: pp.price, Flag: p.Flag}}
			continue
		}

		if err := l.resolveCost(txn, pp, working); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	var residual inventory.Inventory
	var inferred *pendingPosting
	for _, pp := range pending {
		switch {
		case pp.inferCost:
			if inferred != nil {
				return nil, []error{NewInvalidAmountError(txn, pp.src.Account, pp.src.Amount.Value, fmt.Errorf("cannot infer more than one cost"))}
			}
			inferred = pp
		default:
			for _, w := range pp.weights {
				residual.AddAmount(w)
			}
		}
	}

	if inferred != nil {
		currencies := residual.Currencies()
		if missing != nil || len(currencies) != 1 {
			return nil, []error{NewTransactionNotBalancedError(txn, formatResiduals(residual))}
		}
		currency := currencies[0]
		perUnit := residual.Units(currency).Neg().DivRound(inferred.units.Number, 16)
		cost := &inventory.Cost{Number: perUnit, Currency: currency, Date: date, Label: inferred.src.Cost.Label}
		if inferred.src.Cost.Date != nil {
			cost.Date = inferred.src.Cost.Date.Time
		}
		inferred.booked = []Posting{{Account: string(inferred.src.Account), Units: *inferred.units, Cost: cost, Price: inferred.price, Flag: inferred.src.Flag}}
		residual.AddAmount(inventory.NewAmount(residual.Units(currency).Neg(), currency))
	}

	if missing != nil {
		for _, pos := range residual.Positions() {
			missing.booked = append(missing.booked, Posting{
				Account: string(missing.src.Account),
				Units:   pos.Units.Neg(),
				Flag:    missing.src.Flag,
			})
		}
		residual = inventory.Inventory{}
	}

	if unbalanced := l.unbalanced(cfg, pending, residual); len(unbalanced) > 0 {
		return nil, []error{NewTransactionNotBalancedError(txn, unbalanced)}
	}

	booked := &Transaction{
		Date:      date,
		Flag:      txn.Flag,
		Payee:     txn.Payee,
		Narration: txn.Narration,
		Source:    txn,
	}
	for _, tag := range txn.Tags {
		booked.Tags = append(booked.Tags, string(tag))
	}
	for _, link := range txn.Links {
		booked.Links = append(booked.Links, string(link))
	}
	for _, pp := range pending {
		for _, p := range pp.booked {
			if !pp.account.Allows(p.Units.Currency) {
				errs = append(errs, &CurrencyConstraintError{
					Date:      txn.Date,
					Account:   p.Account,
					Currency:  p.Units.Currency,
					Allowed:   pp.account.ConstraintCurrencies,
					Pos:       pp.src.Pos,
					Directive: txn,
				})
			}
		}
		booked.Postings = append(booked.Postings, pp.booked...)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return booked, nil
}

// resolvePrice returns the per-unit price and the weight of a priced posting.
// A total price (@@) carries the sign of the units.
func resolvePrice(p *ast.Posting, units inventory.Amount) (price, weight inventory.Amount, err error) {
	price, err = ParseAmount(p.Price)
	if err != nil {
		return price, weight, err
	}
	if !p.IsTotalPrice() {
		return price, inventory.NewAmount(units.Number.Mul(price.Number), price.Currency), nil
	}
	if units.Number.IsZero() {
		return price, weight, fmt.Errorf("total price with zero units")
	}
	total := price.Number
	if units.Number.IsNegative() {
		total = total.Neg()
	}
	perUnit := price.Number.DivRound(units.Number.Abs(), 16)
	return inventory.NewAmount(perUnit, price.Currency), inventory.NewAmount(total, price.Currency), nil
}

// resolveCost books a posting that carries a cost spec. Augmentations create
// a new lot, dated at the transaction unless the spec names a date;
// reductions are matched against the account's lots using its booking method.
func (l *Ledger) resolveCost(txn *ast.Transaction, pp *pendingPosting, working map[string]inventory.Inventory) error {
	spec := pp.src.Cost
	units := *pp.units
	account := pp.account.Name

	// With a cost, the price is informational and does not weigh.
	pp.weights = nil

	var number *decimal.Decimal
	var currency string
	var total decimal.Decimal
	if spec.Amount != nil {
		amount, err := ParseAmount(spec.Amount)
		if err != nil {
			return NewInvalidAmountError(txn, pp.src.Account, spec.Amount.Value, err)
		}
		n := amount.Number
		total = amount.Number
		if spec.Total {
			if units.Number.IsZero() {
				return NewInvalidAmountError(txn, pp.src.Account, spec.Amount.Value, fmt.Errorf("total cost with zero units"))
			}
			n = n.DivRound(units.Number.Abs(), 16)
		}
		number, currency = &n, amount.Currency
	}

	if units.Number.IsPositive() || pp.account.Booking == BookingNone {
		if number == nil {
			if units.Number.IsNegative() {
				return NewReductionError(txn, pp.src, fmt.Errorf("booking method NONE requires a cost"))
			}
			pp.inferCost = true
			return nil
		}
		cost := &inventory.Cost{Number: *number, Currency: currency, Date: txn.Date.Time, Label: spec.Label}
		if spec.Date != nil {
			cost.Date = spec.Date.Time
		}
		weight := inventory.Position{Units: units, Cost: cost}.Weight()
		if spec.Total {
			weight = inventory.NewAmount(total, currency)
			if units.Number.IsNegative() {
				weight = weight.Neg()
			}
		}
		pp.weights = []inventory.Amount{weight}
		pp.booked = []Posting{{Account: account, Units: units, Cost: cost, Price: pp.price, Flag: pp.src.Flag}}
		return nil
	}

	balance, ok := working[account]
	if !ok {
		balance = pp.account.Balance.Clone()
	}

	m := lotMatcher{number: number, currency: currency, label: spec.Label}
	if spec.Date != nil {
		m.date = &spec.Date.Time
	}
	lots, err := bookReduction(balance, units, m, pp.account.Booking)
	if err != nil {
		return NewReductionError(txn, pp.src, err)
	}

	for _, lot := range lots {
		balance.AddPosition(lot)
		pp.weights = append(pp.weights, lot.Weight())
		pp.booked = append(pp.booked, Posting{Account: account, Units: lot.Units, Cost: lot.Cost, Price: pp.price, Flag: pp.src.Flag})
	}
	working[account] = balance
	return nil
}

// unbalanced returns the residual currencies that exceed their tolerance.
func (l *Ledger) unbalanced(cfg *Config, pending []*pendingPosting, residual inventory.Inventory) map[string]string {
	if residual.IsEmpty() {
		return nil
	}

	amounts := make(map[string][]decimal.Decimal)
	for _, pp := range pending {
		for _, p := range pp.booked {
			amounts[p.Units.Currency] = append(amounts[p.Units.Currency], p.Units.Number)
			if cfg.Tolerance.inferFromCost && p.Cost != nil {
				w := p.Weight()
				amounts[w.Currency] = append(amounts[w.Currency], w.Number)
			}
		}
		for _, w := range pp.weights {
			amounts[w.Currency] = append(amounts[w.Currency], w.Number)
		}
	}

	result := make(map[string]string)
	for _, pos := range residual.Positions() {
		currency := pos.Units.Currency
		tolerance := InferTolerance(amounts[currency], currency, cfg.Tolerance)
		if pos.Units.Number.Abs().GreaterThan(tolerance) {
			result[currency] = pos.Units.Number.String()
		}
	}
	return result
}

func formatResiduals(residual inventory.Inventory) map[string]string {
	result := make(map[string]string)
	for _, pos := range residual.Positions() {
		result[pos.Units.Currency] = pos.Units.Number.String()
	}
	return result
}
