// Package ledger validates a parsed Beancount file and books its transactions.
//
// Processing walks the date-sorted directives once. It checks that accounts
// are open when used, books lot reductions, interpolates missing amounts,
// verifies that every transaction balances within tolerance, applies pad
// directives and checks balance assertions. The result is a stream of booked
// Transactions plus the price, commodity and account information a report
// needs.
//
// Example usage:
//
//	l := ledger.New()
//	if err := l.Process(ctx, tree); err != nil {
//	    var verr *ledger.ValidationErrors
//	    if errors.As(err, &verr) {
//	        for _, e := range verr.Errors {
//	            fmt.Println(e)
//	        }
//	    }
//	}
//	for _, txn := range l.Transactions() {
//	    ...
//	}
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/redstreet/fava-investor/ast"
	"github.com/redstreet/fava-investor/inventory"
	"github.com/redstreet/fava-investor/prices"
	"github.com/redstreet/fava-investor/telemetry"
)

// Commodity is a declared commodity and its metadata.
type Commodity struct {
	Currency string
	Date     time.Time
	Metadata map[string]string
}

type pendingPad struct {
	pad *ast.Pad
	// index is where the padding transaction goes in the transaction stream.
	index int
}

// Ledger is the booked state of a Beancount file.
type Ledger struct {
	config         *Config
	accounts       map[string]*Account
	transactions   []*Transaction
	prices         []prices.Quote
	implicitPrices []prices.Quote
	commodities    map[string]*Commodity
	pads           map[string]*pendingPad
	errors         []error
}

// New creates a new empty ledger
func New() *Ledger {
	return &Ledger{
		config:      NewConfig(),
		accounts:    make(map[string]*Account),
		commodities: make(map[string]*Commodity),
		pads:        make(map[string]*pendingPad),
	}
}

// Process validates and books the directives of tree. Errors do not stop
// processing; they are collected and returned together as *ValidationErrors.
// Only cancellation of ctx aborts early.
func (l *Ledger) Process(ctx context.Context, tree *ast.AST) error {
	if cfg, err := configFromAST(tree); err != nil {
		l.errors = append(l.errors, err)
	} else {
		l.config = cfg
	}
	ctx = l.config.WithContext(ctx)

	timer := telemetry.FromContext(ctx).Start(fmt.Sprintf("ledger.process (%d directives)", len(tree.Directives)))
	defer timer.End()

	for _, directive := range tree.Directives {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.processDirective(ctx, directive)
	}

	if len(l.errors) > 0 {
		return &ValidationErrors{Errors: l.errors}
	}
	return nil
}

func (l *Ledger) processDirective(ctx context.Context, directive ast.Directive) {
	switch d := directive.(type) {
	case *ast.Open:
		l.processOpen(ctx, d)
	case *ast.Close:
		l.processClose(d)
	case *ast.Transaction:
		l.processTransaction(ctx, d)
	case *ast.Balance:
		l.processBalance(ctx, d)
	case *ast.Pad:
		l.processPad(d)
	case *ast.Note:
		l.requireOpen(d, d.Account)
	case *ast.Price:
		l.processPrice(d)
	case *ast.Commodity:
		l.processCommodity(d)
	}
}

func (l *Ledger) processOpen(ctx context.Context, open *ast.Open) {
	name := string(open.Account)
	if existing, ok := l.accounts[name]; ok {
		l.addError(NewAccountAlreadyOpenError(open, existing))
		return
	}

	booking := ConfigFromContext(ctx).Booking
	if open.BookingMethod != "" {
		method, err := ParseBookingMethod(open.BookingMethod)
		if err != nil {
			l.addError(NewInvalidAmountError(open, open.Account, open.BookingMethod, err))
			return
		}
		booking = method
	}

	l.accounts[name] = &Account{
		Name:                 name,
		Type:                 ParseAccountType(name),
		OpenDate:             open.Date.Time,
		ConstraintCurrencies: open.ConstraintCurrencies,
		Booking:              booking,
		Metadata:             open.Metadata,
	}
}

func (l *Ledger) processClose(close *ast.Close) {
	account, ok := l.accounts[string(close.Account)]
	if !ok {
		l.addError(NewAccountNotOpenError(close, close.Account))
		return
	}
	if account.IsClosed() {
		l.addError(NewAccountAlreadyClosedError(close, account))
		return
	}
	date := close.Date.Time
	account.CloseDate = &date
}

func (l *Ledger) processTransaction(ctx context.Context, txn *ast.Transaction) {
	booked, errs := l.bookTransaction(ctx, txn)
	if len(errs) > 0 {
		l.errors = append(l.errors, errs...)
		return
	}
	l.apply(booked)
	l.transactions = append(l.transactions, booked)

	for _, p := range booked.Postings {
		if p.Price != nil && p.Price.Currency != p.Units.Currency {
			l.implicitPrices = append(l.implicitPrices, prices.Quote{
				Date:  booked.Date,
				Base:  p.Units.Currency,
				Quote: p.Price.Currency,
				Rate:  p.Price.Number,
			})
		}
	}
}

// apply adds the booked postings to the account balances.
func (l *Ledger) apply(txn *Transaction) {
	for _, p := range txn.Postings {
		l.accounts[p.Account].Balance.AddPosition(p.Position())
	}
}

func (l *Ledger) processPad(pad *ast.Pad) {
	if !l.requireOpen(pad, pad.Account) || !l.requireOpen(pad, pad.AccountPad) {
		return
	}
	l.pads[string(pad.Account)] = &pendingPad{pad: pad, index: len(l.transactions)}
}

// processBalance checks a balance assertion against the account and its
// subaccounts. A pending pad for the account is resolved first by inserting a
// padding transaction at the pad's place in the stream.
func (l *Ledger) processBalance(ctx context.Context, balance *ast.Balance) {
	if !l.requireOpen(balance, balance.Account) {
		return
	}

	expected, err := ParseAmount(balance.Amount)
	if err != nil {
		l.addError(NewInvalidAmountError(balance, balance.Account, balance.Amount.Value, err))
		return
	}

	name := string(balance.Account)
	actual := l.Balance(name).Units(expected.Currency)
	tolerance := InferTolerance([]decimal.Decimal{expected.Number}, expected.Currency, ConfigFromContext(ctx).Tolerance)
	diff := expected.Number.Sub(actual)

	if pending, ok := l.pads[name]; ok {
		delete(l.pads, name)
		if !AmountEqual(expected.Number, actual, tolerance) {
			l.insertPadding(pending, inventory.NewAmount(diff, expected.Currency))
		}
		return
	}

	if !AmountEqual(expected.Number, actual, tolerance) {
		l.addError(NewBalanceMismatchError(balance, expected.Number.String(), actual.String()))
	}
}

func (l *Ledger) insertPadding(pending *pendingPad, amount inventory.Amount) {
	pad := pending.pad
	txn := &Transaction{
		Date:      pad.Date.Time,
		Flag:      "P",
		Narration: fmt.Sprintf("(Padding inserted for %s, difference %s)", pad.Account, amount),
		Postings: []Posting{
			{Account: string(pad.Account), Units: amount},
			{Account: string(pad.AccountPad), Units: amount.Neg()},
		},
	}
	l.apply(txn)
	l.transactions = slices.Insert(l.transactions, pending.index, txn)

	for _, other := range l.pads {
		if other.index >= pending.index {
			other.index++
		}
	}
}

func (l *Ledger) processPrice(price *ast.Price) {
	amount, err := ParseAmount(price.Amount)
	if err == nil && amount.Number.IsZero() {
		err = fmt.Errorf("price rate must be non-zero")
	}
	if err != nil {
		l.addError(NewInvalidPriceError(price, err))
		return
	}
	l.prices = append(l.prices, prices.Quote{
		Date:  price.Date.Time,
		Base:  price.Commodity,
		Quote: amount.Currency,
		Rate:  amount.Number,
	})
}

func (l *Ledger) processCommodity(commodity *ast.Commodity) {
	c := &Commodity{
		Currency: commodity.Currency,
		Date:     commodity.Date.Time,
		Metadata: make(map[string]string, len(commodity.Metadata)),
	}
	for _, m := range commodity.Metadata {
		if m.Value != nil {
			c.Metadata[m.Key] = m.Value.String()
		}
	}
	l.commodities[commodity.Currency] = c
}

// requireOpen records an error unless account is open on the directive's date.
func (l *Ledger) requireOpen(directive ast.Directive, account ast.Account) bool {
	acc, ok := l.accounts[string(account)]
	if !ok || !acc.IsOpen(directive.GetDate().Time) {
		l.addError(NewAccountNotOpenError(directive, account))
		return false
	}
	return true
}

func (l *Ledger) addError(err error) {
	l.errors = append(l.errors, err)
}

// Errors returns all collected errors
func (l *Ledger) Errors() []error {
	return l.errors
}

// Config returns the options the ledger was processed with.
func (l *Ledger) Config() *Config {
	return l.config
}

// Transactions returns the booked transactions in date order, padding
// transactions included.
func (l *Ledger) Transactions() []*Transaction {
	return l.transactions
}

// Accounts returns the names of every opened account, sorted.
func (l *Ledger) Accounts() []string {
	names := maps.Keys(l.accounts)
	slices.Sort(names)
	return names
}

// Account returns an account by name
func (l *Ledger) Account(name string) (*Account, bool) {
	acc, ok := l.accounts[name]
	return acc, ok
}

// Balance returns the current balance of an account including its
// subaccounts.
func (l *Ledger) Balance(name string) inventory.Inventory {
	var total inventory.Inventory
	for n, acc := range l.accounts {
		if isSubaccount(n, name) {
			total.AddInventory(acc.Balance)
		}
	}
	return total
}

// Prices returns the quotes of every price directive, in date order.
func (l *Ledger) Prices() []prices.Quote {
	return l.prices
}

// ImplicitPrices returns the per-unit prices written on postings with @ or @@.
func (l *Ledger) ImplicitPrices() []prices.Quote {
	return l.implicitPrices
}

// Commodities returns the declared commodities by currency.
func (l *Ledger) Commodities() map[string]*Commodity {
	return l.commodities
}

// OperatingCurrencies returns the operating_currency options in file order.
func (l *Ledger) OperatingCurrencies() []string {
	return l.config.OperatingCurrencies
}
