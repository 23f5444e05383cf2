package ast

import (
	"strings"
	"time"
)

// NewAmount creates a new Amount with the given value and currency.
// No validation is performed on the value or currency.
//
// Example:
//
//	amount := ast.NewAmount("45.60", "USD")
func NewAmount(value, currency string) *Amount {
	return &Amount{
		Value:    value,
		Currency: currency,
	}
}

// NewDate parses a date string in YYYY-MM-DD format.
func NewDate(s string) (*Date, error) {
	d := &Date{}
	if err := d.Capture([]string{s}); err != nil {
		return nil, err
	}
	return d, nil
}

// MustDate is NewDate for literals known to be valid. It panics otherwise.
func MustDate(s string) *Date {
	d, err := NewDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// NewDateFromTime creates a Date from a time.Time, dropping the time of day.
func NewDateFromTime(t time.Time) *Date {
	y, m, d := t.Date()
	return &Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// NewAccount creates an Account from the given name and validates it.
//
// Example:
//
//	account, err := ast.NewAccount("Assets:US:BofA:Checking")
func NewAccount(name string) (Account, error) {
	var account Account
	if err := account.Capture([]string{name}); err != nil {
		return "", err
	}
	return account, nil
}

// NewTag creates a Tag, stripping a leading # if present.
func NewTag(name string) Tag {
	return Tag(strings.TrimPrefix(name, "#"))
}

// NewLink creates a Link, stripping a leading ^ if present.
func NewLink(name string) Link {
	return Link(strings.TrimPrefix(name, "^"))
}

// NewMetadata creates a Metadata pair with a string value.
func NewMetadata(key, value string) *Metadata {
	return &Metadata{
		Key:   key,
		Value: &MetadataValue{Text: &value},
	}
}

// TransactionOption is a functional option for configuring a Transaction.
type TransactionOption func(*Transaction)

// NewTransaction creates a cleared transaction with the given date and
// narration.
//
// Example:
//
//	txn := ast.NewTransaction(date, "Buy shares",
//	    ast.WithPostings(
//	        ast.NewPosting(broker, ast.WithAmount("10", "VTI")),
//	        ast.NewPosting(checking),
//	    ),
//	)
func NewTransaction(date *Date, narration string, opts ...TransactionOption) *Transaction {
	txn := &Transaction{
		Date:      date,
		Flag:      "*",
		Narration: narration,
	}
	for _, opt := range opts {
		opt(txn)
	}
	return txn
}

func WithFlag(flag string) TransactionOption {
	return func(t *Transaction) { t.Flag = flag }
}

func WithPayee(payee string) TransactionOption {
	return func(t *Transaction) { t.Payee = payee }
}

func WithTags(tags ...string) TransactionOption {
	return func(t *Transaction) {
		for _, tag := range tags {
			t.Tags = append(t.Tags, NewTag(tag))
		}
	}
}

func WithPostings(postings ...*Posting) TransactionOption {
	return func(t *Transaction) { t.Postings = append(t.Postings, postings...) }
}

// PostingOption is a functional option for configuring a Posting.
type PostingOption func(*Posting)

// NewPosting creates a posting on account. Without WithAmount the amount is
// left for the ledger to infer.
func NewPosting(account Account, opts ...PostingOption) *Posting {
	p := &Posting{Account: account}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func WithAmount(value, currency string) PostingOption {
	return func(p *Posting) { p.Amount = NewAmount(value, currency) }
}

func WithCost(cost *CostSpec) PostingOption {
	return func(p *Posting) { p.Cost = cost }
}

// WithPrice sets a per-unit price (@).
func WithPrice(price *Amount) PostingOption {
	return func(p *Posting) {
		p.PriceMarker = "@"
		p.Price = price
	}
}

// WithTotalPrice sets a total price (@@).
func WithTotalPrice(price *Amount) PostingOption {
	return func(p *Posting) {
		p.PriceMarker = "@@"
		p.Price = price
	}
}

// NewCostSpec creates a per-unit cost spec {amount}.
func NewCostSpec(amount *Amount) *CostSpec {
	return &CostSpec{Amount: amount}
}

// NewTotalCostSpec creates a total cost spec {{amount}}.
func NewTotalCostSpec(amount *Amount) *CostSpec {
	return &CostSpec{Total: true, Amount: amount}
}

func NewOpen(date *Date, account Account, constraintCurrencies []string, bookingMethod string) *Open {
	return &Open{
		Date:                 date,
		Account:              account,
		ConstraintCurrencies: constraintCurrencies,
		BookingMethod:        bookingMethod,
	}
}

func NewPrice(date *Date, commodity string, amount *Amount) *Price {
	return &Price{
		Date:      date,
		Commodity: commodity,
		Amount:    amount,
	}
}

func NewCommodity(date *Date, currency string) *Commodity {
	return &Commodity{
		Date:     date,
		Currency: currency,
	}
}
