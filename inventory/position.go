package inventory

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Cost is the per-unit acquisition cost of a lot.
type Cost struct {
	Number   decimal.Decimal
	Currency string
	Date     time.Time
	Label    string
}

func (c *Cost) String() string {
	var b strings.Builder
	b.WriteString("{")
	b.WriteString(c.Number.String())
	b.WriteString(" ")
	b.WriteString(c.Currency)
	if !c.Date.IsZero() {
		b.WriteString(", ")
		b.WriteString(c.Date.Format("2006-01-02"))
	}
	if c.Label != "" {
		b.WriteString(", ")
		b.WriteString(strconv.Quote(c.Label))
	}
	b.WriteString("}")
	return b.String()
}

// Equal compares costs by value; two nil costs are equal.
func (c *Cost) Equal(o *Cost) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.Number.Equal(o.Number) && c.Currency == o.Currency && c.Date.Equal(o.Date) && c.Label == o.Label
}

// Position is an amount held at an optional cost.
type Position struct {
	Units Amount
	Cost  *Cost
}

// Weight is the amount the position contributes to a transaction's balance:
// units times cost when a cost is known, the units otherwise.
func (p Position) Weight() Amount {
	if p.Cost == nil {
		return p.Units
	}
	return Amount{Number: p.Units.Number.Mul(p.Cost.Number), Currency: p.Cost.Currency}
}

func (p Position) String() string {
	if p.Cost == nil {
		return p.Units.String()
	}
	return p.Units.String() + " " + p.Cost.String()
}

type lotKey struct {
	currency string
	cost     string
}

func keyOf(p Position) lotKey {
	k := lotKey{currency: p.Units.Currency}
	if p.Cost != nil {
		k.cost = p.Cost.String()
	}
	return k
}
