package inventory

import (
	"github.com/shopspring/decimal"
)

// Amount is a signed quantity of one currency or commodity.
type Amount struct {
	Number   decimal.Decimal
	Currency string
}

func NewAmount(number decimal.Decimal, currency string) Amount {
	return Amount{Number: number, Currency: currency}
}

func (a Amount) Neg() Amount {
	return Amount{Number: a.Number.Neg(), Currency: a.Currency}
}

func (a Amount) IsZero() bool {
	return a.Number.IsZero()
}

func (a Amount) String() string {
	return a.Number.String() + " " + a.Currency
}
