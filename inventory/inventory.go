// Package inventory implements multi-currency, multi-lot positions with exact
// decimal arithmetic.
//
// An Inventory maps (currency, lot) to a signed quantity. Quantities that sum to
// zero are dropped, so an inventory whose positions fully offset compares equal
// to the empty inventory. The zero value is an empty inventory ready to use.
package inventory

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Inventory is a bag of positions. Methods with pointer receivers mutate it;
// the others return new inventories.
type Inventory struct {
	lots map[lotKey]Position
}

// New returns an inventory holding the given positions.
func New(positions ...Position) Inventory {
	var inv Inventory
	for _, p := range positions {
		inv.AddPosition(p)
	}
	return inv
}

// FromAmounts returns an inventory of amounts without cost.
func FromAmounts(amounts ...Amount) Inventory {
	var inv Inventory
	for _, a := range amounts {
		inv.AddAmount(a)
	}
	return inv
}

// AddPosition adds p to the lot with the same currency and cost.
func (inv *Inventory) AddPosition(p Position) {
	if p.Units.Number.IsZero() {
		return
	}
	if inv.lots == nil {
		inv.lots = make(map[lotKey]Position)
	}

	k := keyOf(p)
	existing, ok := inv.lots[k]
	if !ok {
		inv.lots[k] = p
		return
	}

	sum := existing.Units.Number.Add(p.Units.Number)
	if sum.IsZero() {
		delete(inv.lots, k)
		return
	}
	existing.Units.Number = sum
	inv.lots[k] = existing
}

// AddAmount adds an amount held without cost.
func (inv *Inventory) AddAmount(a Amount) {
	inv.AddPosition(Position{Units: a})
}

// AddInventory adds every position of other.
func (inv *Inventory) AddInventory(other Inventory) {
	for _, p := range other.lots {
		inv.AddPosition(p)
	}
}

// Add returns the sum of inv and other.
func (inv Inventory) Add(other Inventory) Inventory {
	out := inv.Clone()
	out.AddInventory(other)
	return out
}

// Sum adds up a list of inventories.
func Sum(invs ...Inventory) Inventory {
	var out Inventory
	for _, inv := range invs {
		out.AddInventory(inv)
	}
	return out
}

func (inv Inventory) Neg() Inventory {
	var out Inventory
	for _, p := range inv.lots {
		out.AddPosition(Position{Units: p.Units.Neg(), Cost: p.Cost})
	}
	return out
}

func (inv Inventory) Clone() Inventory {
	return Inventory{lots: maps.Clone(inv.lots)}
}

func (inv Inventory) IsEmpty() bool {
	return len(inv.lots) == 0
}

func (inv Inventory) Len() int {
	return len(inv.lots)
}

// Equal compares two inventories position by position.
func (inv Inventory) Equal(other Inventory) bool {
	if len(inv.lots) != len(other.lots) {
		return false
	}
	for k, p := range inv.lots {
		o, ok := other.lots[k]
		if !ok || !p.Units.Number.Equal(o.Units.Number) {
			return false
		}
	}
	return true
}

// Positions returns the positions ordered by currency, then by cost date and
// cost.
func (inv Inventory) Positions() []Position {
	positions := maps.Values(inv.lots)
	slices.SortFunc(positions, comparePositions)
	return positions
}

func comparePositions(a, b Position) int {
	if c := strings.Compare(a.Units.Currency, b.Units.Currency); c != 0 {
		return c
	}
	switch {
	case a.Cost == nil && b.Cost == nil:
		return 0
	case a.Cost == nil:
		return -1
	case b.Cost == nil:
		return 1
	}
	if c := a.Cost.Date.Compare(b.Cost.Date); c != 0 {
		return c
	}
	return strings.Compare(a.Cost.String(), b.Cost.String())
}

// Lots returns the positions of one currency, oldest lot first.
func (inv Inventory) Lots(currency string) []Position {
	var lots []Position
	for _, p := range inv.Positions() {
		if p.Units.Currency == currency {
			lots = append(lots, p)
		}
	}
	return lots
}

// Currencies returns the sorted set of unit currencies held.
func (inv Inventory) Currencies() []string {
	seen := make(map[string]struct{}, len(inv.lots))
	for k := range inv.lots {
		seen[k.currency] = struct{}{}
	}
	currencies := maps.Keys(seen)
	slices.Sort(currencies)
	return currencies
}

// Units returns the total number of units of currency across all lots.
func (inv Inventory) Units(currency string) decimal.Decimal {
	total := decimal.Zero
	for k, p := range inv.lots {
		if k.currency == currency {
			total = total.Add(p.Units.Number)
		}
	}
	return total
}

// Filter returns the positions for which keep returns true.
func (inv Inventory) Filter(keep func(Position) bool) Inventory {
	var out Inventory
	for _, p := range inv.lots {
		if keep(p) {
			out.AddPosition(p)
		}
	}
	return out
}

// ReduceToUnits drops all cost information.
func (inv Inventory) ReduceToUnits() Inventory {
	var out Inventory
	for _, p := range inv.lots {
		out.AddAmount(p.Units)
	}
	return out
}

// ReduceToCost converts every lot to its total cost. Positions without cost
// are kept as units.
func (inv Inventory) ReduceToCost() Inventory {
	var out Inventory
	for _, p := range inv.lots {
		out.AddAmount(p.Weight())
	}
	return out
}

// PriceLookup finds the rate converting one unit of base into quote as of a
// date.
type PriceLookup interface {
	Lookup(base, quote string, date time.Time) (decimal.Decimal, bool)
}

// ReduceToValue converts every lot held at cost to its market value in the
// cost currency as of date. Positions without cost are kept as units. A lot
// that cannot be priced yields a *ValuationError.
func (inv Inventory) ReduceToValue(prices PriceLookup, date time.Time) (Inventory, error) {
	var out Inventory
	for _, p := range inv.Positions() {
		if p.Cost == nil {
			out.AddAmount(p.Units)
			continue
		}
		rate, ok := prices.Lookup(p.Units.Currency, p.Cost.Currency, date)
		if !ok {
			return Inventory{}, &ValuationError{Currency: p.Units.Currency, Quote: p.Cost.Currency, Date: date}
		}
		out.AddAmount(Amount{Number: p.Units.Number.Mul(rate), Currency: p.Cost.Currency})
	}
	return out, nil
}

// String renders positions separated by ", ", e.g. "1 AA {1 USD}, -1 USD".
func (inv Inventory) String() string {
	positions := inv.Positions()
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}
