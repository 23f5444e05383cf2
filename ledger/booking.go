package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/redstreet/fava-investor/inventory"
)

// BookingMethod selects how a reducing posting is matched against the lots
// held in an account.
type BookingMethod int

const (
	// BookingStrict requires the cost spec to select exactly one lot, unless
	// the reduction consumes every matching lot in full.
	BookingStrict BookingMethod = iota
	// BookingFIFO consumes the oldest matching lots first.
	BookingFIFO
	// BookingLIFO consumes the newest matching lots first.
	BookingLIFO
	// BookingNone performs no matching; reductions add a negative lot.
	BookingNone
)

// ParseBookingMethod parses a booking method name, case-insensitively.
func ParseBookingMethod(s string) (BookingMethod, error) {
	switch strings.ToUpper(s) {
	case "STRICT":
		return BookingStrict, nil
	case "FIFO":
		return BookingFIFO, nil
	case "LIFO":
		return BookingLIFO, nil
	case "NONE":
		return BookingNone, nil
	}
	return BookingStrict, fmt.Errorf("unknown booking method %q, expected STRICT, FIFO, LIFO or NONE", s)
}

func (m BookingMethod) String() string {
	switch m {
	case BookingFIFO:
		return "FIFO"
	case BookingLIFO:
		return "LIFO"
	case BookingNone:
		return "NONE"
	default:
		return "STRICT"
	}
}

// lotMatcher holds the constraints a reducing cost spec puts on lots. Zero
// fields match anything.
type lotMatcher struct {
	number   *decimal.Decimal
	currency string
	date     *time.Time
	label    string
}

func (m lotMatcher) matches(c *inventory.Cost) bool {
	if c == nil {
		return false
	}
	if m.number != nil && !m.number.Equal(c.Number) {
		return false
	}
	if m.currency != "" && m.currency != c.Currency {
		return false
	}
	if m.date != nil && !m.date.Equal(c.Date) {
		return false
	}
	if m.label != "" && m.label != c.Label {
		return false
	}
	return true
}

// bookReduction matches the negative units against the lots of balance and
// returns one position per lot touched, each carrying that lot's full cost.
func bookReduction(balance inventory.Inventory, units inventory.Amount, m lotMatcher, method BookingMethod) ([]inventory.Position, error) {
	var candidates []inventory.Position
	for _, lot := range balance.Lots(units.Currency) {
		if lot.Units.Number.IsPositive() && m.matches(lot.Cost) {
			candidates = append(candidates, lot)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no position matches")
	}

	need := units.Number.Neg()
	total := decimal.Zero
	for _, lot := range candidates {
		total = total.Add(lot.Units.Number)
	}
	if total.LessThan(need) {
		return nil, fmt.Errorf("not enough units: have %s %s, need %s", total, units.Currency, need)
	}

	switch method {
	case BookingStrict:
		if len(candidates) > 1 && !total.Equal(need) {
			return nil, fmt.Errorf("ambiguous match: %d lots match the cost spec", len(candidates))
		}
	case BookingLIFO:
		for i, j := 0, len(candidates)-1; i < j; i, j = i+1, j-1 {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		}
	}

	var booked []inventory.Position
	for _, lot := range candidates {
		if need.IsZero() {
			break
		}
		take := decimal.Min(need, lot.Units.Number)
		booked = append(booked, inventory.Position{
			Units: inventory.NewAmount(take.Neg(), units.Currency),
			Cost:  lot.Cost,
		})
		need = need.Sub(take)
	}
	return booked, nil
}
