package performance

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// CashFlow is money moved into (positive) or out of (negative) the
// portfolio on a date.
type CashFlow struct {
	Date   time.Time
	Amount decimal.Decimal
}

// CashFlows returns the contributions and withdrawals of r in currency, one
// flow per period, followed by the final market value as a withdrawal on the
// last date. Amounts in other currencies are ignored.
func CashFlows(r *Result, currency string) []CashFlow {
	var flows []CashFlow
	for i, date := range r.Dates {
		amount := decimal.Zero
		for _, c := range []Category{Contributions, Withdrawals} {
			if seq := r.Parts.Get(c); i < len(seq) {
				amount = amount.Add(seq[i].Units(currency))
			}
		}
		if !amount.IsZero() {
			flows = append(flows, CashFlow{Date: date, Amount: amount})
		}
	}
	if r.Len() == 0 {
		return flows
	}

	final := decimal.Zero
	for _, v := range r.Values {
		final = final.Add(v.Units(currency))
	}
	if !final.IsZero() {
		flows = append(flows, CashFlow{Date: r.Dates[r.Len()-1], Amount: final.Neg()})
	}
	return flows
}

var (
	// ErrNoSolution is returned when the flows all have the same sign.
	ErrNoSolution = errors.New("xirr: cash flows need both a positive and a negative amount")
	// ErrNoConvergence is returned when Newton's method does not settle.
	ErrNoConvergence = errors.New("xirr: did not converge")
)

const (
	xirrGuess      = 0.1
	xirrIterations = 100
	xirrTolerance  = 1e-10
)

// XIRR returns the annualised internal rate of return of flows as a
// fraction, e.g. 0.1 for 10%. Years are 365 days counted from the first
// flow.
func XIRR(flows []CashFlow) (decimal.Decimal, error) {
	if len(flows) < 2 {
		return decimal.Zero, ErrNoSolution
	}
	var positive, negative bool
	for _, f := range flows {
		positive = positive || f.Amount.IsPositive()
		negative = negative || f.Amount.IsNegative()
	}
	if !positive || !negative {
		return decimal.Zero, ErrNoSolution
	}

	start := flows[0].Date
	years := make([]float64, len(flows))
	amounts := make([]float64, len(flows))
	for i, f := range flows {
		years[i] = f.Date.Sub(start).Hours() / 24 / 365
		amounts[i] = f.Amount.InexactFloat64()
	}

	rate := xirrGuess
	for i := 0; i < xirrIterations; i++ {
		var value, slope float64
		for j := range flows {
			discount := math.Pow(1+rate, years[j])
			value += amounts[j] / discount
			slope -= years[j] * amounts[j] / (discount * (1 + rate))
		}
		if slope == 0 {
			break
		}
		next := rate - value/slope
		if math.IsNaN(next) || math.IsInf(next, 0) || next <= -1 {
			break
		}
		if math.Abs(next-rate) < xirrTolerance {
			return decimal.NewFromFloat(next).Round(8), nil
		}
		rate = next
	}
	return decimal.Zero, fmt.Errorf("%w after %d iterations", ErrNoConvergence, xirrIterations)
}
