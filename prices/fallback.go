package prices

import (
	"time"

	"github.com/shopspring/decimal"
)

// Acquisition is a posting that adds units of a commodity at a per-unit cost.
type Acquisition struct {
	Date         time.Time
	Currency     string
	Cost         decimal.Decimal
	CostCurrency string
}

// BuildWithCostFallback builds a price map from explicit quotes, adding a
// synthesized quote at the first acquisition of every (commodity, cost
// currency) pair that has no explicit quote on or before that date. The
// synthesized rate is the per-unit cost. Later acquisitions of the same pair
// never add quotes, and explicit quotes always replace synthesized ones on the
// same date. The synthesized quotes are returned alongside the map.
func BuildWithCostFallback(quotes []Quote, acquisitions []Acquisition) (*Map, []Quote, error) {
	earliest := make(map[Pair]time.Time)
	for _, q := range quotes {
		pair := Pair{Base: q.Base, Quote: q.Quote}
		if d, ok := earliest[pair]; !ok || q.Date.Before(d) {
			earliest[pair] = q.Date
		}
	}

	seen := make(map[Pair]bool)
	var synthesized []Quote
	for _, acq := range acquisitions {
		if acq.Currency == acq.CostCurrency || acq.Cost.IsZero() {
			continue
		}
		pair := Pair{Base: acq.Currency, Quote: acq.CostCurrency}
		if seen[pair] {
			continue
		}
		seen[pair] = true

		if d, ok := earliest[pair]; ok && !d.After(acq.Date) {
			continue
		}
		synthesized = append(synthesized, Quote{
			Date:      acq.Date,
			Base:      acq.Currency,
			Quote:     acq.CostCurrency,
			Rate:      acq.Cost,
			Synthetic: true,
		})
	}

	m := New()
	for _, q := range synthesized {
		if err := m.Add(q.Date, q.Base, q.Quote, q.Rate); err != nil {
			return nil, nil, err
		}
	}
	for _, q := range quotes {
		if err := m.Add(q.Date, q.Base, q.Quote, q.Rate); err != nil {
			return nil, nil, err
		}
	}

	return m, synthesized, nil
}
