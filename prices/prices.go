// Package prices holds the dated exchange rates used to value inventories.
//
// A Map stores every quote in both directions and answers lookups with
// forward-fill semantics: the most recent rate on or before the requested
// date wins.
package prices

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Pair identifies a rate quoted as one unit of Base in Quote.
type Pair struct {
	Base  string
	Quote string
}

func (p Pair) String() string {
	return p.Base + "/" + p.Quote
}

// Point is a single dated rate.
type Point struct {
	Date time.Time
	Rate decimal.Decimal
}

// Quote is a rate observation, either from a price directive or synthesized
// from an acquisition cost.
type Quote struct {
	Date      time.Time
	Base      string
	Quote     string
	Rate      decimal.Decimal
	Synthetic bool
}

// Map is a temporal index of rates per currency pair. The zero value is not
// usable; create maps with New.
type Map struct {
	points map[Pair][]Point
}

// New creates an empty price map.
func New() *Map {
	return &Map{points: make(map[Pair][]Point)}
}

// Add records rate for base/quote on date, and the inverse rate for
// quote/base. A later Add for the same pair and date replaces the earlier
// one. Zero rates are rejected.
func (m *Map) Add(date time.Time, base, quote string, rate decimal.Decimal) error {
	if rate.IsZero() {
		return fmt.Errorf("price rate must be non-zero: %s %s %s on %s", base, quote, rate, date.Format("2006-01-02"))
	}
	if base == quote {
		return nil
	}

	m.insert(Pair{Base: base, Quote: quote}, Point{Date: date, Rate: rate})
	m.insert(Pair{Base: quote, Quote: base}, Point{Date: date, Rate: decimal.NewFromInt(1).DivRound(rate, 16)})
	return nil
}

func (m *Map) insert(pair Pair, p Point) {
	points := m.points[pair]
	i := sort.Search(len(points), func(i int) bool { return !points[i].Date.Before(p.Date) })
	if i < len(points) && points[i].Date.Equal(p.Date) {
		points[i] = p
		return
	}
	m.points[pair] = slices.Insert(points, i, p)
}

// Lookup returns the rate for base/quote on date using the latest point on or
// before it. Same currency conversions always return 1.
func (m *Map) Lookup(base, quote string, date time.Time) (decimal.Decimal, bool) {
	if base == quote {
		return decimal.NewFromInt(1), true
	}

	points := m.points[Pair{Base: base, Quote: quote}]
	i := sort.Search(len(points), func(i int) bool { return points[i].Date.After(date) })
	if i == 0 {
		return decimal.Zero, false
	}
	return points[i-1].Rate, true
}

// Latest returns the most recent point for base/quote.
func (m *Map) Latest(base, quote string) (Point, bool) {
	points := m.points[Pair{Base: base, Quote: quote}]
	if len(points) == 0 {
		return Point{}, false
	}
	return points[len(points)-1], true
}

// Points returns the ascending history of base/quote.
func (m *Map) Points(base, quote string) []Point {
	return slices.Clone(m.points[Pair{Base: base, Quote: quote}])
}

// Pairs returns every pair in the map, inverse pairs included, sorted.
func (m *Map) Pairs() []Pair {
	pairs := maps.Keys(m.points)
	slices.SortFunc(pairs, func(a, b Pair) int {
		if a.Base != b.Base {
			if a.Base < b.Base {
				return -1
			}
			return 1
		}
		switch {
		case a.Quote < b.Quote:
			return -1
		case a.Quote > b.Quote:
			return 1
		}
		return 0
	})
	return pairs
}
