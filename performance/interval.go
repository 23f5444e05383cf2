package performance

import (
	"fmt"
	"strings"
	"time"
)

// Interval selects how the transaction stream is bucketed into periods.
type Interval int

const (
	// Totals reports a single period covering the whole stream.
	Totals Interval = iota
	// PerTransaction closes a period after every transaction.
	PerTransaction
	Day
	Week
	Month
	Quarter
	Year
)

func (i Interval) String() string {
	switch i {
	case PerTransaction:
		return "per-transaction"
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	case Quarter:
		return "quarter"
	case Year:
		return "year"
	default:
		return "totals"
	}
}

// ParseInterval parses an interval name. The empty string and "none" mean
// Totals.
func ParseInterval(s string) (Interval, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "totals", "total":
		return Totals, nil
	case "per-transaction", "transaction":
		return PerTransaction, nil
	case "day", "daily":
		return Day, nil
	case "week", "weekly":
		return Week, nil
	case "month", "monthly":
		return Month, nil
	case "quarter", "quarterly":
		return Quarter, nil
	case "year", "yearly":
		return Year, nil
	}
	return Totals, fmt.Errorf("unknown interval %q", s)
}

func (i Interval) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Interval) UnmarshalText(text []byte) error {
	parsed, err := ParseInterval(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// calendar reports whether the interval has fixed period ends.
func (i Interval) calendar() bool {
	return i >= Day && i <= Year
}

// PeriodEnd returns the last day of the period containing t. Weeks end on
// Sunday. Totals and PerTransaction have no period end and return t.
func (i Interval) PeriodEnd(t time.Time) time.Time {
	y, m, d := t.Date()
	switch i {
	case Day:
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	case Week:
		offset := (7 - int(t.Weekday())) % 7
		return time.Date(y, m, d+offset, 0, 0, 0, 0, t.Location())
	case Month:
		return time.Date(y, m+1, 0, 0, 0, 0, 0, t.Location())
	case Quarter:
		end := time.Month((int(m)-1)/3*3 + 3)
		return time.Date(y, end+1, 0, 0, 0, 0, 0, t.Location())
	case Year:
		return time.Date(y+1, time.January, 0, 0, 0, 0, 0, t.Location())
	}
	return t
}

// Boundaries returns the period ends from the period containing first up to
// the one containing last. Intervals without period ends yield nil.
func Boundaries(first, last time.Time, interval Interval) []time.Time {
	if !interval.calendar() || last.Before(first) {
		return nil
	}
	final := interval.PeriodEnd(last)
	var bounds []time.Time
	for end := interval.PeriodEnd(first); !end.After(final); end = interval.PeriodEnd(end.AddDate(0, 0, 1)) {
		bounds = append(bounds, end)
	}
	return bounds
}
