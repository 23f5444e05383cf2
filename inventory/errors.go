package inventory

import (
	"fmt"
	"time"
)

// ValuationError reports a lot that has no price at or before a date.
type ValuationError struct {
	Currency string
	Quote    string
	Date     time.Time
}

func (e *ValuationError) Error() string {
	return fmt.Sprintf("cannot value %s in %s on %s: no price on or before that date",
		e.Currency, e.Quote, e.Date.Format("2006-01-02"))
}
