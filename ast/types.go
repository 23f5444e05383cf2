package ast

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Account is a colon separated account name such as "Assets:Investments:Broker".
type Account string

var accountSegmentRegex = regexp.MustCompile(`^[A-Z0-9][A-Za-z0-9-]*$`)

// Capture validates the account root type and every segment.
func (a *Account) Capture(values []string) error {
	parts := strings.Split(values[0], ":")
	if len(parts) < 2 {
		return fmt.Errorf("account must have at least two segments: %s", values[0])
	}

	switch parts[0] {
	case "Assets", "Liabilities", "Equity", "Income", "Expenses":
	default:
		return fmt.Errorf("unexpected account type %q", parts[0])
	}

	for i := 1; i < len(parts); i++ {
		if !accountSegmentRegex.MatchString(parts[i]) {
			return fmt.Errorf("invalid account segment at position %d: %s", i, parts[i])
		}
	}

	*a = Account(values[0])
	return nil
}

// Root returns the account type segment, e.g. "Assets".
func (a Account) Root() string {
	root, _, _ := strings.Cut(string(a), ":")
	return root
}

// Parent returns the parent account, or "" for a top level account.
func (a Account) Parent() Account {
	i := strings.LastIndexByte(string(a), ':')
	if i < 0 {
		return ""
	}
	return a[:i]
}

// Date is a calendar date without time of day.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func (d *Date) Capture(values []string) error {
	t, err := time.Parse(dateLayout, values[0])
	if err != nil {
		return fmt.Errorf("invalid date: %s", values[0])
	}
	d.Time = t
	return nil
}

// IsZero is nil safe.
func (d *Date) IsZero() bool {
	if d == nil {
		return true
	}
	return d.Time.IsZero()
}

func (d *Date) String() string {
	if d == nil {
		return ""
	}
	return d.Format(dateLayout)
}

// Link is a transaction link without its leading caret.
type Link string

func (l *Link) Capture(values []string) error {
	*l = Link(strings.TrimPrefix(values[0], "^"))
	return nil
}

// Tag is a transaction tag without its leading hash.
type Tag string

func (t *Tag) Capture(values []string) error {
	*t = Tag(strings.TrimPrefix(values[0], "#"))
	return nil
}

// Amount is a number with a currency. The number is kept as written in the
// source, possibly as a parenthesized expression; ledger.ParseAmount turns it
// into a decimal.
type Amount struct {
	Value    string `parser:"@(Number | Expr)"`
	Currency string `parser:"@Currency"`
}

func (a *Amount) String() string {
	if a == nil {
		return ""
	}
	return a.Value + " " + a.Currency
}

// CostSpec is the lot specification written between braces, either per unit
// ({...}) or total ({{...}}). Every component is optional; an empty spec asks
// the booking to pick the matching lot.
type CostSpec struct {
	Total  bool    `parser:"( '{' | @'{{' )"`
	Amount *Amount `parser:"@@?"`
	Date   *Date   `parser:"( ','? @Date )?"`
	Label  string  `parser:"( ','? @String )? ( '}' | '}}' )"`
}

// IsEmpty reports whether the spec carries no component at all.
func (c *CostSpec) IsEmpty() bool {
	return c != nil && c.Amount == nil && c.Date == nil && c.Label == ""
}

// Metadata is a key/value pair attached to a directive or posting.
type Metadata struct {
	Pos   Position
	Key   string         `parser:"@Ident ':'"`
	Value *MetadataValue `parser:"@@?"`
}

// MetadataValue holds exactly one of its fields.
type MetadataValue struct {
	Text     *string  `parser:"  @String"`
	Date     *Date    `parser:"| @Date"`
	Account  *Account `parser:"| @Account"`
	Amount   *Amount  `parser:"| @@"`
	Number   *string  `parser:"| @Number"`
	Currency *string  `parser:"| @Currency"`
	Tag      *Tag     `parser:"| @Tag"`
}

func (v *MetadataValue) String() string {
	switch {
	case v == nil:
		return ""
	case v.Text != nil:
		return *v.Text
	case v.Date != nil:
		return v.Date.String()
	case v.Account != nil:
		return string(*v.Account)
	case v.Amount != nil:
		return v.Amount.String()
	case v.Number != nil:
		return *v.Number
	case v.Currency != nil:
		return *v.Currency
	case v.Tag != nil:
		return "#" + string(*v.Tag)
	}
	return ""
}
