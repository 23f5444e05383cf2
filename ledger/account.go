package ledger

import (
	"strings"
	"time"

	"github.com/redstreet/fava-investor/ast"
	"github.com/redstreet/fava-investor/inventory"
)

// AccountType represents the root type of an account.
type AccountType int

const (
	AccountTypeUnknown AccountType = iota
	AccountTypeAssets
	AccountTypeLiabilities
	AccountTypeEquity
	AccountTypeIncome
	AccountTypeExpenses
)

// String returns the string representation of the account type
func (t AccountType) String() string {
	switch t {
	case AccountTypeAssets:
		return "Assets"
	case AccountTypeLiabilities:
		return "Liabilities"
	case AccountTypeEquity:
		return "Equity"
	case AccountTypeIncome:
		return "Income"
	case AccountTypeExpenses:
		return "Expenses"
	default:
		return "Unknown"
	}
}

// ParseAccountType parses the account type from the account name.
func ParseAccountType(account string) AccountType {
	root, _, _ := strings.Cut(account, ":")
	switch root {
	case "Assets":
		return AccountTypeAssets
	case "Liabilities":
		return AccountTypeLiabilities
	case "Equity":
		return AccountTypeEquity
	case "Income":
		return AccountTypeIncome
	case "Expenses":
		return AccountTypeExpenses
	default:
		return AccountTypeUnknown
	}
}

// Account is an opened account and its running balance.
type Account struct {
	Name                 string
	Type                 AccountType
	OpenDate             time.Time
	CloseDate            *time.Time
	ConstraintCurrencies []string
	Booking              BookingMethod
	Metadata             []*ast.Metadata
	Balance              inventory.Inventory
}

// IsOpen reports whether the account accepts postings on date. Postings on
// the close date itself are allowed.
func (a *Account) IsOpen(date time.Time) bool {
	if date.Before(a.OpenDate) {
		return false
	}
	return a.CloseDate == nil || !date.After(*a.CloseDate)
}

// IsClosed returns true if the account has been closed
func (a *Account) IsClosed() bool {
	return a.CloseDate != nil
}

// Allows reports whether the account's currency constraints admit currency.
func (a *Account) Allows(currency string) bool {
	if len(a.ConstraintCurrencies) == 0 {
		return true
	}
	for _, c := range a.ConstraintCurrencies {
		if c == currency {
			return true
		}
	}
	return false
}

// isSubaccount reports whether name is parent or one of its descendants.
func isSubaccount(name, parent string) bool {
	return name == parent || strings.HasPrefix(name, parent+":")
}
