package performance

import (
	"regexp"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// AccountSet is a set of account names.
type AccountSet map[string]struct{}

func (s AccountSet) Has(account string) bool {
	_, ok := s[account]
	return ok
}

func (s AccountSet) add(account string) {
	s[account] = struct{}{}
}

// Sorted returns the account names in order.
func (s AccountSet) Sorted() []string {
	names := maps.Keys(s)
	slices.Sort(names)
	return names
}

// Role is the part an account plays in a split report.
type Role int

const (
	RoleExternal Role = iota
	RoleValue
	RoleIncome
	RoleExpense
)

func (r Role) String() string {
	switch r {
	case RoleValue:
		return "value"
	case RoleIncome:
		return "income"
	case RoleExpense:
		return "expense"
	default:
		return "external"
	}
}

// Accounts partitions the accounts of a ledger for one report. Value,
// Internal and External are disjoint and cover every account; Internal is
// Income plus Expenses. Internalized is a subset of Internal.
type Accounts struct {
	Value        AccountSet
	Income       AccountSet
	Expenses     AccountSet
	Internal     AccountSet
	External     AccountSet
	Internalized AccountSet
}

// Classify assigns every account a role. The value patterns take priority
// over the internal ones; an account matching nothing is external.
func Classify(accounts []string, cfg Config) (*Accounts, error) {
	patterns, err := cfg.compilePatterns()
	if err != nil {
		return nil, err
	}

	a := &Accounts{
		Value:        AccountSet{},
		Income:       AccountSet{},
		Expenses:     AccountSet{},
		Internal:     AccountSet{},
		External:     AccountSet{},
		Internalized: AccountSet{},
	}
	for _, account := range accounts {
		switch {
		case matchAny(patterns.value, account):
			a.Value.add(account)
			continue
		case matchAny(patterns.income, account):
			a.Income.add(account)
		case matchAny(patterns.expenses, account):
			a.Expenses.add(account)
		case matchAny(patterns.internal, account):
			if strings.HasPrefix(account, "Expenses:") {
				a.Expenses.add(account)
			} else {
				a.Income.add(account)
			}
		default:
			a.External.add(account)
			continue
		}
		a.Internal.add(account)
		if matchAny(patterns.internalized, account) {
			a.Internalized.add(account)
		}
	}
	return a, nil
}

func matchAny(patterns []*regexp.Regexp, account string) bool {
	for _, re := range patterns {
		if re.MatchString(account) {
			return true
		}
	}
	return false
}

// Role returns the role of an account. Accounts unknown at classification
// time are external.
func (a *Accounts) Role(account string) Role {
	switch {
	case a.Value.Has(account):
		return RoleValue
	case a.Income.Has(account):
		return RoleIncome
	case a.Expenses.Has(account):
		return RoleExpense
	}
	return RoleExternal
}
