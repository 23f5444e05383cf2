package performance

import (
	"fmt"
	"strings"
	"time"

	"github.com/redstreet/fava-investor/inventory"
	"github.com/redstreet/fava-investor/ledger"
)

// Category is one of the buckets a split report sorts value changes into.
type Category int

const (
	Contributions Category = iota
	Withdrawals
	Dividends
	Costs
	RealizedGains
	UnrealizedGains
	ValueChanges
)

var categoryNames = []string{
	Contributions:   "contributions",
	Withdrawals:     "withdrawals",
	Dividends:       "dividends",
	Costs:           "costs",
	RealizedGains:   "gains_realized",
	UnrealizedGains: "gains_unrealized",
	ValueChanges:    "value_changes",
}

// AllCategories returns every category in report order.
func AllCategories() []Category {
	return []Category{Contributions, Withdrawals, Dividends, Costs, RealizedGains, UnrealizedGains, ValueChanges}
}

// SplitCategories returns the categories whose sum explains the value change.
func SplitCategories() []Category {
	return []Category{Contributions, Withdrawals, Dividends, Costs, RealizedGains, UnrealizedGains}
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory parses a category name such as "gains_realized". Hyphens are
// accepted in place of underscores.
func ParseCategory(s string) (Category, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for c, n := range categoryNames {
		if n == name {
			return Category(c), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q, expected one of %s", s, strings.Join(categoryNames, ", "))
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Accumulator collects one category over a period. Process is called with
// every transaction in date order; ResultAndReset returns what accumulated
// since the previous call, valued as of date, and starts a new period.
type Accumulator interface {
	Category() Category
	Process(txn *ledger.Transaction) error
	ResultAndReset(date time.Time) (inventory.Inventory, error)
}

// NewAccumulator returns a fresh accumulator for category.
func NewAccumulator(category Category, accounts *Accounts, prices inventory.PriceLookup) (Accumulator, error) {
	switch category {
	case Contributions:
		return newFlow(category, accounts, func(p Parts) inventory.Inventory { return p.Contributions }), nil
	case Withdrawals:
		return newFlow(category, accounts, func(p Parts) inventory.Inventory { return p.Withdrawals }), nil
	case Dividends:
		return newFlow(category, accounts, func(p Parts) inventory.Inventory { return p.Dividends }), nil
	case Costs:
		return newFlow(category, accounts, func(p Parts) inventory.Inventory { return p.Costs }), nil
	case RealizedGains:
		return newFlow(category, accounts, func(p Parts) inventory.Inventory { return p.RealizedGains }), nil
	case UnrealizedGains:
		return &unrealizedGainAccumulator{valuation: valuation{accounts: accounts, prices: prices}}, nil
	case ValueChanges:
		return &valueChangeAccumulator{valuation: valuation{accounts: accounts, prices: prices}}, nil
	}
	return nil, fmt.Errorf("unknown category %s", category)
}

// flow sums one category of the per-transaction Parts until reset.
type flow struct {
	category Category
	accounts *Accounts
	pick     func(Parts) inventory.Inventory
	sum      inventory.Inventory
}

func newFlow(category Category, accounts *Accounts, pick func(Parts) inventory.Inventory) *flow {
	return &flow{category: category, accounts: accounts, pick: pick}
}

func (f *flow) Category() Category { return f.category }

func (f *flow) Process(txn *ledger.Transaction) error {
	f.add(Categorize(txn, f.accounts))
	return nil
}

func (f *flow) add(parts Parts) {
	f.sum.AddInventory(f.pick(parts))
}

func (f *flow) ResultAndReset(time.Time) (inventory.Inventory, error) {
	result := f.sum
	f.sum = inventory.Inventory{}
	return result, nil
}

// valuation tracks the running balance of the value accounts.
type valuation struct {
	accounts *Accounts
	prices   inventory.PriceLookup
	balance  inventory.Inventory
}

func (v *valuation) Process(txn *ledger.Transaction) error {
	for _, p := range txn.Postings {
		if v.accounts.Value.Has(p.Account) {
			v.balance.AddPosition(p.Position())
		}
	}
	return nil
}

func (v *valuation) value(date time.Time) (inventory.Inventory, error) {
	value, err := v.balance.ReduceToValue(v.prices, date)
	if err != nil {
		return inventory.Inventory{}, fmt.Errorf("valuing portfolio on %s: %w", date.Format("2006-01-02"), err)
	}
	return value, nil
}

// unrealizedGainAccumulator reports the change of market value minus cost of
// the running balance.
type unrealizedGainAccumulator struct {
	valuation
	last inventory.Inventory
}

func (a *unrealizedGainAccumulator) Category() Category { return UnrealizedGains }

func (a *unrealizedGainAccumulator) ResultAndReset(date time.Time) (inventory.Inventory, error) {
	value, err := a.value(date)
	if err != nil {
		return inventory.Inventory{}, err
	}
	gain := value.Add(a.balance.ReduceToCost().Neg())
	delta := gain.Add(a.last.Neg())
	a.last = gain
	return delta, nil
}

// valueChangeAccumulator reports the change of market value of the running
// balance.
type valueChangeAccumulator struct {
	valuation
	last inventory.Inventory
}

func (a *valueChangeAccumulator) Category() Category { return ValueChanges }

func (a *valueChangeAccumulator) ResultAndReset(date time.Time) (inventory.Inventory, error) {
	value, err := a.value(date)
	if err != nil {
		return inventory.Inventory{}, err
	}
	delta := value.Add(a.last.Neg())
	a.last = value
	return delta, nil
}
