package performance

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/redstreet/fava-investor/inventory"
	"github.com/redstreet/fava-investor/ledger"
	"github.com/redstreet/fava-investor/parser"
)

func testConfig(opts ...func(*Config)) Config {
	cfg := Config{
		AccountsPattern: PatternList{"^Assets:Account"},
		IncomePattern:   PatternList{"^Income:"},
		ExpensesPattern: PatternList{"^Expenses:"},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func withInterval(interval Interval) func(*Config) {
	return func(cfg *Config) { cfg.Interval = interval }
}

func withCategories(categories ...Category) func(*Config) {
	return func(cfg *Config) { cfg.Categories = categories }
}

func withInternalized(patterns ...string) func(*Config) {
	return func(cfg *Config) { cfg.InternalizedPattern = patterns }
}

func load(t *testing.T, source string) *ledger.Ledger {
	t.Helper()
	tree, err := parser.ParseString(context.Background(), source)
	assert.NoError(t, err)
	l := ledger.New()
	assert.NoError(t, l.Process(context.Background(), tree))
	return l
}

func split(t *testing.T, source string, opts ...func(*Config)) *Result {
	t.Helper()
	r, err := Split(context.Background(), load(t, source), testConfig(opts...))
	assert.NoError(t, err)
	return r
}

func assertInventory(t *testing.T, want string, got inventory.Inventory) {
	t.Helper()
	assert.Equal(t, inventory.MustParse(want).String(), got.String())
}

func assertInventoriesSum(t *testing.T, want string, got []inventory.Inventory) {
	t.Helper()
	assertInventory(t, want, inventory.Sum(got...))
}

// sumOfSplits adds up every split category over every period.
func sumOfSplits(r *Result) inventory.Inventory {
	var total inventory.Inventory
	for _, c := range SplitCategories() {
		total.AddInventory(inventory.Sum(r.Parts.Get(c)...))
	}
	return total
}

// assertSumOfSplitsEqualValue checks the split categories against the market
// value of account at the last valuation date, computed from the ledger.
func assertSumOfSplitsEqualValue(t *testing.T, source string, opts ...func(*Config)) {
	t.Helper()
	l := load(t, source)
	r, err := Split(context.Background(), l, testConfig(opts...))
	assert.NoError(t, err)

	last := r.Dates[len(r.Dates)-1]
	value, err := l.Balance("Assets:Account").ReduceToValue(r.Prices, last)
	assert.NoError(t, err)

	assert.Equal(t, value.String(), sumOfSplits(r).String())
	assert.NoError(t, Check(r))
}
