package performance

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestClassify(t *testing.T) {
	accounts := []string{
		"Assets:Account",
		"Assets:Account:Cash",
		"Assets:Bank",
		"Expenses:Fees",
		"Expenses:Taxes",
		"Income:Account:Dividends",
		"Income:Salary",
		"Liabilities:Card",
	}
	cfg := testConfig(func(cfg *Config) {
		cfg.IncomePattern = PatternList{"^Income:Account"}
		cfg.ExpensesPattern = PatternList{"^Expenses:Fees"}
		cfg.InternalPattern = PatternList{"^Expenses:Taxes", "^Liabilities:Card"}
		cfg.InternalizedPattern = PatternList{"^Income:", "^Assets:Account"}
	})

	a, err := Classify(accounts, cfg)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Assets:Account", "Assets:Account:Cash"}, a.Value.Sorted())
	assert.Equal(t, []string{"Income:Account:Dividends", "Liabilities:Card"}, a.Income.Sorted())
	assert.Equal(t, []string{"Expenses:Fees", "Expenses:Taxes"}, a.Expenses.Sorted())
	assert.Equal(t, []string{"Expenses:Fees", "Expenses:Taxes", "Income:Account:Dividends", "Liabilities:Card"}, a.Internal.Sorted())
	assert.Equal(t, []string{"Assets:Bank", "Income:Salary"}, a.External.Sorted())
	// Value and external accounts are never internalized.
	assert.Equal(t, []string{"Income:Account:Dividends"}, a.Internalized.Sorted())
}

func TestClassifyValueTakesPriority(t *testing.T) {
	cfg := testConfig(func(cfg *Config) {
		cfg.AccountsPattern = PatternList{"^Income:Account"}
		cfg.IncomePattern = PatternList{"^Income:"}
	})
	a, err := Classify([]string{"Income:Account", "Income:Other"}, cfg)
	assert.NoError(t, err)
	assert.Equal(t, RoleValue, a.Role("Income:Account"))
	assert.Equal(t, RoleIncome, a.Role("Income:Other"))
	assert.Equal(t, RoleExternal, a.Role("Equity:Unknown"))
}

func TestClassifyInvalidPattern(t *testing.T) {
	_, err := Classify(nil, testConfig(func(cfg *Config) {
		cfg.InternalPattern = PatternList{"["}
	}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accounts_internal_pattern")

	_, err = Classify(nil, testConfig(func(cfg *Config) {
		cfg.IncomePattern = PatternList{"^Income:", "("}
		cfg.InternalizedPattern = PatternList{"*"}
	}))
	assert.Contains(t, err.Error(), "accounts_income_pattern: invalid pattern \"(\"")
	assert.Contains(t, err.Error(), "accounts_internalized_pattern: invalid pattern \"*\"")
}
