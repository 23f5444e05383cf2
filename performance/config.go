package performance

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// PatternList is a list of account regular expressions. In YAML it may be
// written as a single string or as a sequence.
type PatternList []string

func (p *PatternList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		if value.Value == "" {
			*p = nil
			return nil
		}
		*p = PatternList{value.Value}
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*p = list
	return nil
}

// compile returns the compiled patterns. Matching is case-sensitive and
// anchored at the start of the account name.
func (p PatternList) compile() ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(p))
	for _, pattern := range p {
		anchored := pattern
		if len(anchored) == 0 || anchored[0] != '^' {
			anchored = "^(?:" + anchored + ")"
		}
		re, err := regexp.Compile(anchored)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		res = append(res, re)
	}
	return res, nil
}

// Config selects the accounts and periods of a split report.
type Config struct {
	// AccountsPattern selects the value accounts, the portfolio measured.
	AccountsPattern PatternList `yaml:"accounts_pattern"`
	// IncomePattern and ExpensesPattern select the internal accounts.
	IncomePattern   PatternList `yaml:"accounts_income_pattern"`
	ExpensesPattern PatternList `yaml:"accounts_expenses_pattern"`
	// InternalPattern selects further internal accounts. They count as
	// expenses when under the Expenses root and as income otherwise.
	InternalPattern PatternList `yaml:"accounts_internal_pattern"`
	// InternalizedPattern selects internal accounts whose flows to external
	// accounts still count as portfolio events.
	InternalizedPattern PatternList `yaml:"accounts_internalized_pattern"`

	Interval Interval `yaml:"interval"`

	// Categories restricts the categories computed. Empty means all.
	// Value changes are always computed.
	Categories []Category `yaml:"categories"`

	// ImplicitPrices adds the prices written on postings (@, @@) to the
	// price directives used for valuation.
	ImplicitPrices bool `yaml:"implicit_prices"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		AccountsPattern: PatternList{"^Assets:Investments"},
		IncomePattern:   PatternList{"^Income:"},
		ExpensesPattern: PatternList{"^Expenses:"},
		Interval:        Totals,
	}
}

// Validate checks that every pattern compiles and that value accounts are
// selected at all.
func (c Config) Validate() error {
	_, err := c.compilePatterns()
	return err
}

// accountPatterns are the compiled account patterns of a Config.
type accountPatterns struct {
	value, income, expenses, internal, internalized []*regexp.Regexp
}

// compilePatterns compiles every pattern list, reporting all invalid ones.
func (c Config) compilePatterns() (*accountPatterns, error) {
	var errs []error
	if len(c.AccountsPattern) == 0 {
		errs = append(errs, errors.New("accounts_pattern: at least one pattern is required"))
	}
	compiled := &accountPatterns{}
	for _, p := range []struct {
		key  string
		list PatternList
		dst  *[]*regexp.Regexp
	}{
		{"accounts_pattern", c.AccountsPattern, &compiled.value},
		{"accounts_income_pattern", c.IncomePattern, &compiled.income},
		{"accounts_expenses_pattern", c.ExpensesPattern, &compiled.expenses},
		{"accounts_internal_pattern", c.InternalPattern, &compiled.internal},
		{"accounts_internalized_pattern", c.InternalizedPattern, &compiled.internalized},
	} {
		res, err := p.list.compile()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.key, err))
			continue
		}
		*p.dst = res
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return compiled, nil
}

// categories returns the selected categories, or all of them.
func (c Config) categories() []Category {
	if len(c.Categories) == 0 {
		return AllCategories()
	}
	return c.Categories
}

// ParseConfig reads a YAML configuration on top of DefaultConfig. Unknown
// keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// SampleConfig is written by `investor init`.
const SampleConfig = `# Value accounts: the portfolio being measured.
accounts_pattern: "^Assets:Investments"

# Internal accounts: events inside the portfolio.
accounts_income_pattern: "^Income:"
accounts_expenses_pattern: "^Expenses:"

# Income accounts paid out to external accounts that still count as
# dividends, e.g. "^Income:Dividends".
# accounts_internalized_pattern: "^Income:Dividends"

# totals, per-transaction, day, week, month, quarter or year.
interval: totals

# Use prices written on postings (@, @@) for valuation too.
implicit_prices: false
`
