package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/redstreet/fava-investor/ast"
	"github.com/redstreet/fava-investor/inventory"
)

// ParseAmount converts an ast.Amount into an exact inventory.Amount.
func ParseAmount(amount *ast.Amount) (inventory.Amount, error) {
	if amount == nil {
		return inventory.Amount{}, fmt.Errorf("amount is nil")
	}

	if strings.HasPrefix(amount.Value, "(") {
		d, err := EvaluateExpression(amount.Value)
		if err != nil {
			return inventory.Amount{}, err
		}
		return inventory.NewAmount(d, amount.Currency), nil
	}

	d, err := decimal.NewFromString(amount.Value)
	if err != nil {
		return inventory.Amount{}, fmt.Errorf("invalid amount value %q: %w", amount.Value, err)
	}

	return inventory.NewAmount(d, amount.Currency), nil
}

// MustParseAmount is ParseAmount for amounts known to be valid. It panics
// otherwise.
func MustParseAmount(amount *ast.Amount) inventory.Amount {
	a, err := ParseAmount(amount)
	if err != nil {
		panic(err)
	}
	return a
}

// ToleranceConfig holds configuration for tolerance inference
type ToleranceConfig struct {
	// defaults maps currency to default tolerance (supports "*" wildcard)
	defaults map[string]decimal.Decimal
	// multiplier is applied to inferred tolerance (default 0.5)
	multiplier decimal.Decimal
	// inferFromCost includes cost weights in tolerance inference
	inferFromCost bool
}

var defaultTolerance = decimal.RequireFromString("0.005")

// NewToleranceConfig creates the default tolerance configuration: 0.005 for
// all currencies and a 0.5 multiplier.
func NewToleranceConfig() *ToleranceConfig {
	return &ToleranceConfig{
		defaults:   map[string]decimal.Decimal{"*": defaultTolerance},
		multiplier: decimal.RequireFromString("0.5"),
	}
}

// parseToleranceConfig reads tolerance options:
//   - option "inferred_tolerance_default" "*:0.005"
//   - option "inferred_tolerance_default" "USD:0.003"
//   - option "inferred_tolerance_multiplier" "0.6" (or legacy "tolerance_multiplier")
//   - option "infer_tolerance_from_cost" "TRUE"
func parseToleranceConfig(options map[string][]string) (*ToleranceConfig, error) {
	config := NewToleranceConfig()

	multiplier := options["inferred_tolerance_multiplier"]
	if len(multiplier) == 0 {
		multiplier = options["tolerance_multiplier"]
	}
	if len(multiplier) > 0 {
		m, err := decimal.NewFromString(multiplier[0])
		if err != nil {
			return nil, fmt.Errorf("invalid tolerance multiplier %q: %w", multiplier[0], err)
		}
		config.multiplier = m
	}

	for _, val := range options["inferred_tolerance_default"] {
		currency, value, ok := strings.Cut(val, ":")
		if !ok {
			return nil, fmt.Errorf("invalid inferred_tolerance_default format %q, expected CURRENCY:TOLERANCE", val)
		}
		tolerance, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid tolerance value in %q: %w", val, err)
		}
		config.defaults[strings.TrimSpace(currency)] = tolerance
	}

	if vals := options["infer_tolerance_from_cost"]; len(vals) > 0 {
		config.inferFromCost = strings.EqualFold(vals[0], "TRUE")
	}

	return config, nil
}

// InferTolerance calculates the tolerance of a currency from the precision of
// the amounts written in it: 10^exp * multiplier, where exp is the largest
// exponent among the non-zero fractional amounts, so the coarsest precision
// wins. Integer amounts only count when no fractional amount is present.
// Without amounts the default tolerance for the currency applies.
func InferTolerance(amounts []decimal.Decimal, currency string, config *ToleranceConfig) decimal.Decimal {
	if config == nil {
		config = NewToleranceConfig()
	}

	maxExp := int32(0)
	found, integers := false, false
	for _, amount := range amounts {
		if amount.IsZero() {
			continue
		}
		exp := amount.Exponent()
		if exp >= 0 {
			integers = true
			continue
		}
		if !found || exp > maxExp {
			maxExp = exp
			found = true
		}
	}

	switch {
	case found:
		return decimal.New(1, maxExp).Mul(config.multiplier)
	case integers:
		return decimal.New(1, 0).Mul(config.multiplier)
	}
	return config.DefaultTolerance(currency)
}

// DefaultTolerance returns the configured tolerance for a currency, falling
// back to the "*" wildcard.
func (c *ToleranceConfig) DefaultTolerance(currency string) decimal.Decimal {
	if c == nil {
		return defaultTolerance
	}
	if tolerance, ok := c.defaults[currency]; ok {
		return tolerance
	}
	if tolerance, ok := c.defaults["*"]; ok {
		return tolerance
	}
	return defaultTolerance
}

// AmountEqual checks if two amounts are equal within tolerance
func AmountEqual(a, b decimal.Decimal, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}
