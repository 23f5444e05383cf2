package ledger

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/redstreet/fava-investor/ast"
)

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount(ast.NewAmount("-12.50", "USD"))
	assert.NoError(t, err)
	assert.Equal(t, "-12.5 USD", amount.String())

	_, err = ParseAmount(ast.NewAmount("12,50", "USD"))
	assert.Error(t, err)

	_, err = ParseAmount(nil)
	assert.Error(t, err)

	assert.Panics(t, func() { MustParseAmount(ast.NewAmount("x", "USD")) })
}

func TestInferTolerance(t *testing.T) {
	tests := []struct {
		name     string
		amounts  []string
		currency string
		config   *ToleranceConfig
		wantTol  string
	}{
		{
			name:     "standard 2 decimals",
			amounts:  []string{"24.45", "100.00"},
			currency: "USD",
			config:   NewToleranceConfig(),
			wantTol:  "0.005",
		},
		{
			name:     "high precision 5 decimals",
			amounts:  []string{"10.22626", "5.12345"},
			currency: "RGAGX",
			config:   NewToleranceConfig(),
			wantTol:  "0.000005",
		},
		{
			name:     "mixed precision uses coarsest",
			amounts:  []string{"100.00", "50.123"},
			currency: "USD",
			config:   NewToleranceConfig(),
			wantTol:  "0.005",
		},
		{
			name:     "integers ignored next to fractions",
			amounts:  []string{"10", "-10.004"},
			currency: "USD",
			config:   NewToleranceConfig(),
			wantTol:  "0.0005",
		},
		{
			name:     "integers",
			amounts:  []string{"10"},
			currency: "VTI",
			config:   NewToleranceConfig(),
			wantTol:  "0.5",
		},
		{
			name:     "custom multiplier",
			amounts:  []string{"100.00"},
			currency: "USD",
			config: &ToleranceConfig{
				defaults:   map[string]decimal.Decimal{"*": defaultTolerance},
				multiplier: decimal.RequireFromString("0.6"),
			},
			wantTol: "0.006",
		},
		{
			name:     "no amounts uses default",
			currency: "USD",
			config:   NewToleranceConfig(),
			wantTol:  "0.005",
		},
		{
			name:     "zeros only uses default",
			amounts:  []string{"0.00"},
			currency: "USD",
			config:   nil,
			wantTol:  "0.005",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var amounts []decimal.Decimal
			for _, a := range tt.amounts {
				amounts = append(amounts, decimal.RequireFromString(a))
			}
			got := InferTolerance(amounts, tt.currency, tt.config)
			assert.Equal(t, tt.wantTol, got.String())
		})
	}
}

func TestParseToleranceConfig(t *testing.T) {
	tests := []struct {
		name    string
		options map[string][]string
		wantErr bool
		check   func(t *testing.T, c *ToleranceConfig)
	}{
		{
			name:    "defaults",
			options: map[string][]string{},
			check: func(t *testing.T, c *ToleranceConfig) {
				assert.Equal(t, "0.5", c.multiplier.String())
				assert.Equal(t, "0.005", c.DefaultTolerance("EUR").String())
				assert.False(t, c.inferFromCost)
			},
		},
		{
			name: "per currency and wildcard",
			options: map[string][]string{
				"inferred_tolerance_default": {"*:0.001", "USD:0.003"},
			},
			check: func(t *testing.T, c *ToleranceConfig) {
				assert.Equal(t, "0.003", c.DefaultTolerance("USD").String())
				assert.Equal(t, "0.001", c.DefaultTolerance("EUR").String())
			},
		},
		{
			name: "legacy multiplier name",
			options: map[string][]string{
				"tolerance_multiplier": {"0.6"},
			},
			check: func(t *testing.T, c *ToleranceConfig) {
				assert.Equal(t, "0.6", c.multiplier.String())
			},
		},
		{
			name: "inferred multiplier wins",
			options: map[string][]string{
				"tolerance_multiplier":          {"0.6"},
				"inferred_tolerance_multiplier": {"0.7"},
				"infer_tolerance_from_cost":     {"true"},
			},
			check: func(t *testing.T, c *ToleranceConfig) {
				assert.Equal(t, "0.7", c.multiplier.String())
				assert.True(t, c.inferFromCost)
			},
		},
		{
			name:    "missing separator",
			options: map[string][]string{"inferred_tolerance_default": {"0.001"}},
			wantErr: true,
		},
		{
			name:    "invalid multiplier",
			options: map[string][]string{"tolerance_multiplier": {"abc"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := parseToleranceConfig(tt.options)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestAmountEqual(t *testing.T) {
	tol := decimal.RequireFromString("0.005")
	assert.True(t, AmountEqual(decimal.RequireFromString("1.004"), decimal.RequireFromString("1"), tol))
	assert.False(t, AmountEqual(decimal.RequireFromString("1.006"), decimal.RequireFromString("1"), tol))
}
