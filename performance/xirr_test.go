package performance

import (
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func cashFlow(date string, amount int64) CashFlow {
	return CashFlow{Date: day(date), Amount: decimal.NewFromInt(amount)}
}

func TestXIRR(t *testing.T) {
	tests := []struct {
		name  string
		flows []CashFlow
		want  string
	}{
		{"ten percent", []CashFlow{cashFlow("2021-01-01", 100), cashFlow("2022-01-01", -110)}, "0.1"},
		{"loss", []CashFlow{cashFlow("2021-01-01", 100), cashFlow("2022-01-01", -90)}, "-0.1"},
		{"two contributions", []CashFlow{
			cashFlow("2021-01-01", 100),
			cashFlow("2022-01-01", 100),
			cashFlow("2023-01-01", -231),
		}, "0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := XIRR(tt.flows)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got.Round(4).String())
		})
	}
}

func TestXIRRNoSolution(t *testing.T) {
	_, err := XIRR([]CashFlow{cashFlow("2021-01-01", 100)})
	assert.True(t, errors.Is(err, ErrNoSolution))

	_, err = XIRR([]CashFlow{cashFlow("2021-01-01", 100), cashFlow("2022-01-01", 100)})
	assert.True(t, errors.Is(err, ErrNoSolution))
}

func TestCashFlows(t *testing.T) {
	r := split(t, `
2021-01-01 open Assets:Account
2021-01-01 open Assets:Bank

2021-01-01 * "buy"
  Assets:Account  10 AA {10 USD}
  Assets:Bank

2022-01-01 price AA 11 USD
`, withInterval(PerTransaction))

	flows := CashFlows(r, "USD")
	assert.Equal(t, 2, len(flows))
	assert.Equal(t, "2021-01-01", flows[0].Date.Format(time.DateOnly))
	assert.Equal(t, "100", flows[0].Amount.String())
	assert.Equal(t, "2022-01-01", flows[1].Date.Format(time.DateOnly))
	assert.Equal(t, "-110", flows[1].Amount.String())

	rate, err := XIRR(flows)
	assert.NoError(t, err)
	assert.Equal(t, "0.1", rate.Round(4).String())

	assert.Equal(t, 0, len(CashFlows(r, "EUR")))
}
