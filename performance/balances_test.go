package performance

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/redstreet/fava-investor/inventory"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name   string
		deltas []string
		want   []string
	}{
		{"running sum", []string{"10 GBP", "15 GBP"}, []string{"10 GBP", "25 GBP"}},
		{"empty period is a placeholder", []string{"10 GBP", "", "15 GBP"}, []string{"10 GBP", "", "25 GBP"}},
		{"last period carries the balance", []string{"10 GBP", ""}, []string{"10 GBP", "10 GBP"}},
		{"currencies kept apart", []string{"1 USD", "2 GBP, -1 USD"}, []string{"1 USD", "2 GBP"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deltas := make([]inventory.Inventory, len(tt.deltas))
			for i, d := range tt.deltas {
				deltas[i] = inventory.MustParse(d)
			}
			got := Project(deltas)
			assert.Equal(t, len(tt.want), len(got))
			for i, w := range tt.want {
				assertInventory(t, w, got[i])
			}
		})
	}

	assert.Equal(t, 0, len(Project(nil)))
}

func TestCategoryTotals(t *testing.T) {
	r := split(t, `
2020-01-01 open Assets:Account
2020-01-01 open Assets:Bank
2020-01-01 open Income:Dividends

2020-01-01 * "contribution"
  Assets:Account  10 GBP
  Assets:Bank

2020-01-02 * "dividend"
  Assets:Account  2 GBP
  Income:Dividends

2020-01-03 * "withdrawal"
  Assets:Account  -4 GBP
  Assets:Bank
`, withInterval(PerTransaction))

	totals := CategoryTotals(r)
	assertInventory(t, "10 GBP", totals[Contributions])
	assertInventory(t, "-4 GBP", totals[Withdrawals])
	assertInventory(t, "2 GBP", totals[Dividends])
	assertInventory(t, "8 GBP", totals[ValueChanges])

	rows := Rows(r, Withdrawals)
	assert.Equal(t, 3, len(rows))
	assert.Equal(t, "withdrawal", rows[2].Transaction.Narration)
	assertInventory(t, "", rows[0].Balance)
	assertInventory(t, "-4 GBP", rows[2].Balance)
}
