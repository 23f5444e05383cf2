package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/redstreet/fava-investor/ledger"
	"github.com/redstreet/fava-investor/parser"
	"github.com/redstreet/fava-investor/performance"
)

const source = `
2020-01-01 open Assets:Account
2020-01-01 open Assets:Bank
2020-01-01 open Income:Dividends

2020-01-02 * "contribution"
  Assets:Account  10 GBP
  Assets:Bank

2020-02-03 * "dividend"
  Assets:Account  2 GBP
  Income:Dividends
`

func splitSource(t *testing.T) *performance.Result {
	t.Helper()
	ctx := context.Background()
	tree, err := parser.ParseString(ctx, source)
	assert.NoError(t, err)
	l := ledger.New()
	assert.NoError(t, l.Process(ctx, tree))

	cfg := performance.Config{
		AccountsPattern: performance.PatternList{"^Assets:Account"},
		IncomePattern:   performance.PatternList{"^Income:"},
		Interval:        performance.Month,
	}
	r, err := performance.Split(ctx, l, cfg)
	assert.NoError(t, err)
	return r
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "investor.sqlite"))
	assert.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	id, err := s.Export(ctx, "test.bean", performance.Month, splitSource(t))
	assert.NoError(t, err)

	runs, err := s.Runs(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(runs))
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, "test.bean", runs[0].Source)
	assert.Equal(t, "month", runs[0].Interval)

	contributions, err := s.Amounts(ctx, id, performance.Contributions)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(contributions))
	assert.Equal(t, "2020-01-31", contributions[0].Date)
	assert.Equal(t, "GBP", contributions[0].Currency)
	assert.Equal(t, "10", contributions[0].Number.String())
	assert.False(t, contributions[0].Cost.Valid)

	values, err := s.Amounts(ctx, id, performance.ValueChanges)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(values))
	assert.Equal(t, "2020-02-03", values[1].Date)
	assert.Equal(t, "2", values[1].Number.String())

	var periods int
	assert.NoError(t, s.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM periods WHERE run_id = ?`, id).Scan(&periods))
	assert.Equal(t, 2, periods)
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	first, err := s.Export(ctx, "a.bean", performance.Month, splitSource(t))
	assert.NoError(t, err)
	second, err := s.Export(ctx, "b.bean", performance.Month, splitSource(t))
	assert.NoError(t, err)

	assert.NoError(t, s.Delete(ctx, first))
	assert.Error(t, s.Delete(ctx, first))

	var amounts int
	assert.NoError(t, s.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM amounts WHERE run_id = ?`, first).Scan(&amounts))
	assert.Equal(t, 0, amounts)

	runs, err := s.Runs(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(runs))
	assert.Equal(t, second, runs[0].ID)
}
