package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/alecthomas/kong"

	"github.com/redstreet/fava-investor/performance"
	"github.com/redstreet/fava-investor/store"
)

const testLedger = `option "operating_currency" "USD"

2021-01-01 open Assets:Investments:Broker
2021-01-01 open Assets:Bank
2021-01-01 open Income:Dividends

2021-01-01 * "buy"
  Assets:Investments:Broker  10 AA {10 USD}
  Assets:Bank

2021-06-01 * "dividend"
  Assets:Investments:Broker  5 USD
  Income:Dividends

2022-01-01 price AA 11 USD
`

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

// run parses args and runs the selected command, returning its output.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var cli Commands
	var out, errOut bytes.Buffer
	parser, err := kong.New(&cli,
		kong.Name("investor"),
		kong.Writers(&out, &errOut),
		kong.Bind(&cli.Globals),
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	assert.NoError(t, err)

	ctx, err := parser.Parse(args)
	if err != nil {
		return "", "", err
	}
	err = ctx.Run()
	return out.String(), errOut.String(), err
}

func TestSplitCmd(t *testing.T) {
	file := writeFile(t, "main.beancount", testLedger)

	stdout, _, err := run(t, "split", file)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "contributions")
	assert.Contains(t, stdout, "100 USD")
	assert.Contains(t, stdout, "gains_unrealized")
	assert.Contains(t, stdout, "value changes fully explained")
}

func TestSplitCmdInterval(t *testing.T) {
	file := writeFile(t, "main.beancount", testLedger)

	stdout, _, err := run(t, "--interval=year", "split", file)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "2021-12-31")
	assert.Contains(t, stdout, "2022-01-01")
	assert.Contains(t, stdout, performance.DummyNarration)
	assert.Contains(t, stdout, "2 period(s)")
}

func TestSplitCmdConfig(t *testing.T) {
	file := writeFile(t, "main.beancount", testLedger)
	config := writeFile(t, "investor.yaml", "accounts_pattern: \"^Assets:Bank\"\n")

	stdout, _, err := run(t, "--config", config, "split", file)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "-100 USD")

	_, _, err = run(t, "--interval=fortnight", "split", file)
	assert.Error(t, err)
}

func TestBalancesCmd(t *testing.T) {
	file := writeFile(t, "main.beancount", testLedger)

	stdout, _, err := run(t, "--interval=per-transaction", "balances", "--category=dividends", "--non-zero", file)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "dividends")
	assert.Contains(t, stdout, "2021-06-01")
	assert.NotContains(t, stdout, "2021-01-01")

	_, _, err = run(t, "balances", "--category=bonuses", file)
	assert.Error(t, err)
}

func TestJournalCmd(t *testing.T) {
	file := writeFile(t, "main.beancount", testLedger)
	stdout, _, err := run(t, "journal", file)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "All value changes explained")

	unexplained := writeFile(t, "refund.beancount", `
2020-01-01 open Assets:Investments:Broker
2020-01-01 open Assets:Bank
2020-01-01 open Income:Refunds

2020-01-01 * "contribution"
  Assets:Investments:Broker  10 USD
  Assets:Bank

2020-01-02 * "refund"
  Assets:Investments:Broker  -5 USD
  Income:Refunds
`)
	stdout, stderr, err := run(t, "--interval=per-transaction", "journal", unexplained)
	var cmdErr *CommandError
	assert.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 1, cmdErr.ExitCode())
	assert.Contains(t, stdout, "refund")
	assert.Contains(t, stderr, "1 period(s) not explained")
}

func TestJournalCmdRestrictedCategories(t *testing.T) {
	file := writeFile(t, "main.beancount", testLedger)
	config := writeFile(t, "investor.yaml", "categories: [contributions]\n")

	stdout, _, err := run(t, "--config", config, "journal", file)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "All value changes explained")

	stdout, _, err = run(t, "--config", config, "split", file)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "reconciliation skipped")
	assert.NotContains(t, stdout, "gains_unrealized")
}

func TestXIRRCmd(t *testing.T) {
	file := writeFile(t, "main.beancount", `option "operating_currency" "USD"

2021-01-01 open Assets:Investments:Broker
2021-01-01 open Assets:Bank

2021-01-01 * "buy"
  Assets:Investments:Broker  10 AA {10 USD}
  Assets:Bank

2022-01-01 price AA 11 USD
`)
	stdout, _, err := run(t, "xirr", "--flows", file)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "-110 USD")
	assert.Contains(t, stdout, "XIRR 10.00%")
}

func TestCheckCmd(t *testing.T) {
	file := writeFile(t, "main.beancount", testLedger)
	stdout, _, err := run(t, "check", file)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "Check passed: 2 transaction(s), 3 account(s)")

	broken := writeFile(t, "broken.beancount", `
2021-01-01 * "unknown account"
  Assets:Nowhere  1 USD
  Assets:Bank
`)
	_, stderr, err := run(t, "check", broken)
	assert.Error(t, err)
	assert.Contains(t, stderr, "validation error(s) found")
}

func TestExportCmd(t *testing.T) {
	file := writeFile(t, "main.beancount", testLedger)
	db := filepath.Join(t.TempDir(), "out.sqlite")

	stdout, _, err := run(t, "--interval=month", "export", "--db", db, file)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "Exported run 1")

	s, err := store.Open(db)
	assert.NoError(t, err)
	defer s.Close()
	amounts, err := s.Amounts(context.Background(), 1, performance.Dividends)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(amounts))
	assert.Equal(t, "2021-06-30", amounts[0].Date)
}

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "investor.yaml")

	_, _, err := run(t, "init", path)
	assert.NoError(t, err)
	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, performance.SampleConfig, string(data))

	_, err = performance.LoadConfig(path)
	assert.NoError(t, err)

	// Without a terminal the overwrite prompt answers no.
	if !isTerminal() {
		_, _, err = run(t, "init", path)
		assert.Error(t, err)
	}
	_, _, err = run(t, "init", "--force", path)
	assert.NoError(t, err)
}

func TestDoctorCmds(t *testing.T) {
	file := writeFile(t, "main.beancount", testLedger)

	stdout, _, err := run(t, "doctor", "dump", file)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "performance.Result{")

	stdout, _, err = run(t, "doctor", "accounts", file)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "Assets:Investments:Broker  value")
	assert.Contains(t, stdout, "Income:Dividends")
}

func TestTelemetryFlag(t *testing.T) {
	file := writeFile(t, "main.beancount", testLedger)
	_, stderr, err := run(t, "--telemetry", "split", file)
	assert.NoError(t, err)
	assert.Contains(t, stderr, "performance.split (totals)")
}
