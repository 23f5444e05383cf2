package cli

import (
	"errors"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"

	"github.com/redstreet/fava-investor/performance"
)

type XIRRCmd struct {
	File     FileOrStdin `help:"Beancount input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Currency string      `help:"Currency of the cash flows. Defaults to the first operating currency." short:"C"`
	Flows    bool        `help:"Print the cash flows used."`
}

func (cmd *XIRRCmd) Run(ctx *kong.Context, globals *Globals) error {
	s := newSession(ctx, globals)
	defer s.report()

	cfg, err := s.config()
	if err != nil {
		return err
	}
	// Every contribution and withdrawal needs its own date.
	cfg.Interval = performance.PerTransaction
	cfg.Categories = []performance.Category{performance.Contributions, performance.Withdrawals}

	ld, err := s.load(&cmd.File)
	if err != nil {
		return err
	}
	currency := cmd.Currency
	if currency == "" {
		if ops := ld.ledger.OperatingCurrencies(); len(ops) > 0 {
			currency = ops[0]
		} else {
			return fmt.Errorf("no currency given and no operating_currency option in the ledger")
		}
	}

	r, _, err := s.splitLoaded(ld, cfg)
	if err != nil {
		return err
	}

	flows := performance.CashFlows(r, currency)
	if cmd.Flows {
		tbl := newTable("date", "amount").amountColumns(1)
		for _, f := range flows {
			tbl.add(f.Date.Format("2006-01-02"), f.Amount.String()+" "+currency)
		}
		tbl.render(s.stdout, s.styles)
		_, _ = fmt.Fprintln(s.stdout)
	}

	rate, err := performance.XIRR(flows)
	if errors.Is(err, performance.ErrNoSolution) {
		printError(s.stderr, fmt.Sprintf("no rate of return: %d cash flow(s) in %s", len(flows), currency))
		return NewCommandError(1)
	} else if err != nil {
		return err
	}
	printSuccess(s.stdout, fmt.Sprintf("XIRR %s%%", rate.Mul(decimal.NewFromInt(100)).StringFixed(2)))
	return nil
}
