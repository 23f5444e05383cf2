package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/redstreet/fava-investor/performance"
)

type BalancesCmd struct {
	File     FileOrStdin          `help:"Beancount input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Category performance.Category `help:"Category to show: contributions, withdrawals, dividends, costs, gains_realized, gains_unrealized or value_changes." default:"contributions" short:"C"`
	NonZero  bool                 `help:"Hide periods where the category did not change." name:"non-zero"`
}

func (cmd *BalancesCmd) Run(ctx *kong.Context, globals *Globals) error {
	s := newSession(ctx, globals)
	defer s.report()

	cfg, err := s.config()
	if err != nil {
		return err
	}
	if len(cfg.Categories) > 0 && cmd.Category != performance.ValueChanges {
		cfg.Categories = append(cfg.Categories, cmd.Category)
	}
	ld, err := s.load(&cmd.File)
	if err != nil {
		return err
	}
	r, _, err := s.splitLoaded(ld, cfg)
	if err != nil {
		return err
	}

	tbl := newTable("date", "transaction", "change", "balance").amountColumns(2, 3)
	for i, row := range performance.Rows(r, cmd.Category) {
		if cmd.NonZero && row.Change.IsEmpty() {
			continue
		}
		tbl.add(row.Date.Format("2006-01-02"), narration(r, i), row.Change.String(), row.Balance.String())
	}
	_, _ = fmt.Fprintln(s.stdout, s.styles.Keyword(cmd.Category.String()))
	tbl.render(s.stdout, s.styles)
	return nil
}
