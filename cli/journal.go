package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/redstreet/fava-investor/performance"
)

// JournalCmd prints the reconciliation journal: per period, the part of the
// value change that the categories leave unexplained.
type JournalCmd struct {
	File FileOrStdin `help:"Beancount input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	All  bool        `help:"Show every period, not only those with a residual." short:"a"`
}

func (cmd *JournalCmd) Run(ctx *kong.Context, globals *Globals) error {
	s := newSession(ctx, globals)
	defer s.report()

	cfg, err := s.config()
	if err != nil {
		return err
	}
	// Reconciliation needs every split category.
	cfg.Categories = nil
	ld, err := s.load(&cmd.File)
	if err != nil {
		return err
	}
	r, _, err := s.splitLoaded(ld, cfg)
	if err != nil {
		return err
	}

	journal, err := performance.Reconcile(r)
	if err != nil {
		return err
	}
	entries := journal
	if !cmd.All {
		entries = journal.Failures()
	}

	if len(entries) > 0 {
		tbl := newTable("date", "transaction", "residual", "running").amountColumns(2, 3)
		for _, e := range entries {
			name := ""
			if e.Transaction != nil {
				name = e.Transaction.Narration
			}
			tbl.add(e.Date.Format("2006-01-02"), name, e.Residual.String(), e.Running.String())
		}
		tbl.render(s.stdout, s.styles)
		_, _ = fmt.Fprintln(s.stdout)
	}

	if !journal.OK() {
		printError(s.stderr, fmt.Sprintf("%d period(s) not explained, total residual %s", len(journal.Failures()), journal.Total()))
		return NewCommandError(1)
	}
	printSuccess(s.stdout, "All value changes explained")
	return nil
}
