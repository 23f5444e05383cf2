package cli

import (
	"fmt"
	"io"

	"github.com/alecthomas/kong"

	"github.com/redstreet/fava-investor/output"
	"github.com/redstreet/fava-investor/performance"
)

type SplitCmd struct {
	File  FileOrStdin `help:"Beancount input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Watch bool        `help:"Recompute whenever the ledger or one of its includes changes." short:"w"`
}

func (cmd *SplitCmd) Run(ctx *kong.Context, globals *Globals) error {
	s := newSession(ctx, globals)
	defer s.report()

	if cmd.Watch {
		if cmd.File.IsStdin() {
			return fmt.Errorf("--watch needs a ledger file, not stdin")
		}
		return s.watch(&cmd.File, func(ld *loaded) error {
			cfg, err := s.config()
			if err != nil {
				return err
			}
			r, cfg, err := s.splitLoaded(ld, cfg)
			if err != nil {
				return err
			}
			renderSplit(s.stdout, s.styles, r, cfg)
			return nil
		})
	}

	r, cfg, err := s.split(&cmd.File)
	if err != nil {
		return err
	}
	renderSplit(s.stdout, s.styles, r, cfg)
	return nil
}

// computed returns the categories present in r, in report order.
func computed(r *performance.Result) []performance.Category {
	var cats []performance.Category
	for _, c := range performance.AllCategories() {
		if r.Get(c) != nil || c == performance.ValueChanges {
			cats = append(cats, c)
		}
	}
	return cats
}

// renderSplit prints category totals for a single period and one row per
// period otherwise, followed by the reconciliation status.
func renderSplit(w io.Writer, styles *output.Styles, r *performance.Result, cfg performance.Config) {
	cats := computed(r)

	if cfg.Interval == performance.Totals {
		totals := performance.CategoryTotals(r)
		tbl := newTable("category", "total").amountColumns(1)
		for _, c := range cats {
			tbl.add(c.String(), totals[c].String())
		}
		tbl.render(w, styles)
	} else {
		header := []string{"date", "transaction"}
		for _, c := range cats {
			header = append(header, c.String())
		}
		tbl := newTable(header...)
		for i := range cats {
			tbl.amountColumns(i + 2)
		}
		for i := 0; i < r.Len(); i++ {
			row := []string{r.Dates[i].Format("2006-01-02"), narration(r, i)}
			for _, c := range cats {
				row = append(row, r.Get(c)[i].String())
			}
			tbl.add(row...)
		}
		tbl.render(w, styles)
	}

	_, _ = fmt.Fprintln(w)
	if missing := r.Missing(); len(missing) > 0 {
		printInfof(w, "%d period(s), reconciliation skipped for a partial set of categories", r.Len())
		return
	}
	if err := performance.Check(r); err != nil {
		printError(w, err.Error())
		return
	}
	printSuccess(w, fmt.Sprintf("%d period(s), value changes fully explained", r.Len()))
}

func narration(r *performance.Result, i int) string {
	txn := r.Transactions[i]
	if txn == nil {
		return ""
	}
	if txn.Payee != "" {
		return txn.Payee + " | " + txn.Narration
	}
	return txn.Narration
}
