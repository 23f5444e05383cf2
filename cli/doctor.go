package cli

import (
	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/redstreet/fava-investor/performance"
)

// DoctorCmd provides utilities for debugging ledgers and reports.
type DoctorCmd struct {
	Dump     DumpCmd     `cmd:"" help:"Dump the split of a ledger as Go values."`
	Accounts AccountsCmd `cmd:"" help:"Show the role every account plays in a report."`
}

// DumpCmd prints the split result, prices included, with repr.
type DumpCmd struct {
	File FileOrStdin `help:"Beancount input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *DumpCmd) Run(ctx *kong.Context, globals *Globals) error {
	s := newSession(ctx, globals)
	defer s.report()

	r, cfg, err := s.split(&cmd.File)
	if err != nil {
		return err
	}
	p := repr.New(s.stdout, repr.Indent("  "), repr.OmitEmpty(true))
	p.Println(cfg)
	p.Println(r)
	return nil
}

// AccountsCmd lists the accounts of the ledger by role.
type AccountsCmd struct {
	File FileOrStdin `help:"Beancount input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *AccountsCmd) Run(ctx *kong.Context, globals *Globals) error {
	s := newSession(ctx, globals)
	defer s.report()

	cfg, err := s.config()
	if err != nil {
		return err
	}
	ld, err := s.load(&cmd.File)
	if err != nil {
		return err
	}
	accounts, err := performance.Classify(ld.ledger.Accounts(), cfg)
	if err != nil {
		return err
	}

	tbl := newTable("account", "role", "internalized")
	for _, name := range ld.ledger.Accounts() {
		internalized := ""
		if accounts.Internalized.Has(name) {
			internalized = "yes"
		}
		tbl.add(name, accounts.Role(name).String(), internalized)
	}
	tbl.render(s.stdout, s.styles)
	return nil
}

