package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
)

type CheckCmd struct {
	File FileOrStdin `help:"Beancount input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	s := newSession(ctx, globals)
	defer s.report()

	ld, err := s.load(&cmd.File)
	if err != nil {
		return err
	}
	printSuccess(s.stdout, fmt.Sprintf("Check passed: %d transaction(s), %d account(s)",
		len(ld.ledger.Transactions()), len(ld.ledger.Accounts())))
	return nil
}
