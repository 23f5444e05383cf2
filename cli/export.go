package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/redstreet/fava-investor/store"
)

type ExportCmd struct {
	File FileOrStdin `help:"Beancount input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	DB   string      `help:"SQLite database to write to. Created if missing." default:"investor.sqlite" type:"path" env:"INVESTOR_DB"`
}

func (cmd *ExportCmd) Run(ctx *kong.Context, globals *Globals) error {
	s := newSession(ctx, globals)
	defer s.report()

	r, cfg, err := s.split(&cmd.File)
	if err != nil {
		return err
	}

	db, err := store.Open(cmd.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.Export(s.ctx, cmd.File.Path(), cfg.Interval, r)
	if err != nil {
		return fmt.Errorf("failed to export split: %w", err)
	}
	s.log.Debug("split exported", "db", db.Path(), "run", id, "periods", r.Len())
	printSuccess(s.stdout, fmt.Sprintf("Exported run %d (%d period(s)) to %s", id, r.Len(), pathStyle.Render(db.Path())))
	return nil
}
