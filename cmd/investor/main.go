package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/redstreet/fava-investor/cli"
)

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	// CommitSHA contains the SHA of the commit that this application was built
	// against. It's set via ldflags when building.
	CommitSHA = ""
)

func main() {
	// A .env next to the ledger may provide INVESTOR_* flag defaults.
	_ = godotenv.Load()

	cli.Version = Version
	cli.CommitSHA = CommitSHA

	var commands struct {
		Version kong.VersionFlag `help:"Show version information"`
		cli.Commands
	}
	ctx := kong.Parse(&commands,
		kong.Vars{"version": buildVersion()},
		kong.Name("investor"),
		kong.Description("Split the returns of a Beancount portfolio into contributions, withdrawals, dividends, costs and gains."),
		kong.UsageOnError(),
		kong.Bind(&commands.Globals),
	)

	err := ctx.Run()
	var cmdErr *cli.CommandError
	if errors.As(err, &cmdErr) {
		os.Exit(cmdErr.ExitCode())
	}
	ctx.FatalIfErrorf(err)
}

func buildVersion() string {
	if Version == "" {
		Version = "dev"
	}
	if CommitSHA == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, CommitSHA)
}
