package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Config    string `help:"YAML report configuration." short:"c" type:"path" env:"INVESTOR_CONFIG"`
	Interval  string `help:"Period length: totals, per-transaction, day, week, month, quarter or year. Overrides the configuration." short:"i" env:"INVESTOR_INTERVAL"`
	Telemetry bool   `help:"Show timing telemetry for operations."`
	Verbose   bool   `help:"Log diagnostics to stderr." short:"v"`
}

type Commands struct {
	Globals

	Split    SplitCmd    `cmd:"" help:"Split the change in portfolio value into categories."`
	Balances BalancesCmd `cmd:"" help:"Show one category per period with running balances."`
	Journal  JournalCmd  `cmd:"" help:"Show the value changes no category explains."`
	XIRR     XIRRCmd     `cmd:"" name:"xirr" help:"Compute the internal rate of return of the portfolio."`
	Check    CheckCmd    `cmd:"" help:"Parse, check and book a beancount input file."`
	Export   ExportCmd   `cmd:"" help:"Write a split into a SQLite database."`
	Init     InitCmd     `cmd:"" help:"Write a sample report configuration."`
	Doctor   DoctorCmd   `cmd:"" help:"Debugging utilities."`
}
