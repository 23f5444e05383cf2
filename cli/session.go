package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/redstreet/fava-investor/ledger"
	"github.com/redstreet/fava-investor/output"
	"github.com/redstreet/fava-investor/performance"
	"github.com/redstreet/fava-investor/telemetry"
)

// session is the state shared by one command run: its context with the
// optional telemetry collector, the logger and the output streams.
type session struct {
	ctx       context.Context
	globals   *Globals
	collector *telemetry.TimingCollector
	log       *slog.Logger
	stdout    io.Writer
	stderr    io.Writer
	styles    *output.Styles
}

func newSession(ctx *kong.Context, globals *Globals) *session {
	return newSessionWith(context.Background(), ctx.Stdout, ctx.Stderr, globals)
}

func newSessionWith(ctx context.Context, stdout, stderr io.Writer, globals *Globals) *session {
	s := &session{
		ctx:     ctx,
		globals: globals,
		log:     newLogger(stderr, globals.Verbose),
		stdout:  stdout,
		stderr:  stderr,
		styles:  output.NewStyles(stdout),
	}
	if globals.Telemetry {
		s.collector = telemetry.NewTimingCollector()
		s.ctx = telemetry.WithCollector(s.ctx, s.collector)
	}
	return s
}

// report prints the collected timings, if any.
func (s *session) report() {
	if s.collector == nil {
		return
	}
	_, _ = fmt.Fprintln(s.stderr)
	s.collector.Report(s.stderr, output.NewStyles(s.stderr))
}

// loaded is a booked ledger and the files it was read from.
type loaded struct {
	ledger *ledger.Ledger
	files  []string
}

// load parses and books file. Parse and validation errors are rendered to
// stderr and reported as a *CommandError.
func (s *session) load(file *FileOrStdin) (*loaded, error) {
	timer := telemetry.Start(s.ctx, "load "+filepath.Base(file.Filename))
	defer timer.End()

	tree, files, err := file.Load(s.ctx)
	renderer := NewErrorRenderer()
	if file.IsStdin() {
		renderer.AddSource(file.Filename, file.Contents)
	}
	if err != nil {
		_, _ = fmt.Fprintln(s.stderr, renderer.Render(err))
		_, _ = fmt.Fprintln(s.stderr)
		printError(s.stderr, "parse error")
		return nil, NewCommandError(1)
	}

	l := ledger.New()
	if err := l.Process(s.ctx, tree); err != nil {
		var validationErrors *ledger.ValidationErrors
		if errors.As(err, &validationErrors) {
			_, _ = fmt.Fprintln(s.stderr, renderer.RenderAll(validationErrors.Errors))
			_, _ = fmt.Fprintln(s.stderr)
			printError(s.stderr, fmt.Sprintf("%d validation error(s) found", len(validationErrors.Errors)))
			return nil, NewCommandError(1)
		}
		return nil, err
	}

	s.log.Debug("ledger loaded",
		"file", file.Path(),
		"includes", max(len(files)-1, 0),
		"transactions", len(l.Transactions()),
		"accounts", len(l.Accounts()),
		"prices", len(l.Prices()))
	return &loaded{ledger: l, files: files}, nil
}

// config returns the report configuration: the --config file or the
// defaults, with --interval applied on top.
func (s *session) config() (performance.Config, error) {
	cfg := performance.DefaultConfig()
	if s.globals.Config != "" {
		var err error
		if cfg, err = performance.LoadConfig(s.globals.Config); err != nil {
			return cfg, err
		}
		s.log.Debug("configuration loaded", "file", s.globals.Config)
	}
	if s.globals.Interval != "" {
		interval, err := performance.ParseInterval(s.globals.Interval)
		if err != nil {
			return cfg, err
		}
		cfg.Interval = interval
	}
	return cfg, nil
}

// split loads file and runs a split report over it.
func (s *session) split(file *FileOrStdin) (*performance.Result, performance.Config, error) {
	cfg, err := s.config()
	if err != nil {
		return nil, cfg, err
	}
	ld, err := s.load(file)
	if err != nil {
		return nil, cfg, err
	}
	return s.splitLoaded(ld, cfg)
}

func (s *session) splitLoaded(ld *loaded, cfg performance.Config) (*performance.Result, performance.Config, error) {
	r, err := performance.Split(s.ctx, ld.ledger, cfg)
	if err != nil {
		_, _ = fmt.Fprintln(s.stderr, NewErrorRenderer().Render(err))
		return nil, cfg, NewCommandError(1)
	}

	s.log.Debug("split computed",
		"interval", cfg.Interval,
		"periods", r.Len(),
		"value_accounts", len(r.Accounts.Value),
		"internal_accounts", len(r.Accounts.Internal),
		"synthesized_prices", len(r.Synthesized))
	for _, q := range r.Synthesized {
		s.log.Debug("price synthesized from cost", "date", q.Date.Format("2006-01-02"), "base", q.Base, "quote", q.Quote, "rate", q.Rate)
	}
	if len(r.Accounts.Value) == 0 {
		s.log.Warn("no account matches accounts_pattern", "patterns", cfg.AccountsPattern)
	}
	return r, cfg, nil
}
