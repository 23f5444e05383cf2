// Package telemetry collects hierarchical timings of the phases of a run
// (loading, ledger processing, price map building, the split walk) and prints
// them as a tree.
//
// Collectors travel in a context.Context so instrumented code does not need
// extra parameters. When no collector is present every call is a no-op.
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.Start(ctx, "split")
//	defer timer.End()
//
//	collector.Report(os.Stderr, nil)
package telemetry

import (
	"context"
	"io"

	"github.com/redstreet/fava-investor/output"
)

type contextKey struct{}

// Collector records timers and reports them.
type Collector interface {
	// Start begins timing an operation nested under the innermost running timer.
	Start(name string) Timer

	// Report writes the collected timings. styles may be nil for plain output.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks a single operation.
type Timer interface {
	End()
	Child(name string) Timer
}

// WithCollector returns a context carrying collector.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, contextKey{}, collector)
}

// FromContext returns the collector stored in ctx, or a no-op collector.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(contextKey{}).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

// Start is shorthand for FromContext(ctx).Start(name).
func Start(ctx context.Context, name string) Timer {
	return FromContext(ctx).Start(name)
}

type noOpCollector struct{}

func (noOpCollector) Start(string) Timer { return noOpTimer{} }
func (noOpCollector) Report(io.Writer, *output.Styles) {}

type noOpTimer struct{}

func (noOpTimer) End() {}
func (noOpTimer) Child(string) Timer { return noOpTimer{} }
