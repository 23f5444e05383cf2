package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestFromContextReturnsNoOpWhenMissing(t *testing.T) {
	collector := FromContext(context.Background())
	if _, ok := collector.(noOpCollector); !ok {
		t.Fatalf("expected noOpCollector, got %T", collector)
	}

	timer := Start(context.Background(), "ignored")
	timer.Child("child").End()
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("no-op collector should not write, got %q", buf.String())
	}
}

func TestWithCollector(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	if got, ok := FromContext(ctx).(*TimingCollector); !ok || got != collector {
		t.Error("FromContext should return the stored collector")
	}
}

func TestTimingCollectorTree(t *testing.T) {
	collector := NewTimingCollector()
	collector.now = fakeClock(10 * time.Millisecond)
	ctx := WithCollector(context.Background(), collector)

	root := Start(ctx, "split main.beancount")
	load := Start(ctx, "load")
	Start(ctx, "parse main.beancount").End()
	load.End()
	walk := root.Child("walk")
	walk.End()
	root.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"split main.beancount: ",
		"├─ load: ",
		"│  └─ parse main.beancount: ",
		"└─ walk: ",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), buf.String())
	}
	for i, prefix := range want {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d: expected prefix %q, got %q", i, prefix, lines[i])
		}
		if !strings.HasSuffix(lines[i], "ms") {
			t.Errorf("line %d: expected a duration, got %q", i, lines[i])
		}
	}
}

func TestTimerEndIsIdempotent(t *testing.T) {
	collector := NewTimingCollector()
	timer := collector.Start("once")
	timer.End()
	timer.End()

	second := collector.Start("second")
	second.End()

	if len(collector.roots) != 2 {
		t.Errorf("expected two root timers, got %d", len(collector.roots))
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Millisecond, "5ms"},
		{999 * time.Millisecond, "999ms"},
		{1500 * time.Millisecond, "1.50s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
