package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/redstreet/fava-investor/ledger"
	"github.com/redstreet/fava-investor/parser"
	"github.com/redstreet/fava-investor/performance"
)

func TestGenerateIsDeterministic(t *testing.T) {
	start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	var a, b bytes.Buffer
	generate(&a, 50, 3, start)
	generate(&b, 50, 3, start)
	assert.Equal(t, a.String(), b.String())
}

func TestGeneratedLedgerReconciles(t *testing.T) {
	var buf bytes.Buffer
	st := generate(&buf, 400, 1, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 400, st.transactions)

	ctx := context.Background()
	tree, err := parser.ParseBytes(ctx, buf.Bytes())
	assert.NoError(t, err)
	l := ledger.New()
	assert.NoError(t, l.Process(ctx, tree))

	cfg := performance.DefaultConfig()
	cfg.Interval = performance.Month
	r, err := performance.Split(ctx, l, cfg)
	assert.NoError(t, err)
	assert.NoError(t, performance.Check(r))
	assert.True(t, r.Len() > 1)
}

func BenchmarkSplit(b *testing.B) {
	var buf bytes.Buffer
	generate(&buf, 5000, 1, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC))

	ctx := context.Background()
	tree, err := parser.ParseBytes(ctx, buf.Bytes())
	if err != nil {
		b.Fatal(err)
	}
	l := ledger.New()
	if err := l.Process(ctx, tree); err != nil {
		b.Fatal(err)
	}
	cfg := performance.DefaultConfig()
	cfg.Interval = performance.Month

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := performance.Split(ctx, l, cfg); err != nil {
			b.Fatal(err)
		}
	}
}
