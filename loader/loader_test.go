package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/redstreet/fava-investor/ast"
	"github.com/redstreet/fava-investor/parser"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	abs, err := filepath.Abs(path)
	assert.NoError(t, err)
	return abs
}

func TestLoadSingleFile(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile := writeFile(t, tmpDir, "main.beancount", `
2024-01-01 open Assets:Broker
2024-01-02 * "Deposit"
  Assets:Broker  100.00 USD
  Equity:Opening-Balances
`)

	for _, ldr := range []*Loader{New(), New(WithFollowIncludes())} {
		result, err := ldr.Load(context.Background(), mainFile)
		assert.NoError(t, err)
		assert.Equal(t, 2, len(result.AST.Directives))
		assert.Equal(t, mainFile, result.Root)
		assert.Equal(t, 0, len(result.Includes))
		assert.Equal(t, []string{mainFile}, result.Files())
	}
}

func TestLoadWithIncludeNoFollow(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "prices.beancount", `2024-01-01 price VTI 200 USD`)
	mainFile := writeFile(t, tmpDir, "main.beancount", `
include "prices.beancount"

2024-01-02 open Assets:Broker
`)

	result, err := New().Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(result.AST.Directives))
	assert.Equal(t, 1, len(result.AST.Includes))
	assert.Equal(t, "prices.beancount", result.AST.Includes[0].Filename)
}

func TestLoadWithIncludeFollow(t *testing.T) {
	tmpDir := t.TempDir()
	pricesFile := writeFile(t, tmpDir, "prices/vti.beancount", `
2024-01-01 price VTI 200 USD
2024-01-03 price VTI 201 USD
`)
	mainFile := writeFile(t, tmpDir, "main.beancount", `
include "prices/vti.beancount"

2024-01-02 open Assets:Broker
`)

	result, err := New(WithFollowIncludes()).Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(result.AST.Directives))
	assert.True(t, result.AST.Includes == nil)

	var kinds []string
	for _, d := range result.AST.Directives {
		kinds = append(kinds, d.Directive())
	}
	assert.Equal(t, []string{"price", "open", "price"}, kinds)
	assert.Equal(t, mainFile, result.Root)
	assert.Equal(t, []string{pricesFile}, result.Includes)
}

func TestLoadNestedAndCircularIncludes(t *testing.T) {
	tmpDir := t.TempDir()
	fileA := writeFile(t, tmpDir, "a.beancount", `
include "nested/b.beancount"
2024-01-01 open Assets:Broker
`)
	fileB := writeFile(t, tmpDir, "nested/b.beancount", `
include "../a.beancount"
include "c.beancount"
2024-01-02 open Assets:Bank
`)
	fileC := writeFile(t, tmpDir, "nested/c.beancount", `
2024-01-03 open Income:Dividends
`)

	result, err := New(WithFollowIncludes()).Load(context.Background(), fileA)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(result.AST.Directives))
	assert.Equal(t, fileA, result.Root)
	assert.Equal(t, []string{fileB, fileC}, result.Includes)
}

func TestLoadMissingInclude(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile := writeFile(t, tmpDir, "main.beancount", `
include "does-not-exist.beancount"
2024-01-01 open Assets:Broker
`)

	_, err := New(WithFollowIncludes()).Load(context.Background(), mainFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist.beancount")
}

func TestLoadOptionsPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "included.beancount", `
option "operating_currency" "EUR"
option "title" "Included"
plugin "beancount.plugins.auto_accounts"
`)
	mainFile := writeFile(t, tmpDir, "main.beancount", `
option "operating_currency" "USD"
plugin "beancount.plugins.check_commodity"
include "included.beancount"
`)

	result, err := New(WithFollowIncludes()).Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, []string{"USD"}, result.AST.Option("operating_currency"))
	assert.Equal(t, []string{"Included"}, result.AST.Option("title"))
	assert.Equal(t, 2, len(result.AST.Plugins))
	assert.Equal(t, "beancount.plugins.check_commodity", result.AST.Plugins[0].Name)
}

func TestLoadCancelled(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile := writeFile(t, tmpDir, "main.beancount", `2024-01-01 open Assets:Broker`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(WithFollowIncludes()).Load(ctx, mainFile)
	assert.IsError(t, err, context.Canceled)
}

func TestLoadBytes(t *testing.T) {
	withInclude := []byte(`
include "accounts.beancount"
2024-01-01 open Assets:Broker
`)

	tests := []struct {
		name     string
		loader   *Loader
		filename string
		data     []byte
		wantErr  string
		check    func(t *testing.T, tree *ast.AST)
	}{
		{
			name:     "plain",
			loader:   New(WithFollowIncludes()),
			filename: "test.beancount",
			data:     []byte("2024-01-01 open Assets:Broker\n"),
			check: func(t *testing.T, tree *ast.AST) {
				assert.Equal(t, 1, len(tree.Directives))
			},
		},
		{
			name:     "includes kept without follow",
			loader:   New(),
			filename: "main.beancount",
			data:     withInclude,
			check: func(t *testing.T, tree *ast.AST) {
				assert.Equal(t, "accounts.beancount", tree.Includes[0].Filename)
			},
		},
		{
			name:     "includes from stdin",
			loader:   New(WithFollowIncludes()),
			filename: "<stdin>",
			data:     withInclude,
			wantErr:  "include directives are not supported when reading from stdin",
		},
		{
			name:     "includes from file data",
			loader:   New(WithFollowIncludes()),
			filename: "/path/to/main.beancount",
			data:     withInclude,
			wantErr:  "use Load() instead of LoadBytes()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := tt.loader.LoadBytes(context.Background(), tt.filename, tt.data)
			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)
			tt.check(t, tree)
		})
	}
}

func TestLoadBytesParseError(t *testing.T) {
	_, err := New().LoadBytes(context.Background(), "test.beancount", []byte(`2024-01-01 invalid directive`))
	var parseErr *parser.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestMustLoadPanics(t *testing.T) {
	ldr := New()
	assert.Panics(t, func() {
		ldr.MustLoad(context.Background(), "/nonexistent/file.beancount")
	})
	assert.Panics(t, func() {
		ldr.MustLoadBytes(context.Background(), "invalid.beancount", []byte(`2024-01-01 open Assets:Broker "unclosed`))
	})

	tree := ldr.MustLoadBytes(context.Background(), "empty.beancount", nil)
	assert.Equal(t, 0, len(tree.Directives))
}
