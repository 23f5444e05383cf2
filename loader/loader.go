// Package loader reads Beancount files into a single AST, optionally
// resolving include directives.
//
// Without WithFollowIncludes only the named file is parsed and its include
// directives are left in the AST. With it, includes are resolved relative to
// the including file, loaded recursively, deduplicated and merged.
//
// Example usage:
//
//	ldr := loader.New(loader.WithFollowIncludes())
//	result, err := ldr.Load(ctx, "main.beancount")
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redstreet/fava-investor/ast"
	"github.com/redstreet/fava-investor/parser"
	"github.com/redstreet/fava-investor/telemetry"
)

// Loader handles loading and parsing of Beancount files.
//
// Configure the loader using functional options passed to New:
//
//	loader := New(WithFollowIncludes())
type Loader struct {
	// FollowIncludes determines whether to recursively load included files.
	FollowIncludes bool
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithFollowIncludes configures the loader to recursively load and merge all
// included files. The merged AST has Includes set to nil.
func WithFollowIncludes() Option {
	return func(l *Loader) {
		l.FollowIncludes = true
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Result is a loaded AST together with the files it was read from.
type Result struct {
	AST *ast.AST

	// Root is the absolute path of the file passed to Load.
	Root string

	// Includes lists the absolute paths of every file merged in, in load order.
	Includes []string
}

// Files returns Root followed by Includes.
func (r *Result) Files() []string {
	return append([]string{r.Root}, r.Includes...)
}

// Load parses a Beancount file with optional recursive include resolution.
func (l *Loader) Load(ctx context.Context, filename string) (*Result, error) {
	timer := telemetry.FromContext(ctx).Start("load " + filepath.Base(filename))
	defer timer.End()

	root, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", filename, err)
	}

	if !l.FollowIncludes {
		tree, err := parseFile(ctx, filename)
		if err != nil {
			return nil, err
		}
		return &Result{AST: tree, Root: root}, nil
	}

	state := &loaderState{visited: make(map[string]bool)}
	tree, err := state.loadRecursive(ctx, filename)
	if err != nil {
		return nil, err
	}

	includes := make([]string, 0, len(state.order))
	for _, path := range state.order {
		if path != root {
			includes = append(includes, path)
		}
	}
	return &Result{AST: tree, Root: root, Includes: includes}, nil
}

// MustLoad is like Load but panics on error.
func (l *Loader) MustLoad(ctx context.Context, filename string) *Result {
	result, err := l.Load(ctx, filename)
	if err != nil {
		panic(err)
	}
	return result
}

// LoadBytes parses in-memory data. Include directives cannot be resolved
// without a file on disk, so with FollowIncludes set they are an error.
func (l *Loader) LoadBytes(ctx context.Context, filename string, data []byte) (*ast.AST, error) {
	tree, err := parser.ParseBytesWithFilename(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	if l.FollowIncludes && len(tree.Includes) > 0 {
		if filename == "<stdin>" || filename == "" {
			return nil, fmt.Errorf("include directives are not supported when reading from stdin")
		}
		return nil, fmt.Errorf("include directives found; use Load() instead of LoadBytes() to resolve includes")
	}

	return tree, nil
}

// MustLoadBytes is like LoadBytes but panics on error.
func (l *Loader) MustLoadBytes(ctx context.Context, filename string, data []byte) *ast.AST {
	tree, err := l.LoadBytes(ctx, filename, data)
	if err != nil {
		panic(err)
	}
	return tree
}

func parseFile(ctx context.Context, filename string) (*ast.AST, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return parser.ParseBytesWithFilename(ctx, filename, data)
}

type loaderState struct {
	visited map[string]bool
	order   []string
}

func (l *loaderState) loadRecursive(ctx context.Context, filename string) (*ast.AST, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", filename, err)
	}

	// Files included more than once, circular includes among them, are merged once.
	if l.visited[absPath] {
		return &ast.AST{}, nil
	}
	l.visited[absPath] = true
	l.order = append(l.order, absPath)

	tree, err := parseFile(ctx, filename)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(absPath)
	included := make([]*ast.AST, 0, len(tree.Includes))
	for _, inc := range tree.Includes {
		includePath := inc.Filename
		if !filepath.IsAbs(includePath) {
			includePath = filepath.Join(baseDir, includePath)
		}

		sub, err := l.loadRecursive(ctx, includePath)
		if err != nil {
			return nil, fmt.Errorf("in file %s: %w", filename, err)
		}
		included = append(included, sub)
	}

	return mergeASTs(tree, included...), nil
}

// mergeASTs combines a main AST with its included ASTs. Options of the main
// file take precedence; plugins are appended. Push and pop tags were already
// applied per file by the parser.
func mergeASTs(main *ast.AST, included ...*ast.AST) *ast.AST {
	result := &ast.AST{
		Directives: append(ast.Directives{}, main.Directives...),
		Options:    main.Options,
		Plugins:    main.Plugins,
	}

	seen := make(map[string]bool, len(main.Options))
	for _, opt := range main.Options {
		seen[opt.Name] = true
	}

	for _, inc := range included {
		result.Directives = append(result.Directives, inc.Directives...)
		result.Plugins = append(result.Plugins, inc.Plugins...)
		for _, opt := range inc.Options {
			if !seen[opt.Name] {
				result.Options = append(result.Options, opt)
			}
		}
	}

	ast.SortDirectives(result)
	return result
}
