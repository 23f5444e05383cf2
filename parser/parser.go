// Package parser turns Beancount source text into an ast.AST.
//
// The grammar lives in the struct tags of the ast package; this package owns
// the lexer and the participle parser built from them. Every Parse function
// applies pushtag/poptag and returns directives sorted by date.
package parser

import (
	"context"
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/redstreet/fava-investor/ast"
	"github.com/redstreet/fava-investor/telemetry"
)

var (
	lex = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `;[^\n]*`},
		{Name: "Date", Pattern: `\d{4}-\d{2}-\d{2}`},
		{Name: "Account", Pattern: `[A-Z][A-Za-z]*:[A-Za-z0-9][A-Za-z0-9:-]*`},
		{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
		{Name: "Number", Pattern: `[-+]?(\d*\.)?\d+`},
		{Name: "Expr", Pattern: `\((?:[^()\n]|\((?:[^()\n]|\([^()\n]*\))*\))*\)`},
		{Name: "Link", Pattern: `\^[A-Za-z0-9_./-]+`},
		{Name: "Tag", Pattern: `#[A-Za-z0-9_./-]+`},
		{Name: "Currency", Pattern: `[A-Z][A-Z0-9'._-]*`},
		{Name: "Ident", Pattern: `[a-z][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `\{\{|\}\}|@@|[!*:,@{}]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	parser = participle.MustBuild[ast.AST](
		participle.Lexer(lex),
		participle.Unquote("String"),
		participle.Elide("Comment", "Whitespace"),
		participle.Union[ast.Directive](
			&ast.Commodity{},
			&ast.Open{},
			&ast.Close{},
			&ast.Balance{},
			&ast.Pad{},
			&ast.Note{},
			&ast.Event{},
			&ast.Price{},
			&ast.Transaction{},
		),
		participle.UseLookahead(2),
	)
)

// Parse reads a whole Beancount file from r.
func Parse(ctx context.Context, r io.Reader) (*ast.AST, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseBytesWithFilename(ctx, "", data)
}

// ParseString parses Beancount source held in a string.
func ParseString(ctx context.Context, str string) (*ast.AST, error) {
	return ParseBytesWithFilename(ctx, "", []byte(str))
}

// ParseBytes parses Beancount source held in a byte slice.
func ParseBytes(ctx context.Context, data []byte) (*ast.AST, error) {
	return ParseBytesWithFilename(ctx, "", data)
}

// ParseBytesWithFilename parses data, recording filename in every position so
// errors and directives can be traced back to their file.
func ParseBytesWithFilename(ctx context.Context, filename string, data []byte) (*ast.AST, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timer := telemetry.FromContext(ctx).Start("parse " + displayName(filename))
	defer timer.End()

	tree, err := parser.ParseBytes(filename, data)
	if err != nil {
		return nil, NewParseError(filename, err)
	}

	ast.ApplyPushPopTags(tree)
	ast.SortDirectives(tree)

	return tree, nil
}

func displayName(filename string) string {
	if filename == "" {
		return "<input>"
	}
	return filename
}
