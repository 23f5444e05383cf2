package parser

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2"

	"github.com/redstreet/fava-investor/ast"
)

// ParseError represents a syntax error during parsing.
type ParseError struct {
	Pos        ast.Position
	Message    string
	Underlying error
}

func (e *ParseError) Error() string {
	location := fmt.Sprintf("%s:%d", e.Pos.Filename, e.Pos.Line)
	if e.Pos.Filename == "" {
		location = fmt.Sprintf("line %d", e.Pos.Line)
	}

	return fmt.Sprintf("%s: %s", location, e.Message)
}

func (e *ParseError) GetPosition() ast.Position {
	return e.Pos
}

// GetDirective returns nil; syntax errors precede any directive.
func (e *ParseError) GetDirective() ast.Directive {
	return nil
}

func (e *ParseError) Unwrap() error {
	return e.Underlying
}

// NewParseError creates a parse error from a participle error, extracting
// the position and a message without the position prefix. Errors that are
// already a *ParseError are returned unchanged.
func NewParseError(filename string, err error) *ParseError {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr
	}

	var pErr participle.Error
	if errors.As(err, &pErr) {
		pos := pErr.Position()
		pos.Filename = filename
		return &ParseError{
			Pos:        pos,
			Message:    pErr.Message(),
			Underlying: err,
		}
	}

	return &ParseError{
		Pos:        ast.Position{Filename: filename, Line: 1, Column: 1},
		Message:    err.Error(),
		Underlying: err,
	}
}
