package ast

import "github.com/alecthomas/participle/v2/lexer"

// Position represents a location in a source file. The parser fills it in for
// every node that declares a Pos field.
type Position = lexer.Position
