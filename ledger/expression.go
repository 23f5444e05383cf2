package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// EvaluateExpression evaluates a parenthesized arithmetic amount such as
// "(40 / 3)" or "((10 + 5) * 2)". Multiplication and division bind tighter
// than addition and subtraction; a unary minus applies to the next operand.
func EvaluateExpression(expr string) (decimal.Decimal, error) {
	expr = strings.TrimSpace(expr)
	if !strings.HasPrefix(expr, "(") || !strings.HasSuffix(expr, ")") {
		return decimal.Zero, fmt.Errorf("expression must be wrapped in parentheses: %q", expr)
	}
	e := &evaluator{src: expr}
	result, err := e.sum()
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid expression %q: %w", expr, err)
	}
	if c := e.peek(); c != 0 {
		return decimal.Zero, fmt.Errorf("invalid expression %q: unexpected %q at offset %d", expr, c, e.pos)
	}
	return result, nil
}

type evaluator struct {
	src string
	pos int
}

// peek returns the next non-blank byte, 0 at the end.
func (e *evaluator) peek() byte {
	for e.pos < len(e.src) && (e.src[e.pos] == ' ' || e.src[e.pos] == '\t') {
		e.pos++
	}
	if e.pos >= len(e.src) {
		return 0
	}
	return e.src[e.pos]
}

func (e *evaluator) sum() (decimal.Decimal, error) {
	left, err := e.product()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		op := e.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		e.pos++
		right, err := e.product()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '+' {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
}

func (e *evaluator) product() (decimal.Decimal, error) {
	left, err := e.operand()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		op := e.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		e.pos++
		right, err := e.operand()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '*' {
			left = left.Mul(right)
			continue
		}
		if right.IsZero() {
			return decimal.Zero, fmt.Errorf("division by zero")
		}
		left = left.Div(right)
	}
}

func (e *evaluator) operand() (decimal.Decimal, error) {
	switch c := e.peek(); {
	case c == '(':
		e.pos++
		inner, err := e.sum()
		if err != nil {
			return decimal.Zero, err
		}
		if e.peek() != ')' {
			return decimal.Zero, fmt.Errorf("missing ')' at offset %d", e.pos)
		}
		e.pos++
		return inner, nil
	case c == '-':
		e.pos++
		inner, err := e.operand()
		return inner.Neg(), err
	case c == '.' || (c >= '0' && c <= '9'):
		start := e.pos
		for e.pos < len(e.src) && (e.src[e.pos] == '.' || (e.src[e.pos] >= '0' && e.src[e.pos] <= '9')) {
			e.pos++
		}
		return decimal.NewFromString(e.src[start:e.pos])
	case c == 0:
		return decimal.Zero, fmt.Errorf("unexpected end")
	default:
		return decimal.Zero, fmt.Errorf("unexpected %q at offset %d", c, e.pos)
	}
}
