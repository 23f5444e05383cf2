package cli

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/redstreet/fava-investor/ast"
	"github.com/redstreet/fava-investor/inventory"
	"github.com/redstreet/fava-investor/ledger"
	"github.com/redstreet/fava-investor/parser"
)

func TestErrorRendererParseError(t *testing.T) {
	source := `2024-01-15 open Assets:Checking

2024-01-16 * "Another transaction" "Test transaction"
  Expenses:Food:Restaurant  -30.00 USD {
  Assets:Checking
`
	_, err := parser.ParseBytesWithFilename(context.Background(), "test.beancount", []byte(source))
	assert.Error(t, err)

	output := NewErrorRenderer().AddSource("test.beancount", []byte(source)).Render(err)
	assert.Contains(t, output, "test.beancount:")
	assert.Contains(t, output, "Expenses:Food:Restaurant")
	assert.Contains(t, output, "^")

	found := false
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "   ") && strings.Contains(line, "Expenses:Food:Restaurant") {
			found = true
		}
	}
	assert.True(t, found, "expected indented source lines")
}

func TestErrorRendererWithoutSource(t *testing.T) {
	err := &parser.ParseError{
		Pos:     ast.Position{Filename: "missing.beancount", Line: 6, Column: 49},
		Message: "expected currency",
	}
	assert.Equal(t, "missing.beancount:6: expected currency", NewErrorRenderer().Render(err))
}

func TestErrorRendererDirective(t *testing.T) {
	source := `2020-01-01 open Assets:Cash
2020-01-01 open Expenses:Food

2020-01-02 * "Unbalanced"
  Assets:Cash      10 USD
  Expenses:Food    -5 USD

2020-01-03 * "Next"
  Assets:Cash      -1 USD
  Expenses:Food     1 USD
`
	tree, err := parser.ParseBytesWithFilename(context.Background(), "test.beancount", []byte(source))
	assert.NoError(t, err)

	err = ledger.New().Process(context.Background(), tree)
	var validationErrors *ledger.ValidationErrors
	assert.True(t, errors.As(err, &validationErrors))

	output := NewErrorRenderer().AddSource("test.beancount", []byte(source)).RenderAll(validationErrors.Errors)
	assert.Contains(t, output, `2020-01-02 * "Unbalanced"`)
	assert.Contains(t, output, "Assets:Cash      10 USD")
	assert.Contains(t, output, "Expenses:Food    -5 USD")
	assert.NotContains(t, output, "Next")
}

func TestErrorRendererValuation(t *testing.T) {
	err := &inventory.ValuationError{
		Currency: "AA",
		Quote:    "USD",
		Date:     time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	output := NewErrorRenderer().Render(err)
	assert.Contains(t, output, "add a price directive for AA in USD on or before 2020-01-02")
}

func TestErrorRendererPlainError(t *testing.T) {
	assert.Equal(t, "boom", NewErrorRenderer().Render(errors.New("boom")))
}
