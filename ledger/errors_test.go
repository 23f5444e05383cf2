package ledger

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/redstreet/fava-investor/ast"
)

func TestReductionError(t *testing.T) {
	date, _ := ast.NewDate("2024-01-15")
	account, _ := ast.NewAccount("Assets:Broker")
	posting := ast.NewPosting(account, ast.WithAmount("-10", "VTI"), ast.WithCost(ast.NewCostSpec(nil)))
	txn := ast.NewTransaction(date, "Sell", ast.WithPostings(posting))
	txn.Pos = ast.Position{Filename: "test.bean", Line: 10}
	posting.Pos = ast.Position{Filename: "test.bean", Line: 11}

	err := NewReductionError(txn, posting, errors.New("no position matches"))

	t.Run("Error message formatting", func(t *testing.T) {
		assert.Equal(t, "test.bean:11: Cannot reduce -10 VTI from Assets:Broker: no position matches", err.Error())
	})

	t.Run("Position and directive", func(t *testing.T) {
		assert.Equal(t, 11, err.GetPosition().Line)
		assert.Equal(t, ast.Directive(txn), err.GetDirective())
	})
}

func TestErrorLocationFallsBackToDate(t *testing.T) {
	date, _ := ast.NewDate("2024-01-15")
	account, _ := ast.NewAccount("Assets:Cash")
	txn := ast.NewTransaction(date, "In memory")

	err := NewAccountNotOpenError(txn, account)
	assert.Equal(t, "2024-01-15: Invalid reference to unknown account 'Assets:Cash'", err.Error())
}

func TestTransactionNotBalancedErrorSortsCurrencies(t *testing.T) {
	date, _ := ast.NewDate("2024-01-15")
	txn := ast.NewTransaction(date, "Broken")
	txn.Pos = ast.Position{Filename: "test.bean", Line: 3}

	err := NewTransactionNotBalancedError(txn, map[string]string{"USD": "1", "EUR": "-2"})
	assert.Equal(t, "test.bean:3: Transaction does not balance: (-2 EUR, 1 USD)", err.Error())
}

func TestInvalidAmountErrorUnwraps(t *testing.T) {
	date, _ := ast.NewDate("2024-01-15")
	account, _ := ast.NewAccount("Assets:Cash")
	txn := ast.NewTransaction(date, "Bad")
	cause := errors.New("boom")

	err := NewInvalidAmountError(txn, account, "1x", cause)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), `Invalid amount "1x" for account Assets:Cash: boom`)
}

func TestValidationErrors(t *testing.T) {
	first := errors.New("first")
	single := &ValidationErrors{Errors: []error{first}}
	assert.Equal(t, "first", single.Error())

	multi := &ValidationErrors{Errors: []error{first, errors.New("second")}}
	assert.Equal(t, "2 validation errors occurred", multi.Error())
	assert.True(t, errors.Is(multi, first))
}
