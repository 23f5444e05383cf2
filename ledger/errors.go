package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/redstreet/fava-investor/ast"
)

// Error types for ledger validation errors. Each carries the position and
// directive it was raised for, so the CLI can render source context.

// ValidationErrors wraps every error collected while processing a ledger.
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors occurred", len(e.Errors))
}

// Unwrap returns the underlying errors for error unwrapping
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}

// location formats "filename:line", falling back to the date for directives
// built in memory.
func location(pos ast.Position, date *ast.Date) string {
	if pos.Filename == "" {
		return date.String()
	}
	return fmt.Sprintf("%s:%d", pos.Filename, pos.Line)
}

// AccountNotOpenError is returned when a directive references an account that
// is not open on its date.
type AccountNotOpenError struct {
	Account   string
	Date      *ast.Date
	Pos       ast.Position
	Directive ast.Directive
}

func (e *AccountNotOpenError) Error() string {
	return fmt.Sprintf("%s: Invalid reference to unknown account '%s'", location(e.Pos, e.Date), e.Account)
}

func (e *AccountNotOpenError) GetPosition() ast.Position   { return e.Pos }
func (e *AccountNotOpenError) GetDirective() ast.Directive { return e.Directive }

// NewAccountNotOpenError creates an error for directive referencing account.
func NewAccountNotOpenError(directive ast.Directive, account ast.Account) *AccountNotOpenError {
	return &AccountNotOpenError{
		Account:   string(account),
		Date:      directive.GetDate(),
		Pos:       directive.Position(),
		Directive: directive,
	}
}

// AccountAlreadyOpenError is returned when an account is opened twice.
type AccountAlreadyOpenError struct {
	Account    string
	Date       *ast.Date
	OpenedDate *ast.Date
	Pos        ast.Position
	Directive  ast.Directive
}

func (e *AccountAlreadyOpenError) Error() string {
	return fmt.Sprintf("%s: Account %s is already open (opened on %s)",
		location(e.Pos, e.Date), e.Account, e.OpenedDate)
}

func (e *AccountAlreadyOpenError) GetPosition() ast.Position   { return e.Pos }
func (e *AccountAlreadyOpenError) GetDirective() ast.Directive { return e.Directive }

// NewAccountAlreadyOpenError creates an error for reopening an account.
func NewAccountAlreadyOpenError(open *ast.Open, opened *Account) *AccountAlreadyOpenError {
	return &AccountAlreadyOpenError{
		Account:    string(open.Account),
		Date:       open.Date,
		OpenedDate: ast.NewDateFromTime(opened.OpenDate),
		Pos:        open.Pos,
		Directive:  open,
	}
}

// AccountAlreadyClosedError is returned when closing an account twice.
type AccountAlreadyClosedError struct {
	Account    string
	Date       *ast.Date
	ClosedDate *ast.Date
	Pos        ast.Position
	Directive  ast.Directive
}

func (e *AccountAlreadyClosedError) Error() string {
	return fmt.Sprintf("%s: Account %s is already closed (closed on %s)",
		location(e.Pos, e.Date), e.Account, e.ClosedDate)
}

func (e *AccountAlreadyClosedError) GetPosition() ast.Position   { return e.Pos }
func (e *AccountAlreadyClosedError) GetDirective() ast.Directive { return e.Directive }

// NewAccountAlreadyClosedError creates an error for closing a closed account.
func NewAccountAlreadyClosedError(close *ast.Close, closed *Account) *AccountAlreadyClosedError {
	return &AccountAlreadyClosedError{
		Account:    string(close.Account),
		Date:       close.Date,
		ClosedDate: ast.NewDateFromTime(*closed.CloseDate),
		Pos:        close.Pos,
		Directive:  close,
	}
}

// TransactionNotBalancedError is returned when a transaction doesn't balance
type TransactionNotBalancedError struct {
	Pos         ast.Position
	Date        *ast.Date
	Narration   string
	Residuals   map[string]string // currency -> unbalanced amount
	Transaction *ast.Transaction
}

// Error returns a bean-check style error message with filename:line prefix.
func (e *TransactionNotBalancedError) Error() string {
	return fmt.Sprintf("%s: Transaction does not balance: %s", location(e.Pos, e.Date), e.formatResiduals())
}

func (e *TransactionNotBalancedError) formatResiduals() string {
	currencies := make([]string, 0, len(e.Residuals))
	for currency := range e.Residuals {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	var buf strings.Builder
	buf.WriteByte('(')
	for i, currency := range currencies {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(e.Residuals[currency])
		buf.WriteByte(' ')
		buf.WriteString(currency)
	}
	buf.WriteByte(')')
	return buf.String()
}

func (e *TransactionNotBalancedError) GetPosition() ast.Position   { return e.Pos }
func (e *TransactionNotBalancedError) GetDirective() ast.Directive { return e.Transaction }

// NewTransactionNotBalancedError creates an error for an unbalanced transaction.
func NewTransactionNotBalancedError(txn *ast.Transaction, residuals map[string]string) *TransactionNotBalancedError {
	return &TransactionNotBalancedError{
		Pos:         txn.Pos,
		Date:        txn.Date,
		Narration:   txn.Narration,
		Residuals:   residuals,
		Transaction: txn,
	}
}

// InvalidAmountError is returned when an amount cannot be parsed or used.
type InvalidAmountError struct {
	Date       *ast.Date
	Account    string
	Value      string
	Underlying error
	Pos        ast.Position
	Directive  ast.Directive
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("%s: Invalid amount %q for account %s: %v",
		location(e.Pos, e.Date), e.Value, e.Account, e.Underlying)
}

func (e *InvalidAmountError) GetPosition() ast.Position   { return e.Pos }
func (e *InvalidAmountError) GetDirective() ast.Directive { return e.Directive }
func (e *InvalidAmountError) Unwrap() error               { return e.Underlying }

// NewInvalidAmountError creates an error for an unusable amount in directive.
func NewInvalidAmountError(directive ast.Directive, account ast.Account, value string, err error) *InvalidAmountError {
	return &InvalidAmountError{
		Date:       directive.GetDate(),
		Account:    string(account),
		Value:      value,
		Underlying: err,
		Pos:        directive.Position(),
		Directive:  directive,
	}
}

// ReductionError is returned when a posting reducing a lot cannot be booked
// against the account's inventory.
type ReductionError struct {
	Date      *ast.Date
	Account   string
	Units     string
	Reason    string
	Pos       ast.Position
	Directive ast.Directive
}

func (e *ReductionError) Error() string {
	return fmt.Sprintf("%s: Cannot reduce %s from %s: %s", location(e.Pos, e.Date), e.Units, e.Account, e.Reason)
}

func (e *ReductionError) GetPosition() ast.Position   { return e.Pos }
func (e *ReductionError) GetDirective() ast.Directive { return e.Directive }

// NewReductionError creates an error for a posting of txn that failed booking.
func NewReductionError(txn *ast.Transaction, posting *ast.Posting, reason error) *ReductionError {
	units := ""
	if posting.Amount != nil {
		units = posting.Amount.String()
	}
	return &ReductionError{
		Date:      txn.Date,
		Account:   string(posting.Account),
		Units:     units,
		Reason:    reason.Error(),
		Pos:       posting.Pos,
		Directive: txn,
	}
}

// CurrencyConstraintError is returned when a posting's currency is not among
// the currencies its account was opened with.
type CurrencyConstraintError struct {
	Date      *ast.Date
	Account   string
	Currency  string
	Allowed   []string
	Pos       ast.Position
	Directive ast.Directive
}

func (e *CurrencyConstraintError) Error() string {
	return fmt.Sprintf("%s: Currency %s is not allowed in %s (allowed: %s)",
		location(e.Pos, e.Date), e.Currency, e.Account, strings.Join(e.Allowed, ", "))
}

func (e *CurrencyConstraintError) GetPosition() ast.Position   { return e.Pos }
func (e *CurrencyConstraintError) GetDirective() ast.Directive { return e.Directive }

// BalanceMismatchError is returned when a balance assertion fails
type BalanceMismatchError struct {
	Date      *ast.Date
	Account   string
	Expected  string
	Actual    string
	Currency  string
	Pos       ast.Position
	Directive ast.Directive
}

func (e *BalanceMismatchError) Error() string {
	return fmt.Sprintf("%s: Balance mismatch for %s:\n  Expected: %s %s\n  Actual:   %s %s",
		location(e.Pos, e.Date), e.Account,
		e.Expected, e.Currency,
		e.Actual, e.Currency)
}

func (e *BalanceMismatchError) GetPosition() ast.Position   { return e.Pos }
func (e *BalanceMismatchError) GetDirective() ast.Directive { return e.Directive }

// NewBalanceMismatchError creates an error for a failed balance assertion.
func NewBalanceMismatchError(balance *ast.Balance, expected, actual string) *BalanceMismatchError {
	return &BalanceMismatchError{
		Date:      balance.Date,
		Account:   string(balance.Account),
		Expected:  expected,
		Actual:    actual,
		Currency:  balance.Amount.Currency,
		Pos:       balance.Pos,
		Directive: balance,
	}
}

// InvalidPriceError is returned for a price directive with an unusable rate.
type InvalidPriceError struct {
	Date       *ast.Date
	Commodity  string
	Underlying error
	Pos        ast.Position
	Directive  ast.Directive
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("%s: Invalid price for %s: %v", location(e.Pos, e.Date), e.Commodity, e.Underlying)
}

func (e *InvalidPriceError) GetPosition() ast.Position   { return e.Pos }
func (e *InvalidPriceError) GetDirective() ast.Directive { return e.Directive }
func (e *InvalidPriceError) Unwrap() error               { return e.Underlying }

// NewInvalidPriceError creates an error for a price directive.
func NewInvalidPriceError(price *ast.Price, err error) *InvalidPriceError {
	return &InvalidPriceError{
		Date:       price.Date,
		Commodity:  price.Commodity,
		Underlying: err,
		Pos:        price.Pos,
		Directive:  price,
	}
}
