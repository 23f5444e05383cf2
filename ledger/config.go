package ledger

import (
	"context"
	"fmt"

	"github.com/redstreet/fava-investor/ast"
)

// Config holds the parsed Beancount options the ledger honours.
type Config struct {
	Tolerance           *ToleranceConfig
	Booking             BookingMethod
	OperatingCurrencies []string
	Title               string
}

// NewConfig creates a Config with Beancount's defaults.
func NewConfig() *Config {
	return &Config{
		Tolerance: NewToleranceConfig(),
		Booking:   BookingStrict,
	}
}

// configFromAST parses the option directives of tree.
func configFromAST(tree *ast.AST) (*Config, error) {
	return configFromOptions(tree.OptionsMap())
}

// configFromOptions parses an options map into a Config. Supported:
//   - option "booking_method" "STRICT|FIFO|LIFO|NONE"
//   - option "operating_currency" "USD" (repeatable)
//   - option "title" "..."
//   - the tolerance options read by parseToleranceConfig
func configFromOptions(options map[string][]string) (*Config, error) {
	cfg := NewConfig()

	var err error
	if cfg.Tolerance, err = parseToleranceConfig(options); err != nil {
		return nil, err
	}

	if vals := options["booking_method"]; len(vals) > 0 {
		if cfg.Booking, err = ParseBookingMethod(vals[0]); err != nil {
			return nil, fmt.Errorf("invalid booking_method: %w", err)
		}
	}

	cfg.OperatingCurrencies = options["operating_currency"]
	if vals := options["title"]; len(vals) > 0 {
		cfg.Title = vals[0]
	}

	return cfg, nil
}

// contextKey is a private type to avoid key collisions in context.
type contextKey struct{}

// WithContext returns a new context with the Config attached.
func (c *Config) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// ConfigFromContext retrieves the Config from context, or the defaults.
func ConfigFromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(contextKey{}).(*Config); ok {
		return cfg
	}
	return NewConfig()
}
