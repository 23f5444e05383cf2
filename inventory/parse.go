package inventory

import (
	"fmt"
	"time"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/shopspring/decimal"
)

type inventorySyntax struct {
	Positions []*positionSyntax `parser:"( @@ ( ',' @@ )* )?"`
}

type positionSyntax struct {
	Number   string      `parser:"@Number"`
	Currency string      `parser:"@Currency"`
	Cost     *costSyntax `parser:"( '{' @@ '}' )?"`
}

type costSyntax struct {
	Number   string `parser:"@Number"`
	Currency string `parser:"@Currency"`
	Date     string `parser:"( ',' @Date )?"`
	Label    string `parser:"( ',' @String )?"`
}

var inventoryParser = participle.MustBuild[inventorySyntax](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Date", Pattern: `\d{4}-\d{2}-\d{2}`},
		{Name: "Number", Pattern: `[-+]?(\d*\.)?\d+`},
		{Name: "Currency", Pattern: `[A-Z][A-Z0-9'._-]*`},
		{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
		{Name: "Punct", Pattern: `[{},]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})),
	participle.Unquote("String"),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// Parse reads an inventory written as comma separated positions, e.g.
// "1 USD, 2 AA {1.5 USD, 2020-01-02}". The empty string is the empty inventory.
func Parse(s string) (Inventory, error) {
	syntax, err := inventoryParser.ParseString("", s)
	if err != nil {
		return Inventory{}, fmt.Errorf("invalid inventory %q: %w", s, err)
	}

	var inv Inventory
	for _, ps := range syntax.Positions {
		units, err := decimal.NewFromString(ps.Number)
		if err != nil {
			return Inventory{}, fmt.Errorf("invalid number %q: %w", ps.Number, err)
		}
		p := Position{Units: Amount{Number: units, Currency: ps.Currency}}

		if cs := ps.Cost; cs != nil {
			number, err := decimal.NewFromString(cs.Number)
			if err != nil {
				return Inventory{}, fmt.Errorf("invalid cost %q: %w", cs.Number, err)
			}
			p.Cost = &Cost{Number: number, Currency: cs.Currency, Label: cs.Label}
			if cs.Date != "" {
				if p.Cost.Date, err = time.Parse("2006-01-02", cs.Date); err != nil {
					return Inventory{}, fmt.Errorf("invalid cost date %q: %w", cs.Date, err)
				}
			}
		}
		inv.AddPosition(p)
	}
	return inv, nil
}

// MustParse is Parse for literals known to be valid. It panics otherwise.
func MustParse(s string) Inventory {
	inv, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return inv
}
