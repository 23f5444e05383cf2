package ast

// Commodity declares a commodity or currency. Its metadata is available to
// reports through the ledger's commodity table.
//
// Example:
//
//	2014-01-01 commodity VTI
//	  asset_class: "equity"
type Commodity struct {
	Pos      Position
	Date     *Date  `parser:"@Date 'commodity'"`
	Currency string `parser:"@Currency"`

	withMetadata
}

var _ Directive = &Commodity{}

func (c *Commodity) Position() Position { return c.Pos }
func (c *Commodity) GetDate() *Date     { return c.Date }
func (c *Commodity) Directive() string  { return "commodity" }

// Open declares the opening of an account, optionally constraining its
// currencies and choosing a booking method (STRICT, NONE, FIFO, LIFO).
//
// Example:
//
//	2014-05-01 open Assets:Investments:Brokerage USD,VTI "FIFO"
type Open struct {
	Pos                  Position
	Date                 *Date    `parser:"@Date 'open'"`
	Account              Account  `parser:"@Account"`
	ConstraintCurrencies []string `parser:"( @Currency ( ',' @Currency )* )?"`
	BookingMethod        string   `parser:"@String?"`

	withMetadata
}

var _ Directive = &Open{}

func (o *Open) Position() Position { return o.Pos }
func (o *Open) GetDate() *Date     { return o.Date }
func (o *Open) Directive() string  { return "open" }

// Close declares the end of an account's lifetime.
type Close struct {
	Pos     Position
	Date    *Date   `parser:"@Date 'close'"`
	Account Account `parser:"@Account"`

	withMetadata
}

var _ Directive = &Close{}

func (c *Close) Position() Position { return c.Pos }
func (c *Close) GetDate() *Date     { return c.Date }
func (c *Close) Directive() string  { return "close" }

// Balance asserts the units of one currency held by an account (including its
// subaccounts) at the beginning of the given date.
//
// Example:
//
//	2014-08-09 balance Assets:Checking 562.00 USD
type Balance struct {
	Pos     Position
	Date    *Date   `parser:"@Date 'balance'"`
	Account Account `parser:"@Account"`
	Amount  *Amount `parser:"@@"`

	withMetadata
}

var _ Directive = &Balance{}

func (b *Balance) Position() Position { return b.Pos }
func (b *Balance) GetDate() *Date     { return b.Date }
func (b *Balance) Directive() string  { return "balance" }

// Pad inserts, at its own date, whatever amount makes the next balance
// assertion on Account succeed, taking the difference from AccountPad.
type Pad struct {
	Pos        Position
	Date       *Date   `parser:"@Date 'pad'"`
	Account    Account `parser:"@Account"`
	AccountPad Account `parser:"@Account"`

	withMetadata
}

var _ Directive = &Pad{}

func (p *Pad) Position() Position { return p.Pos }
func (p *Pad) GetDate() *Date     { return p.Date }
func (p *Pad) Directive() string  { return "pad" }

type Note struct {
	Pos         Position
	Date        *Date   `parser:"@Date 'note'"`
	Account     Account `parser:"@Account"`
	Description string  `parser:"@String"`

	withMetadata
}

var _ Directive = &Note{}

func (n *Note) Position() Position { return n.Pos }
func (n *Note) GetDate() *Date     { return n.Date }
func (n *Note) Directive() string  { return "note" }

type Event struct {
	Pos   Position
	Date  *Date  `parser:"@Date 'event'"`
	Name  string `parser:"@String"`
	Value string `parser:"@String"`

	withMetadata
}

var _ Directive = &Event{}

func (e *Event) Position() Position { return e.Pos }
func (e *Event) GetDate() *Date     { return e.Date }
func (e *Event) Directive() string  { return "event" }

// Price records the market price of one unit of Commodity in Amount.Currency.
//
// Example:
//
//	2014-07-09 price VTI 101.34 USD
type Price struct {
	Pos       Position
	Date      *Date   `parser:"@Date 'price'"`
	Commodity string  `parser:"@Currency"`
	Amount    *Amount `parser:"@@"`

	withMetadata
}

var _ Directive = &Price{}

func (p *Price) Position() Position { return p.Pos }
func (p *Price) GetDate() *Date     { return p.Date }
func (p *Price) Directive() string  { return "price" }

// Option sets a ledger wide option such as "operating_currency".
type Option struct {
	Pos   Position
	Name  string `parser:"'option' @String"`
	Value string `parser:"@String"`
}

// Include names another file to load, relative to the including file.
type Include struct {
	Pos      Position
	Filename string `parser:"'include' @String"`
}

// Plugin is recorded but never executed.
type Plugin struct {
	Pos    Position
	Name   string `parser:"'plugin' @String"`
	Config string `parser:"@String?"`
}

type Pushtag struct {
	Pos Position
	Tag Tag `parser:"'pushtag' @Tag"`
}

type Poptag struct {
	Pos Position
	Tag Tag `parser:"'poptag' @Tag"`
}
