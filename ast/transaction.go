package ast

// Transaction records the movement of amounts between accounts. Its postings
// are kept as written; the ledger package interpolates missing amounts and
// books lots.
//
// Example:
//
//	2014-05-05 * "Broker" "Buy shares" #invest
//	  Assets:Investments:Broker   10 VTI {101.34 USD}
//	  Assets:Checking
type Transaction struct {
	Pos       Position
	Date      *Date  `parser:"@Date ( 'txn' | "`
	Flag      string `parser:"@( '*' | '!' ) )"`
	Payee     string `parser:"@( String (?= String) )?"`
	Narration string `parser:"@String?"`
	Links     []Link `parser:"( @Link"`
	Tags      []Tag  `parser:"| @Tag )*"`

	withMetadata

	Postings []*Posting `parser:"@@*"`
}

var _ Directive = &Transaction{}

func (t *Transaction) Position() Position { return t.Pos }
func (t *Transaction) GetDate() *Date     { return t.Date }
func (t *Transaction) Directive() string  { return "transaction" }

// Posting is a single leg of a transaction. Amount is nil when the ledger
// must infer it.
type Posting struct {
	Pos         Position
	Flag        string    `parser:"@( '*' | '!' )?"`
	Account     Account   `parser:"@Account"`
	Amount      *Amount   `parser:"( @@"`
	Cost        *CostSpec `parser:"@@?"`
	PriceMarker string    `parser:"( @( '@@' | '@' )"`
	Price       *Amount   `parser:"@@ )? )?"`

	withMetadata
}

// IsTotalPrice reports whether the price was written with @@.
func (p *Posting) IsTotalPrice() bool {
	return p.PriceMarker == "@@"
}
