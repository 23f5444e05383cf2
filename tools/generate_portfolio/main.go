// Portfolio Ledger Generator
//
// This tool generates a Beancount ledger of an investment portfolio for
// profiling the split report: contributions, purchases with commissions,
// dividends, FIFO sales with gains, fees, withdrawals and price updates.
// The output is deterministic for a given seed.
//
// Usage:
//
//	go run ./tools/generate_portfolio > portfolio.beancount
//	go run ./tools/generate_portfolio --transactions=100000 --seed=7 > large.beancount
package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"
)

var (
	stocks = []string{"AAPL", "MSFT", "GOOGL", "VTI", "VXUS", "BND"}

	openAccounts = []string{
		"Assets:Bank:Checking",
		"Assets:Investments:Cash",
		"Income:Investments:Dividends",
		"Income:Investments:Gains",
		"Expenses:Investments:Commissions",
		"Expenses:Investments:Fees",
	}
)

type options struct {
	Transactions int    `help:"Number of transactions to generate." default:"10000"`
	Seed         int64  `help:"Random seed." default:"1"`
	Start        string `help:"Date of the first directive." default:"2015-01-01"`
}

func main() {
	var opts options
	kong.Parse(&opts, kong.Description("Generate a Beancount investment ledger."))

	start, err := time.Parse("2006-01-02", opts.Start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid start date: %v\n", err)
		os.Exit(1)
	}

	w := bufio.NewWriter(os.Stdout)
	stats := generate(w, opts.Transactions, opts.Seed, start)
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generated %d transactions and %d prices\n", stats.transactions, stats.prices)
}

type lot struct {
	shares int64
	cost   decimal.Decimal
}

type generator struct {
	w      io.Writer
	rnd    *rand.Rand
	date   time.Time
	prices map[string]decimal.Decimal
	// holdings are the open lots per stock, oldest first.
	holdings map[string][]lot

	transactions int
	priceCount   int
}

type stats struct {
	transactions, prices int
}

func generate(w io.Writer, transactions int, seed int64, start time.Time) stats {
	g := &generator{
		w:        w,
		rnd:      rand.New(rand.NewSource(seed)),
		date:     start,
		prices:   make(map[string]decimal.Decimal),
		holdings: make(map[string][]lot),
	}
	for _, s := range stocks {
		g.prices[s] = decimal.NewFromInt(int64(20 + g.rnd.Intn(300)))
	}

	g.header()
	for g.transactions < transactions {
		switch n := g.rnd.Intn(20); {
		case n < 4:
			g.contribution()
		case n < 9:
			g.buy()
		case n < 12:
			g.dividend()
		case n < 14:
			g.sell()
		case n == 14:
			g.fee()
		case n == 15:
			g.withdrawal()
		default:
			g.price()
		}
		g.date = g.date.AddDate(0, 0, g.rnd.Intn(3))
	}
	return stats{transactions: g.transactions, prices: g.priceCount}
}

func (g *generator) day() string {
	return g.date.Format("2006-01-02")
}

func (g *generator) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(g.w, format, args...)
}

func (g *generator) header() {
	g.printf("; Generated investment ledger\n\n")
	g.printf("option \"title\" \"Generated Portfolio\"\n")
	g.printf("option \"operating_currency\" \"USD\"\n\n")
	for _, account := range openAccounts {
		g.printf("%s open %s\n", g.day(), account)
	}
	for _, s := range stocks {
		g.printf("%s open Assets:Investments:%s %s \"FIFO\"\n", g.day(), s, s)
	}
	g.printf("\n")
}

// amount returns a random amount between lo and hi with two decimals.
func (g *generator) amount(lo, hi int) decimal.Decimal {
	cents := int64(lo*100 + g.rnd.Intn((hi-lo)*100+1))
	return decimal.New(cents, -2)
}

func (g *generator) contribution() {
	g.transactions++
	g.printf("%s * \"Contribution\"\n  Assets:Investments:Cash  %s USD\n  Assets:Bank:Checking\n\n", g.day(), g.amount(500, 5000))
}

func (g *generator) withdrawal() {
	g.transactions++
	g.printf("%s * \"Withdrawal\"\n  Assets:Bank:Checking  %s USD\n  Assets:Investments:Cash\n\n", g.day(), g.amount(100, 2000))
}

func (g *generator) fee() {
	g.transactions++
	g.printf("%s * \"Account fee\"\n  Expenses:Investments:Fees  %s USD\n  Assets:Investments:Cash\n\n", g.day(), g.amount(1, 25))
}

func (g *generator) buy() {
	g.transactions++
	stock := stocks[g.rnd.Intn(len(stocks))]
	shares := int64(1 + g.rnd.Intn(50))
	price := g.prices[stock]
	g.holdings[stock] = append(g.holdings[stock], lot{shares: shares, cost: price})

	g.printf("%s * \"Buy %s\"\n", g.day(), stock)
	g.printf("  Assets:Investments:%s  %d %s {%s USD}\n", stock, shares, stock, price)
	g.printf("  Expenses:Investments:Commissions  4.95 USD\n")
	g.printf("  Assets:Investments:Cash\n\n")
}

func (g *generator) sell() {
	var held []string
	for _, s := range stocks {
		if len(g.holdings[s]) > 0 {
			held = append(held, s)
		}
	}
	if len(held) == 0 {
		g.buy()
		return
	}
	g.transactions++

	stock := held[g.rnd.Intn(len(held))]
	var total int64
	for _, l := range g.holdings[stock] {
		total += l.shares
	}
	shares := 1 + g.rnd.Int63n(total)

	// Consume lots oldest first, as FIFO booking will.
	remaining := shares
	lots := g.holdings[stock]
	for remaining > 0 {
		if lots[0].shares <= remaining {
			remaining -= lots[0].shares
			lots = lots[1:]
			continue
		}
		lots[0].shares -= remaining
		remaining = 0
	}
	g.holdings[stock] = lots

	price := g.prices[stock]
	g.printf("%s * \"Sell %s\"\n", g.day(), stock)
	g.printf("  Assets:Investments:%s  -%d %s {} @ %s USD\n", stock, shares, stock, price)
	g.printf("  Assets:Investments:Cash  %s USD\n", price.Mul(decimal.NewFromInt(shares)))
	g.printf("  Income:Investments:Gains\n\n")
}

func (g *generator) dividend() {
	g.transactions++
	stock := stocks[g.rnd.Intn(len(stocks))]
	g.printf("%s * \"Dividend %s\"\n  Assets:Investments:Cash  %s USD\n  Income:Investments:Dividends\n\n", g.day(), stock, g.amount(5, 200))
}

func (g *generator) price() {
	g.priceCount++
	stock := stocks[g.rnd.Intn(len(stocks))]
	// Move the price by up to 5% either way, never below one dollar.
	change := decimal.NewFromInt(int64(g.rnd.Intn(11) - 5)).Div(decimal.NewFromInt(100))
	next := g.prices[stock].Mul(decimal.NewFromInt(1).Add(change)).Round(2)
	if next.LessThan(decimal.NewFromInt(1)) {
		next = decimal.NewFromInt(1)
	}
	g.prices[stock] = next
	g.printf("%s price %s %s USD\n\n", g.day(), stock, next)
}
