// Package generator writes synthetic input files: trades, prices,
// market depth and inquiries in the formats the feeds read.
package generator

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"bond-trader/internal/connectors"
	"bond-trader/internal/models"
)

// Generator produces pseudo-random but well-formed input rows. A
// fixed seed reproduces the same files.
type Generator struct {
	rng *rand.Rand
}

// New creates a generator seeded with seed.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// fractionalPrice renders a random price near par in the
// "<whole>-<frac>[+]" grammar. Roughly 30% of prices carry the
// half-tick '+'.
func (g *Generator) fractionalPrice() string {
	whole := 99 + g.rng.Intn(2)
	frac := g.rng.Intn(32)
	s := fmt.Sprintf("%d-%02d", whole, frac)
	if g.rng.Float64() < 0.3 {
		s += "+"
	}
	return s
}

// tickUp moves a fractional price text up by n half-ticks, rendered
// back into the grammar.
func tickUp(price string, n int) string {
	plus := false
	if price[len(price)-1] == '+' {
		plus = true
		price = price[:len(price)-1]
	}
	var whole, frac int
	fmt.Sscanf(price, "%d-%d", &whole, &frac)

	ticks := whole*64 + frac*2
	if plus {
		ticks++
	}
	ticks += n

	whole = ticks / 64
	rem := ticks % 64
	s := fmt.Sprintf("%d-%02d", whole, rem/2)
	if rem%2 == 1 {
		s += "+"
	}
	return s
}

func writeRows[R any](path string, rows []R) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.Marshal(&rows, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Trades writes count trade rows per catalog bond.
func (g *Generator) Trades(dir string, count int) error {
	var rows []connectors.TradeRow
	n := 0
	for _, ticker := range models.Tickers() {
		for i := 0; i < count; i++ {
			n++
			side := "BUY"
			if n%2 == 0 {
				side = "SELL"
			}
			rows = append(rows, connectors.TradeRow{
				Ticker:   ticker,
				TradeID:  fmt.Sprintf("T%06d", n),
				Book:     models.Books[g.rng.Intn(len(models.Books))],
				Quantity: fmt.Sprintf("%d", (1+g.rng.Intn(5))*1000000),
				Price:    g.fractionalPrice(),
				Side:     side,
			})
		}
	}
	return writeRows(filepath.Join(dir, "trades.csv"), rows)
}

// Prices writes count price rows per catalog bond, ask always above
// bid by at least a half-tick.
func (g *Generator) Prices(dir string, count int) error {
	var rows []connectors.PriceRow
	for _, ticker := range models.Tickers() {
		for i := 0; i < count; i++ {
			bid := g.fractionalPrice()
			rows = append(rows, connectors.PriceRow{
				Ticker: ticker,
				Bid:    bid,
				Ask:    tickUp(bid, 1+g.rng.Intn(8)),
			})
		}
	}
	return writeRows(filepath.Join(dir, "prices.csv"), rows)
}

// MarketData writes count depth rows per catalog bond. Each row has
// five levels per side, one half-tick apart; about a fifth of the
// books are tight (half-tick top-of-book spread) so the execution
// flow has something to aggress.
func (g *Generator) MarketData(dir string, count int) error {
	var rows []connectors.MarketDataRow
	for _, ticker := range models.Tickers() {
		for i := 0; i < count; i++ {
			bestBid := g.fractionalPrice()
			topSpread := 2 // one full tick
			if g.rng.Float64() < 0.2 {
				topSpread = 1
			}
			row := connectors.MarketDataRow{Ticker: ticker}
			bids := []*string{&row.Bid1, &row.Bid2, &row.Bid3, &row.Bid4, &row.Bid5}
			asks := []*string{&row.Ask1, &row.Ask2, &row.Ask3, &row.Ask4, &row.Ask5}
			for level := 0; level < 5; level++ {
				*bids[level] = tickUp(bestBid, -2*level)
				*asks[level] = tickUp(bestBid, topSpread+2*level)
			}
			rows = append(rows, row)
		}
	}
	return writeRows(filepath.Join(dir, "marketdata.csv"), rows)
}

// Inquiries writes count inquiry rows per catalog bond.
func (g *Generator) Inquiries(dir string, count int) error {
	var rows []connectors.InquiryRow
	n := 0
	for _, ticker := range models.Tickers() {
		for i := 0; i < count; i++ {
			n++
			side := "BUY"
			if g.rng.Intn(2) == 1 {
				side = "SELL"
			}
			rows = append(rows, connectors.InquiryRow{
				InquiryID: fmt.Sprintf("I%06d", n),
				Ticker:    ticker,
				Side:      side,
				Quantity:  fmt.Sprintf("%d", (1+g.rng.Intn(5))*1000000),
			})
		}
	}
	return writeRows(filepath.Join(dir, "inquiries.csv"), rows)
}

// All writes every input file into dir.
func (g *Generator) All(dir string, count int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	if err := g.Trades(dir, count); err != nil {
		return err
	}
	if err := g.Prices(dir, count); err != nil {
		return err
	}
	if err := g.MarketData(dir, count); err != nil {
		return err
	}
	return g.Inquiries(dir, count)
}
