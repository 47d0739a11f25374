package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bond represents a fixed-coupon treasury bond.
type Bond struct {
	Ticker   string
	CUSIP    string
	Coupon   decimal.Decimal
	Maturity time.Time
}

// catalog is the static set of seven on-the-run issues the pipeline
// trades. Built once; never mutated after process start.
var catalog = func() map[string]Bond {
	bonds := []Bond{
		newBond("B02y", "0.02", 2026),
		newBond("B03y", "0.025", 2027),
		newBond("B05y", "0.03", 2029),
		newBond("B07y", "0.035", 2031),
		newBond("B10y", "0.04", 2034),
		newBond("B20y", "0.045", 2044),
		newBond("B30y", "0.05", 2054),
	}
	m := make(map[string]Bond, len(bonds))
	for _, b := range bonds {
		m[b.Ticker] = b
	}
	return m
}()

func newBond(ticker, coupon string, maturityYear int) Bond {
	return Bond{
		Ticker:   ticker,
		CUSIP:    ticker,
		Coupon:   decimal.RequireFromString(coupon),
		Maturity: time.Date(maturityYear, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// LookupBond returns the catalog entry for a ticker.
func LookupBond(ticker string) (Bond, bool) {
	b, ok := catalog[ticker]
	return b, ok
}

// Tickers returns the catalog tickers in maturity order.
func Tickers() []string {
	return []string{"B02y", "B03y", "B05y", "B07y", "B10y", "B20y", "B30y"}
}
