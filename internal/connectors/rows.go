// Package connectors adapts delimited-text files to and from the
// pipeline stages: ingest feeds that parse input rows, and append-only
// record sinks that write one file per stage.
package connectors

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"bond-trader/internal/models"
	"bond-trader/pkg/fractional"
)

// Ingest rows carry raw text so one malformed field skips that row
// instead of aborting the whole file.

// TradeRow is one line of a trades input file.
type TradeRow struct {
	Ticker   string `csv:"ticker"`
	TradeID  string `csv:"trade_id"`
	Book     string `csv:"book"`
	Quantity string `csv:"quantity"`
	Price    string `csv:"price"`
	Side     string `csv:"side"`
}

// Trade converts the row to a domain trade.
func (r TradeRow) Trade() (models.Trade, error) {
	bond, ok := models.LookupBond(r.Ticker)
	if !ok {
		return models.Trade{}, fmt.Errorf("unknown ticker %q", r.Ticker)
	}
	qty, err := strconv.ParseInt(r.Quantity, 10, 64)
	if err != nil || qty <= 0 {
		return models.Trade{}, fmt.Errorf("bad quantity %q", r.Quantity)
	}
	price, err := fractional.Decode(r.Price)
	if err != nil {
		return models.Trade{}, err
	}
	side, ok := models.ParseSide(r.Side)
	if !ok {
		return models.Trade{}, fmt.Errorf("bad side %q", r.Side)
	}
	return models.Trade{
		Bond:     bond,
		TradeID:  r.TradeID,
		Price:    price,
		Book:     r.Book,
		Quantity: qty,
		Side:     side,
	}, nil
}

// PriceRow is one line of a prices input file.
type PriceRow struct {
	Ticker string `csv:"ticker"`
	Bid    string `csv:"bid"`
	Ask    string `csv:"ask"`
}

// Quote converts the row to an internal quote: mid is the midpoint,
// spread is ask minus bid.
func (r PriceRow) Quote() (models.Quote, error) {
	bond, ok := models.LookupBond(r.Ticker)
	if !ok {
		return models.Quote{}, fmt.Errorf("unknown ticker %q", r.Ticker)
	}
	bid, err := fractional.Decode(r.Bid)
	if err != nil {
		return models.Quote{}, err
	}
	ask, err := fractional.Decode(r.Ask)
	if err != nil {
		return models.Quote{}, err
	}
	if !ask.GreaterThan(bid) {
		return models.Quote{}, fmt.Errorf("ask %s not above bid %s", r.Ask, r.Bid)
	}
	return models.Quote{
		Bond:   bond,
		Mid:    bid.Add(ask).Div(decimal.NewFromInt(2)),
		Spread: ask.Sub(bid),
	}, nil
}

// MarketDataRow is one line of a market depth input file: five bid
// and five ask prices, best first. Level sizes are implied: one
// million lots at the top, growing by a million per level down.
type MarketDataRow struct {
	Ticker string `csv:"ticker"`
	Bid1   string `csv:"bid1"`
	Bid2   string `csv:"bid2"`
	Bid3   string `csv:"bid3"`
	Bid4   string `csv:"bid4"`
	Bid5   string `csv:"bid5"`
	Ask1   string `csv:"ask1"`
	Ask2   string `csv:"ask2"`
	Ask3   string `csv:"ask3"`
	Ask4   string `csv:"ask4"`
	Ask5   string `csv:"ask5"`
}

// LevelSize returns the implied size of a depth level (0 = top).
func LevelSize(level int) int64 {
	return 1000000 * int64(level+1)
}

// OrderBook converts the row to a five-level book snapshot.
func (r MarketDataRow) OrderBook() (models.OrderBook, error) {
	bond, ok := models.LookupBond(r.Ticker)
	if !ok {
		return models.OrderBook{}, fmt.Errorf("unknown ticker %q", r.Ticker)
	}

	bidTexts := []string{r.Bid1, r.Bid2, r.Bid3, r.Bid4, r.Bid5}
	askTexts := []string{r.Ask1, r.Ask2, r.Ask3, r.Ask4, r.Ask5}

	book := models.OrderBook{Bond: bond}
	for i := range bidTexts {
		bid, err := fractional.Decode(bidTexts[i])
		if err != nil {
			return models.OrderBook{}, err
		}
		ask, err := fractional.Decode(askTexts[i])
		if err != nil {
			return models.OrderBook{}, err
		}
		book.Bids = append(book.Bids, models.BookLevel{
			Price: bid, Size: LevelSize(i), Side: models.PricingBid,
		})
		book.Offers = append(book.Offers, models.BookLevel{
			Price: ask, Size: LevelSize(i), Side: models.PricingOffer,
		})
	}
	return book, nil
}

// InquiryRow is one line of an inquiries input file.
type InquiryRow struct {
	InquiryID string `csv:"inquiry_id"`
	Ticker    string `csv:"ticker"`
	Side      string `csv:"side"`
	Quantity  string `csv:"quantity"`
}

// Inquiry converts the row to a RECEIVED-state inquiry.
func (r InquiryRow) Inquiry() (models.Inquiry, error) {
	bond, ok := models.LookupBond(r.Ticker)
	if !ok {
		return models.Inquiry{}, fmt.Errorf("unknown ticker %q", r.Ticker)
	}
	side, ok := models.ParseSide(r.Side)
	if !ok {
		return models.Inquiry{}, fmt.Errorf("bad side %q", r.Side)
	}
	qty, err := strconv.ParseInt(r.Quantity, 10, 64)
	if err != nil || qty <= 0 {
		return models.Inquiry{}, fmt.Errorf("bad quantity %q", r.Quantity)
	}
	return models.Inquiry{
		InquiryID: r.InquiryID,
		Bond:      bond,
		Side:      side,
		Quantity:  qty,
		State:     models.InquiryReceived,
	}, nil
}
