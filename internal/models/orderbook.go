package models

import "github.com/shopspring/decimal"

// BookLevel is one price level on one side of an order book.
type BookLevel struct {
	Price decimal.Decimal
	Size  int64
	Side  PricingSide
}

// OrderBook is a market-depth snapshot: bid and offer stacks ordered
// best-first (level 0 is top of book).
type OrderBook struct {
	Bond   Bond
	Bids   []BookLevel
	Offers []BookLevel
}

// BestBid returns the top bid level. The second return is false when
// the bid stack is empty.
func (b OrderBook) BestBid() (BookLevel, bool) {
	if len(b.Bids) == 0 {
		return BookLevel{}, false
	}
	return b.Bids[0], true
}

// BestOffer returns the top offer level. The second return is false
// when the offer stack is empty.
func (b OrderBook) BestOffer() (BookLevel, bool) {
	if len(b.Offers) == 0 {
		return BookLevel{}, false
	}
	return b.Offers[0], true
}
