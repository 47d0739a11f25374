package models

import "github.com/shopspring/decimal"

var two = decimal.NewFromInt(2)

// Quote is an internal price: a mid and a bid-offer spread around it.
type Quote struct {
	Bond   Bond
	Mid    decimal.Decimal
	Spread decimal.Decimal
}

// Bid returns mid minus half the spread.
func (q Quote) Bid() decimal.Decimal {
	return q.Mid.Sub(q.Spread.Div(two))
}

// Offer returns mid plus half the spread.
func (q Quote) Offer() decimal.Decimal {
	return q.Mid.Add(q.Spread.Div(two))
}

// StreamLeg is one side of a streamed two-way quote.
type StreamLeg struct {
	Side            PricingSide
	Price           decimal.Decimal
	VisibleQuantity int64
	HiddenQuantity  int64
}

// PriceStream is a streamed two-sided quote: exactly one bid leg and
// one offer leg.
type PriceStream struct {
	Bond  Bond
	Bid   StreamLeg
	Offer StreamLeg
}
