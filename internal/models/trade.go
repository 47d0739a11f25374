package models

import "github.com/shopspring/decimal"

// Trade represents a booked bond trade. Immutable once created.
type Trade struct {
	Bond     Bond
	TradeID  string
	Price    decimal.Decimal
	Book     string
	Quantity int64
	Side     Side
}
