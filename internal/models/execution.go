package models

import "github.com/shopspring/decimal"

// ExecutionOrder is an order produced by the execution stage. Orders
// carry a visible and a hidden quantity; only the visible part would
// show on a venue.
type ExecutionOrder struct {
	Bond            Bond
	Side            PricingSide
	OrderID         string
	Type            OrderType
	Price           decimal.Decimal
	VisibleQuantity int64
	HiddenQuantity  int64
	ParentOrderID   string
	IsChildOrder    bool
}
