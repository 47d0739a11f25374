package models

import "github.com/shopspring/decimal"

// Inquiry is a client request for a quote on a bond. State moves
// RECEIVED -> QUOTED -> DONE, or RECEIVED -> REJECTED.
type Inquiry struct {
	InquiryID string
	Bond      Bond
	Side      Side
	Quantity  int64
	Price     decimal.Decimal
	State     InquiryState
}
