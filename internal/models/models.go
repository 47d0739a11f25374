// Package models provides domain models for the bond trading pipeline.
package models

// Side represents the side of a trade or inquiry.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide converts text to a Side.
func ParseSide(s string) (Side, bool) {
	switch s {
	case "BUY":
		return SideBuy, true
	case "SELL":
		return SideSell, true
	}
	return "", false
}

// PricingSide represents the side of a quoted or aggressed price.
type PricingSide string

const (
	PricingBid   PricingSide = "BID"
	PricingOffer PricingSide = "OFFER"
)

// OrderType represents the type of an execution order.
type OrderType string

const (
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
)

// InquiryState represents the lifecycle state of a client inquiry.
type InquiryState string

const (
	InquiryReceived InquiryState = "RECEIVED"
	InquiryQuoted   InquiryState = "QUOTED"
	InquiryDone     InquiryState = "DONE"
	InquiryRejected InquiryState = "REJECTED"
)

// Books is the closed set of trading books. Positions carry exactly
// these keys from construction; trades against any other book are
// rejected or dropped depending on policy.
var Books = []string{"TRSY1", "TRSY2", "TRSY3"}

// ValidBook reports whether book belongs to the closed book set.
func ValidBook(book string) bool {
	for _, b := range Books {
		if b == book {
			return true
		}
	}
	return false
}
