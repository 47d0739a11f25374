package connectors

import (
	"time"

	"bond-trader/internal/models"
	"bond-trader/pkg/fractional"
)

// Egress records, one struct per stage output file. Timestamps are
// epoch milliseconds.

// PositionRecord is a position snapshot row.
type PositionRecord struct {
	Timestamp int64  `csv:"timestamp_ms"`
	Ticker    string `csv:"ticker"`
	TRSY1     int64  `csv:"trsy1"`
	TRSY2     int64  `csv:"trsy2"`
	TRSY3     int64  `csv:"trsy3"`
	Aggregate int64  `csv:"aggregate"`
}

// RiskRecord is a PV01 row.
type RiskRecord struct {
	Timestamp int64  `csv:"timestamp_ms"`
	Ticker    string `csv:"ticker"`
	Total     string `csv:"total_risk"`
}

// GUIRecord is a throttled display quote row.
type GUIRecord struct {
	Timestamp int64  `csv:"timestamp_ms"`
	Ticker    string `csv:"ticker"`
	Mid       string `csv:"mid"`
	Spread    string `csv:"spread"`
}

// StreamRecord is a published two-way stream row.
type StreamRecord struct {
	Timestamp int64  `csv:"timestamp_ms"`
	Ticker    string `csv:"ticker"`
	Bid       string `csv:"bid"`
	Offer     string `csv:"offer"`
}

// ExecutionRecord is an executed order row.
type ExecutionRecord struct {
	Timestamp int64  `csv:"timestamp_ms"`
	Ticker    string `csv:"ticker"`
	OrderID   string `csv:"order_id"`
	Type      string `csv:"type"`
	Side      string `csv:"side"`
	Price     string `csv:"price"`
	Visible   int64  `csv:"visible_qty"`
	Hidden    int64  `csv:"hidden_qty"`
}

// InquiryRecord is an inquiry transition row.
type InquiryRecord struct {
	Timestamp int64  `csv:"timestamp_ms"`
	InquiryID string `csv:"inquiry_id"`
	Ticker    string `csv:"ticker"`
	Side      string `csv:"side"`
	Price     string `csv:"price"`
	State     string `csv:"state"`
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// NewPositionRecord builds the record for a position snapshot.
func NewPositionRecord(p models.Position) PositionRecord {
	return PositionRecord{
		Timestamp: nowMillis(),
		Ticker:    p.Bond.Ticker,
		TRSY1:     p.Quantity("TRSY1"),
		TRSY2:     p.Quantity("TRSY2"),
		TRSY3:     p.Quantity("TRSY3"),
		Aggregate: p.Aggregate(),
	}
}

// NewRiskRecord builds the record for a PV01 update.
func NewRiskRecord(r models.PV01) RiskRecord {
	return RiskRecord{
		Timestamp: nowMillis(),
		Ticker:    r.Bond.Ticker,
		Total:     r.Total().String(),
	}
}

// NewGUIRecord builds the record for a displayed quote.
func NewGUIRecord(q models.Quote) GUIRecord {
	return GUIRecord{
		Timestamp: nowMillis(),
		Ticker:    q.Bond.Ticker,
		Mid:       q.Mid.String(),
		Spread:    q.Spread.String(),
	}
}

// NewStreamRecord builds the record for a published stream. Prices go
// out in fractional text, the format counterparties read.
func NewStreamRecord(s models.PriceStream) StreamRecord {
	return StreamRecord{
		Timestamp: nowMillis(),
		Ticker:    s.Bond.Ticker,
		Bid:       fractional.Encode(s.Bid.Price),
		Offer:     fractional.Encode(s.Offer.Price),
	}
}

// NewExecutionRecord builds the record for an executed order.
func NewExecutionRecord(o models.ExecutionOrder) ExecutionRecord {
	return ExecutionRecord{
		Timestamp: nowMillis(),
		Ticker:    o.Bond.Ticker,
		OrderID:   o.OrderID,
		Type:      string(o.Type),
		Side:      string(o.Side),
		Price:     fractional.Encode(o.Price),
		Visible:   o.VisibleQuantity,
		Hidden:    o.HiddenQuantity,
	}
}

// NewInquiryRecord builds the record for an inquiry transition.
func NewInquiryRecord(i models.Inquiry) InquiryRecord {
	return InquiryRecord{
		Timestamp: nowMillis(),
		InquiryID: i.InquiryID,
		Ticker:    i.Bond.Ticker,
		Side:      string(i.Side),
		Price:     i.Price.String(),
		State:     string(i.State),
	}
}
