package store

import (
	"context"

	"bond-trader/internal/engine"
	"bond-trader/internal/models"
)

// Stage listener adapters for the journal. Registered by the run
// command when journaling is enabled.

// TradeListener journals every booked trade.
func TradeListener(j *Journal) engine.Listener[models.Trade] {
	return engine.OnAdd(func(t models.Trade) error {
		return j.LogTrade(context.Background(), t)
	})
}

// ExecutionListener journals every executed order.
func ExecutionListener(j *Journal) engine.Listener[models.ExecutionOrder] {
	return engine.OnAdd(func(o models.ExecutionOrder) error {
		return j.LogExecution(context.Background(), o)
	})
}

// InquiryListener journals every inquiry transition.
func InquiryListener(j *Journal) engine.Listener[models.Inquiry] {
	return engine.OnAdd(func(i models.Inquiry) error {
		return j.LogInquiry(context.Background(), i)
	})
}
