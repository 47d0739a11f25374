package services

import (
	"time"

	"github.com/rs/zerolog"

	"bond-trader/internal/engine"
	"bond-trader/internal/models"
)

// PricingService records the latest internal quote per ticker and
// fans it out to the throttled display flow and the streaming flow.
type PricingService struct {
	store  *engine.Store[models.Quote]
	logger zerolog.Logger
}

// NewPricingService creates a pricing stage.
func NewPricingService(logger zerolog.Logger) *PricingService {
	return &PricingService{
		store: engine.NewStore(func(q models.Quote) string {
			return q.Bond.Ticker
		}),
		logger: logger.With().Str("stage", "pricing").Logger(),
	}
}

// AddListener registers a downstream quote listener.
func (s *PricingService) AddListener(l engine.Listener[models.Quote]) {
	s.store.AddListener(l)
}

// Quote returns the last published quote for a ticker.
func (s *PricingService) Quote(ticker string) (models.Quote, error) {
	return s.store.Get(ticker)
}

// PublishQuote stores the quote and notifies listeners.
func (s *PricingService) PublishQuote(quote models.Quote) error {
	return s.store.Publish(quote)
}

// QuotePublisher receives quotes that pass the throttle.
type QuotePublisher interface {
	PublishQuote(quote models.Quote) error
}

// QuoteThrottle forwards at most one quote per interval to its sink
// and drops the rest. The gate is global across tickers, and the
// first quote always passes.
type QuoteThrottle struct {
	interval time.Duration
	sink     QuotePublisher
	now      func() time.Time
	last     time.Time
	dropped  uint64
	logger   zerolog.Logger
}

// NewQuoteThrottle creates a throttle in front of sink.
func NewQuoteThrottle(interval time.Duration, sink QuotePublisher, logger zerolog.Logger) *QuoteThrottle {
	return &QuoteThrottle{
		interval: interval,
		sink:     sink,
		now:      time.Now,
		logger:   logger.With().Str("stage", "throttle").Logger(),
	}
}

// SetClock replaces the throttle's clock. Test hook.
func (t *QuoteThrottle) SetClock(now func() time.Time) {
	t.now = now
}

// Dropped returns the number of quotes dropped so far.
func (t *QuoteThrottle) Dropped() uint64 {
	return t.dropped
}

// OnAdd implements engine.Listener.
func (t *QuoteThrottle) OnAdd(quote models.Quote) error { return t.pass(quote) }

// OnUpdate implements engine.Listener.
func (t *QuoteThrottle) OnUpdate(quote models.Quote) error { return t.pass(quote) }

// OnRemove implements engine.Listener.
func (t *QuoteThrottle) OnRemove(models.Quote) error { return nil }

func (t *QuoteThrottle) pass(quote models.Quote) error {
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		t.dropped++
		return nil
	}
	t.last = now
	return t.sink.PublishQuote(quote)
}
