package services

import (
	"fmt"

	"github.com/rs/zerolog"

	"bond-trader/internal/engine"
	"bond-trader/internal/logging"
	"bond-trader/internal/models"
)

// BookingService records incoming trades and fans them out to the
// position flow. Trades are keyed by trade id; re-booking the same id
// overwrites.
type BookingService struct {
	store  *engine.Store[models.Trade]
	logger zerolog.Logger
}

// NewBookingService creates a booking stage.
func NewBookingService(logger zerolog.Logger) *BookingService {
	return &BookingService{
		store: engine.NewStore(func(t models.Trade) string {
			return t.TradeID
		}),
		logger: logger.With().Str("stage", "booking").Logger(),
	}
}

// AddListener registers a downstream trade listener.
func (s *BookingService) AddListener(l engine.Listener[models.Trade]) {
	s.store.AddListener(l)
}

// Trade returns the last booked trade for an id.
func (s *BookingService) Trade(tradeID string) (models.Trade, error) {
	return s.store.Get(tradeID)
}

// BookTrade validates the trade against the catalog, stores it and
// notifies listeners.
func (s *BookingService) BookTrade(trade models.Trade) error {
	if _, ok := models.LookupBond(trade.Bond.Ticker); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownInstrument, trade.Bond.Ticker)
	}

	logging.LogTrade(s.logger, trade.TradeID, trade.Bond.Ticker,
		trade.Book, string(trade.Side), trade.Quantity)

	return s.store.Publish(trade)
}
