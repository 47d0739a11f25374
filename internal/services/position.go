package services

import (
	"fmt"

	"github.com/rs/zerolog"

	"bond-trader/internal/engine"
	"bond-trader/internal/logging"
	"bond-trader/internal/models"
)

// PositionService maintains per-bond book positions and notifies
// downstream stages with an independent copy on every update.
type PositionService struct {
	store       *engine.Store[models.Position]
	positions   map[string]models.Position
	strictBooks bool
	logger      zerolog.Logger
}

// NewPositionService creates a position stage with a flat position
// pre-created for every catalog bond. With strictBooks, a trade
// against an unknown book is an error; otherwise it is logged and
// dropped.
func NewPositionService(strictBooks bool, logger zerolog.Logger) *PositionService {
	positions := make(map[string]models.Position)
	for _, ticker := range models.Tickers() {
		bond, _ := models.LookupBond(ticker)
		positions[ticker] = models.NewPosition(bond)
	}
	return &PositionService{
		store: engine.NewStore(func(p models.Position) string {
			return p.Bond.Ticker
		}),
		positions:   positions,
		strictBooks: strictBooks,
		logger:      logger.With().Str("stage", "position").Logger(),
	}
}

// AddListener registers a downstream position listener.
func (s *PositionService) AddListener(l engine.Listener[models.Position]) {
	s.store.AddListener(l)
}

// Position returns the last published position for a ticker.
func (s *PositionService) Position(ticker string) (models.Position, error) {
	return s.store.Get(ticker)
}

// ApplyTrade folds one trade into the bond's position and notifies
// with a clone, so listeners never share the live position.
func (s *PositionService) ApplyTrade(trade models.Trade) error {
	pos, ok := s.positions[trade.Bond.Ticker]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownInstrument, trade.Bond.Ticker)
	}

	if !models.ValidBook(trade.Book) {
		if s.strictBooks {
			return fmt.Errorf("%w: %q", ErrUnknownBook, trade.Book)
		}
		s.logger.Warn().
			Str("trade_id", trade.TradeID).
			Str("book", trade.Book).
			Msg("trade against unknown book dropped")
		return nil
	}

	pos.Update(trade.Book, trade.Quantity, trade.Side)

	tickerLogger := logging.WithTicker(s.logger, trade.Bond.Ticker)
	tickerLogger.Debug().
		Int64("aggregate", pos.Aggregate()).
		Msg("position updated")

	return s.store.Publish(pos.Clone())
}
