package services

import (
	"github.com/rs/zerolog"

	"bond-trader/internal/engine"
	"bond-trader/internal/models"
)

// MarketDataService records the latest order book per ticker and
// fans book updates out to the execution flow.
type MarketDataService struct {
	store  *engine.Store[models.OrderBook]
	logger zerolog.Logger
}

// NewMarketDataService creates the market data stage.
func NewMarketDataService(logger zerolog.Logger) *MarketDataService {
	return &MarketDataService{
		store: engine.NewStore(func(b models.OrderBook) string {
			return b.Bond.Ticker
		}),
		logger: logger.With().Str("stage", "marketdata").Logger(),
	}
}

// AddListener registers a downstream order book listener.
func (s *MarketDataService) AddListener(l engine.Listener[models.OrderBook]) {
	s.store.AddListener(l)
}

// Book returns the last published order book for a ticker.
func (s *MarketDataService) Book(ticker string) (models.OrderBook, error) {
	return s.store.Get(ticker)
}

// BestBidOffer returns the top of the last published book. The second
// return is false when the ticker has no book or either side is empty.
func (s *MarketDataService) BestBidOffer(ticker string) (bid, offer models.BookLevel, ok bool) {
	book, err := s.store.Get(ticker)
	if err != nil {
		return models.BookLevel{}, models.BookLevel{}, false
	}
	bestBid, okBid := book.BestBid()
	bestOffer, okOffer := book.BestOffer()
	if !okBid || !okOffer {
		return models.BookLevel{}, models.BookLevel{}, false
	}
	return bestBid, bestOffer, true
}

// ProcessBook stores the book snapshot and notifies listeners.
func (s *MarketDataService) ProcessBook(book models.OrderBook) error {
	return s.store.Publish(book)
}
