package services

import (
	"github.com/rs/zerolog"

	"bond-trader/internal/engine"
	"bond-trader/internal/models"
)

// AlgoStreamingService turns internal quotes into two-sided price
// streams with fixed visible and hidden sizes. Every quote produces a
// stream; there is no gating.
type AlgoStreamingService struct {
	store      *engine.Store[models.PriceStream]
	visibleQty int64
	hiddenQty  int64
	logger     zerolog.Logger
}

// NewAlgoStreamingService creates the stream construction stage.
func NewAlgoStreamingService(visibleQty, hiddenQty int64, logger zerolog.Logger) *AlgoStreamingService {
	return &AlgoStreamingService{
		store: engine.NewStore(func(p models.PriceStream) string {
			return p.Bond.Ticker
		}),
		visibleQty: visibleQty,
		hiddenQty:  hiddenQty,
		logger:     logger.With().Str("stage", "algo_streaming").Logger(),
	}
}

// AddListener registers a downstream stream listener.
func (s *AlgoStreamingService) AddListener(l engine.Listener[models.PriceStream]) {
	s.store.AddListener(l)
}

// OnQuote builds a stream around the quote's mid and notifies. Both
// legs carry the configured sizes.
func (s *AlgoStreamingService) OnQuote(quote models.Quote) error {
	stream := models.PriceStream{
		Bond: quote.Bond,
		Bid: models.StreamLeg{
			Side:            models.PricingBid,
			Price:           quote.Bid(),
			VisibleQuantity: s.visibleQty,
			HiddenQuantity:  s.hiddenQty,
		},
		Offer: models.StreamLeg{
			Side:            models.PricingOffer,
			Price:           quote.Offer(),
			VisibleQuantity: s.visibleQty,
			HiddenQuantity:  s.hiddenQty,
		},
	}
	return s.store.Publish(stream)
}

// StreamingService records the latest published stream per ticker,
// the snapshot surface for downstream consumers.
type StreamingService struct {
	store  *engine.Store[models.PriceStream]
	logger zerolog.Logger
}

// NewStreamingService creates the stream recording stage.
func NewStreamingService(logger zerolog.Logger) *StreamingService {
	return &StreamingService{
		store: engine.NewStore(func(p models.PriceStream) string {
			return p.Bond.Ticker
		}),
		logger: logger.With().Str("stage", "streaming").Logger(),
	}
}

// AddListener registers a downstream stream listener.
func (s *StreamingService) AddListener(l engine.Listener[models.PriceStream]) {
	s.store.AddListener(l)
}

// Stream returns the last published stream for a ticker.
func (s *StreamingService) Stream(ticker string) (models.PriceStream, error) {
	return s.store.Get(ticker)
}

// PublishStream stores the stream and notifies listeners.
func (s *StreamingService) PublishStream(stream models.PriceStream) error {
	return s.store.Publish(stream)
}
