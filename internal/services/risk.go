package services

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"bond-trader/internal/engine"
	"bond-trader/internal/models"
)

// RiskService derives a fresh PV01 from every position update. The
// per-unit sensitivity is a configured constant applied uniformly
// across the catalog.
type RiskService struct {
	store       *engine.Store[models.PV01]
	sensitivity decimal.Decimal
	logger      zerolog.Logger
}

// NewRiskService creates a risk stage with the given per-unit PV01
// sensitivity.
func NewRiskService(sensitivity decimal.Decimal, logger zerolog.Logger) *RiskService {
	return &RiskService{
		store: engine.NewStore(func(r models.PV01) string {
			return r.Bond.Ticker
		}),
		sensitivity: sensitivity,
		logger:      logger.With().Str("stage", "risk").Logger(),
	}
}

// AddListener registers a downstream risk listener.
func (s *RiskService) AddListener(l engine.Listener[models.PV01]) {
	s.store.AddListener(l)
}

// Risk returns the last published PV01 for a ticker.
func (s *RiskService) Risk(ticker string) (models.PV01, error) {
	return s.store.Get(ticker)
}

// ApplyPosition builds a new PV01 for the position's aggregate
// quantity and notifies. Earlier PV01 values are never mutated.
func (s *RiskService) ApplyPosition(position models.Position) error {
	risk := models.PV01{
		Bond:        position.Bond,
		Sensitivity: s.sensitivity,
		Quantity:    position.Aggregate(),
	}

	s.logger.Debug().
		Str("ticker", risk.Bond.Ticker).
		Str("total", risk.Total().String()).
		Msg("risk recomputed")

	return s.store.Publish(risk)
}

// BucketedRisk would aggregate PV01 across a sector's bonds. The
// aggregation rule is not defined; callers get ErrUnsupported until
// it is.
func (s *RiskService) BucketedRisk(sector models.BucketedSector) (models.PV01, error) {
	return models.PV01{}, ErrUnsupported
}
