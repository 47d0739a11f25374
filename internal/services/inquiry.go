package services

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"bond-trader/internal/engine"
	"bond-trader/internal/logging"
	"bond-trader/internal/models"
)

// InquiryService tracks client inquiries by id and notifies on every
// state transition. Transitions re-enter the stage as fresh events,
// so listeners see each state in order.
type InquiryService struct {
	store  *engine.Store[models.Inquiry]
	logger zerolog.Logger
}

// NewInquiryService creates the inquiry stage.
func NewInquiryService(logger zerolog.Logger) *InquiryService {
	return &InquiryService{
		store: engine.NewStore(func(i models.Inquiry) string {
			return i.InquiryID
		}),
		logger: logger.With().Str("stage", "inquiry").Logger(),
	}
}

// AddListener registers a downstream inquiry listener. Registration
// order matters: a listener registered before the quoting adapter
// sees RECEIVED before the cascade advances the state.
func (s *InquiryService) AddListener(l engine.Listener[models.Inquiry]) {
	s.store.AddListener(l)
}

// Inquiry returns the last recorded state for an inquiry id.
func (s *InquiryService) Inquiry(inquiryID string) (models.Inquiry, error) {
	return s.store.Get(inquiryID)
}

// OnInquiry validates the inquiry against the catalog, records it and
// notifies listeners.
func (s *InquiryService) OnInquiry(inquiry models.Inquiry) error {
	if _, ok := models.LookupBond(inquiry.Bond.Ticker); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownInstrument, inquiry.Bond.Ticker)
	}
	logging.LogInquiry(s.logger, inquiry.InquiryID, inquiry.Bond.Ticker,
		string(inquiry.State))
	return s.store.Publish(inquiry)
}

// Reject moves an inquiry to REJECTED and notifies. Terminal.
func (s *InquiryService) Reject(inquiryID string) error {
	inquiry, err := s.store.Get(inquiryID)
	if err != nil {
		return err
	}
	inquiry.State = models.InquiryRejected
	return s.store.Publish(inquiry)
}

// NewInquiryQuoter returns a listener that drives the happy path:
// an inquiry arriving RECEIVED gets the quote price and re-enters as
// QUOTED, then immediately completes as DONE. Each transition is a
// separate publish, so earlier-registered listeners observe all
// three states.
func NewInquiryQuoter(svc *InquiryService, quotePrice decimal.Decimal) engine.Listener[models.Inquiry] {
	return engine.OnAdd(func(inquiry models.Inquiry) error {
		switch inquiry.State {
		case models.InquiryReceived:
			inquiry.Price = quotePrice
			inquiry.State = models.InquiryQuoted
			return svc.OnInquiry(inquiry)
		case models.InquiryQuoted:
			inquiry.State = models.InquiryDone
			return svc.OnInquiry(inquiry)
		}
		return nil
	})
}
