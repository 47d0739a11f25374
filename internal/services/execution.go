package services

import (
	"strconv"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"bond-trader/internal/engine"
	"bond-trader/internal/logging"
	"bond-trader/internal/models"
)

// AlgoExecutionService decides whether to aggress a book. It executes
// only when the top-of-book spread is within the configured tolerance,
// alternating the aggressed side on each order it produces.
type AlgoExecutionService struct {
	store       *engine.Store[models.ExecutionOrder]
	tolerance   decimal.Decimal
	hiddenRatio decimal.Decimal
	counter     int64
	logger      zerolog.Logger
}

// NewAlgoExecutionService creates the execution decision stage.
// tolerance is the maximum spread to aggress; hiddenRatio is the
// fraction of the crossed quantity kept hidden.
func NewAlgoExecutionService(tolerance, hiddenRatio decimal.Decimal, logger zerolog.Logger) *AlgoExecutionService {
	return &AlgoExecutionService{
		store: engine.NewStore(func(o models.ExecutionOrder) string {
			return o.OrderID
		}),
		tolerance:   tolerance,
		hiddenRatio: hiddenRatio,
		logger:      logger.With().Str("stage", "algo_execution").Logger(),
	}
}

// AddListener registers a downstream order listener.
func (s *AlgoExecutionService) AddListener(l engine.Listener[models.ExecutionOrder]) {
	s.store.AddListener(l)
}

// Evaluate inspects the book's top of book. A spread within tolerance
// produces exactly one market order; anything wider produces nothing.
// The aggressed side alternates across calls that execute: BID first,
// then OFFER, regardless of ticker.
func (s *AlgoExecutionService) Evaluate(book models.OrderBook) error {
	bestBid, okBid := book.BestBid()
	bestOffer, okOffer := book.BestOffer()
	if !okBid || !okOffer {
		return nil
	}

	spread := bestOffer.Price.Sub(bestBid.Price)
	if spread.GreaterThan(s.tolerance) {
		return nil
	}

	side := models.PricingBid
	if s.counter%2 == 1 {
		side = models.PricingOffer
	}
	s.counter++

	// Aggressing a side takes that side's price and crosses against
	// the opposite side's size.
	var price decimal.Decimal
	var quantity int64
	if side == models.PricingBid {
		price = bestBid.Price
		quantity = bestOffer.Size
	} else {
		price = bestOffer.Price
		quantity = bestBid.Size
	}

	// The crossed quantity is shown in full; the hidden quantity is an
	// additional 90% available on top of it.
	hidden := s.hiddenRatio.Mul(decimal.NewFromInt(quantity)).Floor().IntPart()
	orderID := strconv.FormatInt(s.counter, 10)

	order := models.ExecutionOrder{
		Bond:            book.Bond,
		Side:            side,
		OrderID:         orderID,
		Type:            models.OrderTypeMarket,
		Price:           price,
		VisibleQuantity: quantity,
		HiddenQuantity:  hidden,
		ParentOrderID:   orderID,
		IsChildOrder:    false,
	}

	s.logger.Debug().
		Str("ticker", order.Bond.Ticker).
		Str("order_id", order.OrderID).
		Str("side", string(order.Side)).
		Str("price", order.Price.String()).
		Msg("spread within tolerance, aggressing")

	return s.store.Publish(order)
}

// ExecutionService records executed orders and fans them out to the
// record sinks and the re-booking adapter.
type ExecutionService struct {
	store  *engine.Store[models.ExecutionOrder]
	logger zerolog.Logger
}

// NewExecutionService creates the execution recording stage.
func NewExecutionService(logger zerolog.Logger) *ExecutionService {
	return &ExecutionService{
		store: engine.NewStore(func(o models.ExecutionOrder) string {
			return o.OrderID
		}),
		logger: logger.With().Str("stage", "execution").Logger(),
	}
}

// AddListener registers a downstream order listener.
func (s *ExecutionService) AddListener(l engine.Listener[models.ExecutionOrder]) {
	s.store.AddListener(l)
}

// Order returns the last recorded execution for an order id.
func (s *ExecutionService) Order(orderID string) (models.ExecutionOrder, error) {
	return s.store.Get(orderID)
}

// ExecuteOrder stores the order and notifies listeners.
func (s *ExecutionService) ExecuteOrder(order models.ExecutionOrder) error {
	logging.LogExecution(s.logger, order.OrderID, order.Bond.Ticker,
		string(order.Side), order.Price.String())
	return s.store.Publish(order)
}

// TradeBooker receives trades converted from executions.
type TradeBooker interface {
	BookTrade(trade models.Trade) error
}

// NewTradeRebooker returns a listener that converts executed orders
// back into trades and books them, closing the execution loop into
// the position flow. An aggressed BID bought; an aggressed OFFER
// sold. Books are assigned round-robin.
func NewTradeRebooker(booker TradeBooker) engine.Listener[models.ExecutionOrder] {
	var counter int64
	return engine.OnAdd(func(order models.ExecutionOrder) error {
		side := models.SideBuy
		if order.Side == models.PricingOffer {
			side = models.SideSell
		}
		book := models.Books[counter%int64(len(models.Books))]
		counter++

		return booker.BookTrade(models.Trade{
			Bond:     order.Bond,
			TradeID:  "X" + order.OrderID,
			Price:    order.Price,
			Book:     book,
			Quantity: order.VisibleQuantity + order.HiddenQuantity,
			Side:     side,
		})
	})
}
