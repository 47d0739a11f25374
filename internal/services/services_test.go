package services

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"bond-trader/internal/engine"
	"bond-trader/internal/models"
)

func mustBond(t *testing.T, ticker string) models.Bond {
	t.Helper()
	bond, ok := models.LookupBond(ticker)
	if !ok {
		t.Fatalf("catalog has no %q", ticker)
	}
	return bond
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func TestBookTradeUnknownInstrument(t *testing.T) {
	svc := NewBookingService(zerolog.Nop())
	err := svc.BookTrade(models.Trade{
		Bond:    models.Bond{Ticker: "B99y"},
		TradeID: "T1",
	})
	if !errors.Is(err, ErrUnknownInstrument) {
		t.Fatalf("want ErrUnknownInstrument, got %v", err)
	}
}

func TestBookTradeNotifiesAndStores(t *testing.T) {
	svc := NewBookingService(zerolog.Nop())

	var seen []string
	svc.AddListener(engine.OnAdd(func(tr models.Trade) error {
		seen = append(seen, tr.TradeID)
		return nil
	}))

	trade := models.Trade{
		Bond:     mustBond(t, "B10y"),
		TradeID:  "T1",
		Price:    dec(t, "99.5"),
		Book:     "TRSY1",
		Quantity: 1000000,
		Side:     models.SideBuy,
	}
	if err := svc.BookTrade(trade); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 1 || seen[0] != "T1" {
		t.Fatalf("listener saw %v", seen)
	}
	if _, err := svc.Trade("T1"); err != nil {
		t.Fatal(err)
	}
}

func TestApplyTradeUnknownBookDefaultDrops(t *testing.T) {
	svc := NewPositionService(false, zerolog.Nop())

	var notified int
	svc.AddListener(engine.OnAdd(func(models.Position) error {
		notified++
		return nil
	}))

	err := svc.ApplyTrade(models.Trade{
		Bond:     mustBond(t, "B02y"),
		TradeID:  "T1",
		Book:     "TRSY9",
		Quantity: 500,
		Side:     models.SideBuy,
	})
	if err != nil {
		t.Fatalf("default policy should drop, got %v", err)
	}
	if notified != 0 {
		t.Fatalf("dropped trade still notified %d listeners", notified)
	}
}

func TestApplyTradeUnknownBookStrictErrors(t *testing.T) {
	svc := NewPositionService(true, zerolog.Nop())
	err := svc.ApplyTrade(models.Trade{
		Bond:     mustBond(t, "B02y"),
		TradeID:  "T1",
		Book:     "TRSY9",
		Quantity: 500,
		Side:     models.SideBuy,
	})
	if !errors.Is(err, ErrUnknownBook) {
		t.Fatalf("want ErrUnknownBook, got %v", err)
	}
}

func TestApplyTradeNotifiesClone(t *testing.T) {
	svc := NewPositionService(false, zerolog.Nop())

	var captured models.Position
	svc.AddListener(engine.OnAdd(func(p models.Position) error {
		captured = p
		return nil
	}))

	bond := mustBond(t, "B05y")
	if err := svc.ApplyTrade(models.Trade{
		Bond: bond, TradeID: "T1", Book: "TRSY1",
		Quantity: 100, Side: models.SideBuy,
	}); err != nil {
		t.Fatal(err)
	}
	first := captured

	if err := svc.ApplyTrade(models.Trade{
		Bond: bond, TradeID: "T2", Book: "TRSY1",
		Quantity: 50, Side: models.SideBuy,
	}); err != nil {
		t.Fatal(err)
	}

	// The earlier snapshot must not move when the live position does.
	if first.Quantity("TRSY1") != 100 {
		t.Fatalf("first snapshot mutated: TRSY1 = %d", first.Quantity("TRSY1"))
	}
	if captured.Quantity("TRSY1") != 150 {
		t.Fatalf("second snapshot TRSY1 = %d, want 150", captured.Quantity("TRSY1"))
	}
}

func TestBucketedRiskUnsupported(t *testing.T) {
	svc := NewRiskService(dec(t, "0.02"), zerolog.Nop())
	_, err := svc.BucketedRisk(models.BucketedSector{Name: "FrontEnd"})
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("want ErrUnsupported, got %v", err)
	}
}

func TestStreamLegsSymmetricAroundMid(t *testing.T) {
	algo := NewAlgoStreamingService(1000000, 1000000, zerolog.Nop())

	var stream models.PriceStream
	algo.AddListener(engine.OnAdd(func(p models.PriceStream) error {
		stream = p
		return nil
	}))

	quote := models.Quote{
		Bond:   mustBond(t, "B10y"),
		Mid:    dec(t, "100"),
		Spread: dec(t, "0.5"),
	}
	if err := algo.OnQuote(quote); err != nil {
		t.Fatal(err)
	}

	if !stream.Bid.Price.Equal(dec(t, "99.75")) {
		t.Errorf("bid = %s, want 99.75", stream.Bid.Price)
	}
	if !stream.Offer.Price.Equal(dec(t, "100.25")) {
		t.Errorf("offer = %s, want 100.25", stream.Offer.Price)
	}
	if stream.Bid.VisibleQuantity != stream.Offer.VisibleQuantity ||
		stream.Bid.HiddenQuantity != stream.Offer.HiddenQuantity {
		t.Errorf("leg sizes differ: %+v vs %+v", stream.Bid, stream.Offer)
	}
	if stream.Bid.Side != models.PricingBid || stream.Offer.Side != models.PricingOffer {
		t.Errorf("leg sides wrong: %s / %s", stream.Bid.Side, stream.Offer.Side)
	}
}

type captureQuotes struct {
	quotes []models.Quote
}

func (c *captureQuotes) PublishQuote(q models.Quote) error {
	c.quotes = append(c.quotes, q)
	return nil
}

func TestThrottleDropsInsideInterval(t *testing.T) {
	sink := &captureQuotes{}
	throttle := NewQuoteThrottle(300*time.Millisecond, sink, zerolog.Nop())

	clock := time.Date(2026, 1, 2, 9, 30, 0, 0, time.UTC)
	throttle.SetClock(func() time.Time { return clock })

	quote := models.Quote{Bond: mustBond(t, "B07y"), Mid: dec(t, "100"), Spread: dec(t, "0.25")}

	// First quote always passes.
	if err := throttle.OnAdd(quote); err != nil {
		t.Fatal(err)
	}
	// 100ms later: inside the window, dropped.
	clock = clock.Add(100 * time.Millisecond)
	if err := throttle.OnUpdate(quote); err != nil {
		t.Fatal(err)
	}
	// 400ms after the first: outside the window, forwarded.
	clock = clock.Add(300 * time.Millisecond)
	if err := throttle.OnUpdate(quote); err != nil {
		t.Fatal(err)
	}

	if len(sink.quotes) != 2 {
		t.Fatalf("sink got %d quotes, want 2", len(sink.quotes))
	}
	if throttle.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", throttle.Dropped())
	}
}

func bookAt(t *testing.T, ticker, bidText, offerText string, bidSize, offerSize int64) models.OrderBook {
	t.Helper()
	return models.OrderBook{
		Bond: mustBond(t, ticker),
		Bids: []models.BookLevel{
			{Price: dec(t, bidText), Size: bidSize, Side: models.PricingBid},
		},
		Offers: []models.BookLevel{
			{Price: dec(t, offerText), Size: offerSize, Side: models.PricingOffer},
		},
	}
}

func TestEvaluateWideSpreadNoOrder(t *testing.T) {
	algo := NewAlgoExecutionService(dec(t, "0.015625"), dec(t, "0.9"), zerolog.Nop())

	var orders int
	algo.AddListener(engine.OnAdd(func(models.ExecutionOrder) error {
		orders++
		return nil
	}))

	// 99-16 / 99-17: a full 1/32 spread, above the half-tick tolerance.
	if err := algo.Evaluate(bookAt(t, "B10y", "99.5", "99.53125", 1000000, 1000000)); err != nil {
		t.Fatal(err)
	}
	if orders != 0 {
		t.Fatalf("wide book produced %d orders", orders)
	}
}

func TestEvaluateTightSpreadOneOrder(t *testing.T) {
	algo := NewAlgoExecutionService(dec(t, "0.015625"), dec(t, "0.9"), zerolog.Nop())

	var orders []models.ExecutionOrder
	algo.AddListener(engine.OnAdd(func(o models.ExecutionOrder) error {
		orders = append(orders, o)
		return nil
	}))

	// 99-16 / 99-16+: exactly one half-tick.
	if err := algo.Evaluate(bookAt(t, "B10y", "99.5", "99.515625", 2000000, 1000001)); err != nil {
		t.Fatal(err)
	}
	if len(orders) != 1 {
		t.Fatalf("tight book produced %d orders, want 1", len(orders))
	}

	order := orders[0]
	if order.Side != models.PricingBid {
		t.Errorf("first order side = %s, want BID", order.Side)
	}
	if !order.Price.Equal(dec(t, "99.5")) {
		t.Errorf("aggressed BID price = %s, want best bid 99.5", order.Price)
	}
	// Crossed against the offer size: the full size is shown, and the
	// hidden quantity adds floor(90%) on top of it.
	if order.VisibleQuantity != 1000001 {
		t.Errorf("visible = %d, want crossed size 1000001", order.VisibleQuantity)
	}
	wantHidden := int64(900000) // floor(0.9 * 1000001)
	if order.HiddenQuantity != wantHidden {
		t.Errorf("hidden = %d, want %d", order.HiddenQuantity, wantHidden)
	}
	if order.ParentOrderID != order.OrderID {
		t.Errorf("parent order id = %q, want %q", order.ParentOrderID, order.OrderID)
	}
	if order.IsChildOrder {
		t.Error("order flagged as child")
	}
	if order.Type != models.OrderTypeMarket {
		t.Errorf("type = %s, want MARKET", order.Type)
	}
}

func TestEvaluateAlternatesSides(t *testing.T) {
	algo := NewAlgoExecutionService(dec(t, "0.015625"), dec(t, "0.9"), zerolog.Nop())

	var sides []models.PricingSide
	algo.AddListener(engine.OnAdd(func(o models.ExecutionOrder) error {
		sides = append(sides, o.Side)
		return nil
	}))

	tight := bookAt(t, "B05y", "99.5", "99.515625", 1000000, 1000000)
	wide := bookAt(t, "B05y", "99.5", "99.59375", 1000000, 1000000)

	for i := 0; i < 2; i++ {
		if err := algo.Evaluate(tight); err != nil {
			t.Fatal(err)
		}
		// Wide books must not advance the alternation.
		if err := algo.Evaluate(wide); err != nil {
			t.Fatal(err)
		}
	}
	if err := algo.Evaluate(tight); err != nil {
		t.Fatal(err)
	}

	want := []models.PricingSide{models.PricingBid, models.PricingOffer, models.PricingBid}
	if len(sides) != len(want) {
		t.Fatalf("sides = %v, want %v", sides, want)
	}
	for i := range want {
		if sides[i] != want[i] {
			t.Fatalf("sides = %v, want %v", sides, want)
		}
	}
}

func TestInquiryCascade(t *testing.T) {
	svc := NewInquiryService(zerolog.Nop())

	var states []models.InquiryState
	svc.AddListener(engine.OnAdd(func(i models.Inquiry) error {
		states = append(states, i.State)
		return nil
	}))
	svc.AddListener(NewInquiryQuoter(svc, dec(t, "100")))

	if err := svc.OnInquiry(models.Inquiry{
		InquiryID: "I1",
		Bond:      mustBond(t, "B30y"),
		Side:      models.SideBuy,
		Quantity:  1000000,
		State:     models.InquiryReceived,
	}); err != nil {
		t.Fatal(err)
	}

	want := []models.InquiryState{models.InquiryReceived, models.InquiryQuoted, models.InquiryDone}
	if len(states) != len(want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("states = %v, want %v", states, want)
		}
	}

	final, err := svc.Inquiry("I1")
	if err != nil {
		t.Fatal(err)
	}
	if final.State != models.InquiryDone {
		t.Fatalf("final state = %s, want DONE", final.State)
	}
	if !final.Price.Equal(dec(t, "100")) {
		t.Fatalf("quoted price = %s, want 100", final.Price)
	}
}

func TestRejectInquiry(t *testing.T) {
	svc := NewInquiryService(zerolog.Nop())

	inq := models.Inquiry{
		InquiryID: "I2",
		Bond:      mustBond(t, "B03y"),
		Side:      models.SideSell,
		Quantity:  500000,
		State:     models.InquiryReceived,
	}
	if err := svc.OnInquiry(inq); err != nil {
		t.Fatal(err)
	}
	if err := svc.Reject("I2"); err != nil {
		t.Fatal(err)
	}

	got, err := svc.Inquiry("I2")
	if err != nil {
		t.Fatal(err)
	}
	if got.State != models.InquiryRejected {
		t.Fatalf("state = %s, want REJECTED", got.State)
	}
}

func TestRebookerMapsSidesAndBooks(t *testing.T) {
	booking := NewBookingService(zerolog.Nop())
	var trades []models.Trade
	booking.AddListener(engine.OnAdd(func(tr models.Trade) error {
		trades = append(trades, tr)
		return nil
	}))

	rebooker := NewTradeRebooker(booking)
	bond := mustBond(t, "B20y")

	orders := []models.ExecutionOrder{
		{Bond: bond, OrderID: "1", Side: models.PricingBid, Price: dec(t, "99.5"), VisibleQuantity: 100000, HiddenQuantity: 900000},
		{Bond: bond, OrderID: "2", Side: models.PricingOffer, Price: dec(t, "99.515625"), VisibleQuantity: 100000, HiddenQuantity: 900000},
	}
	for _, o := range orders {
		if err := rebooker.OnAdd(o); err != nil {
			t.Fatal(err)
		}
	}

	if len(trades) != 2 {
		t.Fatalf("booked %d trades, want 2", len(trades))
	}
	if trades[0].Side != models.SideBuy || trades[1].Side != models.SideSell {
		t.Errorf("sides = %s/%s, want BUY/SELL", trades[0].Side, trades[1].Side)
	}
	if trades[0].Book == trades[1].Book {
		t.Errorf("books did not rotate: %s", trades[0].Book)
	}
	if trades[0].Quantity != 1000000 {
		t.Errorf("quantity = %d, want visible+hidden", trades[0].Quantity)
	}
}

func TestStagesEmitEventLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	booking := NewBookingService(logger)
	if err := booking.BookTrade(models.Trade{
		Bond:     mustBond(t, "B10y"),
		TradeID:  "T1",
		Price:    dec(t, "99.5"),
		Book:     "TRSY1",
		Quantity: 1000000,
		Side:     models.SideBuy,
	}); err != nil {
		t.Fatal(err)
	}

	execution := NewExecutionService(logger)
	if err := execution.ExecuteOrder(models.ExecutionOrder{
		Bond:    mustBond(t, "B05y"),
		OrderID: "1",
		Side:    models.PricingBid,
		Type:    models.OrderTypeMarket,
		Price:   dec(t, "99.5"),
	}); err != nil {
		t.Fatal(err)
	}

	inquiry := NewInquiryService(logger)
	if err := inquiry.OnInquiry(models.Inquiry{
		InquiryID: "I1",
		Bond:      mustBond(t, "B02y"),
		Side:      models.SideBuy,
		Quantity:  500000,
		State:     models.InquiryReceived,
	}); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		`"event":"trade"`, `"trade_id":"T1"`,
		`"event":"execution"`, `"order_id":"1"`,
		`"event":"inquiry"`, `"state":"RECEIVED"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}
