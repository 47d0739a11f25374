package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"bond-trader/internal/engine"
	"bond-trader/internal/models"
)

// Property: after any sequence of valid trades, each book holds the
// signed sum of its fills and the aggregate equals the sum across the
// three books. No update adds or removes a book.
func TestProperty_PositionAggregateIsSignedSum(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("book quantities are signed sums of fills", prop.ForAll(
		func(books []int, qtys []int64, buys []bool) bool {
			n := len(books)
			if len(qtys) < n {
				n = len(qtys)
			}
			if len(buys) < n {
				n = len(buys)
			}

			svc := NewPositionService(false, zerolog.Nop())
			var last models.Position
			svc.AddListener(engine.OnAdd(func(p models.Position) error {
				last = p
				return nil
			}))

			bond, _ := models.LookupBond("B10y")
			expected := map[string]int64{"TRSY1": 0, "TRSY2": 0, "TRSY3": 0}

			for i := 0; i < n; i++ {
				book := models.Books[books[i]%len(models.Books)]
				qty := qtys[i]
				side := models.SideSell
				delta := -qty
				if buys[i] {
					side = models.SideBuy
					delta = qty
				}
				expected[book] += delta

				err := svc.ApplyTrade(models.Trade{
					Bond:     bond,
					TradeID:  fmt.Sprintf("T%d", i),
					Book:     book,
					Quantity: qty,
					Side:     side,
				})
				if err != nil {
					return false
				}
			}
			if n == 0 {
				return true
			}

			var sum int64
			for _, book := range models.Books {
				if last.Quantity(book) != expected[book] {
					t.Logf("FAILED: %s = %d, want %d", book, last.Quantity(book), expected[book])
					return false
				}
				if !last.HasBook(book) {
					return false
				}
				sum += expected[book]
			}
			if last.HasBook("TRSY4") {
				return false
			}
			return last.Aggregate() == sum
		},
		gen.SliceOf(gen.IntRange(0, 2)),
		gen.SliceOf(gen.Int64Range(1, 5000000)),
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}

// Property: total risk is linear in aggregate quantity, including zero
// and negative (short) aggregates.
func TestProperty_RiskLinearInQuantity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("PV01 total = sensitivity x aggregate quantity", prop.ForAll(
		func(qty int64) bool {
			sensitivity := decimal.RequireFromString("0.02")
			svc := NewRiskService(sensitivity, zerolog.Nop())

			var risk models.PV01
			svc.AddListener(engine.OnAdd(func(r models.PV01) error {
				risk = r
				return nil
			}))

			bond, _ := models.LookupBond("B05y")
			pos := models.NewPosition(bond)
			side := models.SideBuy
			abs := qty
			if qty < 0 {
				side = models.SideSell
				abs = -qty
			}
			pos.Update("TRSY1", abs, side)

			if err := svc.ApplyPosition(pos); err != nil {
				return false
			}

			want := sensitivity.Mul(decimal.NewFromInt(qty))
			if !risk.Total().Equal(want) {
				t.Logf("FAILED: qty=%d total=%s want=%s", qty, risk.Total(), want)
				return false
			}
			return true
		},
		gen.Int64Range(-10000000, 10000000),
	))

	properties.TestingRun(t)
}

// Property: stream legs are symmetric around the quote mid for any
// mid and non-negative spread on the price grid.
func TestProperty_StreamSymmetricAroundMid(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("bid and offer sit half a spread from mid", prop.ForAll(
		func(midTicks, spreadTicks int64) bool {
			sixtyFour := decimal.NewFromInt(64)
			mid := decimal.NewFromInt(midTicks).Div(sixtyFour)
			spread := decimal.NewFromInt(spreadTicks).Div(sixtyFour)

			algo := NewAlgoStreamingService(1000000, 2000000, zerolog.Nop())
			var stream models.PriceStream
			algo.AddListener(engine.OnAdd(func(p models.PriceStream) error {
				stream = p
				return nil
			}))

			bond, _ := models.LookupBond("B07y")
			if err := algo.OnQuote(models.Quote{Bond: bond, Mid: mid, Spread: spread}); err != nil {
				return false
			}

			half := spread.Div(decimal.NewFromInt(2))
			return stream.Bid.Price.Equal(mid.Sub(half)) &&
				stream.Offer.Price.Equal(mid.Add(half)) &&
				stream.Offer.Price.Sub(stream.Bid.Price).Equal(spread)
		},
		gen.Int64Range(6000, 7000),
		gen.Int64Range(0, 64),
	))

	properties.TestingRun(t)
}

// Property: over any series of book updates, orders are produced for
// exactly the books whose spread is within tolerance, and produced
// orders alternate BID, OFFER, BID, ...
func TestProperty_ExecutionGatingAndAlternation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("orders only within tolerance, sides alternate", prop.ForAll(
		func(spreads []int64) bool {
			tolerance := decimal.RequireFromString("0.015625")
			algo := NewAlgoExecutionService(tolerance, decimal.RequireFromString("0.9"), zerolog.Nop())

			var orders []models.ExecutionOrder
			algo.AddListener(engine.OnAdd(func(o models.ExecutionOrder) error {
				orders = append(orders, o)
				return nil
			}))

			bond, _ := models.LookupBond("B02y")
			sixtyFour := decimal.NewFromInt(64)
			bid := decimal.RequireFromString("99.5")

			tight := 0
			for _, s := range spreads {
				offer := bid.Add(decimal.NewFromInt(s).Div(sixtyFour))
				book := models.OrderBook{
					Bond:   bond,
					Bids:   []models.BookLevel{{Price: bid, Size: 1000000, Side: models.PricingBid}},
					Offers: []models.BookLevel{{Price: offer, Size: 1000000, Side: models.PricingOffer}},
				}
				if err := algo.Evaluate(book); err != nil {
					return false
				}
				if s <= 1 {
					tight++
				}
			}

			if len(orders) != tight {
				t.Logf("FAILED: %d orders for %d tight books", len(orders), tight)
				return false
			}
			for i, o := range orders {
				want := models.PricingBid
				if i%2 == 1 {
					want = models.PricingOffer
				}
				if o.Side != want {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(0, 8)),
	))

	properties.TestingRun(t)
}
