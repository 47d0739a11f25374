package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"bond-trader/internal/config"
	"bond-trader/internal/connectors"
	"bond-trader/internal/engine"
	"bond-trader/internal/models"
	"bond-trader/internal/services"
	"bond-trader/internal/store"
)

// Pipeline holds the wired stages. Stage topology:
//
//	trades    -> booking -> position -> risk
//	prices    -> pricing -> {throttle -> gui, algo streaming -> streaming}
//	marketdata -> market data -> algo execution -> execution -> re-booking
//	inquiries -> inquiry (quoting cascade)
type Pipeline struct {
	Booking    *services.BookingService
	Position   *services.PositionService
	Risk       *services.RiskService
	Pricing    *services.PricingService
	Streaming  *services.StreamingService
	MarketData *services.MarketDataService
	Execution  *services.ExecutionService
	Inquiry    *services.InquiryService

	logger  zerolog.Logger
	closers []io.Closer
}

// PipelineOptions selects optional outputs.
type PipelineOptions struct {
	// OutputDir enables the per-stage record sinks when non-empty.
	OutputDir string
	// Journal enables the SQLite journal listeners when non-nil.
	Journal *store.Journal
}

// NewPipeline wires all stages per the configuration.
func NewPipeline(cfg *config.Config, logger zerolog.Logger, opts PipelineOptions) (*Pipeline, error) {
	tolerance, err := cfg.SpreadTolerance()
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		Booking:    services.NewBookingService(logger),
		Position:   services.NewPositionService(cfg.Position.StrictBooks, logger),
		Risk:       services.NewRiskService(decimal.NewFromFloat(cfg.Risk.PV01), logger),
		Pricing:    services.NewPricingService(logger),
		Streaming:  services.NewStreamingService(logger),
		MarketData: services.NewMarketDataService(logger),
		Execution:  services.NewExecutionService(logger),
		Inquiry:    services.NewInquiryService(logger),
		logger:     logger,
	}

	algoStreaming := services.NewAlgoStreamingService(cfg.Pricing.VisibleQty, cfg.Pricing.HiddenQty, logger)
	algoExecution := services.NewAlgoExecutionService(tolerance, decimal.NewFromFloat(cfg.Execution.HiddenRatio), logger)

	// Trade flow: booking -> position -> risk.
	p.Booking.AddListener(engine.OnAdd(p.Position.ApplyTrade))
	p.Position.AddListener(engine.OnAdd(p.Risk.ApplyPosition))

	// Price flow: pricing fans out to the algo streamer, whose streams
	// land in the streaming store.
	p.Pricing.AddListener(engine.OnAdd(algoStreaming.OnQuote))
	algoStreaming.AddListener(engine.OnAdd(p.Streaming.PublishStream))

	// Market data flow: books through the execution decision into the
	// execution store, then back into booking as trades.
	p.MarketData.AddListener(engine.OnAdd(algoExecution.Evaluate))
	algoExecution.AddListener(engine.OnAdd(p.Execution.ExecuteOrder))

	if opts.OutputDir != "" {
		if err := p.attachSinks(cfg, opts.OutputDir); err != nil {
			p.Close()
			return nil, err
		}
	} else {
		// No display sink; the throttle still gates a no-op publisher
		// so the flow shape does not change.
		p.Pricing.AddListener(services.NewQuoteThrottle(
			time.Duration(cfg.Pricing.ThrottleMs)*time.Millisecond, noopQuotes{}, logger))
	}

	if opts.Journal != nil {
		p.Booking.AddListener(store.TradeListener(opts.Journal))
		p.Execution.AddListener(store.ExecutionListener(opts.Journal))
		p.Inquiry.AddListener(store.InquiryListener(opts.Journal))
	}

	// Re-booking and the inquiry quoter go last: record listeners must
	// already be registered so they observe every state in order.
	p.Execution.AddListener(services.NewTradeRebooker(p.Booking))
	p.Inquiry.AddListener(services.NewInquiryQuoter(p.Inquiry,
		decimal.NewFromFloat(cfg.Inquiry.QuotePrice)))

	return p, nil
}

func (p *Pipeline) attachSinks(cfg *config.Config, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", outputDir, err)
	}

	positions, err := newSink[connectors.PositionRecord](p, outputDir, "positions.csv")
	if err != nil {
		return err
	}
	p.Position.AddListener(connectors.PositionListener(positions))

	risks, err := newSink[connectors.RiskRecord](p, outputDir, "risk.csv")
	if err != nil {
		return err
	}
	p.Risk.AddListener(connectors.RiskListener(risks))

	gui, err := newSink[connectors.GUIRecord](p, outputDir, "gui.csv")
	if err != nil {
		return err
	}
	p.Pricing.AddListener(services.NewQuoteThrottle(
		time.Duration(cfg.Pricing.ThrottleMs)*time.Millisecond,
		connectors.NewGUISink(gui), p.logger))

	streams, err := newSink[connectors.StreamRecord](p, outputDir, "streams.csv")
	if err != nil {
		return err
	}
	p.Streaming.AddListener(connectors.StreamListener(streams))

	executions, err := newSink[connectors.ExecutionRecord](p, outputDir, "executions.csv")
	if err != nil {
		return err
	}
	p.Execution.AddListener(connectors.ExecutionListener(executions))

	inquiries, err := newSink[connectors.InquiryRecord](p, outputDir, "inquiries.csv")
	if err != nil {
		return err
	}
	p.Inquiry.AddListener(connectors.InquiryListener(inquiries))

	return nil
}

func newSink[T any](p *Pipeline, dir, name string) (*connectors.RecordSink[T], error) {
	sink, err := connectors.NewRecordSink[T](filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	p.closers = append(p.closers, sink)
	return sink, nil
}

// Run feeds every input file that exists in inputDir through its flow.
func (p *Pipeline) Run(inputDir string) error {
	feeds := []struct {
		file string
		feed func(string) error
	}{
		{"trades.csv", func(path string) error {
			return connectors.FeedTrades(path, p.Booking, p.logger)
		}},
		{"prices.csv", func(path string) error {
			return connectors.FeedPrices(path, p.Pricing, p.logger)
		}},
		{"marketdata.csv", func(path string) error {
			return connectors.FeedMarketData(path, p.MarketData, p.logger)
		}},
		{"inquiries.csv", func(path string) error {
			return connectors.FeedInquiries(path, p.Inquiry, p.logger)
		}},
	}

	for _, f := range feeds {
		path := filepath.Join(inputDir, f.file)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			p.logger.Warn().Str("file", path).Msg("input file missing, skipping flow")
			continue
		}
		p.logger.Info().Str("file", path).Msg("processing input")
		if err := f.feed(path); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the record sinks.
func (p *Pipeline) Close() {
	for _, c := range p.closers {
		c.Close()
	}
}

type noopQuotes struct{}

func (noopQuotes) PublishQuote(models.Quote) error { return nil }
