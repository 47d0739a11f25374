package connectors

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"bond-trader/internal/models"
)

// TradeSink accepts trades parsed from a trades file.
type TradeSink interface {
	BookTrade(trade models.Trade) error
}

// QuoteSink accepts quotes parsed from a prices file.
type QuoteSink interface {
	PublishQuote(quote models.Quote) error
}

// BookSink accepts book snapshots parsed from a market data file.
type BookSink interface {
	ProcessBook(book models.OrderBook) error
}

// InquirySink accepts inquiries parsed from an inquiries file.
type InquirySink interface {
	OnInquiry(inquiry models.Inquiry) error
}

func readRows[R any](path string) ([]R, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var rows []R
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

// feed drives rows through convert and into apply. A row that fails
// conversion is logged and skipped; an error raised inside the notify
// cascade aborts the feed and surfaces to the caller.
func feed[R, V any](path string, logger zerolog.Logger, convert func(R) (V, error), apply func(V) error) error {
	rows, err := readRows[R](path)
	if err != nil {
		return err
	}
	for i, row := range rows {
		v, err := convert(row)
		if err != nil {
			logger.Warn().Err(err).Str("file", path).Int("row", i+1).Msg("skipping malformed row")
			continue
		}
		if err := apply(v); err != nil {
			return fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
	}
	return nil
}

// FeedTrades streams a trades file into the booking stage.
func FeedTrades(path string, sink TradeSink, logger zerolog.Logger) error {
	return feed(path, logger, TradeRow.Trade, sink.BookTrade)
}

// FeedPrices streams a prices file into the pricing stage.
func FeedPrices(path string, sink QuoteSink, logger zerolog.Logger) error {
	return feed(path, logger, PriceRow.Quote, sink.PublishQuote)
}

// FeedMarketData streams a market depth file into the market data stage.
func FeedMarketData(path string, sink BookSink, logger zerolog.Logger) error {
	return feed(path, logger, MarketDataRow.OrderBook, sink.ProcessBook)
}

// FeedInquiries streams an inquiries file into the inquiry stage.
func FeedInquiries(path string, sink InquirySink, logger zerolog.Logger) error {
	return feed(path, logger, InquiryRow.Inquiry, sink.OnInquiry)
}
