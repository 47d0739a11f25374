package connectors

import (
	"fmt"
	"os"
	"sync"

	"github.com/gocarina/gocsv"

	"bond-trader/internal/engine"
	"bond-trader/internal/models"
)

// RecordSink appends records of one type to a CSV file. The header
// row is written when the file is created or empty.
type RecordSink[T any] struct {
	mu   sync.Mutex
	file *os.File
}

// NewRecordSink opens (or creates) the file at path for appending.
func NewRecordSink[T any](path string) (*RecordSink[T], error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open sink %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat sink %s: %w", path, err)
	}
	if info.Size() == 0 {
		var empty []T
		if err := gocsv.Marshal(&empty, f); err != nil {
			f.Close()
			return nil, fmt.Errorf("write header %s: %w", path, err)
		}
	}
	return &RecordSink[T]{file: f}, nil
}

// Append writes one record row.
func (s *RecordSink[T]) Append(record T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := []T{record}
	if err := gocsv.MarshalWithoutHeaders(&rows, s.file); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (s *RecordSink[T]) Close() error {
	return s.file.Close()
}

// Listener adapters: each wraps a sink as a stage listener that fires
// on adds and updates.

// PositionListener records position snapshots.
func PositionListener(sink *RecordSink[PositionRecord]) engine.Listener[models.Position] {
	return engine.OnAdd(func(p models.Position) error {
		return sink.Append(NewPositionRecord(p))
	})
}

// RiskListener records PV01 updates.
func RiskListener(sink *RecordSink[RiskRecord]) engine.Listener[models.PV01] {
	return engine.OnAdd(func(r models.PV01) error {
		return sink.Append(NewRiskRecord(r))
	})
}

// GUISink records quotes that pass the display throttle. It sits
// behind the throttle, so it implements the quote publisher side
// rather than the listener side.
type GUISink struct {
	sink *RecordSink[GUIRecord]
}

// NewGUISink wraps a record sink as a throttle target.
func NewGUISink(sink *RecordSink[GUIRecord]) *GUISink {
	return &GUISink{sink: sink}
}

// PublishQuote implements services.QuotePublisher.
func (g *GUISink) PublishQuote(q models.Quote) error {
	return g.sink.Append(NewGUIRecord(q))
}

// StreamListener records published streams.
func StreamListener(sink *RecordSink[StreamRecord]) engine.Listener[models.PriceStream] {
	return engine.OnAdd(func(s models.PriceStream) error {
		return sink.Append(NewStreamRecord(s))
	})
}

// ExecutionListener records executed orders.
func ExecutionListener(sink *RecordSink[ExecutionRecord]) engine.Listener[models.ExecutionOrder] {
	return engine.OnAdd(func(o models.ExecutionOrder) error {
		return sink.Append(NewExecutionRecord(o))
	})
}

// InquiryListener records inquiry transitions.
func InquiryListener(sink *RecordSink[InquiryRecord]) engine.Listener[models.Inquiry] {
	return engine.OnAdd(func(i models.Inquiry) error {
		return sink.Append(NewInquiryRecord(i))
	})
}
