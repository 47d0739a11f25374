// Package store provides the SQLite journal: an insert-only record of
// trades, executions and inquiry transitions.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"bond-trader/internal/models"
	"bond-trader/pkg/fractional"
)

// Journal is an append-only SQLite log. Rows are inserted and queried,
// never updated or deleted.
type Journal struct {
	db *sql.DB
}

// NewJournal opens (or creates) the journal database at dbPath.
func NewJournal(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	j := &Journal{db: db}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return j, nil
}

func (j *Journal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		trade_id TEXT NOT NULL,
		ticker TEXT NOT NULL,
		book TEXT NOT NULL,
		side TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		price TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS executions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		order_id TEXT NOT NULL,
		ticker TEXT NOT NULL,
		order_type TEXT NOT NULL,
		side TEXT NOT NULL,
		price TEXT NOT NULL,
		visible_qty INTEGER NOT NULL,
		hidden_qty INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS inquiries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		inquiry_id TEXT NOT NULL,
		ticker TEXT NOT NULL,
		side TEXT NOT NULL,
		price TEXT NOT NULL,
		state TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trades_ticker ON trades(ticker);
	CREATE INDEX IF NOT EXISTS idx_executions_ticker ON executions(ticker);
	CREATE INDEX IF NOT EXISTS idx_inquiries_inquiry_id ON inquiries(inquiry_id);
	`
	_, err := j.db.Exec(schema)
	return err
}

// LogTrade appends a booked trade.
func (j *Journal) LogTrade(ctx context.Context, trade models.Trade) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO trades (timestamp, trade_id, ticker, book, side, quantity, price)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC(), trade.TradeID, trade.Bond.Ticker, trade.Book,
		string(trade.Side), trade.Quantity, fractional.Encode(trade.Price),
	)
	if err != nil {
		return fmt.Errorf("failed to log trade: %w", err)
	}
	return nil
}

// LogExecution appends an executed order.
func (j *Journal) LogExecution(ctx context.Context, order models.ExecutionOrder) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO executions (timestamp, order_id, ticker, order_type, side, price, visible_qty, hidden_qty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC(), order.OrderID, order.Bond.Ticker, string(order.Type),
		string(order.Side), fractional.Encode(order.Price),
		order.VisibleQuantity, order.HiddenQuantity,
	)
	if err != nil {
		return fmt.Errorf("failed to log execution: %w", err)
	}
	return nil
}

// LogInquiry appends an inquiry state transition.
func (j *Journal) LogInquiry(ctx context.Context, inquiry models.Inquiry) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO inquiries (timestamp, inquiry_id, ticker, side, price, state)
		VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().UTC(), inquiry.InquiryID, inquiry.Bond.Ticker,
		string(inquiry.Side), inquiry.Price.String(), string(inquiry.State),
	)
	if err != nil {
		return fmt.Errorf("failed to log inquiry: %w", err)
	}
	return nil
}

// TradeCount returns the number of journaled trades for a ticker.
func (j *Journal) TradeCount(ctx context.Context, ticker string) (int64, error) {
	var n int64
	err := j.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM trades WHERE ticker = ?`, ticker).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count trades: %w", err)
	}
	return n, nil
}

// InquiryStates returns the journaled state sequence for one inquiry,
// oldest first.
func (j *Journal) InquiryStates(ctx context.Context, inquiryID string) ([]string, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT state FROM inquiries WHERE inquiry_id = ? ORDER BY id`, inquiryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inquiries: %w", err)
	}
	defer rows.Close()

	var states []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		states = append(states, s)
	}
	return states, rows.Err()
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
