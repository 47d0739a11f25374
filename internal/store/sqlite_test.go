package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"bond-trader/internal/models"
)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := NewJournal(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalTrades(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	bond, _ := models.LookupBond("B10y")
	for i := 0; i < 3; i++ {
		err := j.LogTrade(ctx, models.Trade{
			Bond:     bond,
			TradeID:  "T1",
			Price:    decimal.RequireFromString("99.5"),
			Book:     "TRSY1",
			Quantity: 1000000,
			Side:     models.SideBuy,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	n, err := j.TradeCount(ctx, "B10y")
	if err != nil {
		t.Fatal(err)
	}
	// Insert-only: repeated ids append, never overwrite.
	if n != 3 {
		t.Fatalf("trade count = %d, want 3", n)
	}
}

func TestJournalInquiryStates(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	bond, _ := models.LookupBond("B30y")
	inquiry := models.Inquiry{
		InquiryID: "I1",
		Bond:      bond,
		Side:      models.SideBuy,
		Quantity:  1000000,
		Price:     decimal.RequireFromString("100"),
	}
	for _, state := range []models.InquiryState{
		models.InquiryReceived, models.InquiryQuoted, models.InquiryDone,
	} {
		inquiry.State = state
		if err := j.LogInquiry(ctx, inquiry); err != nil {
			t.Fatal(err)
		}
	}

	states, err := j.InquiryStates(ctx, "I1")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"RECEIVED", "QUOTED", "DONE"}
	if len(states) != len(want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("states = %v, want %v", states, want)
		}
	}
}
