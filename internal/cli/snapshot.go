package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bond-trader/internal/engine"
	"bond-trader/internal/models"
	"bond-trader/pkg/fractional"
	"bond-trader/pkg/utils"
)

func newSnapshotCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot [ticker]",
		Short: "Show last-known state per ticker",
		Long: `Processes the input files without writing record files and prints
the last-known position, risk, stream and book state. With a ticker
argument, only that bond is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			inputDir, _ := cmd.Flags().GetString("input")
			if inputDir == "" {
				inputDir = app.Config.Data.InputDir
			}

			pipeline, err := NewPipeline(app.Config, app.Logger, PipelineOptions{})
			if err != nil {
				return err
			}
			defer pipeline.Close()

			if err := pipeline.Run(inputDir); err != nil {
				return err
			}

			tickers := models.Tickers()
			if len(args) == 1 {
				if _, ok := models.LookupBond(args[0]); !ok {
					return fmt.Errorf("unknown ticker %q", args[0])
				}
				tickers = args[:1]
			}

			if output.IsJSON() {
				return snapshotJSON(output, pipeline, tickers)
			}
			snapshotTable(output, pipeline, tickers)
			return nil
		},
	}

	cmd.Flags().String("input", "", "input directory (default from config)")
	return cmd
}

type tickerSnapshot struct {
	Ticker    string `json:"ticker"`
	Aggregate *int64 `json:"aggregate,omitempty"`
	TotalRisk string `json:"total_risk,omitempty"`
	StreamBid string `json:"stream_bid,omitempty"`
	StreamOfr string `json:"stream_offer,omitempty"`
	BestBid   string `json:"best_bid,omitempty"`
	BestOffer string `json:"best_offer,omitempty"`
}

func buildSnapshot(p *Pipeline, ticker string) (tickerSnapshot, error) {
	snap := tickerSnapshot{Ticker: ticker}

	pos, err := p.Position.Position(ticker)
	switch {
	case err == nil:
		agg := pos.Aggregate()
		snap.Aggregate = &agg
	case !errors.Is(err, engine.ErrNotFound):
		return snap, err
	}

	if risk, err := p.Risk.Risk(ticker); err == nil {
		snap.TotalRisk = risk.Total().String()
	} else if !errors.Is(err, engine.ErrNotFound) {
		return snap, err
	}

	if stream, err := p.Streaming.Stream(ticker); err == nil {
		snap.StreamBid = fractional.Encode(stream.Bid.Price)
		snap.StreamOfr = fractional.Encode(stream.Offer.Price)
	} else if !errors.Is(err, engine.ErrNotFound) {
		return snap, err
	}

	if bid, offer, ok := p.MarketData.BestBidOffer(ticker); ok {
		snap.BestBid = fractional.Encode(bid.Price)
		snap.BestOffer = fractional.Encode(offer.Price)
	}

	return snap, nil
}

func snapshotJSON(output *Output, p *Pipeline, tickers []string) error {
	var snaps []tickerSnapshot
	for _, ticker := range tickers {
		snap, err := buildSnapshot(p, ticker)
		if err != nil {
			return err
		}
		snaps = append(snaps, snap)
	}
	return output.JSON(snaps)
}

func snapshotTable(output *Output, p *Pipeline, tickers []string) {
	table := NewTable(output, "TICKER", "AGGREGATE", "TOTAL RISK", "STREAM BID", "STREAM OFFER", "BEST BID", "BEST OFFER")
	for _, ticker := range tickers {
		snap, err := buildSnapshot(p, ticker)
		if err != nil {
			output.Warning("%s: %v", ticker, err)
			continue
		}
		agg := "-"
		if snap.Aggregate != nil {
			agg = utils.FormatQuantity(*snap.Aggregate)
		}
		table.AddRow(ticker, agg,
			orDash(snap.TotalRisk), orDash(snap.StreamBid), orDash(snap.StreamOfr),
			orDash(snap.BestBid), orDash(snap.BestOffer))
	}
	table.Render()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
