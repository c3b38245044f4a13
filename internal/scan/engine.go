// Package scan orchestrates one pipeline run over a transaction feed:
// ingest and normalize in bounded batches, partition each batch by
// calendar day, run every detector family over the shared day buckets,
// then reduce into a single result set. The feed is read exactly once.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/savegress/mobitrace/internal/chains"
	"github.com/savegress/mobitrace/internal/config"
	"github.com/savegress/mobitrace/internal/ingest"
	"github.com/savegress/mobitrace/internal/partition"
	"github.com/savegress/mobitrace/internal/repetition"
	"github.com/savegress/mobitrace/pkg/models"
)

// Engine runs the full detection pipeline over a feed.
type Engine struct {
	cfg    *config.Config
	chains *chains.Detector
	log    zerolog.Logger
}

// NewEngine creates an engine from configuration.
func NewEngine(cfg *config.Config, log zerolog.Logger) (*Engine, error) {
	detector, err := chains.NewDetector(&cfg.Scoring)
	if err != nil {
		return nil, fmt.Errorf("configure chain detector: %w", err)
	}

	return &Engine{
		cfg:    cfg,
		chains: detector,
		log:    log,
	}, nil
}

// Run scans a raw feed and returns every detection table. The run is
// all-or-nothing: a batch read failure aborts it and no partial result is
// returned. An empty or chain-free feed yields empty tables, not an error.
func (e *Engine) Run(ctx context.Context, feed io.Reader) (*models.ScanResult, error) {
	reader := ingest.NewReader(feed, e.cfg.Ingest.BatchSize)
	repeats := repetition.NewDetector(&e.cfg.Repetition)
	result := &models.ScanResult{}

	batches := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest batch %d: %w", batches+1, err)
		}
		batches++

		buckets := partition.ByDay(batch)
		for _, day := range partition.Days(buckets) {
			records := buckets[day]

			result.CashoutChains = append(result.CashoutChains, e.chains.DetectCashoutChains(day, records)...)
			result.TransferChains = append(result.TransferChains, chains.DetectTransferChains(day, records)...)
			result.RelayChains = append(result.RelayChains, chains.DetectRelayChains(day, records)...)
			repeats.Observe(day, records)
		}

		e.log.Debug().
			Int("batch", batches).
			Int("rows", len(batch)).
			Int("days", len(buckets)).
			Msg("batch scanned")
	}

	result.RowsRead = reader.RowsRead()
	result.RowsWithoutTime = reader.RowsWithoutTimestamp()

	result.MerchantSummaries = chains.SummarizeMerchants(result.CashoutChains)
	result.TransferPairs = chains.SummarizeTransferPairs(result.TransferChains)
	result.RelayPairs = chains.SummarizeRelayPairs(result.RelayChains)

	repeatTables := repeats.Results()
	result.MerchantRepetition = repeatTables.MerchantPayments
	result.CashinRepetition = repeatTables.Cashins
	result.TransferRepetition = repeatTables.WalletToBank
	result.RedeemRepetition = repeatTables.Redeems

	e.log.Info().
		Int("rows", result.RowsRead).
		Int("rows_without_timestamp", result.RowsWithoutTime).
		Int("cashout_chains", len(result.CashoutChains)).
		Int("transfer_chains", len(result.TransferChains)).
		Int("relay_chains", len(result.RelayChains)).
		Msg("scan complete")

	return result, nil
}
