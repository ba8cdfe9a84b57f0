// Package jobs holds the scheduled jobs of the screening service.
package jobs

import (
	"context"
	"fmt"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/internal/screening"
	"github.com/koboriakira/stock-investment-2025/pkg/logger"
)

// WatchlistJob screens a fixed symbol list on a schedule
type WatchlistJob struct {
	screener  contracts.Screener
	store     screening.SessionStore
	symbols   []string
	criteria  contracts.ScreeningCriteria
	chunkSize int
	schedule  string
	logger    *logger.Logger
}

// NewWatchlistJob creates a watchlist job. store may be nil; chunkSize is the
// screener's per-request limit.
func NewWatchlistJob(
	screener contracts.Screener,
	store screening.SessionStore,
	symbols []string,
	criteria contracts.ScreeningCriteria,
	chunkSize int,
	schedule string,
	log *logger.Logger,
) *WatchlistJob {
	if chunkSize < 1 {
		chunkSize = 1
	}
	return &WatchlistJob{
		screener:  screener,
		store:     store,
		symbols:   symbols,
		criteria:  criteria,
		chunkSize: chunkSize,
		schedule:  schedule,
		logger:    log.WithField("job", "watchlist"),
	}
}

// Name returns the job name
func (j *WatchlistJob) Name() string {
	return "watchlist_screening"
}

// Schedule returns the cron schedule
func (j *WatchlistJob) Schedule() string {
	return j.schedule
}

// Run screens every chunk, then saves all sessions in one call.
// A failed screen or save fails the run and nothing is persisted, so a retry
// never duplicates sessions.
func (j *WatchlistJob) Run(ctx context.Context) error {
	if len(j.symbols) == 0 {
		j.logger.Debug("Watchlist empty, nothing to screen")
		return nil
	}

	var results []*contracts.ScreeningBatchResult
	passed, screened := 0, 0
	for _, chunk := range Chunk(j.symbols, j.chunkSize) {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := j.screener.Screen(ctx, chunk, j.criteria)
		if err != nil {
			return fmt.Errorf("screen watchlist chunk: %w", err)
		}
		results = append(results, result)
		passed += result.PassedSymbols
		screened += len(result.Results)

		for _, item := range result.Results {
			j.logger.WithFields(map[string]interface{}{
				"symbol": item.Symbol,
				"score":  item.Score,
				"passed": item.MeetsCriteria,
			}).Debug("Watchlist symbol screened")
		}
	}

	if j.store != nil {
		if err := j.store.Save(ctx, results...); err != nil {
			return fmt.Errorf("save %d watchlist sessions: %w", len(results), err)
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"symbols":    len(j.symbols),
		"sessions":   len(results),
		"screened":   screened,
		"passed":     passed,
		"thresholds": !j.criteria.IsEmpty(),
		"saved":      j.store != nil,
	}).Info("Watchlist screening completed")

	return nil
}

// Chunk splits symbols into slices of at most size
func Chunk(symbols []string, size int) [][]string {
	var chunks [][]string
	for size < len(symbols) {
		symbols, chunks = symbols[size:], append(chunks, symbols[:size:size])
	}
	if len(symbols) > 0 {
		chunks = append(chunks, symbols)
	}
	return chunks
}
