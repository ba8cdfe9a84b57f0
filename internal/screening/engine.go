// Package screening evaluates batches of symbols against threshold criteria.
package screening

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/pkg/config"
	"github.com/koboriakira/stock-investment-2025/pkg/logger"
)

// Engine runs screening batches
// ⭐ SSOT: screening orchestration lives here only
type Engine struct {
	gateway    contracts.Gateway
	scorer     contracts.Scorer
	maxSymbols int
	workers    int
	logger     *logger.Logger

	now   func() time.Time
	newID func() string
}

// NewEngine creates a new screening engine
func NewEngine(gateway contracts.Gateway, scorer contracts.Scorer, cfg config.ScreeningConfig, log *logger.Logger) *Engine {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		gateway:    gateway,
		scorer:     scorer,
		maxSymbols: cfg.MaxSymbolsPerRequest,
		workers:    workers,
		logger:     log.WithField("module", "screening"),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// MaxSymbols returns the per-request symbol limit
func (e *Engine) MaxSymbols() int {
	return e.maxSymbols
}

// outcome is the result of one symbol's step. item is nil when the symbol was dropped.
type outcome struct {
	item *contracts.ScreeningResultItem
	err  error
}

// Screen fetches, scores and evaluates every symbol. Only an oversized or empty
// batch is an error; per-symbol failures drop the symbol and the batch continues.
func (e *Engine) Screen(ctx context.Context, symbols []string, criteria contracts.ScreeningCriteria) (*contracts.ScreeningBatchResult, error) {
	if len(symbols) == 0 {
		return nil, contracts.NewInvalidRequest("at least one symbol is required")
	}
	if len(symbols) > e.maxSymbols {
		return nil, contracts.NewInvalidRequest("maximum %d symbols allowed per request, got %d", e.maxSymbols, len(symbols))
	}

	start := e.now()
	outcomes := e.run(ctx, symbols, criteria)

	result := &contracts.ScreeningBatchResult{
		RequestID:    e.newID(),
		TotalSymbols: len(symbols),
		Criteria:     criteria,
		Results:      make([]contracts.ScreeningResultItem, 0, len(symbols)),
	}

	for i, o := range outcomes {
		if o.err != nil {
			if !errors.Is(o.err, contracts.ErrNotFound) {
				e.logger.WithSymbol(symbols[i]).WithError(o.err).Warn("Symbol dropped from screening")
			}
			continue
		}
		result.Results = append(result.Results, *o.item)
		if o.item.MeetsCriteria {
			result.PassedSymbols++
		}
	}

	sort.SliceStable(result.Results, func(i, j int) bool {
		return result.Results[i].Score > result.Results[j].Score
	})

	end := e.now()
	result.ExecutionTime = end.Sub(start).Seconds()
	result.LastUpdated = end

	e.logger.WithFields(map[string]interface{}{
		"request_id": result.RequestID,
		"total":      result.TotalSymbols,
		"returned":   len(result.Results),
		"passed":     result.PassedSymbols,
		"duration":   result.ExecutionTime,
	}).Info("Screening completed")

	return result, nil
}

// run evaluates every symbol and returns outcomes in input order
func (e *Engine) run(ctx context.Context, symbols []string, criteria contracts.ScreeningCriteria) []outcome {
	outcomes := make([]outcome, len(symbols))

	if e.workers == 1 {
		for i, symbol := range symbols {
			outcomes[i] = e.step(ctx, symbol, criteria)
		}
		return outcomes
	}

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			outcomes[i] = e.step(ctx, symbol, criteria)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// step processes one symbol in isolation; panics become errors
func (e *Engine) step(ctx context.Context, symbol string, criteria contracts.ScreeningCriteria) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = outcome{err: fmt.Errorf("panic while screening %s: %v", symbol, r)}
		}
	}()

	symbol = contracts.NormalizeSymbol(symbol)
	if err := contracts.ValidateSymbol(symbol); err != nil {
		return outcome{err: err}
	}

	stock, err := e.gateway.Fetch(ctx, symbol)
	if err != nil {
		return outcome{err: err}
	}

	score := e.scorer.Score(stock)
	failed := Evaluate(stock, criteria)

	return outcome{item: &contracts.ScreeningResultItem{
		Symbol:         stock.Symbol,
		Name:           stock.Name,
		Score:          score.OverallScore,
		MarketCap:      stock.MarketCap,
		PERatio:        stock.PERatio,
		ROE:            stock.ROE,
		DebtToEquity:   stock.DebtToEquity,
		CurrentRatio:   stock.CurrentRatio,
		MeetsCriteria:  len(failed) == 0,
		FailedCriteria: failed,
	}}
}
