package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/internal/presets"
	"github.com/koboriakira/stock-investment-2025/internal/search"
	"github.com/koboriakira/stock-investment-2025/pkg/logger"
)

// ScoreService scores one symbol
type ScoreService interface {
	ScoreSymbol(ctx context.Context, symbol string) (*contracts.ScoreResult, error)
}

// HistoryService resolves price series
type HistoryService interface {
	History(ctx context.Context, symbol, period string) (*contracts.HistoricalSeries, error)
}

// Searcher ranks symbols against free text
type Searcher interface {
	Search(ctx context.Context, q string, limit int) ([]search.Result, error)
}

// StatementService resolves annual financial statements
type StatementService interface {
	Statements(ctx context.Context, symbol string) (*contracts.FinancialStatements, error)
}

// StockHandler serves single-symbol lookups
type StockHandler struct {
	gateway    contracts.Gateway
	scores     ScoreService
	history    HistoryService
	searcher   Searcher
	statements StatementService
	presets    *presets.Registry
	logger     *logger.Logger
}

// NewStockHandler creates a new stock handler. searcher may be nil.
func NewStockHandler(
	gateway contracts.Gateway,
	scores ScoreService,
	history HistoryService,
	searcher Searcher,
	registry *presets.Registry,
	log *logger.Logger,
) *StockHandler {
	if registry == nil {
		registry = presets.NewRegistry()
	}
	return &StockHandler{
		gateway:  gateway,
		scores:   scores,
		history:  history,
		searcher: searcher,
		presets:  registry,
		logger:   log,
	}
}

// WithStatements enables the financial statements endpoint
func (h *StockHandler) WithStatements(statements StatementService) *StockHandler {
	h.statements = statements
	return h
}

// symbolVar reads and validates the {symbol} path segment
func symbolVar(r *http.Request) (string, error) {
	symbol := contracts.NormalizeSymbol(mux.Vars(r)["symbol"])
	if err := contracts.ValidateSymbol(symbol); err != nil {
		return "", err
	}
	return symbol, nil
}

// GetInfo returns normalized fundamentals
// GET /api/stocks/info/{symbol}
func (h *StockHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	symbol, err := symbolVar(r)
	if err != nil {
		respondErr(w, h.logger, err, "")
		return
	}

	stock, err := h.gateway.Fetch(r.Context(), symbol)
	if err != nil {
		respondErr(w, h.logger.WithSymbol(symbol), err, "Failed to retrieve stock info")
		return
	}

	respondData(w, stock)
}

// GetScore returns the composite financial score
// GET /api/stocks/score/{symbol}
func (h *StockHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	symbol, err := symbolVar(r)
	if err != nil {
		respondErr(w, h.logger, err, "")
		return
	}

	result, err := h.scores.ScoreSymbol(r.Context(), symbol)
	if err != nil {
		respondErr(w, h.logger.WithSymbol(symbol), err, "Failed to score stock")
		return
	}

	respondData(w, result)
}

// GetFinancials returns the annual income statement, balance sheet and cash flow
// GET /api/stocks/financial/{symbol}
func (h *StockHandler) GetFinancials(w http.ResponseWriter, r *http.Request) {
	if h.statements == nil {
		respondError(w, http.StatusServiceUnavailable, "financial statements are not available")
		return
	}

	symbol, err := symbolVar(r)
	if err != nil {
		respondErr(w, h.logger, err, "")
		return
	}

	st, err := h.statements.Statements(r.Context(), symbol)
	if err != nil {
		respondErr(w, h.logger.WithSymbol(symbol), err, "Failed to retrieve financial data")
		return
	}

	respondData(w, st)
}

// GetHistory returns daily bars for a period
// GET /api/stocks/history/{symbol}?period=1y
func (h *StockHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	symbol, err := symbolVar(r)
	if err != nil {
		respondErr(w, h.logger, err, "")
		return
	}

	series, err := h.history.History(r.Context(), symbol, r.URL.Query().Get("period"))
	if err != nil {
		respondErr(w, h.logger.WithSymbol(symbol), err, "Failed to retrieve price history")
		return
	}

	respondData(w, series)
}

// Search finds symbols by ticker, name or sector
// GET /api/stocks/search?query=toyota&limit=10
func (h *StockHandler) Search(w http.ResponseWriter, r *http.Request) {
	if h.searcher == nil {
		respondError(w, http.StatusServiceUnavailable, "search is not available")
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	q := r.URL.Query().Get("query")
	results, err := h.searcher.Search(r.Context(), q, limit)
	if err != nil {
		respondErr(w, h.logger, err, "Search failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"query":   q,
		"count":   len(results),
		"data":    results,
	})
}

// ListPresets returns the named screening presets
// GET /api/stocks/presets
func (h *StockHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"version": h.presets.Version(),
		"data":    h.presets.All(),
	})
}
