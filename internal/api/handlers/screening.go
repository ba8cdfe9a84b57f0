package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/internal/presets"
	"github.com/koboriakira/stock-investment-2025/internal/screening"
	"github.com/koboriakira/stock-investment-2025/pkg/logger"
)

// ScreeningRequest is the POST body. Explicit thresholds override the preset's.
type ScreeningRequest struct {
	Symbols []string `json:"symbols"`
	Preset  string   `json:"preset,omitempty"`
	contracts.ScreeningCriteria
}

// ScreeningHandler runs batch screens
type ScreeningHandler struct {
	screener contracts.Screener
	presets  *presets.Registry
	store    screening.SessionStore
	timeout  time.Duration
	logger   *logger.Logger
}

// NewScreeningHandler creates a new screening handler. store may be nil.
func NewScreeningHandler(screener contracts.Screener, registry *presets.Registry, store screening.SessionStore, log *logger.Logger) *ScreeningHandler {
	if registry == nil {
		registry = presets.NewRegistry()
	}
	return &ScreeningHandler{
		screener: screener,
		presets:  registry,
		store:    store,
		logger:   log,
	}
}

// WithTimeout bounds one screening request; zero means no bound
func (h *ScreeningHandler) WithTimeout(d time.Duration) *ScreeningHandler {
	h.timeout = d
	return h
}

// Screen evaluates a batch of symbols
// POST /api/stocks/screening
func (h *ScreeningHandler) Screen(w http.ResponseWriter, r *http.Request) {
	var req ScreeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	criteria, err := h.presets.Resolve(req.Preset, req.ScreeningCriteria)
	if err != nil {
		respondErr(w, h.logger, err, "")
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.screener.Screen(ctx, req.Symbols, criteria)
	if err != nil {
		respondErr(w, h.logger, err, "Screening failed")
		return
	}

	if h.store != nil {
		// A failed save does not lose the computed result
		if err := h.store.Save(r.Context(), result); err != nil {
			h.logger.WithError(err).WithField("request_id", result.RequestID).
				Error("Failed to save screening session")
		}
	}

	respondData(w, result)
}

// GetSession returns a stored screening result
// GET /api/stocks/screening/{id}
func (h *ScreeningHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, http.StatusServiceUnavailable, "screening sessions are not persisted")
		return
	}

	id := mux.Vars(r)["id"]
	result, err := h.store.Get(r.Context(), id)
	if err != nil {
		respondErr(w, h.logger.WithField("request_id", id), err, "Failed to retrieve screening session")
		return
	}

	respondData(w, result)
}
