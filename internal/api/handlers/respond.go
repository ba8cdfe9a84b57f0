package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/pkg/logger"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondData(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// respondErr maps the error taxonomy onto status codes.
// Internal errors are logged and hidden from the caller.
func respondErr(w http.ResponseWriter, log *logger.Logger, err error, fallback string) {
	var invalid *contracts.InvalidRequestError
	switch {
	case errors.As(err, &invalid):
		respondError(w, http.StatusBadRequest, invalid.Reason)
	case errors.Is(err, contracts.ErrInvalidRequest):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, contracts.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	default:
		log.WithError(err).Error(fallback)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
