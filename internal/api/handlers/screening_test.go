package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/internal/presets"
	"github.com/koboriakira/stock-investment-2025/pkg/logger"
)

type stubScreener struct {
	got         contracts.ScreeningCriteria
	hadDeadline bool
	err         error
}

func (s *stubScreener) Screen(ctx context.Context, symbols []string, criteria contracts.ScreeningCriteria) (*contracts.ScreeningBatchResult, error) {
	s.got = criteria
	_, s.hadDeadline = ctx.Deadline()
	if s.err != nil {
		return nil, s.err
	}
	return &contracts.ScreeningBatchResult{RequestID: "req-1", TotalSymbols: len(symbols), Criteria: criteria}, nil
}

type memStore struct {
	saved   map[string]*contracts.ScreeningBatchResult
	saveErr error
}

func (m *memStore) Save(_ context.Context, results ...*contracts.ScreeningBatchResult) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	for _, r := range results {
		m.saved[r.RequestID] = r
	}
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*contracts.ScreeningBatchResult, error) {
	r, ok := m.saved[id]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return r, nil
}

func routed(h *ScreeningHandler) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/screening", h.Screen).Methods("POST")
	r.HandleFunc("/screening/{id}", h.GetSession).Methods("GET")
	return r
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestScreenMergesPresetWithExplicitThresholds(t *testing.T) {
	screener := &stubScreener{}
	h := NewScreeningHandler(screener, presets.NewRegistry(), nil, logger.Nop())

	rec := serve(routed(h), "POST", "/screening", `{"symbols":["AAPL"],"preset":"value","max_pe_ratio":25}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, screener.got.MaxPERatio)
	assert.Equal(t, 25.0, *screener.got.MaxPERatio)
	require.NotNil(t, screener.got.MaxDebtToEquity)
	assert.Equal(t, 100.0, *screener.got.MaxDebtToEquity)
}

func TestScreenPersistsAndServesSession(t *testing.T) {
	store := &memStore{saved: map[string]*contracts.ScreeningBatchResult{}}
	h := routed(NewScreeningHandler(&stubScreener{}, nil, store, logger.Nop()))

	rec := serve(h, "POST", "/screening", `{"symbols":["AAPL","MSFT"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, store.saved, "req-1")

	rec = serve(h, "GET", "/screening/req-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"request_id":"req-1"`)

	rec = serve(h, "GET", "/screening/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScreenAppliesTimeout(t *testing.T) {
	screener := &stubScreener{}
	h := routed(NewScreeningHandler(screener, nil, nil, logger.Nop()).WithTimeout(time.Second))

	rec := serve(h, "POST", "/screening", `{"symbols":["AAPL"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, screener.hadDeadline)
}

func TestScreenSurvivesSaveFailure(t *testing.T) {
	store := &memStore{saveErr: errors.New("connection refused")}
	h := routed(NewScreeningHandler(&stubScreener{}, nil, store, logger.Nop()))

	rec := serve(h, "POST", "/screening", `{"symbols":["AAPL"]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScreenErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"malformed body", `{"symbols":`, nil, http.StatusBadRequest},
		{"invalid request", `{"symbols":[]}`, contracts.NewInvalidRequest("at least one symbol is required"), http.StatusBadRequest},
		{"internal", `{"symbols":["AAPL"]}`, errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := routed(NewScreeningHandler(&stubScreener{err: tc.err}, nil, nil, logger.Nop()))
			rec := serve(h, "POST", "/screening", tc.body)
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestRespondErrHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	respondErr(rec, logger.Nop(), errors.New("dsn=postgres://secret"), "Failed")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
}
