package screening

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/internal/scoring"
	"github.com/koboriakira/stock-investment-2025/internal/source"
	"github.com/koboriakira/stock-investment-2025/pkg/config"
	"github.com/koboriakira/stock-investment-2025/pkg/logger"
)

func f(v float64) *float64 { return &v }

// fakeGateway serves canned stocks; a symbol listed in panics blows up
type fakeGateway struct {
	stocks map[string]*contracts.NormalizedStock
	panics map[string]bool
	calls  int32
}

func (g *fakeGateway) Fetch(_ context.Context, symbol string) (*contracts.NormalizedStock, error) {
	atomic.AddInt32(&g.calls, 1)
	if g.panics[symbol] {
		panic("unexpected provider state")
	}
	s, ok := g.stocks[symbol]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return s, nil
}

// scoreByName returns a fixed overall score per symbol
type scoreByName map[string]float64

func (s scoreByName) Score(stock *contracts.NormalizedStock) *contracts.ScoreResult {
	return &contracts.ScoreResult{Symbol: stock.Symbol, OverallScore: s[stock.Symbol]}
}

func screeningConfig(workers int) config.ScreeningConfig {
	return config.ScreeningConfig{MaxSymbolsPerRequest: 10, Workers: workers}
}

func fixtureEngine(t *testing.T) *Engine {
	t.Helper()
	g := source.NewGateway(nil, logger.Nop(), source.NewFixtureProvider())
	return NewEngine(g, scoring.NewEngine(logger.Nop()), screeningConfig(1), logger.Nop())
}

func TestScreenRejectsOversizedBatch(t *testing.T) {
	g := &fakeGateway{}
	e := NewEngine(g, scoreByName{}, config.ScreeningConfig{MaxSymbolsPerRequest: 2, Workers: 1}, logger.Nop())

	_, err := e.Screen(context.Background(), []string{"A", "B", "C"}, contracts.ScreeningCriteria{})

	assert.ErrorIs(t, err, contracts.ErrInvalidRequest)
	var ire *contracts.InvalidRequestError
	require.ErrorAs(t, err, &ire)
	assert.Contains(t, ire.Reason, "maximum 2")
	assert.Zero(t, atomic.LoadInt32(&g.calls), "no fetch may happen")
}

func TestScreenRejectsEmptyBatch(t *testing.T) {
	_, err := fixtureEngine(t).Screen(context.Background(), nil, contracts.ScreeningCriteria{})
	assert.ErrorIs(t, err, contracts.ErrInvalidRequest)
}

func TestScreenOrderingStable(t *testing.T) {
	for _, workers := range []int{1, 4} {
		g := &fakeGateway{stocks: map[string]*contracts.NormalizedStock{
			"A": {Symbol: "A"}, "B": {Symbol: "B"}, "C": {Symbol: "C"}, "D": {Symbol: "D"},
		}}
		scores := scoreByName{"A": 3.0, "B": 7.5, "C": 7.5, "D": 1.0}
		e := NewEngine(g, scores, screeningConfig(workers), logger.Nop())

		res, err := e.Screen(context.Background(), []string{"A", "B", "C", "D"}, contracts.ScreeningCriteria{})
		require.NoError(t, err)

		var order []string
		for _, item := range res.Results {
			order = append(order, item.Symbol)
		}
		assert.Equal(t, []string{"B", "C", "A", "D"}, order, "workers=%d", workers)
		assert.Equal(t, 4, res.PassedSymbols)
	}
}

func TestScreenIsolatesPanics(t *testing.T) {
	g := &fakeGateway{
		stocks: map[string]*contracts.NormalizedStock{"A": {Symbol: "A"}, "C": {Symbol: "C"}},
		panics: map[string]bool{"B": true},
	}
	e := NewEngine(g, scoreByName{"A": 1, "C": 2}, screeningConfig(1), logger.Nop())

	var res *contracts.ScreeningBatchResult
	var err error
	require.NotPanics(t, func() {
		res, err = e.Screen(context.Background(), []string{"A", "B", "C"}, contracts.ScreeningCriteria{})
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalSymbols)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "C", res.Results[0].Symbol)
	assert.Equal(t, "A", res.Results[1].Symbol)
}

func TestScreenDropsInvalidSymbol(t *testing.T) {
	res, err := fixtureEngine(t).Screen(context.Background(), []string{"AAPL", "WAYTOOLONGSYMBOL"}, contracts.ScreeningCriteria{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalSymbols)
	assert.Len(t, res.Results, 1)
}

func TestScreenFixtureMaxPE(t *testing.T) {
	res, err := fixtureEngine(t).Screen(context.Background(), []string{"AAPL", "MSFT"},
		contracts.ScreeningCriteria{MaxPERatio: f(20)})
	require.NoError(t, err)

	require.Len(t, res.Results, 2)
	for _, item := range res.Results {
		assert.False(t, item.MeetsCriteria, item.Symbol)
		assert.Equal(t, []string{"max_pe_ratio"}, item.FailedCriteria)
	}
	assert.Equal(t, 0, res.PassedSymbols)
	assert.Equal(t, 2, res.TotalSymbols)
}

func TestScreenNotFound(t *testing.T) {
	res, err := fixtureEngine(t).Screen(context.Background(), []string{"NOTREAL"}, contracts.ScreeningCriteria{})
	require.NoError(t, err)

	assert.Equal(t, 1, res.TotalSymbols)
	assert.Empty(t, res.Results)
	assert.NotNil(t, res.Results)
	assert.Equal(t, 0, res.PassedSymbols)
}

func TestScreenMetadata(t *testing.T) {
	e := fixtureEngine(t)
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(1500 * time.Millisecond)}
	e.now = func() time.Time {
		t := ticks[0]
		ticks = ticks[1:]
		return t
	}
	e.newID = func() string { return "fixed-id" }

	criteria := contracts.ScreeningCriteria{MinROE: f(0.1)}
	res, err := e.Screen(context.Background(), []string{"aapl", "7203.t"}, criteria)
	require.NoError(t, err)

	assert.Equal(t, "fixed-id", res.RequestID)
	assert.Equal(t, 1.5, res.ExecutionTime)
	assert.Equal(t, base.Add(1500*time.Millisecond), res.LastUpdated)
	assert.Equal(t, criteria, res.Criteria)
	assert.Equal(t, 1, res.PassedSymbols)

	bySymbol := map[string]contracts.ScreeningResultItem{}
	for _, item := range res.Results {
		bySymbol[item.Symbol] = item
	}
	assert.True(t, bySymbol["AAPL"].MeetsCriteria)
	assert.False(t, bySymbol["7203.T"].MeetsCriteria)
	assert.Equal(t, "Apple Inc.", bySymbol["AAPL"].Name)
}

func TestScreenUniqueRequestIDs(t *testing.T) {
	e := fixtureEngine(t)
	a, err := e.Screen(context.Background(), []string{"AAPL"}, contracts.ScreeningCriteria{})
	require.NoError(t, err)
	b, err := e.Screen(context.Background(), []string{"AAPL"}, contracts.ScreeningCriteria{})
	require.NoError(t, err)
	assert.NotEqual(t, a.RequestID, b.RequestID)
}

func TestEvaluate(t *testing.T) {
	stock := &contracts.NormalizedStock{
		MarketCap:    f(1e12),
		PERatio:      f(15),
		ROE:          f(0.2),
		DebtToEquity: nil,
		CurrentRatio: f(1.5),
	}

	tests := []struct {
		name     string
		criteria contracts.ScreeningCriteria
		want     []string
	}{
		{"no criteria", contracts.ScreeningCriteria{}, nil},
		{"all pass", contracts.ScreeningCriteria{MinMarketCap: f(1e12), MaxPERatio: f(15), MinROE: f(0.2)}, nil},
		{"missing fundamental passes", contracts.ScreeningCriteria{MaxDebtToEquity: f(0)}, nil},
		{"zero threshold is real", contracts.ScreeningCriteria{MaxPERatio: f(0)}, []string{"max_pe_ratio"}},
		{"several fail", contracts.ScreeningCriteria{MinMarketCap: f(2e12), MinCurrentRatio: f(2)},
			[]string{"min_market_cap", "min_current_ratio"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(stock, tt.criteria))
		})
	}
}

func TestScreenGatewayErrorLogged(t *testing.T) {
	g := &erroringGateway{err: errors.New("unexpected")}
	e := NewEngine(g, scoreByName{}, screeningConfig(2), logger.Nop())

	res, err := e.Screen(context.Background(), []string{"A", "B"}, contracts.ScreeningCriteria{})
	require.NoError(t, err)
	assert.Empty(t, res.Results)
}

type erroringGateway struct{ err error }

func (g *erroringGateway) Fetch(context.Context, string) (*contracts.NormalizedStock, error) {
	return nil, g.err
}
