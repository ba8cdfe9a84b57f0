package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/internal/source"
	"github.com/koboriakira/stock-investment-2025/pkg/logger"
)

func newFixtureIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewFixtureIndex(source.NewFixtureProvider(), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func symbols(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Symbol
	}
	return out
}

func TestSearchExactSymbolFirst(t *testing.T) {
	results, err := newFixtureIndex(t).Search(context.Background(), "msft", 0)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "MSFT", results[0].Symbol)
	assert.Equal(t, "Microsoft Corporation", results[0].Name)
	assert.Equal(t, 1.0, results[0].Relevance)
}

func TestSearchByName(t *testing.T) {
	results, err := newFixtureIndex(t).Search(context.Background(), "Alphabet", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "GOOGL", results[0].Symbol)
}

func TestSearchTokyoTicker(t *testing.T) {
	results, err := newFixtureIndex(t).Search(context.Background(), "7203.t", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "7203.T", results[0].Symbol)
}

func TestSearchBySector(t *testing.T) {
	results, err := newFixtureIndex(t).Search(context.Background(), "technology", 50)
	require.NoError(t, err)

	assert.Subset(t, symbols(results), []string{"AAPL", "MSFT", "GOOGL", "6758.T", "9984.T"})
	assert.NotContains(t, symbols(results), "7203.T")
	for _, r := range results {
		assert.Greater(t, r.Relevance, 0.0)
		assert.LessOrEqual(t, r.Relevance, 1.0)
	}
}

func TestSearchLimit(t *testing.T) {
	results, err := newFixtureIndex(t).Search(context.Background(), "technology", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchNoHits(t *testing.T) {
	results, err := newFixtureIndex(t).Search(context.Background(), "zzzzqqq", 10)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchValidation(t *testing.T) {
	idx := newFixtureIndex(t)

	tests := []struct {
		name  string
		query string
		limit int
	}{
		{"empty query", "  ", 10},
		{"limit too large", "apple", 51},
		{"negative limit", "apple", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := idx.Search(context.Background(), tt.query, tt.limit)
			assert.ErrorIs(t, err, contracts.ErrInvalidRequest)
		})
	}
}
