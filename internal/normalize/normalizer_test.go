package normalize

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
)

var fixedNow = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func newTestNormalizer() *Normalizer {
	return New().WithClock(func() time.Time { return fixedNow })
}

func TestNormalizeFullRecord(t *testing.T) {
	raw := contracts.RawRecord{
		"longName":           "Apple Inc.",
		"shortName":          "Apple",
		"sector":             "Technology",
		"industry":           "Consumer Electronics",
		"marketCap":          3000000000000,
		"currentPrice":       195.5,
		"regularMarketPrice": 190.0,
		"forwardPE":          28.5,
		"trailingPE":         30.1,
		"debtToEquity":       195.0,
		"returnOnEquity":     0.147,
		"currentRatio":       1.07,
		"profitMargins":      0.253,
		"volume":             int64(45000000),
	}

	s := newTestNormalizer().Normalize(" aapl ", raw)

	assert.Equal(t, "AAPL", s.Symbol)
	assert.Equal(t, "Apple Inc.", s.Name)
	assert.Equal(t, "Technology", s.Sector)
	assert.Equal(t, "Consumer Electronics", s.Industry)
	require.NotNil(t, s.MarketCap)
	assert.Equal(t, 3e12, *s.MarketCap)
	require.NotNil(t, s.CurrentPrice)
	assert.Equal(t, 195.5, *s.CurrentPrice)
	require.NotNil(t, s.PERatio)
	assert.Equal(t, 28.5, *s.PERatio)
	require.NotNil(t, s.Volume)
	assert.Equal(t, int64(45000000), *s.Volume)
	assert.Equal(t, fixedNow, s.LastUpdated)
}

func TestNormalizePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		raw   contracts.RawRecord
		check func(t *testing.T, s *contracts.NormalizedStock)
	}{
		{
			name: "short name when long name missing",
			raw:  contracts.RawRecord{"shortName": "Sony"},
			check: func(t *testing.T, s *contracts.NormalizedStock) {
				assert.Equal(t, "Sony", s.Name)
			},
		},
		{
			name: "blank long name falls through",
			raw:  contracts.RawRecord{"longName": "  ", "shortName": "Sony"},
			check: func(t *testing.T, s *contracts.NormalizedStock) {
				assert.Equal(t, "Sony", s.Name)
			},
		},
		{
			name: "regular market price when current price missing",
			raw:  contracts.RawRecord{"regularMarketPrice": 101.25},
			check: func(t *testing.T, s *contracts.NormalizedStock) {
				require.NotNil(t, s.CurrentPrice)
				assert.Equal(t, 101.25, *s.CurrentPrice)
			},
		},
		{
			name: "zero current price falls through",
			raw:  contracts.RawRecord{"currentPrice": 0.0, "regularMarketPrice": 99.0},
			check: func(t *testing.T, s *contracts.NormalizedStock) {
				require.NotNil(t, s.CurrentPrice)
				assert.Equal(t, 99.0, *s.CurrentPrice)
			},
		},
		{
			name: "trailing PE when forward missing",
			raw:  contracts.RawRecord{"trailingPE": 14.2},
			check: func(t *testing.T, s *contracts.NormalizedStock) {
				require.NotNil(t, s.PERatio)
				assert.Equal(t, 14.2, *s.PERatio)
			},
		},
		{
			name: "regular market volume fallback",
			raw:  contracts.RawRecord{"regularMarketVolume": json.Number("1200")},
			check: func(t *testing.T, s *contracts.NormalizedStock) {
				require.NotNil(t, s.Volume)
				assert.Equal(t, int64(1200), *s.Volume)
			},
		},
		{
			name: "zero debt to equity is kept",
			raw:  contracts.RawRecord{"debtToEquity": 0},
			check: func(t *testing.T, s *contracts.NormalizedStock) {
				require.NotNil(t, s.DebtToEquity)
				assert.Equal(t, 0.0, *s.DebtToEquity)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, newTestNormalizer().Normalize("X", tt.raw))
		})
	}
}

func TestNormalizeMissingAndMistyped(t *testing.T) {
	raw := contracts.RawRecord{
		"marketCap":      "3T",
		"forwardPE":      math.NaN(),
		"trailingPE":     math.Inf(1),
		"debtToEquity":   nil,
		"returnOnEquity": true,
		"longName":       42,
	}

	var s *contracts.NormalizedStock
	require.NotPanics(t, func() {
		s = newTestNormalizer().Normalize("bad", raw)
	})

	assert.Equal(t, "BAD", s.Symbol)
	assert.Equal(t, contracts.NotAvailable, s.Name)
	assert.Equal(t, contracts.NotAvailable, s.Sector)
	assert.Equal(t, contracts.NotAvailable, s.Industry)
	assert.Nil(t, s.MarketCap)
	assert.Nil(t, s.PERatio)
	assert.Nil(t, s.DebtToEquity)
	assert.Nil(t, s.ROE)
	assert.Nil(t, s.Volume)
}

func TestNormalizeOutOfRangeCounts(t *testing.T) {
	s := newTestNormalizer().Normalize("x", contracts.RawRecord{
		"volume":            1e30,
		"averageVolume":     -1e19,
		"sharesOutstanding": 15.6e9,
		"floatShares":       math.MaxInt64,
	})

	assert.Nil(t, s.Volume)
	assert.Nil(t, s.AverageVolume)
	require.NotNil(t, s.SharesOutstanding)
	assert.Equal(t, int64(15_600_000_000), *s.SharesOutstanding)
	assert.Nil(t, s.FloatShares, "MaxInt64 rounds up to 2^63 as a float")
}

func TestNormalizeNilRecord(t *testing.T) {
	s := Normalize("msft", nil)
	assert.Equal(t, "MSFT", s.Symbol)
	assert.Equal(t, contracts.NotAvailable, s.Name)
	assert.Nil(t, s.CurrentPrice)
	assert.False(t, s.LastUpdated.IsZero())
}

func TestRuleTablesCoverDistinctFields(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range NumericRules {
		assert.False(t, seen[r.Field], "duplicate rule %s", r.Field)
		assert.NotEmpty(t, r.Keys, r.Field)
		seen[r.Field] = true
	}
	for _, r := range TextRules {
		assert.False(t, seen[r.Field], "duplicate rule %s", r.Field)
		seen[r.Field] = true
	}
}
