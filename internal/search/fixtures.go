package search

import (
	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/internal/normalize"
	"github.com/koboriakira/stock-investment-2025/internal/source"
	"github.com/koboriakira/stock-investment-2025/pkg/logger"
)

// NewFixtureIndex indexes every stock of the fixture table
func NewFixtureIndex(fixtures *source.FixtureProvider, log *logger.Logger) (*Index, error) {
	n := normalize.New()
	symbols := fixtures.Symbols()

	stocks := make([]*contracts.NormalizedStock, 0, len(symbols))
	shortNames := make(map[string]string, len(symbols))
	for _, symbol := range symbols {
		raw, _ := fixtures.Lookup(symbol)
		stocks = append(stocks, n.Normalize(symbol, raw))
		if short, ok := raw["shortName"].(string); ok {
			shortNames[symbol] = short
		}
	}

	return NewIndex(stocks, shortNames, log)
}
