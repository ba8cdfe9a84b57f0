// Package search finds symbols in the fixture table by ticker, name, sector or industry.
package search

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/pkg/logger"
)

// Limit bounds
const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// Result is one search hit
type Result struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Sector    string  `json:"sector"`
	Relevance float64 `json:"relevance"`
}

// document is what gets indexed per stock
type document struct {
	SymbolKey string `json:"symbol_key"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	Sector    string `json:"sector"`
	Industry  string `json:"industry"`
}

// Index is an in-memory bleve index over a fixed set of stocks
type Index struct {
	index  bleve.Index
	stocks map[string]*contracts.NormalizedStock
	logger *logger.Logger
}

// NewIndex indexes stocks. shortNames is optional extra text per symbol.
func NewIndex(stocks []*contracts.NormalizedStock, shortNames map[string]string, log *logger.Logger) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	batch := idx.NewBatch()
	bySymbol := make(map[string]*contracts.NormalizedStock, len(stocks))
	for _, s := range stocks {
		doc := document{
			SymbolKey: strings.ToLower(s.Symbol),
			Name:      s.Name,
			ShortName: shortNames[s.Symbol],
			Sector:    s.Sector,
			Industry:  s.Industry,
		}
		if err := batch.Index(s.Symbol, doc); err != nil {
			return nil, fmt.Errorf("failed to add %s to batch: %w", s.Symbol, err)
		}
		bySymbol[s.Symbol] = s
	}
	if err := idx.Batch(batch); err != nil {
		return nil, fmt.Errorf("failed to execute batch: %w", err)
	}

	return &Index{
		index:  idx,
		stocks: bySymbol,
		logger: log.WithField("module", "search"),
	}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	stockMapping := bleve.NewDocumentMapping()

	symbolField := bleve.NewTextFieldMapping()
	symbolField.Analyzer = keyword.Name
	stockMapping.AddFieldMappingsAt("symbol_key", symbolField)

	for _, field := range []string{"name", "short_name", "sector", "industry"} {
		stockMapping.AddFieldMappingsAt(field, bleve.NewTextFieldMapping())
	}

	indexMapping.DefaultMapping = stockMapping
	return indexMapping
}

// Search ranks stocks against q. limit 0 means DefaultLimit.
func (i *Index) Search(ctx context.Context, q string, limit int) ([]Result, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, contracts.NewInvalidRequest("query must not be empty")
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return nil, contracts.NewInvalidRequest("limit must be between 1 and %d, got %d", MaxLimit, limit)
	}

	req := bleve.NewSearchRequestOptions(buildQuery(q), limit, 0, false)
	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, 0, len(res.Hits))
	if len(res.Hits) == 0 {
		return results, nil
	}

	top := res.Hits[0].Score
	for _, hit := range res.Hits {
		stock, ok := i.stocks[hit.ID]
		if !ok {
			continue
		}
		relevance := 1.0
		if top > 0 {
			relevance = math.Round(hit.Score/top*100) / 100
		}
		results = append(results, Result{
			Symbol:    stock.Symbol,
			Name:      stock.Name,
			Sector:    stock.Sector,
			Relevance: relevance,
		})
	}

	i.logger.WithFields(map[string]interface{}{
		"query": q,
		"hits":  len(results),
	}).Debug("Search completed")

	return results, nil
}

// buildQuery boosts exact ticker matches over prefix and text matches
func buildQuery(q string) query.Query {
	lower := strings.ToLower(q)

	exact := bleve.NewTermQuery(lower)
	exact.SetField("symbol_key")
	exact.SetBoost(10.0)

	prefix := bleve.NewPrefixQuery(lower)
	prefix.SetField("symbol_key")
	prefix.SetBoost(5.0)

	name := bleve.NewMatchQuery(q)
	name.SetField("name")
	name.SetBoost(3.0)

	short := bleve.NewMatchQuery(q)
	short.SetField("short_name")
	short.SetBoost(3.0)

	namePrefix := bleve.NewPrefixQuery(lower)
	namePrefix.SetField("name")
	namePrefix.SetBoost(2.0)

	sector := bleve.NewMatchQuery(q)
	sector.SetField("sector")

	industry := bleve.NewMatchQuery(q)
	industry.SetField("industry")

	return bleve.NewDisjunctionQuery(exact, prefix, name, short, namePrefix, sector, industry)
}

// Close releases the index
func (i *Index) Close() error {
	return i.index.Close()
}
