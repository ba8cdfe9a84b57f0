package source

import (
	"context"
	"sort"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
)

// FixtureName identifies the fixture provider in logs
const FixtureName = "fixture"

// FixtureProvider serves a static in-memory table. Read-only after construction.
type FixtureProvider struct {
	records map[string]contracts.RawRecord
}

// NewFixtureProvider creates a provider over the built-in sample table
func NewFixtureProvider() *FixtureProvider {
	return NewFixtureProviderFrom(sampleStocks)
}

// NewFixtureProviderFrom creates a provider over a custom table. Keys are normalized.
func NewFixtureProviderFrom(records map[string]contracts.RawRecord) *FixtureProvider {
	table := make(map[string]contracts.RawRecord, len(records))
	for symbol, rec := range records {
		table[contracts.NormalizeSymbol(symbol)] = rec.Clone()
	}
	return &FixtureProvider{records: table}
}

func (p *FixtureProvider) Name() string {
	return FixtureName
}

// Resolve returns a copy of the fixture record
func (p *FixtureProvider) Resolve(_ context.Context, symbol string) (contracts.RawRecord, error) {
	rec, ok := p.Lookup(symbol)
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return rec, nil
}

// Lookup is Resolve without the error
func (p *FixtureProvider) Lookup(symbol string) (contracts.RawRecord, bool) {
	rec, ok := p.records[contracts.NormalizeSymbol(symbol)]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// Has reports whether the table carries symbol
func (p *FixtureProvider) Has(symbol string) bool {
	_, ok := p.records[contracts.NormalizeSymbol(symbol)]
	return ok
}

// Symbols lists the table in sorted order
func (p *FixtureProvider) Symbols() []string {
	out := make([]string, 0, len(p.records))
	for s := range p.records {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// sampleStocks is the development data set
var sampleStocks = map[string]contracts.RawRecord{
	"AAPL": {
		"longName":            "Apple Inc.",
		"shortName":           "Apple",
		"sector":              "Technology",
		"industry":            "Consumer Electronics",
		"marketCap":           int64(2800000000000),
		"currentPrice":        190.50,
		"regularMarketPrice":  190.50,
		"forwardPE":           28.5,
		"trailingPE":          30.2,
		"priceToBook":         45.8,
		"pegRatio":            2.1,
		"dividendYield":       0.0044,
		"beta":                1.25,
		"returnOnEquity":      1.479,
		"returnOnAssets":      0.229,
		"debtToEquity":        195.0,
		"currentRatio":        1.04,
		"quickRatio":          0.95,
		"grossMargins":        0.381,
		"operatingMargins":    0.297,
		"profitMargins":       0.246,
		"revenueGrowth":       0.023,
		"earningsGrowth":      0.11,
		"fiftyTwoWeekHigh":    199.62,
		"fiftyTwoWeekLow":     164.08,
		"volume":              int64(45678901),
		"regularMarketVolume": int64(45678901),
		"averageVolume":       int64(52000000),
		"sharesOutstanding":   int64(15728700000),
		"floatShares":         int64(15700000000),
	},
	"MSFT": {
		"longName":            "Microsoft Corporation",
		"shortName":           "Microsoft",
		"sector":              "Technology",
		"industry":            "Software—Infrastructure",
		"marketCap":           int64(2600000000000),
		"currentPrice":        350.20,
		"regularMarketPrice":  350.20,
		"forwardPE":           25.8,
		"trailingPE":          28.5,
		"priceToBook":         12.5,
		"pegRatio":            1.8,
		"dividendYield":       0.0072,
		"beta":                0.89,
		"returnOnEquity":      0.428,
		"returnOnAssets":      0.168,
		"debtToEquity":        47.0,
		"currentRatio":        1.77,
		"quickRatio":          1.75,
		"grossMargins":        0.688,
		"operatingMargins":    0.424,
		"profitMargins":       0.362,
		"revenueGrowth":       0.127,
		"earningsGrowth":      0.095,
		"fiftyTwoWeekHigh":    384.30,
		"fiftyTwoWeekLow":     213.43,
		"volume":              int64(23456789),
		"regularMarketVolume": int64(23456789),
		"averageVolume":       int64(28000000),
		"sharesOutstanding":   int64(7430000000),
		"floatShares":         int64(7425000000),
	},
	"GOOGL": {
		"longName":            "Alphabet Inc.",
		"shortName":           "Alphabet",
		"sector":              "Technology",
		"industry":            "Internet Content & Information",
		"marketCap":           int64(1700000000000),
		"currentPrice":        135.85,
		"regularMarketPrice":  135.85,
		"forwardPE":           22.1,
		"trailingPE":          25.6,
		"priceToBook":         5.8,
		"pegRatio":            1.4,
		"dividendYield":       nil,
		"beta":                1.05,
		"returnOnEquity":      0.276,
		"returnOnAssets":      0.134,
		"debtToEquity":        14.8,
		"currentRatio":        2.85,
		"quickRatio":          2.85,
		"grossMargins":        0.548,
		"operatingMargins":    0.278,
		"profitMargins":       0.211,
		"revenueGrowth":       0.071,
		"earningsGrowth":      0.089,
		"fiftyTwoWeekHigh":    153.78,
		"fiftyTwoWeekLow":     83.34,
		"volume":              int64(34567890),
		"regularMarketVolume": int64(34567890),
		"averageVolume":       int64(31000000),
		"sharesOutstanding":   int64(12900000000),
		"floatShares":         int64(12850000000),
	},
	"6758.T": {
		"longName":            "ソニーグループ株式会社",
		"shortName":           "ソニーG",
		"sector":              "Technology",
		"industry":            "Consumer Electronics",
		"marketCap":           int64(12000000000000),
		"currentPrice":        12500.0,
		"regularMarketPrice":  12500.0,
		"forwardPE":           15.8,
		"trailingPE":          17.2,
		"priceToBook":         1.8,
		"pegRatio":            1.2,
		"dividendYield":       0.006,
		"beta":                1.15,
		"returnOnEquity":      0.125,
		"returnOnAssets":      0.078,
		"debtToEquity":        42.0,
		"currentRatio":        1.35,
		"quickRatio":          1.15,
		"grossMargins":        0.425,
		"operatingMargins":    0.135,
		"profitMargins":       0.098,
		"revenueGrowth":       0.089,
		"earningsGrowth":      0.145,
		"fiftyTwoWeekHigh":    13850.0,
		"fiftyTwoWeekLow":     9850.0,
		"volume":              int64(8765432),
		"regularMarketVolume": int64(8765432),
		"averageVolume":       int64(12000000),
		"sharesOutstanding":   int64(1240000000),
		"floatShares":         int64(1235000000),
	},
	"9984.T": {
		"longName":            "ソフトバンクグループ株式会社",
		"shortName":           "SBG",
		"sector":              "Technology",
		"industry":            "Telecom Services",
		"marketCap":           int64(8500000000000),
		"currentPrice":        5850.0,
		"regularMarketPrice":  5850.0,
		"forwardPE":           12.5,
		"trailingPE":          14.8,
		"priceToBook":         0.95,
		"pegRatio":            0.9,
		"dividendYield":       0.012,
		"beta":                1.45,
		"returnOnEquity":      0.068,
		"returnOnAssets":      0.028,
		"debtToEquity":        185.0,
		"currentRatio":        1.08,
		"quickRatio":          0.95,
		"grossMargins":        0.385,
		"operatingMargins":    0.125,
		"profitMargins":       0.065,
		"revenueGrowth":       0.045,
		"earningsGrowth":      0.089,
		"fiftyTwoWeekHigh":    6980.0,
		"fiftyTwoWeekLow":     4750.0,
		"volume":              int64(15678901),
		"regularMarketVolume": int64(15678901),
		"averageVolume":       int64(18000000),
		"sharesOutstanding":   int64(1500000000),
		"floatShares":         int64(1485000000),
	},
	"7203.T": {
		"longName":            "トヨタ自動車株式会社",
		"shortName":           "トヨタ",
		"sector":              "Consumer Cyclical",
		"industry":            "Auto Manufacturers",
		"marketCap":           int64(25000000000000),
		"currentPrice":        2850.0,
		"regularMarketPrice":  2850.0,
		"forwardPE":           9.2,
		"trailingPE":          10.5,
		"priceToBook":         0.85,
		"pegRatio":            0.8,
		"dividendYield":       0.025,
		"beta":                0.65,
		"returnOnEquity":      0.089,
		"returnOnAssets":      0.045,
		"debtToEquity":        85.0,
		"currentRatio":        1.15,
		"quickRatio":          0.95,
		"grossMargins":        0.198,
		"operatingMargins":    0.089,
		"profitMargins":       0.078,
		"revenueGrowth":       0.067,
		"earningsGrowth":      0.112,
		"fiftyTwoWeekHigh":    3045.0,
		"fiftyTwoWeekLow":     2156.0,
		"volume":              int64(12345678),
		"regularMarketVolume": int64(12345678),
		"averageVolume":       int64(15000000),
		"sharesOutstanding":   int64(14720000000),
		"floatShares":         int64(14700000000),
	},
}
