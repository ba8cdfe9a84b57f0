package normalize

import "github.com/koboriakira/stock-investment-2025/internal/contracts"

// FieldRule maps one canonical attribute to its candidate provider keys.
// Keys are tried in order; the first usable value wins.
type FieldRule struct {
	Field string
	Keys  []string

	// SkipZero treats a zero value as absent and moves to the next key.
	// Used where a provider reports 0 for "unknown" (prices, P/E, volume).
	SkipZero bool

	set func(s *contracts.NormalizedStock, v float64)
}

// TextRule maps a descriptive attribute to its candidate keys
type TextRule struct {
	Field string
	Keys  []string
	set   func(s *contracts.NormalizedStock, v string)
}

// TextRules is the precedence table for descriptive fields. Missing values become N/A.
var TextRules = []TextRule{
	{Field: "name", Keys: []string{"longName", "shortName"},
		set: func(s *contracts.NormalizedStock, v string) { s.Name = v }},
	{Field: "sector", Keys: []string{"sector"},
		set: func(s *contracts.NormalizedStock, v string) { s.Sector = v }},
	{Field: "industry", Keys: []string{"industry"},
		set: func(s *contracts.NormalizedStock, v string) { s.Industry = v }},
}

// NumericRules is the precedence table for fundamentals
var NumericRules = []FieldRule{
	{Field: "market_cap", Keys: []string{"marketCap"},
		set: func(s *contracts.NormalizedStock, v float64) { s.MarketCap = &v }},
	{Field: "current_price", Keys: []string{"currentPrice", "regularMarketPrice"}, SkipZero: true,
		set: func(s *contracts.NormalizedStock, v float64) { s.CurrentPrice = &v }},
	{Field: "pe_ratio", Keys: []string{"forwardPE", "trailingPE"}, SkipZero: true,
		set: func(s *contracts.NormalizedStock, v float64) { s.PERatio = &v }},
	{Field: "pb_ratio", Keys: []string{"priceToBook"},
		set: func(s *contracts.NormalizedStock, v float64) { s.PBRatio = &v }},
	{Field: "peg_ratio", Keys: []string{"pegRatio"},
		set: func(s *contracts.NormalizedStock, v float64) { s.PEGRatio = &v }},
	{Field: "dividend_yield", Keys: []string{"dividendYield"},
		set: func(s *contracts.NormalizedStock, v float64) { s.DividendYield = &v }},
	{Field: "beta", Keys: []string{"beta"},
		set: func(s *contracts.NormalizedStock, v float64) { s.Beta = &v }},
	{Field: "roe", Keys: []string{"returnOnEquity"},
		set: func(s *contracts.NormalizedStock, v float64) { s.ROE = &v }},
	{Field: "roa", Keys: []string{"returnOnAssets"},
		set: func(s *contracts.NormalizedStock, v float64) { s.ROA = &v }},
	{Field: "debt_to_equity", Keys: []string{"debtToEquity"},
		set: func(s *contracts.NormalizedStock, v float64) { s.DebtToEquity = &v }},
	{Field: "current_ratio", Keys: []string{"currentRatio"},
		set: func(s *contracts.NormalizedStock, v float64) { s.CurrentRatio = &v }},
	{Field: "quick_ratio", Keys: []string{"quickRatio"},
		set: func(s *contracts.NormalizedStock, v float64) { s.QuickRatio = &v }},
	{Field: "gross_margin", Keys: []string{"grossMargins"},
		set: func(s *contracts.NormalizedStock, v float64) { s.GrossMargin = &v }},
	{Field: "operating_margin", Keys: []string{"operatingMargins"},
		set: func(s *contracts.NormalizedStock, v float64) { s.OperatingMargin = &v }},
	{Field: "profit_margin", Keys: []string{"profitMargins"},
		set: func(s *contracts.NormalizedStock, v float64) { s.ProfitMargin = &v }},
	{Field: "revenue_growth", Keys: []string{"revenueGrowth"},
		set: func(s *contracts.NormalizedStock, v float64) { s.RevenueGrowth = &v }},
	{Field: "earnings_growth", Keys: []string{"earningsGrowth"},
		set: func(s *contracts.NormalizedStock, v float64) { s.EarningsGrowth = &v }},
	{Field: "fifty_two_week_high", Keys: []string{"fiftyTwoWeekHigh"},
		set: func(s *contracts.NormalizedStock, v float64) { s.FiftyTwoWeekHigh = &v }},
	{Field: "fifty_two_week_low", Keys: []string{"fiftyTwoWeekLow"},
		set: func(s *contracts.NormalizedStock, v float64) { s.FiftyTwoWeekLow = &v }},
	{Field: "volume", Keys: []string{"volume", "regularMarketVolume"}, SkipZero: true,
		set: func(s *contracts.NormalizedStock, v float64) { s.Volume = toInt(v) }},
	{Field: "average_volume", Keys: []string{"averageVolume"},
		set: func(s *contracts.NormalizedStock, v float64) { s.AverageVolume = toInt(v) }},
	{Field: "shares_outstanding", Keys: []string{"sharesOutstanding"},
		set: func(s *contracts.NormalizedStock, v float64) { s.SharesOutstanding = toInt(v) }},
	{Field: "float_shares", Keys: []string{"floatShares"},
		set: func(s *contracts.NormalizedStock, v float64) { s.FloatShares = toInt(v) }},
}
