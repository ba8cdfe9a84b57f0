package contracts

import (
	"strings"
	"time"
)

// NotAvailable marks a descriptive field the provider did not report.
// It is a real value, distinct from a field that was never requested.
const NotAvailable = "N/A"

// MaxSymbolLength is the longest ticker accepted at the boundary
const MaxSymbolLength = 10

// RawRecord is the provider-specific key/value bag fetched for one symbol
type RawRecord map[string]interface{}

// Clone returns a shallow copy so callers cannot mutate shared tables
func (r RawRecord) Clone() RawRecord {
	out := make(RawRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// NormalizedStock is the canonical stock-info record.
// Every fundamental is independently nullable; nil means the provider had no value.
// ⭐ SSOT: canonical stock attributes
type NormalizedStock struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`

	MarketCap    *float64 `json:"market_cap"`
	CurrentPrice *float64 `json:"current_price"`

	// Valuation
	PERatio       *float64 `json:"pe_ratio"`
	PBRatio       *float64 `json:"pb_ratio"`
	PEGRatio      *float64 `json:"peg_ratio"`
	DividendYield *float64 `json:"dividend_yield"`
	Beta          *float64 `json:"beta"`

	// Quality
	ROE          *float64 `json:"roe"`
	ROA          *float64 `json:"roa"`
	DebtToEquity *float64 `json:"debt_to_equity"`
	CurrentRatio *float64 `json:"current_ratio"`
	QuickRatio   *float64 `json:"quick_ratio"`

	// Margins and growth
	GrossMargin     *float64 `json:"gross_margin"`
	OperatingMargin *float64 `json:"operating_margin"`
	ProfitMargin    *float64 `json:"profit_margin"`
	RevenueGrowth   *float64 `json:"revenue_growth"`
	EarningsGrowth  *float64 `json:"earnings_growth"`

	// Trading
	FiftyTwoWeekHigh  *float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow   *float64 `json:"fifty_two_week_low"`
	Volume            *int64   `json:"volume"`
	AverageVolume     *int64   `json:"average_volume"`
	SharesOutstanding *int64   `json:"shares_outstanding"`
	FloatShares       *int64   `json:"float_shares"`

	LastUpdated time.Time `json:"last_updated"`
}

// NormalizeSymbol trims and uppercases a ticker
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidateSymbol checks a normalized ticker is 1..MaxSymbolLength characters
func ValidateSymbol(symbol string) error {
	n := len([]rune(symbol))
	if n == 0 || n > MaxSymbolLength {
		return NewInvalidRequest("symbol must be 1-%d characters, got %q", MaxSymbolLength, symbol)
	}
	return nil
}
