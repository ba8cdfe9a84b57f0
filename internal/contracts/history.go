package contracts

import "time"

// Valid history periods
var HistoryPeriods = []string{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"}

// DefaultHistoryPeriod is used when the caller names none
const DefaultHistoryPeriod = "1y"

// ValidatePeriod rejects periods outside HistoryPeriods
func ValidatePeriod(period string) error {
	for _, p := range HistoryPeriods {
		if p == period {
			return nil
		}
	}
	return NewInvalidRequest("invalid period %q, valid periods: %v", period, HistoryPeriods)
}

// PriceBar is one daily OHLCV row
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// HistoricalSeries is a price history for one symbol and period
type HistoricalSeries struct {
	Symbol      string     `json:"symbol"`
	Period      string     `json:"period"`
	Bars        []PriceBar `json:"data"`
	Synthetic   bool       `json:"synthetic"`
	LastUpdated time.Time  `json:"last_updated"`
}
