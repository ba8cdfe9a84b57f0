package contracts

import "time"

// ScreeningCriteria holds optional thresholds. A nil threshold is vacuously satisfied.
type ScreeningCriteria struct {
	MinMarketCap    *float64 `json:"min_market_cap,omitempty" yaml:"min_market_cap"`
	MaxPERatio      *float64 `json:"max_pe_ratio,omitempty" yaml:"max_pe_ratio"`
	MinROE          *float64 `json:"min_roe,omitempty" yaml:"min_roe"`
	MaxDebtToEquity *float64 `json:"max_debt_to_equity,omitempty" yaml:"max_debt_to_equity"`
	MinCurrentRatio *float64 `json:"min_current_ratio,omitempty" yaml:"min_current_ratio"`
}

// Override returns c with every threshold set in o replacing c's
func (c ScreeningCriteria) Override(o ScreeningCriteria) ScreeningCriteria {
	if o.MinMarketCap != nil {
		c.MinMarketCap = o.MinMarketCap
	}
	if o.MaxPERatio != nil {
		c.MaxPERatio = o.MaxPERatio
	}
	if o.MinROE != nil {
		c.MinROE = o.MinROE
	}
	if o.MaxDebtToEquity != nil {
		c.MaxDebtToEquity = o.MaxDebtToEquity
	}
	if o.MinCurrentRatio != nil {
		c.MinCurrentRatio = o.MinCurrentRatio
	}
	return c
}

// IsEmpty reports whether no threshold is set
func (c ScreeningCriteria) IsEmpty() bool {
	return c.MinMarketCap == nil && c.MaxPERatio == nil && c.MinROE == nil &&
		c.MaxDebtToEquity == nil && c.MinCurrentRatio == nil
}

// ScreeningResultItem is one evaluated symbol of a batch
type ScreeningResultItem struct {
	Symbol         string   `json:"symbol"`
	Name           string   `json:"name"`
	Score          float64  `json:"score"`
	MarketCap      *float64 `json:"market_cap"`
	PERatio        *float64 `json:"pe_ratio"`
	ROE            *float64 `json:"roe"`
	DebtToEquity   *float64 `json:"debt_to_equity"`
	CurrentRatio   *float64 `json:"current_ratio"`
	MeetsCriteria  bool     `json:"meets_criteria"`
	FailedCriteria []string `json:"failed_criteria,omitempty"`
}

// ScreeningBatchResult is the response of one screening call.
// Results are sorted by Score descending, ties in input order.
type ScreeningBatchResult struct {
	RequestID     string                `json:"request_id"`
	TotalSymbols  int                   `json:"total_symbols"`
	PassedSymbols int                   `json:"passed_symbols"`
	Criteria      ScreeningCriteria     `json:"criteria"`
	Results       []ScreeningResultItem `json:"results"`
	ExecutionTime float64               `json:"execution_time"` // seconds
	LastUpdated   time.Time             `json:"last_updated"`
}
