package screening

import "github.com/koboriakira/stock-investment-2025/internal/contracts"

// predicate is one threshold check. A nil threshold or a nil fundamental passes.
type predicate struct {
	name      string
	threshold func(c contracts.ScreeningCriteria) *float64
	value     func(s *contracts.NormalizedStock) *float64
	pass      func(value, threshold float64) bool
}

func atLeast(v, t float64) bool { return v >= t }
func atMost(v, t float64) bool  { return v <= t }

var predicates = []predicate{
	{
		name:      "min_market_cap",
		threshold: func(c contracts.ScreeningCriteria) *float64 { return c.MinMarketCap },
		value:     func(s *contracts.NormalizedStock) *float64 { return s.MarketCap },
		pass:      atLeast,
	},
	{
		name:      "max_pe_ratio",
		threshold: func(c contracts.ScreeningCriteria) *float64 { return c.MaxPERatio },
		value:     func(s *contracts.NormalizedStock) *float64 { return s.PERatio },
		pass:      atMost,
	},
	{
		name:      "min_roe",
		threshold: func(c contracts.ScreeningCriteria) *float64 { return c.MinROE },
		value:     func(s *contracts.NormalizedStock) *float64 { return s.ROE },
		pass:      atLeast,
	},
	{
		name:      "max_debt_to_equity",
		threshold: func(c contracts.ScreeningCriteria) *float64 { return c.MaxDebtToEquity },
		value:     func(s *contracts.NormalizedStock) *float64 { return s.DebtToEquity },
		pass:      atMost,
	},
	{
		name:      "min_current_ratio",
		threshold: func(c contracts.ScreeningCriteria) *float64 { return c.MinCurrentRatio },
		value:     func(s *contracts.NormalizedStock) *float64 { return s.CurrentRatio },
		pass:      atLeast,
	},
}

// Evaluate returns the names of the criteria stock fails; empty means it passes.
// Missing data is never penalized.
func Evaluate(stock *contracts.NormalizedStock, criteria contracts.ScreeningCriteria) []string {
	var failed []string
	for _, p := range predicates {
		t := p.threshold(criteria)
		v := p.value(stock)
		if t == nil || v == nil {
			continue
		}
		if !p.pass(*v, *t) {
			failed = append(failed, p.name)
		}
	}
	return failed
}
