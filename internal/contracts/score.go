package contracts

import "time"

// Sub-score names, in reporting order
const (
	DebtScore      = "debt_score"
	ROEScore       = "roe_score"
	LiquidityScore = "liquidity_score"
	PEScore        = "pe_score"
	ProfitScore    = "profit_score"
)

// Score bounds
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// SubScore is one 0-10 health indicator
type SubScore struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ScoreResult holds the sub-scores whose inputs were present and their rounded mean.
// OverallScore is 0 when no sub-score could be computed.
type ScoreResult struct {
	Symbol       string     `json:"symbol"`
	OverallScore float64    `json:"overall_score"`
	SubScores    []SubScore `json:"sub_scores"`
	LastUpdated  time.Time  `json:"last_updated"`
}

// DetailedScores returns the sub-scores keyed by name
func (r *ScoreResult) DetailedScores() map[string]float64 {
	out := make(map[string]float64, len(r.SubScores))
	for _, s := range r.SubScores {
		out[s.Name] = s.Value
	}
	return out
}

// Get returns a sub-score by name
func (r *ScoreResult) Get(name string) (float64, bool) {
	for _, s := range r.SubScores {
		if s.Name == name {
			return s.Value, true
		}
	}
	return 0, false
}
