// Package scoring computes the composite financial health score.
package scoring

import (
	"math"
	"time"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/pkg/logger"
)

// formula computes one sub-score. ok is false when its input is missing.
type formula struct {
	name    string
	compute func(s *contracts.NormalizedStock) (value float64, ok bool)
}

// formulas are evaluated in reporting order
var formulas = []formula{
	{contracts.DebtScore, debtScore},
	{contracts.ROEScore, roeScore},
	{contracts.LiquidityScore, liquidityScore},
	{contracts.PEScore, peScore},
	{contracts.ProfitScore, profitScore},
}

// Engine scores normalized stocks
// ⭐ SSOT: score formulas live here only
type Engine struct {
	logger *logger.Logger
	now    func() time.Time
}

// NewEngine creates a new score engine
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{
		logger: log.WithField("module", "scoring"),
		now:    time.Now,
	}
}

// Score computes every sub-score whose input is present and their mean.
// Never fails; a stock with no usable inputs scores 0.
func (e *Engine) Score(stock *contracts.NormalizedStock) *contracts.ScoreResult {
	result := &contracts.ScoreResult{
		Symbol:      stock.Symbol,
		SubScores:   make([]contracts.SubScore, 0, len(formulas)),
		LastUpdated: e.now(),
	}

	sum := 0.0
	for _, f := range formulas {
		v, ok := f.compute(stock)
		if !ok {
			continue
		}
		result.SubScores = append(result.SubScores, contracts.SubScore{Name: f.name, Value: v})
		sum += v
	}

	if n := len(result.SubScores); n > 0 {
		result.OverallScore = round2(sum / float64(n))
	}

	e.logger.WithFields(map[string]interface{}{
		"symbol":     stock.Symbol,
		"overall":    result.OverallScore,
		"sub_scores": len(result.SubScores),
	}).Debug("Scored stock")

	return result
}

// debtScore: 10 at zero leverage, 0 at debt/equity of 100% or more
func debtScore(s *contracts.NormalizedStock) (float64, bool) {
	if s.DebtToEquity == nil {
		return 0, false
	}
	return clamp(10 - *s.DebtToEquity/100*10), true
}

// roeScore: 1 point per ROE percent, capped at 10
func roeScore(s *contracts.NormalizedStock) (float64, bool) {
	if s.ROE == nil {
		return 0, false
	}
	return clamp(*s.ROE * 100), true
}

// liquidityScore peaks at a current ratio of 2.0
func liquidityScore(s *contracts.NormalizedStock) (float64, bool) {
	if s.CurrentRatio == nil {
		return 0, false
	}
	return clamp(10 - math.Abs(*s.CurrentRatio-2.0)*2), true
}

// peScore: 10 inside [10,20], 8 below, decaying above 20
func peScore(s *contracts.NormalizedStock) (float64, bool) {
	if s.PERatio == nil {
		return 0, false
	}
	pe := *s.PERatio
	switch {
	case pe >= 10 && pe <= 20:
		return 10, true
	case pe < 10:
		return 8, true
	default:
		return clamp(10 - (pe-20)/5), true
	}
}

// profitScore: 1 point per profit margin percent, capped at 10
func profitScore(s *contracts.NormalizedStock) (float64, bool) {
	if s.ProfitMargin == nil {
		return 0, false
	}
	return clamp(*s.ProfitMargin * 100), true
}

func clamp(v float64) float64 {
	return math.Max(contracts.MinScore, math.Min(contracts.MaxScore, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
