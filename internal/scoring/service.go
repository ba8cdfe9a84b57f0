package scoring

import (
	"context"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
)

// Service scores a symbol by fetching it first
type Service struct {
	gateway contracts.Gateway
	scorer  contracts.Scorer
}

// NewService creates a new scoring service
func NewService(gateway contracts.Gateway, scorer contracts.Scorer) *Service {
	return &Service{gateway: gateway, scorer: scorer}
}

// ScoreSymbol returns the score for symbol or ErrNotFound
func (s *Service) ScoreSymbol(ctx context.Context, symbol string) (*contracts.ScoreResult, error) {
	stock, err := s.gateway.Fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return s.scorer.Score(stock), nil
}
