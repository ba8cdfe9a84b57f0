package contracts

import "context"

// DataSource resolves a symbol to a raw provider record.
// Returns ErrNotFound when the source has nothing for the symbol.
type DataSource interface {
	Name() string
	Resolve(ctx context.Context, symbol string) (RawRecord, error)
}

// Gateway fetches normalized stocks. Never returns provider errors: only ErrNotFound.
type Gateway interface {
	Fetch(ctx context.Context, symbol string) (*NormalizedStock, error)
}

// Scorer computes a ScoreResult from a normalized record
type Scorer interface {
	Score(stock *NormalizedStock) *ScoreResult
}

// Screener evaluates a batch of symbols against criteria
type Screener interface {
	Screen(ctx context.Context, symbols []string, criteria ScreeningCriteria) (*ScreeningBatchResult, error)
}
