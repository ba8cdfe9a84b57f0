package source

import (
	"context"
	"errors"
	"time"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/pkg/httputil"
	"github.com/koboriakira/stock-investment-2025/pkg/logger"
	"github.com/koboriakira/stock-investment-2025/pkg/redis"
)

// StatementClient is the slice of the Yahoo client that serves financial statements
type StatementClient interface {
	Statements(ctx context.Context, symbol string) (*contracts.FinancialStatements, error)
}

// StatementService resolves financial statements: fixture table first, then the live provider.
// ⭐ SSOT: like Gateway, provider failures surface as ErrNotFound.
type StatementService struct {
	fixtures *FixtureProvider
	client   StatementClient
	limiter  httputil.Limiter
	pool     *Pool
	cache    *redis.Cache
	ttl      time.Duration
	logger   *logger.Logger
	now      func() time.Time
}

// NewStatementService creates a statement service. fixtures, client and cache may each be nil.
func NewStatementService(fixtures *FixtureProvider, client StatementClient, limiter httputil.Limiter, pool *Pool, log *logger.Logger) *StatementService {
	if pool == nil {
		pool = NewPool(1)
	}
	return &StatementService{
		fixtures: fixtures,
		client:   client,
		limiter:  limiter,
		pool:     pool,
		logger:   log.WithField("module", "source.statements"),
		now:      time.Now,
	}
}

// WithCache memoizes remote statements for ttl
func (s *StatementService) WithCache(cache *redis.Cache, ttl time.Duration) *StatementService {
	s.cache = cache
	s.ttl = ttl
	return s
}

// Statements returns the statements for symbol or ErrNotFound
func (s *StatementService) Statements(ctx context.Context, symbol string) (*contracts.FinancialStatements, error) {
	symbol = contracts.NormalizeSymbol(symbol)
	if err := contracts.ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	if s.fixtures != nil {
		if st, ok := s.fixtures.Statements(symbol); ok {
			st.LastUpdated = s.now()
			return st, nil
		}
	}

	if s.client == nil {
		return nil, contracts.ErrNotFound
	}

	key := redis.FinancialsKey(symbol)
	if s.cache != nil {
		var cached contracts.FinancialStatements
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.WithSymbol(symbol).WithError(err).Warn("Cache read failed")
		}
		if hit {
			return &cached, nil
		}
	}

	st, err := s.fetch(ctx, symbol)
	if err != nil {
		if !errors.Is(err, contracts.ErrNotFound) {
			s.logger.WithSymbol(symbol).WithError(err).Warn("Statement source failed")
		}
		return nil, contracts.ErrNotFound
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, st, s.ttl); err != nil {
			s.logger.WithSymbol(symbol).WithError(err).Warn("Cache write failed")
		}
	}
	return st, nil
}

func (s *StatementService) fetch(ctx context.Context, symbol string) (*contracts.FinancialStatements, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, contracts.ProviderError(RemoteName, symbol, err)
		}
	}

	var st *contracts.FinancialStatements
	err := s.pool.Do(ctx, func() error {
		var err error
		st, err = s.client.Statements(ctx, symbol)
		return err
	})
	if err != nil {
		return nil, err
	}
	if st == nil || st.IsEmpty() {
		return nil, contracts.ErrNotFound
	}

	st.Symbol = symbol
	st.LastUpdated = s.now()
	return st, nil
}
