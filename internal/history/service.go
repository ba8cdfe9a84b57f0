package history

import (
	"context"
	"errors"
	"time"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/internal/normalize"
	"github.com/koboriakira/stock-investment-2025/internal/source"
	"github.com/koboriakira/stock-investment-2025/pkg/logger"
	"github.com/koboriakira/stock-investment-2025/pkg/redis"
)

// BarSource fetches live daily bars
type BarSource interface {
	Bars(ctx context.Context, symbol string, start, end time.Time) ([]contracts.PriceBar, error)
}

// Service resolves price histories
// ⭐ SSOT: price history lookups go through here only
type Service struct {
	fixtures    *source.FixtureProvider
	synthesizer *Synthesizer
	remote      BarSource
	cache       *redis.Cache
	ttl         time.Duration
	logger      *logger.Logger
	now         func() time.Time
}

// NewService creates a history service. fixtures, remote and cache may be nil.
func NewService(fixtures *source.FixtureProvider, synthesizer *Synthesizer, remote BarSource, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *Service {
	if synthesizer == nil {
		synthesizer = NewSynthesizer()
	}
	return &Service{
		fixtures:    fixtures,
		synthesizer: synthesizer,
		remote:      remote,
		cache:       cache,
		ttl:         ttl,
		logger:      log.WithField("module", "history"),
		now:         time.Now,
	}
}

// History returns the series for symbol and period.
// An empty period means the default; an unknown one is InvalidRequest.
func (s *Service) History(ctx context.Context, symbol, period string) (*contracts.HistoricalSeries, error) {
	if period == "" {
		period = contracts.DefaultHistoryPeriod
	}
	if err := contracts.ValidatePeriod(period); err != nil {
		return nil, err
	}

	symbol = contracts.NormalizeSymbol(symbol)
	if err := contracts.ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	if s.fixtures != nil {
		if raw, ok := s.fixtures.Lookup(symbol); ok {
			return s.synthetic(symbol, period, raw)
		}
	}

	if s.remote == nil {
		return nil, contracts.ErrNotFound
	}
	return s.live(ctx, symbol, period)
}

func (s *Service) synthetic(symbol, period string, raw contracts.RawRecord) (*contracts.HistoricalSeries, error) {
	stock := normalize.Normalize(symbol, raw)
	if stock.CurrentPrice == nil {
		return nil, contracts.ErrNotFound
	}

	return &contracts.HistoricalSeries{
		Symbol:      symbol,
		Period:      period,
		Bars:        s.synthesizer.Synthesize(*stock.CurrentPrice, period),
		Synthetic:   true,
		LastUpdated: s.now(),
	}, nil
}

func (s *Service) live(ctx context.Context, symbol, period string) (*contracts.HistoricalSeries, error) {
	key := redis.HistoryKey(symbol, period)

	if s.cache != nil {
		var cached contracts.HistoricalSeries
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.WithSymbol(symbol).WithError(err).Warn("History cache read failed")
		}
		if hit {
			return &cached, nil
		}
	}

	end := s.now()
	start := StartFor(period, end)

	bars, err := s.remote.Bars(ctx, symbol, start, end)
	if err != nil {
		if !errors.Is(err, contracts.ErrNotFound) {
			s.logger.WithSymbol(symbol).WithError(err).Warn("Remote history failed")
		}
		return nil, contracts.ErrNotFound
	}

	series := &contracts.HistoricalSeries{
		Symbol:      symbol,
		Period:      period,
		Bars:        bars,
		LastUpdated: end,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, series, s.ttl); err != nil {
			s.logger.WithSymbol(symbol).WithError(err).Warn("History cache write failed")
		}
	}
	return series, nil
}

// StartFor returns the first day of the live window ending at end
func StartFor(period string, end time.Time) time.Time {
	switch period {
	case "ytd":
		return time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, end.Location())
	case "max":
		return time.Unix(0, 0).UTC()
	case "10y":
		return end.AddDate(-10, 0, 0)
	default:
		return end.AddDate(0, 0, -DaysFor(period))
	}
}
