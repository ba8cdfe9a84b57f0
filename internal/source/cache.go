package source

import (
	"context"
	"time"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/pkg/logger"
	"github.com/koboriakira/stock-investment-2025/pkg/redis"
)

// CachedSource memoizes another source's records in Redis.
// Cache failures are logged and never fail the lookup.
type CachedSource struct {
	inner  contracts.DataSource
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedSource wraps inner with a TTL cache
func NewCachedSource(inner contracts.DataSource, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *CachedSource {
	return &CachedSource{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: log.WithField("module", "source.cache"),
	}
}

func (c *CachedSource) Name() string {
	return c.inner.Name()
}

func (c *CachedSource) Resolve(ctx context.Context, symbol string) (contracts.RawRecord, error) {
	key := redis.StockInfoKey(symbol)

	var cached contracts.RawRecord
	hit, err := c.cache.Get(ctx, key, &cached)
	if err != nil {
		c.logger.WithSymbol(symbol).WithError(err).Warn("Cache read failed")
	}
	if hit {
		return cached, nil
	}

	record, err := c.inner.Resolve(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, record, c.ttl); err != nil {
		c.logger.WithSymbol(symbol).WithError(err).Warn("Cache write failed")
	}
	return record, nil
}
