package source

import (
	"context"
	"errors"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/pkg/httputil"
	"github.com/koboriakira/stock-investment-2025/pkg/logger"
)

// RemoteName identifies the remote provider in logs
const RemoteName = "yahoo"

// minRemoteFields is the smallest key bag accepted as a real quote
const minRemoteFields = 5

// QuoteClient is the slice of the Yahoo client the remote provider needs
type QuoteClient interface {
	Quote(ctx context.Context, symbol string) (contracts.RawRecord, error)
	KeyStatistics(ctx context.Context, symbol string) (contracts.RawRecord, error)
}

// RemoteProvider resolves symbols against the live provider.
// Calls are rate limited and run on a bounded pool.
type RemoteProvider struct {
	client  QuoteClient
	limiter httputil.Limiter
	pool    *Pool
	logger  *logger.Logger
}

// NewRemoteProvider creates a remote provider
func NewRemoteProvider(client QuoteClient, limiter httputil.Limiter, pool *Pool, log *logger.Logger) *RemoteProvider {
	return &RemoteProvider{
		client:  client,
		limiter: limiter,
		pool:    pool,
		logger:  log.WithField("module", "source.remote"),
	}
}

func (p *RemoteProvider) Name() string {
	return RemoteName
}

// Resolve fetches the quote and fills gaps from key statistics.
// Responses without a price or with too few fields are ErrNotFound.
func (p *RemoteProvider) Resolve(ctx context.Context, symbol string) (contracts.RawRecord, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, contracts.ProviderError(RemoteName, symbol, err)
		}
	}

	var record contracts.RawRecord
	err := p.pool.Do(ctx, func() error {
		quote, err := p.client.Quote(ctx, symbol)
		if err != nil {
			return err
		}
		record = quote

		stats, err := p.client.KeyStatistics(ctx, symbol)
		if err != nil {
			p.logger.WithSymbol(symbol).WithError(err).Debug("Key statistics unavailable")
			return nil
		}
		for k, v := range stats {
			if _, ok := record[k]; !ok {
				record[k] = v
			}
		}
		return nil
	})
	if errors.Is(err, contracts.ErrNotFound) {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, contracts.ProviderError(RemoteName, symbol, err)
	}

	if !viable(record) {
		p.logger.WithSymbol(symbol).WithField("fields", len(record)).Debug("Insufficient remote data")
		return nil, contracts.ErrNotFound
	}

	return record, nil
}

func viable(record contracts.RawRecord) bool {
	if len(record) < minRemoteFields {
		return false
	}
	_, hasRegular := record["regularMarketPrice"]
	_, hasCurrent := record["currentPrice"]
	return hasRegular || hasCurrent
}
