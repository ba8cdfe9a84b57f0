// Package source implements the data source gateway: a fixture table and the
// live provider behind one fetch operation.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/internal/normalize"
	"github.com/koboriakira/stock-investment-2025/pkg/logger"
)

// Gateway tries its sources in order and normalizes the first hit.
// ⭐ SSOT: provider errors stop here; callers only ever see ErrNotFound.
type Gateway struct {
	sources    []contracts.DataSource
	normalizer *normalize.Normalizer
	logger     *logger.Logger
}

// NewGateway creates a gateway. Order of sources is precedence.
func NewGateway(normalizer *normalize.Normalizer, log *logger.Logger, sources ...contracts.DataSource) *Gateway {
	if normalizer == nil {
		normalizer = normalize.New()
	}
	return &Gateway{
		sources:    sources,
		normalizer: normalizer,
		logger:     log.WithField("module", "gateway"),
	}
}

// Sources lists the configured source names in precedence order
func (g *Gateway) Sources() []string {
	names := make([]string, len(g.sources))
	for i, s := range g.sources {
		names[i] = s.Name()
	}
	return names
}

// Fetch returns the normalized stock or ErrNotFound
func (g *Gateway) Fetch(ctx context.Context, symbol string) (*contracts.NormalizedStock, error) {
	symbol = contracts.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, contracts.ErrNotFound
	}

	for _, src := range g.sources {
		raw, err := resolve(ctx, src, symbol)
		if err == nil {
			return g.normalizer.Normalize(symbol, raw), nil
		}

		if !errors.Is(err, contracts.ErrNotFound) {
			g.logger.WithSymbol(symbol).WithError(err).
				WithField("source", src.Name()).
				Warn("Data source failed")
		}
	}

	return nil, contracts.ErrNotFound
}

func resolve(ctx context.Context, src contracts.DataSource, symbol string) (raw contracts.RawRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s panicked: %v", contracts.ErrProviderFailure, src.Name(), r)
		}
	}()

	return src.Resolve(ctx, symbol)
}
