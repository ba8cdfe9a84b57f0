// Package yahoo talks to Yahoo Finance: quotes and charts through finance-go,
// ratio fundamentals through the key-statistics page.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/pkg/httputil"
	"github.com/koboriakira/stock-investment-2025/pkg/logger"
)

// QuoteFunc fetches an equity quote. equity.Get in production.
type QuoteFunc func(symbol string) (*finance.Equity, error)

// BarsFunc fetches daily bars in [start, end). fetchChart in production.
type BarsFunc func(symbol string, start, end time.Time) ([]contracts.PriceBar, error)

// Client handles communication with Yahoo Finance
// ⭐ SSOT: Yahoo Finance calls go through this client only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string

	quote QuoteFunc
	bars  BarsFunc
}

// NewClient creates a new Yahoo Finance client
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://finance.yahoo.com"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "yahoo"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		quote:      equity.Get,
		bars:       fetchChart,
	}
}

// WithQuoteFunc replaces the quote backend
func (c *Client) WithQuoteFunc(fn QuoteFunc) *Client {
	c.quote = fn
	return c
}

// WithBarsFunc replaces the chart backend
func (c *Client) WithBarsFunc(fn BarsFunc) *Client {
	c.bars = fn
	return c
}

// Quote returns the quote as a camelCase key bag. Zero numbers and empty
// strings are dropped: finance-go reports missing fields as zero values.
func (c *Client) Quote(ctx context.Context, symbol string) (contracts.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q, err := c.quote(symbol)
	if err != nil {
		return nil, fmt.Errorf("equity quote: %w", err)
	}
	if q == nil {
		return nil, contracts.ErrNotFound
	}

	return toRecord(q)
}

// Bars returns daily OHLCV bars for the window
func (c *Client) Bars(ctx context.Context, symbol string, start, end time.Time) ([]contracts.PriceBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bars, err := c.bars(symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("chart: %w", err)
	}
	if len(bars) == 0 {
		return nil, contracts.ErrNotFound
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(bars),
	}).Debug("Fetched chart")

	return bars, nil
}

func toRecord(v interface{}) (contracts.RawRecord, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode quote: %w", err)
	}

	decoded := map[string]interface{}{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}

	out := contracts.RawRecord{}
	for k, val := range decoded {
		switch x := val.(type) {
		case float64:
			if x == 0 {
				continue
			}
		case string:
			if x == "" {
				continue
			}
		case nil:
			continue
		}
		out[k] = val
	}
	return out, nil
}
