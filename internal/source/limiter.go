package source

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/koboriakira/stock-investment-2025/pkg/config"
	"github.com/koboriakira/stock-investment-2025/pkg/httputil"
	"github.com/koboriakira/stock-investment-2025/pkg/redis"
)

// NewLimiter builds the remote request ceiling. With Redis enabled the sliding
// window is shared across processes; otherwise a token bucket is used in-process.
func NewLimiter(cfg *config.Config, rc *redis.Client) httputil.Limiter {
	if rc != nil && rc.Enabled() {
		return redis.NewRateLimiter(rc, "screener", redis.YahooRateLimit(cfg))
	}

	limit := cfg.Yahoo.RateLimit
	if limit < 1 {
		limit = 1
	}
	window := cfg.Yahoo.RateWindow
	if window <= 0 {
		window = time.Second
	}
	return rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)
}
