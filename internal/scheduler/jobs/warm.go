package jobs

import (
	"context"
	"errors"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/pkg/logger"
)

// CacheWarmJob fetches the watchlist through the gateway so the remote
// record cache is populated before the screening run
type CacheWarmJob struct {
	gateway  contracts.Gateway
	symbols  []string
	schedule string
	logger   *logger.Logger
}

// NewCacheWarmJob creates a new cache warm job
func NewCacheWarmJob(gateway contracts.Gateway, symbols []string, schedule string, log *logger.Logger) *CacheWarmJob {
	return &CacheWarmJob{
		gateway:  gateway,
		symbols:  symbols,
		schedule: schedule,
		logger:   log.WithField("job", "cache_warm"),
	}
}

// Name returns the job name
func (j *CacheWarmJob) Name() string {
	return "cache_warm"
}

// Schedule returns the cron schedule
func (j *CacheWarmJob) Schedule() string {
	return j.schedule
}

// Run fetches every symbol; unknown symbols are counted, not failed
func (j *CacheWarmJob) Run(ctx context.Context) error {
	warmed, missing := 0, 0
	for _, symbol := range j.symbols {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := j.gateway.Fetch(ctx, symbol)
		switch {
		case err == nil:
			warmed++
		case errors.Is(err, contracts.ErrNotFound):
			missing++
		default:
			return err
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"warmed":  warmed,
		"missing": missing,
	}).Info("Cache warm completed")
	return nil
}
