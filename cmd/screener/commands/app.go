package commands

import (
	"context"
	"fmt"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/internal/external/yahoo"
	"github.com/koboriakira/stock-investment-2025/internal/history"
	"github.com/koboriakira/stock-investment-2025/internal/normalize"
	"github.com/koboriakira/stock-investment-2025/internal/presets"
	"github.com/koboriakira/stock-investment-2025/internal/scoring"
	"github.com/koboriakira/stock-investment-2025/internal/screening"
	"github.com/koboriakira/stock-investment-2025/internal/search"
	"github.com/koboriakira/stock-investment-2025/internal/source"
	"github.com/koboriakira/stock-investment-2025/pkg/config"
	"github.com/koboriakira/stock-investment-2025/pkg/database"
	"github.com/koboriakira/stock-investment-2025/pkg/httputil"
	"github.com/koboriakira/stock-investment-2025/pkg/logger"
	"github.com/koboriakira/stock-investment-2025/pkg/redis"
)

// app holds every wired component a command may need
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	redis  *redis.Client
	db     *database.DB
	cache  *redis.Cache
	yahoo  *yahoo.Client

	fixtures   *source.FixtureProvider
	gateway    *source.Gateway
	scorer     *scoring.Engine
	scores     *scoring.Service
	screener   *screening.Engine
	history    *history.Service
	statements *source.StatementService
	search     *search.Index
	presets    *presets.Registry
	store      screening.SessionStore
}

// newApp loads config and wires the data sources, engines and optional stores.
// Redis and PostgreSQL are only connected when configured.
func newApp(ctx context.Context) (*app, error) {
	// 1. Load config
	cfg, err := config.LoadFrom(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	a := &app{cfg: cfg, log: log}

	// 3. Connect to Redis (rate limit + cache)
	a.redis, err = redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.cache = redis.NewCache(a.redis, "screener")

	// 4. Create Yahoo client. Scraped pages take a limiter token per request;
	// the quote API bypasses httputil so the remote provider takes its own.
	limiter := source.NewLimiter(cfg, a.redis)
	httpClient := httputil.NewWithTimeout(cfg, log, cfg.Yahoo.Timeout).WithLimiter(limiter)
	a.yahoo = yahoo.NewClient(httpClient, cfg.Yahoo.BaseURL, log)

	// 5. Create data sources in priority order
	var sources []contracts.DataSource
	if cfg.FixturesEnabled {
		a.fixtures = source.NewFixtureProvider()
		sources = append(sources, a.fixtures)
	}
	pool := source.NewPool(cfg.Yahoo.Workers)
	var remote contracts.DataSource = source.NewRemoteProvider(a.yahoo, limiter, pool, log)
	if a.cache.Enabled() {
		remote = source.NewCachedSource(remote, a.cache, cfg.CacheExpiry, log)
	}
	sources = append(sources, remote)

	// 6. Create gateway and engines
	a.gateway = source.NewGateway(normalize.New(), log, sources...)
	a.scorer = scoring.NewEngine(log)
	a.scores = scoring.NewService(a.gateway, a.scorer)
	a.screener = screening.NewEngine(a.gateway, a.scorer, cfg.Screening, log)

	var historyCache *redis.Cache
	if a.cache.Enabled() {
		historyCache = a.cache
	}
	a.history = history.NewService(a.fixtures, history.NewSynthesizer(), a.yahoo, historyCache, cfg.CacheExpiry, log)

	a.statements = source.NewStatementService(a.fixtures, a.yahoo, nil, pool, log)
	if a.cache.Enabled() {
		a.statements.WithCache(a.cache, cfg.CacheExpiry)
	}

	// 7. Load presets
	a.presets, err = presets.LoadRegistry(cfg.Screening.PresetsPath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load presets: %w", err)
	}

	// 8. Build search index over the fixture table
	if a.fixtures != nil {
		a.search, err = search.NewFixtureIndex(a.fixtures, log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("build search index: %w", err)
		}
	}

	// 9. Connect to database (screening sessions)
	if cfg.Database.Enabled() {
		a.db, err = database.New(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		repo := screening.NewRepository(a.db.Pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		a.store = repo
		log.Info("Connected to database")
	}

	log.WithFields(map[string]interface{}{
		"sources":  a.gateway.Sources(),
		"redis":    a.redis.Enabled(),
		"database": a.db != nil,
		"presets":  a.presets.Names(),
		"version":  a.presets.Version(),
	}).Debug("Application wired")

	return a, nil
}

// Close releases connections
func (a *app) Close() {
	if a.search != nil {
		a.search.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close redis")
		}
	}
}
