// Package app wires configuration into the running article service components.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"antifraud/internal/cache"
	"antifraud/internal/config"
	"antifraud/internal/feishu"
	"antifraud/internal/logger"
	"antifraud/internal/metrics"
	"antifraud/internal/normalizer"
)

const redisPingTimeout = 5 * time.Second

// App holds the assembled service.
type App struct {
	Config    *config.Config
	Tokens    *feishu.TokenManager
	Fetcher   *feishu.RecordFetcher
	Processor *normalizer.Processor
	Articles  *cache.ArticleCache
	Metrics   *metrics.Metrics
	redis     *redis.Client
}

// New builds the token manager, fetcher, mapper and cache described by cfg. reg may be
// nil, in which case no metrics are recorded.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, reg prometheus.Registerer) (*App, error) {
	httpClient := feishu.NewHTTPClient(cfg.Timeout())

	tokens := feishu.NewTokenManager(cfg.Feishu.BaseURL, cfg.Feishu.AppID, cfg.Feishu.AppSecret, httpClient, log)
	fetcher := feishu.NewRecordFetcher(cfg.Feishu.BaseURL, cfg.Feishu.BaseID, cfg.Feishu.TableID, tokens, feishu.FetcherOptions{
		HTTPClient:        httpClient,
		Logger:            log,
		PageSize:          cfg.Feishu.PageSize,
		MaxPages:          cfg.Feishu.MaxPages,
		RequestsPerSecond: cfg.Feishu.RequestsPerSecond,
	})
	processor := normalizer.NewProcessor(log)

	var m *metrics.Metrics
	if reg != nil {
		m = metrics.New(reg)
	}

	a := &App{
		Config:    cfg,
		Tokens:    tokens,
		Fetcher:   fetcher,
		Processor: processor,
		Metrics:   m,
	}

	store, err := a.newStore(ctx)
	if err != nil {
		return nil, err
	}

	a.Articles = cache.New(cache.NewTableSource(fetcher, processor, cfg.Fields), cache.Options{
		Store:   store,
		Logger:  log,
		Metrics: m,
		TTL:     cfg.TTL(),
	})

	return a, nil
}

func (a *App) newStore(ctx context.Context) (cache.Store, error) {
	if a.Config.Cache.Type != config.CacheTypeRedis {
		return cache.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: a.Config.Cache.RedisAddr,
		DB:   a.Config.Cache.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("redis ping %s: %w", a.Config.Cache.RedisAddr, err)
	}

	a.redis = client

	return cache.NewRedisStore(client, a.Config.Cache.RedisKey, a.Processor.Transformer()), nil
}

// Close releases the Redis connection, if any.
func (a *App) Close() error {
	if a.redis == nil {
		return nil
	}

	if err := a.redis.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return fmt.Errorf("close redis: %w", err)
	}

	return nil
}
