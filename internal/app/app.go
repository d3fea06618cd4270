package app

import (
	"context"
	"time"

	"signal-desk/internal/advisor"
	"signal-desk/internal/cache"
	"signal-desk/internal/config"
	"signal-desk/internal/metrics"
	"signal-desk/internal/provider"
	"signal-desk/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

const redisConnectTimeout = 5 * time.Second

var (
	connectRedisFunc    = cache.Connect
	newOpenAIClientFunc = advisor.NewOpenAIClient
)

// App is the service graph shared by the HTTP server and the MCP server.
type App struct {
	Providers *provider.Registry
	Market    *service.MarketService
	Advice    *service.AdviceService
	Metrics   *metrics.Recorder

	redis *redis.Client
}

// New builds every component from cfg. An unreachable Redis disables the
// candle cache instead of failing startup.
func New(ctx context.Context, cfg *config.Config, tracer trace.Tracer, reg *prometheus.Registry) *App {
	upstream := seconds(cfg.UpstreamTimeoutSecs)
	coingecko := provider.NewCoinGecko(tracer, provider.ClientConfig{BaseURL: cfg.CoinGeckoBaseURL, Timeout: upstream})
	providers := provider.NewRegistry(
		provider.NewBinance(tracer, provider.ClientConfig{BaseURL: cfg.BinanceBaseURL, Timeout: upstream}),
		coingecko,
		provider.NewStooq(tracer, provider.ClientConfig{BaseURL: cfg.StooqBaseURL, Timeout: upstream}),
	)
	rec := metrics.New(reg)

	a := &App{Providers: providers, Metrics: rec}

	var candleCache service.CandleCache
	if cfg.RedisURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
		client, err := connectRedisFunc(connectCtx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, candle cache disabled")
		} else {
			a.redis = client
			candleCache = cache.NewCandleCache(client)
		}
	}

	a.Market = service.NewMarketService(tracer, providers, coingecko, candleCache, rec, seconds(cfg.CandleCacheSecs), upstream)

	llm := newOpenAIClientFunc(advisor.OpenAIConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	})
	gateway := advisor.NewGateway(tracer, llm, seconds(cfg.AdviceTimeoutSecs))
	a.Advice = service.NewAdviceService(tracer, a.Market, gateway, rec)

	log.Info().
		Strs("providers", providers.Names()).
		Bool("cache", candleCache != nil).
		Bool("advice", gateway.Enabled()).
		Msg("service graph ready")
	return a
}

func (a *App) CacheEnabled() bool {
	return a.redis != nil
}

func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing redis client")
		}
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
