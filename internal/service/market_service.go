package service

import (
	"context"
	"strings"
	"time"

	"signal-desk/internal/cache"
	"signal-desk/internal/domain"
	"signal-desk/internal/metrics"
	"signal-desk/internal/provider"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const SearchFailedMessage = "CoinGecko search failed"

type ProviderPicker interface {
	Pick(p domain.FetchParams) (provider.Provider, error)
}

type CandleCache interface {
	Get(ctx context.Context, key string) ([]domain.Candle, bool, error)
	Set(ctx context.Context, key string, candles []domain.Candle, ttl time.Duration) error
}

type SymbolSearcher interface {
	Search(ctx context.Context, query string) ([]domain.SearchItem, error)
}

// cacheTTLer is implemented by providers with their own freshness window.
type cacheTTLer interface {
	CacheTTL() time.Duration
}

// Series is a fetched candle series and the provider that served it.
type Series struct {
	Source  string
	Candles []domain.Candle
}

type MarketService struct {
	tracer     trace.Tracer
	providers  ProviderPicker
	searcher   SymbolSearcher
	cache      CandleCache
	metrics    *metrics.Recorder
	defaultTTL time.Duration
	// fetchTimeout bounds a shared upstream fetch once it is detached from
	// the caller that started it.
	fetchTimeout time.Duration
	group        singleflight.Group
}

// NewMarketService wires the candle pipeline. searcher, candleCache and rec
// may be nil.
func NewMarketService(
	tracer trace.Tracer,
	providers ProviderPicker,
	searcher SymbolSearcher,
	candleCache CandleCache,
	rec *metrics.Recorder,
	defaultTTL time.Duration,
	fetchTimeout time.Duration,
) *MarketService {
	return &MarketService{
		tracer:       tracer,
		providers:    providers,
		searcher:     searcher,
		cache:        candleCache,
		metrics:      rec,
		defaultTTL:   defaultTTL,
		fetchTimeout: fetchTimeout,
	}
}

func (s *MarketService) GetCandles(ctx context.Context, p domain.FetchParams) (*domain.CandlesResponse, error) {
	p = p.WithDefaults()
	series, err := s.FetchSeries(ctx, p)
	if err != nil {
		return nil, err
	}
	return &domain.CandlesResponse{
		Type:     p.Type,
		Symbol:   p.Symbol,
		Currency: p.Currency,
		Source:   series.Source,
		Candles:  series.Candles,
	}, nil
}

// FetchSeries picks a provider and returns its normalized candles, serving
// from the cache when possible. Identical concurrent fetches share one
// upstream call.
func (s *MarketService) FetchSeries(ctx context.Context, p domain.FetchParams) (*Series, error) {
	ctx, span := s.tracer.Start(ctx, "svc.fetch-series")
	defer span.End()

	p = p.WithDefaults()
	span.SetAttributes(
		attribute.String("type", string(p.Type)),
		attribute.String("symbol", p.Symbol),
		attribute.String("timeframe", string(p.Timeframe)),
	)

	pr, err := s.providers.Pick(p)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("provider", pr.Name()))

	key := cache.Key(pr.Name(), p)
	if candles, ok := s.cached(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		if candles == nil {
			candles = []domain.Candle{}
		}
		return &Series{Source: pr.Name(), Candles: candles}, nil
	}

	ch := s.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := s.sharedContext(ctx)
		defer cancel()

		start := time.Now()
		candles, err := pr.FetchCandles(fetchCtx, p)
		s.metrics.ObserveUpstream(pr.Name(), err, time.Since(start))
		if err != nil {
			return nil, err
		}
		s.store(fetchCtx, key, candles, s.ttlFor(pr))
		return candles, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		span.RecordError(ctx.Err())
		span.SetStatus(codes.Error, ctx.Err().Error())
		return nil, ctx.Err()
	}
	if res.Err != nil {
		log.Warn().Err(res.Err).Str("provider", pr.Name()).Str("symbol", p.Symbol).Msg("candle fetch failed")
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
		return nil, res.Err
	}
	span.SetAttributes(attribute.Bool("shared", res.Shared))

	src := res.Val.([]domain.Candle)
	candles := make([]domain.Candle, len(src))
	copy(candles, src)
	return &Series{Source: pr.Name(), Candles: candles}, nil
}

// sharedContext keeps the caller's values but not its cancellation, so one
// departing caller cannot fail the others waiting on the same fetch.
func (s *MarketService) sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if s.fetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.fetchTimeout)
}

func (s *MarketService) cached(ctx context.Context, key string) ([]domain.Candle, bool) {
	if s.cache == nil {
		return nil, false
	}
	candles, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("candle cache read failed")
		return nil, false
	}
	if !ok {
		s.metrics.CacheMiss()
		return nil, false
	}
	s.metrics.CacheHit()
	return candles, true
}

func (s *MarketService) store(ctx context.Context, key string, candles []domain.Candle, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, candles, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("candle cache write failed")
	}
}

func (s *MarketService) ttlFor(pr provider.Provider) time.Duration {
	if t, ok := pr.(cacheTTLer); ok && t.CacheTTL() > 0 {
		return t.CacheTTL()
	}
	return s.defaultTTL
}

// Search looks up crypto symbols. Stocks have no search backend and always
// return no items. Upstream failures are reported in the response body.
func (s *MarketService) Search(ctx context.Context, marketType domain.MarketType, query string) domain.SearchResponse {
	ctx, span := s.tracer.Start(ctx, "svc.search-symbols")
	defer span.End()
	span.SetAttributes(attribute.String("type", string(marketType)), attribute.String("query", query))

	query = strings.TrimSpace(query)
	if marketType != domain.MarketCrypto || query == "" || s.searcher == nil {
		return domain.SearchResponse{Items: []domain.SearchItem{}}
	}

	items, err := s.searcher.Search(ctx, query)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("symbol search failed")
		span.RecordError(err)
		return domain.SearchResponse{Items: []domain.SearchItem{}, Error: SearchFailedMessage}
	}
	if items == nil {
		items = []domain.SearchItem{}
	}
	return domain.SearchResponse{Items: items}
}
