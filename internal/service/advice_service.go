package service

import (
	"context"
	"errors"
	"fmt"

	"signal-desk/internal/advisor"
	"signal-desk/internal/domain"
	"signal-desk/internal/metrics"
	"signal-desk/internal/snapshot"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type SeriesFetcher interface {
	FetchSeries(ctx context.Context, p domain.FetchParams) (*Series, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, asset advisor.AssetRequest, snap domain.MarketSnapshot) (*domain.Advice, error)
}

type AdviceService struct {
	tracer   trace.Tracer
	market   SeriesFetcher
	analyzer Analyzer
	metrics  *metrics.Recorder
}

func NewAdviceService(tracer trace.Tracer, market SeriesFetcher, analyzer Analyzer, rec *metrics.Recorder) *AdviceService {
	return &AdviceService{tracer: tracer, market: market, analyzer: analyzer, metrics: rec}
}

// Generate fetches candles, requires at least domain.MinAdviceCandles of
// them, and asks the analyzer for a recommendation on the snapshot.
func (s *AdviceService) Generate(ctx context.Context, p domain.FetchParams) (*domain.Advice, error) {
	ctx, span := s.tracer.Start(ctx, "svc.generate-advice")
	defer span.End()

	p = p.WithDefaults()
	span.SetAttributes(attribute.String("symbol", p.Symbol), attribute.String("type", string(p.Type)))

	advice, err := s.generate(ctx, p)
	s.metrics.ObserveAdvice(adviceOutcome(err))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("action", string(advice.Recommendation.Action)))
	return advice, nil
}

func (s *AdviceService) generate(ctx context.Context, p domain.FetchParams) (*domain.Advice, error) {
	series, err := s.market.FetchSeries(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(series.Candles) < domain.MinAdviceCandles {
		return nil, fmt.Errorf("%w: got %d candles, need %d", domain.ErrNotEnoughData, len(series.Candles), domain.MinAdviceCandles)
	}

	snap := snapshot.Build(series.Candles, series.Source)
	advice, err := s.analyzer.Analyze(ctx, advisor.AssetRequest{
		Type:      p.Type,
		Symbol:    p.Symbol,
		Currency:  p.Currency,
		Timeframe: p.Timeframe,
	}, snap)
	if err != nil {
		log.Error().Err(err).Str("symbol", p.Symbol).Str("source", series.Source).Msg("advice analysis failed")
		return nil, err
	}
	return advice, nil
}

func adviceOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotEnoughData):
		return "not_enough_data"
	case errors.Is(err, domain.ErrAnalysis):
		return "analysis"
	case errors.Is(err, domain.ErrNoProvider):
		return "no_provider"
	case errors.Is(err, domain.ErrSymbolNotFound):
		return "symbol_not_found"
	case errors.Is(err, domain.ErrUpstream):
		return "upstream"
	default:
		return "error"
	}
}
