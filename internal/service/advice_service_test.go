package service

import (
	"context"
	"errors"
	"testing"

	"signal-desk/internal/advisor"
	"signal-desk/internal/domain"
)

type stubAnalyzer struct {
	calls int
	asset advisor.AssetRequest
	snap  domain.MarketSnapshot
	err   error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, asset advisor.AssetRequest, snap domain.MarketSnapshot) (*domain.Advice, error) {
	s.calls++
	s.asset = asset
	s.snap = snap
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Advice{
		Asset:          domain.AdviceAsset{Type: asset.Type, Symbol: asset.Symbol, Currency: asset.Currency, Source: snap.Source},
		Timeframe:      asset.Timeframe,
		Recommendation: domain.AdviceRecommendation{Action: domain.ActionHold, Confidence: 0.5, Horizon: domain.HorizonSwing},
	}, nil
}

func newTestAdviceService(n int, analyzer Analyzer) *AdviceService {
	market := newTestMarketService(cryptoProvider(n), nil, nil)
	return NewAdviceService(testTracer(), market, analyzer, nil)
}

func TestGenerateRequiresSixtyCandles(t *testing.T) {
	analyzer := &stubAnalyzer{}
	svc := newTestAdviceService(59, analyzer)

	_, err := svc.Generate(context.Background(), domain.FetchParams{Type: domain.MarketCrypto, Symbol: "btc"})
	if !errors.Is(err, domain.ErrNotEnoughData) {
		t.Fatalf("expected ErrNotEnoughData, got %v", err)
	}
	if analyzer.calls != 0 {
		t.Fatalf("expected analyzer not to be called, got %d calls", analyzer.calls)
	}
}

func TestGenerateBuildsSnapshot(t *testing.T) {
	analyzer := &stubAnalyzer{}
	svc := newTestAdviceService(60, analyzer)

	advice, err := svc.Generate(context.Background(), domain.FetchParams{Type: domain.MarketCrypto, Symbol: "btc", Currency: "USD"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if advice.Recommendation.Action != domain.ActionHold {
		t.Fatalf("unexpected action %s", advice.Recommendation.Action)
	}
	if analyzer.calls != 1 {
		t.Fatalf("expected one analyzer call, got %d", analyzer.calls)
	}
	if analyzer.asset.Currency != "usd" || analyzer.asset.Timeframe != domain.Timeframe1D || analyzer.asset.Symbol != "btc" {
		t.Fatalf("unexpected asset %+v", analyzer.asset)
	}
	snap := analyzer.snap
	if snap.Source != "stub-crypto" || len(snap.CandlesTail) != domain.TailCandles {
		t.Fatalf("unexpected snapshot source=%s tail=%d", snap.Source, len(snap.CandlesTail))
	}
	ind := snap.Indicators
	if ind.RSI14 == nil || ind.SMA20 == nil || ind.SMA50 == nil || ind.MACD == nil {
		t.Fatalf("expected all indicators at 60 candles, got %+v", ind)
	}
}

func TestGeneratePropagatesAnalysisError(t *testing.T) {
	analyzer := &stubAnalyzer{err: domain.ErrAnalysis}
	svc := newTestAdviceService(80, analyzer)
	if _, err := svc.Generate(context.Background(), domain.FetchParams{Type: domain.MarketCrypto, Symbol: "btc"}); !errors.Is(err, domain.ErrAnalysis) {
		t.Fatalf("expected ErrAnalysis, got %v", err)
	}
}

func TestAdviceOutcome(t *testing.T) {
	cases := map[string]error{
		"ok":               nil,
		"not_enough_data":  domain.ErrNotEnoughData,
		"analysis":         domain.ErrAnalysis,
		"no_provider":      domain.ErrNoProvider,
		"symbol_not_found": domain.ErrSymbolNotFound,
		"upstream":         domain.ErrUpstream,
		"error":            errors.New("boom"),
	}
	for want, err := range cases {
		if got := adviceOutcome(err); got != want {
			t.Fatalf("adviceOutcome(%v): expected %s, got %s", err, want, got)
		}
	}
}
