package mcp

import (
	"context"
	"encoding/json"
	"time"

	"signal-desk/internal/domain"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type stubMarketService struct {
	candles   []domain.Candle
	candleErr error
	search    domain.SearchResponse

	lastParams domain.FetchParams
	lastType   domain.MarketType
	lastQuery  string
}

func (s *stubMarketService) GetCandles(ctx context.Context, p domain.FetchParams) (*domain.CandlesResponse, error) {
	s.lastParams = p
	if s.candleErr != nil {
		return nil, s.candleErr
	}
	return &domain.CandlesResponse{
		Type:     p.Type,
		Symbol:   p.Symbol,
		Currency: p.Currency,
		Source:   "binance",
		Candles:  append([]domain.Candle(nil), s.candles...),
	}, nil
}

func (s *stubMarketService) Search(ctx context.Context, marketType domain.MarketType, query string) domain.SearchResponse {
	s.lastType = marketType
	s.lastQuery = query
	return s.search
}

type stubAdviceService struct {
	advice     *domain.Advice
	err        error
	lastParams domain.FetchParams
}

func (s *stubAdviceService) Generate(ctx context.Context, p domain.FetchParams) (*domain.Advice, error) {
	s.lastParams = p
	if s.err != nil {
		return nil, s.err
	}
	return s.advice, nil
}

func testAdvice() *domain.Advice {
	stop := 90.0
	return &domain.Advice{
		Asset:          domain.AdviceAsset{Type: domain.MarketCrypto, Symbol: "btc", Currency: "usd", Source: "binance"},
		Timeframe:      domain.Timeframe1D,
		Recommendation: domain.AdviceRecommendation{Action: domain.ActionWatch, Confidence: 0.4, Horizon: domain.HorizonSwing},
		Rationale:      domain.AdviceRationale{Bullish: []string{"RSI rising"}, Bearish: []string{}, Risks: []string{"volatility"}},
		Levels:         domain.AdviceLevels{StopLoss: &stop},
		RiskManagement: domain.AdviceRiskManagement{MaxRiskPct: 1, Note: "small size"},
		NextChecks:     []string{"MACD cross"},
		Disclaimer:     "Educational only.",
	}
}

func testServer() (*sdkmcp.Server, *stubMarketService, *stubAdviceService) {
	market := &stubMarketService{
		candles: []domain.Candle{{T: 0, Close: 1}, {T: 86_400_000, Close: 2}},
		search:  domain.SearchResponse{Items: []domain.SearchItem{{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"}}},
	}
	advice := &stubAdviceService{advice: testAdvice()}

	srv := NewServer(nil, market, advice, ServerConfig{
		RequestTimeout: time.Second,
		Providers:      []string{"binance", "coingecko", "stooq"},
	})
	return srv, market, advice
}

func connectInMemory(ctx context.Context, srv *sdkmcp.Server) (*sdkmcp.ClientSession, context.CancelFunc, error) {
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	runCtx, cancel := context.WithCancel(ctx)
	go func() { _ = srv.Run(runCtx, serverTransport) }()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "mcp-test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return session, cancel, nil
}

func decodeResourceJSON(result *sdkmcp.ReadResourceResult, out any) error {
	if len(result.Contents) == 0 {
		return nil
	}
	return json.Unmarshal([]byte(result.Contents[0].Text), out)
}

func decodeStructured(result *sdkmcp.CallToolResult, out any) error {
	raw, err := json.Marshal(result.StructuredContent)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
