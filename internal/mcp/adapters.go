package mcp

import (
	"context"

	"signal-desk/internal/domain"
)

// MarketReader exposes candle and symbol lookups.
type MarketReader interface {
	GetCandles(ctx context.Context, p domain.FetchParams) (*domain.CandlesResponse, error)
	Search(ctx context.Context, marketType domain.MarketType, query string) domain.SearchResponse
}

// AdviceGenerator produces a model-backed signal for one asset.
type AdviceGenerator interface {
	Generate(ctx context.Context, p domain.FetchParams) (*domain.Advice, error)
}
