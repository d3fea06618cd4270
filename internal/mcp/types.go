package mcp

import (
	"context"
	"errors"
	"fmt"

	"signal-desk/internal/domain"
	"signal-desk/internal/request"
)

type fetchInput struct {
	Type      string `json:"type" jsonschema:"asset type: stock or crypto"`
	Symbol    string `json:"symbol" jsonschema:"asset symbol (e.g. btc, eth, aapl.us)"`
	Currency  string `json:"currency,omitempty" jsonschema:"quote currency, default usd"`
	Days      *int   `json:"days,omitempty" jsonschema:"lookback in days 7-365, default 60"`
	Timeframe string `json:"timeframe,omitempty" jsonschema:"candle timeframe: 1D or 1H, default 1D"`
}

type candlesGetOutput struct {
	Type     domain.MarketType `json:"type"`
	Symbol   string            `json:"symbol"`
	Currency string            `json:"currency"`
	Source   string            `json:"source"`
	Count    int               `json:"count"`
	Candles  []domain.Candle   `json:"candles"`
}

type adviceGenerateOutput struct {
	Advice *domain.Advice `json:"advice"`
}

type symbolsSearchInput struct {
	Type  string `json:"type" jsonschema:"asset type: stock or crypto"`
	Query string `json:"q" jsonschema:"search text, e.g. bitcoin"`
}

type symbolsSearchOutput struct {
	Items []domain.SearchItem `json:"items"`
	Error string              `json:"error,omitempty"`
}

type indicatorInfo struct {
	Name      string `json:"name"`
	MinPoints int    `json:"min_points"`
}

func normalizeFetch(ctx context.Context, in fetchInput) (domain.FetchParams, error) {
	req := request.Fetch{
		Type:      in.Type,
		Symbol:    in.Symbol,
		Currency:  in.Currency,
		Days:      in.Days,
		Timeframe: in.Timeframe,
	}
	if err := request.Validate(ctx, &req); err != nil {
		return domain.FetchParams{}, err
	}
	return req.Params(), nil
}

func normalizeSearch(ctx context.Context, in symbolsSearchInput) (request.Search, error) {
	req := request.Search{Type: in.Type, Query: in.Query}
	if err := request.Validate(ctx, &req); err != nil {
		return request.Search{}, err
	}
	return req, nil
}

// toolError keeps the user-facing wording of the HTTP API.
func toolError(err error) error {
	if errors.Is(err, domain.ErrNotEnoughData) {
		return fmt.Errorf("not enough data, at least %d points are required", domain.MinAdviceCandles)
	}
	return err
}
