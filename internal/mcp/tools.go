package mcp

import (
	"context"
	"fmt"

	"signal-desk/internal/domain"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *mcp.Server, market MarketReader, advice AdviceGenerator) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "candles_get",
		Description: "Get normalized (timestamp, close) candles for a stock or crypto symbol",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in fetchInput) (*mcp.CallToolResult, candlesGetOutput, error) {
		if market == nil {
			return nil, candlesGetOutput{}, fmt.Errorf("market service unavailable")
		}
		params, err := normalizeFetch(ctx, in)
		if err != nil {
			return nil, candlesGetOutput{}, err
		}
		resp, err := market.GetCandles(ctx, params)
		if err != nil {
			return nil, candlesGetOutput{}, toolError(err)
		}
		candles := resp.Candles
		if candles == nil {
			candles = []domain.Candle{}
		}
		return nil, candlesGetOutput{
			Type:     resp.Type,
			Symbol:   resp.Symbol,
			Currency: resp.Currency,
			Source:   resp.Source,
			Count:    len(candles),
			Candles:  candles,
		}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "advice_generate",
		Description: "Generate an educational, non-binding trading signal from indicators over at least 60 candles",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in fetchInput) (*mcp.CallToolResult, adviceGenerateOutput, error) {
		if advice == nil {
			return nil, adviceGenerateOutput{}, fmt.Errorf("advice service unavailable")
		}
		params, err := normalizeFetch(ctx, in)
		if err != nil {
			return nil, adviceGenerateOutput{}, err
		}
		result, err := advice.Generate(ctx, params)
		if err != nil {
			return nil, adviceGenerateOutput{}, toolError(err)
		}
		return nil, adviceGenerateOutput{Advice: result}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "symbols_search",
		Description: "Search crypto symbols by name or ticker; stock searches return no items",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in symbolsSearchInput) (*mcp.CallToolResult, symbolsSearchOutput, error) {
		if market == nil {
			return nil, symbolsSearchOutput{}, fmt.Errorf("market service unavailable")
		}
		req, err := normalizeSearch(ctx, in)
		if err != nil {
			return nil, symbolsSearchOutput{}, err
		}
		resp := market.Search(ctx, domain.MarketType(req.Type), req.Query)
		items := resp.Items
		if items == nil {
			items = []domain.SearchItem{}
		}
		return nil, symbolsSearchOutput{Items: items, Error: resp.Error}, nil
	})
}
