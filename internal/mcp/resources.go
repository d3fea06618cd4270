package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"signal-desk/internal/indicator"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var indicatorCatalog = []indicatorInfo{
	{Name: "rsi14", MinPoints: indicator.RSIPeriod + 1},
	{Name: "sma20", MinPoints: indicator.SMAFastPeriod},
	{Name: "sma50", MinPoints: indicator.SMASlowPeriod},
	{Name: "macd_12_26_9", MinPoints: indicator.MinMACDPoints},
}

func registerResources(server *mcp.Server, market MarketReader, providers []string) {
	server.AddResource(&mcp.Resource{
		URI:         "market://providers",
		Name:        "providers",
		Description: "Candle providers in selection priority order",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		_ = ctx
		return jsonResource(req.Params.URI, append([]string{}, providers...))
	})

	server.AddResource(&mcp.Resource{
		URI:         "market://indicators",
		Name:        "indicators",
		Description: "Indicators in every snapshot with the minimum candle count each needs",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		_ = ctx
		return jsonResource(req.Params.URI, indicatorCatalog)
	})

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "candles://{type}/{symbol}{?currency,days,timeframe}",
		Name:        "candles-by-type-symbol",
		Description: "Normalized candles for an asset; optional currency, days and timeframe query params",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if market == nil {
			return nil, fmt.Errorf("market service unavailable")
		}

		parsed, err := url.Parse(req.Params.URI)
		if err != nil || parsed.Scheme != "candles" {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}

		in := fetchInput{
			Type:      parsed.Host,
			Symbol:    strings.Trim(strings.TrimSpace(parsed.Path), "/"),
			Currency:  parsed.Query().Get("currency"),
			Timeframe: parsed.Query().Get("timeframe"),
		}
		if rawDays := strings.TrimSpace(parsed.Query().Get("days")); rawDays != "" {
			n, err := strconv.Atoi(rawDays)
			if err != nil {
				return nil, fmt.Errorf("invalid days: %s", rawDays)
			}
			in.Days = &n
		}

		params, err := normalizeFetch(ctx, in)
		if err != nil {
			return nil, err
		}
		resp, err := market.GetCandles(ctx, params)
		if err != nil {
			return nil, toolError(err)
		}
		return jsonResource(req.Params.URI, candlesGetOutput{
			Type:     resp.Type,
			Symbol:   resp.Symbol,
			Currency: resp.Currency,
			Source:   resp.Source,
			Count:    len(resp.Candles),
			Candles:  resp.Candles,
		})
	})
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(body),
		}},
	}, nil
}
