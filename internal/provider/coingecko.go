package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"signal-desk/internal/domain"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	CoinGeckoName           = "coingecko"
	DefaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"

	coingeckoCacheTTL = 60 * time.Second
	MaxSearchItems    = 20
)

type coinSearchResponse struct {
	Coins []struct {
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
	} `json:"coins"`
}

// CoinGecko serves daily crypto closes in any quote currency the aggregator
// supports. Symbols are resolved to coin ids through the search endpoint.
type CoinGecko struct {
	tracer  trace.Tracer
	baseURL string
	client  *http.Client
}

func NewCoinGecko(tracer trace.Tracer, cfg ClientConfig) *CoinGecko {
	return &CoinGecko{
		tracer:  tracerOrNoop(tracer),
		baseURL: cfg.baseURL(DefaultCoinGeckoBaseURL),
		client:  cfg.client(),
	}
}

func (c *CoinGecko) Name() string { return CoinGeckoName }

func (c *CoinGecko) CacheTTL() time.Duration { return coingeckoCacheTTL }

func (c *CoinGecko) Supports(p domain.FetchParams) bool {
	p = p.WithDefaults()
	return p.Type == domain.MarketCrypto && p.Timeframe == domain.Timeframe1D
}

// Search returns at most MaxSearchItems coins matching query. Symbols are
// lowercased.
func (c *CoinGecko) Search(ctx context.Context, query string) ([]domain.SearchItem, error) {
	ctx, span := c.tracer.Start(ctx, "provider.coingecko.search")
	defer span.End()
	span.SetAttributes(attribute.String("query", query))

	resp, err := c.search(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	items := make([]domain.SearchItem, 0, min(len(resp.Coins), MaxSearchItems))
	for _, coin := range resp.Coins {
		if len(items) == MaxSearchItems {
			break
		}
		items = append(items, domain.SearchItem{
			ID:     coin.ID,
			Symbol: strings.ToLower(coin.Symbol),
			Name:   coin.Name,
		})
	}
	return items, nil
}

// ResolveID maps a ticker or name to the first coin id the search endpoint
// returns. The first hit is not guaranteed to be the intended asset.
func (c *CoinGecko) ResolveID(ctx context.Context, symbol string) (string, error) {
	resp, err := c.search(ctx, symbol)
	if err != nil {
		return "", err
	}
	if len(resp.Coins) == 0 || strings.TrimSpace(resp.Coins[0].ID) == "" {
		return "", fmt.Errorf("%w: coingecko: %q", domain.ErrSymbolNotFound, symbol)
	}
	return resp.Coins[0].ID, nil
}

func (c *CoinGecko) search(ctx context.Context, query string) (*coinSearchResponse, error) {
	q := url.Values{}
	q.Set("query", strings.TrimSpace(query))
	body, err := fetchBody(ctx, c.client, CoinGeckoName, c.baseURL+"/search?"+q.Encode())
	if err != nil {
		return nil, err
	}
	var resp coinSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: coingecko: decode search: %v", domain.ErrUpstream, err)
	}
	return &resp, nil
}

func (c *CoinGecko) FetchCandles(ctx context.Context, p domain.FetchParams) ([]domain.Candle, error) {
	ctx, span := c.tracer.Start(ctx, "provider.coingecko.fetch-candles")
	defer span.End()

	p = p.WithDefaults()
	span.SetAttributes(
		attribute.String("symbol", p.Symbol),
		attribute.String("currency", p.Currency),
		attribute.Int("days", p.Days),
	)

	id, err := c.ResolveID(ctx, p.Symbol)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("coin_id", id))

	q := url.Values{}
	q.Set("vs_currency", p.Currency)
	q.Set("days", strconv.Itoa(p.Days))
	body, err := fetchBody(ctx, c.client, CoinGeckoName,
		c.baseURL+"/coins/"+url.PathEscape(id)+"/market_chart?"+q.Encode())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	candles, err := parseMarketChart(body)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("candles", len(candles)))
	return candles, nil
}

// parseMarketChart reads prices as [[ms, price], ...]. A missing prices key
// yields an empty series; malformed pairs are dropped.
func parseMarketChart(body []byte) ([]domain.Candle, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: coingecko: invalid json", domain.ErrUpstream)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: coingecko: expected object", domain.ErrUpstream)
	}
	prices := root.Get("prices")
	if !prices.Exists() {
		return []domain.Candle{}, nil
	}
	if !prices.IsArray() {
		return nil, fmt.Errorf("%w: coingecko: prices is %s, expected array", domain.ErrUpstream, prices.Type)
	}

	rows := prices.Array()
	out := make([]domain.Candle, 0, len(rows))
	for _, row := range rows {
		if !row.IsArray() {
			continue
		}
		pair := row.Array()
		if len(pair) != 2 || pair[0].Type != gjson.Number || pair[1].Type != gjson.Number {
			continue
		}
		price := pair[1].Float()
		if !isFinite(price) {
			continue
		}
		out = append(out, domain.Candle{T: pair[0].Int(), Close: price})
	}
	return out, nil
}
