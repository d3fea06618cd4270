package provider

import (
	"context"
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
	BinanceName           = "binance"
	DefaultBinanceBaseURL = "https://api.binance.com"

	binanceMaxLimit = 1000
	binanceQuote    = "USDT"
	binanceCacheTTL = 30 * time.Second
)

// Spot kline row: openTime, open, high, low, close, volume, closeTime,
// quoteVolume, trades, takerBase, takerQuote, ignore.
var klineFieldTypes = []gjson.Type{
	gjson.Number, gjson.String, gjson.String, gjson.String, gjson.String, gjson.String,
	gjson.Number, gjson.String, gjson.Number, gjson.String, gjson.String, gjson.String,
}

var pairSeparators = strings.NewReplacer("-", "", "/", "", "_", "", " ", "")

// Binance serves crypto candles quoted in USDT at hourly or daily granularity.
type Binance struct {
	tracer  trace.Tracer
	baseURL string
	client  *http.Client
}

func NewBinance(tracer trace.Tracer, cfg ClientConfig) *Binance {
	return &Binance{
		tracer:  tracerOrNoop(tracer),
		baseURL: cfg.baseURL(DefaultBinanceBaseURL),
		client:  cfg.client(),
	}
}

func (b *Binance) Name() string { return BinanceName }

func (b *Binance) CacheTTL() time.Duration { return binanceCacheTTL }

func (b *Binance) Supports(p domain.FetchParams) bool {
	p = p.WithDefaults()
	if p.Type != domain.MarketCrypto || !p.Timeframe.IsValid() {
		return false
	}
	return p.Currency == "usd" || p.Currency == "usdt"
}

// PairSymbol maps a bare asset code to a USDT trading pair: btc -> BTCUSDT,
// eth/usdt -> ETHUSDT. Already qualified pairs are returned unchanged.
func PairSymbol(symbol string) string {
	s := pairSeparators.Replace(strings.ToUpper(strings.TrimSpace(symbol)))
	if strings.HasSuffix(s, binanceQuote) {
		return s
	}
	return s + binanceQuote
}

func klineLimit(p domain.FetchParams) int {
	limit := p.Days * p.Timeframe.BarsPerDay()
	if limit > binanceMaxLimit {
		limit = binanceMaxLimit
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}

func (b *Binance) FetchCandles(ctx context.Context, p domain.FetchParams) ([]domain.Candle, error) {
	ctx, span := b.tracer.Start(ctx, "provider.binance.fetch-candles")
	defer span.End()

	p = p.WithDefaults()
	pair := PairSymbol(p.Symbol)
	interval := "1d"
	if p.Timeframe == domain.Timeframe1H {
		interval = "1h"
	}
	limit := klineLimit(p)
	span.SetAttributes(
		attribute.String("symbol", pair),
		attribute.String("interval", interval),
		attribute.Int("limit", limit),
	)

	q := url.Values{}
	q.Set("symbol", pair)
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))

	body, err := fetchBody(ctx, b.client, BinanceName, b.baseURL+"/api/v3/klines?"+q.Encode())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	candles, err := parseKlines(body)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("candles", len(candles)))
	return candles, nil
}

// parseKlines validates the whole payload shape first and only then filters
// rows whose close price is not a finite number.
func parseKlines(body []byte) ([]domain.Candle, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: binance: invalid json", domain.ErrUpstream)
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: binance: expected kline array", domain.ErrUpstream)
	}

	rows := root.Array()
	for i, row := range rows {
		if err := checkKline(row); err != nil {
			return nil, fmt.Errorf("%w: binance: kline #%d: %v", domain.ErrUpstream, i, err)
		}
	}

	out := make([]domain.Candle, 0, len(rows))
	for _, row := range rows {
		fields := row.Array()
		closePrice, err := strconv.ParseFloat(strings.TrimSpace(fields[4].Str), 64)
		if err != nil || !isFinite(closePrice) {
			continue
		}
		out = append(out, domain.Candle{T: fields[0].Int(), Close: closePrice})
	}
	return out, nil
}

func checkKline(row gjson.Result) error {
	if !row.IsArray() {
		return fmt.Errorf("expected array, got %s", row.Type)
	}
	fields := row.Array()
	if len(fields) != len(klineFieldTypes) {
		return fmt.Errorf("expected %d fields, got %d", len(klineFieldTypes), len(fields))
	}
	for i, want := range klineFieldTypes {
		if fields[i].Type != want {
			return fmt.Errorf("field %d: expected %s, got %s", i, want, fields[i].Type)
		}
	}
	return nil
}
