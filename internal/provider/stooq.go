package provider

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"signal-desk/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	StooqName           = "stooq"
	DefaultStooqBaseURL = "https://stooq.com"

	stooqCacheTTL   = time.Hour
	stooqDateLayout = "2006-01-02"
)

// Stooq serves daily stock closes as CSV.
type Stooq struct {
	tracer  trace.Tracer
	baseURL string
	client  *http.Client
}

func NewStooq(tracer trace.Tracer, cfg ClientConfig) *Stooq {
	return &Stooq{
		tracer:  tracerOrNoop(tracer),
		baseURL: cfg.baseURL(DefaultStooqBaseURL),
		client:  cfg.client(),
	}
}

func (s *Stooq) Name() string { return StooqName }

func (s *Stooq) CacheTTL() time.Duration { return stooqCacheTTL }

func (s *Stooq) Supports(p domain.FetchParams) bool {
	p = p.WithDefaults()
	return p.Type == domain.MarketStock && p.Timeframe == domain.Timeframe1D
}

func (s *Stooq) FetchCandles(ctx context.Context, p domain.FetchParams) ([]domain.Candle, error) {
	ctx, span := s.tracer.Start(ctx, "provider.stooq.fetch-candles")
	defer span.End()

	p = p.WithDefaults()
	symbol := strings.ToLower(p.Symbol)
	span.SetAttributes(attribute.String("symbol", symbol))

	q := url.Values{}
	q.Set("s", symbol)
	q.Set("i", "d")
	body, err := fetchBody(ctx, s.client, StooqName, s.baseURL+"/q/d/l/?"+q.Encode())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	candles, err := parseStooqCSV(body)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	candles = lastBars(candles, p.Days*p.Timeframe.BarsPerDay())
	span.SetAttributes(attribute.Int("candles", len(candles)))
	return candles, nil
}

// parseStooqCSV requires a header with Date and Close columns. Rows with an
// unparseable date or close are skipped.
func parseStooqCSV(body []byte) ([]domain.Candle, error) {
	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: stooq: empty csv", domain.ErrUpstream)
		}
		return nil, fmt.Errorf("%w: stooq: read header: %v", domain.ErrUpstream, err)
	}

	dateIdx, closeIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))) {
		case "date":
			dateIdx = i
		case "close":
			closeIdx = i
		}
	}
	if dateIdx < 0 || closeIdx < 0 {
		return nil, fmt.Errorf("%w: stooq: csv header missing Date/Close columns", domain.ErrUpstream)
	}

	var out []domain.Candle
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return nil, fmt.Errorf("%w: stooq: read row: %v", domain.ErrUpstream, err)
		}
		if dateIdx >= len(rec) || closeIdx >= len(rec) {
			continue
		}
		day, err := time.ParseInLocation(stooqDateLayout, strings.TrimSpace(rec[dateIdx]), time.UTC)
		if err != nil {
			continue
		}
		closePrice, err := strconv.ParseFloat(strings.TrimSpace(rec[closeIdx]), 64)
		if err != nil || !isFinite(closePrice) {
			continue
		}
		out = append(out, domain.Candle{T: day.UnixMilli(), Close: closePrice})
	}
	if out == nil {
		out = []domain.Candle{}
	}
	return out, nil
}

// lastBars keeps the trailing n candles. Stooq always returns the full
// history, so days is applied as a bar count the same way the Binance limit is.
func lastBars(candles []domain.Candle, n int) []domain.Candle {
	if n <= 0 || len(candles) <= n {
		return candles
	}
	return candles[len(candles)-n:]
}
