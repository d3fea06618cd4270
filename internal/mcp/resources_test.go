package mcp

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"signal-desk/internal/domain"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestResourcesStaticAndTemplated(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	srv, market, _ := testServer()
	session, shutdown, err := connectInMemory(ctx, srv)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer shutdown()
	defer session.Close()

	list, err := session.ListResources(ctx, &sdkmcp.ListResourcesParams{})
	if err != nil {
		t.Fatalf("list resources failed: %v", err)
	}
	if len(list.Resources) != 2 {
		t.Fatalf("expected 2 static resources, got %d", len(list.Resources))
	}

	readRes, err := session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "market://providers"})
	if err != nil {
		t.Fatalf("read providers failed: %v", err)
	}
	var providers []string
	if err := decodeResourceJSON(readRes, &providers); err != nil {
		t.Fatalf("decode providers failed: %v", err)
	}
	if strings.Join(providers, ",") != "binance,coingecko,stooq" {
		t.Fatalf("unexpected providers %v", providers)
	}

	readRes, err = session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "market://indicators"})
	if err != nil {
		t.Fatalf("read indicators failed: %v", err)
	}
	var indicators []indicatorInfo
	if err := decodeResourceJSON(readRes, &indicators); err != nil {
		t.Fatalf("decode indicators failed: %v", err)
	}
	if len(indicators) != 4 || indicators[3].MinPoints != 34 {
		t.Fatalf("unexpected indicators %+v", indicators)
	}

	readRes, err = session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "candles://stock/aapl.us?days=30"})
	if err != nil {
		t.Fatalf("read candles resource failed: %v", err)
	}
	var out candlesGetOutput
	if err := decodeResourceJSON(readRes, &out); err != nil {
		t.Fatalf("decode candles failed: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("expected 2 candles, got %d", out.Count)
	}
	want := domain.FetchParams{Type: domain.MarketStock, Symbol: "aapl.us", Currency: "usd", Days: 30, Timeframe: domain.Timeframe1D}
	if market.lastParams != want {
		t.Fatalf("expected params %+v, got %+v", want, market.lastParams)
	}
}

func TestUnknownResource(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	srv, _, _ := testServer()
	session, shutdown, err := connectInMemory(ctx, srv)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer shutdown()
	defer session.Close()

	if _, err := session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "signals://latest"}); err == nil {
		t.Fatal("expected resource not found error")
	}
}

func TestWithBodyLimit(t *testing.T) {
	var readErr error
	h := withBodyLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		if readErr != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}), 16)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if readErr == nil || w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected oversized body to fail, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected small body to pass, got %d", w.Code)
	}
}

func TestNewHTTPTransportHandler(t *testing.T) {
	srv, _, _ := testServer()
	if NewHTTPTransportHandler(srv, HTTPHandlerConfig{}) == nil {
		t.Fatal("expected handler")
	}
}
