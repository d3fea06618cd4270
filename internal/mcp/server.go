package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultRequestTimeout = 90 * time.Second

type ServerConfig struct {
	RequestTimeout time.Duration
	// Providers lists candle provider names in selection order.
	Providers []string
}

func NewServer(tracer trace.Tracer, market MarketReader, advice AdviceGenerator, cfg ServerConfig) *sdkmcp.Server {
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	srv := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "signal-desk-mcp",
		Version: "1.0.0",
	}, &sdkmcp.ServerOptions{
		Instructions: "Use these tools/resources to fetch normalized candles, search crypto symbols and request educational model-generated signals. Signals are not financial advice.",
		Logger:       slog.Default(),
	})

	srv.AddReceivingMiddleware(withDeadline(requestTimeout))
	if tracer != nil {
		srv.AddReceivingMiddleware(withSpans(tracer))
	}

	registerTools(srv, market, advice)
	registerResources(srv, market, cfg.Providers)
	return srv
}

func NewHTTPTransportHandler(server *sdkmcp.Server, cfg HTTPHandlerConfig) http.Handler {
	base := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return server
	}, &sdkmcp.StreamableHTTPOptions{})
	return withBodyLimit(base, cfg.MaxBodyBytes)
}

// withDeadline caps every inbound method so a slow upstream fetch or model
// call cannot hold a session forever.
func withDeadline(timeout time.Duration) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return next(ctx, method, req)
		}
	}
}

// withSpans traces each method. Tool calls carry the requested asset so
// candle, advice and search spans line up with the HTTP API's.
func withSpans(tracer trace.Tracer) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ctx, span := tracer.Start(ctx, spanName(method, req))
			defer span.End()
			span.SetAttributes(attribute.String("mcp.method", method))
			span.SetAttributes(requestAttributes(req)...)

			result, err := next(ctx, method, req)
			switch {
			case err != nil:
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			case isToolError(result):
				span.SetStatus(codes.Error, "tool error")
			}
			return result, err
		}
	}
}

func spanName(method string, req sdkmcp.Request) string {
	if call, ok := req.(*sdkmcp.CallToolRequest); ok && call.Params != nil {
		if name := strings.TrimSpace(call.Params.Name); name != "" {
			return "mcp.tool." + name
		}
	}
	return "mcp." + strings.ReplaceAll(method, "/", ".")
}

func requestAttributes(req sdkmcp.Request) []attribute.KeyValue {
	switch r := req.(type) {
	case *sdkmcp.CallToolRequest:
		if r.Params == nil {
			return nil
		}
		attrs := []attribute.KeyValue{attribute.String("mcp.tool", r.Params.Name)}
		args := gjson.ParseBytes(r.Params.Arguments)
		for _, field := range []struct{ arg, key string }{
			{"type", "asset.type"},
			{"symbol", "asset.symbol"},
			{"currency", "asset.currency"},
			{"timeframe", "asset.timeframe"},
			{"q", "search.query"},
		} {
			if v := args.Get(field.arg); v.Exists() && v.String() != "" {
				attrs = append(attrs, attribute.String(field.key, v.String()))
			}
		}
		if days := args.Get("days"); days.Exists() {
			attrs = append(attrs, attribute.Int64("asset.days", days.Int()))
		}
		return attrs
	case *sdkmcp.ReadResourceRequest:
		if r.Params == nil {
			return nil
		}
		uri := strings.TrimSpace(r.Params.URI)
		scheme, _, _ := strings.Cut(uri, "://")
		return []attribute.KeyValue{
			attribute.String("mcp.resource.uri", uri),
			attribute.String("mcp.resource.scheme", scheme),
		}
	}
	return nil
}

func isToolError(result sdkmcp.Result) bool {
	res, ok := result.(*sdkmcp.CallToolResult)
	return ok && res != nil && res.IsError
}
