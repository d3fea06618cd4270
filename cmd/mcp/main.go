package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"signal-desk/internal/app"
	"signal-desk/internal/config"
	"signal-desk/internal/logger"
	mcpserver "signal-desk/internal/mcp"
	"signal-desk/pkg/tracing"

	"github.com/joho/godotenv"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const serviceName = "signal-desk-mcp"

var (
	loadEnvFunc       = godotenv.Load
	loadConfigFunc    = config.Load
	setupLoggerFunc   = logger.Setup
	initTracerFunc    = tracing.InitTracer
	newAppFunc        = app.New
	newMCPServerFunc  = mcpserver.NewServer
	newMCPHandlerFunc = mcpserver.NewHTTPTransportHandler
	runStdioFunc      = func(ctx context.Context, server *sdkmcp.Server) error {
		return server.Run(ctx, &sdkmcp.StdioTransport{})
	}
	startHTTPServerFunc  = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFn = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
	setupSignalNotify    = ossignal.Notify
	waitForSignalFunc    = func(quit <-chan os.Signal) { <-quit }
)

func main() {
	_ = loadEnvFunc()
	cfg := loadConfigFunc()
	// stdout carries the stdio protocol stream.
	lg := setupLoggerFunc(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, tracing.Config{ServiceName: serviceName, Endpoint: cfg.OTLPEndpoint})
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to initialize tracer")
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			lg.Error().Err(err).Msg("error shutting down tracer provider")
		}
	}()

	a := newAppFunc(ctx, cfg, tracer, prometheus.NewRegistry())
	defer a.Close()

	mcpSrv := newMCPServerFunc(tracer, a.Market, a.Advice, mcpserver.ServerConfig{
		RequestTimeout: time.Duration(cfg.MCPRequestTimeoutSecs) * time.Second,
		Providers:      a.Providers.Names(),
	})

	switch cfg.MCPTransport {
	case "", "stdio":
		lg.Info().Msg("mcp server listening on stdio")
		if err := runStdioFunc(ctx, mcpSrv); err != nil {
			lg.Error().Err(err).Msg("mcp stdio server failed")
		}
	case "http":
		if err := runHTTPMode(ctx, cancel, lg, cfg, mcpSrv, a.Metrics.Handler()); err != nil {
			lg.Error().Err(err).Msg("mcp http server failed")
		}
	default:
		lg.Error().Str("transport", cfg.MCPTransport).Msg("unsupported MCP_TRANSPORT")
	}
}

func runHTTPMode(ctx context.Context, cancel context.CancelFunc, lg zerolog.Logger, cfg *config.Config, mcpSrv *sdkmcp.Server, metricsHandler http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metricsHandler)
	mux.Handle("/", newMCPHandlerFunc(mcpSrv, mcpserver.HTTPHandlerConfig{MaxBodyBytes: mcpserver.DefaultMaxBodyBytes}))

	srv := &http.Server{
		Addr:              mcpAddr(cfg.MCPHTTPBind, cfg.MCPHTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Info().Str("addr", srv.Addr).Msg("mcp http server listening")
		if err := startHTTPServerFunc(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error().Err(err).Msg("mcp http listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFn(srv, shutdownCtx); err != nil {
		return fmt.Errorf("mcp server forced to shutdown: %w", err)
	}
	return nil
}

func mcpAddr(bind string, port int) string {
	if port <= 0 {
		port = 8090
	}
	return net.JoinHostPort(bind, fmt.Sprintf("%d", port))
}
