package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"signal-desk/internal/config"
	"signal-desk/pkg/tracing"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	served := make(chan http.Handler, 1)
	restore := stubServerDeps(served)
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}

	var srv http.Handler
	select {
	case srv = <-served:
	case <-time.After(2 * time.Second):
		t.Fatal("http server was not started")
	}

	for _, path := range []string{"/health", "/metrics", "/swagger/index.html"} {
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
	}

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/candles?type=stock&symbol=aapl.us&timeframe=1H", nil))
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "no providers") {
		t.Fatalf("expected no-provider 400, got %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
}

func TestHTTPAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9090": ":9090", ":7070": ":7070", " 8081 ": ":8081"}
	for in, want := range cases {
		if got := httpAddr(in); got != want {
			t.Fatalf("httpAddr(%q): expected %s, got %s", in, want, got)
		}
	}
}

func TestCORSConfig(t *testing.T) {
	if cfg := corsConfig([]string{"*"}); !cfg.AllowAllOrigins || len(cfg.AllowOrigins) != 0 {
		t.Fatalf("expected allow-all, got %+v", cfg)
	}
	cfg := corsConfig([]string{"https://a.example", "https://b.example"})
	if cfg.AllowAllOrigins || len(cfg.AllowOrigins) != 2 {
		t.Fatalf("expected explicit origins, got %+v", cfg)
	}
}

func stubServerDeps(served chan<- http.Handler) func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitTracer := initTracerFunc
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			Port:                "0",
			CORSOrigins:         []string{"*"},
			LogLevel:            "error",
			LogFormat:           "json",
			CandleCacheSecs:     60,
			UpstreamTimeoutSecs: 1,
			AdviceTimeoutSecs:   1,
		}
	}
	initTracerFunc = func(ctx context.Context, cfg tracing.Config) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServerFunc = func(srv *http.Server) error {
		served <- srv.Handler
		return http.ErrServerClosed
	}
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initTracerFunc = origInitTracer
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}
}
