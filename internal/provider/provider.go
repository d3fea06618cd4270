package provider

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"signal-desk/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 16 << 20 // 16MiB
)

// Provider turns one upstream market-data source into the uniform candle
// format. Implementations are immutable after construction.
type Provider interface {
	Name() string
	Supports(p domain.FetchParams) bool
	FetchCandles(ctx context.Context, p domain.FetchParams) ([]domain.Candle, error)
}

// Registry picks providers in a fixed priority order. More specific
// providers must be registered before generic fallbacks of the same market.
type Registry struct {
	providers []Provider
}

func NewRegistry(providers ...Provider) *Registry {
	return &Registry{providers: append([]Provider(nil), providers...)}
}

// Pick returns the first provider supporting p.
func (r *Registry) Pick(p domain.FetchParams) (Provider, error) {
	p = p.WithDefaults()
	for _, pr := range r.providers {
		if pr.Supports(p) {
			return pr, nil
		}
	}
	return nil, fmt.Errorf("%w: type=%s timeframe=%s currency=%s", domain.ErrNoProvider, p.Type, p.Timeframe, p.Currency)
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.providers))
	for _, pr := range r.providers {
		out = append(out, pr.Name())
	}
	return out
}

// ClientConfig is shared by every HTTP-backed provider.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func (c ClientConfig) baseURL(fallback string) string {
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		base = fallback
	}
	return strings.TrimRight(base, "/")
}

func (c ClientConfig) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

func tracerOrNoop(tracer trace.Tracer) trace.Tracer {
	if tracer == nil {
		return trace.NewNoopTracerProvider().Tracer("provider")
	}
	return tracer
}

// fetchBody performs a GET and returns the body of a 2xx response. Transport
// failures and other statuses are reported as upstream errors.
func fetchBody(ctx context.Context, client *http.Client, source, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: build request: %v", domain.ErrUpstream, source, err)
	}
	req.Header.Set("Accept", "application/json, text/csv;q=0.9, */*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: request failed: %v", domain.ErrUpstream, source, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %v", domain.ErrUpstream, source, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s: unexpected status %d", domain.ErrUpstream, source, resp.StatusCode)
	}
	return body, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
