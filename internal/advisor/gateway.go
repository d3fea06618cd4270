package advisor

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"signal-desk/internal/domain"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const SchemaName = "trade_advice"

const systemPrompt = `You are a market analyst. Provide an educational "signal" (not financial advice).
No guarantees of profitability. Always mention risks and uncertainty.
If data is insufficient or noisy, prefer WATCH/HOLD.
Output strictly in the given JSON schema.`

//go:embed advice_schema.json
var adviceSchemaJSON string

var (
	adviceSchema    = jsonschema.MustCompileString("advice_schema.json", adviceSchemaJSON)
	adviceSchemaDoc = mustSchemaDoc(adviceSchemaJSON)
)

func mustSchemaDoc(raw string) map[string]any {
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		panic(fmt.Sprintf("advisor: invalid embedded schema: %v", err))
	}
	return doc
}

// AssetRequest is the asset metadata quoted to the model next to the snapshot.
type AssetRequest struct {
	Type      domain.MarketType
	Symbol    string
	Currency  string
	Timeframe domain.Timeframe
}

// Gateway turns a market snapshot into a schema-validated Advice with a
// single model call.
type Gateway struct {
	tracer  trace.Tracer
	llm     LLMClient
	timeout time.Duration
}

func NewGateway(tracer trace.Tracer, llm LLMClient, timeout time.Duration) *Gateway {
	if tracer == nil {
		tracer = trace.NewNoopTracerProvider().Tracer("advisor")
	}
	return &Gateway{tracer: tracer, llm: llm, timeout: timeout}
}

func (g *Gateway) Enabled() bool {
	return g != nil && g.llm != nil
}

func (g *Gateway) Analyze(ctx context.Context, asset AssetRequest, snap domain.MarketSnapshot) (*domain.Advice, error) {
	ctx, span := g.tracer.Start(ctx, "advisor.analyze")
	defer span.End()
	span.SetAttributes(
		attribute.String("symbol", asset.Symbol),
		attribute.String("source", snap.Source),
	)

	advice, err := g.analyze(ctx, asset, snap)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("action", string(advice.Recommendation.Action)))
	return advice, nil
}

func (g *Gateway) analyze(ctx context.Context, asset AssetRequest, snap domain.MarketSnapshot) (*domain.Advice, error) {
	if !g.Enabled() {
		return nil, fmt.Errorf("%w: model client not configured", domain.ErrAnalysis)
	}
	user, err := UserPrompt(asset, snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAnalysis, err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	raw, err := g.llm.CompleteJSON(ctx, CompletionRequest{
		System:     systemPrompt,
		User:       user,
		SchemaName: SchemaName,
		Schema:     adviceSchemaDoc,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAnalysis, err)
	}
	return DecodeAdvice(raw)
}

// UserPrompt renders the asset line and the indented snapshot JSON.
func UserPrompt(asset AssetRequest, snap domain.MarketSnapshot) (string, error) {
	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Asset: %s (%s), currency: %s, timeframe: %s\n", asset.Symbol, asset.Type, asset.Currency, asset.Timeframe)
	b.WriteString("Data snapshot (latest values + indicators):\n")
	b.Write(body)
	return b.String(), nil
}

// DecodeAdvice validates raw against the advice schema before decoding it.
func DecodeAdvice(raw string) (*domain.Advice, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty model output", domain.ErrAnalysis)
	}
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: model output is not json: %v", domain.ErrAnalysis, err)
	}
	if err := adviceSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: model output violates schema: %v", domain.ErrAnalysis, err)
	}
	var advice domain.Advice
	if err := json.Unmarshal([]byte(raw), &advice); err != nil {
		return nil, fmt.Errorf("%w: decode advice: %v", domain.ErrAnalysis, err)
	}
	return &advice, nil
}
