package request

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"signal-desk/internal/domain"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Fetch is the wire form of domain.FetchParams shared by the candles and
// advice endpoints and the MCP tools.
type Fetch struct {
	Type      string `form:"type" json:"type" validate:"required,oneof=stock crypto"`
	Symbol    string `form:"symbol" json:"symbol" validate:"required,max=64"`
	Currency  string `form:"currency" json:"currency,omitempty" default:"usd" validate:"required,max=16"`
	Days      *int   `form:"days" json:"days,omitempty" default:"60" validate:"required,min=7,max=365"`
	Timeframe string `form:"timeframe" json:"timeframe,omitempty" default:"1D" validate:"oneof=1D 1H"`
}

func (r *Fetch) normalize() {
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Symbol = strings.TrimSpace(r.Symbol)
	r.Currency = strings.ToLower(strings.TrimSpace(r.Currency))
	r.Timeframe = strings.ToUpper(strings.TrimSpace(r.Timeframe))
}

// Params converts a validated request. An unset days falls back to the default.
func (r Fetch) Params() domain.FetchParams {
	days := domain.DefaultDays
	if r.Days != nil {
		days = *r.Days
	}
	return domain.FetchParams{
		Type:      domain.MarketType(r.Type),
		Symbol:    r.Symbol,
		Currency:  r.Currency,
		Days:      days,
		Timeframe: domain.Timeframe(r.Timeframe),
	}
}

type Search struct {
	Type  string `form:"type" json:"type" validate:"required,oneof=stock crypto"`
	Query string `form:"q" json:"q" validate:"required,max=100"`
}

func (r *Search) normalize() {
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Query = strings.TrimSpace(r.Query)
}

type normalizer interface {
	normalize()
}

// Validate applies defaults, normalizes, and validates req in place.
// Failures are *domain.ValidationError.
func Validate(ctx context.Context, req any) error {
	if err := defaults.Set(req); err != nil {
		return BindError(err)
	}
	if n, ok := req.(normalizer); ok {
		n.normalize()
	}
	if err := validate.StructCtx(ctx, req); err != nil {
		return fromValidator(err)
	}
	return nil
}

// BindError wraps a decoding failure as a validation error.
func BindError(err error) error {
	return &domain.ValidationError{Fields: []domain.FieldError{{
		Field:   "request",
		Tag:     "bind",
		Message: err.Error(),
	}}}
}

func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return BindError(err)
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return &domain.ValidationError{Fields: fields}
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
