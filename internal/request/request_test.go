package request

import (
	"context"
	"errors"
	"testing"

	"signal-desk/internal/domain"
)

func intPtr(n int) *int { return &n }

func TestValidateAppliesDefaults(t *testing.T) {
	req := &Fetch{Type: "Crypto", Symbol: " btc "}
	if err := Validate(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := req.Params()
	want := domain.FetchParams{Type: domain.MarketCrypto, Symbol: "btc", Currency: "usd", Days: 60, Timeframe: domain.Timeframe1D}
	if p != want {
		t.Fatalf("expected %+v, got %+v", want, p)
	}
}

func TestValidateNormalizesCase(t *testing.T) {
	req := &Fetch{Type: "stock", Symbol: "AAPL.US", Currency: "USD", Days: intPtr(30), Timeframe: "1d"}
	if err := Validate(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Currency != "usd" || req.Timeframe != "1D" || req.Symbol != "AAPL.US" {
		t.Fatalf("unexpected normalized request %+v", req)
	}
}

func TestValidateReportsFields(t *testing.T) {
	cases := []struct {
		name  string
		req   *Fetch
		field string
		tag   string
	}{
		{"missing type", &Fetch{Symbol: "btc"}, "type", "required"},
		{"bad type", &Fetch{Type: "forex", Symbol: "eurusd"}, "type", "oneof"},
		{"blank symbol", &Fetch{Type: "crypto", Symbol: "   "}, "symbol", "required"},
		{"days low", &Fetch{Type: "crypto", Symbol: "btc", Days: intPtr(6)}, "days", "min"},
		{"days explicit zero", &Fetch{Type: "crypto", Symbol: "btc", Days: intPtr(0)}, "days", "min"},
		{"days high", &Fetch{Type: "crypto", Symbol: "btc", Days: intPtr(366)}, "days", "max"},
		{"timeframe", &Fetch{Type: "crypto", Symbol: "btc", Timeframe: "4H"}, "timeframe", "oneof"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(context.Background(), tc.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if len(verr.Fields) != 1 || verr.Fields[0].Field != tc.field || verr.Fields[0].Tag != tc.tag {
				t.Fatalf("expected %s/%s, got %+v", tc.field, tc.tag, verr.Fields)
			}
			if verr.Fields[0].Message == "" {
				t.Fatal("expected a message")
			}
		})
	}
}

func TestValidateBoundaryDays(t *testing.T) {
	for _, days := range []int{7, 365} {
		req := &Fetch{Type: "crypto", Symbol: "btc", Days: intPtr(days)}
		if err := Validate(context.Background(), req); err != nil {
			t.Fatalf("days=%d: unexpected error: %v", days, err)
		}
	}
}

func TestValidateSearch(t *testing.T) {
	ok := &Search{Type: "crypto", Query: " bit "}
	if err := Validate(context.Background(), ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok.Query != "bit" {
		t.Fatalf("expected trimmed query, got %q", ok.Query)
	}
	if err := Validate(context.Background(), &Search{Type: "crypto"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty q, got %v", err)
	}
}

func TestBindError(t *testing.T) {
	err := BindError(errors.New("invalid character"))
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Fields[0].Tag != "bind" {
		t.Fatalf("unexpected bind error %v", err)
	}
}
