package snapshot

import (
	"math"
	"testing"

	"signal-desk/internal/domain"
)

func series(closes ...float64) []domain.Candle {
	out := make([]domain.Candle, len(closes))
	for i, c := range closes {
		out[i] = domain.Candle{T: int64(i) * 86_400_000, Close: c}
	}
	return out
}

func TestBuildChangePct7(t *testing.T) {
	snap := Build(series(100, 100, 100, 100, 100, 100, 100, 100, 110), "binance")
	if math.Abs(snap.ChangePct7-10) > 1e-9 {
		t.Fatalf("expected changePct7 10, got %v", snap.ChangePct7)
	}
	if snap.LastClose != 110 || snap.Source != "binance" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestChangePctClampsAtSeriesStart(t *testing.T) {
	got := ChangePct([]float64{50, 60, 75}, 7)
	if math.Abs(got-50) > 1e-9 {
		t.Fatalf("expected change against first close (50%%), got %v", got)
	}
	if ChangePct(nil, 7) != 0 {
		t.Fatal("expected zero change for empty series")
	}
}

func TestBuildTailAndIndicators(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = float64(100 + i)
	}
	candles := series(closes...)

	snap := Build(candles, "stooq")
	if len(snap.CandlesTail) != domain.TailCandles {
		t.Fatalf("expected %d tail candles, got %d", domain.TailCandles, len(snap.CandlesTail))
	}
	if snap.CandlesTail[0] != candles[40] || snap.CandlesTail[19] != candles[59] {
		t.Fatalf("tail should be the last 20 candles in order, got %+v", snap.CandlesTail)
	}
	if snap.Indicators.RSI14 == nil || snap.Indicators.SMA20 == nil || snap.Indicators.SMA50 == nil || snap.Indicators.MACD == nil {
		t.Fatalf("expected every indicator for 60 points, got %+v", snap.Indicators)
	}

	snap.CandlesTail[0].Close = -1
	if candles[40].Close == -1 {
		t.Fatal("tail must not alias the input series")
	}
}

func TestBuildEmpty(t *testing.T) {
	snap := Build(nil, "coingecko")
	if snap.LastClose != 0 || len(snap.CandlesTail) != 0 || snap.Source != "coingecko" {
		t.Fatalf("unexpected empty snapshot: %+v", snap)
	}
}
