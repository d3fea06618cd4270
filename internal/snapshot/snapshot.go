package snapshot

import (
	"signal-desk/internal/domain"
	"signal-desk/internal/indicator"
)

const changeLookback = 7

// Build condenses a candle series into the payload sent for analysis. The
// candle length policy belongs to the caller; an empty series yields a zero
// snapshot that still carries the source name.
func Build(candles []domain.Candle, source string) domain.MarketSnapshot {
	snap := domain.MarketSnapshot{Source: source, CandlesTail: []domain.Candle{}}
	if len(candles) == 0 {
		return snap
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	n := len(closes)
	snap.LastClose = closes[n-1]
	snap.ChangePct7 = ChangePct(closes, changeLookback)
	snap.Indicators = indicator.Compute(closes)

	tailStart := n - domain.TailCandles
	if tailStart < 0 {
		tailStart = 0
	}
	snap.CandlesTail = append([]domain.Candle(nil), candles[tailStart:]...)
	return snap
}

// ChangePct is the percent change of the last close over the given number of
// intervals, anchored at the first close when the series is shorter.
func ChangePct(closes []float64, intervals int) float64 {
	n := len(closes)
	if n == 0 {
		return 0
	}
	base := n - 1 - intervals
	if base < 0 {
		base = 0
	}
	if closes[base] == 0 {
		return 0
	}
	return (closes[n-1]/closes[base] - 1) * 100
}
