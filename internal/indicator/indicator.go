package indicator

import (
	"math"

	"signal-desk/internal/domain"

	"github.com/markcheno/go-talib"
)

const (
	RSIPeriod        = 14
	SMAFastPeriod    = 20
	SMASlowPeriod    = 50
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
)

// MinMACDPoints is the shortest series with a full MACD point: the slow EMA
// needs MACDSlowPeriod closes and the signal EMA needs MACDSignalPeriod MACD values.
const MinMACDPoints = MACDSlowPeriod + MACDSignalPeriod - 1

// Compute returns the latest RSI14, SMA20, SMA50 and MACD(12,26,9) values of
// closes. Fields stay nil when the series is too short for the window.
func Compute(closes []float64) domain.IndicatorSnapshot {
	values := append([]float64(nil), closes...)

	var snap domain.IndicatorSnapshot
	if len(values) > RSIPeriod {
		snap.RSI14 = lastValue(talib.Rsi(values, RSIPeriod))
	}
	if len(values) >= SMAFastPeriod {
		snap.SMA20 = lastValue(talib.Sma(values, SMAFastPeriod))
	}
	if len(values) >= SMASlowPeriod {
		snap.SMA50 = lastValue(talib.Sma(values, SMASlowPeriod))
	}
	if len(values) >= MinMACDPoints {
		snap.MACD = macd(values)
	}
	return snap
}

// macd builds the MACD line from SMA-seeded fast/slow EMAs starting where the
// slow EMA is defined, then smooths it with a signal EMA seeded the same way.
func macd(values []float64) *domain.MACDValue {
	fast := talib.Ema(values, MACDFastPeriod)
	slow := talib.Ema(values, MACDSlowPeriod)

	start := MACDSlowPeriod - 1
	line := make([]float64, 0, len(values)-start)
	for i := start; i < len(values); i++ {
		line = append(line, fast[i]-slow[i])
	}

	signal := talib.Ema(line, MACDSignalPeriod)
	last := len(line) - 1
	out := &domain.MACDValue{
		MACD:      line[last],
		Signal:    signal[last],
		Histogram: line[last] - signal[last],
	}
	if !isFinite(out.MACD) || !isFinite(out.Signal) {
		return nil
	}
	return out
}

func lastValue(series []float64) *float64 {
	if len(series) == 0 {
		return nil
	}
	v := series[len(series)-1]
	if !isFinite(v) {
		return nil
	}
	return &v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
