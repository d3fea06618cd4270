package domain

import "strings"

type MarketType string

const (
	MarketStock  MarketType = "stock"
	MarketCrypto MarketType = "crypto"
)

func (m MarketType) IsValid() bool {
	return m == MarketStock || m == MarketCrypto
}

type Timeframe string

const (
	Timeframe1D Timeframe = "1D"
	Timeframe1H Timeframe = "1H"
)

func (t Timeframe) IsValid() bool {
	return t == Timeframe1D || t == Timeframe1H
}

// BarsPerDay is the number of candles one calendar day spans at this timeframe.
func (t Timeframe) BarsPerDay() int {
	if t == Timeframe1H {
		return 24
	}
	return 1
}

const (
	DefaultCurrency  = "usd"
	DefaultDays      = 60
	MinDays          = 7
	MaxDays          = 365
	MinAdviceCandles = 60
	TailCandles      = 20
)

// Candle is one time bucket reduced to its open timestamp (ms epoch) and close.
type Candle struct {
	T     int64   `json:"t"`
	Close float64 `json:"close"`
}

// FetchParams identifies a candle series request across all providers.
type FetchParams struct {
	Type      MarketType `json:"type"`
	Symbol    string     `json:"symbol"`
	Currency  string     `json:"currency"`
	Days      int        `json:"days"`
	Timeframe Timeframe  `json:"timeframe"`
}

// WithDefaults fills empty optional fields the same way the request layer does.
func (p FetchParams) WithDefaults() FetchParams {
	p.Symbol = strings.TrimSpace(p.Symbol)
	p.Currency = strings.ToLower(strings.TrimSpace(p.Currency))
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if p.Days == 0 {
		p.Days = DefaultDays
	}
	if p.Timeframe == "" {
		p.Timeframe = Timeframe1D
	}
	return p
}

type CandlesResponse struct {
	Type     MarketType `json:"type"`
	Symbol   string     `json:"symbol"`
	Currency string     `json:"currency"`
	Source   string     `json:"source"`
	Candles  []Candle   `json:"candles"`
}

type MACDValue struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// IndicatorSnapshot holds the latest value of each trailing indicator.
// A nil field means the input series was shorter than the indicator window.
type IndicatorSnapshot struct {
	RSI14 *float64   `json:"rsi14"`
	SMA20 *float64   `json:"sma20"`
	SMA50 *float64   `json:"sma50"`
	MACD  *MACDValue `json:"macd"`
}

type MarketSnapshot struct {
	LastClose   float64           `json:"lastClose"`
	ChangePct7  float64           `json:"changePct_7"`
	Indicators  IndicatorSnapshot `json:"indicators"`
	CandlesTail []Candle          `json:"candles_tail"`
	Source      string            `json:"source"`
}

type SearchItem struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

type SearchResponse struct {
	Items []SearchItem `json:"items"`
	Error string       `json:"error,omitempty"`
}
