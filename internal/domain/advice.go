package domain

type AdviceAction string

const (
	ActionBuy   AdviceAction = "BUY"
	ActionSell  AdviceAction = "SELL"
	ActionHold  AdviceAction = "HOLD"
	ActionWatch AdviceAction = "WATCH"
)

type AdviceHorizon string

const (
	HorizonIntraday AdviceHorizon = "intraday"
	HorizonSwing    AdviceHorizon = "swing"
	HorizonLongTerm AdviceHorizon = "long_term"
)

// Advice is the structured signal returned by the analysis model. Its JSON
// shape is fixed by the trade_advice schema in the advisor package.
type Advice struct {
	Asset          AdviceAsset          `json:"asset"`
	Timeframe      Timeframe            `json:"timeframe"`
	Recommendation AdviceRecommendation `json:"recommendation"`
	Rationale      AdviceRationale      `json:"rationale"`
	Levels         AdviceLevels         `json:"levels"`
	RiskManagement AdviceRiskManagement `json:"risk_management"`
	NextChecks     []string             `json:"next_checks"`
	Disclaimer     string               `json:"disclaimer"`
}

type AdviceAsset struct {
	Type     MarketType `json:"type"`
	Symbol   string     `json:"symbol"`
	Currency string     `json:"currency"`
	Source   string     `json:"source"`
}

type AdviceRecommendation struct {
	Action     AdviceAction  `json:"action"`
	Confidence float64       `json:"confidence"`
	Horizon    AdviceHorizon `json:"horizon"`
}

type AdviceRationale struct {
	Bullish []string `json:"bullish"`
	Bearish []string `json:"bearish"`
	Risks   []string `json:"risks"`
}

type AdviceLevels struct {
	Entry      *float64 `json:"entry"`
	TakeProfit *float64 `json:"take_profit"`
	StopLoss   *float64 `json:"stop_loss"`
}

type AdviceRiskManagement struct {
	MaxRiskPct float64 `json:"max_risk_pct"`
	Note       string  `json:"note"`
}
