package models

// CreditPrediction is the response of POST /api/credit/calculate
type CreditPrediction struct {
	AssessmentID   string        `json:"assessmentId,omitempty"`
	Score          int           `json:"score"`
	Category       string        `json:"category"`
	RiskTier       string        `json:"riskTier"`
	Confidence     float64       `json:"confidence"`
	Recommendation string        `json:"recommendation"`
	Focus          string        `json:"focus"`
	Insights       []Insight     `json:"insights"`
	Metrics        CreditMetrics `json:"metrics"`
}

// Insight is a single ranked explanation, highest impact first
type Insight struct {
	Title       string `json:"title"`
	Metric      string `json:"metric"`
	Description string `json:"description"`
}

// CreditMetrics is the display form of the derived ratios.
// LiquidityMonths is capped at 12 here; the engine keeps the raw value.
type CreditMetrics struct {
	RepaymentRatio  float64 `json:"repaymentRatio"`
	TimelyRepayment float64 `json:"timelyRepayment"`
	DebtToIncome    float64 `json:"debtToIncome"`
	LiquidityMonths float64 `json:"liquidityMonths"`
	Utilization     float64 `json:"utilization"`
}
