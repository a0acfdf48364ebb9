package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/Dan9191/credit-engine/internal/models"
)

// AssembleCredit shapes an assessment for display: liquidity is capped at
// DisplayLiquidityCapMonths and ratios are rounded.
func AssembleCredit(a CreditAssessment) models.CreditPrediction {
	insights := make([]models.Insight, 0, len(a.Insights))
	for _, in := range a.Insights {
		insights = append(insights, models.Insight{
			Title:       in.Title,
			Metric:      in.Metric,
			Description: in.Description,
		})
	}

	return models.CreditPrediction{
		Score:          a.Score,
		Category:       string(a.Category),
		RiskTier:       string(a.RiskTier),
		Confidence:     round(a.Confidence, 1),
		Recommendation: a.Recommendation,
		Focus:          a.Focus,
		Insights:       insights,
		Metrics: models.CreditMetrics{
			RepaymentRatio:  round(a.Metrics.RepaymentRatio, 4),
			TimelyRepayment: round(a.Metrics.TimelyRepaymentRatio, 4),
			DebtToIncome:    round(a.Metrics.DebtToIncome, 4),
			LiquidityMonths: round(min(a.Metrics.LiquidityMonths, DisplayLiquidityCapMonths), 2),
			Utilization:     round(a.Metrics.Utilization, 4),
		},
	}
}

// AssembleIncome shapes an income assessment for display.
func AssembleIncome(a IncomeAssessment) models.IncomeAnalysis {
	return models.IncomeAnalysis{
		Category: string(a.Category),
		Score:    a.Score,
		Summary:  a.Summary,
		Insights: append([]string{}, a.Insights...),
	}
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
