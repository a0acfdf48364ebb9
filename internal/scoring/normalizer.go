package scoring

import "math"

// Composite blends the credit metrics into [0,1] using creditWeights.
// Every term is non-decreasing in a better input, so the blend is monotonic.
func Composite(m DerivedMetrics) float64 {
	discipline := clamp(m.RepaymentRatio, 0, 1) * clamp(m.TimelyRepaymentRatio, 0, 1)
	debt := 1 - clamp(m.DebtToIncome, 0, 1)
	utilization := 1 - clamp(m.Utilization, 0, 1)
	liquidity := clamp(m.LiquidityMonths/liquidityFullScoreMonths, 0, 1)

	blended := creditWeights.RepaymentDiscipline*discipline +
		creditWeights.DebtBurden*debt +
		creditWeights.Utilization*utilization +
		creditWeights.Liquidity*liquidity
	return clamp(blended, 0, 1)
}

// ScaleCredit maps a [0,1] blend onto the 300-900 scale.
func ScaleCredit(blended float64) int {
	span := float64(MaxCreditScore - MinCreditScore)
	return MinCreditScore + int(math.Round(clamp(blended, 0, 1)*span))
}

// tier awards points once a metric reaches limit. Tables are ordered from
// the best tier down and end with a catch-all.
type tier struct {
	limit  float64
	points int
}

var (
	perCapitaTiers  = []tier{{380000, 40}, {210000, 28}, {100000, 16}, {math.Inf(-1), 4}}
	disposableTiers = []tier{{180000, 18}, {90000, 12}, {0, 6}, {math.Inf(-1), 0}}
	debtBurdenTiers = []tier{{0.28, 26}, {0.55, 18}, {1.0, 10}, {math.Inf(1), 0}}
	energyTiers     = []tier{{1200, 6}, {2200, 4}, {math.Inf(1), 2}}
	outflowTiers    = []tier{{90000, 10}, {150000, 8}, {math.Inf(1), 3}}
)

func pointsAtLeast(v float64, tiers []tier) int {
	for _, t := range tiers {
		if v >= t.limit {
			return t.points
		}
	}
	return 0
}

func pointsAtMost(v float64, tiers []tier) int {
	for _, t := range tiers {
		if v <= t.limit {
			return t.points
		}
	}
	return 0
}

// IncomeScore sums the affordability tiers into the 0-100 reliability score.
func IncomeScore(m IncomeMetrics) int {
	score := pointsAtLeast(m.PerCapitaIncome, perCapitaTiers) +
		pointsAtMost(m.DebtBurden, debtBurdenTiers) +
		pointsAtLeast(m.DisposableIncome, disposableTiers) +
		pointsAtMost(m.EnergyIntensity, energyTiers) +
		pointsAtMost(m.MonthlyLoanOutflow, outflowTiers)
	return min(max(score, MinIncomeScore), MaxIncomeScore)
}
