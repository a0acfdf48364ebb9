package scoring

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MaxCreditInsights is how many insights the credit response surfaces.
const MaxCreditInsights = 3

// InsightKind names the metric family an insight explains.
type InsightKind string

const (
	InsightRepayment   InsightKind = "repayment"
	InsightIncome      InsightKind = "income"
	InsightUtilization InsightKind = "utilization"
	InsightLiquidity   InsightKind = "liquidity"
)

// Insight explains one metric. Deviation is the normalised distance from the
// metric's benchmark in [0,1]; larger means a more actionable lever.
type Insight struct {
	Kind        InsightKind
	Title       string
	Metric      string
	Description string
	Value       float64
	Deviation   float64
}

// insightBenchmarks also fixes the tie-break order of credit insights.
var insightBenchmarks = []Benchmark{
	{Kind: InsightRepayment, Target: 0.90, Higher: true},
	{Kind: InsightIncome, Target: 0.40, Higher: false},
	{Kind: InsightUtilization, Target: 0.30, Higher: false},
	{Kind: InsightLiquidity, Target: 6, Higher: true},
}

// Income anomaly thresholds.
const (
	minPerCapitaIncome  = 210000
	minDisposableIncome = 90000
	maxDebtBurden       = 0.55
	maxEnergyIntensity  = 2200
	maxWaterBillShare   = 0.03
)

func deviation(value float64, b Benchmark) float64 {
	if b.Higher {
		if value >= b.Target || b.Target == 0 {
			return 0
		}
		return clamp((b.Target-value)/b.Target, 0, 1)
	}
	if value <= b.Target {
		return 0
	}
	return clamp((value-b.Target)/(1-b.Target), 0, 1)
}

// CreditInsights ranks one insight per metric family by deviation and keeps
// the top MaxCreditInsights. Equal deviations keep benchmark order.
func CreditInsights(m DerivedMetrics) []Insight {
	candidates := make([]Insight, 0, len(insightBenchmarks))
	for _, b := range insightBenchmarks {
		candidates = append(candidates, creditInsight(b, m))
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Deviation > candidates[j].Deviation
	})
	return candidates[:MaxCreditInsights]
}

func creditInsight(b Benchmark, m DerivedMetrics) Insight {
	switch b.Kind {
	case InsightRepayment:
		discipline := clamp(m.RepaymentRatio, 0, 1) * clamp(m.TimelyRepaymentRatio, 0, 1)
		timely, repaid := m.TimelyRepaymentRatio*100, m.RepaymentRatio*100
		in := Insight{Kind: b.Kind, Title: "Repayment discipline", Metric: fmt.Sprintf("%.0f%% on-time, %.0f%% repaid", timely, repaid), Value: discipline}
		in.Deviation = deviation(discipline, b)
		switch {
		case in.Deviation == 0:
			in.Description = fmt.Sprintf("%.0f%% of repayments were on time and %.0f%% of borrowed principal is repaid. Your punctual repayments build strong trust with lenders.", timely, repaid)
		case m.TimelyRepaymentRatio >= b.Target:
			in.Description = fmt.Sprintf("Repayments are %.0f%% on time, but only %.0f%% of borrowed principal is repaid. Reducing outstanding principal strengthens your repayment record.", timely, repaid)
		default:
			in.Description = fmt.Sprintf("Only %.0f%% of repayments were on time and %.0f%% of borrowed principal is repaid. Lift on-time payments above 90%% to signal consistent repayment behaviour.", timely, repaid)
		}
		return in
	case InsightIncome:
		pct := m.DebtToIncome * 100
		in := Insight{Kind: b.Kind, Title: "Debt coverage", Metric: fmt.Sprintf("%.1f%% debt-to-income", pct), Value: m.DebtToIncome}
		in.Deviation = deviation(m.DebtToIncome, b)
		if in.Deviation == 0 {
			in.Description = fmt.Sprintf("EMIs take %.1f%% of annual income. A healthy EMI-to-income ratio leaves room for new concessional credit.", pct)
		} else {
			in.Description = fmt.Sprintf("EMIs take %.1f%% of annual income. Optimise your EMI load to keep debt-to-income below 40%%.", pct)
		}
		return in
	case InsightUtilization:
		pct := m.Utilization * 100
		in := Insight{Kind: b.Kind, Title: "Credit utilisation", Metric: fmt.Sprintf("%.0f%% utilised", pct), Value: m.Utilization}
		in.Deviation = deviation(m.Utilization, b)
		if in.Deviation == 0 {
			in.Description = fmt.Sprintf("Utilisation of %.0f%% keeps your risk profile attractive to impact lenders.", pct)
		} else {
			in.Description = fmt.Sprintf("Utilisation of %.0f%% is above target. Pay down revolving balances to bring it closer to 30%%.", pct)
		}
		return in
	default:
		months := liquidityLabel(m.LiquidityMonths)
		in := Insight{Kind: InsightLiquidity, Title: "Liquidity runway", Metric: months + " months buffer", Value: m.LiquidityMonths}
		in.Deviation = deviation(m.LiquidityMonths, b)
		if in.Deviation == 0 {
			in.Description = fmt.Sprintf("Savings cover %s months of EMIs, supporting resilience during income fluctuations.", months)
		} else {
			in.Description = fmt.Sprintf("Savings cover %s months of EMIs. Grow liquid reserves to cover at least six months for better resilience.", months)
		}
		return in
	}
}

func liquidityLabel(months float64) string {
	if months >= DisplayLiquidityCapMonths {
		return fmt.Sprintf("%d+", DisplayLiquidityCapMonths)
	}
	return fmt.Sprintf("%.1f", months)
}

// Focus picks the single most pressing habit to change.
func Focus(m DerivedMetrics) string {
	switch {
	case m.TimelyRepaymentRatio < 0.85:
		return "Adopt automated reminders to lift on-time repayments above 90%."
	case m.Utilization > 0.45:
		return "Reduce revolving balances to bring credit utilisation closer to 30%."
	case m.DebtToIncome > 0.45:
		return "Lower EMI load or boost documented income to keep debt-to-income below 40%."
	case m.LiquidityMonths < 4:
		return "Build a higher liquid buffer to cover at least six months of EMIs."
	default:
		return "Continue compounding savings and diversify banking relationships."
	}
}

// IncomeInsights reports one statement per anomalous data source. A clean
// household gets an empty, non-nil list.
func IncomeInsights(m IncomeMetrics) []string {
	printer := message.NewPrinter(language.English)
	insights := []string{}
	if m.PerCapitaIncome < minPerCapitaIncome || m.DisposableIncome < minDisposableIncome {
		insights = append(insights, printer.Sprintf(
			"Income: per-capita income of ₹%d and disposable income of ₹%d fall short of the ₹%d and ₹%d concessional benchmarks.",
			rupees(m.PerCapitaIncome), rupees(m.DisposableIncome), minPerCapitaIncome, minDisposableIncome))
	}
	if m.DebtBurden > maxDebtBurden {
		insights = append(insights, fmt.Sprintf(
			"Debt load: outstanding loans equal %.1f%% of annual income, above the %.0f%% comfort limit.",
			m.DebtBurden*100, maxDebtBurden*100))
	}
	if m.EnergyIntensity > maxEnergyIntensity {
		insights = append(insights, printer.Sprintf(
			"Energy: consumption of %d kWh per household member exceeds the %d kWh reference.",
			int64(math.Round(m.EnergyIntensity)), maxEnergyIntensity))
	}
	if m.WaterBillShare > maxWaterBillShare {
		insights = append(insights, fmt.Sprintf(
			"Water: the annual water bill takes %.1f%% of income, above the %.0f%% reference.",
			m.WaterBillShare*100, maxWaterBillShare*100))
	}
	return insights
}

func rupees(v float64) int64 {
	return int64(math.Round(v))
}
