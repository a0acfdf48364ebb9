package scoring

// DerivedMetrics are the dimensionless ratios the credit score is built from.
// LiquidityMonths is unbounded here.
type DerivedMetrics struct {
	RepaymentRatio       float64 `json:"repaymentRatio"`
	TimelyRepaymentRatio float64 `json:"timelyRepaymentRatio"`
	DebtToIncome         float64 `json:"debtToIncome"`
	LiquidityMonths      float64 `json:"liquidityMonths"`
	Utilization          float64 `json:"utilization"`
}

// Derive computes the credit metrics. A zero denominator yields 0 except for
// the liquidity runway, whose monthly outflow is floored at 1.
func Derive(p FinancialProfile) DerivedMetrics {
	return DerivedMetrics{
		RepaymentRatio:       ratio(p.TotalLoanRepaid, p.TotalLoanTaken),
		TimelyRepaymentRatio: p.TimelyRepaymentPct / 100,
		DebtToIncome:         ratio(p.AverageMonthlyEMI*12, p.AnnualIncome),
		LiquidityMonths:      p.TotalBalance / max(p.AverageMonthlyEMI, 1),
		Utilization:          p.CreditUtilizationPct / 100,
	}
}

// IncomeMetrics are the affordability signals of a household.
type IncomeMetrics struct {
	// DisposableIncome is annual income less expenses and the water bill. It may be negative.
	DisposableIncome   float64 `json:"disposableIncome"`
	PerCapitaIncome    float64 `json:"perCapitaIncome"`
	DebtBurden         float64 `json:"debtBurden"`
	EnergyIntensity    float64 `json:"energyIntensityKWh"`
	MonthlyLoanOutflow float64 `json:"monthlyLoanOutflow"`
	WaterBillShare     float64 `json:"waterBillShare"`
}

// DeriveIncome computes the income metrics.
func DeriveIncome(p IncomeProfile) IncomeMetrics {
	members := float64(p.HouseholdMembers)
	return IncomeMetrics{
		DisposableIncome:   p.AnnualIncome - p.MonthlyExpenses*12 - p.AnnualWaterBill,
		PerCapitaIncome:    ratio(p.AnnualIncome, members),
		DebtBurden:         ratio(p.TotalLoanAmount, p.AnnualIncome),
		EnergyIntensity:    ratio(p.EnergyConsumptionKWh, members),
		MonthlyLoanOutflow: ratio(p.TotalLoanAmount, p.LoanTenureMonths),
		WaterBillShare:     ratio(p.AnnualWaterBill, p.AnnualIncome),
	}
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
