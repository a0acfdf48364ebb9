package scoring

type confidencePenalty struct {
	reason  string
	points  float64
	applies func(FinancialProfile, DerivedMetrics) bool
}

// confidencePenalties flag inputs at the edge of plausibility. They measure
// trust in the reading, not the quality of the applicant.
var confidencePenalties = []confidencePenalty{
	{reason: "applicant younger than 21", points: 10, applies: func(p FinancialProfile, _ DerivedMetrics) bool {
		return p.Age < 21
	}},
	{reason: "applicant older than 70", points: 10, applies: func(p FinancialProfile, _ DerivedMetrics) bool {
		return p.Age > 70
	}},
	{reason: "no bank accounts on record", points: 15, applies: func(p FinancialProfile, _ DerivedMetrics) bool {
		return p.TotalBankAccounts == 0
	}},
	{reason: "debt-to-income above 1.0", points: 20, applies: func(_ FinancialProfile, m DerivedMetrics) bool {
		return m.DebtToIncome > 1
	}},
	{reason: "repaid more than was borrowed", points: 15, applies: func(_ FinancialProfile, m DerivedMetrics) bool {
		return m.RepaymentRatio > 1
	}},
	{reason: "no loan history", points: 10, applies: func(p FinancialProfile, _ DerivedMetrics) bool {
		return p.TotalLoanTaken == 0
	}},
	{reason: "no liquid balance", points: 5, applies: func(p FinancialProfile, _ DerivedMetrics) bool {
		return p.TotalBalance == 0
	}},
}

// Confidence starts at 100 and deducts every applicable penalty.
func Confidence(p FinancialProfile, m DerivedMetrics) float64 {
	c := 100.0
	for _, pen := range confidencePenalties {
		if pen.applies(p, m) {
			c -= pen.points
		}
	}
	return clamp(c, 0, 100)
}

// ConfidenceReasons lists the penalties that applied, in table order.
func ConfidenceReasons(p FinancialProfile, m DerivedMetrics) []string {
	var reasons []string
	for _, pen := range confidencePenalties {
		if pen.applies(p, m) {
			reasons = append(reasons, pen.reason)
		}
	}
	return reasons
}
