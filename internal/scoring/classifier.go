package scoring

import "fmt"

// CreditCategory is the risk band of a credit score.
type CreditCategory string

const (
	CategoryExcellent      CreditCategory = "Excellent"       // 780-900
	CategoryGood           CreditCategory = "Good"            // 680-779
	CategoryAverage        CreditCategory = "Average"         // 580-679
	CategoryNeedsAttention CreditCategory = "Needs Attention" // 300-579
)

// RiskTier is the lending-risk view of a credit category.
type RiskTier string

const (
	RiskLow    RiskTier = "Low"
	RiskMedium RiskTier = "Medium"
	RiskHigh   RiskTier = "High"
)

// IncomeCategory is the reliability band of an income score.
type IncomeCategory string

const (
	IncomeHigh   IncomeCategory = "High"   // 70-100
	IncomeMedium IncomeCategory = "Medium" // 40-69
	IncomeLow    IncomeCategory = "Low"    // 0-39
)

func lookup(score int, bands []Band) (string, bool) {
	for _, b := range bands {
		if score >= b.Min && score <= b.Max {
			return b.Category, true
		}
	}
	return "", false
}

// ClassifyCredit returns the band holding score. A boundary score belongs to
// the higher band.
func ClassifyCredit(score int) (CreditCategory, error) {
	c, ok := lookup(score, creditBands)
	if !ok {
		return "", &ComputationError{Op: "classify credit", Err: fmt.Errorf("score %d outside %d-%d", score, MinCreditScore, MaxCreditScore)}
	}
	return CreditCategory(c), nil
}

// ClassifyIncome returns the band holding an income score.
func ClassifyIncome(score int) (IncomeCategory, error) {
	c, ok := lookup(score, incomeBands)
	if !ok {
		return "", &ComputationError{Op: "classify income", Err: fmt.Errorf("score %d outside %d-%d", score, MinIncomeScore, MaxIncomeScore)}
	}
	return IncomeCategory(c), nil
}

// RiskTier collapses the four credit bands into three lending tiers.
func (c CreditCategory) RiskTier() (RiskTier, error) {
	switch c {
	case CategoryExcellent:
		return RiskLow, nil
	case CategoryGood:
		return RiskMedium, nil
	case CategoryAverage, CategoryNeedsAttention:
		return RiskHigh, nil
	default:
		return "", &ComputationError{Op: "risk tier", Err: fmt.Errorf("unknown credit category %q", c)}
	}
}

// Recommendation is the lender-facing advice for a category.
func (c CreditCategory) Recommendation() (string, error) {
	switch c {
	case CategoryExcellent:
		return "Prime-lender ready. Maintain diversified repayments and disciplined utilisation.", nil
	case CategoryGood:
		return "Close to prime tier. Tighten utilisation and keep boosting repayment consistency.", nil
	case CategoryAverage:
		return "Strengthen repayment timelines and liquidity to unlock better underwriting tiers.", nil
	case CategoryNeedsAttention:
		return "Stabilise cash flows, reduce outstanding debt, and rebuild repayment regularity.", nil
	default:
		return "", &ComputationError{Op: "recommendation", Err: fmt.Errorf("unknown credit category %q", c)}
	}
}

// Summary describes what an income category means for concessional lending.
func (c IncomeCategory) Summary() (string, error) {
	switch c {
	case IncomeHigh:
		return "Household income and affordability indicators align with concessional lending criteria. Recommend fast-track appraisal and AI score sync.", nil
	case IncomeMedium:
		return "Mixed affordability signals detected. Recommend deeper review of expenditure trails, support interventions, and blended finance options.", nil
	case IncomeLow:
		return "Several risk factors identified across affordability and debt burden. Encourage financial counselling and inclusion readiness programmes.", nil
	default:
		return "", &ComputationError{Op: "summary", Err: fmt.Errorf("unknown income category %q", c)}
	}
}
