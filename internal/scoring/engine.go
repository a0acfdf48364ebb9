package scoring

import "github.com/Dan9191/credit-engine/internal/models"

// CreditAssessment is the engine's unformatted credit result.
type CreditAssessment struct {
	Profile        FinancialProfile
	Metrics        DerivedMetrics
	Composite      float64
	Score          int
	Category       CreditCategory
	RiskTier       RiskTier
	Confidence     float64
	Recommendation string
	Focus          string
	Insights       []Insight
}

// IncomeAssessment is the engine's unformatted income result.
type IncomeAssessment struct {
	Profile  IncomeProfile
	Metrics  IncomeMetrics
	Score    int
	Category IncomeCategory
	Summary  string
	Insights []string
}

// Engine evaluates credit and income requests. It holds no state; one value
// may serve any number of goroutines.
type Engine struct{}

// NewEngine returns a new engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// EvaluateCredit validates raw and runs the credit pipeline.
func (e *Engine) EvaluateCredit(raw RawInput) (CreditAssessment, error) {
	profile, err := ValidateCredit(raw)
	if err != nil {
		return CreditAssessment{}, err
	}
	return e.ScoreProfile(profile)
}

// ScoreProfile runs the credit pipeline on an already validated profile.
func (e *Engine) ScoreProfile(profile FinancialProfile) (CreditAssessment, error) {
	m := Derive(profile)
	composite := Composite(m)
	score := ScaleCredit(composite)

	category, err := ClassifyCredit(score)
	if err != nil {
		return CreditAssessment{}, err
	}
	tier, err := category.RiskTier()
	if err != nil {
		return CreditAssessment{}, err
	}
	recommendation, err := category.Recommendation()
	if err != nil {
		return CreditAssessment{}, err
	}

	return CreditAssessment{
		Profile:        profile,
		Metrics:        m,
		Composite:      composite,
		Score:          score,
		Category:       category,
		RiskTier:       tier,
		Confidence:     Confidence(profile, m),
		Recommendation: recommendation,
		Focus:          Focus(m),
		Insights:       CreditInsights(m),
	}, nil
}

// EvaluateIncome validates raw and runs the income pipeline.
func (e *Engine) EvaluateIncome(raw RawInput) (IncomeAssessment, error) {
	profile, err := ValidateIncome(raw)
	if err != nil {
		return IncomeAssessment{}, err
	}

	m := DeriveIncome(profile)
	score := IncomeScore(m)
	category, err := ClassifyIncome(score)
	if err != nil {
		return IncomeAssessment{}, err
	}
	summary, err := category.Summary()
	if err != nil {
		return IncomeAssessment{}, err
	}

	return IncomeAssessment{
		Profile:  profile,
		Metrics:  m,
		Score:    score,
		Category: category,
		Summary:  summary,
		Insights: IncomeInsights(m),
	}, nil
}

// Predict is EvaluateCredit followed by AssembleCredit.
func (e *Engine) Predict(raw RawInput) (models.CreditPrediction, error) {
	a, err := e.EvaluateCredit(raw)
	if err != nil {
		return models.CreditPrediction{}, err
	}
	return AssembleCredit(a), nil
}

// AnalyzeIncome is EvaluateIncome followed by AssembleIncome.
func (e *Engine) AnalyzeIncome(raw RawInput) (models.IncomeAnalysis, error) {
	a, err := e.EvaluateIncome(raw)
	if err != nil {
		return models.IncomeAnalysis{}, err
	}
	return AssembleIncome(a), nil
}
