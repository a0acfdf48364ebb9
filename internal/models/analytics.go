package models

// IncomeAnalysis is the response of POST /api/income/analyze
type IncomeAnalysis struct {
	AssessmentID string   `json:"assessmentId,omitempty"`
	Category     string   `json:"category"`
	Score        int      `json:"score"`
	Summary      string   `json:"summary"`
	Insights     []string `json:"insights"`
}

// DashboardStats represents the headline numbers shown on the landing page
type DashboardStats struct {
	HouseholdsAnalysed string `json:"households_analysed"`
	LoanVisibility     string `json:"loan_visibility"`
	InclusionUplift    string `json:"inclusion_uplift"`
}
