package scoring

import (
	"bytes"
	"encoding/json"
)

// RawInput is an undecoded request body keyed by field name.
type RawInput map[string]json.RawMessage

// ParseRaw decodes a request body into RawInput. Anything other than a JSON
// object is rejected as a ValidationError on the "body" field.
func ParseRaw(body []byte) (RawInput, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &ValidationError{Fields: []FieldError{{Field: "body", Reason: "must be a JSON object"}}}
	}
	var raw RawInput
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "body", Reason: "malformed JSON"}}}
	}
	return raw, nil
}

// FinancialProfile is the validated input of the credit path.
// Percentages are kept on their 0-100 request scale.
type FinancialProfile struct {
	TimelyRepaymentPct   float64 `json:"timelyRepaymentPct"`
	TotalLoanTaken       float64 `json:"totalLoanTaken"`
	TotalLoanRepaid      float64 `json:"totalLoanRepaid"`
	AnnualIncome         float64 `json:"annualIncome"`
	TotalBankAccounts    int     `json:"totalBankAccounts"`
	TotalBalance         float64 `json:"totalBalance"`
	CreditUtilizationPct float64 `json:"creditUtilizationPct"`
	Age                  float64 `json:"age"`
	AverageMonthlyEMI    float64 `json:"averageMonthlyEMI"`
}

// IncomeProfile is the validated input of the income reliability path.
type IncomeProfile struct {
	AnnualIncome         float64 `json:"annualIncome"`
	EnergyConsumptionKWh float64 `json:"energyConsumptionKWh"`
	TotalLoanAmount      float64 `json:"totalLoanAmount"`
	LoanTenureMonths     float64 `json:"loanTenureMonths"`
	AnnualWaterBill      float64 `json:"annualWaterBill"`
	HouseholdMembers     int     `json:"householdMembers"`
	MonthlyExpenses      float64 `json:"monthlyExpenses"`
}
