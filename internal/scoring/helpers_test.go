package scoring

import (
	"encoding/json"
	"strconv"
)

// rawOf encodes every value as a JSON string, the way the web client sends them.
func rawOf(fields map[string]string) RawInput {
	raw := make(RawInput, len(fields))
	for k, v := range fields {
		b, _ := json.Marshal(v)
		raw[k] = b
	}
	return raw
}

func workedExample() map[string]string {
	return map[string]string{
		"timelyRepayment":   "92",
		"totalLoanTaken":    "750000",
		"totalLoanRepaid":   "540000",
		"annualIncome":      "960000",
		"totalBankAccounts": "4",
		"totalBalance":      "320000",
		"creditUtilization": "32",
		"age":               "34",
		"averageMonthlyEMI": "18000",
	}
}

func workedProfile() FinancialProfile {
	return FinancialProfile{
		TimelyRepaymentPct:   92,
		TotalLoanTaken:       750000,
		TotalLoanRepaid:      540000,
		AnnualIncome:         960000,
		TotalBankAccounts:    4,
		TotalBalance:         320000,
		CreditUtilizationPct: 32,
		Age:                  34,
		AverageMonthlyEMI:    18000,
	}
}

func incomeRequest(income, energy, loan, tenure, water float64, members int, expenses float64) map[string]string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return map[string]string{
		"annualIncome":      f(income),
		"energyConsumption": f(energy),
		"totalLoanAmount":   f(loan),
		"loanTenure":        f(tenure),
		"annualWaterBill":   f(water),
		"householdMembers":  strconv.Itoa(members),
		"monthlyExpenses":   f(expenses),
	}
}
