package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// plainDecimal accepts locale-invariant decimals only: no currency symbols,
// thousand separators, exponents or special values.
var plainDecimal = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

type fieldRule struct {
	name    string
	integer bool
	check   func(decimal.Decimal) string
}

var (
	zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)

	// maxMagnitude keeps every derived ratio finite.
	maxMagnitude = decimal.New(1, 15)
)

func between(lo, hi decimal.Decimal) func(decimal.Decimal) string {
	return func(d decimal.Decimal) string {
		if d.LessThan(lo) || d.GreaterThan(hi) {
			return fmt.Sprintf("must be between %s and %s", lo, hi)
		}
		return ""
	}
}

func atLeast(lo decimal.Decimal) func(decimal.Decimal) string {
	return func(d decimal.Decimal) string {
		if d.LessThan(lo) {
			if lo.IsZero() {
				return "must not be negative"
			}
			return fmt.Sprintf("must be at least %s", lo)
		}
		return ""
	}
}

func greaterThan(lo decimal.Decimal) func(decimal.Decimal) string {
	return func(d decimal.Decimal) string {
		if !d.GreaterThan(lo) {
			return fmt.Sprintf("must be greater than %s", lo)
		}
		return ""
	}
}

var creditRules = []fieldRule{
	{name: "timelyRepayment", check: between(zero, hundred)},
	{name: "totalLoanTaken", check: atLeast(zero)},
	{name: "totalLoanRepaid", check: atLeast(zero)},
	{name: "annualIncome", check: greaterThan(zero)},
	{name: "totalBankAccounts", integer: true, check: atLeast(zero)},
	{name: "totalBalance", check: atLeast(zero)},
	{name: "creditUtilization", check: between(zero, hundred)},
	{name: "age", check: between(decimal.NewFromInt(18), decimal.NewFromInt(120))},
	{name: "averageMonthlyEMI", check: atLeast(zero)},
}

var incomeRules = []fieldRule{
	{name: "annualIncome", check: greaterThan(zero)},
	{name: "energyConsumption", check: atLeast(zero)},
	{name: "totalLoanAmount", check: atLeast(zero)},
	{name: "loanTenure", check: greaterThan(zero)},
	{name: "annualWaterBill", check: atLeast(zero)},
	{name: "householdMembers", integer: true, check: atLeast(decimal.NewFromInt(1))},
	{name: "monthlyExpenses", check: atLeast(zero)},
}

// ValidateCredit turns a raw credit request into a FinancialProfile.
// All offending fields are reported together.
func ValidateCredit(raw RawInput) (FinancialProfile, error) {
	v, err := validate(raw, creditRules)
	if err != nil {
		return FinancialProfile{}, err
	}
	return FinancialProfile{
		TimelyRepaymentPct:   v["timelyRepayment"].InexactFloat64(),
		TotalLoanTaken:       v["totalLoanTaken"].InexactFloat64(),
		TotalLoanRepaid:      v["totalLoanRepaid"].InexactFloat64(),
		AnnualIncome:         v["annualIncome"].InexactFloat64(),
		TotalBankAccounts:    int(v["totalBankAccounts"].IntPart()),
		TotalBalance:         v["totalBalance"].InexactFloat64(),
		CreditUtilizationPct: v["creditUtilization"].InexactFloat64(),
		Age:                  v["age"].InexactFloat64(),
		AverageMonthlyEMI:    v["averageMonthlyEMI"].InexactFloat64(),
	}, nil
}

// ValidateIncome turns a raw income request into an IncomeProfile.
func ValidateIncome(raw RawInput) (IncomeProfile, error) {
	v, err := validate(raw, incomeRules)
	if err != nil {
		return IncomeProfile{}, err
	}
	return IncomeProfile{
		AnnualIncome:         v["annualIncome"].InexactFloat64(),
		EnergyConsumptionKWh: v["energyConsumption"].InexactFloat64(),
		TotalLoanAmount:      v["totalLoanAmount"].InexactFloat64(),
		LoanTenureMonths:     v["loanTenure"].InexactFloat64(),
		AnnualWaterBill:      v["annualWaterBill"].InexactFloat64(),
		HouseholdMembers:     int(v["householdMembers"].IntPart()),
		MonthlyExpenses:      v["monthlyExpenses"].InexactFloat64(),
	}, nil
}

func validate(raw RawInput, rules []fieldRule) (map[string]decimal.Decimal, error) {
	verr := &ValidationError{}
	values := make(map[string]decimal.Decimal, len(rules))
	for _, rule := range rules {
		d, reason := parseField(raw, rule.name)
		if reason == "" && rule.integer && !d.IsInteger() {
			reason = "must be a whole number"
		}
		if reason == "" {
			reason = rule.check(d)
		}
		if reason != "" {
			verr.add(rule.name, reason)
			continue
		}
		values[rule.name] = d
	}
	if err := verr.errOrNil(); err != nil {
		return nil, err
	}
	return values, nil
}

// parseField reads a decimal string (or bare JSON number) from raw.
// A non-empty reason means the field was rejected.
func parseField(raw RawInput, name string) (decimal.Decimal, string) {
	value, ok := raw[name]
	value = bytes.TrimSpace(value)
	if !ok || len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return decimal.Decimal{}, "missing"
	}

	text := string(value)
	if value[0] == '"' {
		if err := json.Unmarshal(value, &text); err != nil {
			return decimal.Decimal{}, "not a number"
		}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Decimal{}, "missing"
	}
	if !plainDecimal.MatchString(text) {
		return decimal.Decimal{}, "not a number"
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, "not a number"
	}
	if d.Abs().GreaterThan(maxMagnitude) {
		return decimal.Decimal{}, "out of range"
	}
	return d, ""
}
