package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive_WorkedExample(t *testing.T) {
	m := Derive(workedProfile())

	assert.InDelta(t, 0.72, m.RepaymentRatio, 1e-9)
	assert.InDelta(t, 0.92, m.TimelyRepaymentRatio, 1e-9)
	assert.InDelta(t, 0.225, m.DebtToIncome, 1e-9)
	assert.InDelta(t, 0.32, m.Utilization, 1e-9)
	assert.InDelta(t, 320000.0/18000.0, m.LiquidityMonths, 1e-9)
}

func TestDerive_ZeroDenominators(t *testing.T) {
	p := workedProfile()
	p.TotalLoanTaken = 0
	p.TotalLoanRepaid = 0
	p.AverageMonthlyEMI = 0

	m := Derive(p)
	assert.Zero(t, m.RepaymentRatio)
	assert.Zero(t, m.DebtToIncome)
	// Outflow is floored at one unit per month, so the runway is the balance itself.
	assert.Equal(t, p.TotalBalance, m.LiquidityMonths)
}

func TestDerive_LiquidityIsNotCapped(t *testing.T) {
	p := workedProfile()
	p.TotalBalance = 18000 * 40
	assert.InDelta(t, 40, Derive(p).LiquidityMonths, 1e-9)
}

func TestDeriveIncome(t *testing.T) {
	m := DeriveIncome(IncomeProfile{
		AnnualIncome:         600000,
		EnergyConsumptionKWh: 3000,
		TotalLoanAmount:      200000,
		LoanTenureMonths:     24,
		AnnualWaterBill:      6000,
		HouseholdMembers:     4,
		MonthlyExpenses:      25000,
	})

	assert.InDelta(t, 294000, m.DisposableIncome, 1e-9)
	assert.InDelta(t, 150000, m.PerCapitaIncome, 1e-9)
	assert.InDelta(t, 1.0/3.0, m.DebtBurden, 1e-9)
	assert.InDelta(t, 750, m.EnergyIntensity, 1e-9)
	assert.InDelta(t, 200000.0/24.0, m.MonthlyLoanOutflow, 1e-9)
	assert.InDelta(t, 0.01, m.WaterBillShare, 1e-9)
}
