package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCredit_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  CreditCategory
	}{
		{900, CategoryExcellent},
		{780, CategoryExcellent},
		{779, CategoryGood},
		{680, CategoryGood},
		{679, CategoryAverage},
		{580, CategoryAverage},
		{579, CategoryNeedsAttention},
		{300, CategoryNeedsAttention},
	}

	for _, tt := range tests {
		got, err := ClassifyCredit(tt.score)
		require.NoError(t, err, "score %d", tt.score)
		assert.Equal(t, tt.want, got, "score %d", tt.score)
	}
}

func TestClassifyCredit_OutsideScale(t *testing.T) {
	for _, score := range []int{299, 901, -1} {
		_, err := ClassifyCredit(score)
		var cerr *ComputationError
		assert.True(t, errors.As(err, &cerr), "score %d", score)
	}
}

func TestClassifyIncome_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  IncomeCategory
	}{
		{100, IncomeHigh},
		{70, IncomeHigh},
		{69, IncomeMedium},
		{40, IncomeMedium},
		{39, IncomeLow},
		{0, IncomeLow},
	}

	for _, tt := range tests {
		got, err := ClassifyIncome(tt.score)
		require.NoError(t, err, "score %d", tt.score)
		assert.Equal(t, tt.want, got, "score %d", tt.score)
	}

	_, err := ClassifyIncome(101)
	assert.Error(t, err)
}

func TestRiskTier(t *testing.T) {
	tests := map[CreditCategory]RiskTier{
		CategoryExcellent:      RiskLow,
		CategoryGood:           RiskMedium,
		CategoryAverage:        RiskHigh,
		CategoryNeedsAttention: RiskHigh,
	}
	for category, want := range tests {
		got, err := category.RiskTier()
		require.NoError(t, err)
		assert.Equal(t, want, got, string(category))
	}

	_, err := CreditCategory("Superb").RiskTier()
	assert.Error(t, err)
}

func TestCategoryTextIsExhaustive(t *testing.T) {
	for _, b := range creditBands {
		rec, err := CreditCategory(b.Category).Recommendation()
		require.NoError(t, err)
		assert.NotEmpty(t, rec)
	}
	for _, b := range incomeBands {
		summary, err := IncomeCategory(b.Category).Summary()
		require.NoError(t, err)
		assert.NotEmpty(t, summary)
	}

	_, err := CreditCategory("").Recommendation()
	assert.Error(t, err)
	_, err = IncomeCategory("Very High").Summary()
	assert.Error(t, err)
}

func TestBandsAreContiguous(t *testing.T) {
	check := func(bands []Band, lo, hi int) {
		require.Equal(t, hi, bands[0].Max)
		for i := 1; i < len(bands); i++ {
			require.Equal(t, bands[i-1].Min-1, bands[i].Max, "gap below %s", bands[i-1].Category)
		}
		require.Equal(t, lo, bands[len(bands)-1].Min)
	}
	check(creditBands, MinCreditScore, MaxCreditScore)
	check(incomeBands, MinIncomeScore, MaxIncomeScore)
}
