package service

import (
	"context"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fund-projection/domain"
	"fund-projection/repository"
)

func newComparisonService(t *testing.T) *ComparisonService {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	projections := NewProjectionService(repository.NewProjectionRepositoryMemory(10), repository.NewMemoryCache(), logger, 0)
	return NewComparisonService(projections, NewExplanationService(ExplanationOptions{}, logger))
}

func TestCompareTiers(t *testing.T) {
	svc := newComparisonService(t)

	comparison, err := svc.CompareTiers(context.Background(), params(10, 200, 5, "ignored"), false)
	require.NoError(t, err)
	require.Len(t, comparison.Outcomes, 3)

	low, medium, high := comparison.Outcomes[0], comparison.Outcomes[1], comparison.Outcomes[2]
	assert.Equal(t, domain.VarianceLow, low.Tier)
	assert.Equal(t, 30742.74, low.FinalFundValue)
	assert.Equal(t, 28480.63, medium.FinalFundValue)
	assert.Equal(t, 24847.63, high.FinalFundValue)
	assert.Equal(t, 24000.0, high.TotalDeposits)
	assert.Equal(t, 847.63, high.TotalInterestEarned)
	assert.Equal(t, 0.35, high.AverageAnnualGrowthRate)

	assert.Equal(t, 48, high.WorstMonth)
	assert.Equal(t, -17.69, high.WorstMonthGrowthPercent)
	assert.Equal(t, 48, low.WorstMonth)
	assert.Equal(t, -2.69, low.WorstMonthGrowthPercent)

	assert.Equal(t, domain.VarianceLow, comparison.BestTier)
	assert.Equal(t, 5895.11, comparison.FinalValueSpread)
	assert.Empty(t, comparison.Explanation)
}

func TestCompareTiers_ShortPlanHasNoSpread(t *testing.T) {
	svc := newComparisonService(t)

	comparison, err := svc.CompareTiers(context.Background(), params(1, 100, 3, domain.VarianceHigh), true)
	require.NoError(t, err)
	assert.Zero(t, comparison.FinalValueSpread)
	assert.Equal(t, domain.VarianceLow, comparison.BestTier, "ties keep the mildest tier")
	assert.Contains(t, comparison.Explanation, "Low variance")
}

func TestCompareTiers_InvalidParameters(t *testing.T) {
	svc := newComparisonService(t)

	_, err := svc.CompareTiers(context.Background(), params(0, 100, 3, domain.VarianceLow), false)
	assert.ErrorIs(t, err, ErrInvalidParameters)
}
