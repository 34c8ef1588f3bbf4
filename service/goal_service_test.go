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

func newGoalService(t *testing.T) (*GoalService, *repository.ProjectionRepositoryMemory) {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	repo := repository.NewProjectionRepositoryMemory(10)
	return NewGoalService(NewProjectionService(repo, repository.NewMemoryCache(), logger, 0)), repo
}

func finalValue(t *testing.T, p domain.SimulationParameters) float64 {
	t.Helper()
	result, err := Project(p)
	require.NoError(t, err)
	final, _ := result.Final()
	return final.FundValue
}

func TestRecommendDeposit_SmallestCentReachingTarget(t *testing.T) {
	svc, repo := newGoalService(t)

	tests := []domain.GoalInput{
		{TargetFundValue: 10000, InvestmentPeriodYears: 10, AnnualInterestRatePercent: 5, VarianceTier: domain.VarianceLow},
		{TargetFundValue: 250000, InvestmentPeriodYears: 30, AnnualInterestRatePercent: 7, VarianceTier: domain.VarianceHigh},
		{TargetFundValue: 1200, InvestmentPeriodYears: 1, AnnualInterestRatePercent: 0, VarianceTier: domain.VarianceMedium},
	}

	for _, input := range tests {
		result, err := svc.RecommendDeposit(context.Background(), input)
		require.NoError(t, err)

		p := params(input.InvestmentPeriodYears, result.RequiredMonthlyDeposit, input.AnnualInterestRatePercent, input.VarianceTier)
		assert.GreaterOrEqual(t, finalValue(t, p), input.TargetFundValue)
		assert.Equal(t, finalValue(t, p), result.ProjectedFundValue)

		p.MonthlyDeposit = roundTo2Decimals(result.RequiredMonthlyDeposit - 0.01)
		assert.Less(t, finalValue(t, p), input.TargetFundValue)
	}

	assert.Empty(t, repo.Recent(0), "goal searches stay out of the history")
}

func TestRecommendDeposit_LargeTargets(t *testing.T) {
	svc, _ := newGoalService(t)

	tests := []domain.GoalInput{
		{TargetFundValue: 1e7, InvestmentPeriodYears: 1, AnnualInterestRatePercent: 9.1, VarianceTier: domain.VarianceLow},
		{TargetFundValue: 5e8, InvestmentPeriodYears: 3, AnnualInterestRatePercent: 7.3, VarianceTier: domain.VarianceHigh},
		{TargetFundValue: MaxGoalTarget, InvestmentPeriodYears: 1, AnnualInterestRatePercent: 5, VarianceTier: domain.VarianceLow},
		{TargetFundValue: MaxGoalTarget, InvestmentPeriodYears: 40, AnnualInterestRatePercent: 12, VarianceTier: domain.VarianceMedium},
		{TargetFundValue: MaxGoalTarget - 0.01, InvestmentPeriodYears: 100, AnnualInterestRatePercent: 0, VarianceTier: domain.VarianceHigh},
		{TargetFundValue: 987654321.98, InvestmentPeriodYears: 7, AnnualInterestRatePercent: 3.3, VarianceTier: domain.VarianceMedium},
	}

	for _, input := range tests {
		result, err := svc.RecommendDeposit(context.Background(), input)
		require.NoError(t, err, "target %.2f", input.TargetFundValue)

		p := params(input.InvestmentPeriodYears, result.RequiredMonthlyDeposit, input.AnnualInterestRatePercent, input.VarianceTier)
		assert.GreaterOrEqual(t, finalValue(t, p), input.TargetFundValue)

		p.MonthlyDeposit = roundTo2Decimals(result.RequiredMonthlyDeposit - 0.01)
		assert.Less(t, finalValue(t, p), input.TargetFundValue, "target %.2f", input.TargetFundValue)
	}
}

func TestRecommendDeposit_NoInterest(t *testing.T) {
	svc, _ := newGoalService(t)

	result, err := svc.RecommendDeposit(context.Background(), domain.GoalInput{
		TargetFundValue:       1200,
		InvestmentPeriodYears: 1,
		VarianceTier:          domain.VarianceLow,
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.RequiredMonthlyDeposit)
	assert.Equal(t, 1200.0, result.TotalDeposits)
	assert.Zero(t, result.TotalInterestEarned)
	assert.NotEmpty(t, result.Reason)
}

func TestRecommendDeposit_Invalid(t *testing.T) {
	svc, _ := newGoalService(t)

	tests := []domain.GoalInput{
		{TargetFundValue: 0, InvestmentPeriodYears: 10, VarianceTier: domain.VarianceLow},
		{TargetFundValue: MaxGoalTarget * 2, InvestmentPeriodYears: 10, VarianceTier: domain.VarianceLow},
		{TargetFundValue: 1000, InvestmentPeriodYears: 0, VarianceTier: domain.VarianceLow},
		{TargetFundValue: 1000, InvestmentPeriodYears: 5, AnnualInterestRatePercent: -2, VarianceTier: domain.VarianceLow},
		{TargetFundValue: 1000, InvestmentPeriodYears: 5, VarianceTier: "Wild"},
	}
	for _, input := range tests {
		_, err := svc.RecommendDeposit(context.Background(), input)
		assert.ErrorIs(t, err, ErrInvalidParameters)
	}
}
