package service

import (
	"context"
	"math"

	"fund-projection/domain"
)

type ComparisonService struct {
	projectionService *ProjectionService
	explainer         *ExplanationService
}

func NewComparisonService(projectionService *ProjectionService, explainer *ExplanationService) *ComparisonService {
	return &ComparisonService{
		projectionService: projectionService,
		explainer:         explainer,
	}
}

// CompareTiers projects the same plan under every variance tier. The tier in
// params is ignored.
func (s *ComparisonService) CompareTiers(
	ctx context.Context,
	params domain.SimulationParameters,
	explain bool,
) (domain.TierComparison, error) {

	comparison := domain.TierComparison{
		InvestmentPeriodYears:     params.InvestmentPeriodYears,
		MonthlyDeposit:            params.MonthlyDeposit,
		AnnualInterestRatePercent: params.AnnualInterestRatePercent,
		Outcomes:                  make([]domain.TierOutcome, 0, len(domain.VarianceTiers)),
	}

	best, worst := math.Inf(-1), math.Inf(1)
	for _, tier := range domain.VarianceTiers {
		tierParams := params
		tierParams.VarianceTier = tier

		result, err := s.projectionService.CalculateProjection(ctx, tierParams)
		if err != nil {
			return domain.TierComparison{}, err
		}

		outcome := summarizeTier(tier, result)
		comparison.Outcomes = append(comparison.Outcomes, outcome)

		// Ties keep the milder tier.
		if outcome.FinalFundValue > best {
			best = outcome.FinalFundValue
			comparison.BestTier = tier
		}
		worst = math.Min(worst, outcome.FinalFundValue)
	}
	comparison.FinalValueSpread = roundTo2Decimals(best - worst)

	if explain && s.explainer != nil {
		comparison.Explanation = s.explainer.ExplainComparison(ctx, comparison)
	}

	return comparison, nil
}

func summarizeTier(tier domain.VarianceTier, result domain.SimulationResult) domain.TierOutcome {
	outcome := domain.TierOutcome{
		Tier:                    tier,
		TotalInterestEarned:     result.TotalInterestEarned,
		AverageAnnualGrowthRate: result.AverageAnnualGrowthRate,
	}
	final, ok := result.Final()
	if !ok {
		return outcome
	}
	outcome.FinalFundValue = final.FundValue
	outcome.TotalDeposits = final.AccumulatedDeposits

	// Month 1 is measured against the deposit, not a prior balance, so it is
	// left out of the drawdown search.
	outcome.WorstMonth = final.Month
	outcome.WorstMonthGrowthPercent = math.Inf(1)
	for _, record := range result.Records {
		if record.Month == 1 && len(result.Records) > 1 {
			continue
		}
		if record.MonthlyGrowthPercent < outcome.WorstMonthGrowthPercent {
			outcome.WorstMonth = record.Month
			outcome.WorstMonthGrowthPercent = record.MonthlyGrowthPercent
		}
	}
	return outcome
}
