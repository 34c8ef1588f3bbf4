package service

import (
	"context"
	"fmt"
	"math"

	"fund-projection/domain"
)

// probeDeposit is the deposit used to measure how a plan scales.
const probeDeposit = 100.0

func centsToDeposit(cents int64) float64 {
	return roundTo2Decimals(float64(cents) / centsPerUnit)
}

type GoalService struct {
	projectionService *ProjectionService
}

func NewGoalService(projectionService *ProjectionService) *GoalService {
	return &GoalService{projectionService: projectionService}
}

// RecommendDeposit finds the smallest whole-cent monthly deposit whose final
// fund value reaches the target.
//
// Every step of the engine is monotonic in the deposit, so the search is a
// bisection over whole cents. A probe projection places the upper bound close
// to the answer.
func (s *GoalService) RecommendDeposit(
	_ context.Context,
	input domain.GoalInput,
) (domain.GoalResult, error) {

	if math.IsNaN(input.TargetFundValue) || math.IsInf(input.TargetFundValue, 0) || input.TargetFundValue <= 0 {
		return domain.GoalResult{}, invalidParameters("target fund value must be a positive number")
	}
	if input.TargetFundValue > MaxGoalTarget {
		return domain.GoalResult{}, invalidParameters("target fund value exceeds the maximum of %.2f", MaxGoalTarget)
	}

	params := domain.SimulationParameters{
		InvestmentPeriodYears:     input.InvestmentPeriodYears,
		MonthlyDeposit:            probeDeposit,
		AnnualInterestRatePercent: input.AnnualInterestRatePercent,
		VarianceTier:              input.VarianceTier,
	}

	if err := ValidateParameters(params); err != nil {
		return domain.GoalResult{}, err
	}
	if err := s.projectionService.CheckLimits(params); err != nil {
		return domain.GoalResult{}, err
	}

	// The search calls the engine directly so probes stay out of the cache
	// and the history.
	reaches := func(cents int64) (domain.SimulationResult, bool, error) {
		p := params
		p.MonthlyDeposit = centsToDeposit(cents)
		result, err := Project(p)
		if err != nil {
			return domain.SimulationResult{}, false, err
		}
		final, _ := result.Final()
		return result, final.FundValue >= input.TargetFundValue, nil
	}

	probe, _, err := reaches(int64(probeDeposit * centsPerUnit))
	if err != nil {
		return domain.GoalResult{}, err
	}
	probeFinal, _ := probe.Final()
	if probeFinal.FundValue <= 0 {
		return domain.GoalResult{}, fmt.Errorf("plan does not grow with deposits, cannot reach %.2f", input.TargetFundValue)
	}

	estimate := input.TargetFundValue / (probeFinal.FundValue / probeDeposit)
	hi := int64(math.Ceil(estimate*(1+goalSearchMargin)*centsPerUnit)) + 1

	result, ok, err := reaches(hi)
	if err != nil {
		return domain.GoalResult{}, err
	}
	for i := 0; !ok; i++ {
		if i == maxGoalExpansions {
			return domain.GoalResult{}, fmt.Errorf("could not bound a deposit reaching %.2f", input.TargetFundValue)
		}
		hi *= 2
		if result, ok, err = reaches(hi); err != nil {
			return domain.GoalResult{}, err
		}
	}

	// lo never reaches the target, hi always does.
	lo := int64(0)
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		midResult, midOK, err := reaches(mid)
		if err != nil {
			return domain.GoalResult{}, err
		}
		if midOK {
			hi, result = mid, midResult
		} else {
			lo = mid
		}
	}
	deposit := centsToDeposit(hi)

	final, _ := result.Final()
	return domain.GoalResult{
		RequiredMonthlyDeposit: deposit,
		ProjectedFundValue:     final.FundValue,
		TotalDeposits:          final.AccumulatedDeposits,
		TotalInterestEarned:    result.TotalInterestEarned,
		Reason: fmt.Sprintf("Depositing %.2f a month for %d years at %.2f%% with %s variance grows to %.2f, reaching the %.2f target.",
			deposit, input.InvestmentPeriodYears, input.AnnualInterestRatePercent,
			input.VarianceTier, final.FundValue, input.TargetFundValue),
	}, nil
}
