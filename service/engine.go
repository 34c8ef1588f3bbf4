package service

import (
	"errors"
	"fmt"
	"math"

	"fund-projection/domain"
)

// ErrInvalidParameters is wrapped by every validation failure.
var ErrInvalidParameters = errors.New("invalid parameters")

func invalidParameters(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidParameters}, args...)...)
}

// ValidateParameters checks the engine's preconditions.
func ValidateParameters(params domain.SimulationParameters) error {
	if params.InvestmentPeriodYears <= 0 {
		return invalidParameters("investment period must be a positive number of years, got %d", params.InvestmentPeriodYears)
	}
	if params.InvestmentPeriodYears > math.MaxInt/12 {
		return invalidParameters("investment period of %d years overflows the month count", params.InvestmentPeriodYears)
	}
	if math.IsNaN(params.MonthlyDeposit) || math.IsInf(params.MonthlyDeposit, 0) {
		return invalidParameters("monthly deposit must be a finite number")
	}
	if params.MonthlyDeposit < 0 {
		return invalidParameters("monthly deposit must not be negative, got %.2f", params.MonthlyDeposit)
	}
	if math.IsNaN(params.AnnualInterestRatePercent) || math.IsInf(params.AnnualInterestRatePercent, 0) {
		return invalidParameters("annual interest rate must be a finite number")
	}
	if params.AnnualInterestRatePercent < 0 {
		return invalidParameters("annual interest rate must not be negative, got %.2f%%", params.AnnualInterestRatePercent)
	}
	return nil
}

// Project simulates the savings plan month by month. It is pure: the same
// parameters always give the same result. On invalid parameters it returns an
// empty result and an error wrapping ErrInvalidParameters.
//
// The running fund value and deposit total keep full precision between
// months; only the stored records and summaries are rounded.
func Project(params domain.SimulationParameters) (domain.SimulationResult, error) {
	if err := ValidateParameters(params); err != nil {
		return domain.SimulationResult{}, err
	}

	totalMonths := params.TotalMonths()
	monthlyRate := params.AnnualInterestRatePercent / 100 / 12
	records := make([]domain.MonthlyRecord, 0, totalMonths)

	fundValue := 0.0
	for month := 1; month <= totalMonths; month++ {
		prevFundValue := fundValue

		fundValue += params.MonthlyDeposit
		// Multiplying keeps the deposit total free of accumulated float drift.
		accumulated := params.MonthlyDeposit * float64(month)

		fundValue *= 1 + monthlyRate

		for _, event := range domain.EventKinds {
			fundValue = ApplyShock(fundValue, month, params.VarianceTier, event)
		}

		growth := 0.0
		switch {
		case month > 1 && prevFundValue > 0:
			growth = (fundValue - prevFundValue) / prevFundValue * 100
		case month == 1 && params.MonthlyDeposit > 0:
			growth = (fundValue/params.MonthlyDeposit - 1) * 100
		}

		records = append(records, domain.MonthlyRecord{
			Month:                   month,
			AccumulatedDeposits:     roundTo2Decimals(accumulated),
			FundValue:               roundTo2Decimals(fundValue),
			InterestGainedThisMonth: roundTo2Decimals(fundValue - accumulated),
			MonthlyGrowthPercent:    roundTo2Decimals(growth),
		})
	}

	result := domain.SimulationResult{Records: records}
	result.TotalInterestEarned, result.AverageAnnualGrowthRate = summarize(records, params.InvestmentPeriodYears)
	return result, nil
}

// summarize derives both summary figures from the final stored record.
func summarize(records []domain.MonthlyRecord, years int) (totalInterest, aagr float64) {
	if len(records) == 0 {
		return 0, 0
	}
	final := records[len(records)-1]
	totalInterest = roundTo2Decimals(final.FundValue - final.AccumulatedDeposits)

	if final.AccumulatedDeposits > 0 && years > 0 {
		totalReturn := totalInterest / final.AccumulatedDeposits
		aagr = roundTo2Decimals((math.Pow(1+totalReturn, 1/float64(years)) - 1) * 100)
	}
	return totalInterest, aagr
}
