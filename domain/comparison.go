package domain

// TierOutcome summarizes one tier's projection.
type TierOutcome struct {
	Tier                    VarianceTier `json:"tier"`
	FinalFundValue          float64      `json:"finalFundValue"`
	TotalDeposits           float64      `json:"totalDeposits"`
	TotalInterestEarned     float64      `json:"totalInterestEarned"`
	AverageAnnualGrowthRate float64      `json:"averageAnnualGrowthRate"`
	WorstMonth              int          `json:"worstMonth"`
	WorstMonthGrowthPercent float64      `json:"worstMonthGrowthPercent"`
}

type TierComparison struct {
	InvestmentPeriodYears     int           `json:"investmentPeriodYears"`
	MonthlyDeposit            float64       `json:"monthlyDeposit"`
	AnnualInterestRatePercent float64       `json:"annualInterestRatePercent"`
	Outcomes                  []TierOutcome `json:"outcomes"`
	BestTier                  VarianceTier  `json:"bestTier"`
	FinalValueSpread          float64       `json:"finalValueSpread"`
	Explanation               string        `json:"explanation,omitempty"`
}
