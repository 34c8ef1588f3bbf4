package domain

type GoalInput struct {
	TargetFundValue           float64      `json:"targetFundValue"`
	InvestmentPeriodYears     int          `json:"investmentPeriodYears"`
	AnnualInterestRatePercent float64      `json:"annualInterestRatePercent"`
	VarianceTier              VarianceTier `json:"varianceTier"`
}

type GoalResult struct {
	RequiredMonthlyDeposit float64 `json:"requiredMonthlyDeposit"`
	ProjectedFundValue     float64 `json:"projectedFundValue"`
	TotalDeposits          float64 `json:"totalDeposits"`
	TotalInterestEarned    float64 `json:"totalInterestEarned"`
	Reason                 string  `json:"reason"`
}
