package domain

import "time"

// HistoryEntry records one computed projection without its monthly series.
type HistoryEntry struct {
	Parameters              SimulationParameters `json:"parameters"`
	FinalFundValue          float64              `json:"finalFundValue"`
	TotalInterestEarned     float64              `json:"totalInterestEarned"`
	AverageAnnualGrowthRate float64              `json:"averageAnnualGrowthRate"`
	CalculatedAt            time.Time            `json:"calculatedAt"`
}
