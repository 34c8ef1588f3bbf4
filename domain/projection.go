package domain

import "strings"

// VarianceTier selects how severe the scripted market shocks are.
type VarianceTier string

const (
	VarianceLow    VarianceTier = "Low"
	VarianceMedium VarianceTier = "Medium"
	VarianceHigh   VarianceTier = "High"
)

// VarianceTiers lists every recognized tier, mildest first.
var VarianceTiers = []VarianceTier{VarianceLow, VarianceMedium, VarianceHigh}

// Valid reports whether t is one of the recognized tiers.
func (t VarianceTier) Valid() bool {
	for _, tier := range VarianceTiers {
		if t == tier {
			return true
		}
	}
	return false
}

// ParseVarianceTier matches s case-insensitively against the known tiers.
func ParseVarianceTier(s string) (VarianceTier, bool) {
	for _, tier := range VarianceTiers {
		if strings.EqualFold(strings.TrimSpace(s), string(tier)) {
			return tier, true
		}
	}
	return VarianceTier(s), false
}

// EventKind names a scripted market shock.
type EventKind string

const (
	EventTariff EventKind = "tariff"
	EventCovid  EventKind = "covid"
)

// EventKinds is the order in which shocks are applied within a month.
var EventKinds = []EventKind{EventTariff, EventCovid}

type SimulationParameters struct {
	InvestmentPeriodYears     int          `json:"investmentPeriodYears" yaml:"investment_period_years"`
	MonthlyDeposit            float64      `json:"monthlyDeposit" yaml:"monthly_deposit"`
	AnnualInterestRatePercent float64      `json:"annualInterestRatePercent" yaml:"annual_interest_rate_percent"`
	VarianceTier              VarianceTier `json:"varianceTier" yaml:"variance_tier"`
}

// TotalMonths is the number of simulated months.
func (p SimulationParameters) TotalMonths() int {
	return p.InvestmentPeriodYears * 12
}

type MonthlyRecord struct {
	Month                   int     `json:"month"`
	AccumulatedDeposits     float64 `json:"accumulatedDeposits"`
	FundValue               float64 `json:"fundValue"`
	InterestGainedThisMonth float64 `json:"interestGainedThisMonth"`
	MonthlyGrowthPercent    float64 `json:"monthlyGrowthPercent"`
}

type SimulationResult struct {
	Records                 []MonthlyRecord `json:"records"`
	TotalInterestEarned     float64         `json:"totalInterestEarned"`
	AverageAnnualGrowthRate float64         `json:"averageAnnualGrowthRate"`
}

// Final returns the last record, or false when the result is empty.
func (r SimulationResult) Final() (MonthlyRecord, bool) {
	if len(r.Records) == 0 {
		return MonthlyRecord{}, false
	}
	return r.Records[len(r.Records)-1], true
}

// ProjectionResponse is the wire shape of a projection, including failures.
type ProjectionResponse struct {
	SimulationResult
	Error       string `json:"error,omitempty"`
	Explanation string `json:"explanation,omitempty"` // narrative summary, only on request
}

// ShockWindow is one row of the shock schedule.
type ShockWindow struct {
	Event         EventKind    `json:"event"`
	Tier          VarianceTier `json:"tier"`
	FirstMonth    int          `json:"firstMonth"`
	LastMonth     int          `json:"lastMonth"`
	ImpactPercent float64      `json:"impactPercent"`
}

// Contains reports whether month falls inside the inclusive window.
func (w ShockWindow) Contains(month int) bool {
	return month >= w.FirstMonth && month <= w.LastMonth
}
