package service

const (
	MaxInvestmentYears = 100 // service limit, the engine itself has no ceiling
	MaxGoalTarget      = 1_000_000_000.0

	// recommended deposits are whole cents
	centsPerUnit = 100
	// relative headroom above the probe estimate for the search's upper bound
	goalSearchMargin = 1e-3
	// doublings of the upper bound before the goal search gives up
	maxGoalExpansions = 16

	cacheKeyPrefix = "projection:"
)
