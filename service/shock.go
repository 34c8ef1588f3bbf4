package service

import "fund-projection/domain"

type shockRule struct {
	first, last int
	impact      float64
}

// shockSchedule is the scripted market history: event -> tier -> windows.
// Windows for one (event, tier) pair never overlap.
var shockSchedule = map[domain.EventKind]map[domain.VarianceTier][]shockRule{
	domain.EventTariff: {
		domain.VarianceLow:    {{24, 36, -0.005}},
		domain.VarianceMedium: {{24, 36, -0.015}},
		domain.VarianceHigh:   {{24, 36, -0.03}},
	},
	domain.EventCovid: {
		domain.VarianceLow:    {{48, 48, -0.05}, {49, 51, 0.02}},
		domain.VarianceMedium: {{48, 49, -0.10}, {50, 53, 0.03}},
		domain.VarianceHigh:   {{48, 50, -0.20}, {51, 56, 0.05}},
	},
}

// ShockImpact returns the fractional adjustment for month. Unknown tiers and
// events, and months outside every window, yield 0.
func ShockImpact(month int, tier domain.VarianceTier, event domain.EventKind) float64 {
	for _, rule := range shockSchedule[event][tier] {
		if month >= rule.first && month <= rule.last {
			return rule.impact
		}
	}
	return 0
}

// ApplyShock scales fundValue by (1 + impact) for the given month.
func ApplyShock(fundValue float64, month int, tier domain.VarianceTier, event domain.EventKind) float64 {
	return fundValue * (1 + ShockImpact(month, tier, event))
}

// ShockSchedule flattens the schedule in application order, tiers mildest first.
func ShockSchedule() []domain.ShockWindow {
	var windows []domain.ShockWindow
	for _, event := range domain.EventKinds {
		for _, tier := range domain.VarianceTiers {
			windows = append(windows, tierWindows(event, tier)...)
		}
	}
	return windows
}

// ShockScheduleForTier returns only the windows that apply to tier.
func ShockScheduleForTier(tier domain.VarianceTier) []domain.ShockWindow {
	var windows []domain.ShockWindow
	for _, event := range domain.EventKinds {
		windows = append(windows, tierWindows(event, tier)...)
	}
	return windows
}

func tierWindows(event domain.EventKind, tier domain.VarianceTier) []domain.ShockWindow {
	rules := shockSchedule[event][tier]
	windows := make([]domain.ShockWindow, 0, len(rules))
	for _, rule := range rules {
		windows = append(windows, domain.ShockWindow{
			Event:         event,
			Tier:          tier,
			FirstMonth:    rule.first,
			LastMonth:     rule.last,
			ImpactPercent: roundTo2Decimals(rule.impact * 100),
		})
	}
	return windows
}
