// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package planner turns a travel request into a complete itinerary. It flags
// infeasible requests, renders the generation prompt, parses the generation
// output with graded fallbacks, applies remediation, and assembles the plan.
package planner

import (
	"fmt"
	"strings"

	"github.com/pdiddy/trip-engine/pkg/types"
)

// dailyRates is the per-traveler daily cost estimate by destination price tier.
var dailyRates = map[types.PriceTier]float64{
	types.TierBudget: 60,
	types.TierMid:    100,
	types.TierLuxury: 220,
}

// budgetTolerance is the overshoot margin before a budget conflict is flagged.
const budgetTolerance = 1.2

const (
	shortTripDays = 3
	longTripDays  = 21
)

var budgetHints = []string{
	"travel in the off-peak season for lower fares and rates",
	"choose budget lodging such as guesthouses or hostels",
	"plan fewer paid activities and favor free sights",
	"consider a lower-cost alternative destination",
}

// Analyze evaluates the three feasibility rules independently. It is pure:
// no network calls, no clock reads, and it always completes.
func Analyze(req types.TravelRequest) types.EdgeCaseReport {
	report := types.EdgeCaseReport{RequestedDays: req.DurationDays}

	rate, ok := dailyRates[req.Destination.PriceTier]
	if !ok {
		rate = dailyRates[types.TierMid]
	}
	estimate := rate * float64(req.DurationDays) * float64(req.Travelers)
	if req.Budget > 0 && estimate > req.Budget*budgetTolerance {
		report.BudgetConflict = types.RemediationFlag{
			Detected: true,
			Detail: fmt.Sprintf("estimated cost %.0f USD exceeds budget %.0f USD by more than 20%%",
				estimate, req.Budget),
			RemediationHints: budgetHints,
		}
	}

	switch {
	case req.DurationDays < shortTripDays:
		report.DurationConflict = types.RemediationFlag{
			Detected: true,
			Detail:   fmt.Sprintf("%d days is a short trip", req.DurationDays),
			RemediationHints: []string{
				"plan highlights only",
				"keep one activity slot per day",
			},
		}
	case req.DurationDays > longTripDays:
		report.DurationConflict = types.RemediationFlag{
			Detected: true,
			Detail:   fmt.Sprintf("%d days is a long trip", req.DurationDays),
			RemediationHints: []string{
				"slow the pace with rest days",
				"add immersive activities and day trips",
			},
		}
	}

	if req.PreferredClimate != "" && req.PreferredClimate != types.ClimateAny &&
		req.PreferredClimate != req.Destination.Climate {
		hints := []string{"substitute indoor alternatives for weather-dependent activities"}
		if alts := types.AlternativesForClimate(req.PreferredClimate, req.Destination.Name); len(alts) > 0 {
			hints = append(hints, "consider "+strings.Join(alts, ", ")+" for a "+
				string(req.PreferredClimate)+" climate")
		}
		report.ClimateConflict = types.RemediationFlag{
			Detected: true,
			Detail: fmt.Sprintf("%s has a %s climate, not the requested %s",
				req.Destination.Name, req.Destination.Climate, req.PreferredClimate),
			RemediationHints: hints,
		}
	}

	return report
}
