// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package planner

import (
	"fmt"
	"time"

	"github.com/pdiddy/trip-engine/pkg/types"
)

// activityCostFactor is the fixed budget-remediation reduction applied to
// every activity cost.
const activityCostFactor = 0.7

var immersiveRecommendations = []string{
	"add a cooking class or craft workshop to go deeper into local culture",
	"plan one or two day trips to nearby towns",
	"schedule unstructured rest days to keep a long trip sustainable",
}

var indoorRecommendations = []string{
	"keep a list of museums and galleries as weather backups",
	"book indoor food experiences for days with poor conditions",
}

// Adjust applies one transform per detected flag, in order: budget, duration,
// climate. Cost totals and the budget breakdown are recomputed last from the
// adjusted day list, never carried forward.
func Adjust(plan types.TravelPlan, report types.EdgeCaseReport) types.TravelPlan {
	if report.BudgetConflict.Detected {
		plan = adjustBudget(plan, report.BudgetConflict)
	}
	if report.DurationConflict.Detected {
		plan = adjustDuration(plan, report.DurationConflict, report.RequestedDays)
	}
	if report.ClimateConflict.Detected {
		plan = adjustClimate(plan, report.ClimateConflict)
	}
	recomputeTotals(&plan)
	return plan
}

func adjustBudget(plan types.TravelPlan, flag types.RemediationFlag) types.TravelPlan {
	for i := range plan.Days {
		for j := range plan.Days[i].Activities {
			plan.Days[i].Activities[j].Cost *= activityCostFactor
		}
	}
	plan.Recommendations = append(plan.Recommendations, flag.RemediationHints...)
	return plan
}

// adjustDuration dispatches on the requested duration, never on whatever day
// count the generation backend returned. The day list is reshaped to the
// request first; short trips are then truncated to the highest-priority
// activity per day, long trips keep their activities and gain immersive
// recommendations.
func adjustDuration(plan types.TravelPlan, flag types.RemediationFlag, requestedDays int) types.TravelPlan {
	days := requestedDays
	if days <= 0 {
		days = len(plan.Days)
	}
	reshapeDays(&plan, days)

	if days > 0 && days < shortTripDays {
		for i := range plan.Days {
			if len(plan.Days[i].Activities) <= 1 {
				continue
			}
			best := plan.Days[i].Activities[0]
			for _, a := range plan.Days[i].Activities[1:] {
				if a.Priority < best.Priority {
					best = a
				}
			}
			plan.Days[i].Activities = []types.Activity{best}
		}
		plan.Warnings = append(plan.Warnings,
			fmt.Sprintf("short trip: trimmed to one activity per day (%s)", flag.Detail))
		return plan
	}

	plan.Recommendations = append(plan.Recommendations, immersiveRecommendations...)
	return plan
}

// reshapeDays forces the plan to exactly n days with 1-based indices. Surplus
// days from the generation output are dropped; a shortfall is padded with
// exploration days that continue the date sequence.
func reshapeDays(plan *types.TravelPlan, n int) {
	if n <= 0 {
		return
	}
	if len(plan.Days) > n {
		plan.Days = plan.Days[:n]
	}
	for len(plan.Days) < n {
		i := len(plan.Days)
		var date time.Time
		if i > 0 {
			date = plan.Days[i-1].Date.AddDate(0, 0, 1)
		}
		day := types.ItineraryDay{
			Index:   i + 1,
			Date:    date,
			Weather: weatherStub(plan.Destination.Climate, date),
			Activities: []types.Activity{{
				Name:     "Explore " + plan.Destination.Name,
				Location: plan.Destination.Name,
				Slot:     types.SlotMorning,
				Priority: 1,
			}},
			Transportation: types.Transportation{Mode: "walking"},
		}
		if i > 0 {
			day.Meals = append([]types.Meal(nil), plan.Days[i-1].Meals...)
			day.Accommodation = plan.Days[i-1].Accommodation
		}
		day.EstimatedCost = dayCost(day)
		plan.Days = append(plan.Days, day)
	}
	for i := range plan.Days {
		plan.Days[i].Index = i + 1
	}
}

func adjustClimate(plan types.TravelPlan, flag types.RemediationFlag) types.TravelPlan {
	plan.Warnings = append(plan.Warnings, flag.Detail)
	plan.Recommendations = append(plan.Recommendations, indoorRecommendations...)
	return plan
}

// recomputeTotals rebuilds per-day estimates, the plan total, and the budget
// breakdown from the current day list, flights, and hotel.
func recomputeTotals(plan *types.TravelPlan) {
	breakdown := types.BudgetBreakdown{
		"flights":    0,
		"lodging":    0,
		"activities": 0,
		"food":       0,
		"transport":  0,
	}

	for _, f := range plan.Flights {
		breakdown["flights"] += f.Price
	}

	nights := max(len(plan.Days)-1, 1)
	if plan.Hotel != nil {
		breakdown["lodging"] = plan.Hotel.NightlyRate * float64(nights)
	} else if len(plan.Days) > 0 {
		breakdown["lodging"] = plan.Days[0].Accommodation.NightlyRate * float64(nights)
	}

	for i := range plan.Days {
		day := &plan.Days[i]
		day.EstimatedCost = dayCost(*day)
		for _, a := range day.Activities {
			breakdown["activities"] += a.Cost
		}
		for _, m := range day.Meals {
			breakdown["food"] += m.Cost
		}
		breakdown["transport"] += day.Transportation.Cost
	}

	total := 0.0
	for _, v := range breakdown {
		total += v
	}
	plan.Breakdown = breakdown
	plan.TotalCost = total
}
