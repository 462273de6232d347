// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/trip-engine/pkg/types"
)

func planFromRequest(t *testing.T, req types.TravelRequest) types.TravelPlan {
	t.Helper()
	parsed := ParseResponse(wellFormedResponse, req)
	require.Equal(t, tierJSON, parsed.tier)
	plan := types.TravelPlan{
		Destination:     req.Destination,
		Days:            parsed.Days,
		Recommendations: parsed.Recommendations,
		Warnings:        parsed.Warnings,
	}
	recomputeTotals(&plan)
	return plan
}

func TestAdjustNoFlagsOnlyRecomputes(t *testing.T) {
	plan := planFromRequest(t, testRequest())
	before := plan.TotalCost

	adjusted := Adjust(plan, types.EdgeCaseReport{})
	assert.InDelta(t, before, adjusted.TotalCost, 1e-9)
	assert.Equal(t, plan.Days, adjusted.Days)
}

func TestAdjustBudgetReducesCost(t *testing.T) {
	req := testRequest()
	req.Budget = 500
	report := Analyze(req)
	require.True(t, report.BudgetConflict.Detected)

	plan := planFromRequest(t, req)
	before := plan.TotalCost
	beforeActivities := plan.Breakdown["activities"]

	adjusted := Adjust(plan, report)
	assert.Less(t, adjusted.TotalCost, before)
	assert.InDelta(t, beforeActivities*activityCostFactor, adjusted.Breakdown["activities"], 1e-9)
	for _, hint := range budgetHints {
		assert.Contains(t, adjusted.Recommendations, hint)
	}
}

func TestAdjustShortTripOneActivityPerDay(t *testing.T) {
	req := testRequest()
	req.DurationDays = 2
	report := Analyze(req)
	require.True(t, report.DurationConflict.Detected)

	plan := planFromRequest(t, req)
	require.Len(t, plan.Days, 2)
	require.Greater(t, len(plan.Days[0].Activities), 1)

	adjusted := Adjust(plan, report)
	for _, day := range adjusted.Days {
		require.Len(t, day.Activities, 1)
		assert.Equal(t, 1, day.Activities[0].Priority,
			"the kept activity is the highest-priority one")
	}
}

func TestAdjustShortTripDropsSurplusGeneratedDays(t *testing.T) {
	req := testRequest()
	req.DurationDays = 2
	report := Analyze(req)
	require.True(t, report.DurationConflict.Detected)

	// The generation backend is untrusted and may return more days than
	// requested; remediation must key on the request, not the output.
	plan := planFromRequest(t, req)
	extra := plan.Days[0]
	extra.Index = 3
	extra.Date = plan.Days[1].Date.AddDate(0, 0, 1)
	plan.Days = append(plan.Days, extra)
	require.Len(t, plan.Days, 3)

	adjusted := Adjust(plan, report)
	require.Len(t, adjusted.Days, 2)
	for i, day := range adjusted.Days {
		assert.Equal(t, i+1, day.Index)
		require.Len(t, day.Activities, 1)
	}
	for _, rec := range immersiveRecommendations {
		assert.NotContains(t, adjusted.Recommendations, rec,
			"a short trip must not receive long-trip remediation")
	}
}

func TestAdjustLongTripPadsToRequestedDuration(t *testing.T) {
	req := testRequest()
	req.DurationDays = 28
	req.Budget = 20000
	report := Analyze(req)
	require.True(t, report.DurationConflict.Detected)

	plan := planFromRequest(t, req)
	require.Len(t, plan.Days, 2)

	adjusted := Adjust(plan, report)
	require.Len(t, adjusted.Days, 28)
	for i, day := range adjusted.Days {
		assert.Equal(t, i+1, day.Index)
	}

	// Padded days continue the date sequence with an exploration day.
	day3 := adjusted.Days[2]
	assert.Equal(t, adjusted.Days[1].Date.AddDate(0, 0, 1), day3.Date)
	require.Len(t, day3.Activities, 1)
	assert.Equal(t, "Explore Lisbon", day3.Activities[0].Name)
}

func TestAdjustLongTripKeepsActivities(t *testing.T) {
	req := testRequest()
	req.DurationDays = 28
	req.Budget = 20000
	report := Analyze(req)
	require.True(t, report.DurationConflict.Detected)

	plan := planFromRequest(t, req)
	activitiesBefore := len(plan.Days[0].Activities)

	adjusted := Adjust(plan, report)
	assert.Len(t, adjusted.Days[0].Activities, activitiesBefore)
	for _, rec := range immersiveRecommendations {
		assert.Contains(t, adjusted.Recommendations, rec)
	}
}

func TestAdjustClimateIsAdvisoryOnly(t *testing.T) {
	req := testRequest()
	req.PreferredClimate = types.ClimateTropical
	report := Analyze(req)
	require.True(t, report.ClimateConflict.Detected)

	plan := planFromRequest(t, req)
	daysBefore := make([]types.ItineraryDay, len(plan.Days))
	copy(daysBefore, plan.Days)

	adjusted := Adjust(plan, report)
	for i := range daysBefore {
		assert.Equal(t, daysBefore[i].Activities, adjusted.Days[i].Activities)
	}
	assert.Contains(t, adjusted.Warnings, report.ClimateConflict.Detail)
}

func TestRecomputeTotalsUsesHotelAndFlights(t *testing.T) {
	plan := planFromRequest(t, testRequest())
	plan.Flights = []types.Flight{{Price: 400}}
	hotel := types.Hotel{NightlyRate: 100}
	plan.Hotel = &hotel

	recomputeTotals(&plan)
	assert.InDelta(t, 400, plan.Breakdown["flights"], 1e-9)
	assert.InDelta(t, 100, plan.Breakdown["lodging"], 1e-9, "one night for a two-day plan")

	var sum float64
	for _, v := range plan.Breakdown {
		sum += v
	}
	assert.InDelta(t, sum, plan.TotalCost, 1e-9)
}
