// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package planner

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/trip-engine/pkg/types"
)

func testRequest() types.TravelRequest {
	dest, ok := types.LookupDestination("Lisbon")
	if !ok {
		panic("Lisbon missing from destination registry")
	}
	return types.TravelRequest{
		Origin:       "JFK",
		Destination:  dest,
		StartDate:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		DurationDays: 7,
		Travelers:    2,
		Budget:       3000,
	}
}

func TestAnalyzeAllClear(t *testing.T) {
	report := Analyze(testRequest())
	assert.False(t, report.Any())
}

func TestAnalyzeBudgetConflict(t *testing.T) {
	// Mid-tier Lisbon: 100/day x 7 days x 2 travelers = 1400 estimate
	// against a 500 budget with 20% tolerance.
	req := testRequest()
	req.Budget = 500

	report := Analyze(req)
	require.True(t, report.BudgetConflict.Detected)
	assert.NotEmpty(t, report.BudgetConflict.RemediationHints)
	assert.False(t, report.DurationConflict.Detected)
	assert.False(t, report.ClimateConflict.Detected)
}

func TestAnalyzeBudgetWithinTolerance(t *testing.T) {
	// Estimate 1400 against a 1200 budget: over budget but inside the
	// 20% margin (1440), so no conflict.
	req := testRequest()
	req.Budget = 1200

	report := Analyze(req)
	assert.False(t, report.BudgetConflict.Detected)
}

func TestAnalyzeShortDuration(t *testing.T) {
	req := testRequest()
	req.DurationDays = 2

	report := Analyze(req)
	require.True(t, report.DurationConflict.Detected)
	assert.Contains(t, report.DurationConflict.Detail, "short")
}

func TestAnalyzeLongDuration(t *testing.T) {
	req := testRequest()
	req.DurationDays = 28
	req.Budget = 20000

	report := Analyze(req)
	require.True(t, report.DurationConflict.Detected)
	assert.Contains(t, report.DurationConflict.Detail, "long")
}

func TestAnalyzeClimateConflict(t *testing.T) {
	req := testRequest()
	req.PreferredClimate = types.ClimateTropical

	report := Analyze(req)
	require.True(t, report.ClimateConflict.Detected)

	var hasAlternative bool
	for _, hint := range report.ClimateConflict.RemediationHints {
		if strings.Contains(hint, "Bangkok") {
			hasAlternative = true
		}
	}
	assert.True(t, hasAlternative, "hints should name tropical alternatives")
}

func TestAnalyzeClimateAnyNeverConflicts(t *testing.T) {
	req := testRequest()
	req.PreferredClimate = types.ClimateAny

	report := Analyze(req)
	assert.False(t, report.ClimateConflict.Detected)
}

func TestAnalyzeMultipleFlags(t *testing.T) {
	req := testRequest()
	req.Budget = 200
	req.DurationDays = 2
	req.PreferredClimate = types.ClimateCold

	report := Analyze(req)
	assert.True(t, report.BudgetConflict.Detected)
	assert.True(t, report.DurationConflict.Detected)
	assert.True(t, report.ClimateConflict.Detected)
	assert.True(t, report.Any())
}

func TestAnalyzeIsPure(t *testing.T) {
	req := testRequest()
	req.Budget = 500
	first := Analyze(req)
	second := Analyze(req)
	assert.Equal(t, first, second)
}
