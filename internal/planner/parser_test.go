// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/trip-engine/pkg/types"
)

const wellFormedResponse = `Here is your itinerary:
{
  "itinerary": [
    {
      "day": 1,
      "morning": {"activity": "Sao Jorge Castle", "location": "Alfama", "duration_hours": 2, "cost": 30, "notes": "book ahead"},
      "afternoon": {"activity": "Tram 28 ride", "location": "Baixa", "duration_hours": 1.5, "cost": 12},
      "evening": {"activity": "Fado dinner show", "location": "Bairro Alto", "duration_hours": 3, "cost": 120},
      "meals": [{"type": "lunch", "venue": "Time Out Market", "cost": 40}],
      "transportation": "tram and walking",
      "day_total": 202
    },
    {
      "day": 2,
      "morning": {"activity": "Belem Tower", "location": "Belem", "duration_hours": 2, "cost": 24},
      "afternoon": {"activity": "", "location": ""},
      "evening": {"activity": "Sunset at miradouro", "location": "Graca", "cost": 0},
      "meals": [],
      "transportation": "",
      "day_total": 24
    }
  ],
  "total_cost": 226,
  "budget_breakdown": {"activities": 186, "food": 40},
  "recommendations": ["buy a transit day pass"],
  "warnings": ["August is crowded"],
  "alternatives": ["Porto"]
}
Enjoy your trip!`

func TestParseResponseWellFormedJSON(t *testing.T) {
	req := testRequest()
	parsed := ParseResponse(wellFormedResponse, req)

	assert.Equal(t, tierJSON, parsed.tier)
	assert.InDelta(t, 0.9, parsed.tier.confidence(), 1e-9)
	require.Len(t, parsed.Days, 2)

	day1 := parsed.Days[0]
	assert.Equal(t, 1, day1.Index)
	assert.Equal(t, req.StartDate, day1.Date)
	require.Len(t, day1.Activities, 3)
	assert.Equal(t, types.SlotMorning, day1.Activities[0].Slot)
	assert.Equal(t, 1, day1.Activities[0].Priority)
	assert.Equal(t, "Fado dinner show", day1.Activities[2].Name)

	// Empty slots are dropped, not kept as blank activities.
	day2 := parsed.Days[1]
	assert.Equal(t, req.StartDate.AddDate(0, 0, 1), day2.Date)
	require.Len(t, day2.Activities, 2)

	// Day enhancement fills weather stub and placeholder accommodation.
	assert.Equal(t, types.SourceFallback, day1.Weather.Source)
	assert.Equal(t, "sunny", day1.Weather.Condition, "mediterranean stub")
	assert.Equal(t, types.SourceFallback, day1.Accommodation.Source)
	assert.InDelta(t, 3000*0.3/6, day1.Accommodation.NightlyRate, 1e-9)

	assert.Contains(t, parsed.Recommendations, "buy a transit day pass")
	assert.Contains(t, parsed.Recommendations, "alternative: Porto")
	assert.Contains(t, parsed.Warnings, "August is crowded")
}

func TestParseResponseEmptyItineraryFallsBack(t *testing.T) {
	parsed := ParseResponse(`{"itinerary": [], "total_cost": 0}`, testRequest())
	assert.Equal(t, tierHeuristic, parsed.tier)
}

func TestParseResponseProseFallsBackToHeuristic(t *testing.T) {
	text := `Day 1
Start with a morning walk through the Alfama district and its viewpoints.
In the afternoon, visit the cathedral and the nearby Roman ruins.

Day 2
Take the train to Sintra for the palaces and gardens.
`
	req := testRequest()
	parsed := ParseResponse(text, req)

	assert.Equal(t, tierHeuristic, parsed.tier)
	assert.InDelta(t, 0.7, parsed.tier.confidence(), 1e-9)
	require.Len(t, parsed.Days, 2)
	assert.Len(t, parsed.Days[0].Activities, 2)
	assert.Len(t, parsed.Days[1].Activities, 1)
	assert.Equal(t, 1, parsed.Days[0].Index)
	assert.Equal(t, 2, parsed.Days[1].Index)
}

func TestParseResponseGarbageNeverPanics(t *testing.T) {
	req := testRequest()
	for _, text := range []string{
		"",
		"no json here at all",
		`{"broken": `,
		`{{{{`,
		`{"itinerary": "not an array"}`,
	} {
		parsed := ParseResponse(text, req)
		assert.Equal(t, tierHeuristic, parsed.tier)
		assert.Len(t, parsed.Days, req.DurationDays,
			"undelimited text covers the requested duration")
	}
}

func TestExtractBalancedObject(t *testing.T) {
	raw, ok := extractBalancedObject(`prefix {"a": {"b": "close} brace in string"}} suffix`)
	require.True(t, ok)
	assert.Equal(t, `{"a": {"b": "close} brace in string"}}`, raw)

	_, ok = extractBalancedObject(`{"never": "closed"`)
	assert.False(t, ok)
}

func TestTemplatedPlan(t *testing.T) {
	req := testRequest()
	req.DurationDays = 5

	parsed := TemplatedPlan(req)
	assert.Equal(t, tierTemplated, parsed.tier)
	assert.InDelta(t, 0.5, parsed.tier.confidence(), 1e-9)
	require.Len(t, parsed.Days, 5)

	for i, day := range parsed.Days {
		assert.Equal(t, i+1, day.Index)
		require.Len(t, day.Activities, 1)
		assert.Equal(t, "Explore Lisbon", day.Activities[0].Name)
		assert.Len(t, day.Meals, 3)
		assert.Equal(t, "walking", day.Transportation.Mode)
	}
	assert.NotEmpty(t, parsed.Warnings)
}

func TestWeatherStubByClimate(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "scattered showers", weatherStub(types.ClimateTropical, date).Condition)
	assert.Equal(t, "overcast", weatherStub(types.ClimateCold, date).Condition)
	assert.Equal(t, "partly cloudy", weatherStub(types.ClimateTemperate, date).Condition)
}

func TestTierProvenance(t *testing.T) {
	assert.Equal(t, types.ProvenanceAI, tierJSON.provenance())
	assert.Equal(t, types.ProvenanceHybrid, tierHeuristic.provenance())
	assert.Equal(t, types.ProvenanceFallback, tierTemplated.provenance())
}
