// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package planner

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/trip-engine/pkg/types"
)

// parseTier tags which fallback path produced a parsed itinerary. Confidence
// and provenance are derived from the tier, never set independently.
type parseTier int

const (
	tierJSON parseTier = iota
	tierHeuristic
	tierTemplated
)

func (t parseTier) confidence() float64 {
	switch t {
	case tierJSON:
		return 0.9
	case tierHeuristic:
		return 0.7
	default:
		return 0.5
	}
}

func (t parseTier) provenance() types.Provenance {
	switch t {
	case tierJSON:
		return types.ProvenanceAI
	case tierHeuristic:
		return types.ProvenanceHybrid
	default:
		return types.ProvenanceFallback
	}
}

// ParsedItinerary is the parser outcome: the day list plus plan-level extras,
// tagged with the tier that produced it.
type ParsedItinerary struct {
	Days            []types.ItineraryDay
	Recommendations []string
	Warnings        []string

	tier parseTier
}

// aiPlan mirrors the JSON schema the prompt requests. Generation output is
// untrusted; every field is optional at decode time and validated afterwards.
type aiPlan struct {
	Itinerary       []aiDay            `json:"itinerary"`
	TotalCost       float64            `json:"total_cost"`
	Breakdown       map[string]float64 `json:"budget_breakdown"`
	Recommendations []string           `json:"recommendations"`
	Warnings        []string           `json:"warnings"`
	Alternatives    []string           `json:"alternatives"`
}

type aiDay struct {
	Day            int      `json:"day"`
	Morning        aiSlot   `json:"morning"`
	Afternoon      aiSlot   `json:"afternoon"`
	Evening        aiSlot   `json:"evening"`
	Meals          []aiMeal `json:"meals"`
	Transportation string   `json:"transportation"`
	DayTotal       float64  `json:"day_total"`
}

type aiSlot struct {
	Activity      string  `json:"activity"`
	Location      string  `json:"location"`
	DurationHours float64 `json:"duration_hours"`
	Cost          float64 `json:"cost"`
	Notes         string  `json:"notes"`
}

type aiMeal struct {
	Type  string  `json:"type"`
	Venue string  `json:"venue"`
	Cost  float64 `json:"cost"`
}

// ParseResponse turns generation output into a validated itinerary. It tries
// the strict JSON path first and degrades to heuristic text parsing; it never
// fails. Callers that had no text at all use TemplatedPlan instead.
func ParseResponse(text string, req types.TravelRequest) ParsedItinerary {
	if parsed, ok := parseJSONPlan(text, req); ok {
		return parsed
	}
	return parseHeuristic(text, req)
}

// parseJSONPlan extracts the first balanced JSON object, probes its shape,
// and decodes it into the expected schema.
func parseJSONPlan(text string, req types.TravelRequest) (ParsedItinerary, bool) {
	raw, ok := extractBalancedObject(text)
	if !ok {
		return ParsedItinerary{}, false
	}

	// Shape probe before the strict decode: the itinerary must be a
	// non-empty array or the payload is not a plan at all.
	itinerary := gjson.Get(raw, "itinerary")
	if !itinerary.IsArray() || len(itinerary.Array()) == 0 {
		return ParsedItinerary{}, false
	}

	var plan aiPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return ParsedItinerary{}, false
	}
	if len(plan.Itinerary) == 0 {
		return ParsedItinerary{}, false
	}

	days := make([]types.ItineraryDay, 0, len(plan.Itinerary))
	for i, d := range plan.Itinerary {
		days = append(days, enhanceDay(d, i, req))
	}

	recs := plan.Recommendations
	for _, alt := range plan.Alternatives {
		recs = append(recs, "alternative: "+alt)
	}

	return ParsedItinerary{
		Days:            days,
		Recommendations: recs,
		Warnings:        plan.Warnings,
		tier:            tierJSON,
	}, true
}

// extractBalancedObject returns the first balanced {...} substring, honoring
// JSON string literals and escapes so braces inside strings do not count.
func extractBalancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// enhanceDay converts one decoded day into an ItineraryDay: derived date,
// climate-matched weather stub, normalized records, and a placeholder
// accommodation sized to the request's nightly budget.
func enhanceDay(d aiDay, index int, req types.TravelRequest) types.ItineraryDay {
	date := req.StartDate.AddDate(0, 0, index)

	var activities []types.Activity
	for priority, s := range []struct {
		slot aiSlot
		name types.Slot
	}{
		{d.Morning, types.SlotMorning},
		{d.Afternoon, types.SlotAfternoon},
		{d.Evening, types.SlotEvening},
	} {
		if strings.TrimSpace(s.slot.Activity) == "" {
			continue
		}
		activities = append(activities, types.Activity{
			Name:          strings.TrimSpace(s.slot.Activity),
			Location:      s.slot.Location,
			Slot:          s.name,
			DurationHours: s.slot.DurationHours,
			Cost:          s.slot.Cost,
			Notes:         s.slot.Notes,
			Priority:      priority + 1,
		})
	}

	meals := make([]types.Meal, 0, len(d.Meals))
	for _, m := range d.Meals {
		meals = append(meals, types.Meal{Type: m.Type, Venue: m.Venue, Cost: m.Cost})
	}

	day := types.ItineraryDay{
		Index:      index + 1,
		Date:       date,
		Weather:    weatherStub(req.Destination.Climate, date),
		Activities: activities,
		Meals:      meals,
		Transportation: types.Transportation{
			Mode: defaultString(d.Transportation, "walking"),
		},
		Accommodation: placeholderAccommodation(req),
	}
	day.EstimatedCost = dayCost(day)
	return day
}

// dayDelimiter matches "Day 3", "day 3:", "DAY 3 -" at a line start.
var dayDelimiter = regexp.MustCompile(`(?im)^\s*day\s+(\d+)\b`)

// sentenceSplit breaks prose into rough sentences for activity synthesis.
var sentenceSplit = regexp.MustCompile(`[.!?\n]+`)

// parseHeuristic recovers an itinerary from prose: the text is split into
// day-sized chunks on "day N" delimiters and one or two generic activities
// are synthesized per chunk. With no recognizable delimiters at all, the
// requested duration is covered with generic days.
func parseHeuristic(text string, req types.TravelRequest) ParsedItinerary {
	matches := dayDelimiter.FindAllStringIndex(text, -1)

	var chunks []string
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		chunks = append(chunks, text[m[0]:end])
	}
	if len(chunks) == 0 {
		for i := 0; i < max(req.DurationDays, 1); i++ {
			chunks = append(chunks, "")
		}
	}

	days := make([]types.ItineraryDay, 0, len(chunks))
	for i, chunk := range chunks {
		activities := activitiesFromChunk(chunk, req.Destination.Name)
		date := req.StartDate.AddDate(0, 0, i)
		day := types.ItineraryDay{
			Index:          i + 1,
			Date:           date,
			Weather:        weatherStub(req.Destination.Climate, date),
			Activities:     activities,
			Meals:          defaultMeals(req.Travelers),
			Transportation: types.Transportation{Mode: "walking"},
			Accommodation:  placeholderAccommodation(req),
		}
		day.EstimatedCost = dayCost(day)
		days = append(days, day)
	}

	return ParsedItinerary{Days: days, tier: tierHeuristic}
}

// activitiesFromChunk synthesizes one or two activities from the sentences of
// a day chunk. The first usable sentence becomes the morning activity; the
// second, if present, the afternoon.
func activitiesFromChunk(chunk, destination string) []types.Activity {
	slots := []types.Slot{types.SlotMorning, types.SlotAfternoon}

	var activities []types.Activity
	for _, sentence := range sentenceSplit.Split(chunk, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) < 15 || dayDelimiter.MatchString(sentence) {
			continue
		}
		if len(sentence) > 80 {
			sentence = sentence[:80]
		}
		activities = append(activities, types.Activity{
			Name:     sentence,
			Location: destination,
			Slot:     slots[len(activities)],
			Priority: len(activities) + 1,
		})
		if len(activities) == len(slots) {
			break
		}
	}

	if len(activities) == 0 {
		activities = append(activities, types.Activity{
			Name:     "Explore " + destination,
			Location: destination,
			Slot:     types.SlotMorning,
			Priority: 1,
		})
	}
	return activities
}

// TemplatedPlan builds the last-resort itinerary used when the generation
// call itself failed and no text exists: one exploration activity per
// requested day with default meals and transportation. It cannot fail.
func TemplatedPlan(req types.TravelRequest) ParsedItinerary {
	duration := max(req.DurationDays, 1)
	days := make([]types.ItineraryDay, 0, duration)
	for i := 0; i < duration; i++ {
		date := req.StartDate.AddDate(0, 0, i)
		day := types.ItineraryDay{
			Index:   i + 1,
			Date:    date,
			Weather: weatherStub(req.Destination.Climate, date),
			Activities: []types.Activity{{
				Name:     "Explore " + req.Destination.Name,
				Location: req.Destination.Name,
				Slot:     types.SlotMorning,
				Priority: 1,
			}},
			Meals:          defaultMeals(req.Travelers),
			Transportation: types.Transportation{Mode: "walking"},
			Accommodation:  placeholderAccommodation(req),
		}
		day.EstimatedCost = dayCost(day)
		days = append(days, day)
	}

	return ParsedItinerary{
		Days: days,
		Warnings: []string{
			"itinerary was generated from a template because the planning service was unavailable",
		},
		tier: tierTemplated,
	}
}

// lodgingBudgetShare is the fraction of the total budget assumed to go to
// lodging when sizing the placeholder accommodation.
const lodgingBudgetShare = 0.3

func placeholderAccommodation(req types.TravelRequest) types.Accommodation {
	nightly := 0.0
	if req.Budget > 0 {
		nightly = req.Budget * lodgingBudgetShare / float64(req.Nights())
	}
	return types.Accommodation{
		Name:        "Accommodation within budget",
		NightlyRate: nightly,
		Source:      types.SourceFallback,
	}
}

func defaultMeals(travelers int) []types.Meal {
	perHead := float64(max(travelers, 1))
	return []types.Meal{
		{Type: "breakfast", Venue: "local cafe", Cost: 10 * perHead},
		{Type: "lunch", Venue: "local eatery", Cost: 15 * perHead},
		{Type: "dinner", Venue: "local restaurant", Cost: 25 * perHead},
	}
}

// weatherStub synthesizes a plausible forecast day from the destination
// climate, used when no live forecast covers the date.
func weatherStub(climate types.Climate, date time.Time) types.WeatherDay {
	day := types.WeatherDay{
		Date:        date,
		Condition:   "partly cloudy",
		HighC:       21,
		LowC:        12,
		Source:      types.SourceFallback,
		LastUpdated: time.Now().UTC(),
	}
	switch climate {
	case types.ClimateTropical:
		day.Condition, day.HighC, day.LowC = "scattered showers", 31, 24
	case types.ClimateCold:
		day.Condition, day.HighC, day.LowC = "overcast", 4, -3
	case types.ClimateArid:
		day.Condition, day.HighC, day.LowC = "sunny", 33, 19
	case types.ClimateMediterranean:
		day.Condition, day.HighC, day.LowC = "sunny", 26, 16
	}
	return day
}

// dayCost sums a day's activities, meals, and transportation. Lodging is
// accounted at the plan level, not per day.
func dayCost(day types.ItineraryDay) float64 {
	total := day.Transportation.Cost
	for _, a := range day.Activities {
		total += a.Cost
	}
	for _, m := range day.Meals {
		total += m.Cost
	}
	return total
}

func defaultString(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
