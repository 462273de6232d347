// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Slot identifies the time-of-day position of an activity within a day.
type Slot string

const (
	SlotMorning   Slot = "morning"
	SlotAfternoon Slot = "afternoon"
	SlotEvening   Slot = "evening"
)

// Activity is one time-slotted activity in an itinerary day.
type Activity struct {
	// Name is the activity title.
	Name string `json:"name" yaml:"name"`

	// Location is where the activity takes place.
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// Slot is the time-of-day slot.
	Slot Slot `json:"slot" yaml:"slot"`

	// DurationHours is the expected duration.
	DurationHours float64 `json:"duration_hours,omitempty" yaml:"duration_hours,omitempty"`

	// Cost is the per-group cost in USD.
	Cost float64 `json:"cost" yaml:"cost"`

	// Notes carries free-text guidance.
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`

	// Priority orders activities within a day; lower is more important.
	// Short-duration remediation keeps only the lowest-numbered activity.
	Priority int `json:"priority" yaml:"priority"`
}

// Meal is one planned meal in an itinerary day.
type Meal struct {
	// Type is the meal kind: breakfast, lunch, or dinner.
	Type string `json:"type" yaml:"type"`

	// Venue is the suggested venue or style.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// Cost is the per-group cost in USD.
	Cost float64 `json:"cost" yaml:"cost"`
}

// Transportation describes how travelers get around for a day.
type Transportation struct {
	// Mode is the transport mode (e.g. "metro", "walking", "taxi").
	Mode string `json:"mode" yaml:"mode"`

	// Detail carries free-text guidance.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`

	// Cost is the per-group cost in USD.
	Cost float64 `json:"cost" yaml:"cost"`
}

// Accommodation is the lodging reference attached to an itinerary day.
type Accommodation struct {
	// Name is the property name or a placeholder description.
	Name string `json:"name" yaml:"name"`

	// NightlyRate is the per-night cost in USD.
	NightlyRate float64 `json:"nightly_rate" yaml:"nightly_rate"`

	// Source identifies where the reference came from ("fallback" for
	// budget-derived placeholders).
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// ItineraryDay is one day of a travel plan. Day indices form a contiguous
// 1..N sequence where N is the post-remediation trip duration.
type ItineraryDay struct {
	// Index is the 1-based day number.
	Index int `json:"index" yaml:"index"`

	// Date is the calendar date of this day.
	Date time.Time `json:"date" yaml:"date"`

	// Weather is the expected weather for this day.
	Weather WeatherDay `json:"weather" yaml:"weather"`

	// Activities lists the time-slotted activities.
	Activities []Activity `json:"activities" yaml:"activities"`

	// Meals lists the planned meals.
	Meals []Meal `json:"meals" yaml:"meals"`

	// Transportation describes local transport for the day.
	Transportation Transportation `json:"transportation" yaml:"transportation"`

	// Accommodation is the lodging reference for the night.
	Accommodation Accommodation `json:"accommodation" yaml:"accommodation"`

	// EstimatedCost is the computed day total in USD.
	EstimatedCost float64 `json:"estimated_cost" yaml:"estimated_cost"`
}

// Provenance tags which synthesis path produced a plan.
type Provenance string

const (
	// ProvenanceAI marks plans built from well-formed generation output.
	ProvenanceAI Provenance = "ai"

	// ProvenanceHybrid marks plans recovered by heuristic text parsing.
	ProvenanceHybrid Provenance = "hybrid"

	// ProvenanceFallback marks fully templated plans.
	ProvenanceFallback Provenance = "fallback"
)

// BudgetBreakdown maps spend categories (flights, lodging, food, activities,
// transport) to USD totals.
type BudgetBreakdown map[string]float64

// TravelPlan is a complete synthesized itinerary for one request.
type TravelPlan struct {
	// ID uniquely identifies this plan.
	ID string `json:"id" yaml:"id"`

	// Destination is the planned destination.
	Destination Destination `json:"destination" yaml:"destination"`

	// Flights lists the chosen flight offers (outbound, optionally return).
	Flights []Flight `json:"flights,omitempty" yaml:"flights,omitempty"`

	// Hotel is the chosen hotel, if any cascade produced one.
	Hotel *Hotel `json:"hotel,omitempty" yaml:"hotel,omitempty"`

	// Days is the 1..N itinerary.
	Days []ItineraryDay `json:"days" yaml:"days"`

	// TotalCost is the estimated total trip cost in USD, always recomputed
	// from the day list plus flights and lodging, never carried forward.
	TotalCost float64 `json:"total_cost" yaml:"total_cost"`

	// Breakdown splits TotalCost by category.
	Breakdown BudgetBreakdown `json:"breakdown" yaml:"breakdown"`

	// Confidence is in [0,1]: 0.9 structured generation, 0.7 heuristic
	// text parse, 0.5 fully templated.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Recommendations and Warnings carry free-text advice for the traveler.
	Recommendations []string `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
	Warnings        []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Provenance tags the synthesis path that produced the plan.
	Provenance Provenance `json:"provenance" yaml:"provenance"`

	// GeneratedAt is when the plan was assembled.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}
