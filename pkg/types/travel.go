// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the trip-engine pipeline:
// travel requests and destinations, normalized provider records, aggregation
// results, itinerary plans, and the caller-facing response envelope.
package types

import "time"

// Climate classifies a destination's dominant climate. "any" is only valid
// as a traveler preference, never on a destination record.
type Climate string

const (
	ClimateAny           Climate = "any"
	ClimateTropical      Climate = "tropical"
	ClimateTemperate     Climate = "temperate"
	ClimateCold          Climate = "cold"
	ClimateArid          Climate = "arid"
	ClimateMediterranean Climate = "mediterranean"
)

// PriceTier buckets a destination's typical daily cost level.
type PriceTier string

const (
	TierBudget PriceTier = "budget"
	TierMid    PriceTier = "mid"
	TierLuxury PriceTier = "luxury"
)

// Destination holds the resolved facts about a travel destination that the
// analyzer, prompt synthesizer, and fallback generators need.
type Destination struct {
	// Name is the destination city or region (e.g. "Lisbon").
	Name string `json:"name" yaml:"name"`

	// Country is the destination country.
	Country string `json:"country" yaml:"country"`

	// Climate is the destination's dominant climate.
	Climate Climate `json:"climate" yaml:"climate"`

	// PriceTier is the typical cost level: budget, mid, or luxury.
	PriceTier PriceTier `json:"price_tier" yaml:"price_tier"`

	// BestMonths lists the months (1-12) with the most favorable conditions.
	BestMonths []int `json:"best_months" yaml:"best_months"`

	// Latitude and Longitude locate the destination for weather lookups.
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// TravelRequest is a normalized trip request: traveler preferences plus the
// resolved destination. Requests are constructed fresh per call and carry no
// cross-request identity.
type TravelRequest struct {
	// Origin is the departure city or IATA code.
	Origin string `json:"origin" yaml:"origin"`

	// Destination is the resolved destination record.
	Destination Destination `json:"destination" yaml:"destination"`

	// StartDate is the first day of the trip.
	StartDate time.Time `json:"start_date" yaml:"start_date"`

	// DurationDays is the requested trip length in days.
	DurationDays int `json:"duration_days" yaml:"duration_days"`

	// Travelers is the number of people traveling.
	Travelers int `json:"travelers" yaml:"travelers"`

	// Budget is the total trip budget for the whole group, in USD.
	Budget float64 `json:"budget" yaml:"budget"`

	// Interests lists free-form interest tags (e.g. "food", "museums").
	Interests []string `json:"interests,omitempty" yaml:"interests,omitempty"`

	// Style is the travel style (e.g. "backpacking", "comfort", "luxury").
	Style string `json:"style,omitempty" yaml:"style,omitempty"`

	// Pace is the desired activity density: "relaxed", "moderate", or "packed".
	Pace string `json:"pace,omitempty" yaml:"pace,omitempty"`

	// GroupType describes who is traveling (e.g. "couple", "family", "solo").
	GroupType string `json:"group_type,omitempty" yaml:"group_type,omitempty"`

	// PreferredClimate is the climate the traveler asked for; "any" disables
	// climate-mismatch detection.
	PreferredClimate Climate `json:"preferred_climate,omitempty" yaml:"preferred_climate,omitempty"`

	// Accessibility lists accessibility constraints (e.g. "step-free").
	Accessibility []string `json:"accessibility,omitempty" yaml:"accessibility,omitempty"`

	// Dietary lists dietary constraints (e.g. "vegetarian", "halal").
	Dietary []string `json:"dietary,omitempty" yaml:"dietary,omitempty"`
}

// Nights returns the number of hotel nights implied by the request duration.
func (r TravelRequest) Nights() int {
	if r.DurationDays <= 1 {
		return 1
	}
	return r.DurationDays - 1
}

// RemediationFlag is one detected feasibility conflict with advisory hints.
type RemediationFlag struct {
	// Detected reports whether the conflict applies to this request.
	Detected bool `json:"detected" yaml:"detected"`

	// Detail is a human-readable description of the conflict.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`

	// RemediationHints lists advisory steps that would resolve the conflict.
	RemediationHints []string `json:"remediation_hints,omitempty" yaml:"remediation_hints,omitempty"`
}

// EdgeCaseReport holds the three independent feasibility flags for a request.
// Any combination may be set; all false means no remediation is needed.
type EdgeCaseReport struct {
	// RequestedDays echoes the request duration so remediation can reshape
	// the day list without re-reading the request.
	RequestedDays int `json:"requested_days" yaml:"requested_days"`

	BudgetConflict   RemediationFlag `json:"budget_conflict" yaml:"budget_conflict"`
	DurationConflict RemediationFlag `json:"duration_conflict" yaml:"duration_conflict"`
	ClimateConflict  RemediationFlag `json:"climate_conflict" yaml:"climate_conflict"`
}

// Any reports whether at least one conflict was detected.
func (r EdgeCaseReport) Any() bool {
	return r.BudgetConflict.Detected || r.DurationConflict.Detected || r.ClimateConflict.Detected
}
