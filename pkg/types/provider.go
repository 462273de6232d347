// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// SourceFallback is the source tag carried by synthetic records produced when
// every live provider for a kind fails or returns nothing.
const SourceFallback = "fallback"

// ProviderError records a single upstream failure inside a cascade. Failures
// are collected, never propagated: an aggregation cannot fail outward.
type ProviderError struct {
	// Provider is the name of the upstream that failed (e.g. "amadeus").
	Provider string `json:"provider" yaml:"provider"`

	// Message is the failure description (timeout, auth, malformed payload).
	Message string `json:"message" yaml:"message"`
}

// Error implements the error interface.
func (e ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Flight is a normalized flight offer from one provider.
type Flight struct {
	// ID is the provider's offer identifier.
	ID string `json:"id" yaml:"id"`

	// Airline is the marketing carrier name.
	Airline string `json:"airline" yaml:"airline"`

	// FlightNumber is the carrier flight number (e.g. "TP212").
	FlightNumber string `json:"flight_number" yaml:"flight_number"`

	// Origin and Dest are city names or IATA codes.
	Origin string `json:"origin" yaml:"origin"`
	Dest   string `json:"dest" yaml:"dest"`

	// DepartureTime and ArrivalTime bound the outbound leg.
	DepartureTime time.Time `json:"departure_time" yaml:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time" yaml:"arrival_time"`

	// Stops is the number of intermediate stops.
	Stops int `json:"stops" yaml:"stops"`

	// Price is the total offer price in Currency.
	Price    float64 `json:"price" yaml:"price"`
	Currency string  `json:"currency" yaml:"currency"`

	// Source identifies the origin provider, or "fallback" for synthetic data.
	Source string `json:"source" yaml:"source"`

	// LastUpdated is when this record was produced from the upstream payload.
	LastUpdated time.Time `json:"last_updated" yaml:"last_updated"`
}

// Hotel is a normalized hotel listing from one provider.
type Hotel struct {
	// ID is the provider's property identifier.
	ID string `json:"id" yaml:"id"`

	// Name is the property name.
	Name string `json:"name" yaml:"name"`

	// City is the property city.
	City string `json:"city" yaml:"city"`

	// Rating is the guest rating on a 0-5 scale.
	Rating float64 `json:"rating" yaml:"rating"`

	// NightlyRate is the per-night price in Currency.
	NightlyRate float64 `json:"nightly_rate" yaml:"nightly_rate"`
	Currency    string  `json:"currency" yaml:"currency"`

	// Amenities lists notable amenities.
	Amenities []string `json:"amenities,omitempty" yaml:"amenities,omitempty"`

	// Source identifies the origin provider, or "fallback" for synthetic data.
	Source string `json:"source" yaml:"source"`

	// LastUpdated is when this record was produced from the upstream payload.
	LastUpdated time.Time `json:"last_updated" yaml:"last_updated"`
}

// WeatherDay is a normalized one-day forecast from one provider.
type WeatherDay struct {
	// Date is the forecast day.
	Date time.Time `json:"date" yaml:"date"`

	// Condition is a short description (e.g. "partly cloudy").
	Condition string `json:"condition" yaml:"condition"`

	// HighC and LowC are the expected temperature extremes in Celsius.
	HighC float64 `json:"high_c" yaml:"high_c"`
	LowC  float64 `json:"low_c" yaml:"low_c"`

	// PrecipitationMM is the expected precipitation in millimeters.
	PrecipitationMM float64 `json:"precipitation_mm" yaml:"precipitation_mm"`

	// Source identifies the origin provider, or "fallback" for synthetic data.
	Source string `json:"source" yaml:"source"`

	// LastUpdated is when this record was produced from the upstream payload.
	LastUpdated time.Time `json:"last_updated" yaml:"last_updated"`
}

// AggregatedResult is the outcome of one cascade run for a data kind.
// UsedFallback is true iff every live provider failed or returned zero items;
// in that case Items holds synthetic records only and SourcesUsed is
// exactly {"fallback"}.
type AggregatedResult[T any] struct {
	// Items is the deduplicated, ordered, truncated result list.
	Items []T `json:"items" yaml:"items"`

	// TotalFound is the number of distinct items found before truncation.
	TotalFound int `json:"total_found" yaml:"total_found"`

	// SourcesUsed lists the providers that contributed items, sorted.
	SourcesUsed []string `json:"sources_used" yaml:"sources_used"`

	// Errors records each provider failure encountered during the cascade.
	Errors []ProviderError `json:"errors,omitempty" yaml:"errors,omitempty"`

	// UsedFallback reports whether Items is synthetic.
	UsedFallback bool `json:"used_fallback" yaml:"used_fallback"`
}
