// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that call upstreams.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout. A hung upstream must not hang
	// a cascade, so this is always bounded at point of use.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "trip-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CacheConfig holds settings for the cache store.
type CacheConfig struct {
	// Path is the SQLite database file path (e.g. "cache/trip-engine.db").
	Path string `json:"path" yaml:"path"`

	// FlightsTTL, HotelsTTL, and WeatherTTL are the per-kind cache lifetimes.
	// Availability-sensitive kinds get shorter TTLs.
	FlightsTTL time.Duration `json:"flights_ttl" yaml:"flights_ttl"`
	HotelsTTL  time.Duration `json:"hotels_ttl" yaml:"hotels_ttl"`
	WeatherTTL time.Duration `json:"weather_ttl" yaml:"weather_ttl"`
}

// FlightsConfig holds settings for the flight cascade.
type FlightsConfig struct {
	HTTPConfig `yaml:",inline"`

	// AmadeusAPIKey, DuffelAPIKey, and KiwiAPIKey authenticate the three
	// upstream flight providers. An empty key disables that provider.
	AmadeusAPIKey string `json:"amadeus_api_key,omitempty" yaml:"amadeus_api_key,omitempty"`
	DuffelAPIKey  string `json:"duffel_api_key,omitempty" yaml:"duffel_api_key,omitempty"`
	KiwiAPIKey    string `json:"kiwi_api_key,omitempty" yaml:"kiwi_api_key,omitempty"`

	// Sufficiency is the item count at which lower-priority providers are
	// skipped (default 5).
	Sufficiency int `json:"sufficiency" yaml:"sufficiency"`

	// TopN is the maximum number of offers returned (default 10).
	TopN int `json:"top_n" yaml:"top_n"`
}

// HotelsConfig holds settings for the hotel cascade.
type HotelsConfig struct {
	HTTPConfig `yaml:",inline"`

	// AmadeusAPIKey, CupidAPIKey, and HotelbedsAPIKey authenticate the three
	// upstream hotel providers. An empty key disables that provider.
	AmadeusAPIKey   string `json:"amadeus_api_key,omitempty" yaml:"amadeus_api_key,omitempty"`
	CupidAPIKey     string `json:"cupid_api_key,omitempty" yaml:"cupid_api_key,omitempty"`
	HotelbedsAPIKey string `json:"hotelbeds_api_key,omitempty" yaml:"hotelbeds_api_key,omitempty"`

	// Sufficiency is the item count at which lower-priority providers are
	// skipped (default 5).
	Sufficiency int `json:"sufficiency" yaml:"sufficiency"`

	// TopN is the maximum number of listings returned (default 10).
	TopN int `json:"top_n" yaml:"top_n"`
}

// WeatherConfig holds settings for the weather cascade. Open-Meteo needs no
// key, so the weather cascade always has at least one live provider configured.
type WeatherConfig struct {
	HTTPConfig `yaml:",inline"`

	// OpenWeatherAPIKey and WeatherAPIKey authenticate the first two
	// upstream forecast providers. An empty key disables that provider.
	OpenWeatherAPIKey string `json:"openweather_api_key,omitempty" yaml:"openweather_api_key,omitempty"`
	WeatherAPIKey     string `json:"weatherapi_api_key,omitempty" yaml:"weatherapi_api_key,omitempty"`
}

// AIConfig holds shared settings for components that call the generation backend.
type AIConfig struct {
	// Model is the generation model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the generation API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Temperature controls generation randomness (default 0.7).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxTokens bounds the generation output length (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// PlannerConfig holds settings for the itinerary orchestrator.
type PlannerConfig struct {
	AIConfig `yaml:",inline"`

	// EnhancementEnabled controls the optional second generation pass that
	// adds extra recommendations. Its failures are always swallowed.
	EnhancementEnabled bool `json:"enhancement_enabled" yaml:"enhancement_enabled"`
}

// EngineConfig groups all component configurations.
type EngineConfig struct {
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
	Flights FlightsConfig `json:"flights" yaml:"flights"`
	Hotels  HotelsConfig  `json:"hotels" yaml:"hotels"`
	Weather WeatherConfig `json:"weather" yaml:"weather"`
	Planner PlannerConfig `json:"planner" yaml:"planner"`
}
