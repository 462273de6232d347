// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// destinations is the built-in registry of known destinations. The analyzer,
// prompt synthesizer, and synthetic fallback generators all resolve against
// this table; upstream providers never define destination facts.
var destinations = []Destination{
	{Name: "Lisbon", Country: "Portugal", Climate: ClimateMediterranean, PriceTier: TierMid, BestMonths: []int{4, 5, 6, 9, 10}, Latitude: 38.72, Longitude: -9.14},
	{Name: "Barcelona", Country: "Spain", Climate: ClimateMediterranean, PriceTier: TierMid, BestMonths: []int{5, 6, 9, 10}, Latitude: 41.39, Longitude: 2.17},
	{Name: "Bangkok", Country: "Thailand", Climate: ClimateTropical, PriceTier: TierBudget, BestMonths: []int{11, 12, 1, 2}, Latitude: 13.76, Longitude: 100.5},
	{Name: "Bali", Country: "Indonesia", Climate: ClimateTropical, PriceTier: TierBudget, BestMonths: []int{5, 6, 7, 8, 9}, Latitude: -8.41, Longitude: 115.19},
	{Name: "Cancun", Country: "Mexico", Climate: ClimateTropical, PriceTier: TierMid, BestMonths: []int{12, 1, 2, 3, 4}, Latitude: 21.16, Longitude: -86.85},
	{Name: "Reykjavik", Country: "Iceland", Climate: ClimateCold, PriceTier: TierLuxury, BestMonths: []int{6, 7, 8}, Latitude: 64.15, Longitude: -21.94},
	{Name: "Tromso", Country: "Norway", Climate: ClimateCold, PriceTier: TierLuxury, BestMonths: []int{12, 1, 2, 6, 7}, Latitude: 69.65, Longitude: 18.96},
	{Name: "Tokyo", Country: "Japan", Climate: ClimateTemperate, PriceTier: TierLuxury, BestMonths: []int{3, 4, 10, 11}, Latitude: 35.68, Longitude: 139.69},
	{Name: "Prague", Country: "Czechia", Climate: ClimateTemperate, PriceTier: TierMid, BestMonths: []int{5, 6, 9}, Latitude: 50.08, Longitude: 14.44},
	{Name: "Marrakech", Country: "Morocco", Climate: ClimateArid, PriceTier: TierBudget, BestMonths: []int{3, 4, 10, 11}, Latitude: 31.63, Longitude: -7.99},
	{Name: "Dubai", Country: "United Arab Emirates", Climate: ClimateArid, PriceTier: TierLuxury, BestMonths: []int{11, 12, 1, 2, 3}, Latitude: 25.2, Longitude: 55.27},
	{Name: "Hanoi", Country: "Vietnam", Climate: ClimateTropical, PriceTier: TierBudget, BestMonths: []int{10, 11, 3, 4}, Latitude: 21.03, Longitude: 105.85},
}

// LookupDestination resolves a destination by name, case-insensitively.
func LookupDestination(name string) (Destination, bool) {
	for _, d := range destinations {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Destination{}, false
}

// KnownDestinations returns the registry names in table order.
func KnownDestinations() []string {
	names := make([]string, len(destinations))
	for i, d := range destinations {
		names[i] = d.Name
	}
	return names
}

// AlternativesForClimate returns up to three registry destinations matching
// the requested climate, excluding the named destination.
func AlternativesForClimate(climate Climate, exclude string) []string {
	var alts []string
	for _, d := range destinations {
		if d.Climate != climate || strings.EqualFold(d.Name, exclude) {
			continue
		}
		alts = append(alts, d.Name)
		if len(alts) == 3 {
			break
		}
	}
	return alts
}
