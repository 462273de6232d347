package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/trip-engine/internal/genai"
	"github.com/pdiddy/trip-engine/internal/httputil"
	"github.com/pdiddy/trip-engine/internal/planner"
	"github.com/pdiddy/trip-engine/internal/providers"
	"github.com/pdiddy/trip-engine/pkg/types"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Synthesize a complete multi-day travel plan",
	Long: `Plan runs the full pipeline: it flags budget, duration, and climate
conflicts, generates an itinerary through the AI backend, parses whatever text
comes back, overlays the cheapest flight and hotel plus the forecast from the
provider cascades, and applies remediation. The command always produces a
plan; degraded paths lower the plan's confidence instead of failing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		name, _ := cmd.Flags().GetString("destination")
		origin, _ := cmd.Flags().GetString("origin")
		from, _ := cmd.Flags().GetString("start")
		duration, _ := cmd.Flags().GetInt("duration")
		travelers, _ := cmd.Flags().GetInt("travelers")
		budget, _ := cmd.Flags().GetFloat64("budget")
		interests, _ := cmd.Flags().GetString("interests")
		style, _ := cmd.Flags().GetString("style")
		pace, _ := cmd.Flags().GetString("pace")
		groupType, _ := cmd.Flags().GetString("group")
		climate, _ := cmd.Flags().GetString("climate")
		outPath, _ := cmd.Flags().GetString("out")
		asJSON, _ := cmd.Flags().GetBool("json")

		dest, ok := types.LookupDestination(name)
		if !ok {
			err := fmt.Errorf("unknown destination %q, known: %s",
				name, strings.Join(types.KnownDestinations(), ", "))
			if asJSON {
				return printEnvelope(types.ErrorEnvelope(err, "registry", time.Since(start)))
			}
			return err
		}

		startDate, err := parseDate(from)
		if err != nil {
			return err
		}

		req := types.TravelRequest{
			Origin:           origin,
			Destination:      dest,
			StartDate:        startDate,
			DurationDays:     duration,
			Travelers:        travelers,
			Budget:           budget,
			Style:            style,
			Pace:             pace,
			GroupType:        groupType,
			PreferredClimate: types.Climate(climate),
		}
		if interests != "" {
			for _, tag := range strings.Split(interests, ",") {
				req.Interests = append(req.Interests, strings.TrimSpace(tag))
			}
		}

		log := newLogger()
		store, err := openStore(log)
		if err != nil {
			return err
		}
		defer store.Close()

		httpCfg := types.HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "trip-engine/" + version,
		}

		flights := providers.NewFlightCascade(types.FlightsConfig{
			HTTPConfig:    httpCfg,
			AmadeusAPIKey: configOrSecret(viper.GetString("flights.amadeus_api_key"), "amadeus-api-key"),
			DuffelAPIKey:  configOrSecret(viper.GetString("flights.duffel_api_key"), "duffel-api-key"),
			KiwiAPIKey:    configOrSecret(viper.GetString("flights.kiwi_api_key"), "kiwi-api-key"),
		}, store, cacheTTL("cache.flights_ttl", 15*time.Minute), log)

		hotels := providers.NewHotelCascade(types.HotelsConfig{
			HTTPConfig:      httpCfg,
			AmadeusAPIKey:   configOrSecret(viper.GetString("hotels.amadeus_api_key"), "amadeus-api-key"),
			CupidAPIKey:     configOrSecret(viper.GetString("hotels.cupid_api_key"), "cupid-api-key"),
			HotelbedsAPIKey: configOrSecret(viper.GetString("hotels.hotelbeds_api_key"), "hotelbeds-api-key"),
		}, store, cacheTTL("cache.hotels_ttl", time.Hour), log)

		weather := providers.NewWeatherCascade(types.WeatherConfig{
			HTTPConfig:        httpCfg,
			OpenWeatherAPIKey: configOrSecret(viper.GetString("weather.openweather_api_key"), "openweather-api-key"),
			WeatherAPIKey:     configOrSecret(viper.GetString("weather.weatherapi_api_key"), "weatherapi-api-key"),
		}, store, cacheTTL("cache.weather_ttl", 30*time.Minute), log)

		plannerCfg := types.PlannerConfig{
			AIConfig: types.AIConfig{
				Model:       viper.GetString("planner.model"),
				APIKey:      configOrSecret(viper.GetString("planner.api_key"), "anthropic-api-key"),
				MaxRetries:  viper.GetInt("planner.max_retries"),
				Temperature: viper.GetFloat64("planner.temperature"),
				MaxTokens:   viper.GetInt("planner.max_tokens"),
			},
			EnhancementEnabled: viper.GetBool("planner.enhancement_enabled"),
		}

		backend := &genai.ClaudeBackend{
			APIKey: plannerCfg.APIKey,
			Client: httputil.NewClient(httpCfg, log),
		}

		o := planner.NewOrchestrator(backend, plannerCfg, flights, hotels, weather, log)
		plan := o.Plan(cmd.Context(), req)

		if outPath != "" {
			if err := writePlan(outPath, plan); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, "Plan written to", outPath)
		}

		if asJSON {
			return printEnvelope(types.NewEnvelope(plan, string(plan.Provenance), false, time.Since(start)))
		}

		printPlanSummary(plan)
		return nil
	},
}

// writePlan marshals the plan to a YAML file.
func writePlan(path string, plan types.TravelPlan) error {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshaling plan: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func printPlanSummary(plan types.TravelPlan) {
	fmt.Printf("%s, %s: %d days, total %.2f USD (confidence %.1f, %s)\n",
		plan.Destination.Name, plan.Destination.Country, len(plan.Days),
		plan.TotalCost, plan.Confidence, plan.Provenance)

	if len(plan.Flights) > 0 {
		f := plan.Flights[0]
		fmt.Printf("flight: %s %s -> %s, %.2f %s [%s]\n",
			f.FlightNumber, f.Origin, f.Dest, f.Price, f.Currency, f.Source)
	}
	if plan.Hotel != nil {
		fmt.Printf("hotel: %s, %.2f %s/night [%s]\n",
			plan.Hotel.Name, plan.Hotel.NightlyRate, plan.Hotel.Currency, plan.Hotel.Source)
	}

	for _, day := range plan.Days {
		fmt.Printf("\nday %d (%s, %s):\n", day.Index,
			day.Date.Format("2006-01-02"), day.Weather.Condition)
		for _, a := range day.Activities {
			fmt.Printf("  %-9s %s", a.Slot, a.Name)
			if a.Cost > 0 {
				fmt.Printf(" (%.2f USD)", a.Cost)
			}
			fmt.Println()
		}
	}

	if len(plan.Warnings) > 0 {
		fmt.Println("\nwarnings:")
		for _, w := range plan.Warnings {
			fmt.Println("  -", w)
		}
	}
	if len(plan.Recommendations) > 0 {
		fmt.Println("\nrecommendations:")
		for _, r := range plan.Recommendations {
			fmt.Println("  -", r)
		}
	}
}

func init() {
	planCmd.Flags().String("destination", "", "destination name from the registry")
	planCmd.Flags().String("origin", "", "departure city or IATA code")
	planCmd.Flags().String("start", "", "trip start date (YYYY-MM-DD)")
	planCmd.Flags().Int("duration", 7, "trip length in days")
	planCmd.Flags().Int("travelers", 2, "number of travelers")
	planCmd.Flags().Float64("budget", 0, "total group budget in USD")
	planCmd.Flags().String("interests", "", "comma-separated interest tags")
	planCmd.Flags().String("style", "", "travel style (backpacking, comfort, luxury)")
	planCmd.Flags().String("pace", "", "activity pace (relaxed, moderate, packed)")
	planCmd.Flags().String("group", "", "group type (solo, couple, family)")
	planCmd.Flags().String("climate", "", "preferred climate; empty or \"any\" disables mismatch checks")
	planCmd.Flags().String("out", "", "write the plan to a YAML file")
	planCmd.Flags().Bool("json", false, "output the response envelope as JSON")
	planCmd.MarkFlagRequired("destination")
	planCmd.MarkFlagRequired("origin")
	planCmd.MarkFlagRequired("start")

	rootCmd.AddCommand(planCmd)
}
