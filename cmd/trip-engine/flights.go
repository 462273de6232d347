package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trip-engine/internal/providers"
	"github.com/pdiddy/trip-engine/pkg/types"
)

var flightsCmd = &cobra.Command{
	Use:   "flights",
	Short: "Search flight offers across providers with cached fallback",
	Long: `Flights queries the flight providers (Amadeus, Duffel, Kiwi) in priority
order, short-circuiting once enough offers are found. Provider failures are
tolerated; if every provider fails, deterministic synthetic offers tagged
"fallback" are returned instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		origin, _ := cmd.Flags().GetString("origin")
		dest, _ := cmd.Flags().GetString("destination")
		date, _ := cmd.Flags().GetString("date")
		travelers, _ := cmd.Flags().GetInt("travelers")
		asJSON, _ := cmd.Flags().GetBool("json")

		departure, err := parseDate(date)
		if err != nil {
			return err
		}

		log := newLogger()
		store, err := openStore(log)
		if err != nil {
			return err
		}
		defer store.Close()

		cfg := types.FlightsConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "trip-engine/" + version,
			},
			AmadeusAPIKey: configOrSecret(viper.GetString("flights.amadeus_api_key"), "amadeus-api-key"),
			DuffelAPIKey:  configOrSecret(viper.GetString("flights.duffel_api_key"), "duffel-api-key"),
			KiwiAPIKey:    configOrSecret(viper.GetString("flights.kiwi_api_key"), "kiwi-api-key"),
			Sufficiency:   viper.GetInt("flights.sufficiency"),
			TopN:          viper.GetInt("flights.top_n"),
		}

		cascade := providers.NewFlightCascade(cfg, store, cacheTTL("cache.flights_ttl", 15*time.Minute), log)
		res, cached := cascade.Aggregate(cmd.Context(), providers.FlightQuery{
			Origin:    origin,
			Dest:      dest,
			Departure: departure,
			Travelers: travelers,
		})

		reportDegradation(res.UsedFallback, res.Errors)

		if asJSON {
			return printEnvelope(types.NewEnvelope(res, envelopeSource(res.SourcesUsed), cached, time.Since(start)))
		}

		fmt.Printf("%d offers (%d found, sources: %s, cached: %v)\n",
			len(res.Items), res.TotalFound, envelopeSource(res.SourcesUsed), cached)
		for _, f := range res.Items {
			fmt.Printf("  %-8s %s -> %s  dep %s  stops %d  %.2f %s  [%s]\n",
				f.FlightNumber, f.Origin, f.Dest,
				f.DepartureTime.Format("2006-01-02 15:04"), f.Stops,
				f.Price, f.Currency, f.Source)
		}
		return nil
	},
}

func init() {
	flightsCmd.Flags().String("origin", "", "departure city or IATA code")
	flightsCmd.Flags().String("destination", "", "arrival city or IATA code")
	flightsCmd.Flags().String("date", "", "departure date (YYYY-MM-DD)")
	flightsCmd.Flags().Int("travelers", 1, "number of travelers")
	flightsCmd.Flags().Bool("json", false, "output the response envelope as JSON")
	flightsCmd.MarkFlagRequired("origin")
	flightsCmd.MarkFlagRequired("destination")
	flightsCmd.MarkFlagRequired("date")

	rootCmd.AddCommand(flightsCmd)
}
