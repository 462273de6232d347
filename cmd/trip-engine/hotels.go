package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trip-engine/internal/providers"
	"github.com/pdiddy/trip-engine/pkg/types"
)

var hotelsCmd = &cobra.Command{
	Use:   "hotels",
	Short: "Search hotel listings across providers with cached fallback",
	Long: `Hotels queries the hotel providers (Amadeus, Cupid, Hotelbeds) in priority
order and deduplicates listings for the same property. If every provider
fails, deterministic synthetic listings tagged "fallback" are returned.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		city, _ := cmd.Flags().GetString("city")
		checkin, _ := cmd.Flags().GetString("checkin")
		nights, _ := cmd.Flags().GetInt("nights")
		guests, _ := cmd.Flags().GetInt("guests")
		asJSON, _ := cmd.Flags().GetBool("json")

		checkinDate, err := parseDate(checkin)
		if err != nil {
			return err
		}

		log := newLogger()
		store, err := openStore(log)
		if err != nil {
			return err
		}
		defer store.Close()

		cfg := types.HotelsConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "trip-engine/" + version,
			},
			AmadeusAPIKey:   configOrSecret(viper.GetString("hotels.amadeus_api_key"), "amadeus-api-key"),
			CupidAPIKey:     configOrSecret(viper.GetString("hotels.cupid_api_key"), "cupid-api-key"),
			HotelbedsAPIKey: configOrSecret(viper.GetString("hotels.hotelbeds_api_key"), "hotelbeds-api-key"),
			Sufficiency:     viper.GetInt("hotels.sufficiency"),
			TopN:            viper.GetInt("hotels.top_n"),
		}

		cascade := providers.NewHotelCascade(cfg, store, cacheTTL("cache.hotels_ttl", time.Hour), log)
		res, cached := cascade.Aggregate(cmd.Context(), providers.HotelQuery{
			City:    city,
			CheckIn: checkinDate,
			Nights:  nights,
			Guests:  guests,
		})

		reportDegradation(res.UsedFallback, res.Errors)

		if asJSON {
			return printEnvelope(types.NewEnvelope(res, envelopeSource(res.SourcesUsed), cached, time.Since(start)))
		}

		fmt.Printf("%d listings (%d found, sources: %s, cached: %v)\n",
			len(res.Items), res.TotalFound, envelopeSource(res.SourcesUsed), cached)
		for _, h := range res.Items {
			fmt.Printf("  %-30s %.1f*  %.2f %s/night  [%s]\n",
				h.Name, h.Rating, h.NightlyRate, h.Currency, h.Source)
		}
		return nil
	},
}

func init() {
	hotelsCmd.Flags().String("city", "", "destination city")
	hotelsCmd.Flags().String("checkin", "", "check-in date (YYYY-MM-DD)")
	hotelsCmd.Flags().Int("nights", 1, "number of nights")
	hotelsCmd.Flags().Int("guests", 2, "number of guests")
	hotelsCmd.Flags().Bool("json", false, "output the response envelope as JSON")
	hotelsCmd.MarkFlagRequired("city")
	hotelsCmd.MarkFlagRequired("checkin")

	rootCmd.AddCommand(hotelsCmd)
}
