package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trip-engine/internal/providers"
	"github.com/pdiddy/trip-engine/pkg/types"
)

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Fetch a multi-day forecast for a known destination",
	Long: `Weather queries the forecast providers (OpenWeather, WeatherAPI, Open-Meteo)
in priority order for a destination from the built-in registry. Open-Meteo
needs no API key, so a live forecast is usually available; if every provider
fails, a climate-derived synthetic forecast tagged "fallback" is returned.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		name, _ := cmd.Flags().GetString("destination")
		from, _ := cmd.Flags().GetString("start")
		days, _ := cmd.Flags().GetInt("days")
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

		log := newLogger()
		store, err := openStore(log)
		if err != nil {
			return err
		}
		defer store.Close()

		cfg := types.WeatherConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "trip-engine/" + version,
			},
			OpenWeatherAPIKey: configOrSecret(viper.GetString("weather.openweather_api_key"), "openweather-api-key"),
			WeatherAPIKey:     configOrSecret(viper.GetString("weather.weatherapi_api_key"), "weatherapi-api-key"),
		}

		cascade := providers.NewWeatherCascade(cfg, store, cacheTTL("cache.weather_ttl", 30*time.Minute), log)
		res, cached := cascade.Aggregate(cmd.Context(), providers.WeatherQuery{
			City:    dest.Name,
			Lat:     dest.Latitude,
			Lon:     dest.Longitude,
			Start:   startDate,
			Days:    days,
			Climate: dest.Climate,
		})

		reportDegradation(res.UsedFallback, res.Errors)

		if asJSON {
			return printEnvelope(types.NewEnvelope(res, envelopeSource(res.SourcesUsed), cached, time.Since(start)))
		}

		fmt.Printf("%s, %s (%s climate, sources: %s, cached: %v)\n",
			dest.Name, dest.Country, dest.Climate, envelopeSource(res.SourcesUsed), cached)
		for _, d := range res.Items {
			fmt.Printf("  %s  %-18s high %.0fC low %.0fC  precip %.1fmm  [%s]\n",
				d.Date.Format("2006-01-02"), d.Condition, d.HighC, d.LowC,
				d.PrecipitationMM, d.Source)
		}
		return nil
	},
}

func init() {
	weatherCmd.Flags().String("destination", "", "destination name from the registry")
	weatherCmd.Flags().String("start", "", "first forecast day (YYYY-MM-DD)")
	weatherCmd.Flags().Int("days", 7, "number of forecast days")
	weatherCmd.Flags().Bool("json", false, "output the response envelope as JSON")
	weatherCmd.MarkFlagRequired("destination")
	weatherCmd.MarkFlagRequired("start")

	rootCmd.AddCommand(weatherCmd)
}
