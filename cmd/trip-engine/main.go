// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the trip-engine CLI. Each engine
// operation is a subcommand: flights, hotels, and weather run their provider
// cascades, plan runs the full itinerary pipeline, and cache administers the
// store.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trip-engine/internal/cache"
	"github.com/pdiddy/trip-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// configOrSecret returns the configured value if set, falling back to the
// secret loaded under key. Explicit config wins over the secrets directory.
func configOrSecret(value, key string) string {
	if value != "" {
		return value
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the trip-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "trip-engine",
	Short: "Travel data aggregation and itinerary synthesis",
	Long: `trip-engine aggregates flights, hotels, and weather from multiple upstream
providers with cached fallback cascades, and synthesizes personalized
multi-day itineraries through a generation backend with automatic
remediation of infeasible requests.

Each operation is a subcommand: flights, hotels, weather, plan, and cache.
Every command returns a usable result; provider and generation failures
degrade to explicitly flagged synthetic data.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./trip-engine.yaml or ~/.config/trip-engine/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("trip-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "trip-engine"))
		}
	}

	viper.SetEnvPrefix("TRIP_ENGINE")
	viper.AutomaticEnv()

	viper.SetDefault("cache.path", "cache/trip-engine.db")
	viper.SetDefault("cache.flights_ttl", "15m")
	viper.SetDefault("cache.hotels_ttl", "1h")
	viper.SetDefault("cache.weather_ttl", "30m")
	viper.SetDefault("planner.model", "claude-sonnet-4-5-20250929")
	viper.SetDefault("planner.temperature", 0.7)
	viper.SetDefault("planner.max_tokens", 4096)
	viper.SetDefault("planner.max_retries", 3)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the CLI logger honoring --verbose.
func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// openStore opens the cache store at the configured path.
func openStore(log *logrus.Logger) (*cache.Store, error) {
	return cache.NewStore(viper.GetString("cache.path"), log)
}

// cacheTTL reads a per-kind TTL from config.
func cacheTTL(key string, fallback time.Duration) time.Duration {
	if d := viper.GetDuration(key); d > 0 {
		return d
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
