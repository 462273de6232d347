package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trip-engine/pkg/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Administer the travel data cache",
	Long: `Cache administers the SQLite store that sits in front of every provider
cascade: report hit statistics, sweep expired entries, or delete entries by
key pattern.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print cache entry count and hit/miss counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		asJSON, _ := cmd.Flags().GetBool("json")

		store, err := openStore(newLogger())
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.Stats()
		if err != nil {
			return err
		}

		if asJSON {
			return printEnvelope(types.NewEnvelope(stats, "cache", false, time.Since(start)))
		}
		fmt.Printf("entries: %d\nhits: %d\nmisses: %d\n", stats.Entries, stats.Hits, stats.Misses)
		return nil
	},
}

var cacheClearExpiredCmd = &cobra.Command{
	Use:   "clear-expired",
	Short: "Delete every entry past its TTL",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(newLogger())
		if err != nil {
			return err
		}
		defer store.Close()

		removed, err := store.ClearExpired()
		if err != nil {
			return err
		}
		fmt.Printf("removed %d expired entries\n", removed)
		return nil
	},
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete <pattern>",
	Short: "Delete entries matching a glob pattern",
	Long: `Delete removes cache entries whose keys match the glob pattern, e.g.
"flights:*" to invalidate every cached flight aggregation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(newLogger())
		if err != nil {
			return err
		}
		defer store.Close()

		removed, err := store.DeleteByPattern(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("removed %d entries matching %q\n", removed, args[0])
		return nil
	},
}

func init() {
	cacheStatsCmd.Flags().Bool("json", false, "output the response envelope as JSON")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearExpiredCmd)
	cacheCmd.AddCommand(cacheDeleteCmd)
	rootCmd.AddCommand(cacheCmd)
}
