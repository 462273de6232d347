package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pdiddy/trip-engine/pkg/types"
)

// printEnvelope writes the envelope as indented JSON on stdout.
func printEnvelope(env types.Envelope) error {
	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling envelope: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// envelopeSource names the provider set that satisfied an aggregation.
func envelopeSource(sources []string) string {
	if len(sources) == 0 {
		return "none"
	}
	return strings.Join(sources, ",")
}

// reportDegradation prints a stderr note when a result is synthetic.
func reportDegradation(usedFallback bool, errs []types.ProviderError) {
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "provider %s failed: %s\n", e.Provider, e.Message)
	}
	if usedFallback {
		fmt.Fprintln(os.Stderr, "all providers failed; returning synthetic fallback data")
	}
}

// parseDate parses a YYYY-MM-DD flag value.
func parseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
	}
	return t, nil
}
