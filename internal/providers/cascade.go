// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package providers implements the ordered-fallback aggregation cascades for
// flights, hotels, and weather. Each kind keeps a priority-ordered provider
// list behind a common Search interface; one synthetic generator per kind
// guarantees that aggregation never fails outward.
package providers

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/trip-engine/internal/cache"
	"github.com/pdiddy/trip-engine/pkg/types"
)

// Provider searches a single upstream for one data kind. Each upstream
// (Amadeus, Duffel, Kiwi, ...) implements this interface per the Strategy
// pattern; the synthetic fallback path is selected by the cascade itself,
// not listed here.
type Provider[Q, T any] interface {
	Name() string
	Search(ctx context.Context, query Q) ([]T, error)
}

// Cascade is the generic ordered-fallback aggregator for one data kind.
// Providers are called strictly in priority order and sequentially; the
// cascade stops early once the sufficiency threshold is met. Results are
// cached with a kind-specific TTL.
type Cascade[Q, T any] struct {
	kind        string
	providers   []Provider[Q, T]
	fallback    func(Q) []T
	identity    func(T) string
	less        func(a, b T) bool // nil keeps provider order
	sufficiency func(Q) int
	topN        func(Q) int
	ttl         time.Duration
	store       *cache.Store
	params      func(Q) map[string]string
	log         *logrus.Logger
}

// Aggregate runs the cascade for query through the cache's read-through path.
// The second return value reports whether the result came from the cache.
// Aggregate cannot fail: the worst case is a fully synthetic result with
// UsedFallback set.
func (c *Cascade[Q, T]) Aggregate(ctx context.Context, query Q) (types.AggregatedResult[T], bool) {
	if c.store == nil {
		return c.run(ctx, query), false
	}
	key := cache.Key(c.kind, c.params(query))

	var fresh *types.AggregatedResult[T]
	data, _, _, _ := c.store.GetOrSet(ctx, key, int(c.ttl.Seconds()), func(ctx context.Context) ([]byte, error) {
		res := c.run(ctx, query)
		fresh = &res
		return json.Marshal(res)
	})
	// A marshal failure is the only producer error; the live result stands.
	if fresh != nil {
		return *fresh, false
	}

	var res types.AggregatedResult[T]
	if err := json.Unmarshal(data, &res); err != nil {
		// Undecodable entry: evict and rebuild live.
		c.log.WithField("cache_key", key).Warn("dropping undecodable cache entry")
		c.store.DeleteKey(key)
		res = c.run(ctx, query)
		if data, err := json.Marshal(res); err == nil {
			c.store.Set(key, data, int(c.ttl.Seconds()))
		}
		return res, false
	}
	return res, true
}

func (c *Cascade[Q, T]) run(ctx context.Context, query Q) types.AggregatedResult[T] {
	var items []T
	var errs []types.ProviderError
	sources := map[string]bool{}

	need := c.sufficiency(query)
	for _, p := range c.providers {
		got, err := p.Search(ctx, query)
		if err != nil {
			c.log.WithError(err).WithFields(logrus.Fields{
				"kind":     c.kind,
				"provider": p.Name(),
			}).Warn("provider failed")
			errs = append(errs, types.ProviderError{Provider: p.Name(), Message: err.Error()})
			continue
		}
		if len(got) > 0 {
			items = append(items, got...)
			sources[p.Name()] = true
		}
		if need > 0 && len(items) >= need {
			break
		}
	}

	usedFallback := len(items) == 0
	if usedFallback {
		items = c.fallback(query)
		sources = map[string]bool{types.SourceFallback: true}
	}

	items = dedupe(items, c.identity)
	if c.less != nil {
		sort.SliceStable(items, func(i, j int) bool {
			return c.less(items[i], items[j])
		})
	}

	total := len(items)
	if n := c.topN(query); n > 0 && len(items) > n {
		items = items[:n]
	}

	return types.AggregatedResult[T]{
		Items:        items,
		TotalFound:   total,
		SourcesUsed:  sortedKeys(sources),
		Errors:       errs,
		UsedFallback: usedFallback,
	}
}

// dedupe collapses items that share an identity key, keeping the first
// occurrence so higher-priority providers win ties.
func dedupe[T any](items []T, identity func(T) string) []T {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, it := range items {
		key := identity(it)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
