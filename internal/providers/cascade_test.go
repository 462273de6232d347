// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/trip-engine/internal/cache"
	"github.com/pdiddy/trip-engine/pkg/types"
)

// item is a minimal record for exercising the generic engine.
type item struct {
	Key    string  `json:"key"`
	Price  float64 `json:"price"`
	Source string  `json:"source"`
}

// mockProvider returns fixed results or a fixed error and counts calls.
type mockProvider struct {
	name    string
	results []item
	err     error
	calls   int
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Search(_ context.Context, _ string) ([]item, error) {
	m.calls++
	return m.results, m.err
}

func testStore(t *testing.T) *cache.Store {
	t.Helper()
	s, err := cache.NewStore(filepath.Join(t.TempDir(), "cache.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testCascade(t *testing.T, store *cache.Store, sufficiency, topN int, providers ...Provider[string, item]) *Cascade[string, item] {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return &Cascade[string, item]{
		kind:        "test",
		providers:   providers,
		fallback:    testFallback,
		identity:    func(it item) string { return it.Key },
		less:        func(a, b item) bool { return a.Price < b.Price },
		sufficiency: func(string) int { return sufficiency },
		topN:        func(string) int { return topN },
		ttl:         time.Minute,
		store:       store,
		params:      func(q string) map[string]string { return map[string]string{"q": q} },
		log:         log,
	}
}

func testFallback(q string) []item {
	return []item{
		{Key: "fb-" + q + "-1", Price: 10, Source: types.SourceFallback},
		{Key: "fb-" + q + "-2", Price: 20, Source: types.SourceFallback},
	}
}

func TestAggregateAllProvidersFailUsesFallback(t *testing.T) {
	a := &mockProvider{name: "a", err: fmt.Errorf("timeout")}
	b := &mockProvider{name: "b", err: fmt.Errorf("auth rejected")}
	c := testCascade(t, testStore(t), 5, 10, a, b)

	res, cached := c.Aggregate(context.Background(), "q1")
	assert.False(t, cached)
	assert.True(t, res.UsedFallback)
	require.NotEmpty(t, res.Items)
	for _, it := range res.Items {
		assert.Equal(t, types.SourceFallback, it.Source)
	}
	assert.Equal(t, []string{types.SourceFallback}, res.SourcesUsed)
	assert.Len(t, res.Errors, 2)
}

func TestAggregateInterleavedFailures(t *testing.T) {
	a := &mockProvider{name: "a", err: fmt.Errorf("timeout")}
	b := &mockProvider{name: "b", results: []item{{Key: "x", Price: 50, Source: "b"}}}
	c := testCascade(t, testStore(t), 5, 10, a, b)

	res, _ := c.Aggregate(context.Background(), "q2")
	assert.False(t, res.UsedFallback)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "a", res.Errors[0].Provider)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "x", res.Items[0].Key)
	assert.Equal(t, []string{"b"}, res.SourcesUsed)
}

func TestAggregateSufficiencyShortCircuits(t *testing.T) {
	a := &mockProvider{name: "a", results: []item{
		{Key: "a1", Price: 10, Source: "a"},
		{Key: "a2", Price: 20, Source: "a"},
	}}
	b := &mockProvider{name: "b", results: []item{{Key: "b1", Price: 5, Source: "b"}}}
	c := testCascade(t, testStore(t), 2, 10, a, b)

	res, _ := c.Aggregate(context.Background(), "q3")
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 0, b.calls, "lower-priority provider must be skipped once sufficiency is met")
	assert.Len(t, res.Items, 2)
}

func TestAggregateDeduplicatesByIdentity(t *testing.T) {
	a := &mockProvider{name: "a", results: []item{{Key: "same", Price: 100, Source: "a"}}}
	b := &mockProvider{name: "b", results: []item{
		{Key: "same", Price: 90, Source: "b"},
		{Key: "other", Price: 80, Source: "b"},
	}}
	c := testCascade(t, testStore(t), 5, 10, a, b)

	res, _ := c.Aggregate(context.Background(), "q4")
	require.Len(t, res.Items, 2)

	// The higher-priority provider's record wins the identity tie.
	var same item
	for _, it := range res.Items {
		if it.Key == "same" {
			same = it
		}
	}
	assert.Equal(t, "a", same.Source)
}

func TestAggregateSortsByPriceAndTruncates(t *testing.T) {
	a := &mockProvider{name: "a", results: []item{
		{Key: "k1", Price: 30, Source: "a"},
		{Key: "k2", Price: 10, Source: "a"},
		{Key: "k3", Price: 20, Source: "a"},
	}}
	c := testCascade(t, testStore(t), 5, 2, a)

	res, _ := c.Aggregate(context.Background(), "q5")
	require.Len(t, res.Items, 2)
	assert.Equal(t, 3, res.TotalFound)
	assert.Equal(t, "k2", res.Items[0].Key)
	assert.Equal(t, "k3", res.Items[1].Key)
}

func TestAggregateSecondCallServedFromCache(t *testing.T) {
	a := &mockProvider{name: "a", results: []item{{Key: "k", Price: 9, Source: "a"}}}
	c := testCascade(t, testStore(t), 5, 10, a)

	first, cached := c.Aggregate(context.Background(), "q6")
	require.False(t, cached)

	second, cached := c.Aggregate(context.Background(), "q6")
	assert.True(t, cached)
	assert.Equal(t, 1, a.calls, "second aggregate within TTL must not hit providers")
	assert.Equal(t, first.Items, second.Items)
}

func TestAggregateUndecodableCacheEntryRebuilds(t *testing.T) {
	store := testStore(t)
	a := &mockProvider{name: "a", results: []item{{Key: "k", Price: 9, Source: "a"}}}
	c := testCascade(t, store, 5, 10, a)

	key := cache.Key("test", map[string]string{"q": "q9"})
	require.True(t, store.Set(key, []byte("not json"), 60))

	res, cached := c.Aggregate(context.Background(), "q9")
	assert.False(t, cached)
	assert.Equal(t, 1, a.calls)
	require.Len(t, res.Items, 1)

	// The bad entry was replaced, so the next call is served from cache.
	_, cached = c.Aggregate(context.Background(), "q9")
	assert.True(t, cached)
	assert.Equal(t, 1, a.calls)
}

func TestAggregateCacheWriteFailureStillReturnsLive(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.Close())

	a := &mockProvider{name: "a", results: []item{{Key: "k", Price: 9, Source: "a"}}}
	c := testCascade(t, store, 5, 10, a)

	res, cached := c.Aggregate(context.Background(), "q10")
	assert.False(t, cached)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "k", res.Items[0].Key)
}

func TestAggregateDistinctQueriesDistinctKeys(t *testing.T) {
	a := &mockProvider{name: "a", results: []item{{Key: "k", Price: 9, Source: "a"}}}
	c := testCascade(t, testStore(t), 5, 10, a)

	c.Aggregate(context.Background(), "q7")
	c.Aggregate(context.Background(), "q8")
	assert.Equal(t, 2, a.calls)
}

func TestKeyUsesSortedQueryParams(t *testing.T) {
	key := cache.Key("flights", map[string]string{
		"travelers": strconv.Itoa(2),
		"dest":      "LIS",
	})
	assert.Equal(t, "flights:dest=LIS|travelers=2", key)
}
