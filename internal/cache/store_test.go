// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "cache.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Close()
		nowFunc = time.Now
	})
	return s
}

// advance shifts the store's clock forward by d.
func advance(d time.Duration) {
	base := time.Now()
	nowFunc = func() time.Time { return base.Add(d) }
}

func TestSetThenGetWithinTTL(t *testing.T) {
	s := newTestStore(t)

	ok := s.Set("flights:dest=LIS", []byte(`{"items":[]}`), 60)
	require.True(t, ok)

	got, hit := s.Get("flights:dest=LIS")
	require.True(t, hit)
	assert.Equal(t, []byte(`{"items":[]}`), got)
}

func TestGetAfterTTLElapsedIsAbsent(t *testing.T) {
	s := newTestStore(t)

	require.True(t, s.Set("k", []byte("v"), 1))
	advance(2 * time.Second)

	_, hit := s.Get("k")
	assert.False(t, hit)

	// The expired row must have been deleted by the read, not just skipped.
	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Entries)
}

func TestGetOrSetColdCallsProducerOnce(t *testing.T) {
	s := newTestStore(t)

	calls := 0
	producer := func(context.Context) ([]byte, error) {
		calls++
		return []byte("fresh"), nil
	}

	data, cached, origin, err := s.GetOrSet(context.Background(), "k", 60, producer)
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), data)
	assert.False(t, cached)
	assert.Equal(t, OriginLive, origin)
	assert.Equal(t, 1, calls)

	// The produced value must be visible to an immediate Get.
	got, hit := s.Get("k")
	require.True(t, hit)
	assert.Equal(t, []byte("fresh"), got)
}

func TestGetOrSetWarmSkipsProducer(t *testing.T) {
	s := newTestStore(t)
	require.True(t, s.Set("k", []byte("cached"), 60))

	calls := 0
	data, cached, origin, err := s.GetOrSet(context.Background(), "k", 60, func(context.Context) ([]byte, error) {
		calls++
		return []byte("fresh"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("cached"), data)
	assert.True(t, cached)
	assert.Equal(t, OriginCache, origin)
	assert.Equal(t, 0, calls)
}

func TestGetOrSetProducerError(t *testing.T) {
	s := newTestStore(t)

	_, cached, _, err := s.GetOrSet(context.Background(), "k", 60, func(context.Context) ([]byte, error) {
		return nil, fmt.Errorf("upstream down")
	})
	assert.Error(t, err)
	assert.False(t, cached)

	_, hit := s.Get("k")
	assert.False(t, hit, "failed production must not populate the cache")
}

func TestGetOrSetBypassOnWriteFailure(t *testing.T) {
	s := newTestStore(t)

	// Closing the database makes every write fail; the fresh value must
	// still come back, tagged as a bypass.
	require.NoError(t, s.Close())

	data, cached, origin, err := s.GetOrSet(context.Background(), "k", 60, func(context.Context) ([]byte, error) {
		return []byte("fresh"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), data)
	assert.False(t, cached)
	assert.Equal(t, OriginBypass, origin)
}

func TestDeleteByPattern(t *testing.T) {
	s := newTestStore(t)
	require.True(t, s.Set("flights:a", []byte("1"), 60))
	require.True(t, s.Set("flights:b", []byte("2"), 60))
	require.True(t, s.Set("hotels:a", []byte("3"), 60))

	n, err := s.DeleteByPattern("flights:*")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, hit := s.Get("hotels:a")
	assert.True(t, hit)
}

func TestClearExpired(t *testing.T) {
	s := newTestStore(t)
	require.True(t, s.Set("short", []byte("1"), 1))
	require.True(t, s.Set("long", []byte("2"), 3600))

	advance(5 * time.Second)

	n, err := s.ClearExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, hit := s.Get("long")
	assert.True(t, hit)
}

func TestKeyDeterministicAcrossParamOrder(t *testing.T) {
	a := Key("flights", map[string]string{"origin": "NYC", "dest": "LIS", "date": "2026-09-01"})
	b := Key("flights", map[string]string{"date": "2026-09-01", "dest": "LIS", "origin": "NYC"})
	assert.Equal(t, a, b)
	assert.Equal(t, "flights:date=2026-09-01|dest=LIS|origin=NYC", a)
}

func TestStatsCounters(t *testing.T) {
	s := newTestStore(t)
	require.True(t, s.Set("k", []byte("v"), 60))

	s.Get("k")
	s.Get("missing")

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}
