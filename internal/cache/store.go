// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache provides a SQLite-backed key/value store with per-entry TTL.
// It sits in front of every upstream call the engine makes: cascades and the
// planner consult it before paying for provider or generation traffic.
//
// Expired entries are never returned: a read that finds an expired row deletes
// it and reports a miss (lazy eviction). Store failures degrade to cache
// bypass, never to request failure.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// nowFunc returns the current time. Tests override this to exercise expiry
// without sleeping.
var nowFunc = time.Now

// Origin values reported by GetOrSet.
const (
	OriginCache  = "cache"
	OriginLive   = "live"
	OriginBypass = "bypass"
)

// Store is a TTL key/value cache over opaque serializable payloads.
type Store struct {
	db     *sql.DB
	log    *logrus.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// Stats summarizes cache effectiveness.
type Stats struct {
	Entries int64 `json:"entries" yaml:"entries"`
	Hits    int64 `json:"hits" yaml:"hits"`
	Misses  int64 `json:"misses" yaml:"misses"`
}

// NewStore opens or creates the cache database at path and creates the schema
// if it does not exist. The parent directory is created as needed.
func NewStore(path string, log *logrus.Logger) (*Store, error) {
	if log == nil {
		log = logrus.New()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db, log: log}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	const stmt = `CREATE TABLE IF NOT EXISTS cache_entries (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		stored_at INTEGER NOT NULL,
		ttl_millis INTEGER NOT NULL,
		origin TEXT NOT NULL DEFAULT ''
	)`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Get returns the cached payload iff the key is present and unexpired. An
// expired entry is deleted as a side effect of the read and reported as a miss.
func (s *Store) Get(key string) ([]byte, bool) {
	var value []byte
	var storedAt, ttlMillis int64

	err := s.db.QueryRow(
		`SELECT value, stored_at, ttl_millis FROM cache_entries WHERE key = ?`, key,
	).Scan(&value, &storedAt, &ttlMillis)
	if err != nil {
		if err != sql.ErrNoRows {
			s.log.WithError(err).WithField("cache_key", key).Warn("cache read failed")
		}
		s.misses.Add(1)
		return nil, false
	}

	if nowFunc().UnixMilli()-storedAt >= ttlMillis {
		if _, err := s.db.Exec(`DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
			s.log.WithError(err).WithField("cache_key", key).Warn("evicting expired entry failed")
		}
		s.misses.Add(1)
		return nil, false
	}

	s.hits.Add(1)
	return value, true
}

// Set stores value under key with the given TTL, overwriting any prior entry.
// It reports success; a store failure is logged, never returned as an error.
func (s *Store) Set(key string, value []byte, ttlSeconds int) bool {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO cache_entries (key, value, stored_at, ttl_millis, origin)
		 VALUES (?, ?, ?, ?, ?)`,
		key, value, nowFunc().UnixMilli(), int64(ttlSeconds)*1000, OriginLive,
	)
	if err != nil {
		s.log.WithError(err).WithField("cache_key", key).Warn("cache write failed")
		return false
	}
	return true
}

// GetOrSet is the read-through path. On a hit it returns the cached payload
// with cached=true and origin "cache". On a miss it invokes producer, stores a
// non-nil result under the given TTL, and returns it with cached=false and
// origin "live". A failed write degrades to origin "bypass": the fresh value
// is still returned. The producer's error is the only error path.
func (s *Store) GetOrSet(ctx context.Context, key string, ttlSeconds int, producer func(context.Context) ([]byte, error)) (data []byte, cached bool, origin string, err error) {
	if value, ok := s.Get(key); ok {
		return value, true, OriginCache, nil
	}

	value, err := producer(ctx)
	if err != nil {
		return nil, false, OriginLive, err
	}
	if value == nil {
		return nil, false, OriginLive, nil
	}

	if !s.Set(key, value, ttlSeconds) {
		return value, false, OriginBypass, nil
	}
	return value, false, OriginLive, nil
}

// DeleteKey removes a single entry.
func (s *Store) DeleteKey(key string) error {
	if _, err := s.db.Exec(`DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}
	return nil
}

// DeleteByPattern removes every entry whose key matches the glob pattern
// (e.g. "flights:*").
func (s *Store) DeleteByPattern(pattern string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM cache_entries WHERE key GLOB ?`, pattern)
	if err != nil {
		return 0, fmt.Errorf("deleting pattern %q: %w", pattern, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ClearExpired removes every expired entry and returns the count. The removal
// criterion is identical to the lazy-eviction predicate used by Get.
func (s *Store) ClearExpired() (int64, error) {
	res, err := s.db.Exec(
		`DELETE FROM cache_entries WHERE ? - stored_at >= ttl_millis`,
		nowFunc().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("clearing expired entries: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Stats returns entry count and hit/miss counters for this process.
func (s *Store) Stats() (Stats, error) {
	var count int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM cache_entries`).Scan(&count); err != nil {
		return Stats{}, fmt.Errorf("counting entries: %w", err)
	}
	return Stats{Entries: count, Hits: s.hits.Load(), Misses: s.misses.Load()}, nil
}

// Key builds a deterministic cache key from a namespace and a parameter map.
// Parameter keys are sorted before concatenation so semantically identical
// requests collide to the same key regardless of field order.
func Key(namespace string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(namespace)
	b.WriteByte(':')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}
