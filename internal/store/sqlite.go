// Package store provides the persistent key-value cache for repository
// results, plus the handful of singleton settings the dashboard keeps
// (bearer token, last repository list, analytics consent).
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vilaca/issues-dashboard/internal/domain"
	_ "modernc.org/sqlite"
)

// Key layout. Cache entries live under cachePrefix, one per
// (repository, state-filter) pair; settings each use a fixed key.
const (
	cachePrefix = "issues-dashboard:cache:"
	tokenKey    = "issues-dashboard:token"
	repoListKey = "issues-dashboard:repos"
	consentKey  = "issues-dashboard:consent"
)

// Logger interface for logging operations (Interface Segregation Principle).
type Logger interface {
	Printf(format string, v ...interface{})
}

// cacheRecord is the stored envelope: the raw result plus its capture
// timestamp in epoch milliseconds.
type cacheRecord struct {
	Data      domain.RepoResult `json:"data"`
	Timestamp int64             `json:"timestamp"`
}

// SQLiteStore is a TTL cache over a local SQLite database.
// Expiry is lazy: entries are checked and deleted on read, never swept.
// Storage failures never break the fetch path - reads degrade to misses
// and writes to no-ops.
type SQLiteStore struct {
	db     *sql.DB
	ttl    time.Duration
	logger Logger
	now    func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and
// bootstraps the schema. Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string, ttl time.Duration, logger Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One connection: SQLite serializes writes anyway, and a ":memory:"
	// database exists per connection.
	db.SetMaxOpenConns(1)

	// WAL mode for better concurrency between dashboard requests.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec PRAGMA journal_mode=WAL: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// TTL returns the configured time-to-live for cache entries.
func (s *SQLiteStore) TTL() time.Duration {
	return s.ttl
}

// cacheKey builds the composite key for a (repository, state-filter) pair.
// The repository identifier is kept verbatim, including its "/".
func cacheKey(repo string, openOnly bool) string {
	return cachePrefix + repo + ":" + domain.StateFilter(openOnly)
}

// Get returns the cached result and its capture time for a repository and
// state filter. Absent, malformed or expired entries report a miss; an
// expired entry is deleted on this read. Fresh means age < TTL, strictly.
func (s *SQLiteStore) Get(repo string, openOnly bool) (domain.RepoResult, time.Time, bool) {
	key := cacheKey(repo, openOnly)

	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return domain.RepoResult{}, time.Time{}, false
	}
	if err != nil {
		s.logger.Printf("Cache: read failed for %s: %v", key, err)
		return domain.RepoResult{}, time.Time{}, false
	}

	var record cacheRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		s.logger.Printf("Cache: malformed entry for %s, treating as miss", key)
		return domain.RepoResult{}, time.Time{}, false
	}

	capturedAt := time.UnixMilli(record.Timestamp)
	if s.now().Sub(capturedAt) >= s.ttl {
		if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
			s.logger.Printf("Cache: failed to delete expired entry %s: %v", key, err)
		}
		return domain.RepoResult{}, time.Time{}, false
	}

	return record.Data, capturedAt, true
}

// Put stores a result under the composite key, overwriting any previous
// entry. Write failures are logged and swallowed - caching failures must
// never break the primary fetch path.
func (s *SQLiteStore) Put(repo string, openOnly bool, result domain.RepoResult) {
	key := cacheKey(repo, openOnly)

	record := cacheRecord{Data: result, Timestamp: s.now().UnixMilli()}
	value, err := json.Marshal(record)
	if err != nil {
		s.logger.Printf("Cache: failed to marshal entry for %s: %v", key, err)
		return
	}

	_, err = s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, string(value))
	if err != nil {
		s.logger.Printf("Cache: write failed for %s: %v", key, err)
	}
}

// DeleteAll removes cache entries. With repository identifiers given, only
// entries for those repositories are removed (both state filters); with
// none, every entry under the cache prefix goes. Settings keys are never
// touched. Returns the number of entries deleted.
func (s *SQLiteStore) DeleteAll(repos ...string) int {
	deleted := 0

	if len(repos) == 0 {
		res, err := s.db.Exec(`DELETE FROM kv WHERE key LIKE ?`, cachePrefix+"%")
		if err != nil {
			s.logger.Printf("Cache: purge failed: %v", err)
			return 0
		}
		n, _ := res.RowsAffected()
		return int(n)
	}

	for _, repo := range repos {
		for _, openOnly := range []bool{true, false} {
			res, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, cacheKey(repo, openOnly))
			if err != nil {
				s.logger.Printf("Cache: delete failed for %s: %v", repo, err)
				continue
			}
			n, _ := res.RowsAffected()
			deleted += int(n)
		}
	}

	return deleted
}

// Enumerate reports every cache entry with its age and remaining TTL,
// sorted by key for stable output. Read-only: expired entries are reported
// as such, not deleted.
func (s *SQLiteStore) Enumerate() []domain.CacheStatus {
	rows, err := s.db.Query(`SELECT key, value FROM kv WHERE key LIKE ?`, cachePrefix+"%")
	if err != nil {
		s.logger.Printf("Cache: enumerate failed: %v", err)
		return nil
	}
	defer rows.Close()

	now := s.now()
	var statuses []domain.CacheStatus
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			continue
		}

		repo, filter, ok := splitCacheKey(key)
		if !ok {
			continue
		}

		var record cacheRecord
		if err := json.Unmarshal([]byte(value), &record); err != nil {
			continue
		}

		age := now.Sub(time.UnixMilli(record.Timestamp))
		remaining := s.ttl - age
		if remaining < 0 {
			remaining = 0
		}

		statuses = append(statuses, domain.CacheStatus{
			Repository:   repo,
			StateFilter:  filter,
			Age:          age,
			RemainingTTL: remaining,
			Expired:      age >= s.ttl,
		})
	}

	sort.Slice(statuses, func(i, j int) bool {
		if statuses[i].Repository != statuses[j].Repository {
			return statuses[i].Repository < statuses[j].Repository
		}
		return statuses[i].StateFilter < statuses[j].StateFilter
	})

	return statuses
}

// splitCacheKey recovers (repository, state filter) from a cache key.
// The filter is everything after the last ":"; the repository may itself
// contain "/" but never ":".
func splitCacheKey(key string) (repo, filter string, ok bool) {
	rest := strings.TrimPrefix(key, cachePrefix)
	idx := strings.LastIndex(rest, ":")
	if idx <= 0 || idx == len(rest)-1 {
		return "", "", false
	}
	return rest[:idx], rest[idx+1:], true
}
