/*
Package cache implements the volatile result cache for research queries.

The cache has two tiers: a hot in-memory tier (ristretto) and a durable file
tier with one JSON file per query fingerprint. Lookups check the hot tier
first and fall back to disk, promoting disk hits back into memory. Entries
are valid for a fixed TTL; a miss is a normal outcome.

The cache directory can be cleared at any time without affecting learned
pattern data.
*/
package cache

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/ristretto"
)

const (
	// DefaultTTL is how long a cached result stays valid.
	DefaultTTL = time.Hour

	// DefaultPruneAge is how old a file-tier entry must be before Prune
	// removes it.
	DefaultPruneAge = 24 * time.Hour

	// hotTierMaxCost bounds the in-memory tier to ~64 MB of payloads.
	hotTierMaxCost = 64 << 20

	// hotTierCounters sizes ristretto's admission counters.
	hotTierCounters = 100_000
)

// Entry is a cached research result with its insertion time.
type Entry struct {
	// Query is the original query text.
	Query string `json:"query"`

	// Result is the serialized result payload.
	Result json.RawMessage `json:"result"`

	// InsertedAt is when the entry was stored.
	InsertedAt time.Time `json:"inserted_at"`
}

// Cache is the two-tier result cache.
type Cache struct {
	hot *ristretto.Cache
	dir string
	ttl time.Duration
}

// New creates a cache with its file tier rooted at dir.
// A ttl of zero selects DefaultTTL.
func New(dir string, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	hot, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: hotTierCounters,
		MaxCost:     hotTierMaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory cache: %w", err)
	}

	return &Cache{
		hot: hot,
		dir: dir,
		ttl: ttl,
	}, nil
}

// Store caches a result for a query, write-through to both tiers.
func (c *Cache) Store(query string, result interface{}) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal cached result: %w", err)
	}

	entry := Entry{
		Query:      query,
		Result:     payload,
		InsertedAt: time.Now(),
	}

	key := Fingerprint(query)

	c.hot.SetWithTTL(key, entry, int64(len(payload)), c.ttl)

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := os.WriteFile(c.entryPath(key), data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// Lookup retrieves a fresh cached result for a query into out.
// It returns false on a miss or an expired entry; both are normal outcomes.
func (c *Cache) Lookup(query string, out interface{}) (bool, error) {
	key := Fingerprint(query)

	// Hot tier first
	if value, found := c.hot.Get(key); found {
		if entry, ok := value.(Entry); ok && c.fresh(entry) {
			if err := json.Unmarshal(entry.Result, out); err != nil {
				return false, fmt.Errorf("failed to unmarshal cached result: %w", err)
			}
			return true, nil
		}
	}

	// File tier
	data, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Printf("Warning: discarding corrupt cache entry %s: %v", key, err)
		os.Remove(c.entryPath(key))
		return false, nil
	}

	if !c.fresh(entry) {
		return false, nil
	}

	// Promote disk hit back into the hot tier
	c.hot.SetWithTTL(key, entry, int64(len(entry.Result)), c.ttl)

	if err := json.Unmarshal(entry.Result, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}

	return true, nil
}

// Prune removes file-tier entries older than maxAge and returns how many
// were removed. A maxAge of zero selects DefaultPruneAge.
func (c *Cache) Prune(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = DefaultPruneAge
	}

	files, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return 0, fmt.Errorf("failed to list cache files: %w", err)
	}

	pruned := 0
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			log.Printf("Warning: failed to read cache file %s: %v", file, err)
			continue
		}

		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			// Corrupt entries count as prunable
			os.Remove(file)
			pruned++
			continue
		}

		if time.Since(entry.InsertedAt) > maxAge {
			if err := os.Remove(file); err != nil {
				log.Printf("Warning: failed to remove cache file %s: %v", file, err)
				continue
			}
			pruned++
		}
	}

	return pruned, nil
}

// Clear removes every entry from both tiers.
func (c *Cache) Clear() error {
	c.hot.Clear()

	files, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to list cache files: %w", err)
	}

	for _, file := range files {
		if err := os.Remove(file); err != nil {
			return fmt.Errorf("failed to remove cache file: %w", err)
		}
	}

	return nil
}

// Len returns the number of entries in the file tier.
func (c *Cache) Len() int {
	files, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return 0
	}
	return len(files)
}

// Close releases the in-memory tier.
func (c *Cache) Close() {
	c.hot.Close()
}

// fresh reports whether an entry is still within its TTL.
func (c *Cache) fresh(entry Entry) bool {
	return time.Since(entry.InsertedAt) < c.ttl
}

// entryPath returns the file-tier path for a fingerprint.
func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}
