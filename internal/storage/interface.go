/*
Package storage implements the persistent storage layer for the research
memory system.

This package provides SQLite-based storage for learned routing patterns,
query history, and aggregate statistics, with graceful degradation if the
database is unavailable.

The database is stored at ~/.deepthink/memory.db and uses modernc.org/sqlite
(a pure Go, CGo-free implementation).
*/
package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Storage defines the interface for persistent storage operations.
type Storage interface {
	// Init initializes the database and runs migrations.
	Init() error

	// SavePattern inserts or updates a pattern entry.
	SavePattern(entry PatternEntry) error

	// LoadPatterns retrieves all pattern entries.
	LoadPatterns() ([]PatternEntry, error)

	// RecordQuery appends a query record to the history.
	RecordQuery(record QueryRecord) error

	// QueryHistory retrieves query records since a given time, newest first.
	QueryHistory(since time.Time) ([]QueryRecord, error)

	// LoadStats retrieves the aggregate statistics.
	LoadStats() (Stats, error)

	// SaveStats persists the aggregate statistics.
	SaveStats(stats Stats) error

	// Cleanup removes query records older than the retention period.
	Cleanup(retention time.Duration) error

	// Reset deletes all patterns, records, and statistics.
	Reset() error

	// Close closes the database connection.
	Close() error
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	enabled  bool
	mu       sync.Mutex
	initOnce sync.Once
}

// NewStorage creates a new SQLite storage instance.
//
// The database is created at ~/.deepthink/memory.db. If the directory
// doesn't exist, it will be created. If the database cannot be opened,
// the storage is disabled but operations will not fail.
func NewStorage() *SQLiteStorage {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: failed to get home directory: %v", err)
		return &SQLiteStorage{enabled: false}
	}

	return NewStorageAt(filepath.Join(home, ".deepthink", "memory.db"))
}

// NewStorageAt creates a SQLite storage instance at a specific path.
func NewStorageAt(dbPath string) *SQLiteStorage {
	return &SQLiteStorage{
		dbPath:  dbPath,
		enabled: true,
	}
}

// Init initializes the database and runs migrations.
//
// If initialization fails, storage is disabled and subsequent operations
// become no-ops (graceful degradation).
func (s *SQLiteStorage) Init() error {
	if !s.enabled {
		return nil
	}

	var initErr error
	s.initOnce.Do(func() {
		// Ensure directory exists
		dbDir := filepath.Dir(s.dbPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create db directory: %w", err)
			s.enabled = false
			return
		}

		// Open database
		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}
		s.db = db

		// Test connection
		if err := db.Ping(); err != nil {
			initErr = fmt.Errorf("failed to ping database: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}

		// Run migrations
		if err := s.runMigrations(); err != nil {
			initErr = fmt.Errorf("failed to run migrations: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}
	})

	return initErr
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.db = nil
	return nil
}

// Reset deletes all patterns, records, and statistics.
func (s *SQLiteStorage) Reset() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"patterns", "query_records", "stats"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	return nil
}

// HashQuery creates a SHA256 hash of a normalized query string.
// Normalization lowercases the text and collapses interior whitespace so
// trivially reworded duplicates map to the same hash.
func HashQuery(query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}
