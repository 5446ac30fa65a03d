package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/khanglvm/deepthink/internal/storage"
)

// mockStorage is an in-memory Storage implementation for tests.
type mockStorage struct {
	mu       sync.Mutex
	patterns map[string]storage.PatternEntry
	records  []storage.QueryRecord
	stats    storage.Stats
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		patterns: make(map[string]storage.PatternEntry),
	}
}

func (m *mockStorage) Init() error { return nil }

func (m *mockStorage) SavePattern(entry storage.PatternEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns[entry.Category+"/"+entry.Method] = entry
	return nil
}

func (m *mockStorage) LoadPatterns() ([]storage.PatternEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := make([]storage.PatternEntry, 0, len(m.patterns))
	for _, entry := range m.patterns {
		entries = append(entries, entry)
	}
	return entries, nil
}

func (m *mockStorage) RecordQuery(record storage.QueryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *mockStorage) QueryHistory(since time.Time) ([]storage.QueryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var records []storage.QueryRecord
	for _, record := range m.records {
		if !record.Timestamp.Before(since) {
			records = append(records, record)
		}
	}
	return records, nil
}

func (m *mockStorage) LoadStats() (storage.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats, nil
}

func (m *mockStorage) SaveStats(stats storage.Stats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = stats
	return nil
}

func (m *mockStorage) Cleanup(retention time.Duration) error { return nil }
func (m *mockStorage) Reset() error                          { return nil }
func (m *mockStorage) Close() error                          { return nil }

func (m *mockStorage) recordCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// failingStorage returns errors from every write operation.
type failingStorage struct {
	mockStorage
}

func (f *failingStorage) SavePattern(entry storage.PatternEntry) error {
	return fmt.Errorf("disk full")
}

func (f *failingStorage) SaveStats(stats storage.Stats) error {
	return fmt.Errorf("disk full")
}
