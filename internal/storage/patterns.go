package storage

import (
	"fmt"
	"log"
	"time"
)

// SavePattern inserts or updates a pattern entry.
//
// A write failure is returned to the caller so the in-memory pattern table
// can keep operating with a logged warning instead of crashing.
func (s *SQLiteStorage) SavePattern(entry PatternEntry) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO patterns (category, method, success_count, failure_count, confidence, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(category, method) DO UPDATE SET
			success_count = excluded.success_count,
			failure_count = excluded.failure_count,
			confidence = excluded.confidence,
			updated_at = excluded.updated_at
	`

	_, err := s.db.Exec(query,
		entry.Category,
		entry.Method,
		entry.SuccessCount,
		entry.FailureCount,
		entry.Confidence,
		entry.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save pattern %s/%s: %w", entry.Category, entry.Method, err)
	}

	return nil
}

// LoadPatterns retrieves all pattern entries.
func (s *SQLiteStorage) LoadPatterns() ([]PatternEntry, error) {
	if !s.enabled || s.db == nil {
		return []PatternEntry{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		SELECT category, method, success_count, failure_count, confidence, updated_at
		FROM patterns
		ORDER BY category, method
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer rows.Close()

	var entries []PatternEntry
	for rows.Next() {
		var entry PatternEntry
		var updatedAtStr string

		if err := rows.Scan(
			&entry.Category,
			&entry.Method,
			&entry.SuccessCount,
			&entry.FailureCount,
			&entry.Confidence,
			&updatedAtStr,
		); err != nil {
			log.Printf("Warning: failed to scan pattern row: %v", err)
			continue
		}

		entry.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
		if err != nil {
			log.Printf("Warning: failed to parse pattern timestamp: %v", err)
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
