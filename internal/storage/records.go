package storage

import (
	"fmt"
	"log"
	"time"
)

// RecordQuery appends a query record to the history.
func (s *SQLiteStorage) RecordQuery(record QueryRecord) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	success := 0
	if record.Success {
		success = 1
	}

	query := `
		INSERT INTO query_records (id, query_hash, query_text, category, method, success, response_time_ms, citations_count, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		record.ID,
		record.QueryHash,
		record.QueryText,
		record.Category,
		record.Method,
		success,
		record.ResponseTimeMS,
		record.CitationsCount,
		record.Timestamp.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record query: %w", err)
	}

	return nil
}

// QueryHistory retrieves query records since a given time, newest first.
func (s *SQLiteStorage) QueryHistory(since time.Time) ([]QueryRecord, error) {
	if !s.enabled || s.db == nil {
		return []QueryRecord{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		SELECT id, query_hash, query_text, category, method, success, response_time_ms, citations_count, timestamp
		FROM query_records
		WHERE timestamp >= ?
		ORDER BY timestamp DESC
	`

	rows, err := s.db.Query(query, since.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []QueryRecord
	for rows.Next() {
		var record QueryRecord
		var timestampStr string
		var success int

		if err := rows.Scan(
			&record.ID,
			&record.QueryHash,
			&record.QueryText,
			&record.Category,
			&record.Method,
			&success,
			&record.ResponseTimeMS,
			&record.CitationsCount,
			&timestampStr,
		); err != nil {
			log.Printf("Warning: failed to scan query record: %v", err)
			continue
		}

		record.Success = success == 1

		record.Timestamp, err = time.Parse(time.RFC3339, timestampStr)
		if err != nil {
			log.Printf("Warning: failed to parse record timestamp: %v", err)
			continue
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

// Cleanup removes query records older than the retention period.
func (s *SQLiteStorage) Cleanup(retention time.Duration) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-retention).Format(time.RFC3339)

	result, err := s.db.Exec("DELETE FROM query_records WHERE timestamp < ?", cutoff)
	if err != nil {
		return fmt.Errorf("failed to clean up query records: %w", err)
	}

	if deleted, err := result.RowsAffected(); err == nil && deleted > 0 {
		log.Printf("Cleaned up %d old query records", deleted)
	}

	return nil
}
