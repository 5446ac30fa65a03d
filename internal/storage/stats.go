package storage

import (
	"fmt"
	"log"
)

// statKeys are the keys used in the stats table.
const (
	statTotalQueries    = "total_queries"
	statCacheHits       = "cache_hits"
	statPatternsLearned = "patterns_learned"
	statAvgResponseTime = "avg_response_time"
)

// LoadStats retrieves the aggregate statistics.
// Missing keys default to zero.
func (s *SQLiteStorage) LoadStats() (Stats, error) {
	var stats Stats

	if !s.enabled || s.db == nil {
		return stats, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT key, value FROM stats")
	if err != nil {
		return stats, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value float64

		if err := rows.Scan(&key, &value); err != nil {
			log.Printf("Warning: failed to scan stats row: %v", err)
			continue
		}

		switch key {
		case statTotalQueries:
			stats.TotalQueries = int(value)
		case statCacheHits:
			stats.CacheHits = int(value)
		case statPatternsLearned:
			stats.PatternsLearned = int(value)
		case statAvgResponseTime:
			stats.AvgResponseTime = value
		}
	}

	return stats, rows.Err()
}

// SaveStats persists the aggregate statistics.
func (s *SQLiteStorage) SaveStats(stats Stats) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values := map[string]float64{
		statTotalQueries:    float64(stats.TotalQueries),
		statCacheHits:       float64(stats.CacheHits),
		statPatternsLearned: float64(stats.PatternsLearned),
		statAvgResponseTime: stats.AvgResponseTime,
	}

	query := `
		INSERT INTO stats (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`

	for key, value := range values {
		if _, err := s.db.Exec(query, key, value); err != nil {
			return fmt.Errorf("failed to save stat %s: %w", key, err)
		}
	}

	return nil
}
