/*
Package storage provides data models for the research memory system.

These models represent learned routing patterns, individual query outcomes,
and aggregate statistics persisted between sessions.
*/
package storage

import "time"

// PatternEntry represents the learned outcome counts for one
// category/method combination.
type PatternEntry struct {
	// Category is the classified query category (e.g. "technical_implementation").
	Category string `json:"category"`

	// Method is the research method used for queries of this category.
	Method string `json:"method"`

	// SuccessCount is the number of successful outcomes recorded.
	SuccessCount int `json:"success_count"`

	// FailureCount is the number of failed outcomes recorded.
	FailureCount int `json:"failure_count"`

	// Confidence is the share of the category's successes held by this method.
	Confidence float64 `json:"confidence"`

	// UpdatedAt is when this entry was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// QueryRecord represents a single research query and its outcome.
type QueryRecord struct {
	// ID is a unique identifier for this query (UUID).
	ID string `json:"id"`

	// QueryHash is the SHA256 hash of the normalized query text.
	QueryHash string `json:"query_hash"`

	// QueryText is the original query text.
	QueryText string `json:"query_text"`

	// Category is the classified query category.
	Category string `json:"category"`

	// Method is the research method that handled the query.
	Method string `json:"method"`

	// Success indicates whether the research completed successfully.
	Success bool `json:"success"`

	// ResponseTimeMS is how long the research took, in milliseconds.
	ResponseTimeMS int `json:"response_time_ms"`

	// CitationsCount is the number of citations in the result.
	CitationsCount int `json:"citations_count"`

	// Timestamp is when the query was processed.
	Timestamp time.Time `json:"timestamp"`
}

// Stats holds aggregate counters maintained across sessions.
type Stats struct {
	// TotalQueries is the number of queries processed.
	TotalQueries int `json:"total_queries"`

	// CacheHits is the number of queries served from the result cache.
	CacheHits int `json:"cache_hits"`

	// PatternsLearned is the number of category/method pairs that crossed
	// the learning threshold.
	PatternsLearned int `json:"patterns_learned"`

	// AvgResponseTime is the running average response time in seconds.
	AvgResponseTime float64 `json:"avg_response_time"`
}
