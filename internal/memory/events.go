package memory

import (
	"time"

	"github.com/google/uuid"

	"github.com/khanglvm/deepthink/internal/storage"
)

// Outcome represents a completed research query for learning.
type Outcome struct {
	// Query is the original query text.
	Query string

	// Category is the classified query category.
	Category Category

	// Method is the research method that handled the query.
	Method string

	// Success indicates whether the research completed successfully.
	Success bool

	// ResponseTime is how long the research took.
	ResponseTime time.Duration

	// Citations is the number of citations in the result.
	Citations int

	// Timestamp is when the query was processed.
	Timestamp time.Time
}

// NewOutcome creates an outcome for the given query, classified and
// timestamped now.
func NewOutcome(query, method string, success bool, elapsed time.Duration, citations int) Outcome {
	return Outcome{
		Query:        query,
		Category:     Classify(query),
		Method:       method,
		Success:      success,
		ResponseTime: elapsed,
		Citations:    citations,
		Timestamp:    time.Now(),
	}
}

// ToRecord converts the outcome to a storage query record with a fresh ID.
func (o Outcome) ToRecord() storage.QueryRecord {
	return storage.QueryRecord{
		ID:             uuid.New().String(),
		QueryHash:      storage.HashQuery(o.Query),
		QueryText:      o.Query,
		Category:       string(o.Category),
		Method:         o.Method,
		Success:        o.Success,
		ResponseTimeMS: int(o.ResponseTime.Milliseconds()),
		CitationsCount: o.Citations,
		Timestamp:      o.Timestamp,
	}
}
