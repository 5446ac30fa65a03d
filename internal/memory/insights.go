package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/khanglvm/deepthink/internal/storage"
)

// maxBestCombinations is how many top category/method pairs are reported.
const maxBestCombinations = 3

// ComboStat describes how one category/method combination has performed.
type ComboStat struct {
	// Category is the query category.
	Category string `json:"category"`

	// Method is the research method.
	Method string `json:"method"`

	// Successes is the number of successful outcomes.
	Successes int `json:"successes"`

	// AvgTimeMS is the average response time in milliseconds.
	AvgTimeMS float64 `json:"avg_time_ms"`
}

// Insights summarizes what the memory layer has learned so far.
type Insights struct {
	// TotalRecords is the number of query records in history.
	TotalRecords int `json:"total_records"`

	// PatternsLearned is the number of patterns past the learning threshold.
	PatternsLearned int `json:"patterns_learned"`

	// CacheHitRate is cache hits / total queries (0 when no queries).
	CacheHitRate float64 `json:"cache_hit_rate"`

	// AvgResponseTime is the running average response time in seconds.
	AvgResponseTime float64 `json:"avg_response_time"`

	// QueryTypes counts records per category.
	QueryTypes map[string]int `json:"query_types"`

	// MethodPreferences counts successful records per method.
	MethodPreferences map[string]int `json:"method_preferences"`

	// BestCombinations lists the top category/method pairs by successes.
	BestCombinations []ComboStat `json:"best_combinations"`
}

// BuildInsights computes an insight report from the full query history
// and the aggregate statistics.
func BuildInsights(store storage.Storage, stats storage.Stats) (*Insights, error) {
	records, err := store.QueryHistory(time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to load query history: %w", err)
	}

	insights := &Insights{
		TotalRecords:      len(records),
		PatternsLearned:   stats.PatternsLearned,
		AvgResponseTime:   stats.AvgResponseTime,
		QueryTypes:        make(map[string]int),
		MethodPreferences: make(map[string]int),
	}

	if stats.TotalQueries > 0 {
		insights.CacheHitRate = float64(stats.CacheHits) / float64(stats.TotalQueries)
	}

	type comboKey struct {
		category string
		method   string
	}
	type comboAgg struct {
		successes int
		totalMS   int
	}
	combos := make(map[comboKey]*comboAgg)

	for _, record := range records {
		insights.QueryTypes[record.Category]++

		if !record.Success {
			continue
		}

		insights.MethodPreferences[record.Method]++

		key := comboKey{record.Category, record.Method}
		agg := combos[key]
		if agg == nil {
			agg = &comboAgg{}
			combos[key] = agg
		}
		agg.successes++
		agg.totalMS += record.ResponseTimeMS
	}

	for key, agg := range combos {
		insights.BestCombinations = append(insights.BestCombinations, ComboStat{
			Category:  key.category,
			Method:    key.method,
			Successes: agg.successes,
			AvgTimeMS: float64(agg.totalMS) / float64(agg.successes),
		})
	}

	sort.Slice(insights.BestCombinations, func(i, j int) bool {
		a, b := insights.BestCombinations[i], insights.BestCombinations[j]
		if a.Successes != b.Successes {
			return a.Successes > b.Successes
		}
		return a.Category < b.Category
	})

	if len(insights.BestCombinations) > maxBestCombinations {
		insights.BestCombinations = insights.BestCombinations[:maxBestCombinations]
	}

	return insights, nil
}
