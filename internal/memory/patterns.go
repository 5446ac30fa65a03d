package memory

import (
	"log"
	"sync"

	"github.com/khanglvm/deepthink/internal/storage"
)

const (
	// defaultConfidenceThreshold is the minimum confidence required before
	// a method suggestion is emitted.
	defaultConfidenceThreshold = 0.6

	// defaultMinSuccesses is the minimum number of confirming successes
	// before a pattern counts as learned.
	defaultMinSuccesses = 3
)

// Options configures a PatternTable.
type Options struct {
	// ConfidenceThreshold overrides the suggestion threshold (default 0.6).
	ConfidenceThreshold float64

	// MinSuccesses overrides the learning minimum (default 3).
	MinSuccesses int
}

// PatternTable is the in-memory table of learned category/method patterns,
// backed by durable storage.
//
// The table is loaded once at construction and flushed after every recorded
// outcome. A durable write failure is logged and reported, but the in-memory
// table stays usable for the rest of the session.
type PatternTable struct {
	store storage.Storage
	mu    sync.Mutex

	// entries maps category -> method -> pattern entry.
	entries map[Category]map[string]*storage.PatternEntry

	stats     storage.Stats
	threshold float64
	minSucc   int
}

// NewPatternTable creates a pattern table loaded from durable storage.
func NewPatternTable(store storage.Storage, opts Options) *PatternTable {
	if opts.ConfidenceThreshold <= 0 {
		opts.ConfidenceThreshold = defaultConfidenceThreshold
	}
	if opts.MinSuccesses <= 0 {
		opts.MinSuccesses = defaultMinSuccesses
	}

	t := &PatternTable{
		store:     store,
		entries:   make(map[Category]map[string]*storage.PatternEntry),
		threshold: opts.ConfidenceThreshold,
		minSucc:   opts.MinSuccesses,
	}

	entries, err := store.LoadPatterns()
	if err != nil {
		log.Printf("Warning: failed to load patterns, starting empty: %v", err)
	}
	for i := range entries {
		entry := entries[i]
		category := Category(entry.Category)
		if t.entries[category] == nil {
			t.entries[category] = make(map[string]*storage.PatternEntry)
		}
		t.entries[category][entry.Method] = &entry
	}

	stats, err := store.LoadStats()
	if err != nil {
		log.Printf("Warning: failed to load stats, starting empty: %v", err)
	}
	t.stats = stats

	return t
}

// SuggestMethod returns the learned method for a category, with its
// confidence, if the pattern is strong enough.
//
// A suggestion is emitted when the winning method's confidence (its share
// of the category's successes) exceeds the threshold. Otherwise ok is
// false and the caller should fall back to a default method.
func (t *PatternTable) SuggestMethod(category Category) (method string, confidence float64, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	methods := t.entries[category]
	if len(methods) == 0 {
		return "", 0, false
	}

	totalSuccesses := 0
	var best *storage.PatternEntry
	for _, entry := range methods {
		totalSuccesses += entry.SuccessCount
		if best == nil || entry.SuccessCount > best.SuccessCount {
			best = entry
		}
	}

	if best == nil || totalSuccesses == 0 {
		return "", 0, false
	}

	confidence = float64(best.SuccessCount) / float64(totalSuccesses)
	if confidence <= t.threshold {
		return "", 0, false
	}

	return best.Method, confidence, true
}

// RecordOutcome updates the pattern table with a query outcome and flushes
// the affected entries and statistics to durable storage.
//
// The in-memory update and durable write happen under one lock so
// concurrent callers cannot lose updates. A storage failure is returned
// to the caller but leaves the in-memory table updated and usable.
func (t *PatternTable) RecordOutcome(outcome Outcome) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	category := outcome.Category
	if t.entries[category] == nil {
		t.entries[category] = make(map[string]*storage.PatternEntry)
	}

	entry := t.entries[category][outcome.Method]
	if entry == nil {
		entry = &storage.PatternEntry{
			Category: string(category),
			Method:   outcome.Method,
		}
		t.entries[category][outcome.Method] = entry
	}

	wasLearned := entry.SuccessCount >= t.minSucc

	if outcome.Success {
		entry.SuccessCount++
	} else {
		entry.FailureCount++
	}
	entry.UpdatedAt = outcome.Timestamp

	t.recomputeConfidence(category)

	// Update running statistics
	t.stats.TotalQueries++
	elapsed := outcome.ResponseTime.Seconds()
	if t.stats.AvgResponseTime == 0 {
		t.stats.AvgResponseTime = elapsed
	} else {
		n := float64(t.stats.TotalQueries)
		t.stats.AvgResponseTime = (t.stats.AvgResponseTime*(n-1) + elapsed) / n
	}

	if outcome.Success && !wasLearned && entry.SuccessCount >= t.minSucc {
		t.stats.PatternsLearned++
		log.Printf("Pattern learned: %s -> %s (confidence: %.0f%%)",
			category, outcome.Method, entry.Confidence*100)
	}

	return t.flushCategory(category)
}

// RecordCacheHit bumps the cache hit counter.
func (t *PatternTable) RecordCacheHit() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.CacheHits++
	if err := t.store.SaveStats(t.stats); err != nil {
		log.Printf("Warning: failed to save stats: %v", err)
	}
}

// Stats returns a copy of the aggregate statistics.
func (t *PatternTable) Stats() storage.Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Entries returns a copy of all pattern entries.
func (t *PatternTable) Entries() []storage.PatternEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	var entries []storage.PatternEntry
	for _, methods := range t.entries {
		for _, entry := range methods {
			entries = append(entries, *entry)
		}
	}
	return entries
}

// recomputeConfidence updates the confidence of every method entry within
// a category. Confidence is the method's share of the category's successes,
// so it stays non-decreasing while successes keep confirming one method.
// Callers must hold the lock.
func (t *PatternTable) recomputeConfidence(category Category) {
	totalSuccesses := 0
	for _, entry := range t.entries[category] {
		totalSuccesses += entry.SuccessCount
	}

	for _, entry := range t.entries[category] {
		if totalSuccesses == 0 {
			entry.Confidence = 0
			continue
		}
		entry.Confidence = float64(entry.SuccessCount) / float64(totalSuccesses)
	}
}

// flushCategory persists every entry in a category plus the statistics.
// Callers must hold the lock.
func (t *PatternTable) flushCategory(category Category) error {
	var firstErr error

	for _, entry := range t.entries[category] {
		if err := t.store.SavePattern(*entry); err != nil {
			log.Printf("Warning: failed to persist pattern %s/%s: %v",
				entry.Category, entry.Method, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if err := t.store.SaveStats(t.stats); err != nil {
		log.Printf("Warning: failed to persist stats: %v", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
