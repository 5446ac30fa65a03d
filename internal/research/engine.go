package research

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/khanglvm/deepthink/internal/cache"
	"github.com/khanglvm/deepthink/internal/memory"
)

// Engine routes research queries through the memory layer.
//
// For each query the engine checks the result cache, picks a method
// (explicit override, then learned suggestion, then default), invokes the
// matching runner, records the outcome for learning, and caches successful
// results.
type Engine struct {
	patterns *memory.PatternTable
	cache    *cache.Cache
	tracker  *memory.Tracker
	runners  map[string]Runner
	fallback string
}

// NewEngine creates a research engine. defaultMethod is used when no
// pattern suggestion is available; empty selects DefaultMethod.
func NewEngine(patterns *memory.PatternTable, resultCache *cache.Cache, tracker *memory.Tracker, defaultMethod string) *Engine {
	if defaultMethod == "" {
		defaultMethod = DefaultMethod
	}

	return &Engine{
		patterns: patterns,
		cache:    resultCache,
		tracker:  tracker,
		runners:  make(map[string]Runner),
		fallback: defaultMethod,
	}
}

// Register adds a method runner to the engine.
func (e *Engine) Register(runner Runner) {
	e.runners[runner.Method()] = runner
}

// Research processes a query end to end.
//
// methodOverride forces a specific method; when empty, the engine asks the
// pattern table for a suggestion and otherwise uses the default. Research
// failures are recorded as failed outcomes before being returned.
func (e *Engine) Research(ctx context.Context, query, methodOverride string) (*Result, error) {
	start := time.Now()

	// Cache first: a fresh prior result short-circuits everything.
	var cached Result
	hit, err := e.cache.Lookup(query, &cached)
	if err != nil {
		log.Printf("Warning: cache lookup failed: %v", err)
	}
	if hit {
		e.patterns.RecordCacheHit()
		cached.FromCache = true
		return &cached, nil
	}

	category := memory.Classify(query)

	method := methodOverride
	suggested := false
	if method == "" {
		if m, confidence, ok := e.patterns.SuggestMethod(category); ok {
			method = m
			suggested = true
			log.Printf("Memory suggests %s for %s (confidence: %.0f%%)", m, category, confidence*100)
		} else {
			method = e.fallback
		}
	}

	runner, ok := e.runners[method]
	if !ok {
		return nil, fmt.Errorf("no runner registered for method %q", method)
	}

	content, citations, runErr := runner.Run(ctx, query)
	elapsed := time.Since(start)

	outcome := memory.Outcome{
		Query:        query,
		Category:     category,
		Method:       method,
		Success:      runErr == nil,
		ResponseTime: elapsed,
		Citations:    citations,
		Timestamp:    time.Now(),
	}

	// A durable-store failure here is recoverable: the in-memory table
	// keeps learning for the rest of the session.
	if err := e.patterns.RecordOutcome(outcome); err != nil {
		log.Printf("Warning: failed to persist outcome: %v", err)
	}

	record := outcome.ToRecord()
	e.tracker.Track(record)

	if runErr != nil {
		return nil, fmt.Errorf("research failed: %w", runErr)
	}

	result := &Result{
		ID:        record.ID,
		Query:     query,
		Method:    method,
		Category:  string(category),
		Content:   content,
		Citations: citations,
		ElapsedMS: int(elapsed.Milliseconds()),
		Suggested: suggested,
	}

	if err := e.cache.Store(query, result); err != nil {
		log.Printf("Warning: failed to cache result: %v", err)
	}

	return result, nil
}

// SuggestMethod exposes the pattern table's suggestion for a query.
func (e *Engine) SuggestMethod(query string) (method string, confidence float64, ok bool) {
	return e.patterns.SuggestMethod(memory.Classify(query))
}
