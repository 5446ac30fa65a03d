package research

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/khanglvm/deepthink/internal/cache"
	"github.com/khanglvm/deepthink/internal/memory"
	"github.com/khanglvm/deepthink/internal/storage"
)

// stubRunner is a Runner that returns canned results.
type stubRunner struct {
	method  string
	content string
	err     error
	calls   int
}

func (s *stubRunner) Method() string { return s.method }

func (s *stubRunner) Run(ctx context.Context, query string) (string, int, error) {
	s.calls++
	if s.err != nil {
		return "", 0, s.err
	}
	return s.content, 2, nil
}

type engineFixture struct {
	engine  *Engine
	store   *storage.SQLiteStorage
	agents  *stubRunner
	deep    *stubRunner
	tracker *memory.Tracker
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	tmpDir := t.TempDir()

	store := storage.NewStorageAt(filepath.Join(tmpDir, "memory.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("storage Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	resultCache, err := cache.New(filepath.Join(tmpDir, "cache"), time.Hour)
	if err != nil {
		t.Fatalf("cache New failed: %v", err)
	}
	t.Cleanup(resultCache.Close)

	patterns := memory.NewPatternTable(store, memory.Options{})
	tracker := memory.NewTracker(store)
	t.Cleanup(tracker.Stop)

	engine := NewEngine(patterns, resultCache, tracker, MethodOpenAIAgents)

	agents := &stubRunner{method: MethodOpenAIAgents, content: "agents answer https://example.com"}
	deep := &stubRunner{method: MethodDeepResearchAPI, content: "deep report https://example.com"}
	engine.Register(agents)
	engine.Register(deep)

	return &engineFixture{
		engine:  engine,
		store:   store,
		agents:  agents,
		deep:    deep,
		tracker: tracker,
	}
}

func TestResearch_DefaultMethod(t *testing.T) {
	f := newEngineFixture(t)

	result, err := f.engine.Research(context.Background(), "History of the printing press", "")
	if err != nil {
		t.Fatalf("Research failed: %v", err)
	}

	if result.Method != MethodOpenAIAgents {
		t.Errorf("expected default method, got %s", result.Method)
	}
	if result.Suggested {
		t.Error("expected no suggestion on first query")
	}
	if result.FromCache {
		t.Error("expected fresh result, not cache")
	}
	if result.Category != "general_research" {
		t.Errorf("expected general_research, got %s", result.Category)
	}
}

func TestResearch_MethodOverride(t *testing.T) {
	f := newEngineFixture(t)

	result, err := f.engine.Research(context.Background(), "What is X?", MethodDeepResearchAPI)
	if err != nil {
		t.Fatalf("Research failed: %v", err)
	}

	if result.Method != MethodDeepResearchAPI {
		t.Errorf("expected override method, got %s", result.Method)
	}
	if f.deep.calls != 1 || f.agents.calls != 0 {
		t.Errorf("expected only the deep runner to be called, got agents=%d deep=%d", f.agents.calls, f.deep.calls)
	}
}

func TestResearch_CacheHit(t *testing.T) {
	f := newEngineFixture(t)

	query := "What is a transformer architecture?"

	first, err := f.engine.Research(context.Background(), query, "")
	if err != nil {
		t.Fatalf("Research failed: %v", err)
	}

	second, err := f.engine.Research(context.Background(), query, "")
	if err != nil {
		t.Fatalf("Research (cached) failed: %v", err)
	}

	if !second.FromCache {
		t.Error("expected second identical query to hit the cache")
	}
	if second.Content != first.Content {
		t.Error("expected cached content to match original")
	}
	if f.agents.calls != 1 {
		t.Errorf("expected runner to be called once, got %d", f.agents.calls)
	}
}

// TestResearch_LearnsSuggestion verifies that repeated successes with one
// method eventually route queries of that category to it.
func TestResearch_LearnsSuggestion(t *testing.T) {
	f := newEngineFixture(t)

	// Three distinct comprehensive queries forced to deep_research_api
	queries := []string{
		"Comprehensive analysis of LLM frameworks",
		"Analyze the vector database landscape",
		"Comparison of agent orchestration tools",
	}
	for _, q := range queries {
		if _, err := f.engine.Research(context.Background(), q, MethodDeepResearchAPI); err != nil {
			t.Fatalf("Research failed: %v", err)
		}
	}

	// A new comprehensive query with no override must follow the pattern
	result, err := f.engine.Research(context.Background(), "Analyze the competitive landscape of AI tools", "")
	if err != nil {
		t.Fatalf("Research failed: %v", err)
	}

	if result.Method != MethodDeepResearchAPI {
		t.Errorf("expected learned method deep_research_api, got %s", result.Method)
	}
	if !result.Suggested {
		t.Error("expected method to come from a learned pattern")
	}
}

func TestResearch_FailureRecorded(t *testing.T) {
	f := newEngineFixture(t)
	f.agents.err = errors.New("api unavailable")

	_, err := f.engine.Research(context.Background(), "What is X?", "")
	if err == nil {
		t.Fatal("expected research error")
	}

	// Flush the tracker and confirm the failure reached the history
	f.tracker.Stop()

	records, err := f.store.QueryHistory(time.Time{})
	if err != nil {
		t.Fatalf("QueryHistory failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Success {
		t.Error("expected recorded outcome to be a failure")
	}
}

func TestResearch_FailureNotCached(t *testing.T) {
	f := newEngineFixture(t)
	f.agents.err = errors.New("api unavailable")

	if _, err := f.engine.Research(context.Background(), "What is X?", ""); err == nil {
		t.Fatal("expected research error")
	}

	// A retry must invoke the runner again, not serve a cached failure
	f.agents.err = nil
	result, err := f.engine.Research(context.Background(), "What is X?", "")
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if result.FromCache {
		t.Error("expected failure to be absent from the cache")
	}
	if f.agents.calls != 2 {
		t.Errorf("expected 2 runner calls, got %d", f.agents.calls)
	}
}

func TestResearch_UnknownMethod(t *testing.T) {
	f := newEngineFixture(t)

	if _, err := f.engine.Research(context.Background(), "What is X?", "telepathy"); err == nil {
		t.Error("expected error for unregistered method")
	}
}

func TestValidMethod(t *testing.T) {
	if !ValidMethod(MethodOpenAIAgents) || !ValidMethod(MethodDeepResearchAPI) {
		t.Error("expected built-in methods to be valid")
	}
	if ValidMethod("telepathy") {
		t.Error("expected unknown method to be invalid")
	}
}

func TestCountCitations(t *testing.T) {
	content := "See https://example.com and http://other.org for details"
	if got := countCitations(content); got != 2 {
		t.Errorf("expected 2 citations, got %d", got)
	}

	if countCitations("no links here") != 0 {
		t.Error("expected 0 citations")
	}
}
