package memory

import (
	"testing"
	"time"
)

func successOutcome(query, method string) Outcome {
	return NewOutcome(query, method, true, 2500*time.Millisecond, 10)
}

func TestSuggestMethod_EmptyTable(t *testing.T) {
	table := NewPatternTable(newMockStorage(), Options{})

	if _, _, ok := table.SuggestMethod(CategoryTechnicalImplementation); ok {
		t.Error("expected no suggestion from an empty table")
	}
}

// TestSuggestMethod_TwoSuccesses verifies that two successful outcomes for
// the same category and method are enough to route: confidence 2/2 = 1.0
// clears the 0.6 threshold. The learning minimum only affects the
// patterns-learned counter, never the suggestion.
func TestSuggestMethod_TwoSuccesses(t *testing.T) {
	table := NewPatternTable(newMockStorage(), Options{})

	for i := 0; i < 2; i++ {
		if err := table.RecordOutcome(successOutcome("How to implement X?", "openai_agents")); err != nil {
			t.Fatalf("RecordOutcome failed: %v", err)
		}
	}

	method, confidence, ok := table.SuggestMethod(CategoryTechnicalImplementation)
	if !ok {
		t.Fatal("expected a suggestion after 2 confirming successes")
	}
	if method != "openai_agents" {
		t.Errorf("expected openai_agents, got %s", method)
	}
	if confidence != 1.0 {
		t.Errorf("expected confidence 1.0, got %f", confidence)
	}

	// Two successes do not yet count as a learned pattern.
	if learned := table.Stats().PatternsLearned; learned != 0 {
		t.Errorf("expected 0 learned patterns at 2 successes, got %d", learned)
	}
}

func TestSuggestMethod_CrossesThreshold(t *testing.T) {
	table := NewPatternTable(newMockStorage(), Options{})

	for i := 0; i < 3; i++ {
		if err := table.RecordOutcome(successOutcome("How to implement X?", "openai_agents")); err != nil {
			t.Fatalf("RecordOutcome failed: %v", err)
		}
	}

	method, confidence, ok := table.SuggestMethod(CategoryTechnicalImplementation)
	if !ok {
		t.Fatal("expected a suggestion after 3 confirming successes")
	}
	if method != "openai_agents" {
		t.Errorf("expected openai_agents, got %s", method)
	}
	if confidence != 1.0 {
		t.Errorf("expected confidence 1.0, got %f", confidence)
	}

	// Three successes cross the learning minimum.
	if learned := table.Stats().PatternsLearned; learned != 1 {
		t.Errorf("expected 1 learned pattern at 3 successes, got %d", learned)
	}
}

func TestSuggestMethod_LowConfidence(t *testing.T) {
	table := NewPatternTable(newMockStorage(), Options{})

	// Split successes between two methods: winner holds 50% confidence,
	// below the 60% threshold.
	for i := 0; i < 3; i++ {
		if err := table.RecordOutcome(successOutcome("How to implement X?", "openai_agents")); err != nil {
			t.Fatalf("RecordOutcome failed: %v", err)
		}
		if err := table.RecordOutcome(successOutcome("How to implement Y?", "deep_research_api")); err != nil {
			t.Fatalf("RecordOutcome failed: %v", err)
		}
	}

	if _, _, ok := table.SuggestMethod(CategoryTechnicalImplementation); ok {
		t.Error("expected no suggestion at 50% confidence")
	}
}

func TestSuggestMethod_FailuresDoNotConfirm(t *testing.T) {
	table := NewPatternTable(newMockStorage(), Options{})

	for i := 0; i < 5; i++ {
		outcome := NewOutcome("How to implement X?", "openai_agents", false, time.Second, 0)
		if err := table.RecordOutcome(outcome); err != nil {
			t.Fatalf("RecordOutcome failed: %v", err)
		}
	}

	if _, _, ok := table.SuggestMethod(CategoryTechnicalImplementation); ok {
		t.Error("expected no suggestion from failures alone")
	}
}

// TestConfidence_NonDecreasing verifies the invariant that confidence does
// not drop while successes keep confirming the same method.
func TestConfidence_NonDecreasing(t *testing.T) {
	table := NewPatternTable(newMockStorage(), Options{})

	last := 0.0
	for i := 0; i < 6; i++ {
		if err := table.RecordOutcome(successOutcome("How to implement X?", "openai_agents")); err != nil {
			t.Fatalf("RecordOutcome failed: %v", err)
		}

		for _, entry := range table.Entries() {
			if entry.Method != "openai_agents" {
				continue
			}
			if entry.Confidence < last {
				t.Fatalf("confidence decreased: %f -> %f", last, entry.Confidence)
			}
			last = entry.Confidence
		}
	}
}

// TestPatternTable_Reload verifies that a table reconstructed from the same
// storage reproduces the learned state.
func TestPatternTable_Reload(t *testing.T) {
	store := newMockStorage()

	table := NewPatternTable(store, Options{})
	for i := 0; i < 3; i++ {
		if err := table.RecordOutcome(successOutcome("How to implement X?", "openai_agents")); err != nil {
			t.Fatalf("RecordOutcome failed: %v", err)
		}
	}

	reloaded := NewPatternTable(store, Options{})

	method, confidence, ok := reloaded.SuggestMethod(CategoryTechnicalImplementation)
	if !ok {
		t.Fatal("expected suggestion to survive reload")
	}
	if method != "openai_agents" || confidence != 1.0 {
		t.Errorf("reloaded suggestion changed: %s (%f)", method, confidence)
	}

	if reloaded.Stats().TotalQueries != 3 {
		t.Errorf("expected 3 total queries after reload, got %d", reloaded.Stats().TotalQueries)
	}
}

// TestRecordOutcome_StorageFailure verifies that a durable-write failure is
// reported but leaves the in-memory table usable.
func TestRecordOutcome_StorageFailure(t *testing.T) {
	table := NewPatternTable(&failingStorage{}, Options{})

	var lastErr error
	for i := 0; i < 3; i++ {
		lastErr = table.RecordOutcome(successOutcome("How to implement X?", "openai_agents"))
	}

	if lastErr == nil {
		t.Error("expected durable-write failure to be reported")
	}

	// In-memory state must still be usable
	method, _, ok := table.SuggestMethod(CategoryTechnicalImplementation)
	if !ok || method != "openai_agents" {
		t.Error("expected in-memory table to keep working after storage failure")
	}
}

func TestRecordOutcome_Stats(t *testing.T) {
	table := NewPatternTable(newMockStorage(), Options{})

	if err := table.RecordOutcome(NewOutcome("What is X?", "openai_agents", true, 2*time.Second, 0)); err != nil {
		t.Fatalf("RecordOutcome failed: %v", err)
	}
	if err := table.RecordOutcome(NewOutcome("What is Y?", "openai_agents", true, 4*time.Second, 0)); err != nil {
		t.Fatalf("RecordOutcome failed: %v", err)
	}

	stats := table.Stats()
	if stats.TotalQueries != 2 {
		t.Errorf("expected 2 total queries, got %d", stats.TotalQueries)
	}

	// Running average of 2s and 4s
	if stats.AvgResponseTime < 2.9 || stats.AvgResponseTime > 3.1 {
		t.Errorf("expected avg response time ~3.0s, got %f", stats.AvgResponseTime)
	}
}

func TestRecordOutcome_PatternsLearnedOnce(t *testing.T) {
	table := NewPatternTable(newMockStorage(), Options{})

	for i := 0; i < 5; i++ {
		if err := table.RecordOutcome(successOutcome("What is X?", "openai_agents")); err != nil {
			t.Fatalf("RecordOutcome failed: %v", err)
		}
	}

	if learned := table.Stats().PatternsLearned; learned != 1 {
		t.Errorf("expected pattern to be counted as learned once, got %d", learned)
	}
}

func TestRecordCacheHit(t *testing.T) {
	table := NewPatternTable(newMockStorage(), Options{})

	table.RecordCacheHit()
	table.RecordCacheHit()

	if hits := table.Stats().CacheHits; hits != 2 {
		t.Errorf("expected 2 cache hits, got %d", hits)
	}
}
