package personality

import (
	"bytes"
	"strings"
	"testing"

	"github.com/khanglvm/deepthink/internal/storage"
)

func TestWakeUp_ReportsMemoryStatus(t *testing.T) {
	var buf bytes.Buffer
	stats := storage.Stats{
		TotalQueries:    10,
		CacheHits:       4,
		AvgResponseTime: 12.5,
	}

	WakeUp(&buf, stats, 3)
	out := buf.String()

	if !strings.Contains(out, "DeepThink") {
		t.Error("expected agent nickname in wake-up report")
	}
	if !strings.Contains(out, "Patterns learned:        3") {
		t.Error("expected pattern count in report")
	}
	if !strings.Contains(out, "Total queries processed: 10") {
		t.Error("expected query count in report")
	}
	if !strings.Contains(out, "40.0%") {
		t.Errorf("expected 40%% cache hit rate, got:\n%s", out)
	}
	if !strings.Contains(out, "12.5s") {
		t.Error("expected average response time in report")
	}
}

func TestWakeUp_EmptyStats(t *testing.T) {
	var buf bytes.Buffer

	WakeUp(&buf, storage.Stats{}, 0)
	out := buf.String()

	if strings.Contains(out, "Cache hit rate") {
		t.Error("expected no cache hit rate with zero queries")
	}
	if strings.Contains(out, "Average response time") {
		t.Error("expected no response time with zero queries")
	}
}

func TestWindDown(t *testing.T) {
	var buf bytes.Buffer

	WindDown(&buf, storage.Stats{TotalQueries: 7}, 2)
	out := buf.String()

	if !strings.Contains(out, "Winding Down") {
		t.Error("expected wind-down header")
	}
	if !strings.Contains(out, "Patterns in memory: 2") {
		t.Error("expected pattern count")
	}
	if !strings.Contains(out, "Queries processed:  7") {
		t.Error("expected query count")
	}
}

func TestQuickIntro(t *testing.T) {
	var buf bytes.Buffer
	QuickIntro(&buf, 5)
	if !strings.Contains(buf.String(), "5 patterns learned") {
		t.Error("expected pattern count in intro")
	}

	buf.Reset()
	QuickIntro(&buf, 0)
	if !strings.Contains(buf.String(), "Ready to learn") {
		t.Error("expected fresh-start intro with no patterns")
	}
}
