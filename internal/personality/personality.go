/*
Package personality renders the agent's wake-up and wind-down reports.

The reports are plain-text status summaries built from the stored
statistics and learned patterns, written to any io.Writer.
*/
package personality

import (
	"fmt"
	"io"
	"strings"

	"github.com/khanglvm/deepthink/internal/storage"
	"github.com/khanglvm/deepthink/internal/version"
)

const (
	// Nickname is the agent's display name.
	Nickname = "DeepThink"

	bannerWidth  = 60
	sectionWidth = 40
)

// WakeUp writes the full wake-up report: identity, memory status, and
// capabilities.
func WakeUp(w io.Writer, stats storage.Stats, patternCount int) {
	banner := strings.Repeat("=", bannerWidth)
	section := strings.Repeat("-", sectionWidth)

	fmt.Fprintf(w, "\n%s\n", banner)
	fmt.Fprintf(w, "%s Awakening...\n", Nickname)
	fmt.Fprintf(w, "%s\n\n", banner)

	fmt.Fprintf(w, "Hello! I'm %s, the cognitive agent managing your\n", Nickname)
	fmt.Fprintln(w, "research system.")
	fmt.Fprintf(w, "\nVersion: %s\n", version.GetVersion())

	fmt.Fprintf(w, "\n%s\nMemory Status\n%s\n", section, section)
	fmt.Fprintf(w, "  Patterns learned:        %d\n", patternCount)
	fmt.Fprintf(w, "  Total queries processed: %d\n", stats.TotalQueries)
	if stats.AvgResponseTime > 0 {
		fmt.Fprintf(w, "  Average response time:   %.1fs\n", stats.AvgResponseTime)
	}
	if stats.TotalQueries > 0 {
		rate := float64(stats.CacheHits) / float64(stats.TotalQueries) * 100
		fmt.Fprintf(w, "  Cache hit rate:          %.1f%%\n", rate)
	}

	fmt.Fprintf(w, "\n%s\nCapabilities\n%s\n", section, section)
	fmt.Fprintln(w, "  Research Methods:")
	fmt.Fprintln(w, "    - openai_agents     Fast technical queries (30-60s)")
	fmt.Fprintln(w, "    - deep_research_api Comprehensive analysis (2-5min)")
	fmt.Fprintln(w, "    - Auto-routing based on learned patterns")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Cognitive Features:")
	fmt.Fprintln(w, "    - Pattern recognition from past queries")
	fmt.Fprintln(w, "    - Result caching for instant responses")
	fmt.Fprintln(w, "    - Performance insights and statistics")

	fmt.Fprintf(w, "\n%s\n", banner)
	fmt.Fprintf(w, "%s is ready!\n", Nickname)
	fmt.Fprintf(w, "%s\n\n", banner)
	fmt.Fprintln(w, "Try: deepthink \"Your research question here\"")
	fmt.Fprintln(w, "     deepthink stats     # View performance statistics")
	fmt.Fprintln(w, "     deepthink insights  # See learned patterns")
	fmt.Fprintln(w)
}

// WindDown writes the end-of-session report.
func WindDown(w io.Writer, stats storage.Stats, patternCount int) {
	section := strings.Repeat("-", sectionWidth)

	fmt.Fprintf(w, "\n%s\nWinding Down %s\n%s\n", section, Nickname, section)
	fmt.Fprintln(w, "Saving memory patterns...")
	fmt.Fprintln(w, "Session complete:")
	fmt.Fprintf(w, "  Patterns in memory: %d\n", patternCount)
	fmt.Fprintf(w, "  Queries processed:  %d\n", stats.TotalQueries)

	fmt.Fprintln(w)
	fmt.Fprintln(w, `"Every research query makes me smarter. See you next session!"`)
	fmt.Fprintf(w, "  - %s, your research agent\n\n", Nickname)
}

// QuickIntro writes the one-line greeting shown before interactive runs.
func QuickIntro(w io.Writer, patternCount int) {
	fmt.Fprintf(w, "%s %s - Research Cognitive Agent\n", Nickname, version.Version)
	if patternCount > 0 {
		fmt.Fprintf(w, "  %d patterns learned | Ready to research!\n", patternCount)
	} else {
		fmt.Fprintln(w, "  Ready to learn from your research queries!")
	}
}
