package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanglvm/deepthink/internal/config"
	"github.com/khanglvm/deepthink/internal/storage"
)

// NewStatsCmd creates the 'stats' command for showing performance statistics.
func NewStatsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show performance statistics",
		Long:  `Display aggregate statistics: queries processed, cache hits, patterns learned, and average response time.`,
		Example: `  deepthink stats
  deepthink stats --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

// runStats loads and prints the aggregate statistics.
func runStats(jsonOutput bool) error {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store := storage.NewStorageAt(cfg.DBPath())
	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	stats, err := store.LoadStats()
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println("Performance Statistics")
	fmt.Println("======================")
	fmt.Printf("Total queries:     %d\n", stats.TotalQueries)
	fmt.Printf("Cache hits:        %d\n", stats.CacheHits)
	if stats.TotalQueries > 0 {
		rate := float64(stats.CacheHits) / float64(stats.TotalQueries) * 100
		fmt.Printf("Cache hit rate:    %.1f%%\n", rate)
	}
	fmt.Printf("Patterns learned:  %d\n", stats.PatternsLearned)
	if stats.AvgResponseTime > 0 {
		fmt.Printf("Avg response time: %.1fs\n", stats.AvgResponseTime)
	}

	if stats.TotalQueries == 0 {
		fmt.Println()
		fatalHint()
	}

	return nil
}
