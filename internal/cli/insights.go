package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanglvm/deepthink/internal/config"
	"github.com/khanglvm/deepthink/internal/memory"
	"github.com/khanglvm/deepthink/internal/storage"
)

// NewInsightsCmd creates the 'insights' command for the learned-pattern report.
func NewInsightsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show learned patterns and routing insights",
		Long: `Report what the memory layer has learned: query type distribution,
method preferences, the best category/method combinations, and the
cache hit rate.`,
		Example: `  deepthink insights
  deepthink insights --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsights(jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

// runInsights builds and prints the insight report.
func runInsights(jsonOutput bool) error {
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

	insights, err := memory.BuildInsights(store, stats)
	if err != nil {
		return fmt.Errorf("failed to build insights: %w", err)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(insights, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal insights: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println("Memory Insights")
	fmt.Println("===============")
	fmt.Printf("Records in history: %d\n", insights.TotalRecords)
	fmt.Printf("Patterns learned:   %d\n", insights.PatternsLearned)
	fmt.Printf("Cache hit rate:     %.1f%%\n", insights.CacheHitRate*100)
	if insights.AvgResponseTime > 0 {
		fmt.Printf("Avg response time:  %.1fs\n", insights.AvgResponseTime)
	}

	if len(insights.QueryTypes) > 0 {
		fmt.Println("\nQuery Types:")
		for category, count := range insights.QueryTypes {
			fmt.Printf("  %-26s %d\n", category, count)
		}
	}

	if len(insights.MethodPreferences) > 0 {
		fmt.Println("\nMethod Preferences (successful queries):")
		for method, count := range insights.MethodPreferences {
			fmt.Printf("  %-26s %d\n", method, count)
		}
	}

	if len(insights.BestCombinations) > 0 {
		fmt.Println("\nBest Combinations:")
		for _, combo := range insights.BestCombinations {
			fmt.Printf("  %s -> %s (%d successes, avg %.1fms)\n",
				combo.Category, combo.Method, combo.Successes, combo.AvgTimeMS)
		}
	}

	if insights.TotalRecords == 0 {
		fmt.Println()
		fatalHint()
	}

	return nil
}
