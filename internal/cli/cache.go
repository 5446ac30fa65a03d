package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanglvm/deepthink/internal/cache"
	"github.com/khanglvm/deepthink/internal/config"
)

// NewCacheCmd creates the 'cache' command group for managing the result cache.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the research result cache",
		Long:  `Prune stale entries from the result cache, or clear it entirely.`,
	}

	cmd.AddCommand(newCachePruneCmd())
	cmd.AddCommand(newCacheClearCmd())

	return cmd
}

// newCachePruneCmd removes cache entries older than the prune age.
func newCachePruneCmd() *cobra.Command {
	var maxAgeHours int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove stale cache entries",
		Example: `  deepthink cache prune
  deepthink cache prune --max-age 6`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrCreate()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			resultCache, err := cache.New(cfg.CacheDir(), cfg.CacheTTL())
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
			defer resultCache.Close()

			maxAge := cfg.PruneAge()
			if maxAgeHours > 0 {
				maxAge = time.Duration(maxAgeHours) * time.Hour
			}

			removed, err := resultCache.Prune(maxAge)
			if err != nil {
				return fmt.Errorf("prune failed: %w", err)
			}

			fmt.Printf("Pruned %d cache entries older than %s\n", removed, maxAge)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxAgeHours, "max-age", 0, "Maximum entry age in hours (default: configured prune age)")

	return cmd
}

// newCacheClearCmd deletes every cache entry.
func newCacheClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force && !confirm("This will delete all cached results. Continue?") {
				fmt.Println("Cancelled")
				return nil
			}

			cfg, err := config.LoadOrCreate()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			resultCache, err := cache.New(cfg.CacheDir(), cfg.CacheTTL())
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
			defer resultCache.Close()

			if err := resultCache.Clear(); err != nil {
				return fmt.Errorf("clear failed: %w", err)
			}

			fmt.Println("Cache cleared successfully")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")

	return cmd
}
