package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanglvm/deepthink/internal/config"
	"github.com/khanglvm/deepthink/internal/storage"
)

// NewMemoryCmd creates the 'memory' command group for managing learned state.
func NewMemoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Manage learned patterns and query history",
	}

	cmd.AddCommand(newMemoryClearCmd())

	return cmd
}

// newMemoryClearCmd deletes all learned patterns, history, and statistics.
func newMemoryClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all learned patterns and query history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force && !confirm("This will delete all learned patterns, history, and statistics. Continue?") {
				fmt.Println("Cancelled")
				return nil
			}

			cfg, err := config.LoadOrCreate()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			store := storage.NewStorageAt(cfg.DBPath())
			if err := store.Init(); err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer store.Close()

			if err := store.Reset(); err != nil {
				return fmt.Errorf("failed to clear memory: %w", err)
			}

			fmt.Println("Memory cleared successfully")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")

	return cmd
}
