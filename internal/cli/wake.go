package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khanglvm/deepthink/internal/config"
	"github.com/khanglvm/deepthink/internal/personality"
	"github.com/khanglvm/deepthink/internal/storage"
)

// NewWakeCmd creates the 'wake' command for the session start report.
func NewWakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wake",
		Short: "Print the wake-up report with memory status",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, patternCount, err := loadMemorySnapshot()
			if err != nil {
				return err
			}
			personality.WakeUp(os.Stdout, stats, patternCount)
			return nil
		},
	}
}

// NewIntroCmd creates the 'intro' command for the one-line greeting.
func NewIntroCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intro",
		Short: "Print a one-line introduction with the pattern count",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, patternCount, err := loadMemorySnapshot()
			if err != nil {
				return err
			}
			personality.QuickIntro(os.Stdout, patternCount)
			return nil
		},
	}
}

// NewWindDownCmd creates the 'wind-down' command for the session end report.
func NewWindDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wind-down",
		Short: "Print the end-of-session report",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, patternCount, err := loadMemorySnapshot()
			if err != nil {
				return err
			}
			personality.WindDown(os.Stdout, stats, patternCount)
			return nil
		},
	}
}

// loadMemorySnapshot reads the stats and learned pattern count from storage.
func loadMemorySnapshot() (storage.Stats, int, error) {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return storage.Stats{}, 0, fmt.Errorf("failed to load config: %w", err)
	}

	store := storage.NewStorageAt(cfg.DBPath())
	if err := store.Init(); err != nil {
		return storage.Stats{}, 0, fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	stats, err := store.LoadStats()
	if err != nil {
		return storage.Stats{}, 0, fmt.Errorf("failed to load stats: %w", err)
	}

	patterns, err := store.LoadPatterns()
	if err != nil {
		return storage.Stats{}, 0, fmt.Errorf("failed to load patterns: %w", err)
	}

	return stats, len(patterns), nil
}
