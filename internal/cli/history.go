package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanglvm/deepthink/internal/config"
	"github.com/khanglvm/deepthink/internal/search"
	"github.com/khanglvm/deepthink/internal/storage"
)

// NewHistoryCmd creates the 'history' command for browsing past queries.
func NewHistoryCmd() *cobra.Command {
	var limit int
	var category string
	var since string

	cmd := &cobra.Command{
		Use:   "history [search terms]",
		Short: "List or search past research queries",
		Long: `List recent research queries, or search them by keyword.

With search terms, the history is ranked by BM25 relevance. Without
terms, the most recent queries are listed newest first.`,
		Example: `  deepthink history
  deepthink history websocket reconnection
  deepthink history --category comprehensive_analysis "vector databases"
  deepthink history --since 24h --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(strings.Join(args, " "), category, since, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum results to show")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Restrict search to one category")
	cmd.Flags().StringVarP(&since, "since", "s", "", "Only include queries newer than this (e.g. 24h, 7d is 168h)")

	return cmd
}

// runHistory lists or searches the query history.
func runHistory(terms, category, since string, limit int) error {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store := storage.NewStorageAt(cfg.DBPath())
	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	var cutoff time.Time
	if since != "" {
		window, err := time.ParseDuration(since)
		if err != nil {
			return fmt.Errorf("invalid --since duration: %w", err)
		}
		cutoff = time.Now().Add(-window)
	}

	records, err := store.QueryHistory(cutoff)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No queries in history.")
		fatalHint()
		return nil
	}

	// No search terms: plain recency listing
	if terms == "" {
		if limit > 0 && len(records) > limit {
			records = records[:limit]
		}
		for _, record := range records {
			printHistoryLine(record.Timestamp.Format("2006-01-02 15:04"), record.QueryText,
				record.Category, record.Method, record.Success)
		}
		return nil
	}

	indexer, err := search.NewIndexer()
	if err != nil {
		return fmt.Errorf("failed to create search index: %w", err)
	}
	defer indexer.Close()

	if err := indexer.IndexRecords(records); err != nil {
		return fmt.Errorf("failed to index history: %w", err)
	}

	var results []search.HistoryResult
	if category != "" {
		results, err = indexer.SearchByCategory(terms, category, limit)
	} else {
		results, err = indexer.Search(terms, limit)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Printf("No history matches for '%s'.\n", terms)
		return nil
	}

	fmt.Printf("History matches for '%s' (%d):\n\n", terms, len(results))
	for _, result := range results {
		printHistoryLine(result.Timestamp, result.Query, result.Category, result.Method, result.Success)
	}

	return nil
}

// printHistoryLine writes one formatted history entry.
func printHistoryLine(timestamp, query, category, method string, success bool) {
	status := "ok"
	if !success {
		status = "failed"
	}
	fmt.Printf("  [%s] %s\n", timestamp, query)
	fmt.Printf("      %s via %s (%s)\n\n", category, method, status)
}
