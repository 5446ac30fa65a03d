/*
Package main is the entry point for the deepthink CLI.

deepthink is a research assistant with a learning memory: it routes
queries to the best research method based on past outcomes, caches
results, and reports what it has learned.

Usage:
  deepthink [command]
  deepthink "Your research question"

Available Commands:
  research   Run a research query with learned method routing
  stats      Show performance statistics
  insights   Show learned patterns and routing insights
  history    List or search past research queries
  cache      Manage the research result cache
  memory     Manage learned patterns and query history
  serve      Run the MCP server (stdio transport)
  wake       Print the wake-up report with memory status
  intro      Print a one-line introduction with the pattern count
  wind-down  Print the end-of-session report
  version    Show version information

Examples:
  # Run a research query (bare arguments route to research)
  deepthink "Comprehensive analysis of vector databases"

  # Force a method
  deepthink research "How to implement rate limiting in Go" -m openai_agents

  # Run as MCP server
  deepthink serve
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanglvm/deepthink/internal/cli"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "deepthink",
		Short: "Research assistant with a learning memory",
		Long: `deepthink routes research queries to the method that has worked best
for similar queries in the past.

Two research methods are available:
  - openai_agents      Fast technical answers (30-60s)
  - deep_research_api  Comprehensive analysis (2-5min)

The memory layer classifies each query, learns from outcomes, and
suggests a method once a pattern has proven itself. Identical queries
within the cache TTL return instantly from the result cache.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare arguments route straight to research
			if len(args) == 0 {
				return cmd.Help()
			}
			return cli.RunResearch(strings.Join(args, " "), "", false)
		},
	}

	rootCmd.AddCommand(cli.NewResearchCmd())
	rootCmd.AddCommand(cli.NewStatsCmd())
	rootCmd.AddCommand(cli.NewInsightsCmd())
	rootCmd.AddCommand(cli.NewHistoryCmd())
	rootCmd.AddCommand(cli.NewCacheCmd())
	rootCmd.AddCommand(cli.NewMemoryCmd())
	rootCmd.AddCommand(cli.NewServeCmd())
	rootCmd.AddCommand(cli.NewWakeCmd())
	rootCmd.AddCommand(cli.NewIntroCmd())
	rootCmd.AddCommand(cli.NewWindDownCmd())
	rootCmd.AddCommand(cli.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
