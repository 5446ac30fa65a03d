/*
Package cli implements the deepthink command-line interface.

Each command constructs the storage, memory, and cache components it
needs, runs, and releases them. Long-lived wiring lives in the serve
command, which hands everything to the MCP server.
*/
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanglvm/deepthink/internal/cache"
	"github.com/khanglvm/deepthink/internal/config"
	"github.com/khanglvm/deepthink/internal/memory"
	"github.com/khanglvm/deepthink/internal/research"
	"github.com/khanglvm/deepthink/internal/storage"
)

// NewResearchCmd creates the 'research' command for running a query.
func NewResearchCmd() *cobra.Command {
	var method string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "research <query>",
		Short: "Run a research query with learned method routing",
		Long: `Run a research query through the intelligent router.

The router classifies the query, checks the result cache, and picks the
research method that has worked best for that category of query. Use
--method to bypass the routing and force a specific method.`,
		Example: `  deepthink research "Comprehensive analysis of vector databases"
  deepthink research "How to implement rate limiting in Go" --method openai_agents
  deepthink research "What is a bloom filter?" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunResearch(strings.Join(args, " "), method, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&method, "method", "m", "", "Force a research method (openai_agents, deep_research_api)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

// RunResearch executes one research query and prints the result.
// Exported so the root command can route bare arguments here.
func RunResearch(query, method string, jsonOutput bool) error {
	if method != "" && !research.ValidMethod(method) {
		return fmt.Errorf("unknown method '%s' (valid: %s)", method, strings.Join(research.Methods(), ", "))
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

	resultCache, err := cache.New(cfg.CacheDir(), cfg.CacheTTL())
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer resultCache.Close()

	patterns := memory.NewPatternTable(store, memory.Options{
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		MinSuccesses:        cfg.MinSuccesses,
	})
	tracker := memory.NewTracker(store)
	defer tracker.Stop()

	engine := research.NewEngine(patterns, resultCache, tracker, cfg.DefaultMethod)
	engine.Register(research.NewAgentsRunner(cfg.APIKey(), cfg.Models.Agents))
	engine.Register(research.NewDeepResearchRunner(cfg.APIKey(), cfg.Models.DeepResearch))

	result, err := engine.Research(context.Background(), query, method)
	if err != nil {
		return err
	}

	if jsonOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	printResult(result)
	return nil
}

// printResult writes a human-readable research result.
func printResult(result *research.Result) {
	fmt.Printf("Query:    %s\n", result.Query)
	fmt.Printf("Category: %s\n", result.Category)

	methodNote := ""
	if result.Suggested {
		methodNote = " (learned pattern)"
	}
	fmt.Printf("Method:   %s%s\n", result.Method, methodNote)

	if result.FromCache {
		fmt.Println("Source:   cache")
	} else {
		fmt.Printf("Elapsed:  %.1fs\n", float64(result.ElapsedMS)/1000)
	}
	fmt.Printf("Citations: %d\n", result.Citations)

	fmt.Println()
	fmt.Println(result.Content)
}

// confirm prompts for a y/N answer on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s (y/N): ", prompt)
	var response string
	fmt.Scanln(&response)
	return response == "y" || response == "Y"
}

// fatalHint prints a hint for commands that need existing data.
func fatalHint() {
	fmt.Fprintln(os.Stderr, "Run 'deepthink research \"...\"' first to build up memory.")
}
