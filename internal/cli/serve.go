package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanglvm/deepthink/internal/config"
	"github.com/khanglvm/deepthink/internal/mcp"
	"github.com/khanglvm/deepthink/internal/version"
)

// NewServeCmd creates the 'serve' command for running the MCP server.
//
// This exposes the research tools over stdio transport:
// research, suggest_method, memory_insights, cache_lookup
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio transport)",
		Long: `Start the deepthink MCP server using stdio transport.

The server exposes 4 tools to AI clients:
  - research        Run a research query with learned method routing
  - suggest_method  Preview which method would be picked for a query
  - memory_insights Report learned patterns and statistics
  - cache_lookup    Check for a fresh cached result`,
		Example: `  # Run directly
  deepthink serve

  # Add to Claude Code
  claude mcp add deepthink -- deepthink serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	return cmd
}

// runServe starts the MCP server with stdio transport and signal handling.
// Implements graceful shutdown on SIGINT/SIGTERM/SIGQUIT.
func runServe() error {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	server, err := mcp.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	go checkForUpdates(server.Context())

	// Run server in separate goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run()
	}()

	// Wait for either signal or server error
	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v, shutting down gracefully...", sig)

		if err := server.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
			return err
		}

		log.Println("Shutdown complete")
		return nil

	case err := <-errChan:
		// Server.Run() returned (stdin closed or error)
		if closeErr := server.Close(); closeErr != nil {
			log.Printf("Error during cleanup: %v", closeErr)
		}
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

// checkForUpdates checks for new version in background (context-aware).
func checkForUpdates(parentCtx context.Context) {
	select {
	case <-parentCtx.Done():
		return
	default:
	}

	ctx, cancel := context.WithTimeout(parentCtx, 10*time.Second)
	defer cancel()

	latest, err := version.CheckUpdate(ctx)
	if err != nil {
		log.Printf("Update check failed: %v", err)
		return
	}

	if latest != "" {
		log.Printf("Update available: %s (current: %s)", latest, version.Version)
		log.Printf("Get it at https://github.com/%s/%s/releases", version.RepoOwner, version.RepoName)
	}
}
