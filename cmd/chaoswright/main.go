// Package main provides the CLI entry point for the chaoswright harness.
//
// Chaoswright runs a browser automation bot repeatedly while injecting
// deterministic chaos between the bot and the page: random delays, blocking
// overlays, and degraded network conditions. The same seed always produces
// the same chaos, so a failing run can be replayed exactly.
//
// # Basic Usage
//
// Run the built-in resilient demo bot five times under chaos:
//
//	chaoswright run todomvc
//
// Replay one failing run of the brittle bot:
//
//	chaoswright run fragile --runs 1 --seed 1337
//
// Run without chaos to establish a baseline:
//
//	chaoswright run todomvc --no-chaos
//
// List the available bots:
//
//	chaoswright bots
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Build information - populated by ldflags during build.
//
// Example build command:
//
//	go build -ldflags "-X main.version=v1.0.0 -X main.commit=$(git rev-parse HEAD) -X main.date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	version = "dev"     // Semantic version (e.g., "v1.0.0")
	commit  = "none"    // Git commit SHA
	date    = "unknown" // Build timestamp
)

func main() {
	rootCmd := buildRootCmd()

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

// buildRootCmd creates the root command with all subcommands attached.
// Separated from main() to facilitate testing.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chaoswright",
		Short: "Chaoswright - deterministic chaos harness for browser bots",
		Long: `Chaoswright runs a browser bot repeatedly while injecting reproducible
chaos between the bot and the page.

Experiments: random delays, blocking modal overlays, network throttling
and offline windows. Every run is seeded deterministically, so the same
base seed replays the same chaos sequence.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		// SilenceUsage prevents printing usage on every error.
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		buildRunCmd(),
		buildBotsCmd(),
		buildVersionCmd(),
	)

	return rootCmd
}
