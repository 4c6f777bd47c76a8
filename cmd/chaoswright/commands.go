// Package main provides the CLI entry point for the chaoswright harness.
//
// commands.go contains all cobra command definitions and their flag
// configurations. Each command builder function creates a command and wires
// it to its handler.
package main

import (
	"time"

	"github.com/spf13/cobra"
)

// runFlags carries the run command's flag values. Zero values mean "not
// set"; the handler only overrides the config file where the flag was
// actually passed, which is why Changed is tracked per flag.
type runFlags struct {
	configPath  string
	runs        int
	seed        int64
	baseURL     string
	noChaos     bool
	headed      bool
	timeout     time.Duration
	logLevel    string
	logFormat   string
	debug       bool
	metricsAddr string
	eventsPath  string
}

// =============================================================================
// Run Command
// =============================================================================

// buildRunCmd creates the "run" command, the primary entry point: execute a
// registered bot N times under chaos and print the report.
func buildRunCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <bot>",
		Short: "Run a bot repeatedly under chaos and report pass/fail",
		Long: `Run a registered bot multiple times and report pass/fail plus duration.

Each run gets a fresh browser session and a seed derived deterministically
from the base seed and the run index. Re-running with the same base seed
reproduces the same chaos decisions in every run.`,
		Example: `  # Five runs of the resilient demo bot under default chaos
  chaoswright run todomvc

  # Reproduce run seed behavior across invocations
  chaoswright run fragile --runs 10 --seed 1337

  # Baseline without chaos, watching the browser
  chaoswright run todomvc --no-chaos --headed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "",
		"Path to YAML configuration file (defaults apply when omitted)")
	cmd.Flags().IntVarP(&flags.runs, "runs", "n", 0,
		"How many executions to perform")
	cmd.Flags().Int64Var(&flags.seed, "seed", 0,
		"Base seed for deterministic chaos (each run derives its own seed from it)")
	cmd.Flags().StringVar(&flags.baseURL, "base-url", "",
		"URL to open before calling the bot")
	cmd.Flags().BoolVar(&flags.noChaos, "no-chaos", false,
		"Disable chaos injection for a clean baseline")
	cmd.Flags().BoolVar(&flags.headed, "headed", false,
		"Show the browser instead of running headless")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0,
		"Default timeout for individual page operations (e.g. 30s)")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "",
		"Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", "",
		"Log format: text or json")
	cmd.Flags().BoolVarP(&flags.debug, "debug", "d", false,
		"Enable debug logging (verbose output)")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "",
		"Listen address for the Prometheus endpoint (e.g. localhost:9290)")
	cmd.Flags().StringVar(&flags.eventsPath, "events-json", "",
		"Write the full chaos event timeline to this file as JSON")

	return cmd
}

// =============================================================================
// Bots Command
// =============================================================================

// buildBotsCmd creates the "bots" command listing the registered bots.
func buildBotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bots",
		Short: "List the registered bots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBots(cmd)
		},
	}
}

// =============================================================================
// Version Command
// =============================================================================

func buildVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd)
		},
	}
}
