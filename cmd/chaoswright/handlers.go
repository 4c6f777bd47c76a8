// Package main provides the CLI entry point for the chaoswright harness.
//
// handlers.go contains the RunE handler functions for all CLI commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/haasonsaas/chaoswright/internal/bots"
	"github.com/haasonsaas/chaoswright/internal/config"
	"github.com/haasonsaas/chaoswright/internal/observability"
	"github.com/haasonsaas/chaoswright/internal/runner"
	"github.com/haasonsaas/chaoswright/internal/session"
	"github.com/haasonsaas/chaoswright/pkg/bot"
)

// =============================================================================
// Run Command Handler
// =============================================================================

// runRun implements the run command: load and validate configuration, wire
// the observability stack, execute the run loop, and print the report.
func runRun(cmd *cobra.Command, botName string, flags runFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagOverrides(cmd, cfg, flags)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := cfg.Logging.Level
	if flags.debug {
		level = "debug"
	}
	logger := observability.NewLogger(observability.LogConfig{
		Level:  level,
		Format: cfg.Logging.Format,
	})

	registry := bot.NewRegistry()
	if err := bots.RegisterAll(registry); err != nil {
		return fmt.Errorf("failed to register bots: %w", err)
	}
	fn, err := registry.Resolve(botName)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = observability.AddBot(ctx, botName)

	metrics := observability.NewMetrics()
	if cfg.Metrics.Addr != "" {
		stopMetrics := serveMetrics(ctx, cfg.Metrics.Addr, metrics, logger)
		defer stopMetrics()
	}

	tracer, shutdownTracer := observability.NewTracer(observability.TraceConfig{
		ServiceName:    "chaoswright",
		ServiceVersion: version,
		Endpoint:       cfg.Tracing.Endpoint,
		EnableInsecure: cfg.Tracing.Insecure,
	})
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			logger.Warn(ctx, "tracer shutdown failed", "error", err)
		}
	}()

	timeline := observability.NewMemoryTimeline(10000)

	factory, err := session.NewPlaywrightFactory()
	if err != nil {
		return fmt.Errorf("failed to initialize browser driver: %w", err)
	}
	defer func() {
		if err := factory.Close(); err != nil {
			logger.Warn(ctx, "browser driver shutdown failed", "error", err)
		}
	}()

	chaosTag := "chaos"
	if !cfg.Harness.Chaos {
		chaosTag = "no-chaos"
	}
	out := cmd.OutOrStdout()

	opts := runner.Options{
		Runs:         cfg.Harness.Runs,
		BaseSeed:     cfg.Harness.Seed,
		BaseURL:      cfg.Harness.BaseURL,
		ChaosEnabled: cfg.Harness.Chaos,
		Experiments:  cfg.Chaos.Experiments(),
		Session: session.Options{
			Headless:       cfg.Browser.Headless,
			ViewportWidth:  cfg.Browser.ViewportWidth,
			ViewportHeight: cfg.Browser.ViewportHeight,
			DefaultTimeout: time.Duration(cfg.Browser.DefaultTimeoutMs) * time.Millisecond,
		},
		OnRunComplete: func(o runner.Outcome) {
			status := "OK"
			if !o.Success {
				status = "FAIL"
			}
			fmt.Fprintf(out, "Run %d/%d: %s (%d ms) %s seed=%d events=%d\n",
				o.Index+1, cfg.Harness.Runs, status, o.Duration.Milliseconds(),
				chaosTag, o.Seed, o.Events)
		},
	}

	logger.Info(ctx, "starting run loop",
		"bot", botName,
		"runs", cfg.Harness.Runs,
		"seed", cfg.Harness.Seed,
		"chaos", cfg.Harness.Chaos,
		"version", version,
	)

	r := runner.New(opts, factory, logger, timeline, metrics, tracer)
	outcomes, runErr := r.Run(ctx, fn)

	summary := runner.Summarize(outcomes)
	printReport(out, botName, cfg, summary)
	if failure, ok := runner.FirstFailure(outcomes); ok {
		fmt.Fprintf(out, "\nFailures (first shown):\n\n")
		fmt.Fprintf(out, "Run #%d failed after %d ms\n\n%s\n",
			failure.Index+1, failure.Duration.Milliseconds(), failure.Err)
	}

	if flags.eventsPath != "" {
		if err := writeEvents(flags.eventsPath, timeline); err != nil {
			return fmt.Errorf("failed to write events file: %w", err)
		}
		fmt.Fprintf(out, "\nEvent timeline written to %s\n", flags.eventsPath)
	}

	if runErr != nil {
		return fmt.Errorf("run loop interrupted: %w", runErr)
	}
	if !summary.AllPassed() {
		return fmt.Errorf("%d of %d runs failed", summary.Failed, summary.Total)
	}
	return nil
}

// applyFlagOverrides layers explicitly passed flags over the loaded config.
// Only flags the user actually set participate, so config file values
// survive unless overridden.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, flags runFlags) {
	set := cmd.Flags().Changed
	if set("runs") {
		cfg.Harness.Runs = flags.runs
	}
	if set("seed") {
		cfg.Harness.Seed = flags.seed
	}
	if set("base-url") {
		cfg.Harness.BaseURL = flags.baseURL
	}
	if set("no-chaos") {
		cfg.Harness.Chaos = !flags.noChaos
	}
	if set("headed") {
		cfg.Browser.Headless = !flags.headed
	}
	if set("timeout") {
		cfg.Browser.DefaultTimeoutMs = int(flags.timeout.Milliseconds())
	}
	if set("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if set("log-format") {
		cfg.Logging.Format = flags.logFormat
	}
	if set("metrics-addr") {
		cfg.Metrics.Addr = flags.metricsAddr
	}
}

// serveMetrics starts the Prometheus endpoint and returns a function that
// shuts it down.
func serveMetrics(ctx context.Context, addr string, metrics *observability.Metrics, logger *observability.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info(ctx, "metrics endpoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn(ctx, "metrics endpoint failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

// printReport renders the summary table.
func printReport(out io.Writer, botName string, cfg *config.Config, s runner.Summary) {
	chaosEnabled := "No"
	if cfg.Harness.Chaos {
		chaosEnabled = "Yes"
	}

	fmt.Fprintf(out, "\nChaoswright - Report\n")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Bot\t%s\n", botName)
	fmt.Fprintf(w, "Runs\t%d\n", s.Total)
	fmt.Fprintf(w, "Passed\t%d\n", s.Passed)
	fmt.Fprintf(w, "Failed\t%d\n", s.Failed)
	fmt.Fprintf(w, "Pass rate\t%.0f%%\n", s.PassRate*100)
	fmt.Fprintf(w, "Avg duration\t%d ms\n", s.MeanDuration.Milliseconds())
	fmt.Fprintf(w, "Min duration\t%d ms\n", s.MinDuration.Milliseconds())
	fmt.Fprintf(w, "Max duration\t%d ms\n", s.MaxDuration.Milliseconds())
	fmt.Fprintf(w, "Chaos enabled\t%s\n", chaosEnabled)
	fmt.Fprintf(w, "Base seed\t%d\n", cfg.Harness.Seed)
	fmt.Fprintf(w, "Total chaos events\t%d\n", s.Events)
	_ = w.Flush()
}

// writeEvents dumps the full event timeline as indented JSON.
func writeEvents(path string, timeline observability.Timeline) error {
	data, err := json.MarshalIndent(timeline.All(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// =============================================================================
// Bots Command Handler
// =============================================================================

// runBots lists the registered bots.
func runBots(cmd *cobra.Command) error {
	registry := bot.NewRegistry()
	if err := bots.RegisterAll(registry); err != nil {
		return err
	}
	for _, name := range registry.Names() {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

// =============================================================================
// Version Command Handler
// =============================================================================

func runVersion(cmd *cobra.Command) error {
	fmt.Fprintf(cmd.OutOrStdout(), "chaoswright %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	return nil
}
