// Package runner drives the run loop: one freshly seeded chaos layer and one
// fresh browser session per run, bot invocation with failure capture, and
// aggregation of outcomes into a report.
package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/haasonsaas/chaoswright/internal/chaos"
	"github.com/haasonsaas/chaoswright/internal/observability"
	"github.com/haasonsaas/chaoswright/internal/session"
	"github.com/haasonsaas/chaoswright/pkg/bot"
)

// teardownTimeout bounds run teardown (network restore join, session close)
// so a stuck browser cannot wedge the whole invocation.
const teardownTimeout = 10 * time.Second

// Options configures the run loop.
type Options struct {
	Runs     int
	BaseSeed int64

	// BaseURL, when set, is navigated to before the bot is invoked. The
	// navigation goes through the chaos layer like any other call.
	BaseURL string

	// ChaosEnabled turns the chaos layer on. When false the bot gets the
	// raw session and behaves exactly as it would without the harness.
	ChaosEnabled bool

	// Experiments parameterizes the chaos layer. Shared, read-only; each
	// run builds its own experiment instances from it.
	Experiments chaos.Config

	Session session.Options

	// OnRunComplete, when set, is called after every run with its outcome.
	// The CLI uses it for per-run progress lines.
	OnRunComplete func(Outcome)
}

// Outcome is the immutable record of one run.
type Outcome struct {
	Index    int
	RunID    string
	Seed     int64
	Success  bool
	Duration time.Duration
	Err      string // captured failure detail, empty iff Success
	Events   int    // chaos events recorded during the run
}

// Runner executes a bot repeatedly under chaos. Runs are strictly
// sequential; nothing is shared between them except the read-only options.
type Runner struct {
	opts     Options
	factory  session.Factory
	logger   *observability.Logger
	timeline observability.Timeline
	metrics  *observability.Metrics
	tracer   *observability.Tracer
}

// New creates a runner. timeline, metrics, and tracer may be nil; a nil
// logger is replaced with one that discards everything.
func New(opts Options, factory session.Factory, logger *observability.Logger, timeline observability.Timeline, metrics *observability.Metrics, tracer *observability.Tracer) *Runner {
	if logger == nil {
		logger = observability.NewLogger(observability.LogConfig{Level: "error", Output: io.Discard})
	}
	return &Runner{
		opts:     opts,
		factory:  factory,
		logger:   logger,
		timeline: timeline,
		metrics:  metrics,
		tracer:   tracer,
	}
}

// Run executes the bot opts.Runs times and returns every outcome. A run's
// failure never aborts the loop; the only early exit is context
// cancellation, which still tears down the in-flight run first.
func (r *Runner) Run(ctx context.Context, fn bot.Func) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, r.opts.Runs)

	for i := 0; i < r.opts.Runs; i++ {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		outcome := r.runOnce(ctx, i, fn)
		outcomes = append(outcomes, outcome)

		if r.metrics != nil {
			status := "passed"
			if !outcome.Success {
				status = "failed"
			}
			r.metrics.RunCounter.WithLabelValues(status).Inc()
			r.metrics.RunDuration.Observe(outcome.Duration.Seconds())
		}
		if r.opts.OnRunComplete != nil {
			r.opts.OnRunComplete(outcome)
		}
	}

	return outcomes, nil
}

// runOnce executes a single run with guaranteed teardown. Every failure mode
// of the bot or the session setup ends up in the outcome, never in a
// propagated error.
func (r *Runner) runOnce(ctx context.Context, index int, fn bot.Func) Outcome {
	runID := fmt.Sprintf("run-%d-%s", index, uuid.NewString()[:8])
	seed := chaos.DeriveSeed(r.opts.BaseSeed, index)
	ctx = observability.AddRunID(ctx, runID)

	outcome := Outcome{Index: index, RunID: runID, Seed: seed}

	if r.tracer != nil {
		var span trace.Span
		ctx, span = r.tracer.Start(ctx, "bot.run",
			attribute.Int("run.index", index),
			attribute.Int64("run.seed", seed),
		)
		defer span.End()
	}

	start := time.Now()
	r.record(&observability.Event{Type: observability.EventTypeRunStart, RunID: runID})
	r.logger.Debug(ctx, "run starting", "index", index, "seed", seed)

	sess, err := r.factory.New(ctx, r.opts.Session)
	if err != nil {
		outcome.Duration = time.Since(start)
		outcome.Err = fmt.Sprintf("session setup failed: %v", err)
		r.record(&observability.Event{Type: observability.EventTypeRunEnd, RunID: runID, Error: outcome.Err})
		r.logger.Error(ctx, "session setup failed", "index", index, "error", err)
		return outcome
	}
	ctx = observability.AddSessionID(ctx, sess.ID())

	var handle bot.Session = sess
	var ctrl *chaos.Controller
	if r.opts.ChaosEnabled {
		rc := chaos.NewRunContext(runID, seed, r.timeline, r.metrics)
		ctrl = chaos.NewController(chaos.New(r.opts.Experiments), rc, sess, r.logger)
		handle = chaos.Intercept(ctx, sess, ctrl)
	}

	botErr := r.invoke(ctx, fn, handle)
	outcome.Duration = time.Since(start)

	// Teardown runs on its own context: a canceled run must still restore
	// network state and release the browser.
	tdCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), teardownTimeout)
	defer cancel()
	if ctrl != nil {
		if err := ctrl.Close(tdCtx); err != nil {
			r.logger.Warn(ctx, "chaos teardown incomplete", "index", index, "error", err)
		}
	}
	if err := sess.Close(); err != nil {
		r.logger.Warn(ctx, "session close failed", "index", index, "error", err)
	}

	outcome.Events = r.chaosEventCount(runID)

	if botErr != nil {
		outcome.Err = botErr.Error()
		r.record(&observability.Event{Type: observability.EventTypeRunEnd, RunID: runID, Error: outcome.Err})
		r.logger.Info(ctx, "run failed", "index", index, "duration", outcome.Duration, "error", botErr)
		return outcome
	}

	outcome.Success = true
	r.record(&observability.Event{Type: observability.EventTypeRunEnd, RunID: runID})
	r.logger.Info(ctx, "run passed", "index", index, "duration", outcome.Duration, "events", outcome.Events)
	return outcome
}

// invoke calls the bot with panic containment: a panicking bot fails its run
// like any other bot failure, it does not kill the harness.
func (r *Runner) invoke(ctx context.Context, fn bot.Func, handle bot.Session) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("bot panicked: %v", rec)
		}
	}()

	if r.opts.BaseURL != "" {
		if err := handle.Goto(r.opts.BaseURL); err != nil {
			return fmt.Errorf("base navigation failed: %w", err)
		}
	}
	return fn(ctx, handle)
}

func (r *Runner) record(event *observability.Event) {
	if r.timeline != nil {
		_ = r.timeline.Record(event)
	}
}

// chaosEventCount counts the experiment events of one run, excluding the run
// boundary markers.
func (r *Runner) chaosEventCount(runID string) int {
	if r.timeline == nil {
		return 0
	}
	n := 0
	for _, e := range r.timeline.ByRun(runID) {
		switch e.Type {
		case observability.EventTypeRunStart, observability.EventTypeRunEnd:
		default:
			n++
		}
	}
	return n
}
