package chaos

import (
	"context"
	"fmt"

	"github.com/haasonsaas/chaoswright/internal/observability"
	"github.com/haasonsaas/chaoswright/pkg/bot"
)

// RunContext is the per-run chaos state: the derived seed, the randomness
// source built from it, and the sinks experiments emit into. It is built
// fresh for every run and discarded with it; no draw or event ever crosses
// run boundaries.
type RunContext struct {
	RunID string
	Seed  int64

	rand     *Rand
	timeline observability.Timeline
	metrics  *observability.Metrics
}

// NewRunContext creates the chaos state for one run.
func NewRunContext(runID string, seed int64, timeline observability.Timeline, metrics *observability.Metrics) *RunContext {
	return &RunContext{
		RunID:    runID,
		Seed:     seed,
		rand:     NewRand(seed),
		timeline: timeline,
		metrics:  metrics,
	}
}

// Rand returns the run's randomness source.
func (rc *RunContext) Rand() *Rand {
	return rc.rand
}

// Emit records one chaos event on the timeline and bumps trigger metrics.
func (rc *RunContext) Emit(typ observability.EventType, experiment string, action Action, data map[string]interface{}) {
	if rc.timeline != nil {
		_ = rc.timeline.Record(&observability.Event{
			Type:       typ,
			RunID:      rc.RunID,
			Experiment: experiment,
			Action:     string(action),
			Data:       data,
		})
	}
	if rc.metrics == nil {
		return
	}
	switch typ {
	case observability.EventTypeChaosRestore:
		rc.metrics.NetworkRestores.Inc()
	case observability.EventTypeChaosError:
		rc.metrics.ExperimentErrors.WithLabelValues(experiment).Inc()
	default:
		rc.metrics.ExperimentTriggers.WithLabelValues(experiment, string(action)).Inc()
	}
}

// Controller fans interception hooks out to every experiment in fixed
// configuration order. Experiments act on the raw session it holds, and
// nothing an experiment does, error or panic, ever fails the hook: a
// misbehaving fault injector must not fail the bot, only an injected fault
// changing application behavior may.
type Controller struct {
	experiments []Experiment
	rc          *RunContext
	sess        bot.Session
	logger      *observability.Logger
}

// NewController wires the experiment list to one run's context and raw
// session.
func NewController(experiments []Experiment, rc *RunContext, sess bot.Session, logger *observability.Logger) *Controller {
	return &Controller{
		experiments: experiments,
		rc:          rc,
		sess:        sess,
		logger:      logger,
	}
}

// Hook invokes every experiment at the given interception point, first to
// last. Internal experiment failures are demoted to logged chaos-layer
// events and counted; the hook itself never fails.
func (c *Controller) Hook(ctx context.Context, point Point) {
	for _, exp := range c.experiments {
		if err := c.invoke(ctx, exp, point); err != nil {
			c.rc.Emit(observability.EventTypeChaosError, exp.Name(), point.Action, map[string]interface{}{
				"error": err.Error(),
			})
			if c.logger != nil {
				c.logger.Warn(ctx, "experiment error demoted to no-op",
					"experiment", exp.Name(),
					"action", string(point.Action),
					"phase", point.Phase.String(),
					"error", err)
			}
		}
	}
}

// invoke calls one experiment with panic containment.
func (c *Controller) invoke(ctx context.Context, exp Experiment, point Point) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("experiment panicked: %v", r)
		}
	}()
	return exp.MaybeAct(ctx, point, c.rc, c.sess)
}

// Close shuts down experiments that hold background state: the network
// restore timer is stopped and joined, a lingering overlay is removed. Must
// run during run teardown before the session is released, so no background
// mutation leaks into the next run.
func (c *Controller) Close(ctx context.Context) error {
	var firstErr error
	for _, exp := range c.experiments {
		s, ok := exp.(shutdowner)
		if !ok {
			continue
		}
		if err := s.Shutdown(ctx, c.sess); err != nil {
			if c.logger != nil {
				c.logger.Warn(ctx, "experiment shutdown error",
					"experiment", exp.Name(), "error", err)
			}
			if firstErr == nil {
				firstErr = fmt.Errorf("shutdown %s: %w", exp.Name(), err)
			}
		}
	}
	return firstErr
}
