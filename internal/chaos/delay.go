package chaos

import (
	"context"
	"time"

	"github.com/haasonsaas/chaoswright/internal/observability"
	"github.com/haasonsaas/chaoswright/pkg/bot"
)

// DelayConfig parameterizes the random delay experiment.
type DelayConfig struct {
	// Probability of triggering per intercepted action, in [0, 1].
	Probability float64

	// Min and Max bound the injected delay. Min == Max gives a fixed delay.
	Min time.Duration
	Max time.Duration
}

// RandomDelay blocks the bot's goroutine for a random duration before an
// action proceeds, simulating a slow or janky page. The sleep is intentional
// foreground blocking: it must show up in the bot's perceived timing.
type RandomDelay struct {
	cfg DelayConfig
}

// NewRandomDelay creates the experiment from its configuration.
func NewRandomDelay(cfg DelayConfig) *RandomDelay {
	return &RandomDelay{cfg: cfg}
}

func (d *RandomDelay) Name() string { return "random_delay" }

func (d *RandomDelay) MaybeAct(ctx context.Context, point Point, rc *RunContext, sess bot.Session) error {
	if point.Phase != Before {
		return nil
	}
	if !point.Action.IsInput() && point.Action != ActionGoto {
		return nil
	}

	if rc.Rand().Float64() >= d.cfg.Probability {
		return nil
	}

	delay := rc.Rand().DurationBetween(d.cfg.Min, d.cfg.Max)
	rc.Emit(observability.EventTypeChaosDelay, d.Name(), point.Action, map[string]interface{}{
		"delay_ms": delay.Milliseconds(),
	})

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
