package chaos

import (
	"context"

	"github.com/haasonsaas/chaoswright/pkg/bot"
)

// Phase says whether an interception hook runs before or after the wrapped
// session call.
type Phase int

const (
	Before Phase = iota
	After
)

func (p Phase) String() string {
	if p == Before {
		return "before"
	}
	return "after"
}

// Action identifies the session operation category being intercepted.
type Action string

const (
	ActionGoto  Action = "goto"
	ActionClick Action = "click"
	ActionFill  Action = "fill"
	ActionType  Action = "type"
	ActionPress Action = "press"
	ActionWait  Action = "wait"
)

// IsInput reports whether the action is a pointer/keyboard interaction, the
// kind a blocking overlay can break.
func (a Action) IsInput() bool {
	switch a {
	case ActionClick, ActionFill, ActionType, ActionPress:
		return true
	}
	return false
}

// Point tags one interception hook invocation.
type Point struct {
	Phase  Phase
	Action Action
}

// Experiment is one configured unit of chaos. MaybeAct is invoked at every
// interception point; the experiment decides relevance from the point, then
// draws exactly one trigger value from the run's randomness source (trigger
// iff draw < probability) so the draw sequence stays stable across
// probability settings.
//
// MaybeAct acts on the raw session handle, never the interceptor, so an
// experiment's own session calls are not themselves intercepted.
//
// A returned error is an internal experiment defect. The controller logs it
// and treats the call as "did not trigger"; it never reaches the bot.
type Experiment interface {
	Name() string
	MaybeAct(ctx context.Context, point Point, rc *RunContext, sess bot.Session) error
}

// shutdowner is implemented by experiments that hold background state (the
// network restore timer, a lingering overlay). The controller shuts them down
// at run teardown, before the session is released.
type shutdowner interface {
	Shutdown(ctx context.Context, sess bot.Session) error
}

// Config selects and parameterizes the experiments for a run. A nil entry
// disables that experiment. The order here is the fixed order experiments
// fire in at every interception point: delay, overlay, network.
type Config struct {
	Delay   *DelayConfig
	Overlay *OverlayConfig
	Network *NetworkConfig
}

// New builds a fresh experiment list from cfg. Experiments carry per-run
// internal state, so a new list is built for every run; cfg itself is shared,
// read-only, across all runs.
func New(cfg Config) []Experiment {
	var experiments []Experiment
	if cfg.Delay != nil {
		experiments = append(experiments, NewRandomDelay(*cfg.Delay))
	}
	if cfg.Overlay != nil {
		experiments = append(experiments, NewModalOverlay(*cfg.Overlay))
	}
	if cfg.Network != nil {
		experiments = append(experiments, NewNetworkChaos(*cfg.Network))
	}
	return experiments
}
