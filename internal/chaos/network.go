package chaos

import (
	"context"
	"sync"
	"time"

	"github.com/haasonsaas/chaoswright/internal/observability"
	"github.com/haasonsaas/chaoswright/pkg/bot"
)

// NetworkConfig parameterizes the network chaos experiment. One trigger draw
// decides between an offline burst (draw < OfflineProbability), a throttle
// window (draw < OfflineProbability+ThrottleProbability), or nothing.
type NetworkConfig struct {
	ThrottleProbability float64
	OfflineProbability  float64

	// Throttle parameters: added request latency and throughput caps.
	LatencyMin      time.Duration
	LatencyMax      time.Duration
	DownloadKbpsMin int
	DownloadKbpsMax int
	UploadKbpsMin   int
	UploadKbpsMax   int

	// Window bounds: how long degraded conditions hold before auto-restore.
	OfflineMin  time.Duration
	OfflineMax  time.Duration
	ThrottleMin time.Duration
	ThrottleMax time.Duration
}

// NetworkChaos degrades the session's network for a drawn time window while
// the bot keeps running. Restoration is scheduled as a background timer
// rather than a blocking sleep, so the bot races the degraded network; that
// race is the chaos. Restoration is guaranteed exactly once per activation:
// either the timer fires or Shutdown restores early during run teardown,
// never both, never neither.
type NetworkChaos struct {
	cfg NetworkConfig

	mu     sync.Mutex
	active *netActivation
}

// netActivation is one degradation window with its restore timer.
type netActivation struct {
	timer   *time.Timer
	once    sync.Once
	done    chan struct{}
	restore func()
}

// NewNetworkChaos creates the experiment from its configuration.
func NewNetworkChaos(cfg NetworkConfig) *NetworkChaos {
	return &NetworkChaos{cfg: cfg}
}

func (n *NetworkChaos) Name() string { return "network_chaos" }

func (n *NetworkChaos) MaybeAct(ctx context.Context, point Point, rc *RunContext, sess bot.Session) error {
	// Trigger around navigations and clicks, where real slowness hurts most.
	if point.Phase != Before {
		return nil
	}
	if point.Action != ActionGoto && point.Action != ActionClick {
		return nil
	}

	r := rc.Rand().Float64()

	switch {
	case r < n.cfg.OfflineProbability:
		window := rc.Rand().DurationBetween(n.cfg.OfflineMin, n.cfg.OfflineMax)
		cond := bot.NetworkConditions{Offline: true}
		rc.Emit(observability.EventTypeChaosNetwork, n.Name(), point.Action, map[string]interface{}{
			"mode":      "offline_burst",
			"window_ms": window.Milliseconds(),
		})
		return n.activate(rc, sess, cond, window)

	case r < n.cfg.OfflineProbability+n.cfg.ThrottleProbability:
		latency := rc.Rand().DurationBetween(n.cfg.LatencyMin, n.cfg.LatencyMax)
		downKbps := rc.Rand().IntBetween(n.cfg.DownloadKbpsMin, n.cfg.DownloadKbpsMax)
		upKbps := rc.Rand().IntBetween(n.cfg.UploadKbpsMin, n.cfg.UploadKbpsMax)
		window := rc.Rand().DurationBetween(n.cfg.ThrottleMin, n.cfg.ThrottleMax)
		cond := bot.NetworkConditions{
			Latency:      latency,
			DownloadKbps: downKbps,
			UploadKbps:   upKbps,
		}
		rc.Emit(observability.EventTypeChaosNetwork, n.Name(), point.Action, map[string]interface{}{
			"mode":       "throttle",
			"latency_ms": latency.Milliseconds(),
			"down_kbps":  downKbps,
			"up_kbps":    upKbps,
			"window_ms":  window.Milliseconds(),
		})
		return n.activate(rc, sess, cond, window)
	}

	return nil
}

// activate applies degraded conditions and schedules the restore timer. A
// still-active previous window is restored first so windows never stack.
func (n *NetworkChaos) activate(rc *RunContext, sess bot.Session, cond bot.NetworkConditions, window time.Duration) error {
	n.mu.Lock()
	if prev := n.active; prev != nil {
		prev.timer.Stop()
		prev.restore()
		n.active = nil
	}
	n.mu.Unlock()

	if err := sess.SetNetworkConditions(cond); err != nil {
		return err
	}

	act := &netActivation{done: make(chan struct{})}
	act.restore = func() {
		act.once.Do(func() {
			defer close(act.done)
			if err := sess.SetNetworkConditions(bot.NetworkConditions{}); err != nil {
				rc.Emit(observability.EventTypeChaosError, n.Name(), "", map[string]interface{}{
					"error": err.Error(),
				})
				return
			}
			rc.Emit(observability.EventTypeChaosRestore, n.Name(), "", nil)
		})
	}
	act.timer = time.AfterFunc(window, act.restore)

	n.mu.Lock()
	n.active = act
	n.mu.Unlock()
	return nil
}

// Shutdown restores baseline network conditions immediately if a degradation
// window is still open. Called at run teardown before the session is
// released, including after bot failure or cancellation; the sync.Once in the
// activation makes this safe against a concurrently firing timer.
func (n *NetworkChaos) Shutdown(ctx context.Context, sess bot.Session) error {
	n.mu.Lock()
	act := n.active
	n.active = nil
	n.mu.Unlock()

	if act == nil {
		return nil
	}

	act.timer.Stop()
	act.restore()

	select {
	case <-act.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
