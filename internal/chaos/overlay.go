package chaos

import (
	"context"
	"time"

	"github.com/haasonsaas/chaoswright/internal/observability"
	"github.com/haasonsaas/chaoswright/pkg/bot"
)

// OverlayConfig parameterizes the modal overlay experiment.
type OverlayConfig struct {
	// Probability of triggering per intercepted input action, in [0, 1].
	Probability float64

	// Min and Max bound how long the overlay stays up.
	Min time.Duration
	Max time.Duration
}

// overlayElementID is the DOM id of the injected overlay. Re-injection
// replaces any existing overlay rather than stacking a second one.
const overlayElementID = "__chaoswright_overlay__"

// overlayScript injects a viewport-covering backdrop that swallows pointer
// and keyboard input, then removes itself after the given duration. Removal
// is page-side so the overlay disappears even if the bot's next call blows up
// in the harness.
const overlayScript = `(durMs) => {
  const existing = document.getElementById("` + overlayElementID + `");
  if (existing) existing.remove();

  const overlay = document.createElement("div");
  overlay.id = "` + overlayElementID + `";
  overlay.style.position = "fixed";
  overlay.style.inset = "0";
  overlay.style.zIndex = "2147483647";
  overlay.style.background = "rgba(0,0,0,0.35)";
  overlay.style.display = "flex";
  overlay.style.alignItems = "center";
  overlay.style.justifyContent = "center";

  const box = document.createElement("div");
  box.style.width = "min(520px, 92vw)";
  box.style.background = "white";
  box.style.borderRadius = "14px";
  box.style.padding = "18px";
  box.style.fontFamily = "Arial";
  box.textContent = "Simulated overlay blocking interaction.";

  overlay.appendChild(box);
  document.body.appendChild(overlay);

  setTimeout(() => {
    const el = document.getElementById("` + overlayElementID + `");
    if (el) el.remove();
  }, durMs);
}`

// removeOverlayScript tears down any overlay still on the page.
const removeOverlayScript = `() => {
  const el = document.getElementById("` + overlayElementID + `");
  if (el) el.remove();
}`

// ModalOverlay injects a temporary input-blocking overlay before pointer and
// keyboard actions, so bots without retry or wait discipline race a briefly
// unreachable UI and lose.
type ModalOverlay struct {
	cfg      OverlayConfig
	injected bool
}

// NewModalOverlay creates the experiment from its configuration.
func NewModalOverlay(cfg OverlayConfig) *ModalOverlay {
	return &ModalOverlay{cfg: cfg}
}

func (m *ModalOverlay) Name() string { return "modal_overlay" }

func (m *ModalOverlay) MaybeAct(ctx context.Context, point Point, rc *RunContext, sess bot.Session) error {
	if point.Phase != Before || !point.Action.IsInput() {
		return nil
	}

	if rc.Rand().Float64() >= m.cfg.Probability {
		return nil
	}

	duration := rc.Rand().DurationBetween(m.cfg.Min, m.cfg.Max)
	rc.Emit(observability.EventTypeChaosOverlay, m.Name(), point.Action, map[string]interface{}{
		"duration_ms": duration.Milliseconds(),
	})

	if _, err := sess.Evaluate(overlayScript, duration.Milliseconds()); err != nil {
		// Page not ready for script injection. The controller logs this and
		// the action proceeds unblocked.
		return err
	}
	m.injected = true
	return nil
}

// Shutdown removes any overlay still on the page, so a failed run never
// leaves the DOM in a half-chaos state for later inspection.
func (m *ModalOverlay) Shutdown(ctx context.Context, sess bot.Session) error {
	if !m.injected {
		return nil
	}
	_, err := sess.Evaluate(removeOverlayScript)
	return err
}
