package chaos

import (
	"context"
	"testing"
	"time"

	"github.com/haasonsaas/chaoswright/pkg/bot"
)

func offlineConfig(window time.Duration) NetworkConfig {
	return NetworkConfig{
		OfflineProbability: 1,
		OfflineMin:         window,
		OfflineMax:         window,
	}
}

func TestNetworkChaosOfflineBurstAutoRestores(t *testing.T) {
	n := NewNetworkChaos(offlineConfig(30 * time.Millisecond))
	rc, _ := newTestRunContext(42)
	sess := &fakeSession{}

	if err := n.MaybeAct(context.Background(), Point{Before, ActionGoto}, rc, sess); err != nil {
		t.Fatalf("MaybeAct() error = %v", err)
	}

	conds := sess.Conditions()
	if len(conds) != 1 || !conds[0].Offline {
		t.Fatalf("expected one offline condition, got %v", conds)
	}

	// The restore fires in the background while the bot would keep running.
	deadline := time.After(2 * time.Second)
	for len(sess.Conditions()) < 2 {
		select {
		case <-deadline:
			t.Fatal("network conditions were never restored")
		case <-time.After(5 * time.Millisecond):
		}
	}

	conds = sess.Conditions()
	if !conds[len(conds)-1].IsZero() {
		t.Errorf("final conditions = %v, want baseline", conds[len(conds)-1])
	}
}

func TestNetworkChaosShutdownRestoresEarly(t *testing.T) {
	n := NewNetworkChaos(offlineConfig(time.Hour))
	rc, _ := newTestRunContext(42)
	sess := &fakeSession{}

	if err := n.MaybeAct(context.Background(), Point{Before, ActionClick}, rc, sess); err != nil {
		t.Fatalf("MaybeAct() error = %v", err)
	}
	if err := n.Shutdown(context.Background(), sess); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	conds := sess.Conditions()
	if len(conds) != 2 {
		t.Fatalf("got %d condition changes, want degrade + restore", len(conds))
	}
	if !conds[1].IsZero() {
		t.Errorf("restore set %v, want baseline", conds[1])
	}

	// Shutdown after restore is a no-op; restoration happens exactly once.
	if err := n.Shutdown(context.Background(), sess); err != nil {
		t.Fatalf("second Shutdown() error = %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if got := len(sess.Conditions()); got != 2 {
		t.Errorf("got %d condition changes after double shutdown, want 2", got)
	}
}

func TestNetworkChaosRestoreExactlyOnceUnderRace(t *testing.T) {
	// Window short enough that the timer races Shutdown.
	n := NewNetworkChaos(offlineConfig(5 * time.Millisecond))
	rc, _ := newTestRunContext(42)
	sess := &fakeSession{}

	if err := n.MaybeAct(context.Background(), Point{Before, ActionGoto}, rc, sess); err != nil {
		t.Fatalf("MaybeAct() error = %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := n.Shutdown(context.Background(), sess); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	restores := 0
	for _, c := range sess.Conditions() {
		if c.IsZero() {
			restores++
		}
	}
	if restores != 1 {
		t.Errorf("got %d restorations, want exactly 1", restores)
	}
}

func TestNetworkChaosThrottleDrawsWithinBounds(t *testing.T) {
	cfg := NetworkConfig{
		ThrottleProbability: 1,
		LatencyMin:          300 * time.Millisecond,
		LatencyMax:          1200 * time.Millisecond,
		DownloadKbpsMin:     200,
		DownloadKbpsMax:     1500,
		UploadKbpsMin:       100,
		UploadKbpsMax:       800,
		ThrottleMin:         time.Hour,
		ThrottleMax:         time.Hour,
	}
	n := NewNetworkChaos(cfg)
	rc, timeline := newTestRunContext(42)
	sess := &fakeSession{}

	if err := n.MaybeAct(context.Background(), Point{Before, ActionGoto}, rc, sess); err != nil {
		t.Fatalf("MaybeAct() error = %v", err)
	}
	defer func() {
		if err := n.Shutdown(context.Background(), sess); err != nil {
			t.Errorf("Shutdown() error = %v", err)
		}
	}()

	conds := sess.Conditions()
	if len(conds) != 1 {
		t.Fatalf("got %d condition changes, want 1", len(conds))
	}
	c := conds[0]
	if c.Offline {
		t.Error("throttle mode should stay online")
	}
	if c.Latency < cfg.LatencyMin || c.Latency > cfg.LatencyMax {
		t.Errorf("latency %v outside [%v, %v]", c.Latency, cfg.LatencyMin, cfg.LatencyMax)
	}
	if c.DownloadKbps < cfg.DownloadKbpsMin || c.DownloadKbps > cfg.DownloadKbpsMax {
		t.Errorf("download %d outside bounds", c.DownloadKbps)
	}
	if c.UploadKbps < cfg.UploadKbpsMin || c.UploadKbps > cfg.UploadKbpsMax {
		t.Errorf("upload %d outside bounds", c.UploadKbps)
	}

	events := timeline.ByRun("run-test")
	if len(events) != 1 || events[0].Data["mode"] != "throttle" {
		t.Errorf("expected one throttle event, got %v", events)
	}
}

func TestNetworkChaosIgnoresIrrelevantActions(t *testing.T) {
	n := NewNetworkChaos(offlineConfig(time.Hour))
	rc, _ := newTestRunContext(42)
	sess := &fakeSession{}

	for _, p := range []Point{
		{Before, ActionFill},
		{Before, ActionWait},
		{After, ActionGoto},
	} {
		if err := n.MaybeAct(context.Background(), p, rc, sess); err != nil {
			t.Fatalf("MaybeAct(%v) error = %v", p, err)
		}
	}
	if got := len(sess.Conditions()); got != 0 {
		t.Errorf("irrelevant actions changed conditions %d times, want 0", got)
	}
}

func TestNetworkChaosNewActivationRestoresPrevious(t *testing.T) {
	n := NewNetworkChaos(offlineConfig(time.Hour))
	rc, _ := newTestRunContext(42)
	sess := &fakeSession{}

	for i := 0; i < 2; i++ {
		if err := n.MaybeAct(context.Background(), Point{Before, ActionGoto}, rc, sess); err != nil {
			t.Fatalf("MaybeAct() #%d error = %v", i, err)
		}
	}
	defer func() {
		if err := n.Shutdown(context.Background(), sess); err != nil {
			t.Errorf("Shutdown() error = %v", err)
		}
	}()

	// degrade, restore (previous window), degrade again
	conds := sess.Conditions()
	if len(conds) != 3 {
		t.Fatalf("got %d condition changes, want 3", len(conds))
	}
	if !conds[0].Offline || !conds[1].IsZero() || !conds[2].Offline {
		t.Errorf("unexpected sequence: %v", conds)
	}
}

func TestNetworkConditionsZeroValueIsBaseline(t *testing.T) {
	var cond bot.NetworkConditions
	if !cond.IsZero() {
		t.Error("zero NetworkConditions must mean no emulation")
	}
}
