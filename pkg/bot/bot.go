// Package bot defines the contract between user-written automation routines
// and the chaos harness.
//
// A bot is a plain function that drives a browser session:
//
//	func CheckoutFlow(ctx context.Context, s bot.Session) error {
//	    if err := s.Goto("https://shop.example.com"); err != nil {
//	        return err
//	    }
//	    return s.Click("#buy-now")
//	}
//
// Bots are written against the Session interface only. The harness hands the
// bot either a raw Playwright-backed session or a chaos-wrapped one; the bot
// cannot tell the difference, which is the point.
package bot

import (
	"context"
	"time"
)

// Session is the full operation surface a bot may call. The harness wraps the
// real Playwright page behind this interface so chaos experiments can observe
// every call without changing its signature or semantics.
type Session interface {
	// Goto navigates to the given URL and waits for the load state.
	Goto(url string) error

	// Click clicks the first element matching the selector.
	Click(selector string) error

	// Fill sets the value of the first input matching the selector.
	Fill(selector, value string) error

	// Type types text into the element matching the selector, key by key.
	Type(selector, text string) error

	// Press sends a single key press to the element matching the selector.
	Press(selector, key string) error

	// WaitForSelector blocks until an element matching the selector is visible.
	WaitForSelector(selector string) error

	// Count reports how many elements currently match the selector.
	Count(selector string) (int, error)

	// Evaluate runs a JavaScript expression in the page and returns its result.
	Evaluate(script string, args ...interface{}) (interface{}, error)

	// SetDefaultTimeout sets the timeout applied to subsequent operations.
	SetDefaultTimeout(d time.Duration)

	// SetNetworkConditions overrides the session's network emulation. The zero
	// value restores normal, unthrottled conditions.
	SetNetworkConditions(cond NetworkConditions) error
}

// NetworkConditions describes emulated network state for a session. The zero
// value means "no emulation": online, no added latency, unlimited throughput.
type NetworkConditions struct {
	Offline      bool
	Latency      time.Duration
	DownloadKbps int // 0 means unlimited
	UploadKbps   int // 0 means unlimited
}

// IsZero reports whether cond is the baseline (no emulation) state.
func (c NetworkConditions) IsZero() bool {
	return !c.Offline && c.Latency == 0 && c.DownloadKbps == 0 && c.UploadKbps == 0
}

// Func is the bot callable invoked once per run. Returning a non-nil error
// marks the run as failed; the harness records it and moves on to the next run.
type Func func(ctx context.Context, s Session) error
