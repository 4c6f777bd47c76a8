// Package session owns the browser collaborator boundary: launching
// Chromium through Playwright, handing out one page-backed session per run,
// and tearing it down again. The harness core never touches Playwright
// directly; it sees bot.Session and nothing else.
package session

import (
	"context"
	"time"

	"github.com/haasonsaas/chaoswright/pkg/bot"
)

// Session is a bot-facing session handle plus its teardown. The orchestrator
// owns Close; bots only ever see the bot.Session part.
type Session interface {
	bot.Session

	// ID identifies this session in logs and the event timeline.
	ID() string

	// Close releases the page, context, and browser backing this session.
	Close() error
}

// Options configures one session.
type Options struct {
	Headless       bool
	ViewportWidth  int
	ViewportHeight int

	// DefaultTimeout bounds individual page operations until a bot
	// overrides it. Zero means 30 seconds.
	DefaultTimeout time.Duration
}

// Factory creates a fresh session per run. The Playwright implementation
// lives in this package; tests substitute in-memory fakes.
type Factory interface {
	// New prepares a session. A failure here is a setup failure: the run is
	// recorded as failed and the harness moves on.
	New(ctx context.Context, opts Options) (Session, error)

	// Close releases resources shared across sessions (the Playwright
	// driver itself).
	Close() error
}
