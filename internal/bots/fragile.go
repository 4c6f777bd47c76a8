package bots

import (
	"context"
	"fmt"
	"time"

	"github.com/haasonsaas/chaoswright/pkg/bot"
)

// Fragile is the deliberately brittle demo bot: short timeouts, fixed
// sleeps, no retries, no verification between steps. It exists to show what
// the chaos layer does to automation written this way.
func Fragile(ctx context.Context, s bot.Session) error {
	s.SetDefaultTimeout(1500 * time.Millisecond)

	if err := s.Goto(TodoURL); err != nil {
		return err
	}

	if err := s.Click(newTodoInput); err != nil {
		return err
	}
	pause(ctx)
	if err := s.Fill(newTodoInput, "write chaos tool"); err != nil {
		return err
	}
	pause(ctx)
	if err := s.Press(newTodoInput, "Enter"); err != nil {
		return err
	}
	pause(ctx)

	for _, name := range []string{"Active", "Completed", "All"} {
		if err := s.Click(filterLink(name)); err != nil {
			return err
		}
		pause(ctx)
	}

	n, err := s.Count(itemSelector("write chaos tool"))
	if err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("item missing after filter round trip: count = %d", n)
	}
	return nil
}

// pause is the fixed 50ms sleep pattern this bot is built on. Fixed sleeps
// plus injected chaos is exactly the failure mode the harness demonstrates.
func pause(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(50 * time.Millisecond):
	}
}
