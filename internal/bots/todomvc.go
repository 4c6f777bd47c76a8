package bots

import (
	"context"
	"fmt"
	"time"

	"github.com/haasonsaas/chaoswright/internal/retry"
	"github.com/haasonsaas/chaoswright/pkg/bot"
)

const (
	newTodoInput   = "input.new-todo"
	completedItems = "li.completed"
	clearCompleted = "button.clear-completed"
)

func itemSelector(text string) string {
	return fmt.Sprintf(`li:has-text("%s")`, text)
}

func filterLink(name string) string {
	return fmt.Sprintf(`ul.filters >> text="%s"`, name)
}

// step retries fn until it stops failing or its budget runs out, the
// chaos-tolerant way to drive a page that may be blocked by an overlay or an
// offline window at any moment.
func step(ctx context.Context, label string, fn func() error) error {
	cfg := retry.Linear(33, 300*time.Millisecond)
	if err := retry.Do(ctx, cfg, fn); err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	return nil
}

// TodoMVC is the resilient demo bot. Every interaction verifies its own
// outcome and retries on failure, so injected delays, overlays, and network
// degradation slow it down without breaking it.
func TodoMVC(ctx context.Context, s bot.Session) error {
	s.SetDefaultTimeout(5 * time.Second)

	if err := step(ctx, "open app", func() error {
		return s.Goto(TodoURL)
	}); err != nil {
		return err
	}

	items := []string{"buy milk", "write chaos tool", "fix flaky bot"}

	for _, text := range items {
		text := text
		if err := step(ctx, "add item "+text, func() error {
			if err := s.Click(newTodoInput); err != nil {
				return err
			}
			if err := s.Fill(newTodoInput, text); err != nil {
				return err
			}
			if err := s.Press(newTodoInput, "Enter"); err != nil {
				return err
			}
			return expectCount(s, itemSelector(text), 1, "item not created")
		}); err != nil {
			return err
		}
	}

	if err := step(ctx, "toggle completed", func() error {
		if err := s.Click(itemSelector("buy milk") + " >> input.toggle"); err != nil {
			return err
		}
		return expectCount(s, completedItems, 1, "expected one completed item")
	}); err != nil {
		return err
	}

	if err := step(ctx, "filter Active", func() error {
		if err := s.Click(filterLink("Active")); err != nil {
			return err
		}
		if err := expectCount(s, itemSelector("buy milk"), 0, "completed item visible in Active"); err != nil {
			return err
		}
		return expectCount(s, itemSelector("write chaos tool"), 1, "active item missing in Active")
	}); err != nil {
		return err
	}

	if err := step(ctx, "filter Completed", func() error {
		if err := s.Click(filterLink("Completed")); err != nil {
			return err
		}
		if err := expectCount(s, itemSelector("buy milk"), 1, "completed item missing in Completed"); err != nil {
			return err
		}
		return expectCount(s, itemSelector("write chaos tool"), 0, "active item visible in Completed")
	}); err != nil {
		return err
	}

	if err := step(ctx, "filter All", func() error {
		if err := s.Click(filterLink("All")); err != nil {
			return err
		}
		for _, text := range items {
			if err := expectCount(s, itemSelector(text), 1, "item missing in All"); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	// The clear button only exists while a completed item does; skip
	// quietly when it is gone.
	return step(ctx, "clear completed", func() error {
		n, err := s.Count(clearCompleted)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if err := s.Click(clearCompleted); err != nil {
			return err
		}
		return expectCount(s, completedItems, 0, "completed items not cleared")
	})
}

func expectCount(s bot.Session, selector string, want int, msg string) error {
	got, err := s.Count(selector)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%s: %q count = %d, want %d", msg, selector, got, want)
	}
	return nil
}
