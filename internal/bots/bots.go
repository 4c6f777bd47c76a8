// Package bots ships the built-in demonstration bots. They drive the public
// TodoMVC demo app and exist at the two ends of the robustness spectrum: one
// retries its way through injected chaos, the other falls over on the first
// overlay it meets.
package bots

import "github.com/haasonsaas/chaoswright/pkg/bot"

// TodoURL is the app both demo bots drive.
const TodoURL = "https://demo.playwright.dev/todomvc/"

// RegisterAll adds every built-in bot to the registry.
func RegisterAll(r *bot.Registry) error {
	if err := r.Register("todomvc", TodoMVC); err != nil {
		return err
	}
	return r.Register("fragile", Fragile)
}
