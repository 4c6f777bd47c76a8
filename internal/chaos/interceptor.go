package chaos

import (
	"context"
	"time"

	"github.com/haasonsaas/chaoswright/pkg/bot"
)

// Interceptor wraps a raw session so every designated operation passes
// through the controller's hooks before and after delegating. It implements
// bot.Session, so a bot written against the raw session runs against it
// unmodified.
//
// The interceptor never swallows or rewrites a result from the underlying
// session: it returns exactly what the real call returned. Chaos adds new
// ways for a call to fail, it never masks an existing one.
type Interceptor struct {
	sess bot.Session
	ctrl *Controller
	ctx  context.Context
}

// Intercept wraps sess with the controller's hooks. ctx is the run's
// context; hooks observe it so an injected delay aborts on cancellation.
func Intercept(ctx context.Context, sess bot.Session, ctrl *Controller) *Interceptor {
	return &Interceptor{sess: sess, ctrl: ctrl, ctx: ctx}
}

// around runs the before hook, the wrapped call, and the after hook. The
// after hook runs even when the call fails, mirroring what the experiments
// were told would happen.
func (i *Interceptor) around(action Action, call func() error) error {
	i.ctrl.Hook(i.ctx, Point{Phase: Before, Action: action})
	defer i.ctrl.Hook(i.ctx, Point{Phase: After, Action: action})
	return call()
}

func (i *Interceptor) Goto(url string) error {
	return i.around(ActionGoto, func() error { return i.sess.Goto(url) })
}

func (i *Interceptor) Click(selector string) error {
	return i.around(ActionClick, func() error { return i.sess.Click(selector) })
}

func (i *Interceptor) Fill(selector, value string) error {
	return i.around(ActionFill, func() error { return i.sess.Fill(selector, value) })
}

func (i *Interceptor) Type(selector, text string) error {
	return i.around(ActionType, func() error { return i.sess.Type(selector, text) })
}

func (i *Interceptor) Press(selector, key string) error {
	return i.around(ActionPress, func() error { return i.sess.Press(selector, key) })
}

func (i *Interceptor) WaitForSelector(selector string) error {
	return i.around(ActionWait, func() error { return i.sess.WaitForSelector(selector) })
}

// Count is a read-only query; it is forwarded without hooks so bots can poll
// page state cheaply between retries.
func (i *Interceptor) Count(selector string) (int, error) {
	return i.sess.Count(selector)
}

// Evaluate is forwarded without hooks: it is the mechanism experiments and
// bots use to inspect the page, not an interaction chaos should pile onto.
func (i *Interceptor) Evaluate(script string, args ...interface{}) (interface{}, error) {
	return i.sess.Evaluate(script, args...)
}

func (i *Interceptor) SetDefaultTimeout(d time.Duration) {
	i.sess.SetDefaultTimeout(d)
}

func (i *Interceptor) SetNetworkConditions(cond bot.NetworkConditions) error {
	return i.sess.SetNetworkConditions(cond)
}
