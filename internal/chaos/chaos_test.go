package chaos

import (
	"sync"
	"time"

	"github.com/haasonsaas/chaoswright/internal/observability"
	"github.com/haasonsaas/chaoswright/pkg/bot"
)

// fakeSession records every call made against it. Network-condition changes
// are mutex-protected because the restore timer touches them from a
// background goroutine.
type fakeSession struct {
	mu         sync.Mutex
	calls      []string
	scripts    []string
	conditions []bot.NetworkConditions

	gotoErr  error
	clickErr error
	evalErr  error
	netErr   error
}

func (f *fakeSession) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeSession) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeSession) Conditions() []bot.NetworkConditions {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]bot.NetworkConditions, len(f.conditions))
	copy(out, f.conditions)
	return out
}

func (f *fakeSession) Goto(url string) error {
	f.record("goto:" + url)
	return f.gotoErr
}

func (f *fakeSession) Click(selector string) error {
	f.record("click:" + selector)
	return f.clickErr
}

func (f *fakeSession) Fill(selector, value string) error {
	f.record("fill:" + selector)
	return nil
}

func (f *fakeSession) Type(selector, text string) error {
	f.record("type:" + selector)
	return nil
}

func (f *fakeSession) Press(selector, key string) error {
	f.record("press:" + selector)
	return nil
}

func (f *fakeSession) WaitForSelector(selector string) error {
	f.record("wait:" + selector)
	return nil
}

func (f *fakeSession) Count(selector string) (int, error) {
	f.record("count:" + selector)
	return 1, nil
}

func (f *fakeSession) Evaluate(script string, args ...interface{}) (interface{}, error) {
	f.mu.Lock()
	f.scripts = append(f.scripts, script)
	f.mu.Unlock()
	f.record("evaluate")
	return nil, f.evalErr
}

func (f *fakeSession) SetDefaultTimeout(d time.Duration) {
	f.record("set_default_timeout")
}

func (f *fakeSession) SetNetworkConditions(cond bot.NetworkConditions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.netErr != nil {
		return f.netErr
	}
	f.conditions = append(f.conditions, cond)
	return nil
}

func newTestRunContext(seed int64) (*RunContext, *observability.MemoryTimeline) {
	timeline := observability.NewMemoryTimeline(1000)
	return NewRunContext("run-test", seed, timeline, nil), timeline
}
