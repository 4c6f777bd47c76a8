package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/haasonsaas/chaoswright/pkg/bot"
)

// defaultTimeout bounds individual page operations until a bot overrides it.
const defaultTimeout = 30 * time.Second

// PlaywrightFactory launches sessions backed by a shared Playwright driver
// and one Chromium browser per session. Sessions are created and destroyed
// strictly sequentially, one per run.
type PlaywrightFactory struct {
	pw *playwright.Playwright
}

// NewPlaywrightFactory installs the Playwright driver if needed and starts
// it. Call Close when the harness is done with all runs.
func NewPlaywrightFactory() (*PlaywrightFactory, error) {
	if err := playwright.Install(&playwright.RunOptions{Verbose: false}); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	return &PlaywrightFactory{pw: pw}, nil
}

// New launches a Chromium browser with a fresh context and page.
func (f *PlaywrightFactory) New(ctx context.Context, opts Options) (Session, error) {
	if opts.ViewportWidth == 0 {
		opts.ViewportWidth = 1280
	}
	if opts.ViewportHeight == 0 {
		opts.ViewportHeight = 800
	}
	if opts.DefaultTimeout == 0 {
		opts.DefaultTimeout = defaultTimeout
	}

	browser, err := f.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
	})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(float64(opts.DefaultTimeout.Milliseconds()))

	s := &playwrightSession{
		id:      fmt.Sprintf("session-%s", uuid.NewString()[:8]),
		browser: browser,
		ctx:     browserCtx,
		page:    page,
	}

	// Network emulation needs a CDP channel (Chromium only). When it cannot
	// be opened the session still works; network chaos just reports errors.
	if cdp, err := browserCtx.NewCDPSession(page); err == nil {
		if _, err := cdp.Send("Network.enable", map[string]interface{}{}); err == nil {
			s.cdp = cdp
		}
	}

	return s, nil
}

// Close stops the shared Playwright driver.
func (f *PlaywrightFactory) Close() error {
	if f.pw == nil {
		return nil
	}
	if err := f.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

// playwrightSession adapts one Playwright page to the bot.Session surface.
type playwrightSession struct {
	id      string
	browser playwright.Browser
	ctx     playwright.BrowserContext
	page    playwright.Page
	cdp     playwright.CDPSession
}

func (s *playwrightSession) ID() string { return s.id }

func (s *playwrightSession) Goto(url string) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	return err
}

func (s *playwrightSession) Click(selector string) error {
	return s.page.Click(selector)
}

func (s *playwrightSession) Fill(selector, value string) error {
	return s.page.Fill(selector, value)
}

func (s *playwrightSession) Type(selector, text string) error {
	return s.page.Type(selector, text)
}

func (s *playwrightSession) Press(selector, key string) error {
	return s.page.Press(selector, key)
}

func (s *playwrightSession) WaitForSelector(selector string) error {
	_, err := s.page.WaitForSelector(selector)
	return err
}

func (s *playwrightSession) Count(selector string) (int, error) {
	return s.page.Locator(selector).Count()
}

func (s *playwrightSession) Evaluate(script string, args ...interface{}) (interface{}, error) {
	if len(args) == 1 {
		return s.page.Evaluate(script, args[0])
	}
	if len(args) > 1 {
		return s.page.Evaluate(script, args)
	}
	return s.page.Evaluate(script)
}

func (s *playwrightSession) SetDefaultTimeout(d time.Duration) {
	s.page.SetDefaultTimeout(float64(d.Milliseconds()))
}

// SetNetworkConditions maps the harness's network model onto CDP's
// Network.emulateNetworkConditions. CDP expects throughput in bytes per
// second and -1 for "no limit".
func (s *playwrightSession) SetNetworkConditions(cond bot.NetworkConditions) error {
	if s.cdp == nil {
		return fmt.Errorf("network emulation unavailable: no CDP session")
	}

	downBps, upBps := -1, -1
	if cond.DownloadKbps > 0 {
		downBps = cond.DownloadKbps * 1024 / 8
	}
	if cond.UploadKbps > 0 {
		upBps = cond.UploadKbps * 1024 / 8
	}

	_, err := s.cdp.Send("Network.emulateNetworkConditions", map[string]interface{}{
		"offline":            cond.Offline,
		"latency":            cond.Latency.Milliseconds(),
		"downloadThroughput": downBps,
		"uploadThroughput":   upBps,
	})
	return err
}

// Close tears down page, context, and browser in order. Errors are collected
// so a failing page close never leaks the browser process.
func (s *playwrightSession) Close() error {
	var firstErr error
	if s.page != nil {
		if err := s.page.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.ctx != nil {
		if err := s.ctx.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
