// Package scraper renders pages in a headless Chromium driven by go-rod and
// exposes the settled DOM as an extract.Document.
package scraper

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/adscout/config"
	"github.com/use-agent/adscout/engine"
	"github.com/use-agent/adscout/extract"
	"github.com/ysmood/gson"
)

// Ensure Renderer implements engine.Renderer at compile time.
var _ engine.Renderer = (*Renderer)(nil)

// Renderer launches an isolated browser for every Render call and tears it
// down before returning. No browser state is shared between calls.
type Renderer struct {
	browserCfg config.BrowserConfig
	scraperCfg config.ScraperConfig
}

// NewRenderer creates a Renderer. It does not start a browser.
func NewRenderer(browserCfg config.BrowserConfig, scraperCfg config.ScraperConfig) *Renderer {
	if scraperCfg.UserAgent == "" {
		scraperCfg.UserAgent = config.DefaultUserAgent
	}
	return &Renderer{browserCfg: browserCfg, scraperCfg: scraperCfg}
}

// Render loads pageURL, waits for the network to settle and calls use with
// the live document.
//
// Lifecycle:
//
//  1. Timeout guard      – NavigationTimeout bounds the whole call
//  2. Launch             – fresh browser, DEFER kill + profile cleanup
//  3. Open page          – DEFER page close
//  4. Identity           – User-Agent, Accept-Language, Referer, stealth
//  5. Hijack mount       – resource / ad blocking (optional)
//  6. Idle listener      – MUST be registered before Navigate
//  7. Navigate + wait
//  8. Scroll             – optional, for lazy-loaded images
//  9. use(doc)
//
// Any failure in steps 2-7 is a RENDER_FAILED ScrapeError. Errors returned
// by use are passed through unchanged.
func (r *Renderer) Render(ctx context.Context, pageURL string, use func(extract.Document) error) error {
	// ── 1. Timeout guard ──────────────────────────────────────────────
	if r.scraperCfg.NavigationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.scraperCfg.NavigationTimeout)
		defer cancel()
	}

	// ── 2. Launch ─────────────────────────────────────────────────────
	browser, release, err := r.launch(ctx)
	if err != nil {
		return err
	}
	defer release()

	// ── 3. Open page ──────────────────────────────────────────────────
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return categorizeError(err, "failed to open page")
	}
	defer func() { _ = page.Close() }()

	// ── 4. Identity ───────────────────────────────────────────────────
	if r.browserCfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      r.scraperCfg.UserAgent,
		AcceptLanguage: acceptLanguage,
	}); err != nil {
		return categorizeError(err, "failed to set user agent")
	}
	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(extraHeaders(pageURL)),
	}.Call(page)

	// ── 5. Hijack mount ───────────────────────────────────────────────
	router := setupHijack(page, r.scraperCfg.BlockedResourceTypes, r.scraperCfg.BlockAds)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	// ── 6. Bind request context and register the idle waiter ─────────
	p := page.Context(ctx)

	// WaitRequestIdle shares the Fetch domain with HijackRequests, so a
	// hijacked page falls back to DOM stability.
	var waitIdle func()
	if router == nil {
		waitIdle = p.WaitRequestIdle(r.idleWindow(), nil, nil, nil)
	}

	// ── 7. Navigate + wait ────────────────────────────────────────────
	if err := p.Navigate(pageURL); err != nil {
		return categorizeError(err, "navigation to target URL failed")
	}
	if waitIdle != nil {
		waitIdle()
	} else if stableErr := p.WaitDOMStable(r.idleWindow(), 0.1); stableErr != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
			"error", stableErr,
		)
	}
	if err := ctx.Err(); err != nil {
		return categorizeError(err, "page did not settle")
	}

	// ── 8. Scroll ─────────────────────────────────────────────────────
	if n := r.scraperCfg.ScrollViewports; n > 0 {
		if err := scrollViewports(p, n, r.idleWindow()); err != nil {
			slog.Debug("scroll failed, extracting current DOM", "url", pageURL, "error", err)
		}
	}

	// ── 9. Hand the live document to the caller ───────────────────────
	return use(newDocument(p, pageURL))
}

// launch starts a browser and returns it with a release func that closes
// the connection, kills the process and removes its profile directory.
func (r *Renderer) launch(ctx context.Context) (*rod.Browser, func(), error) {
	l := launcher.New().
		Context(ctx).
		Headless(r.browserCfg.Headless).
		NoSandbox(r.browserCfg.NoSandbox)

	if r.browserCfg.BrowserBin != "" {
		l = l.Bin(r.browserCfg.BrowserBin)
	}
	if r.browserCfg.DefaultProxy != "" {
		l = l.Proxy(r.browserCfg.DefaultProxy)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, nil, categorizeError(err, "failed to launch browser")
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, nil, categorizeError(err, "failed to connect to browser")
	}

	release := func() {
		if closeErr := browser.Close(); closeErr != nil {
			slog.Debug("browser close failed, killing process", "error", closeErr)
		}
		l.Kill()
		l.Cleanup()
	}
	return browser, release, nil
}

func (r *Renderer) idleWindow() time.Duration {
	if r.scraperCfg.IdleWindow > 0 {
		return r.scraperCfg.IdleWindow
	}
	return 500 * time.Millisecond
}

// scrollViewports scrolls down n viewports, pausing between steps so
// lazy-load observers can fire.
func scrollViewports(p *rod.Page, n int, pause time.Duration) error {
	res, err := p.Eval(`() => window.innerHeight`)
	if err != nil {
		return err
	}
	height := float64(res.Value.Int())
	for i := 0; i < n; i++ {
		if err := p.Mouse.Scroll(0, height, 0); err != nil {
			return err
		}
		select {
		case <-time.After(pause):
		case <-p.GetContext().Done():
			return p.GetContext().Err()
		}
	}
	return nil
}

const acceptLanguage = "en-US,en;q=0.9"

// extraHeaders returns the headers sent with every request of the page.
// A search-engine Referer makes the visit look like organic traffic.
func extraHeaders(pageURL string) map[string]string {
	headers := map[string]string{"Accept-Language": acceptLanguage}
	if u, err := url.Parse(pageURL); err == nil && u.Hostname() != "" {
		headers["Referer"] = "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())
	}
	return headers
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors (useful for optional metadata extraction).
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}
