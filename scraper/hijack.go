package scraper

import (
	"net/url"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// resourceTypes maps config names to CDP resource types.
var resourceTypes = map[string]proto.NetworkResourceType{
	"Image":      proto.NetworkResourceTypeImage,
	"Stylesheet": proto.NetworkResourceTypeStylesheet,
	"Font":       proto.NetworkResourceTypeFont,
	"Media":      proto.NetworkResourceTypeMedia,
	"Script":     proto.NetworkResourceTypeScript,
}

// trackerHosts are ad, analytics and consent hosts that never carry
// product content. Subdomains match too.
var trackerHosts = map[string]struct{}{
	"doubleclick.net":       {},
	"googlesyndication.com": {},
	"googleadservices.com":  {},
	"google-analytics.com":  {},
	"googletagmanager.com":  {},
	"googletagservices.com": {},
	"connect.facebook.net":  {},
	"adnxs.com":             {},
	"adsrvr.org":            {},
	"amazon-adsystem.com":   {},
	"criteo.com":            {},
	"criteo.net":            {},
	"outbrain.com":          {},
	"taboola.com":           {},
	"pubmatic.com":          {},
	"rubiconproject.com":    {},
	"scorecardresearch.com": {},
	"hotjar.com":            {},
	"mixpanel.com":          {},
	"segment.io":            {},
	"optimizely.com":        {},
	"demdex.net":            {},
	"bluekai.com":           {},
	"consensu.org":          {},
	"onetrust.com":          {},
	"cookielaw.org":         {},
}

// isTrackerHost reports whether host or one of its parent domains is a
// known tracker.
func isTrackerHost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for host != "" {
		if _, ok := trackerHosts[host]; ok {
			return true
		}
		idx := strings.IndexByte(host, '.')
		if idx < 0 {
			break
		}
		host = host[idx+1:]
	}
	return false
}

// requestPolicy decides per request whether the page may load it.
type requestPolicy struct {
	blocked      map[proto.NetworkResourceType]struct{}
	blockTracker bool
}

// newRequestPolicy builds a policy from config. Unknown type names are
// ignored. It returns nil when nothing would ever be blocked.
func newRequestPolicy(blockedTypes []string, blockTrackers bool) *requestPolicy {
	blocked := make(map[proto.NetworkResourceType]struct{}, len(blockedTypes))
	for _, name := range blockedTypes {
		if rt, ok := resourceTypes[name]; ok {
			blocked[rt] = struct{}{}
		}
	}
	if len(blocked) == 0 && !blockTrackers {
		return nil
	}
	return &requestPolicy{blocked: blocked, blockTracker: blockTrackers}
}

func (p *requestPolicy) allow(rt proto.NetworkResourceType, rawURL string) bool {
	if _, ok := p.blocked[rt]; ok {
		return false
	}
	if p.blockTracker {
		if u, err := url.Parse(rawURL); err == nil && isTrackerHost(u.Hostname()) {
			return false
		}
	}
	return true
}

// setupHijack installs the request policy on page. It returns the running
// router so the caller can stop it, or nil when the policy is empty.
func setupHijack(page *rod.Page, blockedTypes []string, blockTrackers bool) *rod.HijackRouter {
	policy := newRequestPolicy(blockedTypes, blockTrackers)
	if policy == nil {
		return nil
	}

	router := page.HijackRequests()
	_ = router.Add("*", "", func(h *rod.Hijack) {
		if !policy.allow(h.Request.Type(), h.Request.URL().String()) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})

	// Run blocks until Stop.
	go router.Run()

	return router
}
