package engine

import (
	"context"
	"crypto/x509"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	tls "github.com/refraction-networking/utls"
	"github.com/use-agent/adscout/config"
	"github.com/use-agent/adscout/models"
	"golang.org/x/net/html/charset"
)

// Ensure HTTPEngine implements Fetcher at compile time.
var _ Fetcher = (*HTTPEngine)(nil)

// maxBody caps how much of a response is read.
const maxBody = 10 << 20

// HTTPEngine is the static tier: one GET with browser-like headers and a
// Chrome TLS fingerprint. It never executes scripts.
type HTTPEngine struct {
	client    *http.Client
	userAgent string
	rootCAs   *x509.CertPool
	dial      func(ctx context.Context, network, addr string) (net.Conn, error)
}

// HTTPOption configures an HTTPEngine.
type HTTPOption func(*HTTPEngine)

// WithTimeout sets the overall deadline for a fetch, redirects included.
func WithTimeout(d time.Duration) HTTPOption {
	return func(e *HTTPEngine) { e.client.Timeout = d }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(e *HTTPEngine) {
		if ua != "" {
			e.userAgent = ua
		}
	}
}

// WithRootCAs replaces the system roots used to verify servers.
func WithRootCAs(pool *x509.CertPool) HTTPOption {
	return func(e *HTTPEngine) { e.rootCAs = pool }
}

// chromeH1Spec builds a Chrome-like TLS ClientHello with ALPN forced to
// http/1.1. ApplyPreset mutates the extensions it is given (SNI, GREASE,
// key shares), so every connection needs its own spec.
func chromeH1Spec() (tls.ClientHelloSpec, error) {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return tls.ClientHelloSpec{}, err
	}
	// Go's http.Transport cannot speak h2 over a utls connection.
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	return spec, nil
}

// NewHTTPEngine creates an HTTPEngine with a 15s timeout and the default
// desktop Chrome User-Agent.
func NewHTTPEngine(opts ...HTTPOption) *HTTPEngine {
	e := &HTTPEngine{
		userAgent: config.DefaultUserAgent,
		dial:      (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
	}
	e.client = &http.Client{
		Transport: &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			DialTLSContext:    e.dialChromeTLS,
			ForceAttemptHTTP2: false,
		},
		Timeout: 15 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *HTTPEngine) dialChromeTLS(ctx context.Context, network, addr string) (net.Conn, error) {
	spec, err := chromeH1Spec()
	if err != nil {
		return nil, fmt.Errorf("http_engine: build tls spec: %w", err)
	}
	conn, err := e.dial(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls.UClient(conn, &tls.Config{ServerName: host, RootCAs: e.rootCAs}, tls.HelloCustom)
	if err := tlsConn.ApplyPreset(&spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("http_engine: apply tls spec: %w", err)
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return tlsConn, nil
}

// Fetch performs the GET. Transport errors, timeouts, non-2xx statuses and
// non-HTML bodies are reported as FETCH_FAILED.
func (e *HTTPEngine) Fetch(ctx context.Context, url string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeFetch, "invalid request URL", err)
	}

	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeFetch, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, models.NewScrapeError(models.ErrCodeFetch,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	ct := resp.Header.Get("Content-Type")
	if !isHTMLContentType(ct) {
		return nil, models.NewScrapeError(models.ErrCodeFetch,
			fmt.Sprintf("non-html content type %q", ct), nil)
	}

	// charset.NewReader sniffs <meta charset> when the header is silent.
	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBody), ct)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeFetch, "unsupported charset", err)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeFetch, "read body", err)
	}

	return &FetchResult{
		HTML:        string(raw),
		StatusCode:  resp.StatusCode,
		FinalURL:    resp.Request.URL.String(),
		ContentType: ct,
	}, nil
}

// isHTMLContentType reports whether ct looks like HTML. A missing header
// is accepted; the parser copes with whatever arrives.
func isHTMLContentType(ct string) bool {
	if ct == "" {
		return true
	}
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}
