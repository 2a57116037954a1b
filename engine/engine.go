// Package engine runs the two extraction tiers: a static HTTP fetch and,
// when that yields no usable imagery, a headless browser render.
package engine

import (
	"context"

	"github.com/use-agent/adscout/extract"
)

// Fetcher retrieves raw markup without executing scripts.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Renderer loads a page in a real browser, waits for the network to settle
// and hands the live document to use. The document is only valid for the
// duration of use; the browser is released before Render returns.
type Renderer interface {
	Render(ctx context.Context, url string, use func(extract.Document) error) error
}

// FetchResult is the output of a successful static fetch.
type FetchResult struct {
	// HTML is the response body decoded to UTF-8.
	HTML        string
	StatusCode  int
	FinalURL    string
	ContentType string
}
