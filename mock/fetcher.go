package mock

import (
	"context"

	"github.com/use-agent/adscout/engine"
)

var _ engine.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of engine.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*engine.FetchResult, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*engine.FetchResult, error) {
	return f.FetchFn(ctx, url)
}
