package mock

import (
	"context"

	"github.com/use-agent/adscout/engine"
	"github.com/use-agent/adscout/extract"
)

var _ engine.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of engine.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, url string, use func(extract.Document) error) error
}

func (r *Renderer) Render(ctx context.Context, url string, use func(extract.Document) error) error {
	return r.RenderFn(ctx, url, use)
}

// RenderHTML returns a RenderFn that serves html as the rendered document.
func RenderHTML(html string) func(ctx context.Context, url string, use func(extract.Document) error) error {
	return func(_ context.Context, _ string, use func(extract.Document) error) error {
		doc, err := extract.ParseString(html)
		if err != nil {
			return err
		}
		return use(doc)
	}
}
