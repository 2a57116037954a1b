//go:build integration

package scraper_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/adscout/config"
	"github.com/use-agent/adscout/extract"
	"github.com/use-agent/adscout/models"
	"github.com/use-agent/adscout/scraper"
)

func newRenderer(t *testing.T) *scraper.Renderer {
	t.Helper()
	cfg := config.Load()
	cfg.Browser.Headless = true
	cfg.Browser.NoSandbox = true
	cfg.Scraper.NavigationTimeout = 30 * time.Second
	return scraper.NewRenderer(cfg.Browser, cfg.Scraper)
}

// scriptedPage builds its product markup client-side, so a static fetch
// sees no images.
const scriptedPage = `<!DOCTYPE html>
<html><head><title>Scripted</title>
<meta property="og:site_name" content="Acme"></head>
<body><div id="app"></div>
<script>
document.getElementById('app').innerHTML =
  '<h1>Acme Sneaker</h1><p>Rendered description</p>' +
  '<img src="/img/shoe.jpg"><img src="/img/icon-cart.png">' +
  '<img data-src="/img/lazy.webp">';
</script></body></html>`

func TestRenderer_Render(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, scriptedPage)
	}))
	defer srv.Close()

	var product models.Product
	var lazy []string
	err := newRenderer(t).Render(context.Background(), srv.URL+"/product", func(doc extract.Document) error {
		product = extract.Fields(doc, srv.URL+"/product", nil)
		lazy = extract.LazyImages(doc, nil)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "Acme", product.BrandName)
	assert.Equal(t, "Acme Sneaker", product.ProductName)
	assert.Equal(t, "Rendered description", product.ProductDescription)
	assert.Equal(t, []string{srv.URL + "/img/shoe.jpg"}, product.Images)
	assert.Equal(t, []string{srv.URL + "/img/shoe.jpg", srv.URL + "/img/lazy.webp"}, lazy)
}

func TestRenderer_Render_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := newRenderer(t).Render(ctx, "https://example.com", func(extract.Document) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.False(t, called)
	assert.Equal(t, models.ErrCodeRender, models.ErrorCode(err))
}
