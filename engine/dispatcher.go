package engine

import (
	"context"
	"log/slog"

	"github.com/use-agent/adscout/extract"
	"github.com/use-agent/adscout/models"
)

// scrapeFailedMessage is the only description of an extraction failure a
// caller ever sees.
const scrapeFailedMessage = "failed to scrape product data"

// Dispatcher runs the tiers strictly in sequence: the static fetch first,
// the browser render only when the static result carries too few product
// images. A dynamic result replaces the static one entirely.
type Dispatcher struct {
	fetcher         Fetcher
	renderer        Renderer
	filter          *extract.ImageFilter
	minStaticImages int
	logger          *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithImageFilter sets the filter both tiers apply to image sources.
func WithImageFilter(f *extract.ImageFilter) DispatcherOption {
	return func(d *Dispatcher) {
		if f != nil {
			d.filter = f
		}
	}
}

// WithMinStaticImages sets how many filtered images the static tier must
// produce to be accepted. Zero accepts any static result.
func WithMinStaticImages(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n >= 0 {
			d.minStaticImages = n
		}
	}
}

// WithLogger sets the logger used for tier transitions.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher creates a Dispatcher that accepts a static result with at
// least one product image.
func NewDispatcher(fetcher Fetcher, renderer Renderer, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		fetcher:         fetcher,
		renderer:        renderer,
		filter:          extract.DefaultImageFilter(),
		minStaticImages: 1,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Extract returns the product found at pageURL.
//
// mode is one of models.FetchModeAuto (the default for ""),
// models.FetchModeStatic or models.FetchModeBrowser. Any failure that
// exhausts the selected tiers is reported as SCRAPE_FAILED.
func (d *Dispatcher) Extract(ctx context.Context, pageURL, mode string) (*models.ProductResult, error) {
	switch mode {
	case models.FetchModeStatic:
		product, err := d.static(ctx, pageURL)
		if err != nil {
			return nil, d.scrapeFailed(pageURL, err)
		}
		return &models.ProductResult{Product: *product, Tier: models.TierStatic}, nil

	case models.FetchModeBrowser:
		return d.dynamic(ctx, pageURL)
	}

	// ── 1. Static tier ──────────────────────────────────────────────
	product, err := d.static(ctx, pageURL)
	switch {
	case err != nil:
		d.logger.Warn("static tier failed, falling back to browser",
			"url", pageURL, "error", err)
	case len(product.Images) >= d.minStaticImages:
		return &models.ProductResult{Product: *product, Tier: models.TierStatic}, nil
	default:
		d.logger.Warn("static tier found too few images, falling back to browser",
			"url", pageURL, "images", len(product.Images), "min", d.minStaticImages)
	}

	if ctx.Err() != nil {
		return nil, d.scrapeFailed(pageURL, ctx.Err())
	}

	// ── 2. Dynamic tier ─────────────────────────────────────────────
	return d.dynamic(ctx, pageURL)
}

// Images renders pageURL and returns its filtered images, honouring
// lazy-load attributes. Used by the image proxy.
func (d *Dispatcher) Images(ctx context.Context, pageURL string) ([]string, error) {
	var images []string
	err := d.renderer.Render(ctx, pageURL, func(doc extract.Document) error {
		images = extract.LazyImages(doc, d.filter)
		return nil
	})
	if err != nil {
		return nil, d.scrapeFailed(pageURL, err)
	}
	return images, nil
}

func (d *Dispatcher) static(ctx context.Context, pageURL string) (*models.Product, error) {
	result, err := d.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := extract.ParseString(result.HTML)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeFetch, "parse markup", err)
	}
	product := extract.Fields(doc, pageURL, d.filter)
	return &product, nil
}

func (d *Dispatcher) dynamic(ctx context.Context, pageURL string) (*models.ProductResult, error) {
	var product models.Product
	err := d.renderer.Render(ctx, pageURL, func(doc extract.Document) error {
		product = extract.Fields(doc, pageURL, d.filter)
		return nil
	})
	if err != nil {
		return nil, d.scrapeFailed(pageURL, err)
	}
	return &models.ProductResult{Product: product, Tier: models.TierDynamic}, nil
}

func (d *Dispatcher) scrapeFailed(pageURL string, cause error) error {
	d.logger.Error("extraction failed", "url", pageURL, "error", cause)
	return models.NewScrapeError(models.ErrCodeScrape, scrapeFailedMessage, cause)
}
