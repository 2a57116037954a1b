package extract

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/use-agent/adscout/models"
)

// Defaults used when a field cannot be derived from the document.
const (
	DefaultTitle       = "No title available"
	DefaultDescription = "No description found"
	DefaultProductName = "Unknown Product"
	DefaultBrandName   = "Unknown Brand"
)

// minDescriptionLength rejects placeholder meta descriptions.
const minDescriptionLength = 10

// Fields applies the product heuristics to doc. pageURL is the requested
// URL; its hostname stands in for a missing og:site_name.
//
// Fields never fails. Every string field of the result is non-empty and
// Images is never nil.
func Fields(doc Document, pageURL string, filter *ImageFilter) models.Product {
	productName := firstText(doc, "h1")
	if productName == "" {
		productName = Title(doc)
	}
	// DefaultTitle is a display placeholder, not a product name.
	if productName == DefaultTitle {
		productName = DefaultProductName
	}

	return models.Product{
		BrandName:          brandName(doc, pageURL),
		ProductName:        productName,
		ProductDescription: description(doc),
		Images:             Images(doc, filter),
	}
}

// Title returns the trimmed document title or DefaultTitle. Fields uses it
// as the product name when the page has no h1.
func Title(doc Document) string {
	if title := strings.TrimSpace(doc.Title()); title != "" {
		return title
	}
	return DefaultTitle
}

// description prefers a meaningful meta description, then the first
// paragraph, then the first heading.
func description(doc Document) string {
	if meta := attr(doc, `meta[name="description"]`, "content"); utf8.RuneCountInString(meta) >= minDescriptionLength {
		return meta
	}
	if p := firstText(doc, "p"); p != "" {
		return p
	}
	if h1 := firstText(doc, "h1"); h1 != "" {
		return h1
	}
	return DefaultDescription
}

func brandName(doc Document, pageURL string) string {
	if site := attr(doc, `meta[property="og:site_name"]`, "content"); site != "" {
		return site
	}
	if u, err := url.Parse(pageURL); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return DefaultBrandName
}

// Images collects the filtered image sources of every <img> in document
// order. Absolute http(s) sources are kept as-is; relative ones are resolved
// against the origin of doc.BaseURL(), or dropped when the document does
// not resolve.
func Images(doc Document, filter *ImageFilter) []string {
	if filter == nil {
		filter = DefaultImageFilter()
	}
	origin := originOf(doc.BaseURL())

	images := []string{}
	for _, el := range doc.All("img") {
		src := resolve(el.Source(), origin)
		if src == "" || !filter.IsProductImage(src) {
			continue
		}
		images = append(images, src)
	}
	return images
}

// lazyAttrs are checked in order for an image source; lazy-loading
// storefronts leave src empty until the image scrolls into view.
var lazyAttrs = []string{"src", "data-src", "data-srcset"}

// LazyImages is Images for pages that lazy-load their imagery: the source
// comes from the first non-empty lazy attribute, the filter runs on that raw
// value, and survivors are resolved against doc.BaseURL().
func LazyImages(doc Document, filter *ImageFilter) []string {
	if filter == nil {
		filter = DefaultImageFilter()
	}
	base := doc.BaseURL()

	images := []string{}
	for _, el := range doc.All("img") {
		src := lazySource(el)
		if src == "" || !filter.IsProductImage(src) {
			continue
		}
		if abs := resolve(src, base); abs != "" {
			images = append(images, abs)
		}
	}
	return images
}

func lazySource(el Element) string {
	for _, name := range lazyAttrs {
		if v, ok := el.Attr(name); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

func resolve(src string, base *url.URL) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	if strings.HasPrefix(src, "http") {
		return src
	}
	if base == nil {
		return ""
	}
	ref, err := url.Parse(src)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func originOf(u *url.URL) *url.URL {
	if u == nil || u.Scheme == "" || u.Host == "" {
		return nil
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}
}

func firstText(doc Document, selector string) string {
	el, ok := doc.First(selector)
	if !ok {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

func attr(doc Document, selector, name string) string {
	el, ok := doc.First(selector)
	if !ok {
		return ""
	}
	v, _ := el.Attr(name)
	return strings.TrimSpace(v)
}
