package scraper

import (
	"net/url"

	"github.com/go-rod/rod"
	"github.com/use-agent/adscout/extract"
)

// Ensure document implements extract.Document at compile time.
var _ extract.Document = (*document)(nil)

// document adapts a settled rod page to extract.Document. Every query is a
// CDP round trip; failures read as "no match" or "".
type document struct {
	page *rod.Page
	base *url.URL
}

func newDocument(p *rod.Page, pageURL string) *document {
	href := evalStringOrEmpty(p, `() => window.location.href`)
	if href == "" {
		href = pageURL
	}
	base, err := url.Parse(href)
	if err != nil {
		base = nil
	}
	return &document{page: p, base: base}
}

func (d *document) Title() string {
	return evalStringOrEmpty(d.page, `() => document.title`)
}

func (d *document) First(selector string) (extract.Element, bool) {
	has, el, err := d.page.Has(selector)
	if err != nil || !has {
		return nil, false
	}
	return element{el: el}, true
}

func (d *document) All(selector string) []extract.Element {
	els, err := d.page.Elements(selector)
	if err != nil {
		return nil
	}
	out := make([]extract.Element, 0, len(els))
	for _, el := range els {
		out = append(out, element{el: el})
	}
	return out
}

// BaseURL is the page's location after redirects and client-side routing.
func (d *document) BaseURL() *url.URL { return d.base }

type element struct {
	el *rod.Element
}

func (e element) Text() string {
	text, err := e.el.Text()
	if err != nil {
		return ""
	}
	return text
}

func (e element) Attr(name string) (string, bool) {
	v, err := e.el.Attribute(name)
	if err != nil || v == nil {
		return "", false
	}
	return *v, true
}

// Source reads the src property, which the browser has already resolved
// to an absolute URL.
func (e element) Source() string {
	v, err := e.el.Property("src")
	if err != nil {
		return ""
	}
	return v.Str()
}
