// Package extract derives product fields from a queryable HTML document.
//
// The heuristics are written once against the Document interface. Static
// markup (StaticDocument, parsed without running scripts) and a live
// browser DOM (see package scraper) both satisfy it, so the two scraping
// tiers share one rule set.
package extract

import "net/url"

// Document is a queryable HTML document.
//
// Implementations never fail: a query that cannot be answered returns the
// zero value, and the extractor falls back to its defaults.
type Document interface {
	// Title returns the text of the document's <title>, or "".
	Title() string

	// First returns the first element matching selector in document order.
	First(selector string) (Element, bool)

	// All returns every element matching selector in document order.
	All(selector string) []Element

	// BaseURL returns the URL relative image sources resolve against, or nil
	// when the provider does not resolve relative sources.
	BaseURL() *url.URL
}

// Element is a single matched element.
type Element interface {
	// Text returns the element's text content.
	Text() string

	// Attr returns the named attribute and whether it was present.
	Attr(name string) (string, bool)

	// Source returns the image source as the provider exposes it: the raw
	// src attribute for static markup, the browser-resolved src property
	// for a rendered page.
	Source() string
}
