package extract

import (
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Ensure StaticDocument implements Document at compile time.
var _ Document = (*StaticDocument)(nil)

// StaticDocument is a script-inert document parsed from raw markup.
// It does not resolve relative URLs: BaseURL always returns nil.
type StaticDocument struct {
	doc *goquery.Document
}

// Parse builds a StaticDocument from raw HTML. Scripts are never executed.
func Parse(r io.Reader) (*StaticDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &StaticDocument{doc: goquery.NewDocumentFromNode(root)}, nil
}

// ParseString is Parse for an in-memory string.
func ParseString(rawHTML string) (*StaticDocument, error) {
	return Parse(strings.NewReader(rawHTML))
}

func (d *StaticDocument) Title() string {
	return d.find("title").First().Text()
}

func (d *StaticDocument) First(selector string) (Element, bool) {
	matches := d.find(selector)
	if matches.Length() == 0 {
		return nil, false
	}
	return staticElement{sel: matches.First()}, true
}

func (d *StaticDocument) All(selector string) []Element {
	matches := d.find(selector)
	elements := make([]Element, 0, matches.Length())
	matches.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, staticElement{sel: s})
	})
	return elements
}

func (d *StaticDocument) BaseURL() *url.URL { return nil }

// find runs a precompiled selector. An invalid selector matches nothing.
func (d *StaticDocument) find(selector string) *goquery.Selection {
	m, ok := compile(selector)
	if !ok {
		return &goquery.Selection{}
	}
	return d.doc.FindMatcher(m)
}

type staticElement struct {
	sel *goquery.Selection
}

func (e staticElement) Text() string { return e.sel.Text() }

func (e staticElement) Attr(name string) (string, bool) { return e.sel.Attr(name) }

func (e staticElement) Source() string { return e.sel.AttrOr("src", "") }

// selectors caches compiled cascadia selectors; the extractor only ever
// uses a handful of them.
var selectors sync.Map // string -> cascadia.Selector

func compile(selector string) (cascadia.Selector, bool) {
	if v, ok := selectors.Load(selector); ok {
		return v.(cascadia.Selector), true
	}
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, false
	}
	selectors.Store(selector, m)
	return m, true
}
