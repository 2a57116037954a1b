package extract

import (
	"regexp"
	"strings"
)

// DefaultNoiseKeywords is the canonical list of URL substrings that mark an
// image as decoration rather than product photography.
var DefaultNoiseKeywords = []string{
	"loading",
	"sprite",
	"icon",
	"transparent",
	"grey",
	"gray",
	"pixel",
	"gif",
	"svg",
	"sash",
	"placeholder",
}

// productFormat matches raster formats at the very end of the URL, so a
// query string disqualifies an otherwise valid image.
var productFormat = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp)$`)

// ImageFilter classifies image URLs as product imagery or noise.
// It is immutable and safe for concurrent use.
type ImageFilter struct {
	keywords []string
}

// NewImageFilter creates a filter with the given noise keywords.
// Keywords are matched case-insensitively. An empty list selects
// DefaultNoiseKeywords.
func NewImageFilter(keywords []string) *ImageFilter {
	kw := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			kw = append(kw, k)
		}
	}
	if len(kw) == 0 {
		kw = append(kw, DefaultNoiseKeywords...)
	}
	return &ImageFilter{keywords: kw}
}

// DefaultImageFilter returns a filter using DefaultNoiseKeywords.
func DefaultImageFilter() *ImageFilter {
	return NewImageFilter(nil)
}

// IsProductImage reports whether rawURL ends in a raster image extension and
// contains none of the noise keywords.
func (f *ImageFilter) IsProductImage(rawURL string) bool {
	if !productFormat.MatchString(rawURL) {
		return false
	}
	lower := strings.ToLower(rawURL)
	for _, k := range f.keywords {
		if strings.Contains(lower, k) {
			return false
		}
	}
	return true
}

// Keywords returns a copy of the filter's noise keywords.
func (f *ImageFilter) Keywords() []string {
	return append([]string(nil), f.keywords...)
}
