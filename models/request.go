package models

// Fetch modes accepted by ProductRequest.FetchMode.
const (
	FetchModeAuto    = "auto"
	FetchModeStatic  = "static"
	FetchModeBrowser = "browser"
)

// ProductRequest is the payload for POST /api/v1/products.
type ProductRequest struct {
	// URL is the product page to scrape. Required.
	URL string `json:"url" binding:"required,url"`

	// FetchMode controls the tier selection.
	// "auto" (default): static fetch first, render only when no product image survives.
	// "static": static fetch only.
	// "browser": headless Chrome only.
	FetchMode string `json:"fetch_mode,omitempty" binding:"omitempty,oneof=auto static browser"`
}

// Defaults applies default values to unset fields.
func (r *ProductRequest) Defaults() {
	if r.FetchMode == "" {
		r.FetchMode = FetchModeAuto
	}
}

// AdRequest is the payload for POST /createAd and POST /api/v1/ads.
type AdRequest struct {
	// URL is the product page to scrape. Required.
	URL string `json:"url" binding:"required,url"`

	// Gender selects the demographic phrasing: "female" or "male".
	// Any other value produces a prompt without the extra phrasing.
	Gender string `json:"gender"`

	// AgeGroup is one of "9-18", "18-25", "25-40", "40-60", "60+".
	AgeGroup string `json:"ageGroup"`

	// FetchMode is forwarded to the dispatcher. Default: "auto".
	FetchMode string `json:"fetch_mode,omitempty" binding:"omitempty,oneof=auto static browser"`
}

// Defaults applies default values to unset fields.
func (r *AdRequest) Defaults() {
	if r.FetchMode == "" {
		r.FetchMode = FetchModeAuto
	}
}

// ManualAdRequest is the payload for POST /generateAdPrompt and
// POST /api/v1/ads/manual. Every field is required.
type ManualAdRequest struct {
	BrandName           string `json:"brandName" binding:"required"`
	ProductName         string `json:"productName" binding:"required"`
	ProductDescription  string `json:"productDescription" binding:"required"`
	TargetAudience      string `json:"targetAudience" binding:"required"`
	UniqueSellingPoints string `json:"uniqueSellingPoints" binding:"required"`
}

// ImageRequest is the payload for POST /image-proxy and POST /api/v1/images.
type ImageRequest struct {
	// URL is the page to render. Required.
	URL string `json:"url" binding:"required,url"`
}
