package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/use-agent/adscout/extract"
)

func TestImageFilter_IsProductImage(t *testing.T) {
	t.Parallel()

	f := extract.DefaultImageFilter()

	tests := []struct {
		url  string
		want bool
	}{
		{"https://shop.example.com/images/shoe-main.jpg", true},
		{"https://shop.example.com/images/shoe-side.JPEG", true},
		{"https://shop.example.com/images/shoe.png", true},
		{"https://shop.example.com/images/shoe.webp", true},
		{"https://shop.example.com/logo.svg", false},
		{"https://shop.example.com/spinner.gif", false},
		{"https://shop.example.com/cart-icon.png", false},
		{"https://shop.example.com/ICON-cart.png", false},
		{"https://shop.example.com/sprite-sheet.png", false},
		{"https://shop.example.com/tracking-pixel.jpg", false},
		{"https://shop.example.com/grey-box.jpg", false},
		{"https://shop.example.com/gray-box.jpg", false},
		{"https://shop.example.com/sale-sash.png", false},
		{"https://shop.example.com/placeholder.webp", false},
		{"https://shop.example.com/loading.jpg", false},
		{"https://shop.example.com/transparent.png", false},
		{"https://shop.example.com/shoe.jpg?w=800", false},
		{"https://shop.example.com/shoe", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.IsProductImage(tt.url), tt.url)
	}
}

func TestNewImageFilter(t *testing.T) {
	t.Parallel()

	t.Run("custom keywords replace the defaults", func(t *testing.T) {
		t.Parallel()

		f := extract.NewImageFilter([]string{" Logo ", ""})

		assert.Equal(t, []string{"logo"}, f.Keywords())
		assert.False(t, f.IsProductImage("https://x.test/brand-LOGO.png"))
		assert.True(t, f.IsProductImage("https://x.test/cart-icon.png"))
	})

	t.Run("empty list falls back to defaults", func(t *testing.T) {
		t.Parallel()

		f := extract.NewImageFilter([]string{" ", ""})

		assert.Equal(t, extract.DefaultNoiseKeywords, f.Keywords())
	})
}
