package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	apiURL := os.Getenv("ADSCOUT_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:5001"
	}

	s := server.NewMCPServer(
		"adscout",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	// Renders can take a full navigation timeout on top of the static fetch.
	c := &apiClient{
		baseURL: apiURL,
		http:    &http.Client{Timeout: 150 * time.Second},
	}

	extractProductTool := mcp.NewTool("extract_product",
		mcp.WithDescription("Extract brand, product name, description and product images from a product page. Tries a fast static fetch first and renders the page in a headless browser when no product image is found."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The absolute URL of the product page"),
		),
		mcp.WithString("fetch_mode",
			mcp.Description("Tier selection: 'auto' (default), 'static' (no browser) or 'browser' (always render)"),
			mcp.Enum("auto", "static", "browser"),
		),
	)
	s.AddTool(extractProductTool, handleExtractProduct(c))

	listImagesTool := mcp.NewTool("list_product_images",
		mcp.WithDescription("Render a page in a headless browser and list its product images, including lazy-loaded ones. Icons, sprites, placeholders, GIFs and SVGs are filtered out."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The absolute URL of the page"),
		),
	)
	s.AddTool(listImagesTool, handleListImages(c))

	createAdTool := mcp.NewTool("create_ad",
		mcp.WithDescription("Scrape a product page and generate ad copy targeted at a demographic."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The absolute URL of the product page"),
		),
		mcp.WithString("gender",
			mcp.Description("Target gender"),
			mcp.Enum("female", "male"),
		),
		mcp.WithString("age_group",
			mcp.Description("Target age group"),
			mcp.Enum("9-18", "18-25", "25-40", "40-60", "60+"),
		),
	)
	s.AddTool(createAdTool, handleCreateAd(c))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
