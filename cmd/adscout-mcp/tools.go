package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// product mirrors the product fields of the API responses.
type product struct {
	BrandName          string   `json:"brandName"`
	ProductName        string   `json:"productName"`
	ProductDescription string   `json:"productDescription"`
	Images             []string `json:"images"`
	Tier               string   `json:"tier"`
}

// adResponse mirrors the /api/v1/ads response.
type adResponse struct {
	product
	AdCopy string `json:"adCopy"`
}

// imageResponse mirrors the /api/v1/images response.
type imageResponse struct {
	Images []string `json:"images"`
}

// errorResponse mirrors the error body every endpoint returns.
type errorResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// apiClient calls the adscout HTTP API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

// post sends payload to path and decodes a 200 response into out. Any other
// status is returned as an error carrying the API's error code.
func (c *apiClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.baseURL, "/")+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if json.Unmarshal(respBody, &e) == nil && e.Error != nil {
			return fmt.Errorf("[%s] %s", e.Error.Code, e.Error.Message)
		}
		return fmt.Errorf("API returned %d", resp.StatusCode)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func handleExtractProduct(c *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		payload := map[string]string{"url": url}
		if mode := request.GetString("fetch_mode", ""); mode != "" {
			payload["fetch_mode"] = mode
		}

		var p product
		if err := c.post(ctx, "/api/v1/products", payload, &p); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatProduct(p)), nil
	}
}

func handleListImages(c *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		var resp imageResponse
		if err := c.post(ctx, "/api/v1/images", map[string]string{"url": url}, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Found %d product images:\n\n", len(resp.Images))
		for _, img := range resp.Images {
			sb.WriteString(img + "\n")
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleCreateAd(c *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		payload := map[string]string{
			"url":      url,
			"gender":   request.GetString("gender", ""),
			"ageGroup": request.GetString("age_group", ""),
		}

		var resp adResponse
		if err := c.post(ctx, "/api/v1/ads", payload, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatProduct(resp.product) + "\n---\n" + resp.AdCopy), nil
	}
}

func formatProduct(p product) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Brand: %s\n", p.BrandName)
	fmt.Fprintf(&sb, "Product: %s\n", p.ProductName)
	fmt.Fprintf(&sb, "Description: %s\n", p.ProductDescription)
	if p.Tier != "" {
		fmt.Fprintf(&sb, "Tier: %s\n", p.Tier)
	}
	fmt.Fprintf(&sb, "Images (%d):\n", len(p.Images))
	for _, img := range p.Images {
		sb.WriteString("  " + img + "\n")
	}
	return sb.String()
}
