package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callTool(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestHandleExtractProduct(t *testing.T) {
	payloads := make(chan map[string]string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		var p map[string]string
		_ = json.Unmarshal(raw, &p)
		payloads <- p
		_, _ = io.WriteString(w, `{"success":true,"brandName":"Acme","productName":"Sneaker",`+
			`"productDescription":"Fast","images":["https://x.com/a.jpg"],"tier":"static"}`)
	}))
	defer srv.Close()

	c := &apiClient{baseURL: srv.URL, http: srv.Client()}
	res, err := handleExtractProduct(c)(context.Background(), callTool(map[string]any{
		"url":        "https://acme.com/p",
		"fetch_mode": "static",
	}))

	require.NoError(t, err)
	assert.False(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "Brand: Acme")
	assert.Contains(t, text, "Tier: static")
	assert.Contains(t, text, "https://x.com/a.jpg")
	assert.Equal(t, map[string]string{"url": "https://acme.com/p", "fetch_mode": "static"}, <-payloads)
}

func TestHandleCreateAd_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `{"success":false,"error":{"code":"SCRAPE_FAILED","message":"failed to scrape product data"}}`)
	}))
	defer srv.Close()

	c := &apiClient{baseURL: srv.URL, http: srv.Client()}
	res, err := handleCreateAd(c)(context.Background(), callTool(map[string]any{"url": "https://acme.com/p"}))

	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "[SCRAPE_FAILED] failed to scrape product data", resultText(t, res))
}

func TestHandleListImages_MissingURL(t *testing.T) {
	res, err := handleListImages(&apiClient{})(context.Background(), callTool(map[string]any{}))

	require.NoError(t, err)
	assert.True(t, res.IsError)
}
