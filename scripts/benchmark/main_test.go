package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/health":
			_, _ = io.WriteString(w, `{"status":"healthy"}`)
		case "/api/v1/products":
			_, _ = io.WriteString(w, `{"success":true,"productName":"Shoe","images":["https://x.com/a.jpg","https://x.com/b.jpg"],"tier":"dynamic"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	var stdout, stderr bytes.Buffer
	err := Run(context.Background(),
		[]string{"--api-url", srv.URL, "-n", "2", "-o", "", "https://shop.example.com/p"},
		&stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "dynamic  2 images")
	assert.Contains(t, stdout.String(), "0/2")
}

func TestRun_UnreachableAPI(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), []string{"--api-url", "http://127.0.0.1:1", "-o", ""}, &stdout, &stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot reach API")
}

func TestSummarize(t *testing.T) {
	s := summarize([]runResult{
		{Success: true, TotalMs: 100, Tier: "static", Images: 3},
		{Success: true, TotalMs: 300, Tier: "dynamic", Images: 5},
		{Success: false, Error: "boom"},
	})

	require.NotNil(t, s)
	assert.InDelta(t, 200, s.AvgMs, 0.001)
	assert.Equal(t, 1, s.StaticRuns)
	assert.Equal(t, 1, s.DynamicRuns)
	assert.Equal(t, 5, s.MaxImages)
	assert.InDelta(t, 2.0/3.0, s.SuccessRatio, 0.001)
	assert.Nil(t, summarize([]runResult{{Success: false}}))
}
