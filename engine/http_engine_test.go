package engine_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/adscout/engine"
	"github.com/use-agent/adscout/models"
)

func TestHTTPEngine_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns HTML with browser headers", func(t *testing.T) {
		t.Parallel()

		gotUA := make(chan string, 1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA <- r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/html")
			_, _ = io.WriteString(w, "<html><body>Hello</body></html>")
		}))
		defer srv.Close()

		result, err := engine.NewHTTPEngine(engine.WithUserAgent("adscout-test")).Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, "<html><body>Hello</body></html>", result.HTML)
		assert.Equal(t, http.StatusOK, result.StatusCode)
		assert.Equal(t, srv.URL, result.FinalURL)
		assert.Equal(t, "adscout-test", <-gotUA)
	})

	t.Run("decodes legacy charsets to UTF-8", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			_, _ = w.Write([]byte("<h1>Caf\xe9</h1>"))
		}))
		defer srv.Close()

		result, err := engine.NewHTTPEngine().Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, "<h1>Café</h1>", result.HTML)
	})

	t.Run("non-2xx status is FETCH_FAILED", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := engine.NewHTTPEngine().Fetch(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Equal(t, models.ErrCodeFetch, models.ErrorCode(err))
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("non-html body is FETCH_FAILED", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"ok":true}`)
		}))
		defer srv.Close()

		_, err := engine.NewHTTPEngine().Fetch(context.Background(), srv.URL)

		assert.Equal(t, models.ErrCodeFetch, models.ErrorCode(err))
	})

	t.Run("timeout is FETCH_FAILED", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		_, err := engine.NewHTTPEngine(engine.WithTimeout(10*time.Millisecond)).Fetch(context.Background(), srv.URL)

		assert.Equal(t, models.ErrCodeFetch, models.ErrorCode(err))
	})

	t.Run("unreachable host is FETCH_FAILED", func(t *testing.T) {
		t.Parallel()

		_, err := engine.NewHTTPEngine(engine.WithTimeout(100*time.Millisecond)).
			Fetch(context.Background(), "http://non-existent-host.invalid/page")

		assert.Equal(t, models.ErrCodeFetch, models.ErrorCode(err))
	})
}

func TestLoggingFetcher(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<p>hi</p>")
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	f := engine.NewLoggingFetcher(engine.NewHTTPEngine(), logger)

	_, err := f.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "static fetch")
	assert.Contains(t, buf.String(), "bytes=9")
	assert.Contains(t, buf.String(), "status=200")
}
