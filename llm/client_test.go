package llm_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/adscout/config"
	"github.com/use-agent/adscout/llm"
	"github.com/use-agent/adscout/models"
)

const completion = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4",
  "choices": [{
    "index": 0,
    "finish_reason": "stop",
    "message": {"role": "assistant", "content": "  Step into speed with Acme.  "}
  }]
}`

func newClient(t *testing.T, h http.HandlerFunc) *llm.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return llm.NewClient(config.LLMConfig{
		APIKey:     "sk-test",
		BaseURL:    srv.URL,
		Model:      "gpt-4",
		MaxTokens:  150,
		MaxRetries: 0,
	}, nil)
}

func TestClient_Generate(t *testing.T) {
	t.Parallel()

	t.Run("sends system and user messages and returns the first choice", func(t *testing.T) {
		t.Parallel()

		bodies := make(chan map[string]any, 1)
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			raw, _ := io.ReadAll(r.Body)
			var body map[string]any
			_ = json.Unmarshal(raw, &body)
			bodies <- body
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, completion)
		})

		text, err := c.Generate(context.Background(), "Sell these shoes")

		require.NoError(t, err)
		assert.Equal(t, "Step into speed with Acme.", text)

		body := <-bodies
		assert.Equal(t, "gpt-4", body["model"])
		assert.EqualValues(t, 150, body["max_tokens"])
		messages, ok := body["messages"].([]any)
		require.True(t, ok)
		require.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].(map[string]any)["role"])
		assert.Equal(t, llm.SystemPrompt, messages[0].(map[string]any)["content"])
		assert.Equal(t, "Sell these shoes", messages[1].(map[string]any)["content"])
	})

	tests := []struct {
		name   string
		status int
		code   string
	}{
		{"unauthorized", http.StatusUnauthorized, models.ErrCodeLLMAuthFailure},
		{"rate limited", http.StatusTooManyRequests, models.ErrCodeLLMRateLimited},
		{"server error", http.StatusInternalServerError, models.ErrCodeLLMFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"error":{"message":"org-7f3 quota detail","type":"x"}}`)
			})

			_, err := c.Generate(context.Background(), "prompt")

			require.Error(t, err)
			assert.Equal(t, tt.code, models.ErrorCode(err))

			var se *models.ScrapeError
			require.ErrorAs(t, err, &se)
			assert.NotContains(t, se.ToDetail().Message, "org-7f3")
			assert.Contains(t, err.Error(), "org-7f3")
		})
	}

	t.Run("empty choices is LLM_FAILURE", func(t *testing.T) {
		t.Parallel()

		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","created":0,"model":"gpt-4","choices":[]}`)
		})

		_, err := c.Generate(context.Background(), "prompt")

		assert.Equal(t, models.ErrCodeLLMFailure, models.ErrorCode(err))
	})

	t.Run("markup is stripped from the copy", func(t *testing.T) {
		t.Parallel()

		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","created":0,"model":"gpt-4",`+
				`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant",`+
				`"content":"<b>Light & fast.</b><script>alert(1)</script> Don't wait."}}]}`)
		})

		text, err := c.Generate(context.Background(), "prompt")

		require.NoError(t, err)
		assert.Equal(t, "Light & fast. Don't wait.", text)
	})

	t.Run("missing API key fails without a request", func(t *testing.T) {
		t.Parallel()

		c := llm.NewClient(config.LLMConfig{BaseURL: "http://127.0.0.1:1"}, nil)

		_, err := c.Generate(context.Background(), "prompt")

		assert.Equal(t, models.ErrCodeLLMAuthFailure, models.ErrorCode(err))
	})
}
