// Package llm generates ad copy through an OpenAI-compatible chat
// completions API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/use-agent/adscout/config"
	"github.com/use-agent/adscout/models"
)

// SystemPrompt frames every completion.
const SystemPrompt = "You are an AI that generates ad copy."

// CopyWriter turns a prompt into ad copy.
type CopyWriter interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Ensure Client implements CopyWriter at compile time.
var _ CopyWriter = (*Client)(nil)

// Client is a CopyWriter backed by the openai-go SDK.
type Client struct {
	api       openai.Client
	apiKey    string
	model     string
	maxTokens int
	sanitizer *bluemonday.Policy
}

// NewClient creates a Client from config. Requests are logged at debug
// level through logger.
func NewClient(cfg config.LLMConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
		option.WithMiddleware(requestLogMiddleware(logger)),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 150
	}

	return &Client{
		api:       openai.NewClient(opts...),
		apiKey:    cfg.APIKey,
		model:     model,
		maxTokens: maxTokens,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Generate sends prompt as the user message and returns the first choice
// as plain text. Failures are ScrapeErrors with an LLM_* code.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", models.NewScrapeError(models.ErrCodeLLMAuthFailure, "no API key configured", nil)
	}

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(int64(c.maxTokens)),
	})
	if err != nil {
		return "", classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return "", models.NewScrapeError(models.ErrCodeLLMFailure, "LLM returned no choices", nil)
	}

	text := c.plainText(resp.Choices[0].Message.Content)
	if text == "" {
		return "", models.NewScrapeError(models.ErrCodeLLMFailure, "LLM returned empty content", nil)
	}
	return text, nil
}

// plainText strips any markup the model emitted. The copy is rendered by
// browser front ends.
func (c *Client) plainText(content string) string {
	return strings.TrimSpace(html.UnescapeString(c.sanitizer.Sanitize(content)))
}

// classifyError maps API status codes to LLM error codes. Messages are
// fixed per code; the provider's own text stays in the wrapped error.
func classifyError(err error) *models.ScrapeError {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return models.NewScrapeError(models.ErrCodeLLMFailure, "LLM request failed", err)
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return models.NewScrapeError(models.ErrCodeLLMAuthFailure, "LLM provider rejected the credentials", err)
	case http.StatusTooManyRequests:
		return models.NewScrapeError(models.ErrCodeLLMRateLimited, "LLM provider rate limit reached", err)
	default:
		return models.NewScrapeError(models.ErrCodeLLMFailure,
			fmt.Sprintf("LLM provider returned status %d", apiErr.StatusCode), err)
	}
}

func requestLogMiddleware(logger *slog.Logger) option.Middleware {
	return func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
		begin := time.Now()
		resp, err := next(req)
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		logger.Debug("llm request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"duration", time.Since(begin),
			"err", err,
		)
		return resp, err
	}
}
