package mock

import (
	"context"

	"github.com/use-agent/adscout/llm"
)

var _ llm.CopyWriter = (*CopyWriter)(nil)

// CopyWriter is a mock implementation of llm.CopyWriter.
type CopyWriter struct {
	GenerateFn func(ctx context.Context, prompt string) (string, error)
}

func (c *CopyWriter) Generate(ctx context.Context, prompt string) (string, error) {
	return c.GenerateFn(ctx, prompt)
}
