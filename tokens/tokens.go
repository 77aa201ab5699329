// Package tokens estimates the token footprint of text handed to an LLM.
//
// The default estimate is the chars/4 heuristic used throughout the Frizy
// core: rough, cheap, and monotonic. Hosts that need exact counts can use
// Counter, which calls Anthropic's count-tokens API with caching and falls
// back to the heuristic when the API is unavailable.
package tokens

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

// Approximate estimates tokens as serialized characters divided by four,
// rounded up. Any non-empty string counts at least one token. This is a
// documented heuristic, not an exact count; adding text never decreases
// the estimate.
func Approximate(content string) int {
	return (len(content) + 3) / 4
}

// Counter provides token counting backed by Anthropic's count-tokens API,
// with result caching and an Approximate fallback.
type Counter struct {
	client *anthropic.Client
	model  string
	useAPI bool
	cache  map[string]int
}

// NewCounter creates a token counter. If useAPI is false or client is nil,
// Count always uses the approximation.
func NewCounter(client *anthropic.Client, model string, useAPI bool) *Counter {
	return &Counter{
		client: client,
		model:  model,
		useAPI: useAPI && client != nil,
		cache:  make(map[string]int),
	}
}

// Count returns the token count for the content, using the API when
// configured and falling back to Approximate on any API failure.
func (c *Counter) Count(ctx context.Context, content string) int {
	if content == "" {
		return 0
	}
	if !c.useAPI {
		return Approximate(content)
	}

	key := c.cacheKey(content)
	if count, ok := c.cache[key]; ok {
		return count
	}

	resp, err := c.client.Messages.CountTokens(ctx, anthropic.MessageCountTokensParams{
		Model: anthropic.Model(c.model),
		Messages: []anthropic.MessageParam{
			{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(content),
				},
			},
		},
	})
	if err != nil {
		return Approximate(content)
	}

	count := int(resp.InputTokens)
	c.cache[key] = count
	return count
}

// cacheKey generates a cache key for content.
func (c *Counter) cacheKey(content string) string {
	hash := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%s:%x", c.model, hash[:8])
}
