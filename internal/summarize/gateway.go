package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dandihq/dandi-api/internal/cache"
	"github.com/dandihq/dandi-api/internal/config"
)

// PlaceholderSummary stands in whenever summarization fails; the gated
// endpoint never fails a request because of summarization trouble.
var PlaceholderSummary = Summary{Summary: "AI summary unavailable", CoolFacts: []string{}}

type Gateway struct {
	providers        map[string]Provider
	defaultProvider  string
	fallbackProvider string
	maxRetries       int
	timeout          time.Duration
	cache            *cache.Cache
	cacheTTL         time.Duration
}

func NewGateway(cfg config.LLMConfig, c *cache.Cache) *Gateway {
	g := &Gateway{
		providers:        make(map[string]Provider),
		defaultProvider:  cfg.DefaultProvider,
		fallbackProvider: cfg.FallbackProvider,
		maxRetries:       cfg.MaxRetries,
		timeout:          cfg.Timeout,
		cache:            c,
		cacheTTL:         cfg.SummaryCacheTTL,
	}

	if cfg.OpenAIKey != "" {
		g.providers["openai"] = NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel)
	}
	if cfg.AnthropicKey != "" {
		g.providers["anthropic"] = NewAnthropicProvider(cfg.AnthropicKey, cfg.AnthropicModel)
	}

	return g
}

// Summarize returns a README summary for owner/repo, serving from cache when
// possible. It degrades to PlaceholderSummary on any provider failure.
func (g *Gateway) Summarize(ctx context.Context, owner, repo, readme string) *Summary {
	cacheKey := fmt.Sprintf("summary:%s/%s", owner, repo)

	var cached Summary
	if err := g.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached
	}

	s, err := g.summarizeWithFallback(ctx, readme)
	if err != nil {
		slog.Error("summarization failed, using placeholder", "repo", owner+"/"+repo, "error", err)
		placeholder := PlaceholderSummary
		return &placeholder
	}

	if err := g.cache.Set(ctx, cacheKey, s, g.cacheTTL); err != nil {
		slog.Warn("failed to cache summary", "repo", owner+"/"+repo, "error", err)
	}
	return s
}

func (g *Gateway) summarizeWithFallback(ctx context.Context, readme string) (*Summary, error) {
	s, err := g.summarizeWithRetry(ctx, g.defaultProvider, readme)
	if err != nil && g.fallbackProvider != "" && g.fallbackProvider != g.defaultProvider {
		slog.Warn("primary provider failed, trying fallback",
			"primary", g.defaultProvider,
			"fallback", g.fallbackProvider,
			"error", err,
		)
		return g.summarizeWithRetry(ctx, g.fallbackProvider, readme)
	}
	return s, err
}

func (g *Gateway) summarizeWithRetry(ctx context.Context, providerName, readme string) (*Summary, error) {
	p, ok := g.providers[providerName]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", providerName)
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			slog.Debug("retrying summarization", "provider", providerName, "attempt", attempt)
		}

		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		s, err := p.Summarize(callCtx, readme)
		cancel()
		if err == nil {
			return s, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("all retries exhausted for %s: %w", providerName, lastErr)
}
