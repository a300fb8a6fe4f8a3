package llm

import (
	"context"
	"time"

	"resume-fit/internal/shared/lazy"
	"resume-fit/internal/shared/telemetry"
)

// Lazy is a Client whose provider is constructed on first Generate. Startup
// never fails for a missing key; the first request does.
type Lazy struct {
	provider string
	client   *lazy.Value[Client]
}

// NewLazy wraps build, which should return ErrMissingAPIKey when no key is set.
func NewLazy(provider string, build func(ctx context.Context) (Client, error)) *Lazy {
	wrapped := func(ctx context.Context) (Client, error) {
		started := time.Now()
		c, err := build(ctx)
		if err != nil {
			telemetry.Error("llm.init.failed", map[string]any{"provider": provider, "err": err})
			return nil, err
		}
		telemetry.Info("llm.init", map[string]any{
			"provider":    provider,
			"duration_ms": float64(time.Since(started).Microseconds()) / 1000.0,
		})
		return c, nil
	}
	return &Lazy{provider: provider, client: lazy.New(wrapped, nil)}
}

// Generate implements Client.
func (l *Lazy) Generate(ctx context.Context, req Request) (string, error) {
	c, err := l.client.Get(ctx)
	if err != nil {
		return "", err
	}
	return c.Generate(ctx, req)
}

// Provider returns the configured provider name.
func (l *Lazy) Provider() string { return l.provider }

// Close drops the provider. Later calls fail.
func (l *Lazy) Close() error { return l.client.Close() }

var _ Client = (*Lazy)(nil)
