package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// Client abstracts LLM providers. Generate returns the raw model text; an
// empty string with a nil error means the model produced nothing.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Request is a single structured-output generation call.
type Request struct {
	System      string
	Prompt      string
	Schema      *Schema
	Temperature float32
}

// Hash returns a stable digest of the prompt text, for correlating logs
// without writing resume content to them.
func (r Request) Hash() string {
	sum := sha256.Sum256([]byte(r.System + "\n\n" + r.Prompt))
	return hex.EncodeToString(sum[:])
}

// ErrMissingAPIKey is returned on first use when the provider has no key.
var ErrMissingAPIKey = errors.New("API key is not configured")
