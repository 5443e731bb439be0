package ai

import "context"

// CompletionClient is the minimal surface the screening pipeline needs from a
// model backend: send one prompt, get the raw text back. Token usage is
// returned alongside so callers can report cost; it may be nil when the
// backend does not provide it.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
