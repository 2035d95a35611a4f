package llm

import (
	"context"
)

// Completer is a text-completion provider. Implementations are expected to
// honor the configured temperature and return the raw response text; callers
// own all parsing and validation of the output.
type Completer interface {
	// Complete sends a single-turn prompt and returns the response text
	Complete(ctx context.Context, prompt string) (string, error)

	// Name identifies the provider for logging
	Name() string
}
