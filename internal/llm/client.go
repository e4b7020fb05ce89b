package llm

import (
	"context"
)

// Client generates text completions. The merge suggester is the only
// consumer; it always expects a JSON object back.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
