package ai

import "context"

// Request is one text-generation call.
type Request struct {
	System string
	Prompt string
	JSON   bool // ask the provider for a JSON object response

	// Check, when set, rejects a response the caller cannot use. A rejected
	// response counts as a provider failure.
	Check func(text string) error
}

// Provider sends a prompt to a language model and returns the raw text
// response. Any returned error means the provider produced no verdict.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}
